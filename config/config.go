package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

var once sync.Once

// Config lee una variable del .env (o del entorno del proceso).
func Config(key string) string {
	once.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("No se encontró archivo .env, se usan variables de entorno")
		}
	})
	return os.Getenv(key)
}
