package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"

	"comanda_pos/constants"
	"comanda_pos/database"
	"comanda_pos/model"

	"github.com/gofiber/contrib/websocket"
	"github.com/redis/go-redis/v9"
)

var (
	redisClient = redis.NewClient(&redis.Options{Addr: redisAddr()})

	clients = make(map[uint]map[*websocket.Conn]bool)
	mu      sync.Mutex
)

func redisAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

// MesaBoard es el snapshot que ven las pantallas de cocina y de meseros.
type MesaBoard struct {
	MesaID  uint           `json:"mesaId"`
	Comanda *model.Comanda `json:"comanda"` // nil si la mesa está libre
}

// WebSocketConnection maneja la conexión WS de una mesa
func WebSocketConnection(c *websocket.Conn) {
	mesaIdStr := c.Params("id")
	id64, _ := strconv.ParseUint(mesaIdStr, 10, 64)
	mesaId := uint(id64)

	// Al desconectar → eliminar cliente
	defer func() {
		mu.Lock()
		if clients[mesaId] != nil {
			delete(clients[mesaId], c)
		}
		mu.Unlock()
		c.Close()
	}()

	mu.Lock()
	if clients[mesaId] == nil {
		clients[mesaId] = make(map[*websocket.Conn]bool)
	}
	clients[mesaId][c] = true
	mu.Unlock()

	// Snapshot inicial
	board, err := fetchMesaBoard(mesaId)
	if err == nil {
		c.WriteJSON(board)
	}

	// Sub canal Redis de la mesa
	pubsub := redisClient.Subscribe(
		context.Background(),
		fmt.Sprintf("mesa:%d", mesaId),
	)
	defer pubsub.Close()

	channel := pubsub.Channel()

	for msg := range channel {
		payload := []byte(msg.Payload)

		mu.Lock()
		for conn := range clients[mesaId] {
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				conn.Close()
				delete(clients[mesaId], conn)
			}
		}
		mu.Unlock()
	}
}

func fetchMesaBoard(mesaId uint) (*MesaBoard, error) {
	var comanda model.Comanda
	err := database.DB.
		Preload("Detalles").
		Preload("Detalles.Producto").
		Where("mesa_id = ? AND estado = ?", mesaId, constants.COMANDA_ABIERTA).
		First(&comanda).Error
	if err != nil {
		// Mesa libre
		return &MesaBoard{MesaID: mesaId, Comanda: nil}, nil
	}
	return &MesaBoard{MesaID: mesaId, Comanda: &comanda}, nil
}

// PublishComanda publica el estado actual de la mesa de una comanda en Redis
// para que las pantallas suscritas se actualicen.
func PublishComanda(comandaId uint) {
	var comanda model.Comanda
	if err := database.DB.First(&comanda, comandaId).Error; err != nil {
		log.Printf("Error cargando comanda %d para publicar: %v", comandaId, err)
		return
	}
	PublishMesa(comanda.MesaID)
}

// PublishMesa publica el snapshot del tablero de una mesa.
func PublishMesa(mesaId uint) {
	board, err := fetchMesaBoard(mesaId)
	if err != nil {
		log.Printf("Error armando tablero de mesa %d: %v", mesaId, err)
		return
	}

	payload, err := json.Marshal(board)
	if err != nil {
		log.Printf("Error serializando tablero de mesa %d: %v", mesaId, err)
		return
	}

	if err := redisClient.Publish(
		context.Background(),
		fmt.Sprintf("mesa:%d", mesaId),
		payload,
	).Err(); err != nil {
		log.Printf("Error publicando tablero de mesa %d: %v", mesaId, err)
	}
}
