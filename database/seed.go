package database

import (
	"fmt"
	"log"

	"comanda_pos/constants"
	"comanda_pos/model"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func SeedData(db *gorm.DB) {
	bytes, err := bcrypt.GenerateFromPassword([]byte("admin123"), 10)
	hashPassword := string(bytes)
	if err != nil {
		log.Println("failed to hash seed password:", err)
		return
	}

	usuarios := []model.Usuario{
		{Username: "admin", Password: hashPassword, Nombre: "Administrador", Rol: constants.ROLE_ADMIN, Activo: true},
	}
	for _, usuario := range usuarios {
		if err := db.Where(model.Usuario{Username: usuario.Username}).FirstOrCreate(&usuario).Error; err != nil {
			log.Println("failed to seed usuario:", usuario.Username, "error:", err)
		}
	}

	metodos := []model.MetodoPago{
		{Nombre: "Efectivo", Activo: true},
		{Nombre: "Tarjeta", Activo: true},
		{Nombre: "Transferencia", Activo: true},
	}
	for _, metodo := range metodos {
		if err := db.Where(model.MetodoPago{Nombre: metodo.Nombre}).FirstOrCreate(&metodo).Error; err != nil {
			log.Println("failed to seed metodo de pago:", metodo.Nombre, "error:", err)
		}
	}

	categorias := map[string][]model.Producto{
		"Bebidas": {
			{Nombre: "Agua mineral", Precio: decimal.NewFromFloat(15.00), Activo: true},
			{Nombre: "Refresco", Precio: decimal.NewFromFloat(25.00), Activo: true},
			{Nombre: "Cerveza", Precio: decimal.NewFromFloat(45.00), Activo: true},
		},
		"Entradas": {
			{Nombre: "Guacamole", Precio: decimal.NewFromFloat(60.00), Activo: true},
			{Nombre: "Queso fundido", Precio: decimal.NewFromFloat(75.00), Activo: true},
		},
		"Platos fuertes": {
			{Nombre: "Tacos al pastor", Precio: decimal.NewFromFloat(95.00), Activo: true},
			{Nombre: "Enchiladas verdes", Precio: decimal.NewFromFloat(110.00), Activo: true},
			{Nombre: "Arrachera", Precio: decimal.NewFromFloat(185.00), Activo: true},
		},
	}
	for nombre, productos := range categorias {
		categoria := model.Categoria{Nombre: nombre}
		if err := db.Where(model.Categoria{Nombre: nombre}).FirstOrCreate(&categoria).Error; err != nil {
			log.Println("failed to seed categoria:", nombre, "error:", err)
			continue
		}
		for _, producto := range productos {
			producto.CategoriaID = categoria.ID
			if err := db.Where(model.Producto{Nombre: producto.Nombre, CategoriaID: categoria.ID}).
				FirstOrCreate(&producto).Error; err != nil {
				log.Println("failed to seed producto:", producto.Nombre, "error:", err)
			}
		}
	}

	for numero := 1; numero <= 12; numero++ {
		nombre := fmt.Sprintf("Mesa %d", numero)
		mesa := model.Mesa{
			Numero: numero,
			Nombre: nombre,
			Slug:   slug.Make(nombre),
			Activa: true,
		}
		if err := db.Where(model.Mesa{Numero: numero}).FirstOrCreate(&mesa).Error; err != nil {
			log.Println("failed to seed mesa:", numero, "error:", err)
		}
	}
}
