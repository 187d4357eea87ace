package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Comanda struct {
	DTO
	PublicCode  string           `gorm:"unique;size:20" json:"publicCode"` // Código público (ej: CMD-A1B2C3D4)
	MesaID      uint             `gorm:"index;not null" json:"tableId"`
	Mesa        Mesa             `json:"mesa,omitempty"`
	UsuarioID   uint             `gorm:"not null" json:"userId"`
	Estado      string           `gorm:"size:20;default:ABIERTA" json:"state"` // ABIERTA, CERRADA, CANCELADA
	Total       decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"total"`
	Notas       string           `json:"notes"`
	Detalles    []ComandaDetalle `gorm:"foreignKey:ComandaID" json:"lines,omitempty"`
	CerradaAt   *time.Time       `json:"closedAt,omitempty"`
	CanceladaAt *time.Time       `json:"cancelledAt,omitempty"`
}

type CrearComandaInput struct {
	MesaID    uint   `json:"tableId" validate:"required,gt=0"`
	UsuarioID uint   `json:"userId"`
	Notas     string `json:"notes"`
}

type AgregarProductoInput struct {
	ProductoID uint `json:"productId" validate:"required,gt=0"`
	Cantidad   int  `json:"quantity" validate:"required,gt=0"`
}

// ActualizarCantidadInput es la variante por comanda: el body trae el id de la línea.
type ActualizarCantidadInput struct {
	DetalleID uint `json:"lineId" validate:"required,gt=0"`
	Cantidad  int  `json:"quantity" validate:"required,gt=0"`
}

type CantidadInput struct {
	Cantidad int `json:"quantity" validate:"required,gt=0"`
}

type CerrarComandaInput struct {
	MetodoPagoID uint `json:"paymentMethodId" validate:"required,gt=0"`
}
