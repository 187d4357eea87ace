package model

import "github.com/shopspring/decimal"

// Pago se crea una única vez, en la misma transacción que cierra la comanda.
// Es inmutable: no hay update ni delete.
type Pago struct {
	DTO
	ComandaID    uint            `gorm:"uniqueIndex;not null" json:"orderId"`
	MetodoPagoID uint            `gorm:"not null" json:"paymentMethodId"`
	MetodoPago   MetodoPago      `json:"metodoPago,omitempty"`
	Monto        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
}

type MetodoPago struct {
	DTO
	Nombre string `gorm:"unique;size:50;not null" json:"nombre"`
	Activo bool   `gorm:"default:true" json:"activo"`
}
