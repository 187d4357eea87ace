package model

import "github.com/shopspring/decimal"

// ComandaDetalle es una línea de la comanda. El precio unitario se copia del
// producto al momento de agregarlo y no se vuelve a leer del catálogo.
// Subtotal se recalcula siempre como cantidad × precio_unitario al escribir.
type ComandaDetalle struct {
	DTO
	ComandaID      uint            `gorm:"not null;uniqueIndex:idx_comanda_producto" json:"orderId"`
	ProductoID     uint            `gorm:"not null;uniqueIndex:idx_comanda_producto" json:"productId"`
	Producto       Producto        `json:"product,omitempty"`
	Cantidad       int             `gorm:"not null" json:"quantity"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unitPrice"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
}
