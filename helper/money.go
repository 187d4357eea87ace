package helper

import (
	"errors"

	"comanda_pos/model"

	"github.com/shopspring/decimal"
)

var (
	ErrCantidadInvalida = errors.New("la cantidad debe ser mayor a cero")
	ErrPrecioInvalido   = errors.New("el precio unitario no puede ser negativo")
)

// Subtotal calcula cantidad × precio unitario redondeado a 2 decimales.
func Subtotal(cantidad int, precioUnitario decimal.Decimal) (decimal.Decimal, error) {
	if cantidad <= 0 {
		return decimal.Zero, ErrCantidadInvalida
	}
	if precioUnitario.IsNegative() {
		return decimal.Zero, ErrPrecioInvalido
	}
	return decimal.NewFromInt(int64(cantidad)).Mul(precioUnitario).Round(2), nil
}

// Total suma las líneas de una comanda recalculando cada subtotal desde
// cantidad × precio_unitario (nunca confía en el subtotal almacenado).
// Lista vacía → 0. El orden de las líneas no afecta el resultado.
func Total(detalles []model.ComandaDetalle) decimal.Decimal {
	total := decimal.Zero
	for _, d := range detalles {
		total = total.Add(decimal.NewFromInt(int64(d.Cantidad)).Mul(d.PrecioUnitario).Round(2))
	}
	return total.Round(2)
}
