package handler

import (
	"comanda_pos/database"
	"comanda_pos/model"
	"comanda_pos/utils"

	"github.com/gofiber/fiber/v2"
)

// GET /api/v1/productos — menú activo agrupado por categoría (solo lectura)
func GetProductos(c *fiber.Ctx) error {
	var categorias []model.Categoria
	if err := database.DB.
		Preload("Productos", "activo = true").
		Order("nombre asc").
		Find(&categorias).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Error cargando el menú", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, categorias)
}

// GET /api/v1/metodos-pago — métodos de pago activos
func GetMetodosPago(c *fiber.Ctx) error {
	var metodos []model.MetodoPago
	if err := database.DB.
		Where("activo = true").
		Order("id asc").
		Find(&metodos).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Error cargando métodos de pago", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, metodos)
}
