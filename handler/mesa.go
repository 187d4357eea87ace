package handler

import (
	"comanda_pos/constants"
	"comanda_pos/database"
	"comanda_pos/model"
	"comanda_pos/utils"

	"github.com/gofiber/fiber/v2"
)

// GET /api/v1/mesas — tablero de mesas: cada mesa con su comanda abierta si la tiene
func GetMesas(c *fiber.Ctx) error {
	var mesas []model.Mesa
	if err := database.DB.
		Where("activa = true").
		Order("numero asc").
		Find(&mesas).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Error cargando mesas", err)
	}

	var abiertas []model.Comanda
	if err := database.DB.
		Preload("Detalles").
		Where("estado = ?", constants.COMANDA_ABIERTA).
		Find(&abiertas).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Error cargando comandas", err)
	}

	porMesa := make(map[uint]*model.Comanda, len(abiertas))
	for i := range abiertas {
		porMesa[abiertas[i].MesaID] = &abiertas[i]
	}

	response := make([]fiber.Map, 0, len(mesas))
	for _, mesa := range mesas {
		response = append(response, fiber.Map{
			"mesa":    mesa,
			"comanda": porMesa[mesa.ID],
			"ocupada": porMesa[mesa.ID] != nil,
		})
	}

	return utils.SuccessResponse(c, fiber.StatusOK, response)
}
