package handler

import (
	"errors"

	"comanda_pos/constants"
	"comanda_pos/database"
	"comanda_pos/repository"
	"comanda_pos/service"
	"comanda_pos/utils"

	"github.com/gofiber/fiber/v2"
)

func comandaService() *service.ComandaService {
	return service.NewComandaService(repository.New(database.DB))
}

// serviceError traduce los errores tipados del servicio a códigos HTTP.
func serviceError(c *fiber.Ctx, err error) error {
	var (
		validacion   service.ErrValidacion
		noEncontrado service.ErrNoEncontrado
		estado       service.ErrEstado
		conflicto    service.ErrConflicto
	)
	switch {
	case errors.As(err, &validacion):
		return utils.ErrorResponse(c, fiber.StatusBadRequest, validacion.Error(), nil)
	case errors.As(err, &noEncontrado):
		return utils.ErrorResponse(c, fiber.StatusNotFound, noEncontrado.Error(), nil)
	case errors.As(err, &estado):
		return utils.ErrorResponse(c, fiber.StatusBadRequest, estado.Error(), nil)
	case errors.As(err, &conflicto):
		return utils.ErrorResponse(c, fiber.StatusConflict, conflicto.Error(), nil)
	}
	return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
}
