package validate

import (
	"comanda_pos/helper"
	"comanda_pos/model"
	"comanda_pos/utils"

	"github.com/gofiber/fiber/v2"
)

func CrearComanda() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CrearComandaInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, 400, "Datos inválidos", err)
		}
		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, 400, err.Error(), err)
		}
		// Si el body no trae userId, se toma del token
		if input.UsuarioID == 0 {
			input.UsuarioID = helper.GetInfoUsuarioFromToken(c).UsuarioId
		}
		c.Locals("input", input)
		return c.Next()
	}
}

func AgregarProducto() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.AgregarProductoInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, 400, "Datos inválidos", err)
		}
		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, 400, err.Error(), err)
		}
		c.Locals("input", input)
		return c.Next()
	}
}

func ActualizarCantidad() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.ActualizarCantidadInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, 400, "Datos inválidos", err)
		}
		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, 400, err.Error(), err)
		}
		c.Locals("input", input)
		return c.Next()
	}
}

func Cantidad() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CantidadInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, 400, "Datos inválidos", err)
		}
		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, 400, err.Error(), err)
		}
		c.Locals("input", input)
		return c.Next()
	}
}

func CerrarComanda() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CerrarComandaInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, 400, "Datos inválidos", err)
		}
		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, 400, err.Error(), err)
		}
		c.Locals("input", input)
		return c.Next()
	}
}
