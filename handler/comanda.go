package handler

import (
	"encoding/base64"
	"log"

	"comanda_pos/database"
	"comanda_pos/model"
	"comanda_pos/utils"

	"github.com/gofiber/fiber/v2"
)

// GET /api/v1/orders — historial de comandas, filtrable por estado
func GetComandas(c *fiber.Ctx) error {
	query := database.DB.
		Preload("Mesa").
		Preload("Detalles").
		Order("created_at desc")

	if estado := c.Query("estado"); estado != "" {
		query = query.Where("estado = ?", estado)
	}

	var pagination model.Pagination
	if limit := c.QueryInt("limit"); limit > 0 {
		pagination.Limit = utils.Ptr(limit)
	}
	if page := c.QueryInt("page"); page > 0 {
		pagination.Page = utils.Ptr(page)
	}
	query = utils.ApplyPagination(query, pagination.Limit, pagination.Page)

	var comandas []model.Comanda
	if err := query.Find(&comandas).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Error cargando comandas", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, comandas)
}

// POST /api/v1/orders
func CrearComanda(c *fiber.Ctx) error {
	input := c.Locals("input").(model.CrearComandaInput)

	comanda, err := comandaService().Crear(input)
	if err != nil {
		return serviceError(c, err)
	}

	PublishComanda(comanda.ID)
	return utils.SuccessResponse(c, fiber.StatusCreated, comanda)
}

// GET /api/v1/orders/:orderId
func GetComanda(c *fiber.Ctx) error {
	comandaId := uint(c.Locals("inputId").(int))

	comanda, err := comandaService().Buscar(comandaId)
	if err != nil {
		return serviceError(c, err)
	}

	// QR del código público para que el cliente consulte su cuenta
	qrBase64 := ""
	qrBytes, err := utils.GenerateQRCode(comanda.PublicCode, 256)
	if err != nil {
		log.Printf("Error generando QR para comanda %s: %v", comanda.PublicCode, err)
	} else {
		qrBase64 = "data:image/png;base64," + base64.StdEncoding.EncodeToString(qrBytes)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"order":  comanda,
		"qrCode": qrBase64,
	})
}

// GET /api/v1/orders/:orderId/lines
func ListarDetalles(c *fiber.Ctx) error {
	comandaId := uint(c.Locals("inputId").(int))

	detalles, err := comandaService().ListarDetalles(comandaId)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, detalles)
}

// POST /api/v1/orders/:orderId/lines
func AgregarProducto(c *fiber.Ctx) error {
	comandaId := uint(c.Locals("inputId").(int))
	input := c.Locals("input").(model.AgregarProductoInput)

	detalle, err := comandaService().AgregarProducto(comandaId, input.ProductoID, input.Cantidad)
	if err != nil {
		return serviceError(c, err)
	}

	PublishComanda(comandaId)
	return utils.SuccessResponse(c, fiber.StatusCreated, detalle)
}

// PUT /api/v1/orders/:orderId/lines — variante con chequeo de pertenencia
func ActualizarCantidadPorComanda(c *fiber.Ctx) error {
	comandaId := uint(c.Locals("inputId").(int))
	input := c.Locals("input").(model.ActualizarCantidadInput)

	detalle, err := comandaService().ActualizarCantidad(input.DetalleID, input.Cantidad, &comandaId)
	if err != nil {
		return serviceError(c, err)
	}

	PublishComanda(comandaId)
	return utils.SuccessResponse(c, fiber.StatusOK, detalle)
}

// PUT /api/v1/lines/:lineId
func ActualizarCantidad(c *fiber.Ctx) error {
	detalleId := uint(c.Locals("inputId").(int))
	input := c.Locals("input").(model.CantidadInput)

	detalle, err := comandaService().ActualizarCantidad(detalleId, input.Cantidad, nil)
	if err != nil {
		return serviceError(c, err)
	}

	PublishComanda(detalle.ComandaID)
	return utils.SuccessResponse(c, fiber.StatusOK, detalle)
}

// DELETE /api/v1/lines/:lineId
func EliminarDetalle(c *fiber.Ctx) error {
	detalleId := uint(c.Locals("inputId").(int))

	comandaId, err := comandaService().EliminarDetalle(detalleId)
	if err != nil {
		return serviceError(c, err)
	}

	PublishComanda(comandaId)
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"success": true})
}

// PUT|POST /api/v1/orders/:orderId/finalize
func CerrarComanda(c *fiber.Ctx) error {
	comandaId := uint(c.Locals("inputId").(int))
	input := c.Locals("input").(model.CerrarComandaInput)

	resultado, err := comandaService().Cerrar(comandaId, input.MetodoPagoID)
	if err != nil {
		return serviceError(c, err)
	}

	PublishComanda(comandaId)
	return utils.SuccessResponse(c, fiber.StatusOK, resultado)
}

// POST /api/v1/orders/:orderId/cancel
func CancelarComanda(c *fiber.Ctx) error {
	comandaId := uint(c.Locals("inputId").(int))

	comanda, err := comandaService().Cancelar(comandaId)
	if err != nil {
		return serviceError(c, err)
	}

	PublishComanda(comandaId)
	return utils.SuccessResponse(c, fiber.StatusOK, comanda)
}
