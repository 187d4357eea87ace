package router

import (
	"comanda_pos/handler"
	"comanda_pos/middleware"
	"comanda_pos/validate"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App) {
	api := app.Group("/api", logger.New())
	v1 := api.Group("/v1", logger.New())

	auth := v1.Group("/auth")
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.Logout)

	orders := v1.Group("/orders", logger.New())
	orders.Get("/", middleware.Protected(), handler.GetComandas)
	orders.Post("/", middleware.Protected(), validate.CrearComanda(), handler.CrearComanda)
	orders.Get("/:orderId", middleware.Protected(), validate.GetById("orderId"), handler.GetComanda)
	orders.Get("/:orderId/lines", middleware.Protected(), validate.GetById("orderId"), handler.ListarDetalles)
	orders.Post("/:orderId/lines", middleware.Protected(), validate.GetById("orderId"), validate.AgregarProducto(), handler.AgregarProducto)
	orders.Put("/:orderId/lines", middleware.Protected(), validate.GetById("orderId"), validate.ActualizarCantidad(), handler.ActualizarCantidadPorComanda)
	orders.Put("/:orderId/finalize", middleware.Protected(), validate.GetById("orderId"), validate.CerrarComanda(), handler.CerrarComanda)
	orders.Post("/:orderId/finalize", middleware.Protected(), validate.GetById("orderId"), validate.CerrarComanda(), handler.CerrarComanda)
	orders.Post("/:orderId/cancel", middleware.Protected(), validate.GetById("orderId"), handler.CancelarComanda)

	lines := v1.Group("/lines", logger.New())
	lines.Put("/:lineId", middleware.Protected(), validate.GetById("lineId"), validate.Cantidad(), handler.ActualizarCantidad)
	lines.Delete("/:lineId", middleware.Protected(), validate.GetById("lineId"), handler.EliminarDetalle)

	v1.Get("/mesas", middleware.Protected(), handler.GetMesas)
	v1.Get("/productos", middleware.Protected(), handler.GetProductos)
	v1.Get("/metodos-pago", middleware.Protected(), handler.GetMetodosPago)

	// Tablero en tiempo real por mesa (cocina / meseros)
	v1.Get("/ws/mesa/:id", websocket.New(handler.WebSocketConnection))
}
