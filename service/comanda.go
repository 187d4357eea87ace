package service

import (
	"time"

	"comanda_pos/constants"
	"comanda_pos/helper"
	"comanda_pos/model"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
)

// Repository es el colaborador de almacenamiento del servicio de comandas.
// Las búsquedas devuelven (nil, nil) cuando el registro no existe; cualquier
// error no nulo es un fallo de almacenamiento. FindDetalle y ListDetalles
// resuelven el Producto (con su Categoria) de cada línea.
type Repository interface {
	FindComanda(id uint) (*model.Comanda, error)
	// FindComandaForUpdate bloquea la fila de la comanda durante la
	// transacción (SELECT ... FOR UPDATE). Fuera de RunAtomic equivale a
	// FindComanda.
	FindComandaForUpdate(id uint) (*model.Comanda, error)
	FindComandaAbiertaPorMesa(mesaID uint) (*model.Comanda, error)
	CreateComanda(c *model.Comanda) error
	UpdateComandaTotal(id uint, total decimal.Decimal) error
	CerrarComanda(id uint, total decimal.Decimal, cerradaAt time.Time) error
	CancelarComanda(id uint, canceladaAt time.Time) error

	FindDetalle(id uint) (*model.ComandaDetalle, error)
	FindDetallePorProducto(comandaID, productoID uint) (*model.ComandaDetalle, error)
	ListDetalles(comandaID uint) ([]model.ComandaDetalle, error)
	InsertDetalle(d *model.ComandaDetalle) error
	UpdateDetalleCantidad(id uint, cantidad int, subtotal decimal.Decimal) error
	DeleteDetalle(id uint) error

	FindMesa(id uint) (*model.Mesa, error)
	FindProducto(id uint) (*model.Producto, error)
	FindMetodoPago(id uint) (*model.MetodoPago, error)
	CreatePago(p *model.Pago) error

	// RunAtomic ejecuta fn como una unidad todo-o-nada: si fn devuelve error,
	// toda escritura hecha a través del repositorio recibido se revierte y el
	// error original se propaga sin cambios.
	RunAtomic(fn func(r Repository) error) error
}

type ComandaService struct {
	Repo Repository
}

func NewComandaService(repo Repository) *ComandaService {
	return &ComandaService{Repo: repo}
}

// CierreResultado es lo que devuelve Cerrar: la comanda ya cerrada, el pago
// registrado y el total final recalculado.
type CierreResultado struct {
	Comanda *model.Comanda  `json:"order"`
	Pago    *model.Pago     `json:"payment"`
	Total   decimal.Decimal `json:"total"`
}

// Crear abre una comanda para una mesa. Regla: una sola comanda ABIERTA por
// mesa; si ya existe una, se rechaza con conflicto.
func (s *ComandaService) Crear(in model.CrearComandaInput) (*model.Comanda, error) {
	if in.MesaID == 0 {
		return nil, ErrValidacion("tableId es obligatorio")
	}
	if in.UsuarioID == 0 {
		return nil, ErrValidacion("userId es obligatorio")
	}

	var creada *model.Comanda
	err := s.Repo.RunAtomic(func(r Repository) error {
		mesa, err := r.FindMesa(in.MesaID)
		if err != nil {
			return err
		}
		if mesa == nil {
			return ErrNoEncontrado("la mesa no existe")
		}

		abierta, err := r.FindComandaAbiertaPorMesa(in.MesaID)
		if err != nil {
			return err
		}
		if abierta != nil {
			return ErrConflicto("la mesa ya tiene una comanda abierta")
		}

		comanda := &model.Comanda{
			PublicCode: "CMD-" + uuid.New().String()[:8],
			Estado:     constants.COMANDA_ABIERTA,
			Total:      decimal.Zero,
		}
		copier.Copy(comanda, &in)
		if err := r.CreateComanda(comanda); err != nil {
			return err
		}
		comanda.Mesa = *mesa
		creada = comanda
		return nil
	})
	if err != nil {
		return nil, err
	}
	return creada, nil
}

// Buscar devuelve la comanda con sus líneas y mesa.
func (s *ComandaService) Buscar(comandaID uint) (*model.Comanda, error) {
	comanda, err := s.Repo.FindComanda(comandaID)
	if err != nil {
		return nil, err
	}
	if comanda == nil {
		return nil, ErrNoEncontrado("la comanda no existe")
	}
	return comanda, nil
}

func (s *ComandaService) ListarDetalles(comandaID uint) ([]model.ComandaDetalle, error) {
	comanda, err := s.Repo.FindComanda(comandaID)
	if err != nil {
		return nil, err
	}
	if comanda == nil {
		return nil, ErrNoEncontrado("la comanda no existe")
	}
	return s.Repo.ListDetalles(comandaID)
}

// AgregarProducto agrega un producto a una comanda ABIERTA. Si ya existe una
// línea para ese producto, suma las cantidades sobre la línea existente en
// lugar de crear otra. El precio unitario se captura del catálogo solo al
// crear la línea; en el merge se conserva el precio ya capturado.
// La escritura de la línea y la actualización del total de la comanda son una
// sola unidad atómica.
func (s *ComandaService) AgregarProducto(comandaID, productoID uint, cantidad int) (*model.ComandaDetalle, error) {
	if cantidad <= 0 {
		return nil, ErrValidacion("la cantidad debe ser mayor a cero")
	}

	var resultado *model.ComandaDetalle
	err := s.Repo.RunAtomic(func(r Repository) error {
		comanda, err := r.FindComandaForUpdate(comandaID)
		if err != nil {
			return err
		}
		if comanda == nil {
			return ErrNoEncontrado("la comanda no existe")
		}
		if comanda.Estado != constants.COMANDA_ABIERTA {
			return ErrEstado("la comanda no está abierta")
		}

		producto, err := r.FindProducto(productoID)
		if err != nil {
			return err
		}
		if producto == nil {
			return ErrNoEncontrado("el producto no existe")
		}

		existente, err := r.FindDetallePorProducto(comandaID, productoID)
		if err != nil {
			return err
		}

		var detalleID uint
		if existente != nil {
			nuevaCantidad := existente.Cantidad + cantidad
			subtotal, err := helper.Subtotal(nuevaCantidad, existente.PrecioUnitario)
			if err != nil {
				return ErrValidacion(err.Error())
			}
			if err := r.UpdateDetalleCantidad(existente.ID, nuevaCantidad, subtotal); err != nil {
				return err
			}
			detalleID = existente.ID
		} else {
			subtotal, err := helper.Subtotal(cantidad, producto.Precio)
			if err != nil {
				return ErrValidacion(err.Error())
			}
			nuevo := &model.ComandaDetalle{
				ComandaID:      comandaID,
				ProductoID:     productoID,
				Cantidad:       cantidad,
				PrecioUnitario: producto.Precio,
				Subtotal:       subtotal,
			}
			if err := r.InsertDetalle(nuevo); err != nil {
				return err
			}
			detalleID = nuevo.ID
		}

		if err := s.recalcularTotal(r, comandaID); err != nil {
			return err
		}

		detalle, err := r.FindDetalle(detalleID)
		if err != nil {
			return err
		}
		resultado = detalle
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resultado, nil
}

// ActualizarCantidad cambia la cantidad de una línea y recalcula su subtotal
// con el precio unitario ya capturado (nunca se relee del catálogo). Si se
// pasa comandaID se verifica además que la línea pertenezca a esa comanda.
// Una cantidad ≤ 0 se rechaza: borrar una línea es siempre una operación
// explícita, nunca un efecto de poner cantidad cero.
func (s *ComandaService) ActualizarCantidad(detalleID uint, cantidad int, comandaID *uint) (*model.ComandaDetalle, error) {
	if cantidad <= 0 {
		return nil, ErrValidacion("la cantidad debe ser mayor a cero")
	}

	var resultado *model.ComandaDetalle
	err := s.Repo.RunAtomic(func(r Repository) error {
		detalle, err := r.FindDetalle(detalleID)
		if err != nil {
			return err
		}
		if detalle == nil {
			return ErrNoEncontrado("la línea no existe")
		}
		if comandaID != nil && detalle.ComandaID != *comandaID {
			return ErrNoEncontrado("la línea no pertenece a esa comanda")
		}

		comanda, err := r.FindComandaForUpdate(detalle.ComandaID)
		if err != nil {
			return err
		}
		if comanda == nil {
			return ErrNoEncontrado("la comanda no existe")
		}
		if comanda.Estado != constants.COMANDA_ABIERTA {
			return ErrEstado("la comanda no está abierta")
		}

		subtotal, err := helper.Subtotal(cantidad, detalle.PrecioUnitario)
		if err != nil {
			return ErrValidacion(err.Error())
		}
		if err := r.UpdateDetalleCantidad(detalle.ID, cantidad, subtotal); err != nil {
			return err
		}

		if err := s.recalcularTotal(r, detalle.ComandaID); err != nil {
			return err
		}

		actualizado, err := r.FindDetalle(detalle.ID)
		if err != nil {
			return err
		}
		resultado = actualizado
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resultado, nil
}

// EliminarDetalle borra una línea y recalcula el total de la comanda en la
// misma transacción. Igual que agregar y actualizar, solo opera sobre
// comandas ABIERTAS. Devuelve el id de la comanda dueña de la línea.
func (s *ComandaService) EliminarDetalle(detalleID uint) (uint, error) {
	var comandaID uint
	err := s.Repo.RunAtomic(func(r Repository) error {
		detalle, err := r.FindDetalle(detalleID)
		if err != nil {
			return err
		}
		if detalle == nil {
			return ErrNoEncontrado("la línea no existe")
		}

		comanda, err := r.FindComandaForUpdate(detalle.ComandaID)
		if err != nil {
			return err
		}
		if comanda == nil {
			return ErrNoEncontrado("la comanda no existe")
		}
		if comanda.Estado != constants.COMANDA_ABIERTA {
			return ErrEstado("la comanda no está abierta")
		}

		if err := r.DeleteDetalle(detalle.ID); err != nil {
			return err
		}
		comandaID = detalle.ComandaID
		return s.recalcularTotal(r, detalle.ComandaID)
	})
	if err != nil {
		return 0, err
	}
	return comandaID, nil
}

// Cerrar cobra la comanda: valida que esté ABIERTA, que el método de pago
// exista y esté activo, y que tenga al menos una línea. El total final se
// recalcula de cantidad × precio, sin confiar en comanda.total. El cambio a
// CERRADA y el alta del pago son una sola unidad atómica: nunca puede quedar
// una comanda cerrada sin pago ni un pago sin comanda cerrada.
func (s *ComandaService) Cerrar(comandaID, metodoPagoID uint) (*CierreResultado, error) {
	if metodoPagoID == 0 {
		return nil, ErrValidacion("paymentMethodId es obligatorio")
	}

	var resultado *CierreResultado
	err := s.Repo.RunAtomic(func(r Repository) error {
		comanda, err := r.FindComandaForUpdate(comandaID)
		if err != nil {
			return err
		}
		if comanda == nil {
			return ErrNoEncontrado("la comanda no existe")
		}
		if comanda.Estado != constants.COMANDA_ABIERTA {
			return ErrEstado("la comanda no está abierta")
		}

		metodo, err := r.FindMetodoPago(metodoPagoID)
		if err != nil {
			return err
		}
		if metodo == nil {
			return ErrNoEncontrado("el método de pago no existe")
		}
		if !metodo.Activo {
			return ErrValidacion("el método de pago está inactivo")
		}

		detalles, err := r.ListDetalles(comandaID)
		if err != nil {
			return err
		}
		if len(detalles) == 0 {
			return ErrEstado("la comanda no tiene líneas")
		}

		total := helper.Total(detalles)
		ahora := time.Now()

		if err := r.CerrarComanda(comandaID, total, ahora); err != nil {
			return err
		}

		pago := &model.Pago{
			ComandaID:    comandaID,
			MetodoPagoID: metodoPagoID,
			Monto:        total,
		}
		if err := r.CreatePago(pago); err != nil {
			return err
		}

		cerrada, err := r.FindComanda(comandaID)
		if err != nil {
			return err
		}
		pago.MetodoPago = *metodo
		resultado = &CierreResultado{Comanda: cerrada, Pago: pago, Total: total}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resultado, nil
}

// Cancelar pasa una comanda ABIERTA a CANCELADA. Transición terminal,
// reservada para mesas abandonadas o anulaciones de caja.
func (s *ComandaService) Cancelar(comandaID uint) (*model.Comanda, error) {
	var resultado *model.Comanda
	err := s.Repo.RunAtomic(func(r Repository) error {
		comanda, err := r.FindComandaForUpdate(comandaID)
		if err != nil {
			return err
		}
		if comanda == nil {
			return ErrNoEncontrado("la comanda no existe")
		}
		if comanda.Estado != constants.COMANDA_ABIERTA {
			return ErrEstado("la comanda no está abierta")
		}

		if err := r.CancelarComanda(comandaID, time.Now()); err != nil {
			return err
		}
		cancelada, err := r.FindComanda(comandaID)
		if err != nil {
			return err
		}
		resultado = cancelada
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resultado, nil
}

// recalcularTotal relee todas las líneas de la comanda y persiste la suma.
// Recalcular desde cero en cada mutación es más simple que ajustar
// incrementalmente y se auto-corrige ante cualquier deriva.
func (s *ComandaService) recalcularTotal(r Repository, comandaID uint) error {
	detalles, err := r.ListDetalles(comandaID)
	if err != nil {
		return err
	}
	return r.UpdateComandaTotal(comandaID, helper.Total(detalles))
}
