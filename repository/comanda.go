package repository

import (
	"errors"
	"time"

	"comanda_pos/constants"
	"comanda_pos/model"
	"comanda_pos/service"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRepo implementa service.Repository sobre GORM/Postgres.
type GormRepo struct {
	db   *gorm.DB
	inTx bool
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{db: db}
}

// RunAtomic ejecuta fn dentro de una transacción; toda escritura hecha a
// través del repositorio recibido se revierte si fn devuelve error.
func (g *GormRepo) RunAtomic(fn func(r service.Repository) error) error {
	if g.inTx {
		return fn(g)
	}
	return g.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepo{db: tx, inTx: true})
	})
}

func (g *GormRepo) FindComanda(id uint) (*model.Comanda, error) {
	var comanda model.Comanda
	err := g.db.
		Preload("Mesa").
		Preload("Detalles").
		Preload("Detalles.Producto").
		Preload("Detalles.Producto.Categoria").
		First(&comanda, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comanda, nil
}

// FindComandaForUpdate toma el lock de fila de la comanda; las mutaciones
// concurrentes sobre la misma comanda se serializan aquí.
func (g *GormRepo) FindComandaForUpdate(id uint) (*model.Comanda, error) {
	query := g.db
	if g.inTx {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var comanda model.Comanda
	if err := query.First(&comanda, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comanda, nil
}

func (g *GormRepo) FindComandaAbiertaPorMesa(mesaID uint) (*model.Comanda, error) {
	var comanda model.Comanda
	err := g.db.
		Where("mesa_id = ? AND estado = ?", mesaID, constants.COMANDA_ABIERTA).
		First(&comanda).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comanda, nil
}

func (g *GormRepo) CreateComanda(c *model.Comanda) error {
	return g.db.Create(c).Error
}

func (g *GormRepo) UpdateComandaTotal(id uint, total decimal.Decimal) error {
	return g.db.Model(&model.Comanda{}).
		Where("id = ?", id).
		Update("total", total).Error
}

func (g *GormRepo) CerrarComanda(id uint, total decimal.Decimal, cerradaAt time.Time) error {
	return g.db.Model(&model.Comanda{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"estado":     constants.COMANDA_CERRADA,
			"total":      total,
			"cerrada_at": cerradaAt,
		}).Error
}

func (g *GormRepo) CancelarComanda(id uint, canceladaAt time.Time) error {
	return g.db.Model(&model.Comanda{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"estado":       constants.COMANDA_CANCELADA,
			"cancelada_at": canceladaAt,
		}).Error
}

func (g *GormRepo) FindDetalle(id uint) (*model.ComandaDetalle, error) {
	var detalle model.ComandaDetalle
	err := g.db.
		Preload("Producto").
		Preload("Producto.Categoria").
		First(&detalle, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &detalle, nil
}

func (g *GormRepo) FindDetallePorProducto(comandaID, productoID uint) (*model.ComandaDetalle, error) {
	var detalle model.ComandaDetalle
	err := g.db.
		Where("comanda_id = ? AND producto_id = ?", comandaID, productoID).
		First(&detalle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &detalle, nil
}

func (g *GormRepo) ListDetalles(comandaID uint) ([]model.ComandaDetalle, error) {
	var detalles []model.ComandaDetalle
	err := g.db.
		Preload("Producto").
		Preload("Producto.Categoria").
		Where("comanda_id = ?", comandaID).
		Order("id asc").
		Find(&detalles).Error
	if err != nil {
		return nil, err
	}
	return detalles, nil
}

func (g *GormRepo) InsertDetalle(d *model.ComandaDetalle) error {
	return g.db.Create(d).Error
}

func (g *GormRepo) UpdateDetalleCantidad(id uint, cantidad int, subtotal decimal.Decimal) error {
	return g.db.Model(&model.ComandaDetalle{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"cantidad": cantidad,
			"subtotal": subtotal,
		}).Error
}

func (g *GormRepo) DeleteDetalle(id uint) error {
	return g.db.Delete(&model.ComandaDetalle{}, id).Error
}

func (g *GormRepo) FindMesa(id uint) (*model.Mesa, error) {
	var mesa model.Mesa
	if err := g.db.First(&mesa, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &mesa, nil
}

func (g *GormRepo) FindProducto(id uint) (*model.Producto, error) {
	var producto model.Producto
	err := g.db.Preload("Categoria").First(&producto, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &producto, nil
}

func (g *GormRepo) FindMetodoPago(id uint) (*model.MetodoPago, error) {
	var metodo model.MetodoPago
	if err := g.db.First(&metodo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &metodo, nil
}

func (g *GormRepo) CreatePago(p *model.Pago) error {
	return g.db.Create(p).Error
}
