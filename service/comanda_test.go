package service

import (
	"errors"
	"testing"
	"time"

	"comanda_pos/constants"
	"comanda_pos/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// fakeRepo es un repositorio en memoria. RunAtomic toma un snapshot de todos
// los mapas y lo restaura si fn falla, imitando el rollback transaccional.
type fakeRepo struct {
	comandas  map[uint]*model.Comanda
	detalles  map[uint]*model.ComandaDetalle
	productos map[uint]*model.Producto
	mesas     map[uint]*model.Mesa
	metodos   map[uint]*model.MetodoPago
	pagos     map[uint]*model.Pago
	nextID    uint

	// inyección de fallas
	failUpdateTotal bool
	failCreatePago  bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		comandas:  map[uint]*model.Comanda{},
		detalles:  map[uint]*model.ComandaDetalle{},
		productos: map[uint]*model.Producto{},
		mesas:     map[uint]*model.Mesa{},
		metodos:   map[uint]*model.MetodoPago{},
		pagos:     map[uint]*model.Pago{},
	}
}

func (f *fakeRepo) id() uint {
	f.nextID++
	return f.nextID
}

func copyMap[T any](src map[uint]*T) map[uint]*T {
	dst := make(map[uint]*T, len(src))
	for k, v := range src {
		cp := *v
		dst[k] = &cp
	}
	return dst
}

func (f *fakeRepo) RunAtomic(fn func(r Repository) error) error {
	comandas := copyMap(f.comandas)
	detalles := copyMap(f.detalles)
	pagos := copyMap(f.pagos)
	nextID := f.nextID

	if err := fn(f); err != nil {
		f.comandas = comandas
		f.detalles = detalles
		f.pagos = pagos
		f.nextID = nextID
		return err
	}
	return nil
}

func (f *fakeRepo) FindComanda(id uint) (*model.Comanda, error) {
	c, ok := f.comandas[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeRepo) FindComandaForUpdate(id uint) (*model.Comanda, error) {
	return f.FindComanda(id)
}

func (f *fakeRepo) FindComandaAbiertaPorMesa(mesaID uint) (*model.Comanda, error) {
	for _, c := range f.comandas {
		if c.MesaID == mesaID && c.Estado == constants.COMANDA_ABIERTA {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) CreateComanda(c *model.Comanda) error {
	c.ID = f.id()
	cp := *c
	f.comandas[c.ID] = &cp
	return nil
}

func (f *fakeRepo) UpdateComandaTotal(id uint, total decimal.Decimal) error {
	if f.failUpdateTotal {
		return errors.New("storage failure: update total")
	}
	c, ok := f.comandas[id]
	if !ok {
		return errors.New("comanda not found")
	}
	c.Total = total
	return nil
}

func (f *fakeRepo) CerrarComanda(id uint, total decimal.Decimal, cerradaAt time.Time) error {
	c, ok := f.comandas[id]
	if !ok {
		return errors.New("comanda not found")
	}
	c.Estado = constants.COMANDA_CERRADA
	c.Total = total
	c.CerradaAt = &cerradaAt
	return nil
}

func (f *fakeRepo) CancelarComanda(id uint, canceladaAt time.Time) error {
	c, ok := f.comandas[id]
	if !ok {
		return errors.New("comanda not found")
	}
	c.Estado = constants.COMANDA_CANCELADA
	c.CanceladaAt = &canceladaAt
	return nil
}

func (f *fakeRepo) FindDetalle(id uint) (*model.ComandaDetalle, error) {
	d, ok := f.detalles[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	if p, ok := f.productos[cp.ProductoID]; ok {
		cp.Producto = *p
	}
	return &cp, nil
}

func (f *fakeRepo) FindDetallePorProducto(comandaID, productoID uint) (*model.ComandaDetalle, error) {
	for _, d := range f.detalles {
		if d.ComandaID == comandaID && d.ProductoID == productoID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) ListDetalles(comandaID uint) ([]model.ComandaDetalle, error) {
	var out []model.ComandaDetalle
	for _, d := range f.detalles {
		if d.ComandaID == comandaID {
			cp := *d
			if p, ok := f.productos[cp.ProductoID]; ok {
				cp.Producto = *p
			}
			out = append(out, cp)
		}
	}
	return out, nil
}

func (f *fakeRepo) InsertDetalle(d *model.ComandaDetalle) error {
	d.ID = f.id()
	cp := *d
	f.detalles[d.ID] = &cp
	return nil
}

func (f *fakeRepo) UpdateDetalleCantidad(id uint, cantidad int, subtotal decimal.Decimal) error {
	d, ok := f.detalles[id]
	if !ok {
		return errors.New("detalle not found")
	}
	d.Cantidad = cantidad
	d.Subtotal = subtotal
	return nil
}

func (f *fakeRepo) DeleteDetalle(id uint) error {
	delete(f.detalles, id)
	return nil
}

func (f *fakeRepo) FindMesa(id uint) (*model.Mesa, error) {
	m, ok := f.mesas[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (f *fakeRepo) FindProducto(id uint) (*model.Producto, error) {
	p, ok := f.productos[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) FindMetodoPago(id uint) (*model.MetodoPago, error) {
	m, ok := f.metodos[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (f *fakeRepo) CreatePago(p *model.Pago) error {
	if f.failCreatePago {
		return errors.New("storage failure: create pago")
	}
	p.ID = f.id()
	cp := *p
	f.pagos[p.ID] = &cp
	return nil
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// fixture arma un repo con una mesa, productos y un método de pago, y una
// comanda abierta lista para mutar.
func fixture(t *testing.T) (*ComandaService, *fakeRepo, *model.Comanda) {
	t.Helper()
	repo := newFakeRepo()
	repo.mesas[1] = &model.Mesa{DTO: model.DTO{ID: 1}, Numero: 1, Nombre: "Mesa 1", Activa: true}
	repo.productos[10] = &model.Producto{DTO: model.DTO{ID: 10}, Nombre: "Tacos al pastor", Precio: dec("25.00"), Activo: true}
	repo.productos[11] = &model.Producto{DTO: model.DTO{ID: 11}, Nombre: "Refresco", Precio: dec("19.99"), Activo: true}
	repo.metodos[1] = &model.MetodoPago{DTO: model.DTO{ID: 1}, Nombre: "Efectivo", Activo: true}
	repo.metodos[2] = &model.MetodoPago{DTO: model.DTO{ID: 2}, Nombre: "Cheque", Activo: false}

	svc := NewComandaService(repo)
	comanda, err := svc.Crear(model.CrearComandaInput{MesaID: 1, UsuarioID: 7})
	require.NoError(t, err)
	require.Equal(t, constants.COMANDA_ABIERTA, comanda.Estado)
	require.True(t, comanda.Total.IsZero())
	return svc, repo, comanda
}

// verifica la invariante central: total == suma de subtotales, y cada
// subtotal == cantidad × precio unitario.
func requireInvariantes(t *testing.T, repo *fakeRepo, comandaID uint) {
	t.Helper()
	comanda := repo.comandas[comandaID]
	suma := decimal.Zero
	for _, d := range repo.detalles {
		if d.ComandaID != comandaID {
			continue
		}
		esperado := decimal.NewFromInt(int64(d.Cantidad)).Mul(d.PrecioUnitario).Round(2)
		require.True(t, d.Subtotal.Equal(esperado),
			"subtotal %s != cantidad×precio %s", d.Subtotal, esperado)
		suma = suma.Add(d.Subtotal)
	}
	require.True(t, comanda.Total.Equal(suma.Round(2)),
		"total %s != suma de subtotales %s", comanda.Total, suma)
}

func TestCrearComanda(t *testing.T) {
	svc, repo, comanda := fixture(t)

	require.NotZero(t, comanda.ID)
	require.Contains(t, comanda.PublicCode, "CMD-")
	require.Equal(t, uint(1), comanda.MesaID)
	require.Equal(t, uint(7), comanda.UsuarioID)

	// una sola comanda abierta por mesa
	_, err := svc.Crear(model.CrearComandaInput{MesaID: 1, UsuarioID: 7})
	var conflicto ErrConflicto
	require.ErrorAs(t, err, &conflicto)

	// mesa inexistente
	_, err = svc.Crear(model.CrearComandaInput{MesaID: 99, UsuarioID: 7})
	var noEncontrado ErrNoEncontrado
	require.ErrorAs(t, err, &noEncontrado)

	// campos obligatorios
	_, err = svc.Crear(model.CrearComandaInput{UsuarioID: 7})
	var validacion ErrValidacion
	require.ErrorAs(t, err, &validacion)

	require.Len(t, repo.comandas, 1)
}

func TestAgregarProducto(t *testing.T) {
	svc, repo, comanda := fixture(t)

	// Escenario A: comanda vacía + 2 × 25.00
	detalle, err := svc.AgregarProducto(comanda.ID, 10, 2)
	require.NoError(t, err)
	require.Equal(t, 2, detalle.Cantidad)
	require.True(t, detalle.PrecioUnitario.Equal(dec("25.00")))
	require.True(t, detalle.Subtotal.Equal(dec("50.00")))
	require.Equal(t, "Tacos al pastor", detalle.Producto.Nombre)
	require.True(t, repo.comandas[comanda.ID].Total.Equal(dec("50.00")))
	requireInvariantes(t, repo, comanda.ID)

	// Escenario B: mismo producto otra vez → merge, nunca dos líneas
	merged, err := svc.AgregarProducto(comanda.ID, 10, 3)
	require.NoError(t, err)
	require.Equal(t, detalle.ID, merged.ID)
	require.Equal(t, 5, merged.Cantidad)
	require.True(t, merged.Subtotal.Equal(dec("125.00")))
	require.True(t, repo.comandas[comanda.ID].Total.Equal(dec("125.00")))
	require.Len(t, repo.detalles, 1)
	requireInvariantes(t, repo, comanda.ID)

	// otro producto → línea nueva, total suma ambas
	otro, err := svc.AgregarProducto(comanda.ID, 11, 2)
	require.NoError(t, err)
	require.NotEqual(t, merged.ID, otro.ID)
	require.True(t, otro.Subtotal.Equal(dec("39.98")))
	require.True(t, repo.comandas[comanda.ID].Total.Equal(dec("164.98")))
	requireInvariantes(t, repo, comanda.ID)
}

func TestAgregarProductoValidaciones(t *testing.T) {
	svc, repo, comanda := fixture(t)

	_, err := svc.AgregarProducto(comanda.ID, 10, 0)
	var validacion ErrValidacion
	require.ErrorAs(t, err, &validacion)

	_, err = svc.AgregarProducto(comanda.ID, 10, -3)
	require.ErrorAs(t, err, &validacion)

	var noEncontrado ErrNoEncontrado
	_, err = svc.AgregarProducto(999, 10, 1)
	require.ErrorAs(t, err, &noEncontrado)

	_, err = svc.AgregarProducto(comanda.ID, 999, 1)
	require.ErrorAs(t, err, &noEncontrado)

	// ningún rechazo dejó escrituras parciales
	require.Empty(t, repo.detalles)
	require.True(t, repo.comandas[comanda.ID].Total.IsZero())
}

func TestActualizarCantidad(t *testing.T) {
	svc, repo, comanda := fixture(t)

	detalle, err := svc.AgregarProducto(comanda.ID, 10, 5)
	require.NoError(t, err)

	// Escenario C: 5 → 1
	actualizado, err := svc.ActualizarCantidad(detalle.ID, 1, nil)
	require.NoError(t, err)
	require.Equal(t, 1, actualizado.Cantidad)
	require.True(t, actualizado.Subtotal.Equal(dec("25.00")))
	require.True(t, repo.comandas[comanda.ID].Total.Equal(dec("25.00")))
	requireInvariantes(t, repo, comanda.ID)

	// el precio unitario capturado no cambia aunque cambie el catálogo
	repo.productos[10].Precio = dec("99.00")
	actualizado, err = svc.ActualizarCantidad(detalle.ID, 2, nil)
	require.NoError(t, err)
	require.True(t, actualizado.PrecioUnitario.Equal(dec("25.00")))
	require.True(t, actualizado.Subtotal.Equal(dec("50.00")))

	// variante con chequeo de pertenencia
	otraComanda := comanda.ID + 100
	_, err = svc.ActualizarCantidad(detalle.ID, 3, &otraComanda)
	var noEncontrado ErrNoEncontrado
	require.ErrorAs(t, err, &noEncontrado)

	// cantidad cero se rechaza, nunca borra la línea
	_, err = svc.ActualizarCantidad(detalle.ID, 0, nil)
	var validacion ErrValidacion
	require.ErrorAs(t, err, &validacion)
	require.Len(t, repo.detalles, 1)
}

func TestEliminarDetalle(t *testing.T) {
	svc, repo, comanda := fixture(t)

	detalle, err := svc.AgregarProducto(comanda.ID, 10, 1)
	require.NoError(t, err)
	require.True(t, repo.comandas[comanda.ID].Total.Equal(dec("25.00")))

	// Escenario D: borrar la única línea deja total en 0
	comandaID, err := svc.EliminarDetalle(detalle.ID)
	require.NoError(t, err)
	require.Equal(t, comanda.ID, comandaID)
	require.Empty(t, repo.detalles)
	require.True(t, repo.comandas[comanda.ID].Total.IsZero())

	_, err = svc.EliminarDetalle(detalle.ID)
	var noEncontrado ErrNoEncontrado
	require.ErrorAs(t, err, &noEncontrado)
}

func TestMutacionesSobreComandaCerrada(t *testing.T) {
	svc, repo, comanda := fixture(t)

	detalle, err := svc.AgregarProducto(comanda.ID, 10, 1)
	require.NoError(t, err)

	_, err = svc.Cerrar(comanda.ID, 1)
	require.NoError(t, err)

	totalAntes := repo.comandas[comanda.ID].Total

	var estado ErrEstado
	_, err = svc.AgregarProducto(comanda.ID, 11, 1)
	require.ErrorAs(t, err, &estado)

	_, err = svc.ActualizarCantidad(detalle.ID, 3, nil)
	require.ErrorAs(t, err, &estado)

	// borrar también está bloqueado sobre comandas no abiertas
	_, err = svc.EliminarDetalle(detalle.ID)
	require.ErrorAs(t, err, &estado)

	_, err = svc.Cancelar(comanda.ID)
	require.ErrorAs(t, err, &estado)

	// nada cambió
	require.Len(t, repo.detalles, 1)
	require.True(t, repo.comandas[comanda.ID].Total.Equal(totalAntes))
	require.Equal(t, constants.COMANDA_CERRADA, repo.comandas[comanda.ID].Estado)
}

func TestListarDetallesIdempotente(t *testing.T) {
	svc, _, comanda := fixture(t)

	_, err := svc.AgregarProducto(comanda.ID, 10, 2)
	require.NoError(t, err)
	_, err = svc.AgregarProducto(comanda.ID, 11, 1)
	require.NoError(t, err)

	primera, err := svc.ListarDetalles(comanda.ID)
	require.NoError(t, err)
	segunda, err := svc.ListarDetalles(comanda.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, primera, segunda)

	_, err = svc.ListarDetalles(999)
	var noEncontrado ErrNoEncontrado
	require.ErrorAs(t, err, &noEncontrado)
}

func TestCerrarComanda(t *testing.T) {
	svc, repo, comanda := fixture(t)

	// Escenario F: comanda vacía no se puede cerrar
	var estado ErrEstado
	_, err := svc.Cerrar(comanda.ID, 1)
	require.ErrorAs(t, err, &estado)
	require.Equal(t, constants.COMANDA_ABIERTA, repo.comandas[comanda.ID].Estado)
	require.Empty(t, repo.pagos)

	_, err = svc.AgregarProducto(comanda.ID, 10, 1)
	require.NoError(t, err)

	// método de pago inexistente / inactivo
	var noEncontrado ErrNoEncontrado
	_, err = svc.Cerrar(comanda.ID, 99)
	require.ErrorAs(t, err, &noEncontrado)
	var validacion ErrValidacion
	_, err = svc.Cerrar(comanda.ID, 2)
	require.ErrorAs(t, err, &validacion)

	// Escenario E: cierre correcto
	resultado, err := svc.Cerrar(comanda.ID, 1)
	require.NoError(t, err)
	require.Equal(t, constants.COMANDA_CERRADA, resultado.Comanda.Estado)
	require.NotNil(t, resultado.Comanda.CerradaAt)
	require.True(t, resultado.Total.Equal(dec("25.00")))
	require.True(t, resultado.Pago.Monto.Equal(dec("25.00")))
	require.Equal(t, comanda.ID, resultado.Pago.ComandaID)
	require.Equal(t, "Efectivo", resultado.Pago.MetodoPago.Nombre)
	require.Len(t, repo.pagos, 1)

	// un segundo cierre es conflicto de estado
	_, err = svc.Cerrar(comanda.ID, 1)
	require.ErrorAs(t, err, &estado)
	require.Len(t, repo.pagos, 1)
}

// El total final se recalcula de cantidad × precio, no del total almacenado.
func TestCerrarRecalculaTotal(t *testing.T) {
	svc, repo, comanda := fixture(t)

	_, err := svc.AgregarProducto(comanda.ID, 10, 2)
	require.NoError(t, err)

	// corromper el total almacenado; el cierre no debe confiar en él
	repo.comandas[comanda.ID].Total = dec("999.99")

	resultado, err := svc.Cerrar(comanda.ID, 1)
	require.NoError(t, err)
	require.True(t, resultado.Total.Equal(dec("50.00")))
	require.True(t, repo.comandas[comanda.ID].Total.Equal(dec("50.00")))
}

func TestCancelarComanda(t *testing.T) {
	svc, repo, comanda := fixture(t)

	cancelada, err := svc.Cancelar(comanda.ID)
	require.NoError(t, err)
	require.Equal(t, constants.COMANDA_CANCELADA, cancelada.Estado)
	require.NotNil(t, cancelada.CanceladaAt)

	// transición terminal
	var estado ErrEstado
	_, err = svc.Cancelar(comanda.ID)
	require.ErrorAs(t, err, &estado)
	require.Equal(t, constants.COMANDA_CANCELADA, repo.comandas[comanda.ID].Estado)
}

// Si la escritura del total falla después de escribir la línea, la línea
// también debe revertirse: ambas o ninguna.
func TestAtomicidadLineaYTotal(t *testing.T) {
	svc, repo, comanda := fixture(t)

	_, err := svc.AgregarProducto(comanda.ID, 10, 2)
	require.NoError(t, err)

	repo.failUpdateTotal = true

	_, err = svc.AgregarProducto(comanda.ID, 11, 1)
	require.Error(t, err)
	require.Len(t, repo.detalles, 1, "la línea nueva debe revertirse")
	require.True(t, repo.comandas[comanda.ID].Total.Equal(dec("50.00")))

	_, err = svc.ActualizarCantidad(repo.soloDetalleID(), 9, nil)
	require.Error(t, err)
	require.Equal(t, 2, repo.soloDetalle().Cantidad, "el update debe revertirse")

	_, err = svc.EliminarDetalle(repo.soloDetalleID())
	require.Error(t, err)
	require.Len(t, repo.detalles, 1, "el borrado debe revertirse")

	repo.failUpdateTotal = false
	requireInvariantes(t, repo, comanda.ID)
}

// Un cierre donde falla el alta del pago no puede dejar la comanda cerrada.
func TestAtomicidadCierreYPago(t *testing.T) {
	svc, repo, comanda := fixture(t)

	_, err := svc.AgregarProducto(comanda.ID, 10, 1)
	require.NoError(t, err)

	repo.failCreatePago = true
	_, err = svc.Cerrar(comanda.ID, 1)
	require.Error(t, err)
	require.Equal(t, constants.COMANDA_ABIERTA, repo.comandas[comanda.ID].Estado)
	require.Empty(t, repo.pagos)

	repo.failCreatePago = false
	resultado, err := svc.Cerrar(comanda.ID, 1)
	require.NoError(t, err)
	require.Equal(t, constants.COMANDA_CERRADA, resultado.Comanda.Estado)
}

func (f *fakeRepo) soloDetalleID() uint {
	for id := range f.detalles {
		return id
	}
	return 0
}

func (f *fakeRepo) soloDetalle() *model.ComandaDetalle {
	for _, d := range f.detalles {
		return d
	}
	return nil
}
