package service

// Errores tipados del servicio. El handler los traduce a códigos HTTP:
// validación → 400, no encontrado → 404, estado → 400, conflicto → 409.
// Cualquier otro error es un fallo de almacenamiento y se responde 500.

type ErrValidacion string

func (e ErrValidacion) Error() string { return string(e) }

type ErrNoEncontrado string

func (e ErrNoEncontrado) Error() string { return string(e) }

// ErrEstado cubre transiciones inválidas: comanda no abierta, comanda vacía.
type ErrEstado string

func (e ErrEstado) Error() string { return string(e) }

// ErrConflicto: la mesa ya tiene una comanda abierta.
type ErrConflicto string

func (e ErrConflicto) Error() string { return string(e) }
