package constants

// Estados de una comanda
const (
	COMANDA_ABIERTA   = "ABIERTA"
	COMANDA_CERRADA   = "CERRADA"
	COMANDA_CANCELADA = "CANCELADA"
)

// Roles de usuario
const (
	ROLE_ADMIN  = "ADMIN"
	ROLE_CAJERO = "CAJERO"
	ROLE_MESERO = "MESERO"
)

var ROLES = []string{ROLE_ADMIN, ROLE_CAJERO, ROLE_MESERO}

// Mensajes comunes
const (
	MISSING_LOGIN_INPUT      = "Usuario y contraseña son obligatorios"
	INVALID_USERNAME         = "El usuario no existe"
	INVALID_PASSWORD         = "Contraseña incorrecta"
	ACCOUNT_NOT_ACTIVE       = "La cuenta está desactivada"
	ERROR_INTERNAL_ERROR     = "Error interno del servidor"
	DATA_INPUT_IS_NOT_NUMBER = "El parámetro debe ser numérico"
)
