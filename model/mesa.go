package model

type Mesa struct {
	DTO
	Numero int    `gorm:"unique;not null" json:"numero"`
	Nombre string `gorm:"size:80" json:"nombre"`
	// Slug se usa en los deep links del QR que escanea el cliente
	Slug   string `gorm:"unique;size:100" json:"slug"`
	Activa bool   `gorm:"default:true" json:"activa"`
}
