package model

type Usuario struct {
	DTO
	Username string `gorm:"unique;size:60;not null" json:"username"`
	Password string `gorm:"not null" json:"-"`
	Nombre   string `gorm:"size:120" json:"nombre"`
	Rol      string `gorm:"size:20;default:MESERO" json:"rol"`
	Activo   bool   `gorm:"default:true" json:"activo"`
}
