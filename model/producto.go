package model

import "github.com/shopspring/decimal"

type Categoria struct {
	DTO
	Nombre    string     `gorm:"unique;size:80;not null" json:"nombre"`
	Productos []Producto `gorm:"foreignKey:CategoriaID" json:"productos,omitempty"`
}

type Producto struct {
	DTO
	Nombre      string          `gorm:"size:120;not null" json:"nombre"`
	Precio      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"precio"`
	CategoriaID uint            `gorm:"index" json:"categoriaId"`
	Categoria   Categoria       `json:"categoria,omitempty"`
	Activo      bool            `gorm:"default:true" json:"activo"`
}
