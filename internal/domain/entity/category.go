package entity

import "time"

// Category agrupa productos del catálogo.
type Category struct {
	ID          string
	Nombre      string
	Descripcion string
	CreatedAt   time.Time
}
