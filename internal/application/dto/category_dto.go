package dto

import "time"

// CreateCategoryRequest body para POST /api/categorias.
type CreateCategoryRequest struct {
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion,omitempty"`
}

// CategoryResponse representa una categoría en respuestas.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Nombre      string    `json:"nombre"`
	Descripcion string    `json:"descripcion,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
