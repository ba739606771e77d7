package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/productos. El stock inicial se fija
// con un movimiento de ajuste, nunca aquí.
type CreateProductRequest struct {
	Codigo         string           `json:"codigo"`
	Nombre         string           `json:"nombre"`
	Descripcion    string           `json:"descripcion,omitempty"`
	CategoriaID    string           `json:"categoria_id"`
	UnidadMedida   string           `json:"unidad_medida"`
	StockMinimo    decimal.Decimal  `json:"stock_minimo"`
	StockMaximo    *decimal.Decimal `json:"stock_maximo,omitempty"`
	PrecioUnitario decimal.Decimal  `json:"precio_unitario"`
}

// UpdateProductRequest body para PUT /api/productos/:id. Solo campos descriptivos;
// StockActual queda fuera a propósito.
type UpdateProductRequest struct {
	Nombre         *string          `json:"nombre,omitempty"`
	Descripcion    *string          `json:"descripcion,omitempty"`
	CategoriaID    *string          `json:"categoria_id,omitempty"`
	UnidadMedida   *string          `json:"unidad_medida,omitempty"`
	StockMinimo    *decimal.Decimal `json:"stock_minimo,omitempty"`
	StockMaximo    *decimal.Decimal `json:"stock_maximo,omitempty"`
	PrecioUnitario *decimal.Decimal `json:"precio_unitario,omitempty"`
}

// ProductResponse representa un producto en respuestas.
type ProductResponse struct {
	ID             string           `json:"id"`
	Codigo         string           `json:"codigo"`
	Nombre         string           `json:"nombre"`
	Descripcion    string           `json:"descripcion,omitempty"`
	CategoriaID    string           `json:"categoria_id"`
	UnidadMedida   string           `json:"unidad_medida"`
	StockActual    decimal.Decimal  `json:"stock_actual"`
	StockMinimo    decimal.Decimal  `json:"stock_minimo"`
	StockMaximo    *decimal.Decimal `json:"stock_maximo,omitempty"`
	PrecioUnitario decimal.Decimal  `json:"precio_unitario"`
	Activo         bool             `json:"activo"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Productos []ProductResponse `json:"productos"`
	Page      PageResponse      `json:"page"`
}
