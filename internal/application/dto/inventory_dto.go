package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventario/movimientos.
// Para entrada/salida Cantidad es el delta; para ajuste es el saldo absoluto
// al que se fija el producto. Siempre > 0.
type RegisterMovementRequest struct {
	ProductID  string          `json:"product_id"`
	Tipo       string          `json:"tipo"`
	Cantidad   decimal.Decimal `json:"cantidad"`
	Motivo     string          `json:"motivo"`
	Referencia string          `json:"referencia,omitempty"`
}

// MovementResponse representa un movimiento del ledger en respuestas.
type MovementResponse struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	ProductoNombre string          `json:"producto_nombre,omitempty"`
	Tipo           string          `json:"tipo"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	StockAnterior  decimal.Decimal `json:"stock_anterior"`
	StockNuevo     decimal.Decimal `json:"stock_nuevo"`
	Motivo         string          `json:"motivo"`
	Referencia     string          `json:"referencia,omitempty"`
	EntregaID      *string         `json:"entrega_id,omitempty"`
	UsuarioID      string          `json:"usuario_id"`
	UsuarioNombre  string          `json:"usuario_nombre,omitempty"`
	Fecha          time.Time       `json:"fecha"`
}

// ListMovementsRequest query params para GET /api/inventario/movimientos.
type ListMovementsRequest struct {
	ProductID string `query:"product_id"`
	Tipo      string `query:"tipo"`
	Desde     string `query:"desde"` // YYYY-MM-DD
	Hasta     string `query:"hasta"` // YYYY-MM-DD
	PageRequest
}

// MovementListResponse listado paginado de movimientos.
type MovementListResponse struct {
	Movimientos []MovementResponse `json:"movimientos"`
	Page        PageResponse       `json:"page"`
}
