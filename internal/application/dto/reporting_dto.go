package dto

import "github.com/shopspring/decimal"

// LowStockItemDTO representa un producto en o por debajo de su stock mínimo.
type LowStockItemDTO struct {
	ProductID         string          `json:"product_id"`
	Codigo            string          `json:"codigo"`
	Nombre            string          `json:"nombre"`
	StockActual       decimal.Decimal `json:"stock_actual"`
	StockMinimo       decimal.Decimal `json:"stock_minimo"`
	CantidadSugerida  decimal.Decimal `json:"cantidad_sugerida"` // hacia StockMaximo si existe, si no 2x mínimo
}
