package repository

import (
	"github.com/shopspring/decimal"
)

// LowStockRow fila del reporte de stock bajo mínimo.
type LowStockRow struct {
	ProductID   string
	Codigo      string
	Nombre      string
	StockActual decimal.Decimal
	StockMinimo decimal.Decimal
	StockMaximo *decimal.Decimal
}

// ReportingRepository proyecciones de solo lectura para reportes.
type ReportingRepository interface {
	ListLowStock() ([]*LowStockRow, error)
}
