package postgres

import (
	"context"
	"fmt"

	"github.com/jcastellr/gestion-api/internal/domain/repository"
)

var _ repository.ReportingRepository = (*ReportingRepo)(nil)

// ReportingRepo proyecciones de solo lectura sobre PostgreSQL.
type ReportingRepo struct {
	q Querier
}

// NewReportingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReportingRepository(q Querier) *ReportingRepo {
	return &ReportingRepo{q: q}
}

// ListLowStock lista productos activos en o por debajo de su stock mínimo.
func (r *ReportingRepo) ListLowStock() ([]*repository.LowStockRow, error) {
	query := `
		SELECT id, codigo, nombre, stock_actual, stock_minimo, stock_maximo
		FROM productos
		WHERE activo AND stock_actual <= stock_minimo
		ORDER BY stock_actual / NULLIF(stock_minimo, 0) NULLS FIRST, codigo`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list stock bajo: %w", err)
	}
	defer rows.Close()
	var list []*repository.LowStockRow
	for rows.Next() {
		var row repository.LowStockRow
		if err := rows.Scan(
			&row.ProductID, &row.Codigo, &row.Nombre,
			&row.StockActual, &row.StockMinimo, &row.StockMaximo,
		); err != nil {
			return nil, fmt.Errorf("scan stock bajo: %w", err)
		}
		list = append(list, &row)
	}
	return list, rows.Err()
}
