package reporting

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jcastellr/gestion-api/internal/application/dto"
	"github.com/jcastellr/gestion-api/internal/domain/repository"
)

// ReportingUseCase proyecciones de solo lectura sobre el inventario.
// No muta nada ni lleva invariantes propias.
type ReportingUseCase struct {
	repo repository.ReportingRepository
}

// NewReportingUseCase construye el caso de uso.
func NewReportingUseCase(repo repository.ReportingRepository) *ReportingUseCase {
	return &ReportingUseCase{repo: repo}
}

// dos es el multiplicador por defecto cuando el producto no define StockMaximo.
var dos = decimal.NewFromInt(2)

// LowStock devuelve los productos en o por debajo de su stock mínimo con la
// cantidad sugerida de reposición: hasta StockMaximo si está definido, si no
// hasta el doble del mínimo.
func (uc *ReportingUseCase) LowStock(ctx context.Context) ([]dto.LowStockItemDTO, error) {
	rows, err := uc.repo.ListLowStock()
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockItemDTO, 0, len(rows))
	for _, r := range rows {
		objetivo := r.StockMinimo.Mul(dos)
		if r.StockMaximo != nil && r.StockMaximo.GreaterThan(decimal.Zero) {
			objetivo = *r.StockMaximo
		}
		sugerida := objetivo.Sub(r.StockActual)
		if sugerida.LessThan(decimal.Zero) {
			sugerida = decimal.Zero
		}
		out = append(out, dto.LowStockItemDTO{
			ProductID:        r.ProductID,
			Codigo:           r.Codigo,
			Nombre:           r.Nombre,
			StockActual:      r.StockActual,
			StockMinimo:      r.StockMinimo,
			CantidadSugerida: sugerida,
		})
	}
	return out, nil
}
