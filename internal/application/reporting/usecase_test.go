package reporting_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcastellr/gestion-api/internal/application/reporting"
	"github.com/jcastellr/gestion-api/internal/domain/repository"
)

type fakeReportingRepo struct {
	rows []*repository.LowStockRow
}

func (r *fakeReportingRepo) ListLowStock() ([]*repository.LowStockRow, error) {
	return r.rows, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLowStock_SugerenciaHaciaMaximo(t *testing.T) {
	max := dec("40")
	repo := &fakeReportingRepo{rows: []*repository.LowStockRow{
		{ProductID: "p1", Codigo: "CEM-001", Nombre: "Cemento gris",
			StockActual: dec("3"), StockMinimo: dec("10"), StockMaximo: &max},
	}}
	uc := reporting.NewReportingUseCase(repo)

	items, err := uc.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].CantidadSugerida.Equal(dec("37")),
		"con StockMaximo definido se repone hasta el máximo")
}

func TestLowStock_SinMaximoSugiereDobleDelMinimo(t *testing.T) {
	repo := &fakeReportingRepo{rows: []*repository.LowStockRow{
		{ProductID: "p2", Codigo: "ARE-001", Nombre: "Arena lavada",
			StockActual: dec("4"), StockMinimo: dec("10")},
	}}
	uc := reporting.NewReportingUseCase(repo)

	items, err := uc.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].CantidadSugerida.Equal(dec("16")),
		"sin StockMaximo el objetivo es el doble del mínimo")
}

func TestLowStock_SugerenciaNuncaNegativa(t *testing.T) {
	// Stock por encima del objetivo (puede pasar con un máximo menor al saldo).
	max := dec("5")
	repo := &fakeReportingRepo{rows: []*repository.LowStockRow{
		{ProductID: "p3", Codigo: "GRA-001", Nombre: "Grava",
			StockActual: dec("8"), StockMinimo: dec("10"), StockMaximo: &max},
	}}
	uc := reporting.NewReportingUseCase(repo)

	items, err := uc.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].CantidadSugerida.IsZero())
}
