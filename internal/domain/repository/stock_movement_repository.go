package repository

import (
	"time"

	"github.com/jcastellr/gestion-api/internal/domain/entity"
)

// MovementFilter filtros opcionales para listar movimientos de un producto.
type MovementFilter struct {
	Tipo  string
	Desde *time.Time
	Hasta *time.Time
}

// StockMovementRepository define el puerto para el historial de movimientos.
// Solo inserción y lectura: los movimientos son inmutables.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	ListByProduct(productID string, filter MovementFilter, limit, offset int) ([]*entity.StockMovement, error)
}
