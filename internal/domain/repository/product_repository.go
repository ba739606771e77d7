package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jcastellr/gestion-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// UpdateStock es de uso exclusivo del ledger; Update nunca toca StockActual.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByCodigo(codigo string) (*entity.Product, error)
	// GetByIDForUpdate bloquea la fila del producto (SELECT FOR UPDATE) para la
	// lectura-modificación-escritura de StockActual dentro de una transacción.
	GetByIDForUpdate(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	UpdateStock(productID string, stock decimal.Decimal) error
	List(soloActivos bool, limit, offset int) ([]*entity.Product, error)
	Deactivate(id string) error
}
