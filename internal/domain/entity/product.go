package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario. StockActual solo se modifica a
// través del libro de movimientos (ledger); las ediciones directas de nombre,
// precio, etc. nunca tocan el saldo. Nunca se elimina físicamente: Activo=false.
type Product struct {
	ID             string
	Codigo         string // código único del producto
	Nombre         string
	Descripcion    string
	CategoriaID    string
	UnidadMedida   string
	StockActual    decimal.Decimal // saldo vigente, >= 0 por invariante del ledger
	StockMinimo    decimal.Decimal
	StockMaximo    *decimal.Decimal // opcional
	PrecioUnitario decimal.Decimal
	Activo         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
