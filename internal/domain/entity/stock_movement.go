package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeEntrada = "entrada" // suma al saldo
	MovementTypeSalida  = "salida"  // resta del saldo (requiere saldo suficiente)
	MovementTypeAjuste  = "ajuste"  // fija el saldo a un valor absoluto
)

// ValidMovementType indica si el tipo es uno de los reconocidos por el ledger.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeEntrada, MovementTypeSalida, MovementTypeAjuste:
		return true
	}
	return false
}

// StockMovement es un hecho inmutable del ledger: nunca se actualiza ni se borra.
// StockAnterior y StockNuevo son la foto del saldo antes y después; el invariante
// StockNuevo == aplicar(Tipo, Cantidad, StockAnterior) se garantiza en el usecase
// dentro de la misma transacción que actualiza Product.StockActual.
type StockMovement struct {
	ID            string
	ProductID     string
	Tipo          string // entrada, salida, ajuste
	Cantidad      decimal.Decimal
	StockAnterior decimal.Decimal
	StockNuevo    decimal.Decimal
	Motivo        string
	Referencia    string
	EntregaID     *string // entrega que originó el movimiento (solo lookup, sin cascada)
	UsuarioID     string
	CreatedAt     time.Time

	// Datos relacionados cargados para respuesta/listados (no persistidos aquí).
	ProductoNombre string
	UsuarioNombre  string
}
