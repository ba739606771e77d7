package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una entrega de producción. pendiente es el inicial; entregado y
// cancelado son terminales y ninguna transición sale de ellos.
const (
	DeliveryStatePendiente = "pendiente"
	DeliveryStateEntregado = "entregado"
	DeliveryStateCancelado = "cancelado"
)

// Delivery es la cabecera de una entrega de producción. Posee sus líneas
// (ciclo de vida conjunto: se crean y se leen juntas).
type Delivery struct {
	ID              string
	NumeroEntrega   string // ENT-YYYYMMDD-NNNN, consecutivo por día
	UsuarioAsignado string // receptor
	UsuarioEntrega  *string // quien procesó; nil mientras pendiente
	FechaEntrega    time.Time
	Motivo          string
	Observaciones   string
	Estado          string // pendiente, entregado, cancelado
	CreadoPor       string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Detalles []*DeliveryLine

	// Nombres resueltos para presentación.
	AsignadoNombre string
	EntregaNombre  string
}

// DeliveryLine es una línea de entrega: producto y cantidad a descontar al procesar.
type DeliveryLine struct {
	ID             string
	EntregaID      string
	ProductID      string
	Cantidad       decimal.Decimal // > 0
	PrecioUnitario decimal.Decimal
	Observaciones  string

	ProductoNombre string
	ProductoCodigo string
	UnidadMedida   string
}

// EsTerminal indica si el estado no admite más transiciones.
func EsTerminal(estado string) bool {
	return estado == DeliveryStateEntregado || estado == DeliveryStateCancelado
}
