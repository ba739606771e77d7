package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateDeliveryLineRequest línea de una entrega a crear.
type CreateDeliveryLineRequest struct {
	ProductID      string           `json:"product_id"`
	Cantidad       decimal.Decimal  `json:"cantidad"`
	PrecioUnitario *decimal.Decimal `json:"precio_unitario,omitempty"`
	Observaciones  string           `json:"observaciones,omitempty"`
}

// CreateDeliveryRequest body para POST /api/entregas.
type CreateDeliveryRequest struct {
	UsuarioAsignado string                      `json:"usuario_asignado"`
	FechaEntrega    string                      `json:"fecha_entrega"` // YYYY-MM-DD; vacío = hoy
	Motivo          string                      `json:"motivo,omitempty"`
	Observaciones   string                      `json:"observaciones,omitempty"`
	Detalles        []CreateDeliveryLineRequest `json:"detalles"`
}

// DeliveryLineResponse línea de entrega en respuestas.
type DeliveryLineResponse struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	ProductoCodigo string          `json:"producto_codigo,omitempty"`
	ProductoNombre string          `json:"producto_nombre,omitempty"`
	UnidadMedida   string          `json:"unidad_medida,omitempty"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Observaciones  string          `json:"observaciones,omitempty"`
}

// DeliveryResponse entrega con sus líneas.
type DeliveryResponse struct {
	ID              string                 `json:"id"`
	NumeroEntrega   string                 `json:"numero_entrega"`
	UsuarioAsignado string                 `json:"usuario_asignado"`
	AsignadoNombre  string                 `json:"asignado_nombre,omitempty"`
	UsuarioEntrega  *string                `json:"usuario_entrega,omitempty"`
	EntregaNombre   string                 `json:"entrega_nombre,omitempty"`
	FechaEntrega    time.Time              `json:"fecha_entrega"`
	Motivo          string                 `json:"motivo,omitempty"`
	Observaciones   string                 `json:"observaciones,omitempty"`
	Estado          string                 `json:"estado"`
	CreadoPor       string                 `json:"creado_por"`
	CreatedAt       time.Time              `json:"created_at"`
	Detalles        []DeliveryLineResponse `json:"detalles"`
}

// DeliveryListResponse listado paginado de entregas.
type DeliveryListResponse struct {
	Entregas []DeliveryResponse `json:"entregas"`
	Page     PageResponse       `json:"page"`
}
