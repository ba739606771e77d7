package repository

import (
	"time"

	"github.com/jcastellr/gestion-api/internal/domain/entity"
)

// DeliveryFilter filtros para listados de entregas.
type DeliveryFilter struct {
	Estado string
}

// DeliveryRepository define el puerto de persistencia para Delivery y sus líneas.
type DeliveryRepository interface {
	Create(delivery *entity.Delivery) error
	CreateLine(line *entity.DeliveryLine) error
	GetByID(id string) (*entity.Delivery, error)
	// GetByIDForUpdate bloquea la cabecera para excluir procesadores concurrentes.
	GetByIDForUpdate(id string) (*entity.Delivery, error)
	GetLines(deliveryID string) ([]*entity.DeliveryLine, error)
	UpdateEstado(id, estado string, usuarioEntrega *string, updatedAt time.Time) error
	List(filter DeliveryFilter, limit, offset int) ([]*entity.Delivery, error)
}

// DeliverySequenceRepository entrega el siguiente consecutivo del día de forma
// atómica (fila contador por fecha, incremento bajo la misma transacción que
// inserta la entrega). Evita la carrera leer-máximo-luego-insertar.
type DeliverySequenceRepository interface {
	Next(fecha time.Time) (int, error)
}
