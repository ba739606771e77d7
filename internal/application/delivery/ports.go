package delivery

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcastellr/gestion-api/internal/domain/entity"
	"github.com/jcastellr/gestion-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repositorios
// que necesita el flujo de entregas (movimientos, productos, entregas y el
// contador diario de numeración).
type TxRunner interface {
	RunEntrega(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		deliveryRepo repository.DeliveryRepository,
		seqRepo repository.DeliverySequenceRepository,
	) error) error
}

// ActaPDFGenerator genera el acta de entrega imprimible (PDF) de una entrega.
type ActaPDFGenerator interface {
	GenerateActaPDF(ctx context.Context, d *entity.Delivery) ([]byte, error)
}

// InventoryUseCase es el contrato mínimo del ledger que necesita el flujo de
// entregas: registrar una salida dentro de la transacción del caller. El uso de
// interfaz evita acoplar este paquete a la implementación del ledger.
type InventoryUseCase interface {
	RegisterSalidaInTx(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		productID string,
		cantidad decimal.Decimal,
		motivo, referencia string,
		entregaID *string,
		usuarioID string,
		now time.Time,
	) (*entity.StockMovement, error)
}
