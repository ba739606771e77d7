package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jcastellr/gestion-api/internal/domain"
	"github.com/jcastellr/gestion-api/internal/domain/entity"
	"github.com/jcastellr/gestion-api/internal/domain/repository"
	"github.com/jcastellr/gestion-api/pkg/metrics"
)

// RegisterMovementUseCase es la única autoridad que muta Product.StockActual.
// Cada cambio de saldo va acompañado de un StockMovement inmutable con la foto
// anterior/nueva, dentro de una transacción con bloqueo de fila (SELECT FOR UPDATE)
// y Commit/Rollback.
type RegisterMovementUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	movRepo     repository.StockMovementRepository
	userRepo    repository.UserRepository
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	userRepo repository.UserRepository,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		movRepo:     movRepo,
		userRepo:    userRepo,
	}
}

// MovementInputDTO entrada para registrar un movimiento de inventario.
// Cantidad es delta para entrada/salida y saldo absoluto para ajuste; > 0 siempre.
type MovementInputDTO struct {
	UsuarioID  string
	ProductID  string
	Tipo       string
	Cantidad   decimal.Decimal
	Motivo     string
	Referencia string
	EntregaID  *string
}

// RegisterMovement valida la entrada, inicia una transacción, bloquea la fila del
// producto, aplica la aritmética según tipo y persiste saldo + movimiento. Si algo
// falla no queda estado parcial (rollback completo).
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInputDTO) (*entity.StockMovement, error) {
	if !entity.ValidMovementType(input.Tipo) {
		return nil, domain.ErrInvalidInput
	}
	if input.ProductID == "" || input.UsuarioID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !input.Cantidad.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	// Existencia del producto (fuera de la tx, solo lectura).
	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	var mov *entity.StockMovement

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		created, err := applyMovement(movRepo, productRepo, input, now)
		if err != nil {
			return err
		}
		mov = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.MovimientosRegistrados.WithLabelValues(input.Tipo).Inc()

	// Cargar datos relacionados para la respuesta.
	mov.ProductoNombre = product.Nombre
	if user, err := uc.userRepo.GetByID(input.UsuarioID); err == nil && user != nil {
		mov.UsuarioNombre = user.Nombre
	}
	return mov, nil
}

// RegisterSalidaInTx ejecuta una salida usando los repositorios proporcionados
// (misma transacción del caller). Lo usa el flujo de entregas para descontar
// línea por línea con atomicidad de toda la entrega.
func (uc *RegisterMovementUseCase) RegisterSalidaInTx(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	productID string,
	cantidad decimal.Decimal,
	motivo, referencia string,
	entregaID *string,
	usuarioID string,
	now time.Time,
) (*entity.StockMovement, error) {
	return applyMovement(movRepo, productRepo, MovementInputDTO{
		UsuarioID:  usuarioID,
		ProductID:  productID,
		Tipo:       entity.MovementTypeSalida,
		Cantidad:   cantidad,
		Motivo:     motivo,
		Referencia: referencia,
		EntregaID:  entregaID,
	}, now)
}

// applyMovement: bloquea la fila del producto, calcula el nuevo saldo según el
// tipo y persiste saldo + movimiento con las fotos anterior/nueva.
func applyMovement(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	input MovementInputDTO,
	now time.Time,
) (*entity.StockMovement, error) {
	product, err := productRepo.GetByIDForUpdate(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	anterior := product.StockActual
	var nuevo decimal.Decimal
	switch input.Tipo {
	case entity.MovementTypeEntrada:
		nuevo = anterior.Add(input.Cantidad)
	case entity.MovementTypeSalida:
		if anterior.LessThan(input.Cantidad) {
			return nil, &domain.InsufficientStockError{Disponible: anterior, Solicitada: input.Cantidad}
		}
		nuevo = anterior.Sub(input.Cantidad)
	case entity.MovementTypeAjuste:
		nuevo = input.Cantidad
	default:
		return nil, domain.ErrInvalidInput
	}

	if err := productRepo.UpdateStock(input.ProductID, nuevo); err != nil {
		return nil, err
	}
	mov := &entity.StockMovement{
		ID:            uuid.New().String(),
		ProductID:     input.ProductID,
		Tipo:          input.Tipo,
		Cantidad:      input.Cantidad,
		StockAnterior: anterior,
		StockNuevo:    nuevo,
		Motivo:        input.Motivo,
		Referencia:    input.Referencia,
		EntregaID:     input.EntregaID,
		UsuarioID:     input.UsuarioID,
		CreatedAt:     now,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// ListMovements lista los movimientos de un producto, más recientes primero.
func (uc *RegisterMovementUseCase) ListMovements(ctx context.Context, productID string, filter repository.MovementFilter, limit, offset int) ([]*entity.StockMovement, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	if filter.Tipo != "" && !entity.ValidMovementType(filter.Tipo) {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return uc.movRepo.ListByProduct(productID, filter, limit, offset)
}
