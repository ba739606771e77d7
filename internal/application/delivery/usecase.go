package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jcastellr/gestion-api/internal/application/dto"
	"github.com/jcastellr/gestion-api/internal/domain"
	"github.com/jcastellr/gestion-api/internal/domain/entity"
	"github.com/jcastellr/gestion-api/internal/domain/repository"
	"github.com/jcastellr/gestion-api/pkg/metrics"
)

// DeliveryUseCase implementa el flujo de entregas de producción:
// pendiente → entregado | cancelado, ambos terminales. Solo Process toca el
// inventario, y lo hace a través del ledger línea por línea en una transacción.
type DeliveryUseCase struct {
	txRunner     TxRunner
	inventoryUC  InventoryUseCase
	deliveryRepo repository.DeliveryRepository
	productRepo  repository.ProductRepository
	userRepo     repository.UserRepository
}

// NewDeliveryUseCase construye el caso de uso.
func NewDeliveryUseCase(
	txRunner TxRunner,
	inventoryUC InventoryUseCase,
	deliveryRepo repository.DeliveryRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
) *DeliveryUseCase {
	return &DeliveryUseCase{
		txRunner:     txRunner,
		inventoryUC:  inventoryUC,
		deliveryRepo: deliveryRepo,
		productRepo:  productRepo,
		userRepo:     userRepo,
	}
}

// FormatNumeroEntrega arma el consecutivo legible: ENT-YYYYMMDD-NNNN.
func FormatNumeroEntrega(fecha time.Time, seq int) string {
	return fmt.Sprintf("ENT-%s-%04d", fecha.Format("20060102"), seq)
}

// Create crea la entrega en estado pendiente con todas sus líneas en una sola
// transacción. El número sale del contador diario atómico, por lo que creadores
// concurrentes no colisionan. No tiene ningún efecto sobre el stock.
func (uc *DeliveryUseCase) Create(ctx context.Context, creadoPor string, in dto.CreateDeliveryRequest) (*entity.Delivery, error) {
	if in.UsuarioAsignado == "" || len(in.Detalles) == 0 {
		return nil, domain.ErrInvalidInput
	}

	asignado, err := uc.userRepo.GetByID(in.UsuarioAsignado)
	if err != nil {
		return nil, err
	}
	if asignado == nil {
		return nil, domain.ErrNotFound
	}

	fechaEntrega := time.Now()
	if in.FechaEntrega != "" {
		parsed, err := time.Parse("2006-01-02", in.FechaEntrega)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		fechaEntrega = parsed
	}

	// Validar líneas y resolver precios (fuera de la tx, solo lectura).
	type lineaValidada struct {
		producto *entity.Product
		req      dto.CreateDeliveryLineRequest
		precio   decimal.Decimal
	}
	lineas := make([]lineaValidada, 0, len(in.Detalles))
	for _, l := range in.Detalles {
		if l.ProductID == "" || !l.Cantidad.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(l.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || !product.Activo {
			return nil, domain.ErrNotFound
		}
		precio := product.PrecioUnitario
		if l.PrecioUnitario != nil {
			if l.PrecioUnitario.LessThan(decimal.Zero) {
				return nil, domain.ErrInvalidInput
			}
			precio = *l.PrecioUnitario
		}
		lineas = append(lineas, lineaValidada{producto: product, req: l, precio: precio})
	}

	now := time.Now()
	deliveryID := uuid.New().String()
	var created *entity.Delivery

	err = uc.txRunner.RunEntrega(ctx, func(
		_ repository.StockMovementRepository,
		_ repository.ProductRepository,
		deliveryRepo repository.DeliveryRepository,
		seqRepo repository.DeliverySequenceRepository,
	) error {
		seq, err := seqRepo.Next(now)
		if err != nil {
			return err
		}
		d := &entity.Delivery{
			ID:              deliveryID,
			NumeroEntrega:   FormatNumeroEntrega(now, seq),
			UsuarioAsignado: in.UsuarioAsignado,
			FechaEntrega:    fechaEntrega,
			Motivo:          in.Motivo,
			Observaciones:   in.Observaciones,
			Estado:          entity.DeliveryStatePendiente,
			CreadoPor:       creadoPor,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := deliveryRepo.Create(d); err != nil {
			return err
		}
		for _, l := range lineas {
			line := &entity.DeliveryLine{
				ID:             uuid.New().String(),
				EntregaID:      deliveryID,
				ProductID:      l.req.ProductID,
				Cantidad:       l.req.Cantidad,
				PrecioUnitario: l.precio,
				Observaciones:  l.req.Observaciones,
				ProductoNombre: l.producto.Nombre,
				ProductoCodigo: l.producto.Codigo,
				UnidadMedida:   l.producto.UnidadMedida,
			}
			if err := deliveryRepo.CreateLine(line); err != nil {
				return err
			}
			d.Detalles = append(d.Detalles, line)
		}
		created = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.EntregasCreadas.Inc()

	uc.resolverNombres(created)
	return created, nil
}

// Process transiciona pendiente → entregado descontando el stock de cada línea
// a través del ledger. Todo o nada: si alguna línea falla (p. ej. stock
// insuficiente) se revierte la transacción completa, ninguna línea queda
// descontada y la entrega sigue pendiente.
func (uc *DeliveryUseCase) Process(ctx context.Context, deliveryID, usuarioEntrega string) (*entity.Delivery, error) {
	if deliveryID == "" || usuarioEntrega == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()

	err := uc.txRunner.RunEntrega(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		deliveryRepo repository.DeliveryRepository,
		_ repository.DeliverySequenceRepository,
	) error {
		// Bloquea la cabecera: excluye procesadores y canceladores concurrentes.
		d, err := deliveryRepo.GetByIDForUpdate(deliveryID)
		if err != nil {
			return err
		}
		if d == nil {
			return domain.ErrNotFound
		}
		if d.Estado != entity.DeliveryStatePendiente {
			return domain.ErrInvalidState
		}
		lines, err := deliveryRepo.GetLines(deliveryID)
		if err != nil {
			return err
		}
		motivo := fmt.Sprintf("Entrega %s", d.NumeroEntrega)
		if d.Motivo != "" {
			motivo = fmt.Sprintf("Entrega %s: %s", d.NumeroEntrega, d.Motivo)
		}
		for _, line := range lines {
			if _, err := uc.inventoryUC.RegisterSalidaInTx(
				movRepo, productRepo,
				line.ProductID, line.Cantidad,
				motivo, d.NumeroEntrega,
				&deliveryID, usuarioEntrega, now,
			); err != nil {
				return err
			}
		}
		return deliveryRepo.UpdateEstado(deliveryID, entity.DeliveryStateEntregado, &usuarioEntrega, now)
	})
	if err != nil {
		metrics.EntregasProcesadas.WithLabelValues("rechazada").Inc()
		return nil, err
	}
	metrics.EntregasProcesadas.WithLabelValues("ok").Inc()

	return uc.GetByID(ctx, deliveryID)
}

// Cancel transiciona pendiente → cancelado sin efecto de inventario. Cancelar
// una entrega ya entregada o ya cancelada se rechaza con ErrInvalidState.
func (uc *DeliveryUseCase) Cancel(ctx context.Context, deliveryID string) (*entity.Delivery, error) {
	if deliveryID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()

	err := uc.txRunner.RunEntrega(ctx, func(
		_ repository.StockMovementRepository,
		_ repository.ProductRepository,
		deliveryRepo repository.DeliveryRepository,
		_ repository.DeliverySequenceRepository,
	) error {
		d, err := deliveryRepo.GetByIDForUpdate(deliveryID)
		if err != nil {
			return err
		}
		if d == nil {
			return domain.ErrNotFound
		}
		if entity.EsTerminal(d.Estado) {
			return domain.ErrInvalidState
		}
		return deliveryRepo.UpdateEstado(deliveryID, entity.DeliveryStateCancelado, nil, now)
	})
	if err != nil {
		return nil, err
	}
	metrics.EntregasCanceladas.Inc()

	return uc.GetByID(ctx, deliveryID)
}

// GetByID obtiene una entrega con sus líneas y nombres resueltos.
func (uc *DeliveryUseCase) GetByID(ctx context.Context, deliveryID string) (*entity.Delivery, error) {
	d, err := uc.deliveryRepo.GetByID(deliveryID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.deliveryRepo.GetLines(deliveryID)
	if err != nil {
		return nil, err
	}
	d.Detalles = lines
	uc.resolverNombres(d)
	return d, nil
}

// List lista entregas con filtro por estado.
func (uc *DeliveryUseCase) List(ctx context.Context, filter repository.DeliveryFilter, limit, offset int) ([]*entity.Delivery, error) {
	if filter.Estado != "" {
		switch filter.Estado {
		case entity.DeliveryStatePendiente, entity.DeliveryStateEntregado, entity.DeliveryStateCancelado:
		default:
			return nil, domain.ErrInvalidInput
		}
	}
	return uc.deliveryRepo.List(filter, limit, offset)
}

// resolverNombres completa los nombres de usuario asignado/entrega para la respuesta.
func (uc *DeliveryUseCase) resolverNombres(d *entity.Delivery) {
	if d == nil {
		return
	}
	if d.AsignadoNombre == "" {
		if u, err := uc.userRepo.GetByID(d.UsuarioAsignado); err == nil && u != nil {
			d.AsignadoNombre = u.Nombre
		}
	}
	if d.EntregaNombre == "" && d.UsuarioEntrega != nil {
		if u, err := uc.userRepo.GetByID(*d.UsuarioEntrega); err == nil && u != nil {
			d.EntregaNombre = u.Nombre
		}
	}
}
