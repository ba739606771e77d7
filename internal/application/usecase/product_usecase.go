package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jcastellr/gestion-api/internal/domain"
	"github.com/jcastellr/gestion-api/internal/domain/entity"
	"github.com/jcastellr/gestion-api/internal/domain/repository"

	"github.com/jcastellr/gestion-api/internal/application/dto"
)

// ProductCache contrato mínimo del caché de productos (read-through con
// invalidación en escrituras). Una implementación nil-safe permite arrancar
// sin Redis.
type ProductCache interface {
	Get(ctx context.Context, id string) (*entity.Product, bool)
	Set(ctx context.Context, product *entity.Product)
	Invalidate(ctx context.Context, id string)
}

// ProductUseCase casos de uso CRUD para productos. StockActual se maneja
// exclusivamente vía movimientos del ledger; aquí solo campos descriptivos.
type ProductUseCase struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	cache        ProductCache
}

// NewProductUseCase construye el caso de uso. cache puede ser nil.
func NewProductUseCase(repo repository.ProductRepository, categoryRepo repository.CategoryRepository, cache ProductCache) *ProductUseCase {
	return &ProductUseCase{repo: repo, categoryRepo: categoryRepo, cache: cache}
}

// Create crea un nuevo producto con stock en cero. El saldo inicial se carga
// después con un movimiento de ajuste o entrada.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Codigo == "" || in.Nombre == "" || in.CategoriaID == "" || in.UnidadMedida == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.PrecioUnitario.LessThan(decimal.Zero) || in.StockMinimo.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.StockMaximo != nil && in.StockMaximo.LessThan(in.StockMinimo) {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByCodigo(in.Codigo)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	category, err := uc.categoryRepo.GetByID(in.CategoriaID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	product := &entity.Product{
		ID:             uuid.New().String(),
		Codigo:         in.Codigo,
		Nombre:         in.Nombre,
		Descripcion:    in.Descripcion,
		CategoriaID:    in.CategoriaID,
		UnidadMedida:   in.UnidadMedida,
		StockActual:    decimal.Zero,
		StockMinimo:    in.StockMinimo,
		StockMaximo:    in.StockMaximo,
		PrecioUnitario: in.PrecioUnitario,
		Activo:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID, pasando por el caché.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	if uc.cache != nil {
		if product, ok := uc.cache.Get(ctx, id); ok {
			return toProductResponse(product), nil
		}
	}
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if uc.cache != nil {
		uc.cache.Set(ctx, product)
	}
	return toProductResponse(product), nil
}

// Update actualiza campos descriptivos. No permite modificar StockActual:
// el saldo se maneja vía movimientos.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Nombre != nil {
		product.Nombre = *in.Nombre
	}
	if in.Descripcion != nil {
		product.Descripcion = *in.Descripcion
	}
	if in.CategoriaID != nil {
		category, err := uc.categoryRepo.GetByID(*in.CategoriaID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, domain.ErrNotFound
		}
		product.CategoriaID = *in.CategoriaID
	}
	if in.UnidadMedida != nil {
		product.UnidadMedida = *in.UnidadMedida
	}
	if in.StockMinimo != nil {
		if in.StockMinimo.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.StockMinimo = *in.StockMinimo
	}
	if in.StockMaximo != nil {
		product.StockMaximo = in.StockMaximo
	}
	if in.PrecioUnitario != nil {
		if in.PrecioUnitario.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.PrecioUnitario = *in.PrecioUnitario
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	if uc.cache != nil {
		uc.cache.Invalidate(ctx, id)
	}
	return toProductResponse(product), nil
}

// Deactivate marca el producto como inactivo (nunca se borra físicamente).
func (uc *ProductUseCase) Deactivate(ctx context.Context, id string) error {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if err := uc.repo.Deactivate(id); err != nil {
		return err
	}
	if uc.cache != nil {
		uc.cache.Invalidate(ctx, id)
	}
	return nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, soloActivos bool, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(soloActivos, limit, offset)
	if err != nil {
		return nil, err
	}
	resp := &dto.ProductListResponse{
		Productos: make([]dto.ProductResponse, 0, len(list)),
		Page:      dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, p := range list {
		resp.Productos = append(resp.Productos, *toProductResponse(p))
	}
	return resp, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:             p.ID,
		Codigo:         p.Codigo,
		Nombre:         p.Nombre,
		Descripcion:    p.Descripcion,
		CategoriaID:    p.CategoriaID,
		UnidadMedida:   p.UnidadMedida,
		StockActual:    p.StockActual,
		StockMinimo:    p.StockMinimo,
		StockMaximo:    p.StockMaximo,
		PrecioUnitario: p.PrecioUnitario,
		Activo:         p.Activo,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
