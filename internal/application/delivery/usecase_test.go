package delivery_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appdelivery "github.com/jcastellr/gestion-api/internal/application/delivery"
	"github.com/jcastellr/gestion-api/internal/application/dto"
	"github.com/jcastellr/gestion-api/internal/application/inventory"
	"github.com/jcastellr/gestion-api/internal/domain"
	"github.com/jcastellr/gestion-api/internal/domain/entity"
	"github.com/jcastellr/gestion-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[string]*entity.Product)}
	for _, p := range products {
		cp := *p
		r.products[p.ID] = &cp
	}
	return r
}

func (r *fakeProductRepo) Create(p *entity.Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetByCodigo(codigo string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.Codigo == codigo {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) GetByIDForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *fakeProductRepo) Update(p *entity.Product) error { return nil }

func (r *fakeProductRepo) UpdateStock(productID string, stock decimal.Decimal) error {
	if p, ok := r.products[productID]; ok {
		p.StockActual = stock
	}
	return nil
}

func (r *fakeProductRepo) List(soloActivos bool, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) Deactivate(id string) error { return nil }

func (r *fakeProductRepo) snapshot() map[string]*entity.Product {
	snap := make(map[string]*entity.Product, len(r.products))
	for id, p := range r.products {
		cp := *p
		snap[id] = &cp
	}
	return snap
}

type fakeMovementRepo struct {
	movimientos []*entity.StockMovement
}

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	cp := *m
	r.movimientos = append(r.movimientos, &cp)
	return nil
}

func (r *fakeMovementRepo) GetByID(id string) (*entity.StockMovement, error) { return nil, nil }

func (r *fakeMovementRepo) ListByProduct(productID string, filter repository.MovementFilter, limit, offset int) ([]*entity.StockMovement, error) {
	return nil, nil
}

type fakeUserRepo struct {
	users map[string]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		cp := *u
		r.users[u.ID] = &cp
	}
	return r
}

func (r *fakeUserRepo) Create(u *entity.User) error { return nil }

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*entity.User, error) { return nil, nil }

func (r *fakeUserRepo) List(limit, offset int) ([]*entity.User, error) { return nil, nil }

type fakeDeliveryRepo struct {
	entregas map[string]*entity.Delivery
	lineas   map[string][]*entity.DeliveryLine
}

func newFakeDeliveryRepo() *fakeDeliveryRepo {
	return &fakeDeliveryRepo{
		entregas: make(map[string]*entity.Delivery),
		lineas:   make(map[string][]*entity.DeliveryLine),
	}
}

func (r *fakeDeliveryRepo) Create(d *entity.Delivery) error {
	cp := *d
	cp.Detalles = nil
	r.entregas[d.ID] = &cp
	return nil
}

func (r *fakeDeliveryRepo) CreateLine(l *entity.DeliveryLine) error {
	cp := *l
	r.lineas[l.EntregaID] = append(r.lineas[l.EntregaID], &cp)
	return nil
}

func (r *fakeDeliveryRepo) GetByID(id string) (*entity.Delivery, error) {
	d, ok := r.entregas[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDeliveryRepo) GetByIDForUpdate(id string) (*entity.Delivery, error) {
	return r.GetByID(id)
}

func (r *fakeDeliveryRepo) GetLines(deliveryID string) ([]*entity.DeliveryLine, error) {
	lines := r.lineas[deliveryID]
	out := make([]*entity.DeliveryLine, 0, len(lines))
	for _, l := range lines {
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeDeliveryRepo) UpdateEstado(id, estado string, usuarioEntrega *string, updatedAt time.Time) error {
	d, ok := r.entregas[id]
	if !ok {
		return nil
	}
	d.Estado = estado
	d.UsuarioEntrega = usuarioEntrega
	d.UpdatedAt = updatedAt
	return nil
}

func (r *fakeDeliveryRepo) List(filter repository.DeliveryFilter, limit, offset int) ([]*entity.Delivery, error) {
	var out []*entity.Delivery
	for _, d := range r.entregas {
		if filter.Estado != "" && d.Estado != filter.Estado {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeDeliveryRepo) snapshot() (map[string]*entity.Delivery, map[string][]*entity.DeliveryLine) {
	entregas := make(map[string]*entity.Delivery, len(r.entregas))
	for id, d := range r.entregas {
		cp := *d
		entregas[id] = &cp
	}
	lineas := make(map[string][]*entity.DeliveryLine, len(r.lineas))
	for id, ls := range r.lineas {
		cps := make([]*entity.DeliveryLine, 0, len(ls))
		for _, l := range ls {
			cp := *l
			cps = append(cps, &cp)
		}
		lineas[id] = cps
	}
	return entregas, lineas
}

type fakeSeqRepo struct {
	contadores map[string]int
}

func newFakeSeqRepo() *fakeSeqRepo {
	return &fakeSeqRepo{contadores: make(map[string]int)}
}

func (r *fakeSeqRepo) Next(fecha time.Time) (int, error) {
	key := fecha.Format("20060102")
	r.contadores[key]++
	return r.contadores[key], nil
}

// fakeTxRunner imita la semántica transaccional del runner real: si fn retorna
// error se restaura el estado previo de todos los stores (rollback).
type fakeTxRunner struct {
	productRepo  *fakeProductRepo
	movRepo      *fakeMovementRepo
	deliveryRepo *fakeDeliveryRepo
	seqRepo      *fakeSeqRepo
}

func (tx *fakeTxRunner) RunEntrega(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	deliveryRepo repository.DeliveryRepository,
	seqRepo repository.DeliverySequenceRepository,
) error) error {
	productosAntes := tx.productRepo.snapshot()
	movsAntes := len(tx.movRepo.movimientos)
	entregasAntes, lineasAntes := tx.deliveryRepo.snapshot()
	contadoresAntes := make(map[string]int, len(tx.seqRepo.contadores))
	for k, v := range tx.seqRepo.contadores {
		contadoresAntes[k] = v
	}

	if err := fn(tx.movRepo, tx.productRepo, tx.deliveryRepo, tx.seqRepo); err != nil {
		tx.productRepo.products = productosAntes
		tx.movRepo.movimientos = tx.movRepo.movimientos[:movsAntes]
		tx.deliveryRepo.entregas = entregasAntes
		tx.deliveryRepo.lineas = lineasAntes
		tx.seqRepo.contadores = contadoresAntes
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Entorno de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	productoCemento = "prod-cemento"
	productoArena   = "prod-arena"
	usuarioOperario = "user-operario"
	usuarioBodega   = "user-bodega"
)

type testEnv struct {
	uc           *appdelivery.DeliveryUseCase
	productRepo  *fakeProductRepo
	movRepo      *fakeMovementRepo
	deliveryRepo *fakeDeliveryRepo
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	productRepo := newFakeProductRepo(
		&entity.Product{
			ID: productoCemento, Codigo: "CEM-001", Nombre: "Cemento gris",
			UnidadMedida: "bulto", StockActual: dec("100"),
			PrecioUnitario: dec("32000"), Activo: true,
		},
		&entity.Product{
			ID: productoArena, Codigo: "ARE-001", Nombre: "Arena lavada",
			UnidadMedida: "m3", StockActual: dec("5"),
			PrecioUnitario: dec("80000"), Activo: true,
		},
	)
	movRepo := &fakeMovementRepo{}
	deliveryRepo := newFakeDeliveryRepo()
	seqRepo := newFakeSeqRepo()
	userRepo := newFakeUserRepo(
		&entity.User{ID: usuarioOperario, Nombre: "Pedro Obra", Role: entity.RoleProduccion},
		&entity.User{ID: usuarioBodega, Nombre: "Laura Bodega", Role: entity.RoleBodeguero},
	)
	txRunner := &fakeTxRunner{
		productRepo:  productRepo,
		movRepo:      movRepo,
		deliveryRepo: deliveryRepo,
		seqRepo:      seqRepo,
	}
	inventoryUC := inventory.NewRegisterMovementUseCase(nil, productRepo, movRepo, userRepo)
	uc := appdelivery.NewDeliveryUseCase(txRunner, inventoryUC, deliveryRepo, productRepo, userRepo)
	return &testEnv{uc: uc, productRepo: productRepo, movRepo: movRepo, deliveryRepo: deliveryRepo}
}

func (env *testEnv) crearEntrega(t *testing.T, detalles ...dto.CreateDeliveryLineRequest) *entity.Delivery {
	t.Helper()
	d, err := env.uc.Create(context.Background(), usuarioBodega, dto.CreateDeliveryRequest{
		UsuarioAsignado: usuarioOperario,
		Motivo:          "vaciado de placa",
		Detalles:        detalles,
	})
	require.NoError(t, err)
	return d
}

func linea(productID, cantidad string) dto.CreateDeliveryLineRequest {
	return dto.CreateDeliveryLineRequest{ProductID: productID, Cantidad: dec(cantidad)}
}

// ──────────────────────────────────────────────────────────────────────────────
// Numeración
// ──────────────────────────────────────────────────────────────────────────────

func TestFormatNumeroEntrega(t *testing.T) {
	fecha := time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC)

	assert.Equal(t, "ENT-20240115-0001", appdelivery.FormatNumeroEntrega(fecha, 1))
	assert.Equal(t, "ENT-20240115-0042", appdelivery.FormatNumeroEntrega(fecha, 42))
	// Más de cuatro dígitos: el número crece sin truncarse.
	assert.Equal(t, "ENT-20240115-12345", appdelivery.FormatNumeroEntrega(fecha, 12345))
}

func TestCreate_NumerosConsecutivosDelDia(t *testing.T) {
	env := newTestEnv(t)

	d1 := env.crearEntrega(t, linea(productoCemento, "10"))
	d2 := env.crearEntrega(t, linea(productoCemento, "5"))

	hoy := time.Now()
	assert.Equal(t, appdelivery.FormatNumeroEntrega(hoy, 1), d1.NumeroEntrega)
	assert.Equal(t, appdelivery.FormatNumeroEntrega(hoy, 2), d2.NumeroEntrega)
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_QuedaPendienteSinTocarStock(t *testing.T) {
	env := newTestEnv(t)

	d := env.crearEntrega(t,
		linea(productoCemento, "10"),
		linea(productoArena, "2"),
	)

	assert.Equal(t, entity.DeliveryStatePendiente, d.Estado)
	assert.Equal(t, usuarioBodega, d.CreadoPor)
	assert.Equal(t, "Pedro Obra", d.AsignadoNombre)
	require.Len(t, d.Detalles, 2)
	assert.Equal(t, "Cemento gris", d.Detalles[0].ProductoNombre)
	assert.True(t, d.Detalles[0].PrecioUnitario.Equal(dec("32000")),
		"sin precio explícito se toma el del producto")

	// Crear no descuenta nada.
	cemento, _ := env.productRepo.GetByID(productoCemento)
	assert.True(t, cemento.StockActual.Equal(dec("100")))
	assert.Empty(t, env.movRepo.movimientos)
}

func TestCreate_Validaciones(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Sin líneas.
	_, err := env.uc.Create(ctx, usuarioBodega, dto.CreateDeliveryRequest{
		UsuarioAsignado: usuarioOperario,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Cantidad no positiva.
	_, err = env.uc.Create(ctx, usuarioBodega, dto.CreateDeliveryRequest{
		UsuarioAsignado: usuarioOperario,
		Detalles:        []dto.CreateDeliveryLineRequest{linea(productoCemento, "0")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Producto inexistente.
	_, err = env.uc.Create(ctx, usuarioBodega, dto.CreateDeliveryRequest{
		UsuarioAsignado: usuarioOperario,
		Detalles:        []dto.CreateDeliveryLineRequest{linea("no-existe", "1")},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Usuario asignado inexistente.
	_, err = env.uc.Create(ctx, usuarioBodega, dto.CreateDeliveryRequest{
		UsuarioAsignado: "no-existe",
		Detalles:        []dto.CreateDeliveryLineRequest{linea(productoCemento, "1")},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Process
// ──────────────────────────────────────────────────────────────────────────────

func TestProcess_DescuentaTodasLasLineas(t *testing.T) {
	env := newTestEnv(t)
	d := env.crearEntrega(t,
		linea(productoCemento, "10"),
		linea(productoArena, "2"),
	)

	procesada, err := env.uc.Process(context.Background(), d.ID, usuarioBodega)
	require.NoError(t, err)

	assert.Equal(t, entity.DeliveryStateEntregado, procesada.Estado)
	require.NotNil(t, procesada.UsuarioEntrega)
	assert.Equal(t, usuarioBodega, *procesada.UsuarioEntrega)

	cemento, _ := env.productRepo.GetByID(productoCemento)
	arena, _ := env.productRepo.GetByID(productoArena)
	assert.True(t, cemento.StockActual.Equal(dec("90")))
	assert.True(t, arena.StockActual.Equal(dec("3")))

	// Un movimiento de salida por línea, referenciando la entrega.
	require.Len(t, env.movRepo.movimientos, 2)
	for _, m := range env.movRepo.movimientos {
		assert.Equal(t, entity.MovementTypeSalida, m.Tipo)
		assert.Equal(t, d.NumeroEntrega, m.Referencia)
		require.NotNil(t, m.EntregaID)
		assert.Equal(t, d.ID, *m.EntregaID)
		assert.Contains(t, m.Motivo, d.NumeroEntrega)
	}
}

func TestProcess_TodoONada_StockInsuficiente(t *testing.T) {
	env := newTestEnv(t)
	// Arena solo tiene 5: la segunda línea no alcanza.
	d := env.crearEntrega(t,
		linea(productoCemento, "10"),
		linea(productoArena, "8"),
	)

	_, err := env.uc.Process(context.Background(), d.ID, usuarioBodega)
	require.Error(t, err)

	var insuf *domain.InsufficientStockError
	require.ErrorAs(t, err, &insuf)
	assert.True(t, insuf.Disponible.Equal(dec("5")))
	assert.True(t, insuf.Solicitada.Equal(dec("8")))

	// Ninguna línea quedó descontada, ni siquiera la primera que sí alcanzaba.
	cemento, _ := env.productRepo.GetByID(productoCemento)
	arena, _ := env.productRepo.GetByID(productoArena)
	assert.True(t, cemento.StockActual.Equal(dec("100")), "la primera línea debe revertirse")
	assert.True(t, arena.StockActual.Equal(dec("5")))
	assert.Empty(t, env.movRepo.movimientos)

	// La entrega sigue pendiente y puede reintentarse.
	guardada, _ := env.deliveryRepo.GetByID(d.ID)
	assert.Equal(t, entity.DeliveryStatePendiente, guardada.Estado)
}

func TestProcess_SoloDesdePendiente(t *testing.T) {
	env := newTestEnv(t)
	d := env.crearEntrega(t, linea(productoCemento, "10"))

	_, err := env.uc.Process(context.Background(), d.ID, usuarioBodega)
	require.NoError(t, err)

	// Reprocesar una entrega ya entregada se rechaza y no vuelve a descontar.
	_, err = env.uc.Process(context.Background(), d.ID, usuarioBodega)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	cemento, _ := env.productRepo.GetByID(productoCemento)
	assert.True(t, cemento.StockActual.Equal(dec("90")), "el saldo no debe descontarse dos veces")
	assert.Len(t, env.movRepo.movimientos, 1)
}

func TestProcess_EntregaInexistente(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.uc.Process(context.Background(), "no-existe", usuarioBodega)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancel
// ──────────────────────────────────────────────────────────────────────────────

func TestCancel_PendienteSinEfectoDeInventario(t *testing.T) {
	env := newTestEnv(t)
	d := env.crearEntrega(t, linea(productoCemento, "10"))

	cancelada, err := env.uc.Cancel(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DeliveryStateCancelado, cancelada.Estado)

	cemento, _ := env.productRepo.GetByID(productoCemento)
	assert.True(t, cemento.StockActual.Equal(dec("100")))
	assert.Empty(t, env.movRepo.movimientos)
}

func TestCancel_EstadosTerminalesSeRechazan(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Entregada: no se puede cancelar.
	entregada := env.crearEntrega(t, linea(productoCemento, "10"))
	_, err := env.uc.Process(ctx, entregada.ID, usuarioBodega)
	require.NoError(t, err)
	_, err = env.uc.Cancel(ctx, entregada.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	// Ya cancelada: cancelar de nuevo también se rechaza.
	cancelada := env.crearEntrega(t, linea(productoArena, "1"))
	_, err = env.uc.Cancel(ctx, cancelada.ID)
	require.NoError(t, err)
	_, err = env.uc.Cancel(ctx, cancelada.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// ──────────────────────────────────────────────────────────────────────────────
// List
// ──────────────────────────────────────────────────────────────────────────────

func TestList_FiltraPorEstado(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	pendiente := env.crearEntrega(t, linea(productoCemento, "1"))
	entregada := env.crearEntrega(t, linea(productoCemento, "1"))
	_, err := env.uc.Process(ctx, entregada.ID, usuarioBodega)
	require.NoError(t, err)

	pendientes, err := env.uc.List(ctx, repository.DeliveryFilter{Estado: entity.DeliveryStatePendiente}, 20, 0)
	require.NoError(t, err)
	require.Len(t, pendientes, 1)
	assert.Equal(t, pendiente.ID, pendientes[0].ID)

	_, err = env.uc.List(ctx, repository.DeliveryFilter{Estado: "despachada"}, 20, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
