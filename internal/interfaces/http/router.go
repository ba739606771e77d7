package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jcastellr/gestion-api/internal/application/auth"
	appdelivery "github.com/jcastellr/gestion-api/internal/application/delivery"
	"github.com/jcastellr/gestion-api/internal/application/inventory"
	"github.com/jcastellr/gestion-api/internal/application/reporting"
	"github.com/jcastellr/gestion-api/internal/application/usecase"
	"github.com/jcastellr/gestion-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	ProductUC        *usecase.ProductUseCase
	CategoryUC       *usecase.CategoryUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	DeliveryUC       *appdelivery.DeliveryUseCase
	ActaPDF          appdelivery.ActaPDFGenerator
	ReportingUC      *reporting.ReportingUseCase
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	soloAdmin := RequireRole(entity.RoleAdmin)
	bodega := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)

	// Categorías (lectura para todos; escritura solo admin)
	categorias := protected.Group("/categorias")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categorias.Get("/", categoryHandler.List)
	categorias.Get("/:id", categoryHandler.GetByID)
	categorias.Post("/", soloAdmin, categoryHandler.Create)

	// Productos (lectura para todos; escritura admin o bodeguero)
	productos := protected.Group("/productos")
	productHandler := NewProductHandler(deps.ProductUC)
	productos.Get("/", productHandler.List)
	productos.Get("/:id", productHandler.GetByID)
	productos.Post("/", bodega, productHandler.Create)
	productos.Put("/:id", bodega, productHandler.Update)
	productos.Delete("/:id", soloAdmin, productHandler.Deactivate)

	// Ledger de inventario (admin o bodeguero)
	inventario := protected.Group("/inventario", bodega)
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement)
	inventario.Post("/movimientos", inventoryHandler.RegisterMovement)
	inventario.Get("/movimientos", inventoryHandler.ListMovements)

	// Entregas a producción
	entregas := protected.Group("/entregas")
	deliveryHandler := NewDeliveryHandler(deps.DeliveryUC, deps.ActaPDF)
	entregas.Get("/", deliveryHandler.List)
	entregas.Get("/:id", deliveryHandler.GetByID)
	entregas.Get("/:id/acta", deliveryHandler.ActaPDF)
	entregas.Post("/", bodega, deliveryHandler.Create)
	entregas.Post("/:id/procesar", bodega, deliveryHandler.Process)
	entregas.Post("/:id/cancelar", bodega, deliveryHandler.Cancel)

	// Reportes (admin o bodeguero)
	reportes := protected.Group("/reportes", bodega)
	reportingHandler := NewReportingHandler(deps.ReportingUC)
	reportes.Get("/stock-bajo", reportingHandler.LowStock)
}
