package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jcastellr/gestion-api/internal/application/auth"
	appdelivery "github.com/jcastellr/gestion-api/internal/application/delivery"
	"github.com/jcastellr/gestion-api/internal/application/inventory"
	"github.com/jcastellr/gestion-api/internal/application/reporting"
	"github.com/jcastellr/gestion-api/internal/application/usecase"
	infracache "github.com/jcastellr/gestion-api/internal/infrastructure/cache"
	infrapdf "github.com/jcastellr/gestion-api/internal/infrastructure/pdf"
	"github.com/jcastellr/gestion-api/internal/infrastructure/postgres"
	httpRouter "github.com/jcastellr/gestion-api/internal/interfaces/http"
	"github.com/jcastellr/gestion-api/pkg/config"
	"github.com/jcastellr/gestion-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	deliveryRepo := postgres.NewDeliveryRepository(pool)
	reportingRepo := postgres.NewReportingRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Caché de productos: opcional, solo si REDIS_ADDR está definido.
	var productCache usecase.ProductCache
	if cfg.Redis.Addr != "" {
		cache, err := infracache.NewProductCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			time.Duration(cfg.Redis.TTLSec)*time.Second, log)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, caché deshabilitado")
		} else {
			defer cache.Close()
			productCache = cache
		}
	}

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	productUC := usecase.NewProductUseCase(productRepo, categoryRepo, productCache)
	registerMovementUC := inventory.NewRegisterMovementUseCase(txRunner, productRepo, movementRepo, userRepo)
	deliveryUC := appdelivery.NewDeliveryUseCase(txRunner, registerMovementUC, deliveryRepo, productRepo, userRepo)
	reportingUC := reporting.NewReportingUseCase(reportingRepo)
	actaPDF := infrapdf.NewMarotoActaGenerator()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Gestión API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		ProductUC:        productUC,
		CategoryUC:       categoryUC,
		RegisterMovement: registerMovementUC,
		DeliveryUC:       deliveryUC,
		ActaPDF:          actaPDF,
		ReportingUC:      reportingUC,
		JWTSecret:        cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("apagando servidor")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
}
