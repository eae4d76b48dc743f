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

	appanalytics "github.com/almacen-pro/almacen-api/internal/application/analytics"
	"github.com/almacen-pro/almacen-api/internal/application/inventory"
	"github.com/almacen-pro/almacen-api/internal/application/usecase"
	"github.com/almacen-pro/almacen-api/internal/infrastructure/postgres"
	"github.com/almacen-pro/almacen-api/internal/infrastructure/redisqueue"
	httpRouter "github.com/almacen-pro/almacen-api/internal/interfaces/http"
	"github.com/almacen-pro/almacen-api/pkg/config"
	"github.com/almacen-pro/almacen-api/pkg/logger"
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

	sessionQueue, err := redisqueue.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	defer sessionQueue.Close()

	productRepo := postgres.NewProductRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	sessionRepo := postgres.NewCountSessionRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool, cfg.Stock.TxMaxRetries)

	productUC := usecase.NewProductUseCase(productRepo, stockRepo)
	locationUC := usecase.NewLocationUseCase(locationRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	registerMovementUC := inventory.NewRegisterMovementUseCase(txRunner, productRepo, locationRepo)
	movementQueryUC := inventory.NewMovementQueryUseCase(movementRepo, productRepo, locationRepo)
	countSessionUC := inventory.NewCountSessionUseCase(sessionRepo, stockRepo, productRepo, locationRepo)
	reconciliationUC := inventory.NewReconciliationUseCase(txRunner, sessionRepo, productRepo, locationRepo)
	syncUC := inventory.NewSyncUseCase(sessionQueue, sessionRepo)
	historyUC := inventory.NewHistoryUseCase(stockRepo, movementRepo)
	replenishmentUC := inventory.NewReplenishmentUseCase(analyticsRepo)
	dashboardUC := appanalytics.NewDashboardUseCase(analyticsRepo)

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
		Title:    "Almacén Pro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:        productUC,
		LocationUC:       locationUC,
		CategoryUC:       categoryUC,
		RegisterMovement: registerMovementUC,
		MovementQuery:    movementQueryUC,
		CountSessionUC:   countSessionUC,
		ReconciliationUC: reconciliationUC,
		SyncUC:           syncUC,
		HistoryUC:        historyUC,
		ReplenishmentUC:  replenishmentUC,
		DashboardUC:      dashboardUC,
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

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
