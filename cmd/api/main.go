package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/grupoandino/bodega-core/internal/application/allocation"
	"github.com/grupoandino/bodega-core/internal/application/audit"
	appbom "github.com/grupoandino/bodega-core/internal/application/bom"
	appstate "github.com/grupoandino/bodega-core/internal/application/orderstate"
	"github.com/grupoandino/bodega-core/internal/application/registry"
	"github.com/grupoandino/bodega-core/internal/infrastructure/excel"
	infrapdf "github.com/grupoandino/bodega-core/internal/infrastructure/pdf"
	"github.com/grupoandino/bodega-core/internal/infrastructure/postgres"
	httpRouter "github.com/grupoandino/bodega-core/internal/interfaces/http"
	"github.com/grupoandino/bodega-core/pkg/config"
	"github.com/grupoandino/bodega-core/pkg/logger"
)

// runMigrations aplica las migraciones goose con el driver database/sql de pgx.
func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if err := runMigrations(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	batchRepo := postgres.NewBatchRepository(pool)
	registryRepo := postgres.NewRegistryRepository(pool)
	allocRepo := postgres.NewAllocationRepository(pool)
	logRepo := postgres.NewActivityLogRepository(pool)
	bomRepo := postgres.NewBomRepository(pool)
	txRunner := postgres.NewTxRunner(pool, cfg.Alloc.LockTimeout)

	registryUC := registry.NewUseCase(txRunner, batchRepo, registryRepo, log)
	engine := allocation.NewEngine(txRunner, allocation.RetryPolicy{
		MaxRetries: cfg.Alloc.MaxRetries,
		Backoff:    cfg.Alloc.RetryBackoff,
	}, log)
	orderStateRepo := postgres.NewOrderStateRepository(pool)
	orderStateUC := appstate.NewUseCase(txRunner, orderStateRepo, log)

	readinessPDF := infrapdf.NewMarotoReadinessGenerator()
	readinessUC := appbom.NewReadinessUseCase(bomRepo, batchRepo, readinessPDF)

	logExporter := excel.NewActivityLogExporter()
	auditUC := audit.NewUseCase(logRepo, allocRepo, logExporter)

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
		Title:    "Bodega Core API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		RegistryUC:   registryUC,
		Engine:       engine,
		ReadinessUC:  readinessUC,
		OrderStateUC: orderStateUC,
		AuditUC:      auditUC,
	})

	// Listener de métricas separado del API.
	var metricsSrv *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("servidor de métricas finalizado")
			}
		}()
	}

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
	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("apagado del servidor de métricas")
		}
	}

	log.Info().Msg("aplicación detenida")
}
