package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/gestor-pro/internal/application/backup"
	"github.com/jhoicas/gestor-pro/internal/application/bootstrap"
	"github.com/jhoicas/gestor-pro/internal/application/migration"
	"github.com/jhoicas/gestor-pro/internal/application/retention"
	"github.com/jhoicas/gestor-pro/internal/application/sync"
	"github.com/jhoicas/gestor-pro/internal/infrastructure/localdb"
	"github.com/jhoicas/gestor-pro/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/gestor-pro/internal/interfaces/http"
	"github.com/jhoicas/gestor-pro/pkg/config"
	"github.com/jhoicas/gestor-pro/pkg/logger"
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

	// Caché local: nunca bloquea el arranque, entra en fallback si no puede abrirse.
	store := localdb.Open(cfg.LocalDB.Path, log)
	defer store.Close()
	if store.Fallback() {
		log.Warn().Msg("caché local en modo fallback: solo persistencia remota")
	}

	syncClient := postgres.NewSyncClient(pool)
	coordinator := sync.NewCoordinator(store, syncClient, log)
	migrator := migration.NewRunner(store, syncClient, log)
	loader := bootstrap.NewLoader(store, syncClient, migrator, log)
	retentionEngine := retention.NewEngine(store, syncClient, log)
	backupSvc := backup.NewService(store, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		Coordinator: coordinator,
		Loader:      loader,
		Retention:   retentionEngine,
		Migrator:    migrator,
		Backup:      backupSvc,
		LocalStore:  store,
		SyncClient:  syncClient,
		JWTSecret:   cfg.JWT.Secret,
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
