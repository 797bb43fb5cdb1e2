package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/tokobangunan-pos/internal/app"
	"github.com/jhoicas/tokobangunan-pos/internal/application/session"
	"github.com/jhoicas/tokobangunan-pos/internal/infrastructure/backend"
	"github.com/jhoicas/tokobangunan-pos/internal/infrastructure/storage"
	"github.com/jhoicas/tokobangunan-pos/pkg/config"
	"github.com/jhoicas/tokobangunan-pos/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("backend", cfg.Backend.BaseURL).
		Str("session", cfg.Session.Driver).
		Msg("iniciando terminal")

	ctx := context.Background()
	store, closeStorage := openStorage(ctx, cfg, log)
	defer closeStorage()

	sess := session.NewStore(store, log)
	sess.Restore(ctx)

	web := app.New(app.Options{
		Name:      cfg.App.Name,
		StoreName: cfg.App.StoreName,
		Backend:   backend.Config{BaseURL: cfg.Backend.BaseURL, Timeout: cfg.Backend.Timeout()},
		Session:   sess,
		Log:       log,
	})

	go func() {
		if err := web.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := web.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("terminal detenido")
}

// openStorage almacenamiento durable de la sesión según SESSION_DRIVER.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (session.Storage, func()) {
	noop := func() {}
	switch cfg.Session.Driver {
	case "memory":
		log.Warn().Msg("sesión en memoria: no sobrevive a un reinicio")
		return storage.NewMemory(), noop
	case "redis":
		rs, err := storage.NewRedis(ctx, storage.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Terminal: cfg.App.TerminalID,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		closeFn := func() {
			if err := rs.Close(); err != nil {
				log.Warn().Err(err).Msg("cerrar Redis")
			}
		}
		if cfg.Session.Secret != "" {
			return storage.NewSealed(rs, cfg.Session.Secret), closeFn
		}
		return rs, closeFn
	default:
		file := storage.NewFile(cfg.Session.Path)
		if cfg.Session.Secret != "" {
			return storage.NewSealed(file, cfg.Session.Secret), noop
		}
		return file, noop
	}
}
