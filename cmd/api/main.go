package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"amicus-backend/internal/adapters/auth/jwt"
	"amicus-backend/internal/adapters/auth/odin"
	pg "amicus-backend/internal/adapters/storage/postgres"
	"amicus-backend/internal/config"
	"amicus-backend/internal/db/migrate"
	"amicus-backend/internal/platform/logger"
	"amicus-backend/internal/platform/metrics"
	"amicus-backend/internal/ports/auth"
	"amicus-backend/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{}).Error("config load failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	if err := cfg.ValidateAuth(); err != nil {
		return err
	}

	verifier, issuer, err := buildAuth(cfg)
	if err != nil {
		return err
	}

	var db *sql.DB
	if cfg.DBDSN != "" {
		if cfg.MigrateOnStart {
			if err := migrate.Run(cfg.DBDSN, "up"); err != nil {
				return err
			}
			log.Info("migrations applied", nil)
		}
		db, err = pg.Open(cfg.DBDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		log.Info("using postgres storage", nil)
	} else {
		log.Warn("DB_DSN not set, using in-memory storage", nil)
	}

	r := router.NewRouter(router.Options{
		AuthVerifier:     verifier,
		TokenIssuer:      issuer,
		DB:               db,
		Logger:           log,
		Metrics:          metrics.New(),
		BcryptCost:       cfg.BcryptCost,
		CredentialLength: cfg.CredentialLength,
	})

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": cfg.HTTPAddr, "auth_mode": cfg.AuthMode})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildAuth arma verifier e issuer según AUTH_MODE. En modo dev ambos son nil.
func buildAuth(cfg *config.Config) (auth.AuthVerifier, auth.TokenIssuer, error) {
	switch cfg.AuthMode {
	case config.AuthModeJWT:
		m, err := jwt.NewManager(jwt.Config{
			Secret: cfg.JWTSecret,
			Issuer: cfg.JWTIssuer,
			TTL:    cfg.TokenTTL(),
		})
		if err != nil {
			return nil, nil, err
		}
		return m, m, nil
	case config.AuthModeOdin:
		c, err := odin.NewClient(odin.Config{BaseURL: cfg.OdinBaseURL, APIKey: cfg.OdinAPIKey})
		if err != nil {
			return nil, nil, err
		}
		// Odin emite los tokens; este servicio solo los verifica.
		return odin.NewVerifier(c), nil, nil
	default:
		return nil, nil, nil
	}
}
