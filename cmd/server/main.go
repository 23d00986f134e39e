package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/nano-midea/forum/internal/handlers"
	"github.com/anonto42/nano-midea/forum/internal/logger"
	"github.com/anonto42/nano-midea/forum/internal/metrics"
	"github.com/anonto42/nano-midea/forum/internal/router"
	"github.com/anonto42/nano-midea/forum/pkg/config"
	"github.com/anonto42/nano-midea/forum/pkg/firebase"
	"github.com/anonto42/nano-midea/forum/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := logger.For(ctx)

	// Load configuration
	cfg := config.Load()
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		log.WithError(err).Fatal("Invalid LOG_LEVEL")
	}
	if !cfg.IsDevelopment() {
		logger.UseJSON()
	}

	// Initialize database connections
	db, err := config.InitDB(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize databases")
	}
	defer db.CloseDB()

	// Firebase login is optional
	var firebaseAuth handlers.IDTokenVerifier
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	switch {
	case err == nil:
		firebaseAuth = firebaseApp.AuthClient
	case errors.Is(err, firebase.ErrNotConfigured):
		log.Warn("Firebase credentials not configured, firebase login disabled")
	default:
		log.WithError(err).Fatal("Failed to initialize Firebase")
	}

	metricsServer, err := metrics.NewHTTPServer(":" + cfg.MetricsPort)
	if err != nil {
		log.WithError(err).Fatal("Failed to start metrics server")
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	router.SetupMiddleware(e)
	err = router.SetupRoutes(e, router.Dependencies{
		Postgres:     db.Postgres,
		Notes:        db.Notes,
		FirebaseAuth: firebaseAuth,
		JWTSecret:    cfg.JWTSecret,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to set up routes")
	}

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server stopped")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Failed to shut down server")
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Failed to shut down metrics server")
	}
}
