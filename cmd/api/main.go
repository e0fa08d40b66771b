package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/Dan9191/finance-service/internal/auth"
	"github.com/Dan9191/finance-service/internal/config"
	"github.com/Dan9191/finance-service/internal/handler"
	"github.com/Dan9191/finance-service/internal/logging"
	"github.com/Dan9191/finance-service/internal/middleware"
	"github.com/Dan9191/finance-service/internal/notify"
	"github.com/Dan9191/finance-service/internal/repository"
	"github.com/Dan9191/finance-service/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logging.New(os.Getenv("LOG_LEVEL")).Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := logging.New(cfg.LogLevel)

	if cfg.AutoMigrate {
		if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
			logger.Fatalf("Failed to run migrations: %v", err)
		}
		logger.Info("Migrations applied")
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	pool := repository.NewPool(db)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	mailer := notify.NewMailer(cfg, logger)
	svc := service.NewService(pool, tokens, logger, service.WithNotifier(mailer))
	h := handler.NewHandler(svc, logger, cfg.CORSOrigin, tokens)

	// Setup router
	r := handler.NewRouter(h, pool,
		middleware.Recover(logger, cfg.CORSOrigin),
		middleware.RequestLogger(logger),
		middleware.Bearer(tokens, cfg.CORSOrigin),
	)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Shutdown failed: %v", err)
		}
	}()

	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("Server failed: %v", err)
	}
}
