package main

import (
	"database/sql"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	_ "github.com/lib/pq"

	"github.com/Dan9191/finance-service/internal/auth"
	"github.com/Dan9191/finance-service/internal/config"
	"github.com/Dan9191/finance-service/internal/handler"
	"github.com/Dan9191/finance-service/internal/logging"
	"github.com/Dan9191/finance-service/internal/notify"
	"github.com/Dan9191/finance-service/internal/repository"
	"github.com/Dan9191/finance-service/internal/service"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logging.New(os.Getenv("LOG_LEVEL")).Fatalf("Failed to load config: %v", err)
	}
	logger := logging.New(cfg.LogLevel)

	if cfg.AutoMigrate {
		if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
			logger.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Connections are opened lazily per invocation; keep the idle pool small
	// since a function instance serves one request at a time.
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	db.SetMaxIdleConns(1)

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	svc := service.NewService(repository.NewPool(db), tokens, logger,
		service.WithNotifier(notify.NewMailer(cfg, logger)))
	h := handler.NewHandler(svc, logger, cfg.CORSOrigin, tokens)

	lambda.Start(h.Lambda)
}
