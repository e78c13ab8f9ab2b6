package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/hesabdari_ledger/internal/core/services"
	"github.com/SscSPs/hesabdari_ledger/internal/handlers"
	"github.com/SscSPs/hesabdari_ledger/internal/middleware"
	"github.com/SscSPs/hesabdari_ledger/internal/platform/config"
	"github.com/SscSPs/hesabdari_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/hesabdari_ledger/internal/repositories/memory"
	"github.com/SscSPs/hesabdari_ledger/pkg/database"
	"github.com/gin-gonic/gin"

	portsrepo "github.com/SscSPs/hesabdari_ledger/internal/core/ports/repositories"
)

// @title Hesabdari Ledger API
// @version 1.0
// @description Journal posting and period close engine of the hesabdari accounting backend.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos, cleanup, err := buildRepositories(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	serviceContainer := services.NewServiceContainer(cfg, repos)

	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		if _, err := serviceContainer.Auth.EnsureAdminUser(context.Background(), cfg.AdminUsername, cfg.AdminPassword); err != nil {
			logger.Error("Failed to ensure admin user", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Admin user ensured", slog.String("username", cfg.AdminUsername))
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	err = r.SetTrustedProxies(nil)
	if err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, serviceContainer); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildRepositories wires the configured storage driver and returns its cleanup func.
func buildRepositories(cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Warn("Using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		if err := store.SeedDefaultAccounts(context.Background(), "system", time.Now().UTC()); err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		return memory.NewRepositoryProvider(store), func() {}, nil
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		database.ClosePgxPool(dbPool)
		return portsrepo.RepositoryProvider{}, nil, err
	}

	return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
}
