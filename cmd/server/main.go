// Package main is the entry point for the outflow API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"outflow/internal/core/apperror"
	"outflow/internal/core/events"
	"outflow/internal/core/id"
	"outflow/internal/domain/auth"
	"outflow/internal/domain/catalogs/material"
	"outflow/internal/domain/catalogs/partner"
	"outflow/internal/domain/catalogs/product"
	"outflow/internal/domain/catalogs/unit"
	"outflow/internal/domain/catalogs/warehouse"
	"outflow/internal/domain/evidence"
	"outflow/internal/domain/issuenote"
	"outflow/internal/domain/orders"
	"outflow/internal/domain/stock"
	v1 "outflow/internal/infrastructure/http/v1"
	"outflow/internal/infrastructure/storage/postgres"
	"outflow/internal/infrastructure/storage/postgres/auth_repo"
	"outflow/internal/infrastructure/storage/postgres/catalog_repo"
	"outflow/internal/infrastructure/storage/postgres/document_repo"
	"outflow/internal/infrastructure/storage/postgres/evidence_repo"
	"outflow/internal/infrastructure/storage/postgres/register_repo"
	"outflow/pkg/logger"
	"outflow/pkg/numerator"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting outflow server")

	// --- Database ---
	dsn := mustEnv("DATABASE_URL")
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalw("failed to ping database", "error", err)
	}
	log.Info("database connection established")

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatalw("failed to apply migrations", "error", err)
	}

	txManager := postgres.NewTxManager(pool)
	numeratorService := numerator.New(pool)

	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- Catalogs ---
	materialService := material.NewService(catalog_repo.NewMaterialRepo(txManager), txManager, numeratorService)
	productService := product.NewService(catalog_repo.NewProductRepo(txManager), txManager, numeratorService)
	warehouseService := warehouse.NewService(catalog_repo.NewWarehouseRepo(txManager), txManager, numeratorService)
	unitService := unit.NewService(catalog_repo.NewUnitRepo(txManager), txManager, numeratorService)
	partnerService := partner.NewService(catalog_repo.NewPartnerRepo(txManager), txManager, numeratorService)

	fallbackUnitID, err := ensureFallbackUnit(ctx, unitService)
	if err != nil {
		log.Fatalw("failed to ensure fallback unit", "error", err)
	}

	// --- Registers and documents ---
	stockService := stock.NewService(register_repo.NewStockRepo(txManager))
	ordersService := orders.NewService(document_repo.NewOrderRepo(txManager))

	evidenceService, err := evidence.NewService(
		evidence_repo.NewFileRepo(txManager),
		getEnv("EVIDENCE_DIR", "./data/evidence"),
	)
	if err != nil {
		log.Fatalw("failed to initialize evidence storage", "error", err)
	}

	bus := events.NewBus()
	bus.Subscribe(func(ctx context.Context, evt events.NoteCreated) {
		log.Infow("issue note created",
			"note_id", evt.NoteID,
			"number", evt.Number,
			"category", evt.Category,
		)
	})

	noteService := issuenote.NewService(
		document_repo.NewIssueNoteRepo(txManager),
		stockService,
		numeratorService,
		txManager,
		bus,
		evidenceService,
		auditService,
		issuenote.Config{FallbackUnitID: fallbackUnitID},
	)

	// --- Drafting ---
	sessionTTL := getEnvDuration("DRAFT_SESSION_TTL", 30*time.Minute)
	sessions := issuenote.NewSessionManager(sessionTTL)
	defer sessions.Close()

	loader := issuenote.NewSourceLoader(ordersService, stockService)
	directory := issuenote.NewCatalogDirectory(materialService, productService)
	draftService := issuenote.NewDraftService(sessions, loader, directory, noteService)

	// --- Auth ---
	jwtSecret := mustEnv("JWT_SECRET")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))
	authService := auth.NewService(
		auth_repo.NewUserRepo(txManager),
		auth_repo.NewTokenRepo(txManager),
		txManager,
		jwtService,
		auth.DefaultServiceConfig(),
	)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:       log,
		Pool:         pool,
		Version:      version,
		JWTValidator: jwtService,
		AuthService:  authService,
		Materials:    materialService,
		Products:     productService,
		Warehouses:   warehouseService,
		Units:        unitService,
		Partners:     partnerService,
		Orders:       ordersService,
		Stock:        stockService,
		Notes:        noteService,
		Drafts:       draftService,
		Evidence:     evidenceService,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

// ensureFallbackUnit resolves the unit substituted into lines whose subject
// carries no unit of its own, seeding it on first run.
func ensureFallbackUnit(ctx context.Context, units *unit.Service) (id.ID, error) {
	existing, err := units.GetByCode(ctx, "PCS")
	if err == nil {
		return existing.ID, nil
	}
	if !apperror.IsNotFound(err) {
		return id.Nil(), err
	}

	piece := unit.NewUnit("PCS", "Piece", "pc")
	if err := units.Create(ctx, piece); err != nil {
		return id.Nil(), err
	}
	return piece.ID, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
