// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

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
	"outflow/internal/infrastructure/http/v1/handlers"
	"outflow/internal/infrastructure/http/v1/middleware"
	"outflow/internal/infrastructure/storage/postgres"
	"outflow/pkg/logger"
)

// RouterConfig holds the wired services for the router. Services are
// constructed once in main so their lifecycles (session janitor, event bus)
// are owned there, not by the HTTP layer.
type RouterConfig struct {
	Logger  *logger.Logger
	Pool    *postgres.Pool
	Version string

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	AuthService *auth.Service

	Materials  *material.Service
	Products   *product.Service
	Warehouses *warehouse.Service
	Units      *unit.Service
	Partners   *partner.Service

	Orders   *orders.Service
	Stock    *stock.Service
	Notes    *issuenote.Service
	Drafts   *issuenote.DraftService
	Evidence *evidence.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.Metrics())
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1
	apiV1 := router.Group("/api/v1")
	{
		registerAuthRoutes(apiV1, cfg)

		protected := apiV1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		registerCatalogRoutes(protected, cfg)
		registerOrderRoutes(protected, cfg)
		registerStockRoutes(protected, cfg)
		registerNoteRoutes(protected, cfg)
	}

	return router
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.AuthService == nil {
		return
	}

	baseHandler := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)

	public := rg.Group("/auth")

	protected := rg.Group("/auth")
	protected.Use(middleware.Auth(cfg.JWTValidator))

	authHandler.RegisterRoutes(public, protected)
}

// registerCatalogRoutes registers master-data endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	catalogs := rg.Group("/catalog")
	baseHandler := handlers.NewBaseHandler()

	// --- MATERIALS ---
	{
		handler := handlers.NewCatalogHandlerFor(baseHandler, cfg.Materials.CatalogService,
			func() *material.Material { return material.NewMaterial("", "") })
		RegisterCatalogRoutes(catalogs.Group("/materials"), handler)
	}

	// --- PRODUCTS ---
	{
		handler := handlers.NewCatalogHandlerFor(baseHandler, cfg.Products.CatalogService,
			func() *product.Product { return product.NewProduct("", "") })
		RegisterCatalogRoutes(catalogs.Group("/products"), handler)
	}

	// --- WAREHOUSES ---
	{
		handler := handlers.NewCatalogHandlerFor(baseHandler, cfg.Warehouses.CatalogService,
			func() *warehouse.Warehouse { return warehouse.NewWarehouse("", "") })
		RegisterCatalogRoutes(catalogs.Group("/warehouses"), handler)
	}

	// --- UNITS ---
	{
		handler := handlers.NewCatalogHandlerFor(baseHandler, cfg.Units.CatalogService,
			func() *unit.Unit { return unit.NewUnit("", "", "") })
		RegisterCatalogRoutes(catalogs.Group("/units"), handler)
	}

	// --- PARTNERS ---
	{
		handler := handlers.NewCatalogHandlerFor(baseHandler, cfg.Partners.CatalogService,
			func() *partner.Partner { return partner.NewPartner("", "", partner.TypeCustomer) })
		RegisterCatalogRoutes(catalogs.Group("/partners"), handler)
	}
}

// registerOrderRoutes registers the read-only order picker endpoints.
func registerOrderRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()
	handler := handlers.NewOrdersHandler(baseHandler, cfg.Orders)

	group := rg.Group("/orders")
	group.GET("", handler.List)
	group.GET("/:id", handler.Get)
}

// registerStockRoutes registers balance query endpoints.
func registerStockRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()
	handler := handlers.NewStockHandler(baseHandler, cfg.Stock)

	group := rg.Group("/stock")
	group.GET("/balances", handler.BalancesBySubject)
	group.GET("/warehouses/:id/balances", handler.BalancesByWarehouse)
}

// registerNoteRoutes registers drafting, issue note and evidence endpoints.
func registerNoteRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	draftHandler := handlers.NewDraftHandler(baseHandler, cfg.Drafts)
	draftHandler.RegisterRoutes(rg.Group("/drafts"))

	noteHandler := handlers.NewIssueNoteHandler(baseHandler, cfg.Notes, cfg.Evidence)
	noteHandler.RegisterRoutes(rg.Group("/issue-notes"))

	evidenceHandler := handlers.NewEvidenceHandler(baseHandler, cfg.Evidence)
	evidenceHandler.RegisterRoutes(rg.Group("/evidence"))
}
