package router

import (
	"context"
	"time"

	"ims/internal/config"
	"ims/internal/handler"
	"ims/internal/infra"
	"ims/internal/middleware"
	"ims/internal/repository"
	"ims/internal/service"
	"ims/internal/session"
	"ims/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Services is the service layer shared by the HTTP API and the background
// workers started in main.
type Services struct {
	Auth      service.AuthService
	Inventory service.InventoryService
	Sales     service.SalesService
	Suppliers service.SupplierService
	Broker    *service.Broker
}

// NewServices wires repositories and services.
// Dependency graph: Service ← Repository ← DB/Redis
//
// With Redis, change events are published to infra.EventsChannel and relayed
// back into the local broker, so every instance's SSE clients see every
// change. Without Redis the broker is notified directly and low-stock
// e-mails are not queued.
func NewServices(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *Services {
	productRepo := repository.NewProductRepository(db)
	historyRepo := repository.NewInventoryHistoryRepository(db)
	salesRepo := repository.NewSalesHistoryRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	userRepo := repository.NewUserRepository(db)

	broker := service.NewBroker(64)
	opts := service.InventoryOptions{
		LowStockThreshold: cfg.LowStockThreshold,
		RestockQuantity:   cfg.RestockQuantity,
		Notifier:          broker,
	}
	if rdb != nil {
		if err := infra.RelayEvents(ctx, rdb, infra.EventsChannel, broker); err != nil {
			log.Warn().Err(err).Msg("event relay unavailable, notifying locally")
		} else {
			opts.Notifier = infra.NewRedisNotifier(rdb, infra.EventsChannel)
		}
		opts.Alerter = worker.NewDispatcher(rdb)
	}

	return &Services{
		Auth:      service.NewAuthService(userRepo, cfg),
		Inventory: service.NewInventoryService(productRepo, historyRepo, salesRepo, supplierRepo, opts),
		Sales: service.NewSalesService(salesRepo, productRepo, service.SalesOptions{
			LowStockThreshold:      cfg.LowStockThreshold,
			CriticalStockThreshold: cfg.CriticalStockThreshold,
		}),
		Suppliers: service.NewSupplierService(supplierRepo),
		Broker:    broker,
	}
}

// New returns a configured Gin engine.
// Dependency graph: Handler ← Service
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, svcs *Services) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(svcs.Auth)
	productsH := handler.NewProductsHandler(svcs.Inventory)
	eventsH := handler.NewEventsHandler(svcs.Broker)
	suppliersH := handler.NewSuppliersHandler(svcs.Suppliers)
	salesH := handler.NewSalesHandler(svcs.Sales)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/v1/auth", middleware.LoginRateLimiter())
	{
		auth.POST("/register", authH.Register)
		auth.POST("/login", authH.Login)
	}

	// Protected routes, gated by what the caller's panel exposes
	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		v1.GET("/me/panel", authH.Panel)
		v1.GET("/users", middleware.RequireRole(session.RoleAdmin), authH.ListUsers)
		v1.GET("/admin/dlq", middleware.RequireRole(session.RoleAdmin), handler.DeadLetters(rdb))

		products := v1.Group("", middleware.RequireCapability(session.CapProducts))
		{
			products.GET("/products", productsH.List)
			products.POST("/products", productsH.Create)
			products.GET("/products/events", eventsH.Stream)
			products.GET("/products/:id", productsH.Get)
			products.PUT("/products/:id", productsH.Update)
			products.DELETE("/products/:id", productsH.Delete)
			products.POST("/products/:id/sell", productsH.Sell)
			products.GET("/products/:id/history", productsH.History)
			products.POST("/inventory/low-stock/check", productsH.CheckLowStock)

			products.GET("/suppliers", suppliersH.List)
			products.POST("/suppliers", suppliersH.Create)
		}

		sales := v1.Group("", middleware.RequireCapability(session.CapSales))
		{
			sales.GET("/sales", salesH.List)
			sales.POST("/sales", salesH.Record)
			sales.GET("/reports/restock", salesH.RestockSuggestions)
			sales.GET("/reports/:kind", salesH.Report)
			sales.GET("/reports/:kind/pdf", salesH.ReportPDF)
		}
	}

	// Swagger UI, outside production only
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
