package httpserver

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PrincessAkira/RestockIQ/internal/domain"
	authsvc "github.com/PrincessAkira/RestockIQ/internal/service/auth"
	productsvc "github.com/PrincessAkira/RestockIQ/internal/service/product"
	salesvc "github.com/PrincessAkira/RestockIQ/internal/service/sale"
)

// ProductService is the product/stock surface the handlers need.
type ProductService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, in productsvc.CreateInput, actor string) (*domain.Product, error)
	Update(ctx context.Context, id int64, in productsvc.UpdateInput, actor string) (*domain.Product, error)
	Delete(ctx context.Context, id int64, actor string) error
	SetBlacklisted(ctx context.Context, id int64, value bool, actor string) (*domain.Product, error)
	UpdateStock(ctx context.Context, id int64, in productsvc.StockInput, actor string) (*domain.Product, error)
	BatchUpdateStock(ctx context.Context, items []productsvc.BatchStockItem, actor string) (int, error)
}

// SaleService records and reverses sales.
type SaleService interface {
	Process(ctx context.Context, in salesvc.ProcessInput) (*domain.SaleGroup, bool, error)
	Reverse(ctx context.Context, id, actor string) (*domain.SaleGroup, error)
	Recent(ctx context.Context, limit int) ([]domain.SaleGroup, error)
	Get(ctx context.Context, id string) (*domain.SaleGroup, error)
}

// AuthService authenticates operators.
type AuthService interface {
	Register(ctx context.Context, in authsvc.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	Logout(ctx context.Context, token string) error
}

// AuditLogReader lists audit entries.
type AuditLogReader interface {
	List(ctx context.Context) ([]domain.AuditLog, error)
}

// Deps bundles everything the router needs.
type Deps struct {
	ProductSvc ProductService
	SaleSvc    SaleService
	AuthSvc    AuthService
	AuditLogs  AuditLogReader
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, corsOrigins []string) (*gin.Engine, error) {
	if deps.ProductSvc == nil || deps.SaleSvc == nil || deps.AuthSvc == nil || deps.AuditLogs == nil {
		return nil, errors.New("httpserver: missing dependencies")
	}

	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(corsOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = corsOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "Idempotency-Key")
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsCfg.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")

	identify := identifyMiddleware(deps.AuthSvc)
	requireLogin := requireUser()
	requireAdmin := requireRole(domain.RoleAdmin)

	products := api.Group("/products", identify)
	products.GET("", listProductsHandler(deps.ProductSvc))
	products.POST("", requireLogin, requireAdmin, createProductHandler(deps.ProductSvc))
	products.PUT("/:id", requireLogin, requireAdmin, updateProductHandler(deps.ProductSvc))
	products.DELETE("/:id", requireLogin, requireAdmin, deleteProductHandler(deps.ProductSvc))
	products.PATCH("/:id/blacklist", requireLogin, requireAdmin, blacklistProductHandler(deps.ProductSvc))

	sales := api.Group("/sales", identify)
	sales.POST("", processSaleHandler(deps.SaleSvc))
	sales.GET("", listSalesHandler(deps.SaleSvc))
	sales.GET("/:id", getSaleHandler(deps.SaleSvc))
	sales.DELETE("/:id", reverseSaleHandler(deps.SaleSvc))

	stock := api.Group("/stock", identify, requireLogin, requireAdmin)
	// batch first: a single-product update addresses /api/stock/:id
	stock.PUT("", batchStockHandler(deps.ProductSvc))
	stock.PUT("/:id", updateStockHandler(deps.ProductSvc))

	api.GET("/audit-logs", identify, requireLogin, auditLogsHandler(deps.AuditLogs))

	auth := api.Group("/auth")
	auth.POST("/register", registerHandler(deps.AuthSvc))
	auth.POST("/login", loginHandler(deps.AuthSvc))
	auth.POST("/logout", identify, requireLogin, logoutHandler(deps.AuthSvc))
	auth.GET("/me", identify, requireLogin, meHandler())

	return router, nil
}
