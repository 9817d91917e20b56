package router

import (
	"time"

	"buyonline/internal/config"
	"buyonline/internal/handler"
	"buyonline/internal/infra"
	"buyonline/internal/middleware"
	"buyonline/internal/model"
	"buyonline/internal/repository"
	"buyonline/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailer *infra.Mailer, notifier service.Notifier) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(rdb, cfg.RateLimitPerMinute, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	variationRepo := repository.NewVariationRepository(db)
	fieldRepo := repository.NewMetadataFieldRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	mail := service.MailSettings{From: cfg.MailFrom, Operator: cfg.OperatorEmail}
	productSvc := service.NewProductService(productRepo, categoryRepo, variationRepo, notifier, mail)
	variationSvc := service.NewVariationService(productRepo, variationRepo, fieldRepo)
	catalogSvc := service.NewCatalogService(productRepo, categoryRepo, variationRepo)
	categorySvc := service.NewCategoryService(categoryRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	productsH := handler.NewProductsHandler(productSvc)
	variationsH := handler.NewVariationsHandler(variationSvc)
	catalogH := handler.NewCatalogHandler(catalogSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, mailer))

	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		seller := v1.Group("/seller", middleware.RequireRole(model.RoleSeller))
		{
			seller.POST("/products", productsH.Create)
			seller.GET("/products", catalogH.SellerProducts)
			seller.GET("/products/:id", catalogH.SellerProduct)
			seller.PATCH("/products/:id", productsH.Update)
			seller.DELETE("/products/:id", productsH.Delete)
			seller.POST("/products/:id/variations", variationsH.Create)
			seller.GET("/variations/:id", catalogH.SellerVariation)
			seller.PATCH("/variations/:id", variationsH.Update)
		}

		admin := v1.Group("/admin", middleware.RequireRole(model.RoleAdmin))
		{
			admin.GET("/products", catalogH.AdminProducts)
			admin.GET("/products/export.pdf", catalogH.ExportPDF)
			admin.PATCH("/products/:id/activate", productsH.Activate)
			admin.PATCH("/products/:id/deactivate", productsH.Deactivate)
			admin.GET("/notifications/dead-letters", handler.DeadLetters(rdb))
		}

		// Customer-facing reads, any authenticated role
		browse := v1.Group("", middleware.RequireRole(model.RoleCustomer, model.RoleSeller, model.RoleAdmin))
		{
			browse.GET("/products/:id", catalogH.CustomerProduct)
			browse.GET("/products/:id/similar", catalogH.Similar)
			browse.GET("/categories", categoriesH.List)
			browse.GET("/categories/:id/products", catalogH.ByCategory)
			browse.GET("/variations/:id", catalogH.CustomerVariation)
		}
	}

	// Swagger UI, only outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
