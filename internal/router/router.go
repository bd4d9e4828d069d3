package router

import (
	"time"

	"github.com/ByEilerDev/carsil-root/internal/config"
	"github.com/ByEilerDev/carsil-root/internal/handler"
	"github.com/ByEilerDev/carsil-root/internal/middleware"
	"github.com/ByEilerDev/carsil-root/internal/repository"
	"github.com/ByEilerDev/carsil-root/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	productRepo := repository.NewProductRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	teamSvc := service.NewTeamService(teamRepo, productRepo)
	productSvc := service.NewProductService(productRepo, teamRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	teamsH := handler.NewTeamsHandler(teamSvc)
	productsH := handler.NewProductsHandler(productSvc)
	opsH := handler.NewOpStatusHandler(productRepo, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// OP progress lookup — no auth required (shop-floor screens)
	r.GET("/v1/ops/:op", opsH.GetByOp)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: operario, supervisor, administrador — declared per-endpoint
		read := middleware.RequireRole("operario", "supervisor", "administrador")
		write := middleware.RequireRole("supervisor", "administrador")

		v1.GET("/teams", read, teamsH.List)
		v1.GET("/teams/by-name", read, teamsH.GetByName)
		v1.GET("/teams/:id", read, teamsH.GetByID)
		v1.GET("/teams/:id/products", read, teamsH.GetProducts)
		v1.POST("/teams", write, teamsH.Create)
		v1.PUT("/teams/:id", write, teamsH.Update)
		v1.PATCH("/teams/:id/people", write, teamsH.UpdatePeople)
		v1.POST("/teams/:id/assign/:productId", write, teamsH.AssignProduct)

		v1.GET("/products", read, productsH.List)
		v1.GET("/products/search", read, productsH.Search)
		v1.GET("/products/by-op/:op", read, productsH.GetByOp)
		v1.GET("/products/by-date-range", read, productsH.GetByDateRange)
		v1.GET("/products/:id", read, productsH.GetByID)
		v1.POST("/products", write, productsH.Create)
		v1.PUT("/products/:id", write, productsH.Update)
		v1.PATCH("/products/:id", write, productsH.PartialUpdate)
		v1.DELETE("/products/:id", middleware.RequireRole("administrador"), productsH.Delete)

		// Progress reporting from the floor — operarios included
		v1.PATCH("/products/:id/made", read, productsH.IncrementMade)
		v1.PUT("/products/:id/made", read, productsH.SetMade)

		users := v1.Group("/users", middleware.RequireRole("administrador"))
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
