package router

import (
	"time"

	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/config"
	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/handler"
	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/infra"
	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/middleware"
	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/repository"
	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/service"
	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, notifyCB *infra.CircuitBreaker) *gin.Engine {
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
	usuarioRepo := repository.NewUsuarioRepository(db)
	cashRepo := repository.NewCashRepository(db)
	movementRepo := repository.NewMovementRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	cashSvc := service.NewCashService(cashRepo, movementRepo, usuarioRepo, dispatcher)
	ledgerSvc := service.NewLedgerService(movementRepo, cashRepo)
	reconSvc := service.NewReconciliationService(cashRepo, movementRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	cashH := handler.NewCashHandler(cashSvc, ledgerSvc, reconSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, notifyCB))

	// Auth (public)
	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	operador := middleware.RequireRole("cajero", "supervisor", "administrador")
	cash := r.Group("/cash", jwtMW)
	{
		cash.POST("", middleware.RequireRole("supervisor", "administrador"), cashH.CreateRegister)

		cash.POST("/shift", operador, cashH.Shift)
		cash.POST("/deposit-money", operador, cashH.DepositMoney)
		cash.POST("/withdraw-money", operador, cashH.WithdrawMoney)

		cash.GET("/expected-amount/:registerId", operador, cashH.ExpectedAmount)
		cash.GET("/available-cash-registers", operador, cashH.AvailableRegisters)

		cash.GET("/open-shifts/user", operador, cashH.OpenShiftsByUser)
		cash.GET("/current-shift-header/user", operador, cashH.CurrentShiftHeader)
		cash.GET("/current-shift-kpis/user", operador, cashH.CurrentShiftKPIs)
		cash.GET("/current-shift-movements/user", operador, cashH.CurrentShiftMovements)
		cash.GET("/movements/user", operador, cashH.Movements)

		cash.GET("/history", middleware.RequireRole("supervisor", "administrador"), cashH.ShiftHistory)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
