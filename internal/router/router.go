package router

import (
	"time"

	"arqueogw/internal/backend"
	"arqueogw/internal/config"
	"arqueogw/internal/handler"
	"arqueogw/internal/infra"
	"arqueogw/internal/journal"
	"arqueogw/internal/middleware"
	"arqueogw/internal/service"
	"arqueogw/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Backend client / Journal / Dispatcher
func New(cfg *config.Config, rdb *redis.Client, cb *infra.Breaker) *gin.Engine {
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
	r.Use(middleware.RateLimiter(600, time.Minute))

	// ── Infrastructure ───────────────────────────────────────────────────────
	posClient := backend.NewHTTPClient(cfg.BackendURL, time.Duration(cfg.BackendTimeoutSec)*time.Second, cb)
	closeJournal := journal.NewRedisJournal(rdb)
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	cierreSvc := service.NewCierreService(posClient, closeJournal, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	cajaH := handler.NewCajaHandler(cierreSvc)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(rdb, cb))

	v1 := r.Group("/v1", middleware.ForwardBearer())
	{
		caja := v1.Group("/caja")
		{
			caja.GET("/:id/resumen", cajaH.Resumen)
			caja.GET("/:id/arqueo", cajaH.Arqueo)
			caja.POST("/:id/cierre", cajaH.Cerrar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
