// Package router assembles the Gin engine from the application modules.
package router

import (
	"net/http"
	"strings"

	"github.com/closespark/vrm-properties-demo-site/internal/config"
	apphttp "github.com/closespark/vrm-properties-demo-site/internal/http"
	"github.com/closespark/vrm-properties-demo-site/platform/httpkit"
	"github.com/closespark/vrm-properties-demo-site/platform/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// New builds the engine with the global middleware chain and registers every
// module's routes under /api.
func New(app *apphttp.App) *gin.Engine {
	cfg := app.Config
	log := app.Logger

	if !strings.EqualFold(cfg.GetEnv(), "development") {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	globalLimiter := httpkit.NewIPRateLimiter(rate.Limit(cfg.GetRateLimitRPS()), cfg.GetRateLimitBurst(), log)

	engine.Use(
		gin.CustomRecovery(func(c *gin.Context, _ interface{}) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, httpkit.ErrorResponse{Message: "Internal server error"})
		}),
		httpkit.RequestID(),
		httpkit.RequestLogger(log),
		httpkit.SecurityHeaders(),
		metrics.Middleware(),
		cors.New(corsConfig(cfg)),
		globalLimiter.RateLimit(),
	)

	engine.NoMethod(func(c *gin.Context) {
		httpkit.Error(c, http.StatusMethodNotAllowed, "Method not allowed", nil)
	})
	engine.NoRoute(func(c *gin.Context) {
		httpkit.Error(c, http.StatusNotFound, "Not found", nil)
	})

	engine.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	ctx := &apphttp.RouterContext{
		Engine:          engine,
		API:             engine.Group("/api"),
		FormRateLimiter: httpkit.NewFormRateLimiter(log),
	}

	for _, m := range app.Modules {
		m.RegisterRoutes(ctx)
		log.Info("module routes registered", "module", m.Name())
	}

	return engine
}

func corsConfig(cfg config.HTTPConfig) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Requested-With", httpkit.RequestIDHeader}
	corsCfg.ExposeHeaders = []string{httpkit.RequestIDHeader}
	corsCfg.AllowCredentials = cfg.GetCORSAllowCreds()

	if cfg.GetCORSAllowAll() {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.GetCORSOrigins()
	}

	return corsCfg
}
