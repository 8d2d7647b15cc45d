// Package router builds the Gin engine from the initialized application.
package router

import (
	"net/http"
	"time"

	apphttp "github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/http"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// New constructs the Gin engine, mounts infrastructure routes and delegates
// domain routes to the registered modules.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(corsMiddleware(app.Config))

	engine.GET("/", func(c *gin.Context) {
		httpkit.OK(c, gin.H{"service": "dreamforce-bot-llm-backend", "status": "running"})
	})

	engine.GET("/api/health", func(c *gin.Context) {
		if err := app.Health.Ping(c.Request.Context()); err != nil {
			app.Logger.Error("health check failed", "error", err)
			httpkit.Error(c, http.StatusServiceUnavailable, "database unreachable", nil)
			return
		}
		httpkit.OK(c, gin.H{"status": "ok"})
	})

	v1 := engine.Group("/api/v1")

	// Manual processing triggers are expensive (LLM calls), keep them throttled.
	triggerLimiter := httpkit.NewIPRateLimiter(rate.Every(time.Second), 5, app.Logger)

	routerCtx := &apphttp.RouterContext{
		Engine:             engine,
		V1:                 v1,
		TriggerRateLimiter: triggerLimiter,
	}

	for _, module := range app.Modules {
		module.RegisterRoutes(routerCtx)
		app.Logger.Info("registered module routes", "module", module.Name())
	}

	return engine
}

func corsMiddleware(cfg apphttp.RouterConfig) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: cfg.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	}
	if cfg.GetCORSAllowAll() {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.GetCORSOrigins()
	}
	return cors.New(corsCfg)
}
