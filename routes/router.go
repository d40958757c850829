package routes

import (
	"net/http"
	"time"

	"galaxymath/config"
	"galaxymath/middlewares"
	"galaxymath/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// SetupRouter builds the HTTP surface. Handlers must already be wired with controllers.Init.
func SetupRouter(cfg *config.Config, hub *websocket.Hub, logger *zap.Logger) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(middlewares.TraceID(), middlewares.Logger(logger), middlewares.Recovery(logger))

	if len(cfg.Server.TrustedProxies) > 0 {
		if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
			logger.Warn("invalid trusted proxies", zap.Error(err))
		}
	} else {
		_ = router.SetTrustedProxies(nil)
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middlewares.TraceIDHeader},
		ExposeHeaders:    []string{"Content-Length", middlewares.TraceIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if containsWildcard(cfg.Server.AllowedOrigins) {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.Server.AllowedOrigins
	}
	router.Use(cors.New(corsCfg))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	authLimited := api.Group("/auth")
	authLimited.Use(middlewares.RateLimit(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst))
	{
		authLimited.POST("/register", RegisterRouteHandler)
		authLimited.POST("/login", LoginRouteHandler)
		authLimited.POST("/guest", GuestRouteHandler)
		authLimited.POST("/verify", VerifyTokenRouteHandler)
	}

	SetupPublicRoutes(api)

	protected := api.Group("")
	protected.Use(middlewares.AuthMiddleware())
	SetupScoreRoutes(protected)
	SetupUserRoutes(protected)
	SetupMissionRoutes(protected)

	router.GET("/ws/progress", websocket.ProgressHandler(hub, websocket.NewUpgrader(cfg.Server.AllowedOrigins)))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
	return router
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

