package api

import (
	"io/fs"
	"net/http"

	"activity-registry/internal/common/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	ActivityHandler *ActivityHandler
	HealthHandler   *HealthHandler
	Logger          logger.Logger
	Static          fs.FS
	IndexPath       string
	CORSOrigins     []string
}

func SetupRoutes(cfg *RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), Metrics(), AccessLog(cfg.Logger), CORS(cfg.CORSOrigins))

	indexPath := cfg.IndexPath
	if indexPath == "" {
		indexPath = "/static/index.html"
	}
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusTemporaryRedirect, indexPath)
	})
	if cfg.Static != nil {
		r.StaticFS("/static", http.FS(cfg.Static))
	}

	activities := r.Group("/activities")
	{
		activities.GET("", cfg.ActivityHandler.List)
		activities.POST("/:name/signup", cfg.ActivityHandler.Signup)
		activities.DELETE("/:name/unregister", cfg.ActivityHandler.Unregister)
	}

	r.GET("/health", cfg.HealthHandler.Health)
	r.GET("/ready", cfg.HealthHandler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
