package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/khoahotran/tag-service/pkg/auth"
	"github.com/khoahotran/tag-service/pkg/logger"
)

type RouterConfig struct {
	TagHandler *TagHandler
	// JWTService guards the mutating routes; nil leaves them open.
	JWTService   *auth.JWTService
	Logger       logger.Logger
	RateLimitRPS float64
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(cfg.Logger))
	router.Use(MetricsMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.RateLimitRPS > 0 {
		router.Use(RateLimiter(NewRateLimiter(cfg.RateLimitRPS)))
	}
	router.Use(ErrorMiddleware(cfg.Logger))

	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := cfg.TagHandler
	tags := router.Group("/tags")
	{
		tags.GET("/gettag/:id", h.GetTag)
		tags.GET("/getalltags", h.ListTags)

		private := tags.Group("/")
		if cfg.JWTService != nil {
			private.Use(AuthMiddleware(cfg.JWTService))
		}
		{
			private.POST("/createtag", h.CreateTag)
			private.PUT("/updatetag/:id", h.RenameTag)
			private.DELETE("/deletetag/:id", h.DeleteTag)
			private.PUT("/updatetagpicture/:id", h.ReplacePicture)
		}
	}

	return router
}
