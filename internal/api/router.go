package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mini-maxit/judge/internal/logger"
)

func NewRouter(h *Handler, limiter *RateLimiter) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/healthz", h.Health)
	router.GET("/languages", h.Languages)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	run := router.Group("/run")
	if limiter != nil {
		run.Use(limiter.Middleware())
	}
	run.POST("", h.Run)
	run.POST("/batch", h.RunBatch)

	return router
}

func requestLogger() gin.HandlerFunc {
	log := logger.NewNamedLogger("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Infof("%s %s %d %s", c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
