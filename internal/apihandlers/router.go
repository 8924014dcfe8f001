package apihandlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"selectsense/internal/app"
)

const requestIDHeader = "X-Request-ID"

// NewRouter builds the gin engine with every API route.
func NewRouter(a *app.App) *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger(), gin.Recovery())

	h := NewAPIHandler(a)
	v1 := router.Group("/api/v1")
	{
		v1.POST("/classify", h.ClassifyHandler)
		v1.POST("/classify/batch", h.ClassifyBatchHandler)
		v1.POST("/hint", h.HintHandler)
		v1.GET("/actions/:category", h.ActionsHandler)
		v1.POST("/assist", h.AssistHandler)
		v1.GET("/usage", h.UsageHandler)
	}
	router.GET("/health", h.HealthHandler)
	return router
}

// RequestLogger logs each request through logrus, tagging it with the
// caller's X-Request-ID or a fresh UUID.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)

		c.Next()

		entry := log.WithFields(log.Fields{
			"request_id": id,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
			"client_ip":  c.ClientIP(),
		})
		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request handled")
		}
	}
}
