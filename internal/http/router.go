package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// NewRouter configura el router de Gin con middlewares y rutas base.
// corsOrigins vacio desactiva CORS.
func NewRouter(logger *zap.Logger, quizH *QuizHandler, corsOrigins []string) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: request id, logging y recovery.
	r.Use(requestIDMiddleware(), zapLoggerMiddleware(logger), gin.Recovery())
	if len(corsOrigins) > 0 {
		cfg := cors.DefaultConfig()
		cfg.AllowOrigins = corsOrigins
		cfg.AllowHeaders = append(cfg.AllowHeaders, "Accept-Language", requestIDHeader)
		cfg.ExposeHeaders = []string{"Content-Disposition", requestIDHeader}
		cfg.MaxAge = 12 * time.Hour
		r.Use(cors.New(cfg))
	}

	r.GET("/health", quizH.Health)

	api := r.Group("/api", jsonContentTypeMiddleware())
	api.GET("/questions", quizH.Questions)
	api.POST("/results", quizH.Results)

	// El PDF no pasa por el middleware JSON.
	r.POST("/export/pdf", quizH.ExportPDF)

	return r
}

// requestIDMiddleware reutiliza X-Request-ID o genera uno nuevo.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
