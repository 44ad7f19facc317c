package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"flightdocs/internal/config"
	"flightdocs/internal/handler"
	"flightdocs/internal/logger"
	"flightdocs/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
// metricsHandler may be nil, in which case /metrics is not served.
func Setup(
	cfg *config.Config,
	log logger.Logger,
	extractionH *handler.ExtractionHandler,
	healthH *handler.HealthHandler,
	metricsHandler http.Handler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Multipart bodies beyond this spill to temp files.
	r.MaxMultipartMemory = cfg.Upload.MaxFileSizeMB << 20

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)
	if metricsHandler != nil {
		r.GET("/metrics", gin.WrapH(metricsHandler))
	}

	api := r.Group("/api")
	api.POST("/ocr", extractionH.OCR)

	v1 := api.Group("/v1")
	extract := v1.Group("/extract")
	extract.POST("", extractionH.Extract)
	extract.POST("/text", extractionH.ExtractText)
	extract.POST("/s3", extractionH.ExtractStored)

	return r
}
