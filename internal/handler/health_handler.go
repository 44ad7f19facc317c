package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"flightdocs/internal/port"
	"flightdocs/internal/service"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	ocr               port.OCREngine
	extractionService service.ExtractionService
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(ocr port.OCREngine, extractionService service.ExtractionService) *HealthHandler {
	return &HealthHandler{ocr: ocr, extractionService: extractionService}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	mode := "deterministic"
	if h.extractionService.LLMEnabled() {
		mode = "llm"
	}

	version := ""
	if h.ocr != nil {
		version = h.ocr.Version()
	}
	if version == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "unavailable",
			"error":      "ocr engine not available",
			"extraction": mode,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "ocr": version, "extraction": mode})
}
