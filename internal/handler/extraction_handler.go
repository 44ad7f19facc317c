package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"path"
	"time"

	"github.com/gin-gonic/gin"

	"flightdocs/internal/domain"
	"flightdocs/internal/export"
	"flightdocs/internal/service"
)

// ExtractionHandler handles flight ticket extraction endpoints.
type ExtractionHandler struct {
	extractionService service.ExtractionService
	now               func() time.Time
}

// NewExtractionHandler creates a new ExtractionHandler.
func NewExtractionHandler(extractionService service.ExtractionService) *ExtractionHandler {
	return &ExtractionHandler{extractionService: extractionService, now: time.Now}
}

// OCR handles POST /api/ocr
// @Summary Extract flight tickets from an uploaded document (bare payload)
// @Description Responds with the extraction payload itself and {"error": "..."} on failure
// @Tags extraction
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Ticket image (jpg, jpeg, png, bmp, tiff, webp) or PDF"
// @Param format query string false "json (default), csv or xlsx"
// @Success 200 {object} domain.ExtractionPayload
// @Failure 400 {object} LegacyError "Missing file or unsupported type"
// @Failure 500 {object} LegacyError "Processing error"
// @Router /ocr [post]
func (h *ExtractionHandler) OCR(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		HandleLegacyError(c, err)
		return
	}

	payload, name, err := h.processUpload(c)
	if err != nil {
		HandleLegacyError(c, err)
		return
	}

	if format == domain.ExportJSON {
		c.JSON(http.StatusOK, payload)
		return
	}
	h.writeExport(c, format, name, payload, HandleLegacyError)
}

// Extract handles POST /api/v1/extract
// @Summary Extract flight tickets from an uploaded document
// @Tags extraction
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Ticket image (jpg, jpeg, png, bmp, tiff, webp) or PDF"
// @Param format query string false "json (default), csv or xlsx"
// @Success 200 {object} Response{data=domain.ExtractionPayload}
// @Failure 400 {object} ErrorResponseBody "Missing file or unsupported type"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 500 {object} ErrorResponseBody "Processing error"
// @Router /v1/extract [post]
func (h *ExtractionHandler) Extract(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		HandleError(c, err)
		return
	}

	payload, name, err := h.processUpload(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	h.respond(c, format, name, payload)
}

// ExtractText handles POST /api/v1/extract/text
// @Summary Extract flight tickets from already recognized text
// @Tags extraction
// @Accept json
// @Produce json
// @Param body body ExtractTextRequest true "Raw text and its recognition confidence"
// @Param format query string false "json (default), csv or xlsx"
// @Success 200 {object} Response{data=domain.ExtractionPayload}
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Router /v1/extract/text [post]
func (h *ExtractionHandler) ExtractText(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		HandleError(c, err)
		return
	}

	var req ExtractTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	payload := h.extractionService.ExtractText(c.Request.Context(), service.TextInput{
		RawText:    req.RawText,
		Confidence: req.Confidence,
	})
	h.respond(c, format, "flight_tickets", payload)
}

// ExtractStored handles POST /api/v1/extract/s3
// @Summary Extract flight tickets from a document in object storage
// @Tags extraction
// @Accept json
// @Produce json
// @Param body body ExtractStoredRequest true "Object key"
// @Param format query string false "json (default), csv or xlsx"
// @Success 200 {object} Response{data=domain.ExtractionPayload}
// @Failure 400 {object} ErrorResponseBody "Invalid request or unsupported type"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Failure 503 {object} ErrorResponseBody "Object storage not configured"
// @Router /v1/extract/s3 [post]
func (h *ExtractionHandler) ExtractStored(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		HandleError(c, err)
		return
	}

	var req ExtractStoredRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	payload, err := h.extractionService.ProcessStored(c.Request.Context(), req.Key)
	if err != nil {
		HandleError(c, err)
		return
	}
	h.respond(c, format, path.Base(req.Key), payload)
}

func (h *ExtractionHandler) processUpload(c *gin.Context) (*domain.ExtractionPayload, string, error) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		return nil, "", domain.ErrMissingFile
	}
	defer func() { _ = file.Close() }()

	payload, err := h.extractionService.ProcessUpload(c.Request.Context(), header.Filename, file)
	if err != nil {
		return nil, "", err
	}
	return payload, header.Filename, nil
}

func (h *ExtractionHandler) respond(c *gin.Context, format domain.ExportFormat, name string, payload *domain.ExtractionPayload) {
	if format == domain.ExportJSON {
		RespondOK(c, payload)
		return
	}
	h.writeExport(c, format, name, payload, HandleError)
}

func (h *ExtractionHandler) writeExport(
	c *gin.Context,
	format domain.ExportFormat,
	name string,
	payload *domain.ExtractionPayload,
	onError func(*gin.Context, error),
) {
	var buf bytes.Buffer
	if err := export.Write(&buf, format, payload.FlightTickets); err != nil {
		onError(c, fmt.Errorf("rendering %s export: %w", format, err))
		return
	}

	filename := export.BuildFilename(name, format, h.now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, export.ContentType(format), buf.Bytes())
}
