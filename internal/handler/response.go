package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"flightdocs/internal/domain"
)

// APIResponse is the standard envelope for all /api/v1 responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// LegacyError is the bare error body of POST /api/ocr.
type LegacyError struct {
	Error string `json:"error"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrMissingFile):
		return http.StatusBadRequest, "MISSING_FILE", "No file uploaded"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "Unsupported file type"
	case errors.Is(err, domain.ErrUnsupportedExport):
		return http.StatusBadRequest, "UNSUPPORTED_FORMAT", "unsupported export format; allowed: json, csv, xlsx"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrDocumentNotFound):
		return http.StatusNotFound, "DOCUMENT_NOT_FOUND", "document not found"
	case errors.Is(err, domain.ErrSourceNotConfigured):
		return http.StatusServiceUnavailable, "SOURCE_NOT_CONFIGURED", "object storage source is not configured"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "Upload failed"
	case errors.Is(err, domain.ErrOCRFailed):
		return http.StatusInternalServerError, "OCR_FAILED", "text recognition failed"
	case errors.Is(err, domain.ErrPDFExtractionFailed):
		return http.StatusInternalServerError, "PDF_EXTRACTION_FAILED", "pdf text extraction failed"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
// Server errors are attached to the context for the request logger.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	RespondError(c, status, code, msg)
}

// HandleLegacyError sends {"error": msg}. Processing failures carry the
// underlying error text.
func HandleLegacyError(c *gin.Context, err error) {
	status, _, msg := MapDomainError(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		if !errors.Is(err, domain.ErrUploadFailed) {
			msg = err.Error()
		}
	}
	c.JSON(status, LegacyError{Error: msg})
}
