package handler

// Swagger type definitions for API documentation.

// ExtractTextRequest represents the text extraction request body.
type ExtractTextRequest struct {
	RawText    string  `json:"rawText" example:"AI-102 Departure Mon, 15 Mar 24, 09:30 ..."`
	Confidence float64 `json:"confidence" binding:"gte=0,lte=100" example:"91.5"`
}

// ExtractStoredRequest represents the object storage extraction request body.
type ExtractStoredRequest struct {
	Key string `json:"key" binding:"required" example:"tickets/2024/ai102.pdf"`
}

// Response wraps a successful response.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
