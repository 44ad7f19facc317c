package port

import (
	"context"

	"flightdocs/internal/domain"
)

// RecognizedText is the output of an OCR pass.
type RecognizedText struct {
	Text string
	// Confidence is the mean word confidence, 0-100.
	Confidence float64
}

// OCREngine recognises text in an image file.
type OCREngine interface {
	Recognize(ctx context.Context, imagePath string) (*RecognizedText, error)
	Version() string
}

// PDFTextExtractor pulls the text layer out of a PDF document.
type PDFTextExtractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// TicketExtractor is the pattern-based extractor.
type TicketExtractor interface {
	Extract(rawText string) []domain.FlightRecord
}

// Model extraction failure stages.
const (
	StageRequest = "request"
	StageDecode  = "decode"
	StageSchema  = "schema"
)

// ExtractionFailure explains why a model extraction produced nothing.
type ExtractionFailure struct {
	Stage string
	Err   error
}

func (f *ExtractionFailure) Error() string {
	return f.Stage + ": " + f.Err.Error()
}

func (f *ExtractionFailure) Unwrap() error {
	return f.Err
}

// ModelResult is the outcome of a model extraction. Tickets is empty whenever Failure is set.
type ModelResult struct {
	Tickets []domain.FlightRecord
	Failure *ExtractionFailure
}

// OK reports whether the extraction succeeded.
func (r ModelResult) OK() bool {
	return r.Failure == nil
}

// ModelExtractor extracts flight records with an LLM. It never returns an error;
// failures are reported in ModelResult.Failure.
type ModelExtractor interface {
	Extract(ctx context.Context, rawText string) ModelResult
}
