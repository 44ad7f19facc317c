// Package ocr recognises ticket text in images using Tesseract (via gosseract).
package ocr

import (
	"context"
	"fmt"
	"os"

	"github.com/otiai10/gosseract/v2"

	"flightdocs/internal/config"
	"flightdocs/internal/domain"
	"flightdocs/internal/logger"
	"flightdocs/internal/port"
)

// TesseractEngine implements port.OCREngine. A new gosseract client is created per call,
// so the engine is safe for concurrent use.
type TesseractEngine struct {
	language   string
	preprocess bool
	log        logger.Logger
}

// NewTesseractEngine creates an engine from the OCR config.
func NewTesseractEngine(cfg *config.OCRConfig, log logger.Logger) *TesseractEngine {
	lang := cfg.Language
	if lang == "" {
		lang = "eng"
	}
	return &TesseractEngine{language: lang, preprocess: cfg.Preprocess, log: log}
}

// Recognize runs OCR over the image at imagePath. Confidence is the mean word
// confidence reported by Tesseract (0-100).
func (e *TesseractEngine) Recognize(ctx context.Context, imagePath string) (*port.RecognizedText, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := imagePath
	if e.preprocess {
		prepared, err := Preprocess(imagePath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrOCRFailed, err)
		}
		defer func() {
			if rmErr := os.Remove(prepared); rmErr != nil {
				e.log.Warn("ocr.preprocess.cleanup_failed", "path", prepared, "error", rmErr)
			}
		}()
		path = prepared
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.language); err != nil {
		return nil, fmt.Errorf("%w: setting language: %v", domain.ErrOCRFailed, err)
	}
	if err := client.SetImage(path); err != nil {
		return nil, fmt.Errorf("%w: setting image: %v", domain.ErrOCRFailed, err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOCRFailed, err)
	}

	// Confidence is best effort; text alone is still a usable result.
	var confidence float64
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		e.log.Warn("ocr.confidence.unavailable", "error", err)
	} else {
		scores := make([]float64, 0, len(boxes))
		for _, box := range boxes {
			if box.Word == "" {
				continue
			}
			scores = append(scores, box.Confidence)
		}
		confidence = MeanConfidence(scores)
	}

	e.log.Debug("ocr.recognize.done", "chars", len(text), "confidence", confidence)
	return &port.RecognizedText{Text: text, Confidence: confidence}, nil
}

// Version returns the linked Tesseract version.
func (e *TesseractEngine) Version() string {
	client := gosseract.NewClient()
	defer client.Close()
	return client.Version()
}

// MeanConfidence averages per-word scores, returning 0 for no words.
func MeanConfidence(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}
