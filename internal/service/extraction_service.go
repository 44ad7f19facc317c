package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"flightdocs/internal/config"
	"flightdocs/internal/domain"
	"flightdocs/internal/logger"
	"flightdocs/internal/metrics"
	"flightdocs/internal/port"
)

// PDFConfidence is reported for text read from a PDF text layer.
const PDFConfidence = 97

var lineBreaks = regexp.MustCompile(`(?:\r?\n)+`)

// TextInput is raw text acquired outside the service.
type TextInput struct {
	RawText    string
	Confidence float64
}

// DocumentInput is a document already on local disk.
type DocumentInput struct {
	Path     string
	FileName string
}

// ExtractionService turns a single document into flight records.
type ExtractionService interface {
	// ExtractText runs the extraction policy over pre-acquired text. It cannot fail.
	ExtractText(ctx context.Context, input TextInput) *domain.ExtractionPayload
	// ProcessDocument acquires text from a local image or PDF and runs the policy.
	// Only text acquisition errors are returned.
	ProcessDocument(ctx context.Context, input DocumentInput) (*domain.ExtractionPayload, error)
	// ProcessUpload stores body for the duration of the run, then releases it.
	ProcessUpload(ctx context.Context, fileName string, body io.Reader) (*domain.ExtractionPayload, error)
	// ProcessStored fetches a document from the configured object store.
	ProcessStored(ctx context.Context, key string) (*domain.ExtractionPayload, error)
	LLMEnabled() bool
}

type extractionService struct {
	cfg     *config.ExtractionConfig
	tickets port.TicketExtractor
	model   port.ModelExtractor
	ocr     port.OCREngine
	pdf     port.PDFTextExtractor
	uploads port.UploadStore
	source  port.DocumentSource
	metrics *metrics.Metrics
	log     logger.Logger
}

// NewExtractionService creates a new ExtractionService. model and source may be nil:
// a nil model makes every LLM attempt degrade to an empty result, a nil source
// disables ProcessStored.
func NewExtractionService(
	cfg *config.ExtractionConfig,
	tickets port.TicketExtractor,
	model port.ModelExtractor,
	ocr port.OCREngine,
	pdf port.PDFTextExtractor,
	uploads port.UploadStore,
	source port.DocumentSource,
	m *metrics.Metrics,
	log logger.Logger,
) ExtractionService {
	return &extractionService{
		cfg:     cfg,
		tickets: tickets,
		model:   model,
		ocr:     ocr,
		pdf:     pdf,
		uploads: uploads,
		source:  source,
		metrics: m,
		log:     log,
	}
}

func (s *extractionService) LLMEnabled() bool {
	return s.cfg.UseLLM
}

// SourceFor returns the collaborator that reads fileName, by extension.
func SourceFor(fileName string) (domain.SourceType, error) {
	src, ok := domain.AllowedExtensions[strings.ToLower(filepath.Ext(fileName))]
	if !ok {
		return "", domain.ErrUnsupportedFileType
	}
	return src, nil
}

// SplitLines splits raw text on runs of line breaks.
func SplitLines(raw string) []string {
	return lineBreaks.Split(raw, -1)
}

func (s *extractionService) ExtractText(ctx context.Context, input TextInput) *domain.ExtractionPayload {
	return s.run(ctx, input.RawText, input.Confidence, domain.SourceText)
}

func (s *extractionService) ProcessDocument(ctx context.Context, input DocumentInput) (*domain.ExtractionPayload, error) {
	src, err := SourceFor(input.FileName)
	if err != nil {
		return nil, err
	}

	var (
		raw        string
		confidence float64
	)
	switch src {
	case domain.SourceImage:
		rec, err := s.ocr.Recognize(ctx, input.Path)
		if err != nil {
			s.log.Error("service.ocr.failed", "file", input.FileName, "error", err)
			return nil, fmt.Errorf("recognizing %s: %w", input.FileName, err)
		}
		raw, confidence = rec.Text, rec.Confidence
	case domain.SourcePDF:
		data, err := os.ReadFile(input.Path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", input.FileName, err)
		}
		raw, err = s.pdf.ExtractText(ctx, data)
		if err != nil {
			s.log.Error("service.pdf.failed", "file", input.FileName, "error", err)
			return nil, fmt.Errorf("extracting text from %s: %w", input.FileName, err)
		}
		confidence = PDFConfidence
	}

	return s.run(ctx, raw, confidence, src), nil
}

func (s *extractionService) ProcessUpload(ctx context.Context, fileName string, body io.Reader) (*domain.ExtractionPayload, error) {
	if _, err := SourceFor(fileName); err != nil {
		return nil, err
	}

	stored, err := s.uploads.Save(ctx, fileName, body)
	if err != nil {
		return nil, err
	}
	defer s.uploads.Release(stored)

	return s.ProcessDocument(ctx, DocumentInput{Path: stored.Path, FileName: fileName})
}

func (s *extractionService) ProcessStored(ctx context.Context, key string) (*domain.ExtractionPayload, error) {
	if s.source == nil {
		return nil, domain.ErrSourceNotConfigured
	}
	name := path.Base(key)
	if _, err := SourceFor(name); err != nil {
		return nil, err
	}

	obj, err := s.source.Fetch(ctx, key)
	if err != nil {
		return nil, err
	}
	return s.ProcessUpload(ctx, name, bytes.NewReader(obj.Body))
}

// run applies the extraction policy: the model when enabled and there is text to
// read, otherwise the pattern extractor. Exactly one runs.
func (s *extractionService) run(ctx context.Context, raw string, confidence float64, src domain.SourceType) *domain.ExtractionPayload {
	start := time.Now()
	payload := &domain.ExtractionPayload{
		RawText:    raw,
		Lines:      SplitLines(raw),
		Confidence: confidence,
		Source:     src,
	}

	if s.cfg.UseLLM && strings.TrimSpace(raw) != "" {
		payload.Strategy = domain.StrategyLLM
		res := s.extractWithModel(ctx, raw)
		if res.Failure != nil {
			s.metrics.ObserveLLMFailure(res.Failure.Stage)
			s.log.Warn("service.extract.llm_degraded", "source", src, "stage", res.Failure.Stage, "error", res.Failure.Err)
		}
		payload.FlightTickets = res.Tickets
	} else {
		payload.Strategy = domain.StrategyDeterministic
		payload.FlightTickets = s.tickets.Extract(raw)
	}
	if payload.FlightTickets == nil {
		payload.FlightTickets = []domain.FlightRecord{}
	}

	s.metrics.ObserveRun(string(payload.Strategy), string(src), len(payload.FlightTickets), time.Since(start))
	s.log.Info("service.extract.done",
		"strategy", payload.Strategy,
		"source", src,
		"records", len(payload.FlightTickets),
		"chars", len(raw),
	)
	return payload
}

func (s *extractionService) extractWithModel(ctx context.Context, raw string) port.ModelResult {
	if s.model == nil {
		return port.ModelResult{
			Tickets: []domain.FlightRecord{},
			Failure: &port.ExtractionFailure{Stage: port.StageRequest, Err: domain.ErrModelNotConfigured},
		}
	}
	return s.model.Extract(ctx, raw)
}
