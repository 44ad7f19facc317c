package app

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"flightdocs/internal/config"
	"flightdocs/internal/extractor"
	"flightdocs/internal/logger"
	"flightdocs/internal/metrics"
	"flightdocs/internal/ocr"
	"flightdocs/internal/parser"
	"flightdocs/internal/parser/claude"
	"flightdocs/internal/parser/gemini"
	"flightdocs/internal/parser/openai"
	"flightdocs/internal/pdftext"
	"flightdocs/internal/port"
	"flightdocs/internal/service"
	"flightdocs/internal/storage/local"
	s3source "flightdocs/internal/storage/s3"
)

// Providers returns a registry holding every built-in completion provider.
func Providers() *parser.Registry {
	return parser.NewRegistry().
		Register("openai", openai.Factory).
		Register("claude", claude.Factory).
		Register("gemini", gemini.Factory)
}

// Pipeline is the wired extraction service plus the collaborators the HTTP layer
// reports on.
type Pipeline struct {
	Service service.ExtractionService
	OCR     port.OCREngine
	Metrics *metrics.Metrics
}

// NewPipeline wires the extraction service from cfg using the built-in providers.
// Metrics are registered on reg when enabled; reg may be nil.
func NewPipeline(cfg *config.Config, log logger.Logger, reg *prometheus.Registry) (*Pipeline, error) {
	return NewPipelineWithProviders(cfg, log, reg, Providers())
}

// NewPipelineWithProviders is NewPipeline with an explicit provider registry.
func NewPipelineWithProviders(cfg *config.Config, log logger.Logger, reg *prometheus.Registry, providers *parser.Registry) (*Pipeline, error) {
	loc, err := time.LoadLocation(cfg.Extraction.Location)
	if err != nil {
		return nil, fmt.Errorf("loading extraction location %q: %w", cfg.Extraction.Location, err)
	}
	norm := extractor.NewNormalizer(loc)

	var model port.ModelExtractor
	if cfg.Extraction.UseLLM {
		client, err := providers.NewClient(&cfg.Parser)
		if err != nil {
			return nil, fmt.Errorf("creating completion client: %w", err)
		}
		tp, err := parser.NewTicketParser(client, cfg.Parser.DefaultModel, norm, log.With("component", "parser"))
		if err != nil {
			return nil, err
		}
		if cfg.Parser.DefaultModel == "" {
			log.Warn("app.parser.no_model", "provider", cfg.Parser.Provider)
		}
		model = tp
	}

	var source port.DocumentSource
	if cfg.S3.Enabled() {
		src, err := s3source.NewDocumentSource(&cfg.S3, cfg.Upload.MaxFileSizeMB<<20)
		if err != nil {
			return nil, fmt.Errorf("initializing s3 source: %w", err)
		}
		source = src
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled && reg != nil {
		m = metrics.New(cfg.Metrics.Namespace, reg)
	}

	engine := ocr.NewTesseractEngine(&cfg.OCR, log.With("component", "ocr"))
	svc := service.NewExtractionService(
		&cfg.Extraction,
		extractor.New(norm),
		model,
		engine,
		pdftext.NewExtractor(),
		local.NewUploadStore(&cfg.Upload, log.With("component", "uploads")),
		source,
		m,
		log.With("component", "extraction"),
	)

	return &Pipeline{Service: svc, OCR: engine, Metrics: m}, nil
}
