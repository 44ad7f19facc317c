package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"flightdocs/internal/app"
	"flightdocs/internal/config"
	"flightdocs/internal/domain"
	"flightdocs/internal/export"
	"flightdocs/internal/logger"
	"flightdocs/internal/service"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		textMode   = pflag.Bool("text", false, "treat the input file as already recognized text")
		confidence = pflag.Float64("confidence", 100, "confidence reported for --text input (0-100)")
		formatStr  = pflag.String("format", "json", "output format: json, csv or xlsx")
		out        = pflag.StringP("out", "o", "", "output file (defaults to stdout)")
		useLLM     = pflag.Bool("llm", true, "extract with the language model (overrides configuration when set)")
	)
	pflag.Usage = func() {
		printError("Usage: extract [flags] <file>\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if pflag.NArg() != 1 {
		pflag.Usage()
		os.Exit(2)
	}

	format, err := export.ParseFormat(*formatStr)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		printError("Error: loading config: %v\n", err)
		os.Exit(1)
	}
	if pflag.CommandLine.Changed("llm") {
		cfg.Extraction.UseLLM = *useLLM
	}

	if err := run(cfg, pflag.Arg(0), *textMode, *confidence, format, *out); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, input string, textMode bool, confidence float64, format domain.ExportFormat, out string) error {
	zl, err := logger.New(config.LogConfig{Level: "warn", Format: cfg.Log.Format})
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()

	pipeline, err := app.NewPipeline(cfg, zl, nil)
	if err != nil {
		return err
	}

	ctx := context.Background()
	var payload *domain.ExtractionPayload
	if textMode {
		raw, err := os.ReadFile(input)
		if err != nil {
			return fmt.Errorf("reading %s: %w", input, err)
		}
		payload = pipeline.Service.ExtractText(ctx, service.TextInput{RawText: string(raw), Confidence: confidence})
	} else {
		abs, err := filepath.Abs(input)
		if err != nil {
			return err
		}
		payload, err = pipeline.Service.ProcessDocument(ctx, service.DocumentInput{Path: abs, FileName: filepath.Base(abs)})
		if err != nil {
			return err
		}
	}

	var w io.Writer = os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	if format == domain.ExportJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}
	return export.Write(w, format, payload.FlightTickets)
}
