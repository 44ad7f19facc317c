package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"flightdocs/internal/config"
	"flightdocs/internal/domain"
	"flightdocs/internal/extractor"
	"flightdocs/internal/logger"
	"flightdocs/internal/metrics"
	"flightdocs/internal/parser"
	"flightdocs/internal/port"
	"flightdocs/internal/service"
	"flightdocs/mocks"
)

const scenarioText = `AI-102 ... Departing Sat, 12 Jul 25, 04:55 ... Delhi, Terminal 3 ... ` +
	`Arriving Sun, 13 Jul 25, 02:10 ... Paris, Terminal 2C ... ` +
	`1 MR JOHN SMITH (A), DEL-CDG ... (1234567890123)`

type deps struct {
	tickets *mocks.MockTicketExtractor
	model   *mocks.MockModelExtractor
	ocr     *mocks.MockOCREngine
	pdf     *mocks.MockPDFTextExtractor
	uploads *mocks.MockUploadStore
	source  *mocks.MockDocumentSource
	metrics *metrics.Metrics
}

func newDeps() *deps {
	return &deps{
		tickets: new(mocks.MockTicketExtractor),
		model:   new(mocks.MockModelExtractor),
		ocr:     new(mocks.MockOCREngine),
		pdf:     new(mocks.MockPDFTextExtractor),
		uploads: new(mocks.MockUploadStore),
		source:  new(mocks.MockDocumentSource),
		metrics: metrics.New("test", prometheus.NewRegistry()),
	}
}

func (d *deps) service(useLLM bool) service.ExtractionService {
	return service.NewExtractionService(
		&config.ExtractionConfig{UseLLM: useLLM},
		d.tickets, d.model, d.ocr, d.pdf, d.uploads, d.source, d.metrics, logger.NewNop(),
	)
}

func sampleRecord(number string) domain.FlightRecord {
	return domain.FlightRecord{
		FlightDetails:    domain.FlightDetails{FlightNumber: number},
		PassengerDetails: []domain.Passenger{{Name: "MR JOHN SMITH", PassportNumber: "1234567890"}},
	}
}

func TestExtractText_LLMPath(t *testing.T) {
	d := newDeps()
	d.model.On("Extract", mock.Anything, "AI-102 body").
		Return(port.ModelResult{Tickets: []domain.FlightRecord{sampleRecord("AI102")}})

	payload := d.service(true).ExtractText(context.Background(), service.TextInput{RawText: "AI-102 body", Confidence: 88})

	assert.Equal(t, domain.StrategyLLM, payload.Strategy)
	assert.Equal(t, domain.SourceText, payload.Source)
	require.Len(t, payload.FlightTickets, 1)
	assert.Equal(t, "AI102", payload.FlightTickets[0].FlightDetails.FlightNumber)
	assert.Equal(t, "AI-102 body", payload.RawText)
	assert.Equal(t, 88.0, payload.Confidence)

	d.model.AssertExpectations(t)
	d.tickets.AssertNotCalled(t, "Extract", mock.Anything)
	assert.Equal(t, 1.0, testutil.ToFloat64(d.metrics.Runs.WithLabelValues("llm", "text")))
}

func TestExtractText_LLMFailureDegradesToEmpty(t *testing.T) {
	d := newDeps()
	d.model.On("Extract", mock.Anything, mock.Anything).Return(port.ModelResult{
		Tickets: []domain.FlightRecord{},
		Failure: &port.ExtractionFailure{Stage: port.StageDecode, Err: errors.New("invalid character 'H'")},
	})

	payload := d.service(true).ExtractText(context.Background(), service.TextInput{RawText: scenarioText})

	assert.NotNil(t, payload.FlightTickets)
	assert.Empty(t, payload.FlightTickets)
	assert.Equal(t, scenarioText, payload.RawText)
	assert.Equal(t, domain.StrategyLLM, payload.Strategy)
	d.tickets.AssertNotCalled(t, "Extract", mock.Anything)
	assert.Equal(t, 1.0, testutil.ToFloat64(d.metrics.LLMFailures.WithLabelValues(port.StageDecode)))
}

func TestExtractText_DeterministicWhenLLMDisabled(t *testing.T) {
	d := newDeps()
	d.tickets.On("Extract", "AI-102 body").Return([]domain.FlightRecord{sampleRecord("AI102")})

	payload := d.service(false).ExtractText(context.Background(), service.TextInput{RawText: "AI-102 body"})

	assert.Equal(t, domain.StrategyDeterministic, payload.Strategy)
	require.Len(t, payload.FlightTickets, 1)
	d.model.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}

func TestExtractText_BlankTextSkipsLLM(t *testing.T) {
	for _, raw := range []string{"", "  \n\t\n"} {
		d := newDeps()
		d.tickets.On("Extract", raw).Return(nil)

		payload := d.service(true).ExtractText(context.Background(), service.TextInput{RawText: raw})

		assert.Equal(t, domain.StrategyDeterministic, payload.Strategy)
		assert.NotNil(t, payload.FlightTickets, "flightTickets must serialise as []")
		assert.Empty(t, payload.FlightTickets)
		assert.NotNil(t, payload.Lines)
		d.model.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
	}
}

func TestExtractText_NilModelDegrades(t *testing.T) {
	d := newDeps()
	svc := service.NewExtractionService(
		&config.ExtractionConfig{UseLLM: true},
		d.tickets, nil, d.ocr, d.pdf, d.uploads, nil, d.metrics, logger.NewNop(),
	)

	payload := svc.ExtractText(context.Background(), service.TextInput{RawText: scenarioText})

	assert.Empty(t, payload.FlightTickets)
	assert.Equal(t, domain.StrategyLLM, payload.Strategy)
	assert.Equal(t, 1.0, testutil.ToFloat64(d.metrics.LLMFailures.WithLabelValues(port.StageRequest)))
}

// Real extractors end to end: the pattern extractor for the ticket scenario and the
// model adapter over a client that returns prose.
func TestExtractText_EndToEnd(t *testing.T) {
	ex := extractor.New(nil)

	t.Run("deterministic scenario", func(t *testing.T) {
		svc := service.NewExtractionService(&config.ExtractionConfig{UseLLM: false},
			ex, nil, nil, nil, nil, nil, nil, logger.NewNop())

		payload := svc.ExtractText(context.Background(), service.TextInput{RawText: scenarioText})
		require.Len(t, payload.FlightTickets, 1)
		rec := payload.FlightTickets[0]
		assert.Equal(t, "AI102", rec.FlightDetails.FlightNumber)
		assert.Equal(t, "Delhi, Terminal 3", *rec.FlightDetails.Origin)
		assert.Equal(t, "Paris, Terminal 2C", *rec.FlightDetails.Destination)
		require.Len(t, rec.PassengerDetails, 1)
		assert.Equal(t, "MR JOHN SMITH", rec.PassengerDetails[0].Name)
		assert.Equal(t, "1234567890123", rec.PassengerDetails[0].PassportNumber)
	})

	t.Run("model returns invalid text", func(t *testing.T) {
		client := new(mocks.MockCompletionClient)
		client.On("Complete", mock.Anything, mock.Anything).
			Return(&port.CompletionResponse{Text: "Sure! Here are the flights: AI102"}, nil)
		tp, err := parser.NewTicketParser(client, "gpt-4o-mini", nil, logger.NewNop())
		require.NoError(t, err)

		svc := service.NewExtractionService(&config.ExtractionConfig{UseLLM: true},
			ex, tp, nil, nil, nil, nil, nil, logger.NewNop())

		var payload *domain.ExtractionPayload
		assert.NotPanics(t, func() {
			payload = svc.ExtractText(context.Background(), service.TextInput{RawText: scenarioText, Confidence: 97})
		})
		assert.Equal(t, []domain.FlightRecord{}, payload.FlightTickets)
		assert.Equal(t, scenarioText, payload.RawText)
	})

	t.Run("model id missing", func(t *testing.T) {
		client := new(mocks.MockCompletionClient)
		client.On("Complete", mock.Anything, mock.Anything).Return(nil, domain.ErrModelNotConfigured)
		tp, err := parser.NewTicketParser(client, "", nil, logger.NewNop())
		require.NoError(t, err)

		svc := service.NewExtractionService(&config.ExtractionConfig{UseLLM: true},
			ex, tp, nil, nil, nil, nil, nil, logger.NewNop())

		payload := svc.ExtractText(context.Background(), service.TextInput{RawText: scenarioText})
		assert.Empty(t, payload.FlightTickets)
	})
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, service.SplitLines("a\n\n\nb\r\nc"))
	assert.Equal(t, []string{""}, service.SplitLines(""))
	assert.Equal(t, []string{"a", ""}, service.SplitLines("a\n"))
}

func TestSourceFor(t *testing.T) {
	for name, want := range map[string]domain.SourceType{
		"scan.JPG": domain.SourceImage, "a.jpeg": domain.SourceImage, "b.png": domain.SourceImage,
		"c.bmp": domain.SourceImage, "d.tiff": domain.SourceImage, "e.webp": domain.SourceImage,
		"ticket.PDF": domain.SourcePDF,
	} {
		got, err := service.SourceFor(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	for _, name := range []string{"ticket.docx", "noext", "archive.pdf.zip", ".gif"} {
		_, err := service.SourceFor(name)
		assert.ErrorIs(t, err, domain.ErrUnsupportedFileType, name)
	}
}

func TestProcessDocument_Image(t *testing.T) {
	d := newDeps()
	d.ocr.On("Recognize", mock.Anything, "/tmp/x-scan.png").
		Return(&port.RecognizedText{Text: "AI-102\n\nline two", Confidence: 91.5}, nil)
	d.tickets.On("Extract", "AI-102\n\nline two").Return([]domain.FlightRecord{})

	payload, err := d.service(false).ProcessDocument(context.Background(),
		service.DocumentInput{Path: "/tmp/x-scan.png", FileName: "scan.png"})

	require.NoError(t, err)
	assert.Equal(t, 91.5, payload.Confidence)
	assert.Equal(t, []string{"AI-102", "line two"}, payload.Lines)
	assert.Equal(t, domain.SourceImage, payload.Source)
}

func TestProcessDocument_PDF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ticket.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))

	d := newDeps()
	d.pdf.On("ExtractText", mock.Anything, []byte("%PDF-1.4")).Return(scenarioText, nil)
	d.model.On("Extract", mock.Anything, scenarioText).Return(port.ModelResult{Tickets: []domain.FlightRecord{sampleRecord("AI102")}})

	payload, err := d.service(true).ProcessDocument(context.Background(),
		service.DocumentInput{Path: path, FileName: "ticket.pdf"})

	require.NoError(t, err)
	assert.Equal(t, float64(service.PDFConfidence), payload.Confidence)
	assert.Len(t, payload.FlightTickets, 1)
	assert.Equal(t, domain.SourcePDF, payload.Source)
}

func TestProcessDocument_CollaboratorFailuresPropagate(t *testing.T) {
	d := newDeps()
	d.ocr.On("Recognize", mock.Anything, mock.Anything).Return(nil, domain.ErrOCRFailed)

	_, err := d.service(true).ProcessDocument(context.Background(), service.DocumentInput{Path: "p", FileName: "a.jpg"})
	assert.ErrorIs(t, err, domain.ErrOCRFailed)

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.pdf")
	require.NoError(t, os.WriteFile(path, []byte("junk"), 0o600))
	d.pdf.On("ExtractText", mock.Anything, mock.Anything).Return("", domain.ErrPDFExtractionFailed)

	_, err = d.service(true).ProcessDocument(context.Background(), service.DocumentInput{Path: path, FileName: "bad.pdf"})
	assert.ErrorIs(t, err, domain.ErrPDFExtractionFailed)

	_, err = d.service(true).ProcessDocument(context.Background(), service.DocumentInput{Path: filepath.Join(dir, "gone.pdf"), FileName: "gone.pdf"})
	assert.ErrorIs(t, err, os.ErrNotExist)

	d.model.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}

func TestProcessDocument_UnsupportedType(t *testing.T) {
	d := newDeps()
	_, err := d.service(true).ProcessDocument(context.Background(), service.DocumentInput{Path: "p", FileName: "ticket.txt"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestProcessUpload_ReleasesAfterRun(t *testing.T) {
	d := newDeps()
	stored := &port.StoredFile{Path: "/uploads/abc-scan.jpg", OriginalName: "scan.jpg"}
	body := strings.NewReader("jpeg bytes")
	d.uploads.On("Save", mock.Anything, "scan.jpg", body).Return(stored, nil)
	d.uploads.On("Release", stored).Return()
	d.ocr.On("Recognize", mock.Anything, stored.Path).Return(&port.RecognizedText{Text: ""}, nil)
	d.tickets.On("Extract", "").Return(nil)

	payload, err := d.service(true).ProcessUpload(context.Background(), "scan.jpg", body)

	require.NoError(t, err)
	assert.Empty(t, payload.FlightTickets)
	d.uploads.AssertExpectations(t)
}

func TestProcessUpload_ReleasesOnFailure(t *testing.T) {
	d := newDeps()
	stored := &port.StoredFile{Path: "/uploads/abc-scan.jpg"}
	d.uploads.On("Save", mock.Anything, "scan.jpg", mock.Anything).Return(stored, nil)
	d.uploads.On("Release", stored).Return()
	d.ocr.On("Recognize", mock.Anything, mock.Anything).Return(nil, errors.New("tesseract crashed"))

	_, err := d.service(true).ProcessUpload(context.Background(), "scan.jpg", strings.NewReader("x"))

	assert.Error(t, err)
	d.uploads.AssertCalled(t, "Release", stored)
}

func TestProcessUpload_RejectsBeforeSaving(t *testing.T) {
	d := newDeps()

	_, err := d.service(true).ProcessUpload(context.Background(), "notes.txt", strings.NewReader("x"))

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
	d.uploads.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessStored(t *testing.T) {
	d := newDeps()
	d.source.On("Fetch", mock.Anything, "inbox/2025/ticket.pdf").
		Return(&port.SourceObject{Key: "inbox/2025/ticket.pdf", Body: []byte("%PDF")}, nil)
	stored := &port.StoredFile{Path: filepath.Join(t.TempDir(), "x-ticket.pdf")}
	require.NoError(t, os.WriteFile(stored.Path, []byte("%PDF"), 0o600))
	d.uploads.On("Save", mock.Anything, "ticket.pdf", mock.Anything).Return(stored, nil)
	d.uploads.On("Release", stored).Return()
	d.pdf.On("ExtractText", mock.Anything, []byte("%PDF")).Return("no flights", nil)
	d.tickets.On("Extract", "no flights").Return([]domain.FlightRecord{})

	payload, err := d.service(false).ProcessStored(context.Background(), "inbox/2025/ticket.pdf")

	require.NoError(t, err)
	assert.Equal(t, "no flights", payload.RawText)
	d.source.AssertExpectations(t)
}

func TestProcessStored_Errors(t *testing.T) {
	d := newDeps()
	svc := service.NewExtractionService(&config.ExtractionConfig{}, d.tickets, nil, d.ocr, d.pdf, d.uploads, nil, nil, logger.NewNop())
	_, err := svc.ProcessStored(context.Background(), "a.pdf")
	assert.ErrorIs(t, err, domain.ErrSourceNotConfigured)

	d.source.On("Fetch", mock.Anything, "missing.pdf").Return(nil, domain.ErrDocumentNotFound)
	_, err = d.service(false).ProcessStored(context.Background(), "missing.pdf")
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)

	_, err = d.service(false).ProcessStored(context.Background(), "notes.docx")
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}
