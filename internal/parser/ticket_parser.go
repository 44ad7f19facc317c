package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"flightdocs/internal/domain"
	"flightdocs/internal/extractor"
	"flightdocs/internal/logger"
	"flightdocs/internal/port"
)

// Temperature is pinned to the most deterministic setting.
const Temperature = 0.0

// TicketParser extracts flight records by asking an LLM to convert raw ticket text to JSON.
// It implements port.ModelExtractor and never returns an error.
type TicketParser struct {
	client port.CompletionClient
	model  string
	norm   *extractor.Normalizer
	schema *jsonschema.Schema
	log    logger.Logger
}

// NewTicketParser creates a TicketParser. model may be empty, in which case every
// extraction fails at the request stage.
func NewTicketParser(client port.CompletionClient, model string, norm *extractor.Normalizer, log logger.Logger) (*TicketParser, error) {
	schema, err := compileTicketSchema()
	if err != nil {
		return nil, fmt.Errorf("ticket schema: %w", err)
	}
	if norm == nil {
		norm = extractor.NewNormalizer(nil)
	}
	return &TicketParser{
		client: client,
		model:  model,
		norm:   norm,
		schema: schema,
		log:    log,
	}, nil
}

// Extract issues one completion request and decodes the reply.
func (p *TicketParser) Extract(ctx context.Context, rawText string) port.ModelResult {
	resp, err := p.client.Complete(ctx, port.CompletionRequest{
		Model:        p.model,
		SystemPrompt: SystemPrompt,
		UserPrompt:   BuildTicketPrompt(rawText),
		Temperature:  Temperature,
	})
	if err != nil {
		return p.fail(port.StageRequest, err, "")
	}

	reply := strings.TrimSpace(resp.Text)

	var doc any
	if err := json.Unmarshal([]byte(reply), &doc); err != nil {
		return p.fail(port.StageDecode, err, reply)
	}
	if err := p.schema.Validate(doc); err != nil {
		return p.fail(port.StageSchema, err, reply)
	}

	var raw []modelRecord
	if err := json.Unmarshal([]byte(reply), &raw); err != nil {
		return p.fail(port.StageDecode, err, reply)
	}

	tickets := make([]domain.FlightRecord, 0, len(raw))
	for i := range raw {
		if rec, ok := raw[i].toRecord(p.norm); ok {
			tickets = append(tickets, rec)
		}
	}
	p.log.Debug("parser.extract.done", "model", resp.Model, "records", len(tickets), "returned", len(raw))
	return port.ModelResult{Tickets: tickets}
}

func (p *TicketParser) fail(stage string, err error, reply string) port.ModelResult {
	kv := []interface{}{"stage", stage, "error", err.Error()}
	if reply != "" {
		kv = append(kv, "reply", Truncate(reply, 500))
	}
	if rl, ok := AsRateLimit(err); ok {
		kv = append(kv, "rate_limited", true, "provider", rl.Provider)
		if rl.RetryAfter > 0 {
			kv = append(kv, "retry_after", rl.RetryAfter)
		}
	}
	p.log.Warn("parser.extract.failed", kv...)
	return port.ModelResult{
		Tickets: []domain.FlightRecord{},
		Failure: &port.ExtractionFailure{Stage: stage, Err: err},
	}
}

// modelRecord mirrors the reply shape with every field optional.
type modelRecord struct {
	FlightDetails struct {
		FlightNumber  *string  `json:"flightNumber"`
		DepartureTime *string  `json:"departureTime"`
		ArrivalTime   *string  `json:"arrivalTime"`
		Origin        *string  `json:"origin"`
		Destination   *string  `json:"destination"`
		Price         *float64 `json:"price"`
	} `json:"flightDetails"`
	PassengerDetails []modelPassenger `json:"passengerDetails"`
}

type modelPassenger struct {
	Name           *string `json:"name"`
	PassportNumber *string `json:"passportNumber"`
	SeatNumber     *string `json:"seatNumber"`
	MealPreference *string `json:"mealPreference"`
}

var flightNumberCleaner = strings.NewReplacer(" ", "", "-", "")

// toRecord applies the same invariants the pattern extractor guarantees: a flight
// number, at least one passenger, valid document numbers and normalized timestamps.
func (m *modelRecord) toRecord(norm *extractor.Normalizer) (domain.FlightRecord, bool) {
	fd := m.FlightDetails
	number := strings.ToUpper(flightNumberCleaner.Replace(deref(fd.FlightNumber)))
	if number == "" {
		return domain.FlightRecord{}, false
	}

	passengers := make([]domain.Passenger, 0, len(m.PassengerDetails))
	for _, mp := range m.PassengerDetails {
		name := strings.Join(strings.Fields(deref(mp.Name)), " ")
		passport := strings.ReplaceAll(deref(mp.PassportNumber), " ", "")
		if name == "" || !extractor.ValidPassport(passport) {
			continue
		}
		passengers = append(passengers, domain.Passenger{
			Name:           name,
			PassportNumber: passport,
			SeatNumber:     optional(mp.SeatNumber),
			MealPreference: optional(mp.MealPreference),
		})
	}
	if len(passengers) == 0 {
		return domain.FlightRecord{}, false
	}

	return domain.FlightRecord{
		FlightDetails: domain.FlightDetails{
			FlightNumber:  number,
			DepartureTime: norm.Renormalize(fd.DepartureTime),
			ArrivalTime:   norm.Renormalize(fd.ArrivalTime),
			Origin:        optional(fd.Origin),
			Destination:   optional(fd.Destination),
			Price:         fd.Price,
		},
		PassengerDetails: passengers,
	}, true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// optional trims s and maps blanks to nil.
func optional(s *string) *string {
	v := deref(s)
	if v == "" {
		return nil
	}
	return &v
}
