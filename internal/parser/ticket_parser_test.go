package parser_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"flightdocs/internal/domain"
	"flightdocs/internal/logger"
	"flightdocs/internal/parser"
	"flightdocs/internal/port"
	"flightdocs/mocks"
)

const validReply = `[
  {
    "flightDetails": {
      "flightNumber": "AI 102",
      "departureTime": "2025-07-12T04:55:00+05:30",
      "arrivalTime": "not a time",
      "from": "Delhi",
      "origin": "Delhi, Terminal 3",
      "destination": "  ",
      "price": 412.5
    },
    "passengerDetails": [
      {"name": "MR JOHN SMITH", "passportNumber": "1234567890123", "seatNumber": "12A", "mealPreference": null},
      {"name": "MS JANE SMITH", "passportNumber": "12345", "seatNumber": null, "mealPreference": null}
    ]
  },
  {
    "flightDetails": {"flightNumber": null},
    "passengerDetails": [{"name": "MR X", "passportNumber": "1234567890"}]
  },
  {
    "flightDetails": {"flightNumber": "AI143"},
    "passengerDetails": []
  }
]`

func newTicketParser(t *testing.T, client port.CompletionClient, model string) *parser.TicketParser {
	t.Helper()
	p, err := parser.NewTicketParser(client, model, nil, logger.NewNop())
	require.NoError(t, err)
	return p
}

func TestTicketParser_Extract_Success(t *testing.T) {
	client := new(mocks.MockCompletionClient)
	client.On("Complete", mock.Anything, mock.MatchedBy(func(req port.CompletionRequest) bool {
		return req.Model == "gpt-4o-mini" &&
			req.SystemPrompt == parser.SystemPrompt &&
			req.Temperature == 0 &&
			strings.Contains(req.UserPrompt, "AI-102 ticket body")
	})).Return(&port.CompletionResponse{Text: "\n" + validReply + "\n", Model: "gpt-4o-mini"}, nil)

	res := newTicketParser(t, client, "gpt-4o-mini").Extract(context.Background(), "AI-102 ticket body")

	require.True(t, res.OK())
	require.Len(t, res.Tickets, 1)

	rec := res.Tickets[0]
	assert.Equal(t, "AI102", rec.FlightDetails.FlightNumber)
	require.NotNil(t, rec.FlightDetails.DepartureTime)
	assert.Equal(t, time.Date(2025, time.July, 11, 23, 25, 0, 0, time.UTC), *rec.FlightDetails.DepartureTime)
	assert.Nil(t, rec.FlightDetails.ArrivalTime, "unparseable timestamps become null")
	assert.Equal(t, "Delhi, Terminal 3", *rec.FlightDetails.Origin)
	assert.Nil(t, rec.FlightDetails.Destination)
	require.NotNil(t, rec.FlightDetails.Price)
	assert.InDelta(t, 412.5, *rec.FlightDetails.Price, 0.001)

	require.Len(t, rec.PassengerDetails, 1, "passport outside 10-13 digits is rejected")
	assert.Equal(t, "MR JOHN SMITH", rec.PassengerDetails[0].Name)
	assert.Equal(t, "12A", *rec.PassengerDetails[0].SeatNumber)
	assert.Nil(t, rec.PassengerDetails[0].MealPreference)

	client.AssertExpectations(t)
}

func TestTicketParser_Extract_MalformedReplies(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		stage string
	}{
		{"truncated", `[{"flightDetails": {"flightNumber": "AI102"`, port.StageDecode},
		{"prose wrapped", "Here is the JSON:\n" + validReply, port.StageDecode},
		{"markdown fenced", "```json\n" + validReply + "\n```", port.StageDecode},
		{"empty", "", port.StageDecode},
		{"object instead of array", `{"flightDetails": {"flightNumber": "AI102"}}`, port.StageSchema},
		{"wrong field type", `[{"flightDetails": {"flightNumber": 102}, "passengerDetails": []}]`, port.StageSchema},
		{"passengers not a list", `[{"flightDetails": {"flightNumber": "AI102"}, "passengerDetails": "MR X"}]`, port.StageSchema},
		{"missing flight details", `[{"passengerDetails": []}]`, port.StageSchema},
		{"price as text", `[{"flightDetails": {"flightNumber": "AI102", "price": "INR 5,000"}}]`, port.StageSchema},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(mocks.MockCompletionClient)
			client.On("Complete", mock.Anything, mock.Anything).Return(&port.CompletionResponse{Text: tt.reply}, nil)

			res := newTicketParser(t, client, "gpt-4o-mini").Extract(context.Background(), "AI-102")

			assert.False(t, res.OK())
			require.NotNil(t, res.Failure)
			assert.Equal(t, tt.stage, res.Failure.Stage)
			assert.NotNil(t, res.Tickets)
			assert.Empty(t, res.Tickets)
		})
	}
}

func TestTicketParser_Extract_RequestFailure(t *testing.T) {
	cause := errors.New("connection refused")
	client := new(mocks.MockCompletionClient)
	client.On("Complete", mock.Anything, mock.Anything).Return(nil, cause)

	res := newTicketParser(t, client, "gpt-4o-mini").Extract(context.Background(), "AI-102")

	require.NotNil(t, res.Failure)
	assert.Equal(t, port.StageRequest, res.Failure.Stage)
	assert.ErrorIs(t, res.Failure, cause)
	assert.Empty(t, res.Tickets)
}

func TestTicketParser_Extract_OffsetlessTimes(t *testing.T) {
	reply := `[{"flightDetails": {"flightNumber": "AI102", "departureTime": "2025-07-12T04:55:00", "arrivalTime": "2025-07-13T02:10"},
	  "passengerDetails": [{"name": "MR JOHN SMITH", "passportNumber": "1234567890123"}]}]`
	client := new(mocks.MockCompletionClient)
	client.On("Complete", mock.Anything, mock.Anything).Return(&port.CompletionResponse{Text: reply}, nil)

	res := newTicketParser(t, client, "gpt-4o-mini").Extract(context.Background(), "AI-102")
	require.Nil(t, res.Failure)
	require.Len(t, res.Tickets, 1)

	fd := res.Tickets[0].FlightDetails
	require.NotNil(t, fd.DepartureTime)
	assert.Equal(t, time.Date(2025, time.July, 12, 4, 55, 0, 0, time.UTC), *fd.DepartureTime)
	require.NotNil(t, fd.ArrivalTime)
	assert.Equal(t, time.Date(2025, time.July, 13, 2, 10, 0, 0, time.UTC), *fd.ArrivalTime)
}

func TestTicketParser_Extract_RateLimited(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	client := new(mocks.MockCompletionClient)
	client.On("Complete", mock.Anything, mock.Anything).
		Return(nil, parser.NewRateLimitError("openai", errors.New("429"), 5*time.Second))

	p, err := parser.NewTicketParser(client, "gpt-4o-mini", nil, logger.FromZap(zap.New(core)))
	require.NoError(t, err)
	res := p.Extract(context.Background(), "AI-102")

	require.NotNil(t, res.Failure)
	assert.Equal(t, port.StageRequest, res.Failure.Stage)
	assert.True(t, parser.IsRateLimited(res.Failure.Err))

	entries := logs.FilterMessage("parser.extract.failed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, true, fields["rate_limited"])
	assert.Equal(t, "openai", fields["provider"])
	assert.Equal(t, 5*time.Second, fields["retry_after"])
}

func TestTicketParser_Extract_EmptyArray(t *testing.T) {
	client := new(mocks.MockCompletionClient)
	client.On("Complete", mock.Anything, mock.Anything).Return(&port.CompletionResponse{Text: "[]"}, nil)

	res := newTicketParser(t, client, "gpt-4o-mini").Extract(context.Background(), "nothing here")

	assert.True(t, res.OK())
	assert.Equal(t, []domain.FlightRecord{}, res.Tickets)
}

func TestBuildTicketPrompt(t *testing.T) {
	prompt := parser.BuildTicketPrompt("  AI-102 Departing Sat, 12 Jul 25, 04:55  \n")

	assert.Contains(t, prompt, `"flightDetails"`)
	assert.Contains(t, prompt, `"passengerDetails"`)
	assert.Contains(t, prompt, "Output ONLY valid JSON")
	assert.Contains(t, prompt, "no markdown code fences")
	assert.True(t, strings.HasSuffix(prompt, "```\nAI-102 Departing Sat, 12 Jul 25, 04:55\n```"))
}
