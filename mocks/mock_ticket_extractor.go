package mocks

import (
	"github.com/stretchr/testify/mock"

	"flightdocs/internal/domain"
)

// MockTicketExtractor is a mock implementation of port.TicketExtractor.
type MockTicketExtractor struct {
	mock.Mock
}

func (m *MockTicketExtractor) Extract(rawText string) []domain.FlightRecord {
	args := m.Called(rawText)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.FlightRecord)
}
