package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"flightdocs/internal/port"
)

// MockModelExtractor is a mock implementation of port.ModelExtractor.
type MockModelExtractor struct {
	mock.Mock
}

func (m *MockModelExtractor) Extract(ctx context.Context, rawText string) port.ModelResult {
	args := m.Called(ctx, rawText)
	return args.Get(0).(port.ModelResult)
}
