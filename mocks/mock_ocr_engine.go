package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"flightdocs/internal/port"
)

// MockOCREngine is a mock implementation of port.OCREngine.
type MockOCREngine struct {
	mock.Mock
}

func (m *MockOCREngine) Recognize(ctx context.Context, imagePath string) (*port.RecognizedText, error) {
	args := m.Called(ctx, imagePath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.RecognizedText), args.Error(1)
}

func (m *MockOCREngine) Version() string {
	args := m.Called()
	return args.String(0)
}
