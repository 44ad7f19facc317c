package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"flightdocs/internal/domain"
	"flightdocs/internal/service"
)

// MockExtractionService is a mock implementation of service.ExtractionService.
type MockExtractionService struct {
	mock.Mock
}

func (m *MockExtractionService) ExtractText(ctx context.Context, input service.TextInput) *domain.ExtractionPayload {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.ExtractionPayload)
}

func (m *MockExtractionService) ProcessDocument(ctx context.Context, input service.DocumentInput) (*domain.ExtractionPayload, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionPayload), args.Error(1)
}

func (m *MockExtractionService) ProcessUpload(ctx context.Context, fileName string, body io.Reader) (*domain.ExtractionPayload, error) {
	args := m.Called(ctx, fileName, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionPayload), args.Error(1)
}

func (m *MockExtractionService) ProcessStored(ctx context.Context, key string) (*domain.ExtractionPayload, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionPayload), args.Error(1)
}

func (m *MockExtractionService) LLMEnabled() bool {
	return m.Called().Bool(0)
}
