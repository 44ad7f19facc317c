package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"flightdocs/internal/port"
)

// MockUploadStore is a mock implementation of port.UploadStore.
type MockUploadStore struct {
	mock.Mock
}

func (m *MockUploadStore) Save(ctx context.Context, originalName string, body io.Reader) (*port.StoredFile, error) {
	args := m.Called(ctx, originalName, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.StoredFile), args.Error(1)
}

func (m *MockUploadStore) Release(file *port.StoredFile) {
	m.Called(file)
}
