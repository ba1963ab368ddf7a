package coreapi

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTransport is a mock implementation of the Transport interface.
type MockTransport struct {
	mock.Mock
}

// Request mocks the Request method.
func (m *MockTransport) Request(ctx context.Context, method, url string, body map[string]any) (map[string]any, error) {
	args := m.Called(ctx, method, url, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}
