package events

import (
	"context"

	"github.com/huangsam/ahp/internal/contract"
	"github.com/stretchr/testify/mock"
)

// MockPublisher is a mock implementation of contract.Publisher.
type MockPublisher struct {
	mock.Mock
}

// Publish mocks the Publish method.
func (m *MockPublisher) Publish(ctx context.Context, subject string, payload any) error {
	args := m.Called(ctx, subject, payload)
	return args.Error(0)
}

// Close mocks the Close method.
func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

var _ contract.Publisher = &MockPublisher{}
