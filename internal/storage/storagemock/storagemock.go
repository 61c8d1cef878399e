// Package storagemock contains a testify mock of the operation-history
// repository for unit tests.
package storagemock

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/stackctl/stackctl/internal/model"
	"github.com/stackctl/stackctl/internal/storage"
)

// MockRepository is a mock implementation of storage.Repository.
type MockRepository struct {
	mock.Mock
}

var _ storage.Repository = (*MockRepository)(nil)

func (m *MockRepository) CreateOperation(ctx context.Context, op model.Operation) error {
	args := m.Called(ctx, op)
	return args.Error(0)
}

func (m *MockRepository) GetOperation(ctx context.Context, id string) (*model.Operation, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*model.Operation), args.Error(1)
}

func (m *MockRepository) ListOperations(ctx context.Context) ([]model.Operation, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Operation), args.Error(1)
}

func (m *MockRepository) DeleteOperationsBefore(ctx context.Context, t time.Time) (int, error) {
	args := m.Called(ctx, t)
	return args.Int(0), args.Error(1)
}
