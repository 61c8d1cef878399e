// Package providermock contains a testify mock of the provider client for
// unit tests.
package providermock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/stackctl/stackctl/internal/model"
	"github.com/stackctl/stackctl/internal/provider"
)

// MockClient is a mock implementation of provider.Client.
type MockClient struct {
	mock.Mock
}

var _ provider.Client = (*MockClient)(nil)

func (m *MockClient) ValidateTemplate(ctx context.Context, template model.TemplateRef) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockClient) CreateStack(ctx context.Context, req provider.CreateStackRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockClient) UpdateStack(ctx context.Context, req provider.UpdateStackRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockClient) DeleteStack(ctx context.Context, stackID string) error {
	args := m.Called(ctx, stackID)
	return args.Error(0)
}

func (m *MockClient) DescribeStack(ctx context.Context, stackID string) (*model.StackDescription, error) {
	args := m.Called(ctx, stackID)
	return args.Get(0).(*model.StackDescription), args.Error(1)
}

func (m *MockClient) DescribeStackEvents(ctx context.Context, stackID string) ([]model.StackEvent, error) {
	args := m.Called(ctx, stackID)
	return args.Get(0).([]model.StackEvent), args.Error(1)
}

func (m *MockClient) ListStacks(ctx context.Context, statusFilter []model.StackStatus) ([]model.StackSummary, error) {
	args := m.Called(ctx, statusFilter)
	return args.Get(0).([]model.StackSummary), args.Error(1)
}

func (m *MockClient) CreateChangeSet(ctx context.Context, req provider.CreateChangeSetRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockClient) DescribeChangeSet(ctx context.Context, stackName, changeSetName string) (*model.ChangeSetDescription, error) {
	args := m.Called(ctx, stackName, changeSetName)
	return args.Get(0).(*model.ChangeSetDescription), args.Error(1)
}

func (m *MockClient) DeleteChangeSet(ctx context.Context, stackName, changeSetName string) error {
	args := m.Called(ctx, stackName, changeSetName)
	return args.Error(0)
}
