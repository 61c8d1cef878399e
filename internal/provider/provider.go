// Package provider defines the provisioning-service client surface the
// workflows depend on. Implementations map these request/response contracts
// to a concrete provisioning API; transport concerns (retries, throttling,
// auth) belong to the implementation, not to the callers.
package provider

import (
	"context"

	"github.com/stackctl/stackctl/internal/model"
)

// CreateStackRequest is the request to create a new stack.
type CreateStackRequest struct {
	StackName    string
	Capabilities []string
	OnFailure    model.OnFailure
	Parameters   map[string]string
	Tags         []model.Tag
	Template     model.TemplateRef
	// TimeoutMinutes makes the provider fail the creation when it runs
	// longer. Zero disables the provider-side timeout.
	TimeoutMinutes int
}

// UpdateStackRequest is the request to update an existing stack.
type UpdateStackRequest struct {
	StackName    string
	Capabilities []string
	Parameters   map[string]string
	Tags         []model.Tag
	Template     model.TemplateRef
}

// CreateChangeSetRequest is the request to create an update preview.
type CreateChangeSetRequest struct {
	StackName     string
	ChangeSetName string
	Capabilities  []string
	Parameters    map[string]string
	Tags          []model.Tag
	Template      model.TemplateRef
}

// Client is the interface provisioning-service clients must implement.
//
// List and event calls return fully assembled results: implementations drain
// any pagination before returning. DescribeStackEvents returns the complete
// event history newest first, the order the provisioning APIs use.
type Client interface {
	ValidateTemplate(ctx context.Context, template model.TemplateRef) error
	CreateStack(ctx context.Context, req CreateStackRequest) (stackID string, err error)
	UpdateStack(ctx context.Context, req UpdateStackRequest) (stackID string, err error)
	DeleteStack(ctx context.Context, stackID string) error
	// DescribeStack returns a model.ErrNotFound wrapped error when no stack
	// matches.
	DescribeStack(ctx context.Context, stackID string) (*model.StackDescription, error)
	DescribeStackEvents(ctx context.Context, stackID string) ([]model.StackEvent, error)
	ListStacks(ctx context.Context, statusFilter []model.StackStatus) ([]model.StackSummary, error)
	CreateChangeSet(ctx context.Context, req CreateChangeSetRequest) (changeSetID string, err error)
	DescribeChangeSet(ctx context.Context, stackName, changeSetName string) (*model.ChangeSetDescription, error)
	DeleteChangeSet(ctx context.Context, stackName, changeSetName string) error
}
