// Package prior resolves the prior instances of a logical deployment: stacks
// superseded by a newly created one.
package prior

import (
	"context"
	"fmt"
	"strings"

	"github.com/stackctl/stackctl/internal/log"
	"github.com/stackctl/stackctl/internal/model"
	"github.com/stackctl/stackctl/internal/provider"
)

// liveStackStatuses is the fixed listing filter: stacks that still exist and
// are not mid-transition to deletion.
var liveStackStatuses = []model.StackStatus{
	model.StackStatusCreateInProgress,
	model.StackStatusCreateComplete,
	model.StackStatusCreateFailed,
	model.StackStatusRollbackInProgress,
	model.StackStatusRollbackComplete,
	model.StackStatusRollbackFailed,
	model.StackStatusDeleteFailed,
	model.StackStatusUpdateInProgress,
	model.StackStatusUpdateComplete,
	model.StackStatusUpdateCompleteCleanupInProgress,
	model.StackStatusUpdateRollbackInProgress,
	model.StackStatusUpdateRollbackComplete,
	model.StackStatusUpdateRollbackFailed,
	model.StackStatusUpdateRollbackCompleteCleanupInProgress,
}

// ResolverConfig is the configuration for the resolver.
type ResolverConfig struct {
	Client provider.Client
	Logger log.Logger
}

func (c *ResolverConfig) defaults() error {
	if c.Client == nil {
		return fmt.Errorf("provider client is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "prior.Resolver"})
	return nil
}

// Resolver finds the live stacks that are prior instances of a deployment.
type Resolver struct {
	client provider.Client
	logger log.Logger
}

// NewResolver creates a new resolver.
func NewResolver(cfg ResolverConfig) (*Resolver, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Resolver{
		client: cfg.Client,
		logger: cfg.Logger,
	}, nil
}

// Resolve returns the descriptions of every live stack superseded by the
// stack newStackID deployed under baseName.
//
// The dash-delimited name prefix is only a cheap pre-filter: "foo-bar-x" has
// the raw prefix of base name "foo" without belonging to it. The exact
// STACK_BASE_NAME tag on the description is the authoritative confirmation.
// Candidates are described one at a time to bound load on the provider. Any
// listing or describe failure aborts the whole resolution, no partial result
// is returned.
func (r *Resolver) Resolve(ctx context.Context, baseName, newStackID string) ([]model.StackDescription, error) {
	summaries, err := r.client.ListStacks(ctx, liveStackStatuses)
	if err != nil {
		return nil, fmt.Errorf("could not list stacks: %w", err)
	}

	prefix := baseName + "-"
	var priors []model.StackDescription
	for _, summary := range summaries {
		if summary.ID == newStackID || !strings.HasPrefix(summary.Name, prefix) {
			continue
		}

		desc, err := r.client.DescribeStack(ctx, summary.ID)
		if err != nil {
			return nil, fmt.Errorf("could not describe stack %q: %w", summary.Name, err)
		}

		if desc.HasTag(model.TagStackBaseName, baseName) {
			priors = append(priors, *desc)
		}
	}

	r.logger.Debugf("resolved %d prior instances for base name %q", len(priors), baseName)

	return priors, nil
}
