// Package deploy implements the deploy workflow: create a new stack
// instance, await its completion and clean up the prior instances it
// supersedes.
package deploy

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/stackctl/stackctl/internal/log"
	"github.com/stackctl/stackctl/internal/model"
	"github.com/stackctl/stackctl/internal/monitor"
	"github.com/stackctl/stackctl/internal/prior"
	"github.com/stackctl/stackctl/internal/provider"
	"github.com/stackctl/stackctl/internal/storage"
)

// ServiceConfig is the configuration for the deploy service.
type ServiceConfig struct {
	Client provider.Client
	// Repository is optional, when set every run is recorded in the
	// operation history.
	Repository storage.Repository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Client == nil {
		return fmt.Errorf("provider client is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Deploy"})
	return nil
}

// Service handles the deploy workflow business logic. Each Service owns its
// provider client handle, concurrent deploys against different accounts or
// regions use independent Service instances.
type Service struct {
	client   provider.Client
	monitor  *monitor.Monitor
	resolver *prior.Resolver
	repo     storage.Repository
	logger   log.Logger
}

// NewService creates a new deploy service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	mon, err := monitor.NewMonitor(monitor.Config{Client: cfg.Client, Logger: cfg.Logger})
	if err != nil {
		return nil, fmt.Errorf("could not create monitor: %w", err)
	}

	resolver, err := prior.NewResolver(prior.ResolverConfig{Client: cfg.Client, Logger: cfg.Logger})
	if err != nil {
		return nil, fmt.Errorf("could not create prior resolver: %w", err)
	}

	return &Service{
		client:   cfg.Client,
		monitor:  mon,
		resolver: resolver,
		repo:     cfg.Repository,
		logger:   cfg.Logger,
	}, nil
}

// Request represents the deploy request parameters.
type Request struct {
	Config model.DeployConfig
}

// Run executes the deploy workflow: validate config, validate template,
// create the stack, await completion, describe it, run the post-creation
// hook and delete the prior instances. The first failing stage aborts the
// rest; the partial result accumulated so far is always returned alongside
// the error.
func (s *Service) Run(ctx context.Context, req Request) (*model.DeployResult, error) {
	result := &model.DeployResult{DeletedPriorStacks: []model.StackData{}}

	startedAt := time.Now().UTC()
	err := s.run(ctx, req.Config, result)
	if err != nil {
		result.Errors = append(result.Errors, err)
	}
	s.recordOperation(ctx, req.Config, result, startedAt, err)

	return result, err
}

func (s *Service) run(ctx context.Context, cfg model.DeployConfig, result *model.DeployResult) error {
	// 1. Validate config.
	if err := cfg.Validate(); err != nil {
		return err
	}

	// 2. Validate template.
	template, err := cfg.Template.Ref()
	if err != nil {
		return fmt.Errorf("could not resolve template: %w", err)
	}
	if err := s.client.ValidateTemplate(ctx, template); err != nil {
		return fmt.Errorf("could not validate template: %w", err)
	}

	// 3. Create the stack.
	stackName := cfg.StackName()
	id, err := s.client.CreateStack(ctx, provider.CreateStackRequest{
		StackName:      stackName,
		Capabilities:   cfg.Capabilities,
		OnFailure:      cfg.OnFailure,
		Parameters:     cfg.Parameters,
		Tags:           model.AppendSystemTags(cfg.Tags, stackName, cfg.BaseName, cfg.Version),
		Template:       template,
		TimeoutMinutes: cfg.TimeoutMinutes,
	})
	if err != nil {
		return fmt.Errorf("could not create stack: %w", err)
	}

	stack := &model.StackData{Name: stackName, ID: id}
	result.Stack = stack
	s.logger.Infof("Creating stack %s (%s)", stackName, id)

	// 4. Await creation.
	waitOpts := monitor.WaitOptions{PollInterval: cfg.PollInterval, OnEvent: cfg.OnEvent}
	if err := s.monitor.WaitForCreate(ctx, stack, cfg.OnFailure, waitOpts); err != nil {
		return err
	}

	// 5. Describe the created stack.
	desc, err := s.client.DescribeStack(ctx, id)
	if err != nil {
		return fmt.Errorf("could not describe stack: %w", err)
	}
	result.Description = desc

	// 6. Post-creation hook.
	if cfg.PostCreate != nil {
		if err := cfg.PostCreate(*desc); err != nil {
			return fmt.Errorf("post-creation hook failed: %w", err)
		}
	}

	// 7. Delete prior instances.
	if !cfg.DeletePriorInstances {
		return nil
	}

	priors, err := s.resolver.Resolve(ctx, cfg.BaseName, id)
	if err != nil {
		return fmt.Errorf("could not resolve prior instances: %w", err)
	}

	// One at a time, to bound load on the provider and keep event ordering
	// deterministic.
	for _, p := range priors {
		if err := s.deletePrior(ctx, p, waitOpts, result); err != nil {
			return err
		}
	}

	s.logger.Infof("Deployed stack %s, deleted %d prior instances", stackName, len(result.DeletedPriorStacks))

	return nil
}

func (s *Service) deletePrior(ctx context.Context, desc model.StackDescription, opts monitor.WaitOptions, result *model.DeployResult) error {
	s.logger.Infof("Deleting prior instance %s (%s)", desc.Name, desc.ID)

	if err := s.client.DeleteStack(ctx, desc.ID); err != nil {
		return fmt.Errorf("could not delete prior stack %q: %w", desc.Name, err)
	}

	stack := model.StackData{Name: desc.Name, ID: desc.ID}
	err := s.monitor.WaitForDelete(ctx, &stack, opts)
	// The progress record is kept even when the deletion failed, so callers
	// can see how far it got.
	result.DeletedPriorStacks = append(result.DeletedPriorStacks, stack)
	if err != nil {
		return fmt.Errorf("could not delete prior stack %q: %w", desc.Name, err)
	}

	return nil
}

func (s *Service) recordOperation(ctx context.Context, cfg model.DeployConfig, result *model.DeployResult, startedAt time.Time, runErr error) {
	if s.repo == nil {
		return
	}

	op := model.Operation{
		ID:         ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String(),
		Kind:       model.OperationKindDeploy,
		StackName:  cfg.StackName(),
		BaseName:   cfg.BaseName,
		Result:     model.OperationResultSuccess,
		StartedAt:  startedAt,
		FinishedAt: time.Now().UTC(),
	}
	if result.Stack != nil {
		op.StackID = result.Stack.ID
		op.Status = string(result.Stack.Status)
	}
	if runErr != nil {
		op.Result = model.OperationResultFailure
		op.Error = runErr.Error()
	}

	// History is best effort, a recording failure never fails the workflow.
	if err := s.repo.CreateOperation(ctx, op); err != nil {
		s.logger.Warningf("could not record operation history: %v", err)
	}
}
