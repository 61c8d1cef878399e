// Package update implements the update workflow: apply a new template to an
// existing stack and await completion. Updates keep the stack identity, so
// there is no post-creation hook and no prior-instance cleanup.
package update

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/stackctl/stackctl/internal/log"
	"github.com/stackctl/stackctl/internal/model"
	"github.com/stackctl/stackctl/internal/monitor"
	"github.com/stackctl/stackctl/internal/provider"
	"github.com/stackctl/stackctl/internal/storage"
)

// ServiceConfig is the configuration for the update service.
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
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Update"})
	return nil
}

// Service handles the update workflow business logic.
type Service struct {
	client  provider.Client
	monitor *monitor.Monitor
	repo    storage.Repository
	logger  log.Logger
}

// NewService creates a new update service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	mon, err := monitor.NewMonitor(monitor.Config{Client: cfg.Client, Logger: cfg.Logger})
	if err != nil {
		return nil, fmt.Errorf("could not create monitor: %w", err)
	}

	return &Service{
		client:  cfg.Client,
		monitor: mon,
		repo:    cfg.Repository,
		logger:  cfg.Logger,
	}, nil
}

// Request represents the update request parameters.
type Request struct {
	Config model.UpdateConfig
}

// Run executes the update workflow: validate config, validate template,
// update the stack, await completion and describe it. The first failing
// stage aborts the rest; the partial result is always returned alongside the
// error.
func (s *Service) Run(ctx context.Context, req Request) (*model.UpdateResult, error) {
	result := &model.UpdateResult{}

	startedAt := time.Now().UTC()
	err := s.run(ctx, req.Config, result)
	if err != nil {
		result.Errors = append(result.Errors, err)
	}
	s.recordOperation(ctx, req.Config, result, startedAt, err)

	return result, err
}

func (s *Service) run(ctx context.Context, cfg model.UpdateConfig, result *model.UpdateResult) error {
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

	// 3. Update the stack. Tags replace the stack's tag set on the provider,
	// so the system tags are re-appended to survive the update.
	id, err := s.client.UpdateStack(ctx, provider.UpdateStackRequest{
		StackName:    cfg.StackName,
		Capabilities: cfg.Capabilities,
		Parameters:   cfg.Parameters,
		Tags:         model.AppendSystemTags(cfg.Tags, cfg.StackName, "", cfg.Version),
		Template:     template,
	})
	if err != nil {
		return fmt.Errorf("could not update stack: %w", err)
	}

	stack := &model.StackData{Name: cfg.StackName, ID: id}
	result.Stack = stack
	s.logger.Infof("Updating stack %s (%s)", cfg.StackName, id)

	// 4. Await the update.
	err = s.monitor.WaitForUpdate(ctx, stack, monitor.WaitOptions{
		PollInterval: cfg.PollInterval,
		OnEvent:      cfg.OnEvent,
	})
	if err != nil {
		return err
	}

	// 5. Describe the updated stack.
	desc, err := s.client.DescribeStack(ctx, id)
	if err != nil {
		return fmt.Errorf("could not describe stack: %w", err)
	}
	result.Description = desc

	s.logger.Infof("Updated stack %s", cfg.StackName)

	return nil
}

func (s *Service) recordOperation(ctx context.Context, cfg model.UpdateConfig, result *model.UpdateResult, startedAt time.Time, runErr error) {
	if s.repo == nil {
		return
	}

	op := model.Operation{
		ID:         ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String(),
		Kind:       model.OperationKindUpdate,
		StackName:  cfg.StackName,
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

	if err := s.repo.CreateOperation(ctx, op); err != nil {
		s.logger.Warningf("could not record operation history: %v", err)
	}
}
