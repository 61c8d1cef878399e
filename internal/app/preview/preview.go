// Package preview implements the preview-update workflow: create a change
// set, await it and return the proposed changes without applying anything.
package preview

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

// ServiceConfig is the configuration for the preview service.
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
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Preview"})
	return nil
}

// Service handles the preview-update workflow business logic.
type Service struct {
	client  provider.Client
	monitor *monitor.Monitor
	repo    storage.Repository
	logger  log.Logger
}

// NewService creates a new preview service.
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

// Request represents the preview request parameters.
type Request struct {
	Config model.PreviewConfig
}

// Run executes the preview workflow: validate config, validate template,
// create the change set, await it and optionally delete it. The change-set
// description, possibly incomplete, is returned even on failure.
func (s *Service) Run(ctx context.Context, req Request) (*model.PreviewResult, error) {
	result := &model.PreviewResult{}

	startedAt := time.Now().UTC()
	err := s.run(ctx, req.Config, result)
	if err != nil {
		result.Errors = append(result.Errors, err)
	}
	s.recordOperation(ctx, req.Config, result, startedAt, err)

	return result, err
}

func (s *Service) run(ctx context.Context, cfg model.PreviewConfig, result *model.PreviewResult) error {
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

	// 3. Create the change set. The proposed tag set carries the system tags
	// so applying the change set keeps them on the stack.
	id, err := s.client.CreateChangeSet(ctx, provider.CreateChangeSetRequest{
		StackName:     cfg.StackName,
		ChangeSetName: cfg.ChangeSetName,
		Capabilities:  cfg.Capabilities,
		Parameters:    cfg.Parameters,
		Tags:          model.AppendSystemTags(cfg.Tags, cfg.StackName, "", cfg.Version),
		Template:      template,
	})
	if err != nil {
		return fmt.Errorf("could not create change set: %w", err)
	}

	cs := &model.ChangeSetData{Name: cfg.ChangeSetName, StackName: cfg.StackName, ID: id}
	result.ChangeSet = cs
	s.logger.Infof("Creating change set %s on stack %s", cfg.ChangeSetName, cfg.StackName)

	// 4. Await the change set.
	desc, err := s.monitor.WaitForChangeSet(ctx, cs, monitor.WaitOptions{PollInterval: cfg.PollInterval})
	result.Description = desc
	if err != nil {
		return err
	}

	// 5. Delete the change set when the caller doesn't want to keep it.
	if cfg.DeleteChangeSet {
		if err := s.client.DeleteChangeSet(ctx, cfg.StackName, cfg.ChangeSetName); err != nil {
			return fmt.Errorf("could not delete change set: %w", err)
		}
	}

	s.logger.Infof("Change set %s proposes %d changes", cfg.ChangeSetName, len(desc.Changes))

	return nil
}

func (s *Service) recordOperation(ctx context.Context, cfg model.PreviewConfig, result *model.PreviewResult, startedAt time.Time, runErr error) {
	if s.repo == nil {
		return
	}

	op := model.Operation{
		ID:         ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String(),
		Kind:       model.OperationKindPreview,
		StackName:  cfg.StackName,
		Result:     model.OperationResultSuccess,
		StartedAt:  startedAt,
		FinishedAt: time.Now().UTC(),
	}
	if result.ChangeSet != nil {
		op.StackID = result.ChangeSet.ID
		op.Status = string(result.ChangeSet.Status)
	}
	if runErr != nil {
		op.Result = model.OperationResultFailure
		op.Error = runErr.Error()
	}

	if err := s.repo.CreateOperation(ctx, op); err != nil {
		s.logger.Warningf("could not record operation history: %v", err)
	}
}
