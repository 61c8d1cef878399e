// Package fake is an in-memory provider.Client that simulates stack
// operations without talking to any cloud. Each event poll reveals one more
// step of a scripted timeline, so operations progress deterministically poll
// by poll. Useful for trying the workflows without infrastructure and for
// tests.
package fake

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/stackctl/stackctl/internal/log"
	"github.com/stackctl/stackctl/internal/model"
	"github.com/stackctl/stackctl/internal/provider"
)

// Config is the configuration for the fake client.
type Config struct {
	Logger log.Logger
}

func (c *Config) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "provider.Fake"})
	return nil
}

// Client is a fake implementation of provider.Client.
type Client struct {
	mu         sync.Mutex
	stacks     map[string]*fakeStack
	changeSets map[string]*fakeChangeSet
	logger     log.Logger
}

var _ provider.Client = (*Client)(nil)

// NewClient creates a new fake client.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Client{
		stacks:     map[string]*fakeStack{},
		changeSets: map[string]*fakeChangeSet{},
		logger:     cfg.Logger,
	}, nil
}

type fakeStack struct {
	id       string
	name     string
	tags     []model.Tag
	deleted  bool
	timeline []model.StackEvent
	revealed int
}

// status is the last revealed stack-level event status.
func (s *fakeStack) status() model.StackStatus {
	for i := s.revealed - 1; i >= 0; i-- {
		if s.timeline[i].ResourceType == model.StackResourceType {
			return model.StackStatus(s.timeline[i].ResourceStatus)
		}
	}
	return model.StackStatusCreateInProgress
}

type fakeChangeSet struct {
	id       string
	name     string
	stack    string
	statuses []model.ChangeSetStatus
	revealed int
	changes  []model.Change
}

// ValidateTemplate accepts URL references and well-formed JSON bodies.
func (c *Client) ValidateTemplate(_ context.Context, template model.TemplateRef) error {
	if template.URL != "" {
		return nil
	}
	if !json.Valid([]byte(template.Body)) {
		return fmt.Errorf("template body is not valid JSON")
	}
	return nil
}

// CreateStack registers a new stack with a scripted creation timeline.
func (c *Client) CreateStack(_ context.Context, req provider.CreateStackRequest) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := newID()
	s := &fakeStack{
		id:   id,
		name: req.StackName,
		tags: req.Tags,
	}
	s.timeline = []model.StackEvent{
		stackEvent(s, string(model.StackStatusCreateInProgress), ""),
		resourceEvent(s, "CREATE_IN_PROGRESS"),
		resourceEvent(s, "CREATE_COMPLETE"),
		stackEvent(s, string(model.StackStatusCreateComplete), ""),
	}
	c.stacks[id] = s

	c.logger.Infof("Created fake stack %s (%s)", req.StackName, id)
	return id, nil
}

// UpdateStack appends a scripted update timeline to an existing stack.
func (c *Client) UpdateStack(_ context.Context, req provider.UpdateStackRequest) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, err := c.findByName(req.StackName)
	if err != nil {
		return "", err
	}

	s.timeline = append(s.timeline,
		stackEvent(s, string(model.StackStatusUpdateInProgress), ""),
		resourceEvent(s, "UPDATE_IN_PROGRESS"),
		resourceEvent(s, "UPDATE_COMPLETE"),
		stackEvent(s, string(model.StackStatusUpdateComplete), ""),
	)

	return s.id, nil
}

// DeleteStack appends a scripted deletion timeline.
func (c *Client) DeleteStack(_ context.Context, stackID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.stacks[stackID]
	if !ok {
		return fmt.Errorf("stack %s: %w", stackID, model.ErrNotFound)
	}

	s.deleted = true
	s.timeline = append(s.timeline,
		stackEvent(s, string(model.StackStatusDeleteInProgress), "User Initiated"),
		resourceEvent(s, "DELETE_COMPLETE"),
		stackEvent(s, string(model.StackStatusDeleteComplete), ""),
	)

	return nil
}

// DescribeStack returns the current description of the stack.
func (c *Client) DescribeStack(_ context.Context, stackID string) (*model.StackDescription, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.stacks[stackID]
	if !ok {
		return nil, fmt.Errorf("stack %s: %w", stackID, model.ErrNotFound)
	}

	return &model.StackDescription{
		ID:     s.id,
		Name:   s.name,
		Status: s.status(),
		Tags:   s.tags,
		Outputs: []model.Output{
			{Key: "StackRef", Value: s.id, Description: "Fake stack reference"},
		},
	}, nil
}

// DescribeStackEvents reveals one more timeline step and returns the history
// revealed so far, newest first.
func (c *Client) DescribeStackEvents(_ context.Context, stackID string) ([]model.StackEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.stacks[stackID]
	if !ok {
		return nil, fmt.Errorf("stack %s: %w", stackID, model.ErrNotFound)
	}

	if s.revealed < len(s.timeline) {
		s.revealed++
	}

	events := make([]model.StackEvent, s.revealed)
	for i := 0; i < s.revealed; i++ {
		events[s.revealed-1-i] = s.timeline[i]
	}

	return events, nil
}

// ListStacks returns the summaries of the stacks whose current status is in
// the filter.
func (c *Client) ListStacks(_ context.Context, statusFilter []model.StackStatus) ([]model.StackSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	allowed := map[model.StackStatus]bool{}
	for _, s := range statusFilter {
		allowed[s] = true
	}

	var summaries []model.StackSummary
	for _, s := range c.stacks {
		status := s.status()
		if s.deleted && s.revealed == len(s.timeline) {
			continue
		}
		if len(statusFilter) > 0 && !allowed[status] {
			continue
		}
		summaries = append(summaries, model.StackSummary{ID: s.id, Name: s.name, Status: status})
	}

	return summaries, nil
}

// CreateChangeSet registers a change set that completes on the second poll.
func (c *Client) CreateChangeSet(_ context.Context, req provider.CreateChangeSetRequest) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := newID()
	c.changeSets[changeSetKey(req.StackName, req.ChangeSetName)] = &fakeChangeSet{
		id:       id,
		name:     req.ChangeSetName,
		stack:    req.StackName,
		statuses: []model.ChangeSetStatus{model.ChangeSetStatusCreateInProgress, model.ChangeSetStatusCreateComplete},
		changes: []model.Change{
			{Action: "Modify", LogicalResourceID: "Primary", ResourceType: "AWS::S3::Bucket", Replacement: "False"},
		},
	}

	c.logger.Infof("Created fake change set %s on stack %s", req.ChangeSetName, req.StackName)
	return id, nil
}

// DescribeChangeSet reveals the next scripted status and returns the full
// description.
func (c *Client) DescribeChangeSet(_ context.Context, stackName, changeSetName string) (*model.ChangeSetDescription, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cs, ok := c.changeSets[changeSetKey(stackName, changeSetName)]
	if !ok {
		return nil, fmt.Errorf("change set %s on stack %s: %w", changeSetName, stackName, model.ErrNotFound)
	}

	if cs.revealed < len(cs.statuses) {
		cs.revealed++
	}
	status := cs.statuses[cs.revealed-1]

	desc := &model.ChangeSetDescription{
		ID:        cs.id,
		Name:      cs.name,
		StackName: cs.stack,
		Status:    status,
	}
	if status == model.ChangeSetStatusCreateComplete {
		desc.Changes = cs.changes
	}

	return desc, nil
}

// DeleteChangeSet removes a change set.
func (c *Client) DeleteChangeSet(_ context.Context, stackName, changeSetName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := changeSetKey(stackName, changeSetName)
	if _, ok := c.changeSets[key]; !ok {
		return fmt.Errorf("change set %s on stack %s: %w", changeSetName, stackName, model.ErrNotFound)
	}
	delete(c.changeSets, key)

	return nil
}

func (c *Client) findByName(name string) (*fakeStack, error) {
	for _, s := range c.stacks {
		if s.name == name && !s.deleted {
			return s, nil
		}
	}
	return nil, fmt.Errorf("stack with name %s: %w", name, model.ErrNotFound)
}

func changeSetKey(stackName, changeSetName string) string {
	return stackName + "/" + changeSetName
}

func newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

func stackEvent(s *fakeStack, status, reason string) model.StackEvent {
	return model.StackEvent{
		ID:                   newID(),
		StackID:              s.id,
		StackName:            s.name,
		LogicalResourceID:    s.name,
		PhysicalResourceID:   s.id,
		ResourceType:         model.StackResourceType,
		ResourceStatus:       status,
		ResourceStatusReason: reason,
		Timestamp:            time.Now().UTC(),
	}
}

func resourceEvent(s *fakeStack, status string) model.StackEvent {
	return model.StackEvent{
		ID:                newID(),
		StackID:           s.id,
		StackName:         s.name,
		LogicalResourceID: "Primary",
		ResourceType:      "AWS::S3::Bucket",
		ResourceStatus:    status,
		Timestamp:         time.Now().UTC(),
	}
}
