// Package monitor implements the stack-operation lifecycle coordinator: a
// polling loop that tracks an in-flight operation until it reaches a terminal
// state, surfacing each new progress event exactly once along the way.
package monitor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stackctl/stackctl/internal/log"
	"github.com/stackctl/stackctl/internal/model"
	"github.com/stackctl/stackctl/internal/provider"
)

// DefaultPollInterval is used when a wait is requested without an interval.
const DefaultPollInterval = 5 * time.Second

// Config is the configuration for the monitor.
type Config struct {
	Client provider.Client
	Logger log.Logger
}

func (c *Config) defaults() error {
	if c.Client == nil {
		return fmt.Errorf("provider client is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "monitor.Monitor"})
	return nil
}

// Monitor supervises in-flight stack operations by polling the provider.
type Monitor struct {
	client provider.Client
	logger log.Logger
}

// NewMonitor creates a new monitor.
func NewMonitor(cfg Config) (*Monitor, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Monitor{
		client: cfg.Client,
		logger: cfg.Logger,
	}, nil
}

// WaitOptions tune a single wait loop.
type WaitOptions struct {
	// PollInterval is the wait between polls. Zero means DefaultPollInterval.
	PollInterval time.Duration
	// OnEvent is invoked synchronously for each newly observed event, in
	// chronological order, before the record status is updated.
	OnEvent func(model.StackEvent)
}

// WaitForCreate polls until the stack creation reaches a terminal state. The
// terminal-state table depends on the creation failure policy: with
// OnFailureDelete a failed creation rolls into an automatic delete, so the
// loop must keep going through the delete states instead of stopping at
// CREATE_FAILED.
func (m *Monitor) WaitForCreate(ctx context.Context, stack *model.StackData, onFailure model.OnFailure, opts WaitOptions) error {
	table := stateTable{
		terminal: statusSet(model.StackStatusCreateComplete, model.StackStatusCreateFailed),
		success:  statusSet(model.StackStatusCreateComplete),
		classify: m.classifyCreateFailure,
	}
	if onFailure == model.OnFailureDelete {
		table.terminal = statusSet(model.StackStatusCreateComplete, model.StackStatusDeleteComplete, model.StackStatusDeleteFailed)
	}

	m.logger.Debugf("waiting for stack %q creation", stack.Name)
	return m.wait(ctx, stack, table, opts)
}

// WaitForDelete polls until the stack deletion reaches a terminal state.
func (m *Monitor) WaitForDelete(ctx context.Context, stack *model.StackData, opts WaitOptions) error {
	table := stateTable{
		terminal: statusSet(model.StackStatusDeleteComplete, model.StackStatusDeleteFailed),
		success:  statusSet(model.StackStatusDeleteComplete),
		classify: func(stack *model.StackData) error {
			return m.failureError(stack, "stack deletion failed")
		},
	}

	m.logger.Debugf("waiting for stack %q deletion", stack.Name)
	return m.wait(ctx, stack, table, opts)
}

// WaitForUpdate polls until the stack update reaches a terminal state.
func (m *Monitor) WaitForUpdate(ctx context.Context, stack *model.StackData, opts WaitOptions) error {
	table := stateTable{
		terminal: statusSet(model.StackStatusUpdateComplete, model.StackStatusUpdateRollbackComplete, model.StackStatusUpdateRollbackFailed),
		success:  statusSet(model.StackStatusUpdateComplete),
		classify: m.classifyUpdateFailure,
	}

	m.logger.Debugf("waiting for stack %q update", stack.Name)
	return m.wait(ctx, stack, table, opts)
}

// stateTable is the terminal-state classification of one operation kind.
type stateTable struct {
	terminal map[model.StackStatus]bool
	success  map[model.StackStatus]bool
	classify func(stack *model.StackData) error
}

func statusSet(ss ...model.StackStatus) map[model.StackStatus]bool {
	set := make(map[model.StackStatus]bool, len(ss))
	for _, s := range ss {
		set[s] = true
	}
	return set
}

// wait is the generic await loop: sleep, refresh the progress record, check
// the terminal table. An unrecognized status is non-terminal, never success.
// There is no client-side deadline: only context cancellation or a terminal
// state (the provider enforces its own creation timeout) end the loop.
func (m *Monitor) wait(ctx context.Context, stack *model.StackData, table stateTable, opts WaitOptions) error {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	res := newResolver()
	for {
		if err := sleep(ctx, interval); err != nil {
			res.resolve(err)
			return res.err()
		}

		if err := m.refreshStack(ctx, stack, opts.OnEvent); err != nil {
			res.resolve(fmt.Errorf("could not refresh stack %q: %w", stack.Name, err))
			return res.err()
		}

		if !table.terminal[stack.Status] {
			continue
		}

		if table.success[stack.Status] {
			m.logger.Infof("stack %q reached %s", stack.Name, stack.Status)
			res.resolve(nil)
		} else {
			res.resolve(table.classify(stack))
		}
		return res.err()
	}
}

// refreshStack re-fetches the full event history of the record and applies
// the positional diff: events beyond the previously stored length are the new
// ones. The provider returns the history newest first and the record stores
// it in chronological order. Callbacks fire once per new event, in order,
// before the status update. A fetch failure leaves the record untouched and
// fires nothing for this poll.
func (m *Monitor) refreshStack(ctx context.Context, stack *model.StackData, onEvent func(model.StackEvent)) error {
	fetched, err := m.client.DescribeStackEvents(ctx, stack.ID)
	if err != nil {
		return fmt.Errorf("could not describe stack events: %w", err)
	}

	events := make([]model.StackEvent, len(fetched))
	for i, ev := range fetched {
		events[len(fetched)-1-i] = ev
	}

	seen := len(stack.Events)
	if seen > len(events) {
		// The provider history is append-only, a shrunk fetch means a bad
		// response. Skip the poll instead of re-firing callbacks.
		return fmt.Errorf("event history shrank from %d to %d entries", seen, len(events))
	}

	newEvents := events[seen:]
	stack.Events = events

	for _, ev := range newEvents {
		if onEvent != nil {
			onEvent(ev)
		}
	}

	// The record status follows the last stack-level event among the new
	// ones. Trailing nested-resource events don't move it, and with no new
	// stack-level event it stays as it was.
	for i := len(newEvents) - 1; i >= 0; i-- {
		if newEvents[i].ResourceType == model.StackResourceType {
			stack.Status = model.StackStatus(newEvents[i].ResourceStatus)
			break
		}
	}

	return nil
}

func (m *Monitor) classifyCreateFailure(stack *model.StackData) error {
	switch stack.Status {
	case model.StackStatusDeleteComplete:
		return m.failureError(stack, "stack creation failed, cleanup delete succeeded")
	case model.StackStatusDeleteFailed:
		return m.failureError(stack, "stack creation failed and cleanup delete also failed")
	default:
		return m.failureError(stack, "stack creation failed")
	}
}

func (m *Monitor) classifyUpdateFailure(stack *model.StackData) error {
	switch stack.Status {
	case model.StackStatusUpdateRollbackComplete:
		return m.failureError(stack, "stack update failed, rollback succeeded")
	case model.StackStatusUpdateRollbackFailed:
		return m.failureError(stack, "stack update failed and rollback also failed")
	default:
		return m.failureError(stack, "stack update failed")
	}
}

// failureError builds the terminal-failure error: the terminal state reached
// plus the first failure event of the record to pinpoint the root cause. With
// no failure event on record the failure stays unclassified.
func (m *Monitor) failureError(stack *model.StackData, msg string) error {
	if ev, ok := firstFailureEvent(stack.Events); ok {
		return fmt.Errorf("%s: terminal state %s, first failure: %s (%s): %s: %w",
			msg, stack.Status, ev.LogicalResourceID, ev.ResourceStatus, ev.ResourceStatusReason, model.ErrOperationFailed)
	}
	return fmt.Errorf("%s: terminal state %s, no failure event recorded: %w", msg, stack.Status, model.ErrOperationFailed)
}

func firstFailureEvent(events []model.StackEvent) (model.StackEvent, bool) {
	for _, ev := range events {
		if strings.Contains(ev.ResourceStatus, "FAILED") {
			return ev, true
		}
	}
	return model.StackEvent{}, false
}

// sleep waits for the poll interval without blocking a thread, honoring
// context cancellation.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
