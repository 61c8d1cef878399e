package monitor

import (
	"context"
	"fmt"

	"github.com/stackctl/stackctl/internal/model"
)

// WaitForChangeSet polls until the change-set creation reaches a terminal
// state (CREATE_COMPLETE or FAILED). Change sets have no event log, each poll
// is a single status fetch of the description. The latest description is
// returned even on failure so callers can inspect a partially created change
// set.
func (m *Monitor) WaitForChangeSet(ctx context.Context, cs *model.ChangeSetData, opts WaitOptions) (*model.ChangeSetDescription, error) {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	m.logger.Debugf("waiting for change set %q on stack %q", cs.Name, cs.StackName)

	res := newResolver()
	var desc *model.ChangeSetDescription
	for {
		if err := sleep(ctx, interval); err != nil {
			res.resolve(err)
			return desc, res.err()
		}

		fetched, err := m.client.DescribeChangeSet(ctx, cs.StackName, cs.Name)
		if err != nil {
			res.resolve(fmt.Errorf("could not describe change set %q: %w", cs.Name, err))
			return desc, res.err()
		}

		desc = fetched
		cs.ID = fetched.ID
		cs.Status = fetched.Status

		switch cs.Status {
		case model.ChangeSetStatusCreateComplete:
			m.logger.Infof("change set %q reached %s", cs.Name, cs.Status)
			res.resolve(nil)
			return desc, res.err()
		case model.ChangeSetStatusFailed:
			res.resolve(fmt.Errorf("change set creation failed: %s: %w", fetched.StatusReason, model.ErrOperationFailed))
			return desc, res.err()
		}
	}
}
