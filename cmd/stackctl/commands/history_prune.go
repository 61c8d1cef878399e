package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kingpin/v2"
)

type HistoryPruneCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	olderThan time.Duration
}

// NewHistoryPruneCommand returns the history prune command.
func NewHistoryPruneCommand(rootCmd *RootCommand, parent *kingpin.CmdClause) *HistoryPruneCommand {
	c := &HistoryPruneCommand{rootCmd: rootCmd}

	c.Cmd = parent.Command("prune", "Delete old operation records.")
	c.Cmd.Flag("older-than", "Delete records older than this duration.").Default("720h").DurationVar(&c.olderThan)

	return c
}

func (c HistoryPruneCommand) Name() string { return c.Cmd.FullCommand() }

func (c HistoryPruneCommand) Run(ctx context.Context) error {
	repo, closeRepo, err := historyRepository(ctx, c.rootCmd)
	if err != nil {
		return err
	}
	defer closeRepo()
	if repo == nil {
		return fmt.Errorf("operation history is disabled")
	}

	deleted, err := repo.DeleteOperationsBefore(ctx, time.Now().Add(-c.olderThan))
	if err != nil {
		return fmt.Errorf("could not prune operations: %w", err)
	}

	c.rootCmd.Logger.Infof("Pruned %d operation records", deleted)
	return nil
}
