package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"
)

type HistoryListCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	output string
}

// NewHistoryListCommand returns the history list command.
func NewHistoryListCommand(rootCmd *RootCommand, parent *kingpin.CmdClause) *HistoryListCommand {
	c := &HistoryListCommand{rootCmd: rootCmd}

	c.Cmd = parent.Command("list", "List recorded operations, newest first.")
	c.Cmd.Flag("output", "Output format.").Short('o').Default("table").EnumVar(&c.output, "table", "json")

	return c
}

func (c HistoryListCommand) Name() string { return c.Cmd.FullCommand() }

func (c HistoryListCommand) Run(ctx context.Context) error {
	repo, closeRepo, err := historyRepository(ctx, c.rootCmd)
	if err != nil {
		return err
	}
	defer closeRepo()
	if repo == nil {
		return fmt.Errorf("operation history is disabled")
	}

	ops, err := repo.ListOperations(ctx)
	if err != nil {
		return fmt.Errorf("could not list operations: %w", err)
	}

	return newPrinter(c.output, c.rootCmd.Stdout).PrintOperations(ops)
}
