package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/stackctl/stackctl/internal/app/update"
	"github.com/stackctl/stackctl/internal/model"
)

type UpdateCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	stackfilePath string
	stackName     string
	version       string
	pollInterval  time.Duration
	output        string
	providerFlags providerFlags
}

// NewUpdateCommand returns the update command.
func NewUpdateCommand(rootCmd *RootCommand, app *kingpin.Application) *UpdateCommand {
	c := &UpdateCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("update", "Update an existing stack in place.")

	c.Cmd.Flag("stackfile", "Path to the stackfile (template, parameters, tags).").Short('f').Required().ExistingFileVar(&c.stackfilePath)
	c.Cmd.Flag("stack-name", "Name of the stack to update.").Required().StringVar(&c.stackName)
	c.Cmd.Flag("version", "Semantic version recorded as a stack tag.").StringVar(&c.version)
	c.Cmd.Flag("poll-interval", "Wait between progress polls.").Default("5s").DurationVar(&c.pollInterval)
	c.Cmd.Flag("output", "Output format.").Short('o').Default("table").EnumVar(&c.output, "table", "json")
	c.providerFlags.register(c.Cmd)

	return c
}

func (c UpdateCommand) Name() string { return c.Cmd.FullCommand() }

func (c UpdateCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	sf, err := loadStackfile(c.stackfilePath)
	if err != nil {
		return err
	}
	template, err := sf.templateSource()
	if err != nil {
		return err
	}

	client, err := c.providerFlags.client(ctx, c.rootCmd)
	if err != nil {
		return err
	}

	repo, closeRepo, err := historyRepository(ctx, c.rootCmd)
	if err != nil {
		return err
	}
	defer closeRepo()

	svc, err := update.NewService(update.ServiceConfig{
		Client:     client,
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create update service: %w", err)
	}

	result, err := svc.Run(ctx, update.Request{Config: model.UpdateConfig{
		StackName:    c.stackName,
		Version:      c.version,
		Template:     template,
		Parameters:   sf.Parameters,
		Tags:         sf.modelTags(),
		Capabilities: sf.Capabilities,
		PollInterval: c.pollInterval,
		OnEvent:      eventLogger(logger),
	}})
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	if result.Description != nil {
		return newPrinter(c.output, c.rootCmd.Stdout).PrintStackDescription(*result.Description)
	}

	return nil
}
