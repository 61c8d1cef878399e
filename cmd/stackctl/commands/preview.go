package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/stackctl/stackctl/internal/app/preview"
	"github.com/stackctl/stackctl/internal/model"
)

type PreviewCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	stackfilePath string
	stackName     string
	changeSetName string
	version       string
	keep          bool
	pollInterval  time.Duration
	output        string
	providerFlags providerFlags
}

// NewPreviewCommand returns the preview command.
func NewPreviewCommand(rootCmd *RootCommand, app *kingpin.Application) *PreviewCommand {
	c := &PreviewCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("preview", "Preview an update as a change set without applying it.")

	c.Cmd.Flag("stackfile", "Path to the stackfile (template, parameters, tags).").Short('f').Required().ExistingFileVar(&c.stackfilePath)
	c.Cmd.Flag("stack-name", "Name of the stack to preview against.").Required().StringVar(&c.stackName)
	c.Cmd.Flag("change-set-name", "Name for the change set.").Default("stackctl-preview").StringVar(&c.changeSetName)
	c.Cmd.Flag("version", "Semantic version recorded as a stack tag.").StringVar(&c.version)
	c.Cmd.Flag("keep", "Keep the change set after the preview instead of deleting it.").BoolVar(&c.keep)
	c.Cmd.Flag("poll-interval", "Wait between progress polls.").Default("5s").DurationVar(&c.pollInterval)
	c.Cmd.Flag("output", "Output format.").Short('o').Default("table").EnumVar(&c.output, "table", "json")
	c.providerFlags.register(c.Cmd)

	return c
}

func (c PreviewCommand) Name() string { return c.Cmd.FullCommand() }

func (c PreviewCommand) Run(ctx context.Context) error {
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

	svc, err := preview.NewService(preview.ServiceConfig{
		Client:     client,
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create preview service: %w", err)
	}

	result, err := svc.Run(ctx, preview.Request{Config: model.PreviewConfig{
		StackName:       c.stackName,
		ChangeSetName:   c.changeSetName,
		Version:         c.version,
		Template:        template,
		Parameters:      sf.Parameters,
		Tags:            sf.modelTags(),
		Capabilities:    sf.Capabilities,
		PollInterval:    c.pollInterval,
		DeleteChangeSet: !c.keep,
	}})
	// The description is printed even on failure so the user can inspect a
	// partially created change set.
	if result != nil && result.Description != nil {
		if printErr := newPrinter(c.output, c.rootCmd.Stdout).PrintChangeSet(*result.Description); printErr != nil {
			return printErr
		}
	}
	if err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}

	return nil
}
