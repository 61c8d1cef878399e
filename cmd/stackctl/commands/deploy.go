package commands

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/oklog/ulid/v2"

	"github.com/stackctl/stackctl/internal/app/deploy"
	"github.com/stackctl/stackctl/internal/log"
	"github.com/stackctl/stackctl/internal/model"
	"github.com/stackctl/stackctl/internal/printer"
)

type DeployCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	stackfilePath  string
	baseName       string
	deployID       string
	version        string
	onFailure      string
	pollInterval   time.Duration
	timeoutMinutes int
	deletePrior    bool
	output         string
	providerFlags  providerFlags
}

// NewDeployCommand returns the deploy command.
func NewDeployCommand(rootCmd *RootCommand, app *kingpin.Application) *DeployCommand {
	c := &DeployCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("deploy", "Deploy a new stack instance and clean up the prior ones.")

	c.Cmd.Flag("stackfile", "Path to the stackfile (template, parameters, tags).").Short('f').Required().ExistingFileVar(&c.stackfilePath)
	c.Cmd.Flag("base-name", "Logical deployment name, the stack name is <base-name>-<deploy-id>.").Required().StringVar(&c.baseName)
	c.Cmd.Flag("deploy-id", "Deployment instance ID (generated when omitted).").StringVar(&c.deployID)
	c.Cmd.Flag("version", "Semantic version recorded as a stack tag.").StringVar(&c.version)
	c.Cmd.Flag("on-failure", "What the provider does when creation fails.").Default(string(model.OnFailureDelete)).EnumVar(&c.onFailure, string(model.OnFailureDelete), string(model.OnFailureDoNothing))
	c.Cmd.Flag("poll-interval", "Wait between progress polls.").Default("5s").DurationVar(&c.pollInterval)
	c.Cmd.Flag("timeout-minutes", "Provider-side creation timeout, 0 disables it.").Default("0").IntVar(&c.timeoutMinutes)
	c.Cmd.Flag("delete-prior", "Delete the prior instances after a successful deploy.").Default("true").BoolVar(&c.deletePrior)
	c.Cmd.Flag("output", "Output format.").Short('o').Default("table").EnumVar(&c.output, "table", "json")
	c.providerFlags.register(c.Cmd)

	return c
}

func (c DeployCommand) Name() string { return c.Cmd.FullCommand() }

func (c DeployCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	sf, err := loadStackfile(c.stackfilePath)
	if err != nil {
		return err
	}
	template, err := sf.templateSource()
	if err != nil {
		return err
	}

	deployID := c.deployID
	if deployID == "" {
		deployID = ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
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

	svc, err := deploy.NewService(deploy.ServiceConfig{
		Client:     client,
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create deploy service: %w", err)
	}

	result, err := svc.Run(ctx, deploy.Request{Config: model.DeployConfig{
		BaseName:             c.baseName,
		DeployID:             deployID,
		Version:              c.version,
		Template:             template,
		Parameters:           sf.Parameters,
		Tags:                 sf.modelTags(),
		Capabilities:         sf.Capabilities,
		PollInterval:         c.pollInterval,
		OnFailure:            model.OnFailure(c.onFailure),
		TimeoutMinutes:       c.timeoutMinutes,
		DeletePriorInstances: c.deletePrior,
		OnEvent:              eventLogger(logger),
	}})
	if err != nil {
		return fmt.Errorf("deploy failed: %w", err)
	}

	p := newPrinter(c.output, c.rootCmd.Stdout)
	if result.Description != nil {
		if err := p.PrintStackDescription(*result.Description); err != nil {
			return err
		}
	}
	if len(result.DeletedPriorStacks) > 0 {
		names := make([]string, 0, len(result.DeletedPriorStacks))
		for _, s := range result.DeletedPriorStacks {
			names = append(names, s.Name)
		}
		if err := p.PrintMessage(fmt.Sprintf("Deleted prior instances: %v", names)); err != nil {
			return err
		}
	}

	return nil
}

// eventLogger logs every observed progress event.
func eventLogger(logger log.Logger) func(model.StackEvent) {
	return func(ev model.StackEvent) {
		logger.Infof("%s  %s  %s  %s", ev.Timestamp.Format(time.TimeOnly), ev.ResourceType, ev.LogicalResourceID, ev.ResourceStatus)
	}
}

func newPrinter(output string, w io.Writer) printer.Printer {
	if output == "json" {
		return printer.NewJSONPrinter(w)
	}
	return printer.NewTablePrinter(w)
}
