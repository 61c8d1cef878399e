package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"
	"k8s.io/client-go/util/homedir"

	"github.com/stackctl/stackctl/internal/log"
	"github.com/stackctl/stackctl/internal/provider"
	"github.com/stackctl/stackctl/internal/provider/awscf"
	"github.com/stackctl/stackctl/internal/provider/fake"
	"github.com/stackctl/stackctl/internal/storage"
	"github.com/stackctl/stackctl/internal/storage/sqlite"
)

const (
	// LoggerTypeDefault is the logger default type.
	LoggerTypeDefault = "default"
	// LoggerTypeJSON is the logger json type.
	LoggerTypeJSON = "json"
)

const (
	// ProviderAWS talks to AWS CloudFormation.
	ProviderAWS = "aws"
	// ProviderFake simulates stack operations in memory.
	ProviderFake = "fake"
)

// Command represents an application command, all commands that want to be executed
// should implement and setup on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// RootCommand represents the root command configuration and global configuration
// for all the commands.
type RootCommand struct {
	// Global flags.
	Debug      bool
	NoLog      bool
	NoColor    bool
	LoggerType string
	DBPath     string
	NoHistory  bool

	// Global instances.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger log.Logger

	// fakeClient is shared by the commands of a run so consecutive fake
	// operations see each other's stacks.
	fakeClient *fake.Client
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{}

	app.Flag("debug", "Enable debug mode.").BoolVar(&c.Debug)
	app.Flag("no-log", "Disable logger.").BoolVar(&c.NoLog)
	app.Flag("no-color", "Disable logger color.").BoolVar(&c.NoColor)
	app.Flag("logger", "Selects the logger type.").Default(LoggerTypeDefault).EnumVar(&c.LoggerType, LoggerTypeDefault, LoggerTypeJSON)

	defaultDBPath := filepath.Join(homedir.HomeDir(), ".stackctl", "stackctl.db")
	app.Flag("db-path", "Path to the SQLite operation history database file.").Envar("STACKCTL_DB_PATH").Default(defaultDBPath).StringVar(&c.DBPath)
	app.Flag("no-history", "Disable operation history recording.").BoolVar(&c.NoHistory)

	return c
}

// providerFlags are the provider selection flags shared by the workflow
// commands.
type providerFlags struct {
	provider string
	region   string
}

func (p *providerFlags) register(cmd *kingpin.CmdClause) {
	cmd.Flag("provider", "Provisioning provider (aws, fake).").Default(ProviderAWS).EnumVar(&p.provider, ProviderAWS, ProviderFake)
	cmd.Flag("region", "Provider region (aws provider only).").StringVar(&p.region)
}

func (p *providerFlags) client(ctx context.Context, rootCmd *RootCommand) (provider.Client, error) {
	switch p.provider {
	case ProviderFake:
		if rootCmd.fakeClient == nil {
			c, err := fake.NewClient(fake.Config{Logger: rootCmd.Logger})
			if err != nil {
				return nil, fmt.Errorf("could not create fake provider client: %w", err)
			}
			rootCmd.fakeClient = c
		}
		return rootCmd.fakeClient, nil
	default:
		c, err := awscf.NewClient(ctx, awscf.ClientConfig{Region: p.region, Logger: rootCmd.Logger})
		if err != nil {
			return nil, fmt.Errorf("could not create AWS provider client: %w", err)
		}
		return c, nil
	}
}

// historyRepository returns the operation history repository, nil when
// history is disabled.
func historyRepository(ctx context.Context, rootCmd *RootCommand) (storage.Repository, func(), error) {
	if rootCmd.NoHistory {
		return nil, func() {}, nil
	}

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: rootCmd.DBPath,
		Logger: rootCmd.Logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("could not create history repository: %w", err)
	}

	return repo, func() { repo.Close() }, nil
}
