package lib

import (
	"context"
	"fmt"

	"github.com/stackctl/stackctl/internal/app/deploy"
	"github.com/stackctl/stackctl/internal/app/preview"
	"github.com/stackctl/stackctl/internal/app/update"
	"github.com/stackctl/stackctl/internal/log"
	"github.com/stackctl/stackctl/internal/provider"
	"github.com/stackctl/stackctl/internal/provider/awscf"
	"github.com/stackctl/stackctl/internal/provider/fake"
)

// ProviderType identifies the provisioning provider implementation.
type ProviderType string

const (
	// ProviderAWS targets AWS CloudFormation.
	ProviderAWS ProviderType = "aws"
	// ProviderFake uses an in-memory simulation (no cloud access).
	// Use this for unit testing without infrastructure dependencies.
	ProviderFake ProviderType = "fake"
)

// Config configures the SDK client.
//
// All fields are optional and have sensible defaults: an empty Config{}
// targets AWS with the default credential chain and discards logs.
type Config struct {
	// Provider selects the provisioning provider. Default: ProviderAWS.
	Provider ProviderType

	// Region overrides the provider region (AWS only).
	Region string

	// Logger receives structured log output from the SDK.
	// Default: noop (silent). See the log sub-package for the interface.
	Logger log.Logger
}

func (c *Config) defaults() error {
	if c.Provider == "" {
		c.Provider = ProviderAWS
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	return nil
}

// Client is the main SDK entry point for running supervised stack workflows.
//
// A Client owns a single provider handle: create one Client per target
// account/region. A Client is safe for concurrent use.
type Client struct {
	provider provider.Client
	logger   log.Logger
}

// New creates a new SDK client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var (
		providerClient provider.Client
		err            error
	)
	switch cfg.Provider {
	case ProviderFake:
		providerClient, err = fake.NewClient(fake.Config{Logger: cfg.Logger})
	case ProviderAWS:
		providerClient, err = awscf.NewClient(ctx, awscf.ClientConfig{Region: cfg.Region, Logger: cfg.Logger})
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("could not create provider client: %w", err)
	}

	return &Client{
		provider: providerClient,
		logger:   cfg.Logger,
	}, nil
}

// Deploy creates a new stack instance, awaits its completion and cleans up
// prior instances. The result is returned even on error, carrying whatever
// partial state the workflow accumulated.
func (c *Client) Deploy(ctx context.Context, cfg DeployConfig) (*DeployResult, error) {
	svc, err := deploy.NewService(deploy.ServiceConfig{Client: c.provider, Logger: c.logger})
	if err != nil {
		return nil, fmt.Errorf("could not create deploy service: %w", err)
	}
	return svc.Run(ctx, deploy.Request{Config: cfg})
}

// Update applies a new template to an existing stack and awaits completion.
func (c *Client) Update(ctx context.Context, cfg UpdateConfig) (*UpdateResult, error) {
	svc, err := update.NewService(update.ServiceConfig{Client: c.provider, Logger: c.logger})
	if err != nil {
		return nil, fmt.Errorf("could not create update service: %w", err)
	}
	return svc.Run(ctx, update.Request{Config: cfg})
}

// Preview creates a change set for a proposed update and returns the
// proposed changes without applying them.
func (c *Client) Preview(ctx context.Context, cfg PreviewConfig) (*PreviewResult, error) {
	svc, err := preview.NewService(preview.ServiceConfig{Client: c.provider, Logger: c.logger})
	if err != nil {
		return nil, fmt.Errorf("could not create preview service: %w", err)
	}
	return svc.Run(ctx, preview.Request{Config: cfg})
}
