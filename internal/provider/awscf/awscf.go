// Package awscf implements the provider client on top of the AWS
// CloudFormation API.
package awscf

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/smithy-go"

	"github.com/stackctl/stackctl/internal/log"
	"github.com/stackctl/stackctl/internal/model"
	"github.com/stackctl/stackctl/internal/provider"
)

// ClientConfig is the configuration for the AWS CloudFormation client.
type ClientConfig struct {
	// Region overrides the region of the default AWS credential chain.
	Region string
	Logger log.Logger
}

func (c *ClientConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "provider.AWSCF"})
	return nil
}

// Client is an AWS CloudFormation implementation of provider.Client.
//
// Each Client owns its API handle; concurrent workflows against different
// accounts or regions use independent Clients, there is no process-wide
// shared client.
type Client struct {
	api    *cloudformation.Client
	logger log.Logger
}

var _ provider.Client = (*Client)(nil)

// NewClient creates a new client resolving credentials from the default AWS
// chain.
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("could not load AWS configuration: %w", err)
	}

	return &Client{
		api:    cloudformation.NewFromConfig(awsCfg),
		logger: cfg.Logger,
	}, nil
}

// ValidateTemplate asks the provider to check the template.
func (c *Client) ValidateTemplate(ctx context.Context, template model.TemplateRef) error {
	in := &cloudformation.ValidateTemplateInput{}
	if template.URL != "" {
		in.TemplateURL = aws.String(template.URL)
	} else {
		in.TemplateBody = aws.String(template.Body)
	}

	_, err := c.api.ValidateTemplate(ctx, in)
	if err != nil {
		return fmt.Errorf("validate template call failed: %w", err)
	}
	return nil
}

// CreateStack creates a new stack and returns its provider-assigned ID.
func (c *Client) CreateStack(ctx context.Context, req provider.CreateStackRequest) (string, error) {
	out, err := c.api.CreateStack(ctx, createStackInput(req))
	if err != nil {
		return "", fmt.Errorf("create stack call failed: %w", err)
	}

	c.logger.Debugf("created stack %s: %s", req.StackName, aws.ToString(out.StackId))
	return aws.ToString(out.StackId), nil
}

// UpdateStack updates an existing stack and returns its ID.
func (c *Client) UpdateStack(ctx context.Context, req provider.UpdateStackRequest) (string, error) {
	out, err := c.api.UpdateStack(ctx, updateStackInput(req))
	if err != nil {
		return "", fmt.Errorf("update stack call failed: %w", err)
	}

	return aws.ToString(out.StackId), nil
}

// DeleteStack starts the deletion of a stack.
func (c *Client) DeleteStack(ctx context.Context, stackID string) error {
	_, err := c.api.DeleteStack(ctx, &cloudformation.DeleteStackInput{StackName: aws.String(stackID)})
	if err != nil {
		return fmt.Errorf("delete stack call failed: %w", err)
	}
	return nil
}

// DescribeStack returns the description of a stack, model.ErrNotFound when no
// stack matches.
func (c *Client) DescribeStack(ctx context.Context, stackID string) (*model.StackDescription, error) {
	out, err := c.api.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{StackName: aws.String(stackID)})
	if err != nil {
		if isStackNotFound(err) {
			return nil, fmt.Errorf("stack %s: %w", stackID, model.ErrNotFound)
		}
		return nil, fmt.Errorf("describe stacks call failed: %w", err)
	}
	if len(out.Stacks) == 0 {
		return nil, fmt.Errorf("stack %s: %w", stackID, model.ErrNotFound)
	}

	desc := stackDescription(out.Stacks[0])
	return &desc, nil
}

// DescribeStackEvents returns the complete event history of a stack, newest
// first, draining pagination.
func (c *Client) DescribeStackEvents(ctx context.Context, stackID string) ([]model.StackEvent, error) {
	var events []model.StackEvent

	paginator := cloudformation.NewDescribeStackEventsPaginator(c.api, &cloudformation.DescribeStackEventsInput{
		StackName: aws.String(stackID),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("describe stack events call failed: %w", err)
		}
		for _, ev := range page.StackEvents {
			events = append(events, stackEvent(ev))
		}
	}

	return events, nil
}

// ListStacks returns the summaries of the stacks matching the status filter,
// draining pagination.
func (c *Client) ListStacks(ctx context.Context, statusFilter []model.StackStatus) ([]model.StackSummary, error) {
	var summaries []model.StackSummary

	paginator := cloudformation.NewListStacksPaginator(c.api, &cloudformation.ListStacksInput{
		StackStatusFilter: stackStatusFilter(statusFilter),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list stacks call failed: %w", err)
		}
		for _, s := range page.StackSummaries {
			summaries = append(summaries, stackSummary(s))
		}
	}

	return summaries, nil
}

// CreateChangeSet creates an update preview and returns its ID.
func (c *Client) CreateChangeSet(ctx context.Context, req provider.CreateChangeSetRequest) (string, error) {
	out, err := c.api.CreateChangeSet(ctx, createChangeSetInput(req))
	if err != nil {
		return "", fmt.Errorf("create change set call failed: %w", err)
	}

	return aws.ToString(out.Id), nil
}

// DescribeChangeSet returns the full change-set description, draining the
// pagination of its changes.
func (c *Client) DescribeChangeSet(ctx context.Context, stackName, changeSetName string) (*model.ChangeSetDescription, error) {
	var desc *model.ChangeSetDescription
	var nextToken *string
	for {
		out, err := c.api.DescribeChangeSet(ctx, &cloudformation.DescribeChangeSetInput{
			StackName:     aws.String(stackName),
			ChangeSetName: aws.String(changeSetName),
			NextToken:     nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("describe change set call failed: %w", err)
		}

		if desc == nil {
			d := changeSetDescription(out)
			desc = &d
		} else {
			desc.Changes = append(desc.Changes, changes(out.Changes)...)
		}

		nextToken = out.NextToken
		if nextToken == nil {
			return desc, nil
		}
	}
}

// DeleteChangeSet removes a change set.
func (c *Client) DeleteChangeSet(ctx context.Context, stackName, changeSetName string) error {
	_, err := c.api.DeleteChangeSet(ctx, &cloudformation.DeleteChangeSetInput{
		StackName:     aws.String(stackName),
		ChangeSetName: aws.String(changeSetName),
	})
	if err != nil {
		return fmt.Errorf("delete change set call failed: %w", err)
	}
	return nil
}

// isStackNotFound detects the ValidationError CloudFormation returns when
// describing a stack that does not exist.
func isStackNotFound(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.ErrorCode() == "ValidationError" && strings.Contains(apiErr.ErrorMessage(), "does not exist")
}
