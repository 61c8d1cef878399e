package lib_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackctl/stackctl/pkg/lib"
)

const testPollInterval = time.Millisecond

func TestNew(t *testing.T) {
	tests := map[string]struct {
		cfg    lib.Config
		expErr bool
	}{
		"Fake provider": {
			cfg: lib.Config{Provider: lib.ProviderFake},
		},
		"Unknown provider returns error": {
			cfg:    lib.Config{Provider: lib.ProviderType("azure")},
			expErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c, err := lib.New(context.Background(), tt.cfg)

			if tt.expErr {
				require.Error(t, err)
				assert.Nil(t, c)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, c)
			}
		})
	}
}

func TestDeployLifecycle(t *testing.T) {
	ctx := context.Background()
	c, err := lib.New(ctx, lib.Config{Provider: lib.ProviderFake})
	require.NoError(t, err)

	var gotEvents []lib.StackEvent
	result, err := c.Deploy(ctx, lib.DeployConfig{
		BaseName:     "billing",
		DeployID:     "v42",
		Template:     lib.TemplateSource{Raw: `{"Resources":{}}`},
		OnFailure:    lib.OnFailureDelete,
		PollInterval: testPollInterval,
		OnEvent:      func(ev lib.StackEvent) { gotEvents = append(gotEvents, ev) },
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Empty(t, result.Errors)
	require.NotNil(t, result.Stack)
	assert.Equal(t, "billing-v42", result.Stack.Name)
	assert.Equal(t, lib.StackStatusCreateComplete, result.Stack.Status)
	require.NotNil(t, result.Description)
	assert.True(t, result.Description.HasTag(lib.TagStackName, "billing-v42"))
	assert.NotEmpty(t, gotEvents)
}

func TestDeploySupersedesPriorInstance(t *testing.T) {
	ctx := context.Background()
	c, err := lib.New(ctx, lib.Config{Provider: lib.ProviderFake})
	require.NoError(t, err)

	first, err := c.Deploy(ctx, lib.DeployConfig{
		BaseName:     "billing",
		DeployID:     "v41",
		Template:     lib.TemplateSource{Raw: `{"Resources":{}}`},
		OnFailure:    lib.OnFailureDelete,
		PollInterval: testPollInterval,
	})
	require.NoError(t, err)

	second, err := c.Deploy(ctx, lib.DeployConfig{
		BaseName:             "billing",
		DeployID:             "v42",
		Template:             lib.TemplateSource{Raw: `{"Resources":{}}`},
		OnFailure:            lib.OnFailureDelete,
		PollInterval:         testPollInterval,
		DeletePriorInstances: true,
	})
	require.NoError(t, err)

	require.Len(t, second.DeletedPriorStacks, 1)
	assert.Equal(t, first.Stack.ID, second.DeletedPriorStacks[0].ID)
	assert.Equal(t, lib.StackStatusDeleteComplete, second.DeletedPriorStacks[0].Status)
}

func TestUpdateLifecycle(t *testing.T) {
	ctx := context.Background()
	c, err := lib.New(ctx, lib.Config{Provider: lib.ProviderFake})
	require.NoError(t, err)

	_, err = c.Deploy(ctx, lib.DeployConfig{
		BaseName:     "billing",
		DeployID:     "v42",
		Template:     lib.TemplateSource{Raw: `{"Resources":{}}`},
		OnFailure:    lib.OnFailureDelete,
		PollInterval: testPollInterval,
	})
	require.NoError(t, err)

	result, err := c.Update(ctx, lib.UpdateConfig{
		StackName:    "billing-v42",
		Template:     lib.TemplateSource{Raw: `{"Resources":{"Extra":{}}}`},
		PollInterval: testPollInterval,
	})

	require.NoError(t, err)
	require.NotNil(t, result.Stack)
	assert.Equal(t, lib.StackStatusUpdateComplete, result.Stack.Status)
}

func TestPreviewLifecycle(t *testing.T) {
	ctx := context.Background()
	c, err := lib.New(ctx, lib.Config{Provider: lib.ProviderFake})
	require.NoError(t, err)

	result, err := c.Preview(ctx, lib.PreviewConfig{
		StackName:       "billing-v42",
		ChangeSetName:   "preview-1",
		Template:        lib.TemplateSource{Raw: `{"Resources":{}}`},
		PollInterval:    testPollInterval,
		DeleteChangeSet: true,
	})

	require.NoError(t, err)
	require.NotNil(t, result.Description)
	assert.Equal(t, lib.ChangeSetStatusCreateComplete, result.Description.Status)
	assert.NotEmpty(t, result.Description.Changes)
}
