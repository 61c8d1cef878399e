package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackctl/stackctl/internal/model"
)

func validDeployConfig() model.DeployConfig {
	return model.DeployConfig{
		BaseName:  "billing",
		DeployID:  "v42",
		Template:  model.TemplateSource{Raw: `{"Resources":{}}`},
		OnFailure: model.OnFailureDelete,
	}
}

func TestDeployConfigValidate(t *testing.T) {
	tests := map[string]struct {
		config      func() model.DeployConfig
		expErr      bool
		errContains []string
	}{
		"Valid config passes": {
			config: validDeployConfig,
		},
		"Every violation is reported in one pass": {
			config: func() model.DeployConfig {
				c := validDeployConfig()
				c.BaseName = ""
				c.DeployID = ""
				c.Template = model.TemplateSource{}
				return c
			},
			expErr:      true,
			errContains: []string{"BaseName", "DeployID", "Template"},
		},
		"Unknown failure policy is rejected": {
			config: func() model.DeployConfig {
				c := validDeployConfig()
				c.OnFailure = model.OnFailure("ROLLBACK")
				return c
			},
			expErr:      true,
			errContains: []string{"OnFailure"},
		},
		"Negative poll interval is rejected": {
			config: func() model.DeployConfig {
				c := validDeployConfig()
				c.PollInterval = -1
				return c
			},
			expErr:      true,
			errContains: []string{"PollInterval"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.config().Validate()

			if tt.expErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrNotValid)
				for _, s := range tt.errContains {
					assert.Contains(t, err.Error(), s)
				}
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestUpdateConfigValidate(t *testing.T) {
	tests := map[string]struct {
		config model.UpdateConfig
		expErr bool
	}{
		"Valid config passes": {
			config: model.UpdateConfig{
				StackName: "billing-v42",
				Template:  model.TemplateSource{Raw: `{"Resources":{}}`},
			},
		},
		"Missing stack name is rejected": {
			config: model.UpdateConfig{
				Template: model.TemplateSource{Raw: `{"Resources":{}}`},
			},
			expErr: true,
		},
		"Missing template is rejected": {
			config: model.UpdateConfig{StackName: "billing-v42"},
			expErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.config.Validate()

			if tt.expErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrNotValid)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestPreviewConfigValidate(t *testing.T) {
	tests := map[string]struct {
		config model.PreviewConfig
		expErr bool
	}{
		"Valid config passes": {
			config: model.PreviewConfig{
				StackName:     "billing-v42",
				ChangeSetName: "preview-1",
				Template:      model.TemplateSource{Raw: `{"Resources":{}}`},
			},
		},
		"Missing change set name is rejected": {
			config: model.PreviewConfig{
				StackName: "billing-v42",
				Template:  model.TemplateSource{Raw: `{"Resources":{}}`},
			},
			expErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.config.Validate()

			if tt.expErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrNotValid)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestDeployConfigStackName(t *testing.T) {
	c := validDeployConfig()
	assert.Equal(t, "billing-v42", c.StackName())
}

func TestAppendSystemTags(t *testing.T) {
	tests := map[string]struct {
		userTags  []model.Tag
		stackName string
		baseName  string
		version   string
		expTags   []model.Tag
	}{
		"System tags go after the user tags": {
			userTags:  []model.Tag{{Key: "team", Value: "payments"}},
			stackName: "billing-v42",
			baseName:  "billing",
			version:   "1.2.3",
			expTags: []model.Tag{
				{Key: "team", Value: "payments"},
				{Key: model.TagStackName, Value: "billing-v42"},
				{Key: model.TagStackBaseName, Value: "billing"},
				{Key: model.TagStackVersion, Value: "1.2.3"},
			},
		},
		"Empty base name and version tags are omitted": {
			stackName: "billing-v42",
			expTags: []model.Tag{
				{Key: model.TagStackName, Value: "billing-v42"},
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tags := model.AppendSystemTags(tt.userTags, tt.stackName, tt.baseName, tt.version)
			assert.Equal(t, tt.expTags, tags)
		})
	}
}
