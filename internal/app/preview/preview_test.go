package preview_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stackctl/stackctl/internal/app/preview"
	"github.com/stackctl/stackctl/internal/model"
	"github.com/stackctl/stackctl/internal/provider"
	"github.com/stackctl/stackctl/internal/provider/providermock"
)

const testPollInterval = time.Millisecond

func baseConfig() model.PreviewConfig {
	return model.PreviewConfig{
		StackName:     "billing-v42",
		ChangeSetName: "preview-1",
		Template:      model.TemplateSource{Raw: `{"Resources":{}}`},
		PollInterval:  testPollInterval,
	}
}

func TestNewService(t *testing.T) {
	tests := map[string]struct {
		cfg    preview.ServiceConfig
		expErr bool
	}{
		"Valid config": {
			cfg: preview.ServiceConfig{Client: &providermock.MockClient{}},
		},
		"Missing client returns error": {
			cfg:    preview.ServiceConfig{},
			expErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			svc, err := preview.NewService(tt.cfg)

			if tt.expErr {
				require.Error(t, err)
				assert.Nil(t, svc)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func TestRun(t *testing.T) {
	completeDesc := &model.ChangeSetDescription{
		ID:     "cs-id",
		Name:   "preview-1",
		Status: model.ChangeSetStatusCreateComplete,
		Changes: []model.Change{
			{Action: "Modify", LogicalResourceID: "Bucket", Replacement: "True"},
		},
	}
	failedDesc := &model.ChangeSetDescription{
		ID:           "cs-id",
		Name:         "preview-1",
		Status:       model.ChangeSetStatusFailed,
		StatusReason: "The submitted information didn't contain changes",
	}

	tests := map[string]struct {
		config      func() model.PreviewConfig
		setupMocks  func(mc *providermock.MockClient)
		expErr      bool
		errContains []string
		expDesc     *model.ChangeSetDescription
	}{
		"Completed change set returns the proposed changes": {
			config: baseConfig,
			setupMocks: func(mc *providermock.MockClient) {
				mc.On("ValidateTemplate", mock.Anything, mock.Anything).Return(nil)
				mc.On("CreateChangeSet", mock.Anything, mock.Anything).Return("cs-id", nil)
				mc.On("DescribeChangeSet", mock.Anything, "billing-v42", "preview-1").Return(completeDesc, nil)
			},
			expDesc: completeDesc,
		},
		"Keep-it-clean mode deletes the change set after the preview": {
			config: func() model.PreviewConfig {
				c := baseConfig()
				c.DeleteChangeSet = true
				return c
			},
			setupMocks: func(mc *providermock.MockClient) {
				mc.On("ValidateTemplate", mock.Anything, mock.Anything).Return(nil)
				mc.On("CreateChangeSet", mock.Anything, mock.Anything).Return("cs-id", nil)
				mc.On("DescribeChangeSet", mock.Anything, "billing-v42", "preview-1").Return(completeDesc, nil)
				mc.On("DeleteChangeSet", mock.Anything, "billing-v42", "preview-1").Return(nil)
			},
			expDesc: completeDesc,
		},
		"Failed change set still returns its description": {
			config: baseConfig,
			setupMocks: func(mc *providermock.MockClient) {
				mc.On("ValidateTemplate", mock.Anything, mock.Anything).Return(nil)
				mc.On("CreateChangeSet", mock.Anything, mock.Anything).Return("cs-id", nil)
				mc.On("DescribeChangeSet", mock.Anything, "billing-v42", "preview-1").Return(failedDesc, nil)
			},
			expErr:      true,
			errContains: []string{"change set creation failed", "didn't contain changes"},
			expDesc:     failedDesc,
		},
		"Invalid config aborts before any provider call": {
			config: func() model.PreviewConfig {
				c := baseConfig()
				c.ChangeSetName = ""
				return c
			},
			setupMocks:  func(mc *providermock.MockClient) {},
			expErr:      true,
			errContains: []string{"ChangeSetName"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			mc := &providermock.MockClient{}
			tt.setupMocks(mc)

			svc, err := preview.NewService(preview.ServiceConfig{Client: mc})
			require.NoError(t, err)

			result, err := svc.Run(context.Background(), preview.Request{Config: tt.config()})

			require.NotNil(t, result)
			if tt.expErr {
				require.Error(t, err)
				for _, s := range tt.errContains {
					assert.Contains(t, err.Error(), s)
				}
				require.Len(t, result.Errors, 1)
			} else {
				require.NoError(t, err)
				assert.Empty(t, result.Errors)
			}
			assert.Equal(t, tt.expDesc, result.Description)
			mc.AssertExpectations(t)
		})
	}
}

func TestRunAppendsSystemTags(t *testing.T) {
	cfg := baseConfig()
	cfg.Version = "1.2.3"
	cfg.Tags = []model.Tag{{Key: "team", Value: "payments"}}

	var gotReq provider.CreateChangeSetRequest
	mc := &providermock.MockClient{}
	mc.On("ValidateTemplate", mock.Anything, mock.Anything).Return(nil)
	mc.On("CreateChangeSet", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		gotReq = args.Get(1).(provider.CreateChangeSetRequest)
	}).Return("cs-id", nil)
	mc.On("DescribeChangeSet", mock.Anything, "billing-v42", "preview-1").Return(&model.ChangeSetDescription{
		ID:     "cs-id",
		Name:   "preview-1",
		Status: model.ChangeSetStatusCreateComplete,
	}, nil)

	svc, err := preview.NewService(preview.ServiceConfig{Client: mc})
	require.NoError(t, err)

	_, err = svc.Run(context.Background(), preview.Request{Config: cfg})
	require.NoError(t, err)

	// The proposed tag set keeps the system tags after the user tags, so
	// applying the change set does not wipe them. Base name is a deploy-only
	// tag and stays out.
	assert.Equal(t, []model.Tag{
		{Key: "team", Value: "payments"},
		{Key: model.TagStackName, Value: "billing-v42"},
		{Key: model.TagStackVersion, Value: "1.2.3"},
	}, gotReq.Tags)
}

func TestRunFailedChangeSetIsNotDeleted(t *testing.T) {
	cfg := baseConfig()
	cfg.DeleteChangeSet = true

	mc := &providermock.MockClient{}
	mc.On("ValidateTemplate", mock.Anything, mock.Anything).Return(nil)
	mc.On("CreateChangeSet", mock.Anything, mock.Anything).Return("cs-id", nil)
	mc.On("DescribeChangeSet", mock.Anything, "billing-v42", "preview-1").Return(&model.ChangeSetDescription{
		ID:     "cs-id",
		Name:   "preview-1",
		Status: model.ChangeSetStatusFailed,
	}, nil)

	svc, err := preview.NewService(preview.ServiceConfig{Client: mc})
	require.NoError(t, err)

	_, err = svc.Run(context.Background(), preview.Request{Config: cfg})

	require.Error(t, err)
	mc.AssertNotCalled(t, "DeleteChangeSet", mock.Anything, mock.Anything, mock.Anything)
}
