package model

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// OnFailure is the policy the provider applies when a stack creation fails.
type OnFailure string

const (
	// OnFailureDelete deletes the half-created stack when creation fails.
	OnFailureDelete OnFailure = "DELETE"
	// OnFailureDoNothing leaves the failed stack in place for inspection.
	OnFailureDoNothing OnFailure = "DO_NOTHING"
)

// DeployConfig is the configuration of a deploy workflow. Immutable once the
// workflow starts.
type DeployConfig struct {
	// BaseName is the logical deployment name. The stack name is derived as
	// "<BaseName>-<DeployID>".
	BaseName string `validate:"required"`
	// DeployID identifies this deployment instance among all the instances
	// sharing the same base name.
	DeployID string `validate:"required"`
	// Version is an optional semantic version recorded as a system tag.
	Version      string
	Template     TemplateSource `validate:"-"`
	Parameters   map[string]string
	Tags         []Tag
	Capabilities []string
	// PollInterval is the wait between progress polls. Zero means the
	// monitor default.
	PollInterval time.Duration `validate:"gte=0"`
	// OnFailure is the provider-side policy for failed creations. It also
	// selects the terminal-state table used while awaiting completion.
	OnFailure OnFailure `validate:"required,oneof=DELETE DO_NOTHING"`
	// TimeoutMinutes is passed through to the provider so it enforces a
	// creation ceiling. Zero means no provider-side timeout.
	TimeoutMinutes int `validate:"gte=0"`
	// DeletePriorInstances enables cleanup of superseded stacks sharing the
	// same base name after a successful creation.
	DeletePriorInstances bool
	// OnEvent is invoked synchronously for each newly observed progress
	// event, in chronological order.
	OnEvent func(StackEvent) `validate:"-"`
	// PostCreate runs once after successful creation with the stack
	// description, before prior-instance cleanup. An error aborts the
	// remaining workflow stages.
	PostCreate func(StackDescription) error `validate:"-"`
}

// StackName returns the derived name of the stack this deploy creates.
func (c DeployConfig) StackName() string {
	return c.BaseName + "-" + c.DeployID
}

// Validate validates the deploy configuration, reporting every violation.
func (c DeployConfig) Validate() error {
	return validateConfig("deploy", c)
}

// UpdateConfig is the configuration of an update workflow. Immutable once the
// workflow starts.
type UpdateConfig struct {
	StackName string `validate:"required"`
	// Version is an optional semantic version recorded as a system tag.
	Version      string
	Template     TemplateSource `validate:"-"`
	Parameters   map[string]string
	Tags         []Tag
	Capabilities []string
	PollInterval time.Duration    `validate:"gte=0"`
	OnEvent      func(StackEvent) `validate:"-"`
}

// Validate validates the update configuration, reporting every violation.
func (c UpdateConfig) Validate() error {
	return validateConfig("update", c)
}

// PreviewConfig is the configuration of a preview-update workflow. Immutable
// once the workflow starts.
type PreviewConfig struct {
	StackName     string `validate:"required"`
	ChangeSetName string `validate:"required"`
	// Version is an optional semantic version recorded as a system tag.
	Version       string
	Template      TemplateSource `validate:"-"`
	Parameters    map[string]string
	Tags          []Tag
	Capabilities  []string
	PollInterval  time.Duration `validate:"gte=0"`
	// DeleteChangeSet removes the change set after a successful preview.
	DeleteChangeSet bool
}

// Validate validates the preview configuration, reporting every violation.
func (c PreviewConfig) Validate() error {
	return validateConfig("preview", c)
}

// AppendSystemTags returns the stack tags to send with an operation: the user
// tags followed by the system-managed ones. Base name and version entries are
// only present when non-empty (version is optional, base name is deploy-only).
func AppendSystemTags(userTags []Tag, stackName, baseName, version string) []Tag {
	tags := make([]Tag, 0, len(userTags)+3)
	tags = append(tags, userTags...)
	tags = append(tags, Tag{Key: TagStackName, Value: stackName})
	if baseName != "" {
		tags = append(tags, Tag{Key: TagStackBaseName, Value: baseName})
	}
	if version != "" {
		tags = append(tags, Tag{Key: TagStackVersion, Value: version})
	}
	return tags
}

var configValidator = newConfigValidator()

func newConfigValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(requireTemplate(func(c DeployConfig) TemplateSource { return c.Template }), DeployConfig{})
	v.RegisterStructValidation(requireTemplate(func(c UpdateConfig) TemplateSource { return c.Template }), UpdateConfig{})
	v.RegisterStructValidation(requireTemplate(func(c PreviewConfig) TemplateSource { return c.Template }), PreviewConfig{})
	return v
}

// requireTemplate flags an empty template source at the struct level so it is
// aggregated with the field violations of the same validation pass.
func requireTemplate[T any](template func(T) TemplateSource) validator.StructLevelFunc {
	return func(sl validator.StructLevel) {
		cfg := sl.Current().Interface().(T)
		if template(cfg).IsZero() {
			sl.ReportError(template(cfg), "Template", "Template", "required", "")
		}
	}
}

func validateConfig(kind string, cfg interface{}) error {
	err := configValidator.Struct(cfg)
	if err != nil {
		return fmt.Errorf("invalid %s config: %s: %w", kind, err, ErrNotValid)
	}
	return nil
}
