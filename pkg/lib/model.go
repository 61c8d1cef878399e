package lib

import (
	"github.com/stackctl/stackctl/internal/model"
)

// Re-exported workflow configuration and result types. See the fields of the
// aliased types for the full documentation.
type (
	DeployConfig  = model.DeployConfig
	UpdateConfig  = model.UpdateConfig
	PreviewConfig = model.PreviewConfig

	DeployResult  = model.DeployResult
	UpdateResult  = model.UpdateResult
	PreviewResult = model.PreviewResult

	StackData            = model.StackData
	StackEvent           = model.StackEvent
	StackDescription     = model.StackDescription
	ChangeSetData        = model.ChangeSetData
	ChangeSetDescription = model.ChangeSetDescription

	TemplateSource  = model.TemplateSource
	Tag             = model.Tag
	Output          = model.Output
	OnFailure       = model.OnFailure
	StackStatus     = model.StackStatus
	ChangeSetStatus = model.ChangeSetStatus
	Change          = model.Change
)

const (
	// OnFailureDelete deletes the half-created stack when creation fails.
	OnFailureDelete = model.OnFailureDelete
	// OnFailureDoNothing leaves the failed stack in place for inspection.
	OnFailureDoNothing = model.OnFailureDoNothing
)

// Stack and change-set terminal statuses a caller typically checks against.
// The full status vocabulary lives on the aliased model types.
const (
	StackStatusCreateComplete         = model.StackStatusCreateComplete
	StackStatusCreateFailed           = model.StackStatusCreateFailed
	StackStatusDeleteComplete         = model.StackStatusDeleteComplete
	StackStatusDeleteFailed           = model.StackStatusDeleteFailed
	StackStatusUpdateComplete         = model.StackStatusUpdateComplete
	StackStatusUpdateRollbackComplete = model.StackStatusUpdateRollbackComplete
	StackStatusUpdateRollbackFailed   = model.StackStatusUpdateRollbackFailed

	ChangeSetStatusCreateComplete = model.ChangeSetStatusCreateComplete
	ChangeSetStatusFailed         = model.ChangeSetStatusFailed
)

// System-managed tag keys appended to every created stack.
const (
	TagStackName     = model.TagStackName
	TagStackBaseName = model.TagStackBaseName
	TagStackVersion  = model.TagStackVersion
)

var (
	// ErrNotFound is returned when a stack or change set is not found.
	ErrNotFound = model.ErrNotFound
	// ErrNotValid is returned when a configuration is not valid.
	ErrNotValid = model.ErrNotValid
	// ErrOperationFailed is returned when an operation reaches a failure
	// terminal state.
	ErrOperationFailed = model.ErrOperationFailed
)
