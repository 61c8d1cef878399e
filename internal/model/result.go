package model

// DeployResult is the accumulated outcome of a deploy workflow. It is always
// returned, carrying whatever partial state existed when a stage failed.
type DeployResult struct {
	// Errors holds the stage error that aborted the workflow, if any.
	Errors []error
	// Stack is the progress record of the created stack.
	Stack *StackData
	// Description is the stack description fetched after creation.
	Description *StackDescription
	// DeletedPriorStacks holds one progress record per superseded prior
	// instance that was deleted.
	DeletedPriorStacks []StackData
}

// UpdateResult is the accumulated outcome of an update workflow.
type UpdateResult struct {
	Errors      []error
	Stack       *StackData
	Description *StackDescription
}

// PreviewResult is the accumulated outcome of a preview-update workflow. The
// change-set description is present even when the preview failed, so callers
// can inspect a partially created change set.
type PreviewResult struct {
	Errors      []error
	ChangeSet   *ChangeSetData
	Description *ChangeSetDescription
}
