package model

import "time"

// OperationKind is the kind of workflow an operation record belongs to.
type OperationKind string

const (
	OperationKindDeploy  OperationKind = "deploy"
	OperationKindUpdate  OperationKind = "update"
	OperationKindPreview OperationKind = "preview"
)

// OperationResult is the final outcome of a recorded operation.
type OperationResult string

const (
	OperationResultSuccess OperationResult = "success"
	OperationResultFailure OperationResult = "failure"
)

// Operation is a history record of a finished workflow run.
type Operation struct {
	ID         string
	Kind       OperationKind
	StackName  string
	StackID    string
	BaseName   string
	Status     string
	Result     OperationResult
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}
