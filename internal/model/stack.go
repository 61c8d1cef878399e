package model

import (
	"time"
)

// StackStatus represents the status of a stack as reported by the provider.
type StackStatus string

const (
	StackStatusCreateInProgress                        StackStatus = "CREATE_IN_PROGRESS"
	StackStatusCreateComplete                          StackStatus = "CREATE_COMPLETE"
	StackStatusCreateFailed                            StackStatus = "CREATE_FAILED"
	StackStatusRollbackInProgress                      StackStatus = "ROLLBACK_IN_PROGRESS"
	StackStatusRollbackComplete                        StackStatus = "ROLLBACK_COMPLETE"
	StackStatusRollbackFailed                          StackStatus = "ROLLBACK_FAILED"
	StackStatusDeleteInProgress                        StackStatus = "DELETE_IN_PROGRESS"
	StackStatusDeleteComplete                          StackStatus = "DELETE_COMPLETE"
	StackStatusDeleteFailed                            StackStatus = "DELETE_FAILED"
	StackStatusUpdateInProgress                        StackStatus = "UPDATE_IN_PROGRESS"
	StackStatusUpdateComplete                          StackStatus = "UPDATE_COMPLETE"
	StackStatusUpdateCompleteCleanupInProgress         StackStatus = "UPDATE_COMPLETE_CLEANUP_IN_PROGRESS"
	StackStatusUpdateRollbackInProgress                StackStatus = "UPDATE_ROLLBACK_IN_PROGRESS"
	StackStatusUpdateRollbackComplete                  StackStatus = "UPDATE_ROLLBACK_COMPLETE"
	StackStatusUpdateRollbackFailed                    StackStatus = "UPDATE_ROLLBACK_FAILED"
	StackStatusUpdateRollbackCompleteCleanupInProgress StackStatus = "UPDATE_ROLLBACK_COMPLETE_CLEANUP_IN_PROGRESS"
	StackStatusReviewInProgress                        StackStatus = "REVIEW_IN_PROGRESS"
)

// StackResourceType is the resource type of the stack itself in an event
// stream, as opposed to the nested resources the stack manages.
const StackResourceType = "AWS::CloudFormation::Stack"

// System-managed tag keys appended to every created stack after any
// user-supplied tags.
const (
	TagStackName     = "STACK_NAME"
	TagStackBaseName = "STACK_BASE_NAME"
	TagStackVersion  = "STACK_VERSION"
)

// Tag is a key/value pair attached to a stack.
type Tag struct {
	Key   string
	Value string
}

// Output is a stack template output.
type Output struct {
	Key         string
	Value       string
	Description string
}

// StackEvent is a single progress event of an in-flight stack operation.
type StackEvent struct {
	ID                   string
	StackID              string
	StackName            string
	LogicalResourceID    string
	PhysicalResourceID   string
	ResourceType         string
	ResourceStatus       string
	ResourceStatusReason string
	Timestamp            time.Time
}

// StackData is the mutable progress record of a stack under operation.
//
// Name is assigned at creation and immutable. ID is unknown until the
// creation call returns and immutable once set. Status holds the latest
// stack-level status observed and Events the full chronological event log,
// both maintained by the monitor across polls.
type StackData struct {
	Name   string
	ID     string
	Status StackStatus
	Events []StackEvent
}

// StackDescription is the full description of a stack as returned by the
// provider.
type StackDescription struct {
	ID           string
	Name         string
	Status       StackStatus
	StatusReason string
	Tags         []Tag
	Outputs      []Output
}

// HasTag returns true when the description carries the exact key/value tag.
func (s StackDescription) HasTag(key, value string) bool {
	for _, t := range s.Tags {
		if t.Key == key && t.Value == value {
			return true
		}
	}
	return false
}

// StackSummary is the reduced stack information returned by stack listings.
type StackSummary struct {
	ID     string
	Name   string
	Status StackStatus
}
