package model

// ChangeSetStatus represents the status of a change set.
type ChangeSetStatus string

const (
	ChangeSetStatusCreatePending    ChangeSetStatus = "CREATE_PENDING"
	ChangeSetStatusCreateInProgress ChangeSetStatus = "CREATE_IN_PROGRESS"
	ChangeSetStatusCreateComplete   ChangeSetStatus = "CREATE_COMPLETE"
	ChangeSetStatusDeleteComplete   ChangeSetStatus = "DELETE_COMPLETE"
	ChangeSetStatusFailed           ChangeSetStatus = "FAILED"
)

// ChangeSetData is the mutable progress record of a change set under
// creation. Unlike stacks, change sets have no event log, only a status.
type ChangeSetData struct {
	Name      string
	StackName string
	ID        string
	Status    ChangeSetStatus
}

// Change is a single proposed change of a change set.
type Change struct {
	Action             string
	LogicalResourceID  string
	PhysicalResourceID string
	ResourceType       string
	Replacement        string
}

// ChangeSetDescription is the full description of a change set, including
// the list of proposed changes.
type ChangeSetDescription struct {
	ID           string
	Name         string
	StackID      string
	StackName    string
	Status       ChangeSetStatus
	StatusReason string
	Changes      []Change
}
