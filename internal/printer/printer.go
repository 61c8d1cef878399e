package printer

import "github.com/stackctl/stackctl/internal/model"

// Printer knows how to print workflow information in different formats.
type Printer interface {
	PrintStackDescription(desc model.StackDescription) error
	PrintChangeSet(desc model.ChangeSetDescription) error
	PrintOperations(ops []model.Operation) error
	PrintMessage(msg string) error
}
