package printer

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/stackctl/stackctl/internal/model"
)

// TablePrinter prints workflow information in a table format.
type TablePrinter struct {
	writer io.Writer
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w}
}

// PrintStackDescription prints a detailed stack description.
func (t *TablePrinter) PrintStackDescription(desc model.StackDescription) error {
	fmt.Fprintf(t.writer, "Name:    %s\n", desc.Name)
	fmt.Fprintf(t.writer, "ID:      %s\n", desc.ID)
	fmt.Fprintf(t.writer, "Status:  %s\n", desc.Status)
	if desc.StatusReason != "" {
		fmt.Fprintf(t.writer, "Reason:  %s\n", desc.StatusReason)
	}

	if len(desc.Outputs) > 0 {
		fmt.Fprintln(t.writer, "\nOutputs:")
		tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "KEY\tVALUE\tDESCRIPTION")
		for _, o := range desc.Outputs {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", o.Key, o.Value, o.Description)
		}
		tw.Flush()
	}

	if len(desc.Tags) > 0 {
		fmt.Fprintln(t.writer, "\nTags:")
		tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
		for _, tag := range desc.Tags {
			fmt.Fprintf(tw, "%s\t%s\n", tag.Key, tag.Value)
		}
		tw.Flush()
	}

	return nil
}

// PrintChangeSet prints a change-set description with its proposed changes.
func (t *TablePrinter) PrintChangeSet(desc model.ChangeSetDescription) error {
	fmt.Fprintf(t.writer, "Change set:  %s\n", desc.Name)
	fmt.Fprintf(t.writer, "Stack:       %s\n", desc.StackName)
	fmt.Fprintf(t.writer, "Status:      %s\n", desc.Status)
	if desc.StatusReason != "" {
		fmt.Fprintf(t.writer, "Reason:      %s\n", desc.StatusReason)
	}

	if len(desc.Changes) == 0 {
		return nil
	}

	fmt.Fprintln(t.writer, "\nChanges:")
	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()
	fmt.Fprintln(tw, "ACTION\tLOGICAL ID\tTYPE\tREPLACEMENT")
	for _, c := range desc.Changes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Action, c.LogicalResourceID, c.ResourceType, c.Replacement)
	}

	return nil
}

// PrintOperations prints operation history records in a table format.
func (t *TablePrinter) PrintOperations(ops []model.Operation) error {
	if len(ops) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "ID\tKIND\tSTACK\tRESULT\tSTATUS\tSTARTED\tDURATION")
	for _, op := range ops {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			op.ID, op.Kind, op.StackName, op.Result, op.Status,
			op.StartedAt.Format(time.RFC3339),
			op.FinishedAt.Sub(op.StartedAt).Round(time.Second),
		)
	}

	return nil
}

// PrintMessage prints a plain message.
func (t *TablePrinter) PrintMessage(msg string) error {
	_, err := fmt.Fprintln(t.writer, msg)
	return err
}
