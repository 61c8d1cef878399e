package printer

import (
	"encoding/json"
	"io"
	"time"

	"github.com/stackctl/stackctl/internal/model"
)

// JSONPrinter prints workflow information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

type stackOutput struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Status       string            `json:"status"`
	StatusReason string            `json:"status_reason,omitempty"`
	Tags         map[string]string `json:"tags,omitempty"`
	Outputs      map[string]string `json:"outputs,omitempty"`
}

type changeOutput struct {
	Action            string `json:"action"`
	LogicalResourceID string `json:"logical_resource_id"`
	ResourceType      string `json:"resource_type"`
	Replacement       string `json:"replacement,omitempty"`
}

type changeSetOutput struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	StackName    string         `json:"stack_name"`
	Status       string         `json:"status"`
	StatusReason string         `json:"status_reason,omitempty"`
	Changes      []changeOutput `json:"changes"`
}

type operationOutput struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	StackName  string    `json:"stack_name"`
	StackID    string    `json:"stack_id,omitempty"`
	BaseName   string    `json:"base_name,omitempty"`
	Result     string    `json:"result"`
	Status     string    `json:"status,omitempty"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// PrintStackDescription prints a stack description as JSON.
func (j *JSONPrinter) PrintStackDescription(desc model.StackDescription) error {
	out := stackOutput{
		ID:           desc.ID,
		Name:         desc.Name,
		Status:       string(desc.Status),
		StatusReason: desc.StatusReason,
	}
	if len(desc.Tags) > 0 {
		out.Tags = map[string]string{}
		for _, t := range desc.Tags {
			out.Tags[t.Key] = t.Value
		}
	}
	if len(desc.Outputs) > 0 {
		out.Outputs = map[string]string{}
		for _, o := range desc.Outputs {
			out.Outputs[o.Key] = o.Value
		}
	}

	return j.encode(out)
}

// PrintChangeSet prints a change-set description as JSON.
func (j *JSONPrinter) PrintChangeSet(desc model.ChangeSetDescription) error {
	out := changeSetOutput{
		ID:           desc.ID,
		Name:         desc.Name,
		StackName:    desc.StackName,
		Status:       string(desc.Status),
		StatusReason: desc.StatusReason,
		Changes:      []changeOutput{},
	}
	for _, c := range desc.Changes {
		out.Changes = append(out.Changes, changeOutput{
			Action:            c.Action,
			LogicalResourceID: c.LogicalResourceID,
			ResourceType:      c.ResourceType,
			Replacement:       c.Replacement,
		})
	}

	return j.encode(out)
}

// PrintOperations prints operation history records as JSON.
func (j *JSONPrinter) PrintOperations(ops []model.Operation) error {
	out := make([]operationOutput, 0, len(ops))
	for _, op := range ops {
		out = append(out, operationOutput{
			ID:         op.ID,
			Kind:       string(op.Kind),
			StackName:  op.StackName,
			StackID:    op.StackID,
			BaseName:   op.BaseName,
			Result:     string(op.Result),
			Status:     op.Status,
			Error:      op.Error,
			StartedAt:  op.StartedAt,
			FinishedAt: op.FinishedAt,
		})
	}

	return j.encode(out)
}

// PrintMessage prints a plain message as JSON.
func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.encode(map[string]string{"message": msg})
}

func (j *JSONPrinter) encode(v any) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
