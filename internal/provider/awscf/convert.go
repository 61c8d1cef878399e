package awscf

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"

	"github.com/stackctl/stackctl/internal/model"
	"github.com/stackctl/stackctl/internal/provider"
)

func createStackInput(req provider.CreateStackRequest) *cloudformation.CreateStackInput {
	in := &cloudformation.CreateStackInput{
		StackName:    aws.String(req.StackName),
		Capabilities: capabilities(req.Capabilities),
		Parameters:   parameters(req.Parameters),
		Tags:         tags(req.Tags),
	}
	if req.OnFailure != "" {
		in.OnFailure = types.OnFailure(req.OnFailure)
	}
	if req.TimeoutMinutes > 0 {
		in.TimeoutInMinutes = aws.Int32(int32(req.TimeoutMinutes))
	}
	setTemplate(&in.TemplateBody, &in.TemplateURL, req.Template)

	return in
}

func updateStackInput(req provider.UpdateStackRequest) *cloudformation.UpdateStackInput {
	in := &cloudformation.UpdateStackInput{
		StackName:    aws.String(req.StackName),
		Capabilities: capabilities(req.Capabilities),
		Parameters:   parameters(req.Parameters),
		Tags:         tags(req.Tags),
	}
	setTemplate(&in.TemplateBody, &in.TemplateURL, req.Template)

	return in
}

func createChangeSetInput(req provider.CreateChangeSetRequest) *cloudformation.CreateChangeSetInput {
	in := &cloudformation.CreateChangeSetInput{
		StackName:     aws.String(req.StackName),
		ChangeSetName: aws.String(req.ChangeSetName),
		ChangeSetType: types.ChangeSetTypeUpdate,
		Capabilities:  capabilities(req.Capabilities),
		Parameters:    parameters(req.Parameters),
		Tags:          tags(req.Tags),
	}
	setTemplate(&in.TemplateBody, &in.TemplateURL, req.Template)

	return in
}

func setTemplate(body, url **string, template model.TemplateRef) {
	if template.URL != "" {
		*url = aws.String(template.URL)
		return
	}
	*body = aws.String(template.Body)
}

func capabilities(cc []string) []types.Capability {
	if len(cc) == 0 {
		return nil
	}
	out := make([]types.Capability, 0, len(cc))
	for _, c := range cc {
		out = append(out, types.Capability(c))
	}
	return out
}

func parameters(pp map[string]string) []types.Parameter {
	if len(pp) == 0 {
		return nil
	}
	out := make([]types.Parameter, 0, len(pp))
	for k, v := range pp {
		out = append(out, types.Parameter{
			ParameterKey:   aws.String(k),
			ParameterValue: aws.String(v),
		})
	}
	return out
}

func tags(tt []model.Tag) []types.Tag {
	if len(tt) == 0 {
		return nil
	}
	out := make([]types.Tag, 0, len(tt))
	for _, t := range tt {
		out = append(out, types.Tag{Key: aws.String(t.Key), Value: aws.String(t.Value)})
	}
	return out
}

func stackStatusFilter(ss []model.StackStatus) []types.StackStatus {
	if len(ss) == 0 {
		return nil
	}
	out := make([]types.StackStatus, 0, len(ss))
	for _, s := range ss {
		out = append(out, types.StackStatus(s))
	}
	return out
}

func stackDescription(s types.Stack) model.StackDescription {
	desc := model.StackDescription{
		ID:           aws.ToString(s.StackId),
		Name:         aws.ToString(s.StackName),
		Status:       model.StackStatus(s.StackStatus),
		StatusReason: aws.ToString(s.StackStatusReason),
	}
	for _, t := range s.Tags {
		desc.Tags = append(desc.Tags, model.Tag{Key: aws.ToString(t.Key), Value: aws.ToString(t.Value)})
	}
	for _, o := range s.Outputs {
		desc.Outputs = append(desc.Outputs, model.Output{
			Key:         aws.ToString(o.OutputKey),
			Value:       aws.ToString(o.OutputValue),
			Description: aws.ToString(o.Description),
		})
	}
	return desc
}

func stackSummary(s types.StackSummary) model.StackSummary {
	return model.StackSummary{
		ID:     aws.ToString(s.StackId),
		Name:   aws.ToString(s.StackName),
		Status: model.StackStatus(s.StackStatus),
	}
}

func stackEvent(ev types.StackEvent) model.StackEvent {
	out := model.StackEvent{
		ID:                   aws.ToString(ev.EventId),
		StackID:              aws.ToString(ev.StackId),
		StackName:            aws.ToString(ev.StackName),
		LogicalResourceID:    aws.ToString(ev.LogicalResourceId),
		PhysicalResourceID:   aws.ToString(ev.PhysicalResourceId),
		ResourceType:         aws.ToString(ev.ResourceType),
		ResourceStatus:       string(ev.ResourceStatus),
		ResourceStatusReason: aws.ToString(ev.ResourceStatusReason),
	}
	if ev.Timestamp != nil {
		out.Timestamp = *ev.Timestamp
	} else {
		out.Timestamp = time.Time{}
	}
	return out
}

func changeSetDescription(out *cloudformation.DescribeChangeSetOutput) model.ChangeSetDescription {
	return model.ChangeSetDescription{
		ID:           aws.ToString(out.ChangeSetId),
		Name:         aws.ToString(out.ChangeSetName),
		StackID:      aws.ToString(out.StackId),
		StackName:    aws.ToString(out.StackName),
		Status:       model.ChangeSetStatus(out.Status),
		StatusReason: aws.ToString(out.StatusReason),
		Changes:      changes(out.Changes),
	}
}

func changes(cc []types.Change) []model.Change {
	out := make([]model.Change, 0, len(cc))
	for _, c := range cc {
		if c.ResourceChange == nil {
			continue
		}
		out = append(out, model.Change{
			Action:             string(c.ResourceChange.Action),
			LogicalResourceID:  aws.ToString(c.ResourceChange.LogicalResourceId),
			PhysicalResourceID: aws.ToString(c.ResourceChange.PhysicalResourceId),
			ResourceType:       aws.ToString(c.ResourceChange.ResourceType),
			Replacement:        string(c.ResourceChange.Replacement),
		})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
