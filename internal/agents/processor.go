package agents

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"trpc.group/trpc-go/trpc-a2a-go/protocol"
	"trpc.group/trpc-go/trpc-a2a-go/server"
	"trpc.group/trpc-go/trpc-a2a-go/taskmanager"

	"github.com/tuannvm/formrelay/internal/common"
	"github.com/tuannvm/formrelay/internal/relay"
)

// ReportSkill describes the A2A skill served by ReportAgent
func ReportSkill() server.AgentSkill {
	return server.AgentSkill{
		ID:          "form-report",
		Name:        "Form report",
		Description: common.StringPtr("Turns form submission fields into a question/answer report and relays it to Slack and Jira"),
		InputModes:  []string{"text", "data"},
		OutputModes: []string{"text", "data"},
	}
}

// Process implements the TaskProcessor interface. The message carries the
// submission fields as a DataPart or a JSON TextPart; the task completes
// with a "report" artifact.
func (a *ReportAgent) Process(ctx context.Context, taskID string, msg protocol.Message, handle taskmanager.TaskHandle) error {
	a.logger.Infof("[%s] Processing report task", taskID)
	if err := handle.UpdateStatus(protocol.TaskState("working"), nil); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	sub, err := common.ExtractSubmission(msg)
	if err != nil {
		return a.fail(taskID, handle, fmt.Errorf("failed to extract submission: %w", err))
	}
	rep, err := a.BuildReport(ctx, taskID, sub)
	if err != nil {
		return a.fail(taskID, handle, err)
	}

	results := a.dispatcher.Dispatch(ctx, taskID, rep)

	dataPart := protocol.DataPart{
		Type: "data",
		Data: rep,
	}
	artifact := protocol.Artifact{
		Name:        common.StringPtr("report"),
		Description: common.StringPtr("Form report"),
		Parts:       []protocol.Part{&dataPart},
		Metadata: map[string]interface{}{
			"deliveries": deliveries(results),
		},
	}
	if err := handle.AddArtifact(artifact); err != nil {
		a.logger.Errorf("[%s] Failed to add artifact: %v", taskID, err)
	}

	textPart := protocol.NewTextPart(fmt.Sprintf("Report %q built with %d answers", rep.Title, len(rep.Answers)))
	responseMsg := &protocol.Message{
		Parts: []protocol.Part{textPart},
	}
	if err := handle.UpdateStatus(protocol.TaskState("completed"), responseMsg); err != nil {
		a.logger.Errorf("[%s] Failed to update task status: %v", taskID, err)
		return err
	}

	a.logger.Infof("[%s] Task completed", taskID)
	return nil
}

func (a *ReportAgent) fail(taskID string, handle taskmanager.TaskHandle, err error) error {
	a.logger.Errorf("[%s] %v", taskID, err)
	msg := &protocol.Message{
		Parts: []protocol.Part{protocol.NewTextPart(err.Error())},
	}
	if updateErr := handle.UpdateStatus(protocol.TaskState("failed"), msg); updateErr != nil {
		a.logger.Errorf("[%s] Failed to update task status: %v", taskID, updateErr)
	}
	return err
}

// deliveries summarizes sink results as sink name to "ok", "skipped" or the error
func deliveries(results []relay.Result) map[string]string {
	return lo.SliceToMap(results, func(r relay.Result) (string, string) {
		switch {
		case r.Skipped:
			return r.Sink, "skipped"
		case r.Err != nil:
			return r.Sink, r.Err.Error()
		default:
			return r.Sink, "ok"
		}
	})
}
