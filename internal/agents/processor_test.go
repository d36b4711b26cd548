package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"trpc.group/trpc-go/trpc-a2a-go/protocol"

	"github.com/tuannvm/formrelay/internal/common"
)

type recordingHandle struct {
	states    []protocol.TaskState
	messages  []*protocol.Message
	artifacts []protocol.Artifact
}

func (h *recordingHandle) UpdateStatus(state protocol.TaskState, msg *protocol.Message) error {
	h.states = append(h.states, state)
	h.messages = append(h.messages, msg)
	return nil
}

func (h *recordingHandle) AddArtifact(artifact protocol.Artifact) error {
	h.artifacts = append(h.artifacts, artifact)
	return nil
}

func (h *recordingHandle) IsStreamingRequest() bool {
	return false
}

func TestProcessBuildsReportArtifact(t *testing.T) {
	agent, dispatcher := newTestAgent(nil)
	handle := &recordingHandle{}
	msg := protocol.Message{
		Parts: []protocol.Part{protocol.NewTextPart(`{"formTitle":"Contact Form","pretty":"Name: Jane, Files: https://www.formhost.com/uploads/u1/photo.jpg"}`)},
	}

	require.NoError(t, agent.Process(t.Context(), "task-1", msg, handle))

	assert.Equal(t, []protocol.TaskState{"working", "completed"}, handle.states)
	require.Len(t, dispatcher.reports, 1)

	require.Len(t, handle.artifacts, 1)
	artifact := handle.artifacts[0]
	require.NotNil(t, artifact.Name)
	assert.Equal(t, "report", *artifact.Name)
	assert.Equal(t, map[string]string{"slack": "ok", "jira": "skipped"}, artifact.Metadata["deliveries"])

	rep, err := common.ReportFromMessage(protocol.Message{Parts: artifact.Parts})
	require.NoError(t, err)
	assert.Equal(t, dispatcher.reports[0], rep)
	assert.Equal(t, "Contact Form", rep.Title)
	require.Len(t, rep.Answers, 3)
	assert.Equal(t, "https://files.formhost.com/jufs/u1/photo.jpg", rep.Answers[2].Value)
}

func TestProcessFailsOnUnreadableMessage(t *testing.T) {
	agent, dispatcher := newTestAgent(nil)
	handle := &recordingHandle{}
	msg := protocol.Message{Parts: []protocol.Part{protocol.NewTextPart("not a submission")}}

	err := agent.Process(t.Context(), "task-2", msg, handle)

	assert.ErrorIs(t, err, common.ErrNoSubmission)
	assert.Equal(t, []protocol.TaskState{"working", "failed"}, handle.states)
	require.NotNil(t, handle.messages[1])
	assert.Empty(t, handle.artifacts)
	assert.Empty(t, dispatcher.reports)
}

func TestReportSkill(t *testing.T) {
	skill := ReportSkill()

	assert.Equal(t, "form-report", skill.ID)
	assert.Equal(t, "Form report", skill.Name)
	require.NotNil(t, skill.Description)
	assert.Contains(t, *skill.Description, "Slack and Jira")
	assert.Equal(t, []string{"text", "data"}, skill.InputModes)
	assert.Equal(t, []string{"text", "data"}, skill.OutputModes)
}
