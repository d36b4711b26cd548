package agents

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/tuannvm/formrelay/internal/config"
	"github.com/tuannvm/formrelay/internal/formschema"
	"github.com/tuannvm/formrelay/internal/models"
	"github.com/tuannvm/formrelay/internal/relay"
)

type recordingDispatcher struct {
	mu      sync.Mutex
	reports []models.Report
}

func (d *recordingDispatcher) Dispatch(_ context.Context, _ string, report models.Report) []relay.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reports = append(d.reports, report)
	return []relay.Result{{Sink: "slack"}, {Sink: "jira", Skipped: true}}
}

type fakeSchema struct {
	labels formschema.Labels
	err    error
	panics bool
	calls  int
}

func (s *fakeSchema) Labels(_ context.Context, formID string) (formschema.Labels, error) {
	s.calls++
	if s.panics {
		panic("schema exploded")
	}
	return s.labels, s.err
}

func newTestAgent(schema formschema.Source) (*ReportAgent, *recordingDispatcher) {
	cfg := &config.Config{
		ReportPath:   config.DefaultReportPath,
		MaxBodyBytes: 1 << 20,
		FormHost:     "formhost.com",
	}
	dispatcher := &recordingDispatcher{}
	return NewReportAgent(cfg, dispatcher, schema, zap.NewNop().Sugar()), dispatcher
}

func postForm(t *testing.T, h http.Handler, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/report", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleWebhookContactForm(t *testing.T) {
	agent, dispatcher := newTestAgent(nil)

	rec := postForm(t, agent.Router(), url.Values{
		"formTitle": {"Contact Form"},
		"pretty":    {"Name: Jane Doe, Email: jane@x.com, Files: https://www.formhost.com/uploads/u1/photo.jpg"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"ok": true,
		"formTitle": "Contact Form",
		"pretty": [
			{"label": "Name", "value": "Jane Doe"},
			{"label": "Email", "value": "jane@x.com"},
			{"label": "Files", "value": "https://www.formhost.com/uploads/u1/photo.jpg"},
			{"label": "Attachment 1", "value": "https://files.formhost.com/jufs/u1/photo.jpg"}
		]
	}`, rec.Body.String())

	require.Len(t, dispatcher.reports, 1)
	assert.Equal(t, "Contact Form", dispatcher.reports[0].Title)
}

func TestHandleWebhookEmptySubmission(t *testing.T) {
	agent, dispatcher := newTestAgent(nil)

	rec := postForm(t, agent.Router(), url.Values{})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok": true, "formTitle": "", "pretty": []}`, rec.Body.String())
	assert.Len(t, dispatcher.reports, 1)
}

func TestHandleWebhookUnparseableBody(t *testing.T) {
	agent, dispatcher := newTestAgent(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/report", strings.NewReader("hello"))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	agent.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"ok": false, "error": "Could not parse form data or send to Slack"}`, rec.Body.String())
	assert.Empty(t, dispatcher.reports)
}

func TestHandleWebhookBodyTooLarge(t *testing.T) {
	agent, dispatcher := newTestAgent(nil)
	agent.cfg.MaxBodyBytes = 16

	rec := postForm(t, agent.Router(), url.Values{"pretty": {strings.Repeat("x", 64)}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, dispatcher.reports)
}

func TestHandleWebhookRecoversPanic(t *testing.T) {
	agent, dispatcher := newTestAgent(&fakeSchema{panics: true})

	rec := postForm(t, agent.Router(), url.Values{
		"formID":     {"123"},
		"rawRequest": {`{"q1_name":"Ann"}`},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Could not parse form data or send to Slack", gjson.Get(rec.Body.String(), "error").String())
	assert.Empty(t, dispatcher.reports)
}

func TestHandleWebhookRawAnswersWithLabels(t *testing.T) {
	schema := &fakeSchema{labels: formschema.Labels{"q1_name": "Full Name", "q2": "Email"}}
	agent, _ := newTestAgent(schema)

	rec := postForm(t, agent.Router(), url.Values{
		"formTitle":  {"Signup"},
		"formID":     {"123"},
		"rawRequest": {`{"slug":"x","q1_name":"Ann","q2_email":"ann@x.com","q3_empty":""}`},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, schema.calls)
	assert.JSONEq(t, `[
		{"label": "Full Name", "value": "Ann"},
		{"label": "Email", "value": "ann@x.com"}
	]`, gjson.Get(rec.Body.String(), "pretty").Raw)
}

func TestBuildReportSchemaFailureKeepsRawKeys(t *testing.T) {
	schema := &fakeSchema{err: errors.New("unauthorized")}
	agent, _ := newTestAgent(schema)

	sub := &models.Submission{}
	sub.AddText("formID", "123")
	sub.AddText("rawRequest", `{"q1_name":"Ann"}`)

	rep, err := agent.BuildReport(t.Context(), "req-1", sub)
	require.NoError(t, err)
	assert.Equal(t, []models.AnswerPair{{Label: "q1_name", Value: "Ann"}}, rep.Answers)
}

func TestBuildReportPrettySkipsSchema(t *testing.T) {
	schema := &fakeSchema{}
	agent, _ := newTestAgent(schema)

	sub := &models.Submission{}
	sub.AddText("formID", "123")
	sub.AddText("pretty", "Name:Ann")
	sub.AddText("rawRequest", `{"q1_name":"Ann"}`)

	rep, err := agent.BuildReport(t.Context(), "req-1", sub)
	require.NoError(t, err)
	assert.Equal(t, 0, schema.calls)
	assert.Equal(t, []models.AnswerPair{{Label: "Name", Value: "Ann"}}, rep.Answers)
}

func TestRouterHealthAndMethods(t *testing.T) {
	agent, _ := newTestAgent(nil)
	h := agent.Router()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/report", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeliveries(t *testing.T) {
	got := deliveries([]relay.Result{
		{Sink: "slack"},
		{Sink: "jira", Err: errors.New("boom")},
		{Sink: "other", Skipped: true},
	})
	assert.Equal(t, map[string]string{"slack": "ok", "jira": "boom", "other": "skipped"}, got)
}
