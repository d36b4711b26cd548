package agents

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tuannvm/formrelay/internal/common"
	"github.com/tuannvm/formrelay/internal/config"
	"github.com/tuannvm/formrelay/internal/formschema"
	"github.com/tuannvm/formrelay/internal/models"
	"github.com/tuannvm/formrelay/internal/relay"
	"github.com/tuannvm/formrelay/internal/report"
)

// FailureMessage is the error text of every rejected webhook request
const FailureMessage = "Could not parse form data or send to Slack"

// Dispatcher delivers a finished report to the configured sinks
type Dispatcher interface {
	Dispatch(ctx context.Context, requestID string, report models.Report) []relay.Result
}

// ReportAgent receives form submissions over HTTP or A2A, turns them into
// reports and relays them to chat and the issue tracker
type ReportAgent struct {
	cfg        *config.Config
	builder    *report.Builder
	schema     formschema.Source
	dispatcher Dispatcher
	logger     *zap.SugaredLogger
}

// NewReportAgent creates a new ReportAgent. schema may be nil, in which case
// raw answers keep their raw keys as labels.
func NewReportAgent(cfg *config.Config, dispatcher Dispatcher, schema formschema.Source, logger *zap.SugaredLogger) *ReportAgent {
	return &ReportAgent{
		cfg:        cfg,
		builder:    report.NewBuilder(cfg.FormHost),
		schema:     schema,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// BuildReport resolves a submission and assembles its report. Question
// labels are fetched only for raw-answer submissions that name their form.
func (a *ReportAgent) BuildReport(ctx context.Context, requestID string, sub *models.Submission) (models.Report, error) {
	fields, err := sub.Resolve(ctx)
	if err != nil {
		return models.Report{}, fmt.Errorf("failed to resolve submission: %w", err)
	}
	return a.builder.Build(fields, a.labels(ctx, requestID, fields)), nil
}

func (a *ReportAgent) labels(ctx context.Context, requestID string, fields models.Fields) report.LabelLookup {
	if a.schema == nil {
		return nil
	}
	if _, ok := fields.Get(report.FieldPretty, "Pretty"); ok {
		return nil
	}
	if _, ok := fields.Get(report.FieldRawRequest); !ok {
		return nil
	}
	formID, ok := fields.Get(report.FieldFormID)
	if !ok || formID == "" {
		return nil
	}

	labels, err := a.schema.Labels(ctx, formID)
	if err != nil {
		a.logger.Warnf("[%s] Failed to fetch question labels for form %s, using raw keys: %v", requestID, formID, err)
		return nil
	}
	return labels
}

type reportResponse struct {
	OK bool `json:"ok"`
	models.Report
}

type failureResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// HandleWebhook processes a form service webhook. It answers 200 with the
// report once both sinks were attempted, and 400 when the body cannot be
// read or parsed. Sink failures never change the response.
func (a *ReportAgent) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := uuid.NewString()
	a.logger.Infof("[%s] Received form submission from %s", requestID, r.RemoteAddr)

	defer func() {
		if rec := recover(); rec != nil {
			a.logger.Errorf("[%s] Panic while processing submission: %v", requestID, rec)
			common.WriteJSON(w, http.StatusBadRequest, failureResponse{Error: FailureMessage})
		}
	}()

	if a.cfg.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, a.cfg.MaxBodyBytes)
	}

	sub, err := DecodeSubmission(r)
	if err != nil {
		a.logger.Errorf("[%s] Failed to parse form data: %v", requestID, err)
		common.WriteJSON(w, http.StatusBadRequest, failureResponse{Error: FailureMessage})
		return
	}

	rep, err := a.BuildReport(r.Context(), requestID, sub)
	if err != nil {
		a.logger.Errorf("[%s] Failed to build report: %v", requestID, err)
		common.WriteJSON(w, http.StatusBadRequest, failureResponse{Error: FailureMessage})
		return
	}
	a.logger.Infof("[%s] Parsed form %q with %d answers", requestID, rep.Title, len(rep.Answers))

	a.dispatcher.Dispatch(r.Context(), requestID, rep)

	common.WriteJSON(w, http.StatusOK, reportResponse{OK: true, Report: rep})
	a.logger.Infof("[%s] Submission processed in %v", requestID, time.Since(start))
}
