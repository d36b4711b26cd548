package chat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/slack-go/slack"

	"github.com/tuannvm/formrelay/internal/models"
)

// ErrNotConfigured is returned when no incoming webhook URL is set
var ErrNotConfigured = errors.New("slack webhook URL is required")

// Notifier posts reports to a Slack incoming webhook
type Notifier struct {
	webhookURL string
	httpClient *http.Client
}

// NewNotifier creates a notifier for webhookURL
func NewNotifier(webhookURL string) (*Notifier, error) {
	if webhookURL == "" {
		return nil, ErrNotConfigured
	}
	return &Notifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: time.Second * 30},
	}, nil
}

// Name identifies the sink in logs
func (n *Notifier) Name() string {
	return "slack"
}

// Send posts one message for the report
func (n *Notifier) Send(ctx context.Context, report models.Report) error {
	msg := &slack.WebhookMessage{Text: FormatMessage(report)}
	if err := slack.PostWebhookCustomHTTPContext(ctx, n.webhookURL, n.httpClient, msg); err != nil {
		return fmt.Errorf("failed to post Slack webhook: %w", err)
	}
	return nil
}

// FormatMessage renders the report as Slack text: the bold title, then one
// "• <label>: <value>" line per answer. The title line is left out when the
// report has no title.
func FormatMessage(report models.Report) string {
	lines := make([]string, 0, len(report.Answers)+1)
	if report.Title != "" {
		lines = append(lines, fmt.Sprintf("*%s*", report.Title))
	}
	for _, answer := range report.Answers {
		lines = append(lines, fmt.Sprintf("• %s: %s", answer.Label, answer.Value))
	}
	return strings.Join(lines, "\n")
}
