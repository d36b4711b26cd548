package jira

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	v3 "github.com/ctreminiom/go-atlassian/v2/jira/v3"
	jiramodel "github.com/ctreminiom/go-atlassian/v2/pkg/infra/models"

	"github.com/tuannvm/formrelay/internal/config"
	"github.com/tuannvm/formrelay/internal/logging"
	"github.com/tuannvm/formrelay/internal/models"
)

// ErrNotConfigured is returned when any of the four Jira settings is missing
var ErrNotConfigured = errors.New("jira site, email, API token and project key are required")

// Client creates Jira issues from form reports
type Client struct {
	config *config.Config
	api    *v3.Client
}

// NewClient creates a new Jira client.
// It fails with ErrNotConfigured unless site, email, token and project key are all set.
func NewClient(cfg *config.Config) (*Client, error) {
	if !cfg.JiraConfigured() {
		return nil, ErrNotConfigured
	}

	api, err := v3.New(&http.Client{Timeout: time.Second * 30}, cfg.JiraSite)
	if err != nil {
		return nil, fmt.Errorf("failed to create Jira client: %w", err)
	}
	api.Auth.SetBasicAuth(cfg.JiraEmail, cfg.JiraAPIToken)

	return &Client{config: cfg, api: api}, nil
}

// Name identifies the sink in logs
func (c *Client) Name() string {
	return "jira"
}

// CreateIssue creates one issue describing the report
func (c *Client) CreateIssue(ctx context.Context, report models.Report) (*jiramodel.IssueResponseScheme, error) {
	payload := BuildIssue(c.config.JiraProjectKey, c.config.JiraIssueType, report)

	issue, _, err := c.api.Issue.Create(ctx, payload, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}
	return issue, nil
}

// Send creates the issue and logs its key
func (c *Client) Send(ctx context.Context, report models.Report) error {
	issue, err := c.CreateIssue(ctx, report)
	if err != nil {
		return err
	}
	logging.Infof("Jira issue created: %s", issue.Key)
	return nil
}
