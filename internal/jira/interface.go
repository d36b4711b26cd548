package jira

import (
	"context"

	jiramodel "github.com/ctreminiom/go-atlassian/v2/pkg/infra/models"

	"github.com/tuannvm/formrelay/internal/models"
)

// IssueCreator defines the operations a Jira client should implement
type IssueCreator interface {
	CreateIssue(ctx context.Context, report models.Report) (*jiramodel.IssueResponseScheme, error)
}

var _ IssueCreator = (*Client)(nil)
