package jira

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	jiramodel "github.com/ctreminiom/go-atlassian/v2/pkg/infra/models"

	"github.com/tuannvm/formrelay/internal/models"
)

const (
	// fallbackSummary is used when the report has no first answer value
	fallbackSummary = "New Request"

	// maxSummaryLength is the Jira limit for the summary field
	maxSummaryLength = 255
)

var urlValuePattern = regexp.MustCompile(`^https?://\S+$`)

// BuildIssue builds the create-issue payload for a report
func BuildIssue(projectKey, issueType string, report models.Report) *jiramodel.IssueScheme {
	return &jiramodel.IssueScheme{
		Fields: &jiramodel.IssueFieldsScheme{
			Project:     &jiramodel.ProjectScheme{Key: projectKey},
			IssueType:   &jiramodel.IssueTypeScheme{Name: issueType},
			Summary:     Summary(report),
			Description: Description(report.Answers),
		},
	}
}

// Summary returns "<title>: <first answer value>", falling back to
// "New Request" for the value. Newlines are flattened and the result is
// truncated to the Jira summary limit.
func Summary(report models.Report) string {
	first := ""
	if len(report.Answers) > 0 {
		first = strings.TrimSpace(report.Answers[0].Value)
	}
	if first == "" {
		first = fallbackSummary
	}

	summary := strings.Join(strings.Fields(fmt.Sprintf("%s: %s", report.Title, first)), " ")
	if utf8.RuneCountInString(summary) > maxSummaryLength {
		summary = string([]rune(summary)[:maxSummaryLength])
	}
	return summary
}

// Description renders the answers as an Atlassian Document Format document,
// one paragraph per answer. URL values become emphasized links.
func Description(answers []models.AnswerPair) *jiramodel.CommentNodeScheme {
	doc := &jiramodel.CommentNodeScheme{Version: 1, Type: "doc"}
	if len(answers) == 0 {
		doc.Content = append(doc.Content, &jiramodel.CommentNodeScheme{
			Type:    "paragraph",
			Content: []*jiramodel.CommentNodeScheme{textNode("No answers submitted.")},
		})
		return doc
	}

	for _, answer := range answers {
		doc.Content = append(doc.Content, answerParagraph(answer))
	}
	return doc
}

func answerParagraph(answer models.AnswerPair) *jiramodel.CommentNodeScheme {
	label := textNode(answer.Label + ": ")
	label.Marks = []*jiramodel.MarkScheme{{Type: "strong"}}

	paragraph := &jiramodel.CommentNodeScheme{
		Type:    "paragraph",
		Content: []*jiramodel.CommentNodeScheme{label},
	}

	value := strings.TrimSpace(answer.Value)
	switch {
	case value == "":
		// ADF rejects empty text nodes
	case urlValuePattern.MatchString(value):
		link := textNode(value)
		link.Marks = []*jiramodel.MarkScheme{
			{Type: "link", Attrs: map[string]interface{}{"href": value}},
			{Type: "em"},
		}
		paragraph.Content = append(paragraph.Content, link)
	default:
		paragraph.Content = append(paragraph.Content, textNode(value))
	}
	return paragraph
}

func textNode(text string) *jiramodel.CommentNodeScheme {
	return &jiramodel.CommentNodeScheme{Type: "text", Text: text}
}
