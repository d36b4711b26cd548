package formschema

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// ErrNoQuestions is returned when the schema response carries no questions
var ErrNoQuestions = errors.New("form schema has no questions")

var questionIDPattern = regexp.MustCompile(`^q\d+`)

// Labels maps raw answer keys to question labels. Keys are q<qid>_<name>,
// q<order>_<name> and q<qid>.
type Labels map[string]string

// Lookup resolves key directly, then by its q<id> prefix
func (l Labels) Lookup(key string) (string, bool) {
	if label, ok := l[key]; ok {
		return label, true
	}
	if id := questionIDPattern.FindString(key); id != "" {
		label, ok := l[id]
		return label, ok
	}
	return "", false
}

// Source fetches question labels for a form
type Source interface {
	Labels(ctx context.Context, formID string) (Labels, error)
}

// Client reads form question schemas from the form service API
type Client struct {
	http   *resty.Client
	apiKey string
}

// NewClient creates a schema client for baseURL, e.g. https://api.jotform.com
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(10*time.Second).
			SetHeader("Accept", "application/json"),
		apiKey: apiKey,
	}
}

// Labels fetches the questions of formID and builds its label map
func (c *Client) Labels(ctx context.Context, formID string) (Labels, error) {
	if formID == "" {
		return nil, fmt.Errorf("form ID is required")
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("formID", formID).
		SetQueryParam("apiKey", c.apiKey).
		Get("/form/{formID}/questions")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch form questions: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to fetch form questions: status %d, body: %s", resp.StatusCode(), resp.String())
	}

	return ParseQuestions(resp.Body())
}

// ParseQuestions builds labels from a questions response body
// ({"content": {"<qid>": {"qid", "name", "text", "order"}}}).
// The q<qid>_<name> key wins over a colliding q<order>_<name> key.
func ParseQuestions(body []byte) (Labels, error) {
	content := gjson.GetBytes(body, "content")
	if !content.IsObject() {
		return nil, ErrNoQuestions
	}

	labels := make(Labels)
	byOrder := make(Labels)
	content.ForEach(func(key, question gjson.Result) bool {
		qid := question.Get("qid").String()
		if qid == "" {
			qid = key.String()
		}
		text := strings.TrimSpace(question.Get("text").String())
		if text == "" {
			return true
		}
		name := question.Get("name").String()

		labels["q"+qid] = text
		if name != "" {
			labels[fmt.Sprintf("q%s_%s", qid, name)] = text
			if order := question.Get("order").String(); order != "" {
				byOrder[fmt.Sprintf("q%s_%s", order, name)] = text
			}
		}
		return true
	})
	for key, text := range byOrder {
		if _, ok := labels[key]; !ok {
			labels[key] = text
		}
	}

	if len(labels) == 0 {
		return nil, ErrNoQuestions
	}
	return labels, nil
}
