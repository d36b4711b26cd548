package agents

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/tuannvm/formrelay/internal/common"
	"github.com/tuannvm/formrelay/internal/models"
)

// ErrUnsupportedContentType is returned for bodies that are not form data or JSON
var ErrUnsupportedContentType = errors.New("unsupported content type")

// DecodeSubmission reads a webhook body into an ordered submission.
// multipart/form-data, application/x-www-form-urlencoded and JSON objects
// are accepted. Field order follows the body.
func DecodeSubmission(r *http.Request) (*models.Submission, error) {
	contentType := r.Header.Get("Content-Type")
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedContentType, contentType)
	}

	switch {
	case mediaType == "multipart/form-data":
		boundary := params["boundary"]
		if boundary == "" {
			return nil, fmt.Errorf("multipart body has no boundary")
		}
		return decodeMultipart(r.Body, boundary)
	case mediaType == "application/x-www-form-urlencoded":
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		return decodeURLEncoded(string(body))
	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		return common.SubmissionFromJSON(body)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedContentType, mediaType)
	}
}

// decodeMultipart reads every part in order. File parts are buffered and
// kept as readable values; the rest become text.
func decodeMultipart(body io.Reader, boundary string) (*models.Submission, error) {
	mr := multipart.NewReader(body, boundary)
	sub := &models.Submission{}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return sub, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read multipart body: %w", err)
		}

		name := part.FormName()
		data, err := io.ReadAll(part)
		_ = part.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read part %q: %w", name, err)
		}
		if name == "" {
			continue
		}

		if part.FileName() != "" {
			sub.Add(name, models.ReadableValue{Reader: bytes.NewReader(data)})
		} else {
			sub.AddText(name, string(data))
		}
	}
}

// decodeURLEncoded keeps pair order, which url.ParseQuery would lose
func decodeURLEncoded(body string) (*models.Submission, error) {
	sub := &models.Submission{}
	for _, pair := range strings.Split(body, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, fmt.Errorf("failed to decode field name %q: %w", rawKey, err)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, fmt.Errorf("failed to decode field %q: %w", key, err)
		}
		if key == "" {
			continue
		}
		sub.AddText(key, value)
	}
	return sub, nil
}
