package common

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"trpc.group/trpc-go/trpc-a2a-go/protocol"

	"github.com/tuannvm/formrelay/internal/models"
)

// ErrNoSubmission is returned when no message part carries submission fields
var ErrNoSubmission = errors.New("could not extract submission fields from message")

// SubmissionFromJSON converts a JSON object into an ordered submission.
// String members keep their text, null members become empty and every
// other member keeps its raw JSON so nested answers stay walkable.
func SubmissionFromJSON(raw []byte) (*models.Submission, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("submission is not valid JSON")
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return nil, fmt.Errorf("submission must be a JSON object, got %s", doc.Type)
	}

	sub := &models.Submission{}
	doc.ForEach(func(key, value gjson.Result) bool {
		switch value.Type {
		case gjson.String:
			sub.AddText(key.String(), value.String())
		case gjson.Null:
			sub.AddText(key.String(), "")
		default:
			sub.AddText(key.String(), value.Raw)
		}
		return true
	})
	return sub, nil
}

// ExtractSubmission reads submission fields from the first DataPart or
// JSON TextPart of message
func ExtractSubmission(message protocol.Message) (*models.Submission, error) {
	if len(message.Parts) == 0 {
		return nil, fmt.Errorf("message has no parts")
	}

	for _, part := range message.Parts {
		if raw, ok := partJSON(part); ok {
			sub, err := SubmissionFromJSON(raw)
			if err == nil {
				return sub, nil
			}
		}
	}
	return nil, ErrNoSubmission
}

// ReportFromMessage decodes the report carried by a DataPart of message
func ReportFromMessage(message protocol.Message) (models.Report, error) {
	var rep models.Report
	for _, part := range message.Parts {
		dp := dataPart(part)
		if dp == nil || dp.Data == nil {
			continue
		}
		raw, err := json.Marshal(dp.Data)
		if err != nil {
			continue
		}
		if err := json.Unmarshal(raw, &rep); err == nil && gjson.GetBytes(raw, "pretty").Exists() {
			return rep, nil
		}
	}
	return rep, fmt.Errorf("message carries no report")
}

func partJSON(part protocol.Part) ([]byte, bool) {
	if dp := dataPart(part); dp != nil {
		raw, err := json.Marshal(dp.Data)
		if err != nil {
			return nil, false
		}
		return raw, true
	}
	switch v := part.(type) {
	case *protocol.TextPart:
		if v != nil {
			return []byte(v.Text), true
		}
	case protocol.TextPart:
		return []byte(v.Text), true
	}
	return nil, false
}

func dataPart(part protocol.Part) *protocol.DataPart {
	switch v := part.(type) {
	case protocol.DataPart:
		return &v
	case *protocol.DataPart:
		return v
	}
	return nil
}
