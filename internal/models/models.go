package models

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// AnswerPair is one question/answer line of a report, or one attachment entry.
// Labels are not unique: a report may carry several "Attachment N" pairs.
type AnswerPair struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Report is the normalized result of a single form submission.
// It is built once per request and handed to the chat and ticket sinks.
type Report struct {
	Title   string       `json:"formTitle"`
	Answers []AnswerPair `json:"pretty"`
}

// FieldValue is a submitted form field that can be read as text.
// A field is either plain text or a readable part such as an uploaded file.
type FieldValue interface {
	Text(ctx context.Context) (string, error)
}

// TextValue is a plain text form field
type TextValue string

// Text returns the field contents
func (v TextValue) Text(ctx context.Context) (string, error) {
	return string(v), nil
}

// ReadableValue is a field backed by a reader, for example a multipart file part.
// The reader is consumed on the first call to Text.
type ReadableValue struct {
	Reader io.Reader
}

// Text reads the whole underlying reader
func (v ReadableValue) Text(ctx context.Context) (string, error) {
	if v.Reader == nil {
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := io.ReadAll(v.Reader)
	if err != nil {
		return "", fmt.Errorf("failed to read field: %w", err)
	}
	return string(data), nil
}

// SubmissionField is one named field of a submission, in arrival order
type SubmissionField struct {
	Name  string
	Value FieldValue
}

// Submission is the ordered set of fields posted by the form service
type Submission struct {
	Fields []SubmissionField
}

// Add appends a field to the submission
func (s *Submission) Add(name string, value FieldValue) {
	s.Fields = append(s.Fields, SubmissionField{Name: name, Value: value})
}

// AddText appends a plain text field to the submission
func (s *Submission) AddText(name, value string) {
	s.Add(name, TextValue(value))
}

// Resolve reads every field as text, preserving field order
func (s *Submission) Resolve(ctx context.Context) (Fields, error) {
	fields := make(Fields, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.Value == nil {
			fields = append(fields, Field{Name: f.Name})
			continue
		}
		text, err := f.Value.Text(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve field %q: %w", f.Name, err)
		}
		fields = append(fields, Field{Name: f.Name, Value: text})
	}
	return fields, nil
}

// Field is a resolved submission field
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Fields is a resolved submission in arrival order
type Fields []Field

// Get returns the first field matching one of names.
// Exact names are tried in order first, then a case-insensitive match,
// so both formTitle and FormTitle resolve.
func (f Fields) Get(names ...string) (string, bool) {
	for _, name := range names {
		for _, field := range f {
			if field.Name == name {
				return field.Value, true
			}
		}
	}
	for _, name := range names {
		for _, field := range f {
			if strings.EqualFold(field.Name, name) {
				return field.Value, true
			}
		}
	}
	return "", false
}
