package report

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/tuannvm/formrelay/internal/models"
)

// Field names read from a submission. Lookups are case-insensitive.
const (
	FieldFormTitle  = "formTitle"
	FieldPretty     = "pretty"
	FieldRawRequest = "rawRequest"
	FieldFormID     = "formID"
)

// Builder assembles reports from resolved submission fields
type Builder struct {
	normalizer *Normalizer
	classifier *Classifier
}

// NewBuilder creates a builder for the given form host
func NewBuilder(formHost string) *Builder {
	return &Builder{
		normalizer: NewNormalizer(formHost),
		classifier: NewClassifier(formHost),
	}
}

// Build turns fields into a report. Answers come from the pretty summary
// when present, otherwise from the rawRequest answer map labelled via labels
// (which may be nil). Attachments found anywhere in the submission are
// appended as "Attachment N" pairs. Build never fails: a submission with no
// usable data gives an empty report.
func (b *Builder) Build(fields models.Fields, labels LabelLookup) models.Report {
	title, _ := fields.Get(FieldFormTitle, "FormTitle")

	answers := b.answers(fields, labels)
	for i, u := range b.Attachments(fields) {
		answers = append(answers, models.AnswerPair{
			Label: fmt.Sprintf("Attachment %d", i+1),
			Value: u,
		})
	}
	if answers == nil {
		answers = []models.AnswerPair{}
	}

	return models.Report{Title: title, Answers: answers}
}

// Attachments returns the canonical attachment URLs of a submission in
// first-seen order
func (b *Builder) Attachments(fields models.Fields) []string {
	urls := b.normalizer.Canonicalize(ExtractURLs(fields))
	return lo.Filter(urls, func(u string, _ int) bool {
		return b.classifier.IsAttachment(u)
	})
}

func (b *Builder) answers(fields models.Fields, labels LabelLookup) []models.AnswerPair {
	if pretty, ok := fields.Get(FieldPretty, "Pretty"); ok {
		return Segment(Unescape(pretty))
	}
	if raw, ok := fields.Get(FieldRawRequest); ok {
		return RawAnswers(raw, labels)
	}
	return nil
}
