package report

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/tuannvm/formrelay/internal/models"
)

// answerKeyPattern matches raw answer keys such as q3_name
var answerKeyPattern = regexp.MustCompile(`^q\d+_`)

// LabelLookup resolves raw answer keys to question labels
type LabelLookup interface {
	Lookup(key string) (string, bool)
}

// ResolveLabel returns the label for key, or key itself when labels has none
func ResolveLabel(labels LabelLookup, key string) string {
	if labels != nil {
		if label, ok := labels.Lookup(key); ok && label != "" {
			return label
		}
	}
	return key
}

// RawAnswers turns a JSON raw-answer map into answer pairs, in document order.
// Only question keys (q<N>_...) are kept and unanswered questions are
// skipped. Input that is not a JSON object, even after unescaping, yields no
// pairs.
func RawAnswers(raw string, labels LabelLookup) []models.AnswerPair {
	raw = strings.TrimSpace(raw)
	if !gjson.Valid(raw) {
		raw = Unescape(raw)
		if !gjson.Valid(raw) {
			return nil
		}
	}
	root := gjson.Parse(raw)
	if !root.IsObject() {
		return nil
	}

	var pairs []models.AnswerPair
	root.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		if !answerKeyPattern.MatchString(k) {
			return true
		}
		text := answerText(value)
		if text == "" {
			return true
		}
		pairs = append(pairs, models.AnswerPair{Label: ResolveLabel(labels, k), Value: text})
		return true
	})
	return pairs
}

// answerText flattens an answer value: arrays join with ", ", objects
// (e.g. first/last name) join their parts with a space.
func answerText(value gjson.Result) string {
	switch {
	case value.IsArray():
		return joinParts(value, ", ")
	case value.IsObject():
		return joinParts(value, " ")
	case value.Type == gjson.String:
		return strings.TrimSpace(Unescape(value.Str))
	case value.Type == gjson.Null:
		return ""
	default:
		return value.String()
	}
}

func joinParts(value gjson.Result, sep string) string {
	var parts []string
	value.ForEach(func(_, item gjson.Result) bool {
		if text := answerText(item); text != "" {
			parts = append(parts, text)
		}
		return true
	})
	return strings.Join(parts, sep)
}
