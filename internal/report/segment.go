package report

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tuannvm/formrelay/internal/models"
)

// labelLookahead bounds how far past a capitalized token the segmenter looks
// for the colon that marks it as a label.
const labelLookahead = 200

// prettyPrefix matches a leading "pretty" marker some form integrations
// prepend to the summary text.
var prettyPrefix = regexp.MustCompile(`(?i)^\s*pretty\b[:\s-]*`)

// lineBreaks folds CRLF and bare CR line endings into LF
var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Segment splits a free-text submission summary into ordered label/value pairs.
//
// Text containing line breaks is split one segment per non-blank line.
// Otherwise segments are split at a comma followed by whitespace and a
// capitalized token that reaches a colon within labelLookahead characters
// without crossing another comma. Commas inside a value, such as
// "see you, Bob", therefore stay in the value.
//
// Each segment is split at its separator colon (see splitPair). A segment
// without a colon becomes a label with an empty value. Empty input yields no
// pairs.
func Segment(text string) []models.AnswerPair {
	text = prettyPrefix.ReplaceAllString(strings.TrimSpace(text), "")
	if text == "" {
		return nil
	}

	var segments []string
	if strings.ContainsAny(text, "\r\n") {
		segments = splitLines(text)
	} else {
		segments = splitLabels(text)
	}

	pairs := make([]models.AnswerPair, 0, len(segments))
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		pairs = append(pairs, splitPair(seg))
	}
	return pairs
}

func splitLines(text string) []string {
	lines := strings.Split(lineBreaks.Replace(text), "\n")
	segments := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		segments = append(segments, line)
	}
	return segments
}

// splitLabels cuts text at every comma that starts a new label
func splitLabels(text string) []string {
	var segments []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] != ',' || !startsLabel(text[i+1:]) {
			continue
		}
		segments = append(segments, text[start:i])
		start = i + 1
	}
	return append(segments, text[start:])
}

// startsLabel reports whether rest, the text after a comma, begins with
// whitespace followed by a capitalized label and its colon.
func startsLabel(rest string) bool {
	trimmed := strings.TrimLeftFunc(rest, unicode.IsSpace)
	if len(trimmed) == len(rest) || trimmed == "" {
		return false
	}
	first, size := utf8.DecodeRuneInString(trimmed)
	if !unicode.IsUpper(first) {
		return false
	}
	seen := 0
	for _, r := range trimmed[size:] {
		switch r {
		case ':':
			return true
		case ',', '\n', '\r':
			return false
		}
		seen++
		if seen > labelLookahead {
			return false
		}
	}
	return false
}

// splitPair splits a segment into label and value at its separator colon
func splitPair(seg string) models.AnswerPair {
	idx := separatorIndex(seg)
	if idx < 0 {
		return models.AnswerPair{Label: strings.TrimSpace(seg)}
	}
	return models.AnswerPair{
		Label: strings.TrimSpace(seg[:idx]),
		Value: strings.TrimSpace(seg[idx+1:]),
	}
}

// separatorIndex picks the colon that separates label from value: the last
// colon followed by whitespace or the end of the segment, so "Time: 10:30am"
// splits after "Time". Failing that, the last colon that is not a "://"
// scheme separator. Returns -1 when there is none.
func separatorIndex(seg string) int {
	last := -1
	for i := 0; i < len(seg); i++ {
		if seg[i] != ':' {
			continue
		}
		if i+1 == len(seg) || isSpace(seg[i+1]) {
			last = i
		}
	}
	if last >= 0 {
		return last
	}
	for i := len(seg) - 1; i >= 0; i-- {
		if seg[i] == ':' && !strings.HasPrefix(seg[i+1:], "//") {
			return i
		}
	}
	return -1
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f'
}
