package report

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

// DefaultFormHost is the form-hosting domain used when none is configured
const DefaultFormHost = "jotform.com"

// trailingArtifacts are characters the URL pattern can pick up from the
// surrounding text: closing quotes, angle brackets, escapes and punctuation.
const trailingArtifacts = "\"'<>\\,;."

// Normalizer rewrites URLs into their canonical form for one form host.
type Normalizer struct {
	formHost string
	upload   *regexp.Regexp
	hosted   string
}

// NewNormalizer creates a normalizer for formHost, e.g. "jotform.com"
func NewNormalizer(formHost string) *Normalizer {
	formHost = strings.ToLower(strings.TrimSpace(formHost))
	if formHost == "" {
		formHost = DefaultFormHost
	}
	return &Normalizer{
		formHost: formHost,
		upload:   regexp.MustCompile(`(?i)^(https?://)(?:www\.)?` + regexp.QuoteMeta(formHost) + `/uploads/`),
		hosted:   "${1}files." + formHost + "/jufs/",
	}
}

// FormHost returns the form host the normalizer rewrites uploads for
func (n *Normalizer) FormHost() string {
	return n.formHost
}

// Normalize returns the canonical form of u: escaped slashes undone, trailing
// artifacts stripped and upload URLs rewritten to the hosted-file path, e.g.
// https://www.jotform.com/uploads/a/b.png -> https://files.jotform.com/jufs/a/b.png.
// Normalize is idempotent.
func (n *Normalizer) Normalize(u string) string {
	u = trimTrailing(strings.TrimSpace(Unescape(u)))
	return n.upload.ReplaceAllString(u, n.hosted)
}

// trimTrailing strips trailing artifacts and any closing parenthesis that
// has no opening partner in the URL, as in "(see https://x.com/a.pdf)".
func trimTrailing(u string) string {
	for {
		next := strings.TrimRightFunc(u, func(r rune) bool {
			return unicode.IsSpace(r) || strings.ContainsRune(trailingArtifacts, r)
		})
		if strings.HasSuffix(next, ")") && strings.Count(next, "(") < strings.Count(next, ")") {
			next = next[:len(next)-1]
		}
		if next == u {
			return u
		}
		u = next
	}
}

// Canonicalize normalizes every URL and drops duplicates, keeping the order
// in which each canonical URL was first seen.
func (n *Normalizer) Canonicalize(urls []string) []string {
	canonical := lo.FilterMap(urls, func(u string, _ int) (string, bool) {
		c := n.Normalize(u)
		return c, c != ""
	})
	return lo.Uniq(canonical)
}
