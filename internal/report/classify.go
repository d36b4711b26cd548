package report

import (
	"net/url"
	"regexp"
	"strings"
)

// Verdict is the classifier's decision for one canonical URL
type Verdict int

const (
	// Rejected URLs are incidental links, not file deliverables
	Rejected Verdict = iota
	// LinkedFile is a file with a recognized extension on any host
	LinkedFile
	// HostedFile is a file stored on the form host's hosted-file path
	HostedFile
)

func (v Verdict) String() string {
	switch v {
	case LinkedFile:
		return "linked_file"
	case HostedFile:
		return "hosted_file"
	default:
		return "rejected"
	}
}

var (
	// fileExtPattern lists the image, document, spreadsheet and archive
	// extensions accepted as attachments
	fileExtPattern = regexp.MustCompile(`(?i)\.(jpe?g|png|gif|webp|bmp|svg|heic|tiff?|pdf|docx?|xlsx?|csv|txt|zip)$`)

	// reportEndpointPattern matches this service's own submission endpoint
	reportEndpointPattern = regexp.MustCompile(`(?i)/api/report(?:/|$)`)

	// uploadIntakePattern matches a bare upload endpoint with no file path
	uploadIntakePattern = regexp.MustCompile(`(?i)^/uploads?/?$`)

	// looseURLPattern splits URLs net/url refuses to parse
	looseURLPattern = regexp.MustCompile(`(?i)^[a-z][a-z0-9+.-]*://([^/?#]*)([^?#]*)`)
)

// Classifier decides which URLs are genuine file attachments
type Classifier struct {
	formHost string
}

// NewClassifier creates a classifier for the given form host
func NewClassifier(formHost string) *Classifier {
	formHost = strings.ToLower(strings.TrimSpace(formHost))
	if formHost == "" {
		formHost = DefaultFormHost
	}
	return &Classifier{formHost: formHost}
}

// IsAttachment reports whether u should be listed as an attachment
func (c *Classifier) IsAttachment(u string) bool {
	return c.Classify(u) != Rejected
}

// Classify inspects the host and path of u. Links back to the report
// endpoint and bare upload endpoints are rejected; otherwise a file extension
// at the end of the path (query string ignored) is required. Unparseable
// URLs are split with a regular expression and checked the same way.
func (c *Classifier) Classify(u string) Verdict {
	host, path := splitURL(u)

	if reportEndpointPattern.MatchString(path) {
		return Rejected
	}
	if uploadIntakePattern.MatchString(path) {
		return Rejected
	}
	if !fileExtPattern.MatchString(path) {
		return Rejected
	}
	if c.isFormHost(host) && strings.Contains(path, "/jufs/") {
		return HostedFile
	}
	return LinkedFile
}

func (c *Classifier) isFormHost(host string) bool {
	host = strings.ToLower(host)
	if h, _, ok := strings.Cut(host, ":"); ok {
		host = h
	}
	return host == c.formHost || strings.HasSuffix(host, "."+c.formHost)
}

// splitURL returns the host and path of u, never failing
func splitURL(u string) (host, path string) {
	if parsed, err := url.Parse(u); err == nil && parsed.Host != "" {
		return parsed.Host, parsed.Path
	}
	if m := looseURLPattern.FindStringSubmatch(u); m != nil {
		return m[1], m[2]
	}
	path = u
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	return "", path
}
