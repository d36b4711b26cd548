package report

import "strings"

// escapeReplacer undoes the JSON string escapes the form service leaves inside
// field values. It only touches escaped slashes, quotes and newlines.
var escapeReplacer = strings.NewReplacer(
	`\/`, `/`,
	`\"`, `"`,
	`\n`, "\n",
)

// Unescape replaces \/, \" and \n sequences until none are left.
// Plain text is returned unchanged, and Unescape(Unescape(s)) == Unescape(s).
func Unescape(s string) string {
	for {
		next := escapeReplacer.Replace(s)
		if next == s {
			return s
		}
		s = next
	}
}
