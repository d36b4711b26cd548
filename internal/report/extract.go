package report

import (
	"regexp"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"

	"github.com/tuannvm/formrelay/internal/models"
)

// urlPattern matches an http(s) URL up to the next whitespace, quote or angle bracket
var urlPattern = regexp.MustCompile(`(?i)https?://[^\s"'<>]+`)

// ExtractURLs walks v and returns every URL-shaped substring it contains.
//
// Strings that look like JSON objects or arrays are parsed and walked;
// other strings, and JSON-looking strings that fail to parse, are unescaped
// and scanned. Maps, slices, resolved submission fields and gjson values are
// walked recursively. Other scalars contribute nothing. The result may hold
// duplicates; see Normalizer.Canonicalize.
func ExtractURLs(v any) []string {
	var out []string
	collectURLs(v, &out)
	return out
}

func collectURLs(v any, out *[]string) {
	switch val := v.(type) {
	case nil:
	case string:
		collectFromString(val, out)
	case models.Fields:
		for _, f := range val {
			collectFromString(f.Value, out)
		}
	case gjson.Result:
		collectFromJSON(val, out)
	case []any:
		for _, item := range val {
			collectURLs(item, out)
		}
	case []string:
		for _, item := range val {
			collectFromString(item, out)
		}
	case map[string]any:
		for _, key := range sortedKeys(val) {
			collectURLs(val[key], out)
		}
	case map[string]string:
		for _, key := range sortedKeys(val) {
			collectFromString(val[key], out)
		}
	}
}

func collectFromString(s string, out *[]string) {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		if gjson.Valid(trimmed) {
			collectFromJSON(gjson.Parse(trimmed), out)
			return
		}
	}
	*out = append(*out, urlPattern.FindAllString(Unescape(s), -1)...)
}

// collectFromJSON visits values in document order
func collectFromJSON(r gjson.Result, out *[]string) {
	switch {
	case r.IsObject(), r.IsArray():
		r.ForEach(func(_, value gjson.Result) bool {
			collectFromJSON(value, out)
			return true
		})
	case r.Type == gjson.String:
		collectFromString(r.Str, out)
	}
}

// sortedKeys keeps map traversal deterministic so attachment numbering is stable
func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return keys
}
