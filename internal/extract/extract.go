// Package extract finds http(s) URLs embedded in free-form ticket text.
//
// Extraction is deliberately marketplace-agnostic: every URL in the text is
// reported, and filtering to convertible marketplaces happens downstream, so
// foreign URLs show up as found-but-not-converted instead of vanishing.
package extract

import (
	"regexp"
	"strings"
)

// urlRegex matches http(s) tokens up to whitespace or markup delimiters.
// Trailing punctuation is trimmed afterwards; the regex itself stays greedy
// so that path-internal punctuation (colons, parens in slugs) survives.
var urlRegex = regexp.MustCompile(`https?://[^\s<>"'` + "`" + `]+`)

// trailingPunct is the set of punctuation and closing-markup characters that
// sentence context glues onto a URL but that are never part of it.
const trailingPunct = ".,:;!?)]}\"'"

// URLs returns every URL found in text, in first-appearance order, with
// duplicates removed and trailing punctuation stripped.
func URLs(text string) []string {
	if text == "" {
		return nil
	}

	matches := urlRegex.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))

	for _, raw := range matches {
		u := clean(raw)
		if u == "" {
			continue
		}

		if _, dup := seen[u]; dup {
			continue
		}

		seen[u] = struct{}{}
		out = append(out, u)
	}

	if len(out) == 0 {
		return nil
	}

	return out
}

// clean strips trailing punctuation and decodes URL-encoded colons, which
// ticket text often carries inside item references. Tokens that trim down
// to a bare scheme with no host are discarded.
func clean(raw string) string {
	u := strings.TrimSpace(raw)
	u = strings.TrimRight(u, trailingPunct)
	u = strings.ReplaceAll(u, "%3A", ":")
	u = strings.ReplaceAll(u, "%3a", ":")

	rest := strings.TrimPrefix(u, "https://")
	if rest == u {
		rest = strings.TrimPrefix(u, "http://")
	}

	if rest == "" {
		return ""
	}

	return u
}
