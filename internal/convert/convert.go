// Package convert normalizes marketplace asset, collection, and user URLs
// into canonical `<CHAIN>-<identifier>` tokens.
//
// Conversion is a pure function of the input string plus the static chain
// registry and pattern tables: no network access, no hidden state. Bad input
// never produces an error, only an unmatched Result with a typed reason.
package convert

import (
	"net/url"
	"strings"

	"github.com/openautomations/dmcascan/internal/chains"
)

// Converter matches marketplace URLs against the registered pattern tables
// and emits canonical tokens.
type Converter struct {
	registry *chains.Registry
	families map[string][]pattern
}

// New creates a Converter backed by the given chain registry.
func New(registry *chains.Registry) *Converter {
	return &Converter{
		registry: registry,
		families: map[string][]pattern{
			"opensea.io":          openseaPatterns,
			"rarible.com":         rariblePatterns,
			"beta.rarible.com":    rariblePatterns,
			"testnet.rarible.com": rariblePatterns,
			"rarible.fun":         raribleFunPatterns,
		},
	}
}

// NewDefault creates a Converter backed by the default chain registry.
func NewDefault() *Converter {
	return New(chains.Default())
}

// Convert normalizes a single marketplace URL. Any URL that does not parse,
// does not belong to a known marketplace host, or does not match a
// registered shape yields an unmatched Result rather than an error.
func (c *Converter) Convert(rawURL string) Result {
	// Ticket text frequently carries URL-encoded item references
	// ("0xabc%3A123"); decode the colon before parsing so the token
	// reference survives as one segment.
	decoded := strings.ReplaceAll(rawURL, "%3A", ":")
	decoded = strings.ReplaceAll(decoded, "%3a", ":")

	u, err := url.Parse(decoded)
	if err != nil {
		return unmatched(rawURL, ReasonNoPatternMatch)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return unmatched(rawURL, ReasonNoPatternMatch)
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")

	patterns, ok := c.families[host]
	if !ok {
		return unmatched(rawURL, ReasonNoPatternMatch)
	}

	segs := splitPath(u.Path)
	if len(segs) == 0 {
		return unmatched(rawURL, ReasonNoPatternMatch)
	}

	// Patterns are tried in declaration order, most specific shape first;
	// the first structural match decides the outcome.
	for _, p := range patterns {
		m, ok, chainErr := c.matchPattern(p, segs)
		if !ok {
			continue
		}

		if chainErr {
			return unmatched(rawURL, ReasonUnknownChain)
		}

		return converted(rawURL, p.build(m))
	}

	return unmatched(rawURL, ReasonNoPatternMatch)
}

// matchPattern checks one pattern against the path segments. ok reports a
// structural match; chainErr reports a structural match whose chain segment
// did not resolve.
func (c *Converter) matchPattern(p pattern, segs []string) (m match, ok, chainErr bool) {
	if p.allowTail {
		if len(segs) < len(p.segments) {
			return match{}, false, false
		}
	} else if len(segs) != len(p.segments) {
		return match{}, false, false
	}

	for i, tmpl := range p.segments {
		value := segs[i]

		if tmpl.kind == segLiteral {
			if !strings.EqualFold(value, tmpl.literal) {
				return match{}, false, false
			}

			continue
		}

		if !acceptsSegment(tmpl.kind, value) {
			return match{}, false, false
		}

		if tmpl.kind == segChain {
			name, resolved := c.registry.Resolve(value)
			if !resolved {
				chainErr = true
				continue
			}

			m.chain = name

			continue
		}

		// Payloads are kept byte-for-byte: addresses may be
		// checksum-case-sensitive on some chains.
		m.payload = append(m.payload, value)
	}

	return m, true, chainErr
}

// splitPath breaks a URL path into its segments, dropping empty segments
// and the "items"/"owned" view suffixes that marketplaces append to
// otherwise identical URLs.
func splitPath(path string) []string {
	parts := strings.Split(strings.Trim(path, "/"), "/")

	segs := make([]string, 0, len(parts))

	for _, part := range parts {
		if part != "" {
			segs = append(segs, part)
		}
	}

	if n := len(segs); n > 0 {
		switch strings.ToLower(segs[n-1]) {
		case "items", "owned":
			segs = segs[:n-1]
		}
	}

	return segs
}
