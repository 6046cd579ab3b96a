package convert

import (
	"strings"
)

// segKind classifies one path segment of a URL pattern.
type segKind int

const (
	segLiteral segKind = iota // fixed path word, e.g. "assets"
	segChain                  // chain slug, resolved via the chain registry
	segAddress                // contract or wallet address, kept verbatim
	segTokenRef               // address with an optional embedded ":id"
	segNumericID              // numeric token id
	segSlug                   // marketplace-scoped collection slug
)

// segment is one element of a pattern's path template.
type segment struct {
	kind    segKind
	literal string // only for segLiteral
}

func lit(word string) segment { return segment{kind: segLiteral, literal: word} }
func v(kind segKind) segment  { return segment{kind: kind} }

// match holds the variable segments captured during a structural match.
// Payload values are byte-for-byte slices of the (decoded) URL path; only
// the chain name has been normalized to its canonical upper-case form.
type match struct {
	chain   string
	payload []string
}

// pattern describes one recognized URL shape: an ordered path template and
// the rule that turns a match into a canonical token.
type pattern struct {
	name      string
	segments  []segment
	allowTail bool // extra path segments after the template are ignored
	build     func(m match) string
}

// isAlnumHyphen reports whether s is non-empty and contains only letters,
// digits, and hyphens. Addresses and slugs in marketplace paths stick to
// this alphabet; anything else means the shape did not really match.
func isAlnumHyphen(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-':
		default:
			return false
		}
	}

	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

// acceptsSegment checks a single non-literal path segment against its kind.
func acceptsSegment(kind segKind, value string) bool {
	switch kind {
	case segChain:
		return isAlnumHyphen(value)
	case segAddress:
		return isAlnumHyphen(value)
	case segTokenRef:
		addr, id, hasID := strings.Cut(value, ":")
		if hasID {
			return isAlnumHyphen(addr) && isAlnumHyphen(id)
		}

		return isAlnumHyphen(value)
	case segNumericID:
		return isDigits(value)
	case segSlug:
		return value != ""
	default:
		return false
	}
}

// tokenChains without per-token IDs: on these chains an item is identified
// by its address alone, so a trailing ":id" is dropped from the token.
var addressOnlyChains = map[string]bool{
	"ECLIPSE": true,
	"SOLANA":  true,
}

// openseaPatterns are the recognized opensea.io shapes, most specific
// (longest template) first. First structural match wins.
var openseaPatterns = []pattern{
	{
		name:     "opensea asset",
		segments: []segment{lit("assets"), v(segChain), v(segAddress), v(segNumericID)},
		build: func(m match) string {
			return m.chain + "-" + m.payload[0] + ":" + m.payload[1]
		},
	},
	{
		name:      "opensea collection",
		segments:  []segment{lit("collection"), v(segSlug)},
		allowTail: true,
		// Collection identity is marketplace-scoped on OpenSea, not
		// chain-scoped: the slug is the token, with no chain prefix.
		build: func(m match) string {
			return m.payload[0]
		},
	},
}

// raribleToken builds the canonical token for a rarible item reference.
func raribleToken(chain, ref string) string {
	if addressOnlyChains[chain] {
		addr, _, _ := strings.Cut(ref, ":")
		return chain + "-" + addr
	}

	return chain + "-" + ref
}

// raribleDefaultChain is applied when a rarible.com path omits the chain
// segment; the marketplace itself treats those URLs as Ethereum.
const raribleDefaultChain = "ETHEREUM"

// rariblePatterns are the recognized rarible.com shapes. Shapes that carry
// an explicit chain segment come first so that chain-less fallbacks never
// shadow them.
var rariblePatterns = []pattern{
	{
		name:     "rarible user",
		segments: []segment{lit("user"), v(segChain), v(segAddress)},
		build: func(m match) string {
			return m.chain + "-" + m.payload[0]
		},
	},
	{
		name:     "rarible token",
		segments: []segment{lit("token"), v(segChain), v(segTokenRef)},
		build: func(m match) string {
			return raribleToken(m.chain, m.payload[0])
		},
	},
	{
		name:     "rarible collection",
		segments: []segment{lit("collection"), v(segChain), v(segAddress)},
		build: func(m match) string {
			return m.chain + "-" + m.payload[0]
		},
	},
	{
		name:     "rarible token, implicit chain",
		segments: []segment{lit("token"), v(segTokenRef)},
		build: func(m match) string {
			return raribleToken(raribleDefaultChain, m.payload[0])
		},
	},
	{
		name:     "rarible collection, implicit chain",
		segments: []segment{lit("collection"), v(segAddress)},
		build: func(m match) string {
			return raribleDefaultChain + "-" + m.payload[0]
		},
	},
	{
		name:     "rarible user, implicit chain",
		segments: []segment{lit("user"), v(segAddress)},
		build: func(m match) string {
			return raribleDefaultChain + "-" + m.payload[0]
		},
	},
}

// raribleFunPatterns are the recognized rarible.fun shapes.
var raribleFunPatterns = []pattern{
	{
		name:      "rarible.fun collection",
		segments:  []segment{lit("collections"), v(segChain), v(segAddress)},
		allowTail: true,
		build: func(m match) string {
			return m.chain + "-" + m.payload[0]
		},
	},
}
