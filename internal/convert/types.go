package convert

// Reason explains why a URL could not be converted.
type Reason string

const (
	// ReasonNoPatternMatch covers unknown hosts, unrecognized path shapes,
	// and unparseable URLs.
	ReasonNoPatternMatch Reason = "no pattern match"

	// ReasonUnknownChain means the path shape matched but the chain segment
	// did not resolve to a known chain.
	ReasonUnknownChain Reason = "unknown chain"
)

// Result is the outcome of converting one URL. Conversion is total or an
// explicit failure: either Token carries the canonical token, or Reason says
// why there is none. A Result is never both and never neither.
type Result struct {
	Original string `json:"original_url"`
	Token    string `json:"converted,omitempty"`
	Reason   Reason `json:"reason,omitempty"`
}

// Converted reports whether the URL was successfully normalized.
func (r Result) Converted() bool {
	return r.Token != ""
}

func converted(original, token string) Result {
	return Result{Original: original, Token: token}
}

func unmatched(original string, reason Reason) Result {
	return Result{Original: original, Reason: reason}
}
