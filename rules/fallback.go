package rules

import "github.com/gobeaver/confkit"

// FallbackRule matches every sample at the lowest priority so a scan always
// produces a classification. The format it reports must be the catalog's
// fallback class.
type FallbackRule struct {
	format string
}

// NewFallbackRule returns the always-matching fallback rule reporting the
// given format.
func NewFallbackRule(format string) *FallbackRule {
	return &FallbackRule{format: format}
}

// Name returns the rule's unique name
func (r *FallbackRule) Name() string { return "fallback" }

// Priority returns the rule's evaluation priority
func (r *FallbackRule) Priority() int { return 900 }

// Version returns the rule's semantic version
func (r *FallbackRule) Version() string { return BuiltinVersion }

// Detect always matches.
func (r *FallbackRule) Detect(_ string, _ []byte, text *confkit.Decoded) *confkit.Match {
	reason := "no known signature matched"
	binary := text == nil
	if binary {
		reason = "binary content with no known signature"
	}
	return &confkit.Match{
		Format:     r.format,
		Confidence: 0.1,
		Reasons:    []string{reason},
		Metadata:   map[string]any{"binary": binary},
	}
}
