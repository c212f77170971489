package confkit

import (
	"strings"
	"unicode"
)

// Well-known metadata keys set during enrichment and catalog validation.
const (
	MetaBytesSampled    = "bytes_sampled"
	MetaSampleDigest    = "sample_digest"
	MetaEncoding        = "encoding"
	MetaSampleTruncated = "sample_truncated"
	MetaBudgetExhausted = "sample_budget_exhausted"
	MetaNeedsReview     = "needs_review"
	MetaReviewIgnored   = "review_ignored"
	MetaReviewIgnoredBy = "review_ignored_by"
)

// Match is the result of classifying a single file. A rule creates it, the
// Detector enriches it, the catalog validator injects canonical metadata,
// and it is immutable once returned to callers.
//
// The JSON shape is part of the external contract consumed by reporting and
// CLI front ends: an absent metadata map marshals as null, never as {}.
type Match struct {
	// Plugin is the name of the rule that produced this match.
	Plugin string `json:"plugin"`

	// Format is the canonical format name declared by the rule.
	Format string `json:"format"`

	// Variant is an optional format subtype (e.g. "resource-xml").
	Variant string `json:"variant,omitempty"`

	// Confidence is the rule's confidence in the classification, 0.0–1.0.
	Confidence float64 `json:"confidence"`

	// Reasons is an ordered, deduplicated list of human-readable
	// explanations for the classification.
	Reasons []string `json:"reasons"`

	// Metadata carries enrichment and catalog fields. Nil when the rule
	// produced no metadata and no enrichment ran.
	Metadata map[string]any `json:"metadata"`
}

// ensureMetadata guarantees a non-nil metadata map before enrichment.
func (m *Match) ensureMetadata() {
	if m.Metadata == nil {
		m.Metadata = make(map[string]any)
	}
}

// setIfAbsent records a metadata value without overwriting a caller-supplied one.
func (m *Match) setIfAbsent(key string, value any) {
	if _, ok := m.Metadata[key]; !ok {
		m.Metadata[key] = value
	}
}

// addReason appends a reason if an equal entry is not already present.
func (m *Match) addReason(reason string) {
	for _, r := range m.Reasons {
		if r == reason {
			return
		}
	}
	m.Reasons = append(m.Reasons, reason)
}

// NormalizeReasons trims and collapses whitespace per reason, title-cases the
// first alphabetic run of each hyphen/colon-delimited token, and deduplicates
// while preserving first-seen order. Empty reasons are dropped.
func NormalizeReasons(reasons []string) []string {
	seen := make(map[string]struct{}, len(reasons))
	out := make([]string, 0, len(reasons))
	for _, r := range reasons {
		n := NormalizeReason(r)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// NormalizeReason normalizes a single free-text explanation line.
func NormalizeReason(s string) string {
	collapsed := strings.Join(strings.Fields(s), " ")
	if collapsed == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(collapsed))
	upperNext := true
	for _, r := range collapsed {
		switch {
		case r == '-' || r == ':' || r == ' ':
			upperNext = true
			b.WriteRune(r)
		case upperNext && unicode.IsLetter(r):
			b.WriteRune(unicode.ToUpper(r))
			upperNext = false
		default:
			if unicode.IsLetter(r) {
				upperNext = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}
