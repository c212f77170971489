package catalog

// SignatureKind names one heuristic test a rule may apply to a sample.
type SignatureKind string

const (
	// SignaturePrefixRegex matches a regular expression anchored at the
	// start of the decoded text.
	SignaturePrefixRegex SignatureKind = "prefix-regex"

	// SignatureContainsRegex matches a regular expression anywhere in the
	// decoded text.
	SignatureContainsRegex SignatureKind = "contains-regex"

	// SignatureNegatedRegex disqualifies a rule when the pattern matches.
	SignatureNegatedRegex SignatureKind = "negated-regex"

	// SignatureMagicAtOffset matches raw bytes at a fixed sample offset.
	SignatureMagicAtOffset SignatureKind = "binary-magic-at-offset"

	// SignatureNonTextRatio matches when the fraction of non-printable
	// bytes in the sample reaches the threshold.
	SignatureNonTextRatio SignatureKind = "binary-non-text-ratio"

	// SignatureParseProbe marks a best-effort structural parse attempt.
	SignatureParseProbe SignatureKind = "structural-parse-probe"
)

// Signature is a single declarative heuristic test descriptor. The catalog
// records signatures as pure data; rules interpret them, the catalog never
// does.
type Signature struct {
	Kind      SignatureKind `json:"kind" yaml:"kind"`
	Pattern   string        `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Offset    int           `json:"offset,omitempty" yaml:"offset,omitempty"`
	Threshold float64       `json:"threshold,omitempty" yaml:"threshold,omitempty"`
}
