// Package rules provides the built-in classification rules for the confkit
// detector. Rules are built from declarative signature tables interpreted by
// shared matching logic, so tests can assert against the declared signatures
// independently of the matching code. Nothing here registers itself at
// import time; applications call RegisterBuiltin explicitly.
package rules

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gobeaver/confkit"
	"github.com/gobeaver/confkit/catalog"
)

// Signature is one declarative heuristic belonging to a rule. Pattern holds
// the regular expression for the regex kinds and the raw magic bytes for
// binary-magic-at-offset. A hit contributes Weight to the rule's confidence
// and Reason to the match; the first hitting signature with a Variant set
// decides the match variant. A Required signature that misses disqualifies
// the rule.
type Signature struct {
	Kind      catalog.SignatureKind
	Pattern   string
	Offset    int
	Threshold float64
	Weight    float64
	Reason    string
	Variant   string
	Required  bool
}

// ProbeResult is the outcome of a rule's structural parse probe.
type ProbeResult struct {
	Weight   float64
	Variant  string
	Reasons  []string
	Metadata map[string]any
}

// ProbeFunc is a best-effort structural probe run after the signature table.
// Returning nil means the probe did not apply; probes must fail soft.
type ProbeFunc func(path string, sample []byte, text *confkit.Decoded) *ProbeResult

// TableSpec declares a table-driven rule.
type TableSpec struct {
	Name           string
	Priority       int
	Version        string
	Format         string
	BaseConfidence float64

	// TextOnly rules never match binary samples.
	TextOnly bool

	// MinHits is the number of signature or probe hits required for a
	// match; extension hits do not count. Zero means one.
	MinHits int

	// RequireExts restricts the rule to files with one of these extensions.
	RequireExts []string

	// Extensions add ExtensionWeight to the confidence when the file
	// extension matches, without counting as a signature hit.
	Extensions      []string
	ExtensionWeight float64

	Signatures []Signature
	Probe      ProbeFunc
}

// TableRule is a classification rule driven by a declarative signature table.
type TableRule struct {
	spec     TableSpec
	minHits  int
	compiled []*regexp.Regexp
	requires map[string]struct{}
	extras   map[string]struct{}
}

// NewTableRule compiles a table spec into a rule.
func NewTableRule(spec TableSpec) (*TableRule, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("rule name must not be empty")
	}
	if spec.Format == "" {
		return nil, fmt.Errorf("rule %s declares no format", spec.Name)
	}

	r := &TableRule{
		spec:     spec,
		minHits:  spec.MinHits,
		compiled: make([]*regexp.Regexp, len(spec.Signatures)),
		requires: extSet(spec.RequireExts),
		extras:   extSet(spec.Extensions),
	}
	if r.minHits < 1 {
		r.minHits = 1
	}

	for i, sig := range spec.Signatures {
		switch sig.Kind {
		case catalog.SignaturePrefixRegex, catalog.SignatureContainsRegex, catalog.SignatureNegatedRegex:
			re, err := regexp.Compile(sig.Pattern)
			if err != nil {
				return nil, fmt.Errorf("rule %s signature %d: %w", spec.Name, i, err)
			}
			r.compiled[i] = re
		case catalog.SignatureMagicAtOffset, catalog.SignatureNonTextRatio:
			// Interpreted without compilation.
		default:
			return nil, fmt.Errorf("rule %s signature %d: unsupported kind %q", spec.Name, i, sig.Kind)
		}
	}
	return r, nil
}

func extSet(exts []string) map[string]struct{} {
	if len(exts) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		set[strings.ToLower(e)] = struct{}{}
	}
	return set
}

// Name returns the rule's unique name
func (r *TableRule) Name() string { return r.spec.Name }

// Priority returns the rule's evaluation priority
func (r *TableRule) Priority() int { return r.spec.Priority }

// Version returns the rule's semantic version
func (r *TableRule) Version() string { return r.spec.Version }

// Format returns the canonical format the rule detects
func (r *TableRule) Format() string { return r.spec.Format }

// Signatures returns the rule's declared signature table as catalog data.
func (r *TableRule) Signatures() []catalog.Signature {
	out := make([]catalog.Signature, len(r.spec.Signatures))
	for i, sig := range r.spec.Signatures {
		out[i] = catalog.Signature{
			Kind:      sig.Kind,
			Pattern:   sig.Pattern,
			Offset:    sig.Offset,
			Threshold: sig.Threshold,
		}
	}
	return out
}

// Detect evaluates the signature table against a sample.
func (r *TableRule) Detect(path string, sample []byte, text *confkit.Decoded) *confkit.Match {
	if r.spec.TextOnly && text == nil {
		return nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	if r.requires != nil {
		if _, ok := r.requires[ext]; !ok {
			return nil
		}
	}

	hits := 0
	confidence := r.spec.BaseConfidence
	variant := ""
	var reasons []string
	var metadata map[string]any

	for i, sig := range r.spec.Signatures {
		hit := false
		switch sig.Kind {
		case catalog.SignaturePrefixRegex, catalog.SignatureContainsRegex:
			if text != nil {
				hit = r.compiled[i].MatchString(text.Text)
			}
		case catalog.SignatureNegatedRegex:
			if text != nil && r.compiled[i].MatchString(text.Text) {
				return nil
			}
			continue
		case catalog.SignatureMagicAtOffset:
			magic := []byte(sig.Pattern)
			end := sig.Offset + len(magic)
			hit = end <= len(sample) && bytes.Equal(sample[sig.Offset:end], magic)
		case catalog.SignatureNonTextRatio:
			hit = nonTextRatio(sample) >= sig.Threshold
		}

		if !hit {
			if sig.Required {
				return nil
			}
			continue
		}
		hits++
		confidence += sig.Weight
		if sig.Reason != "" {
			reasons = append(reasons, sig.Reason)
		}
		if variant == "" && sig.Variant != "" {
			variant = sig.Variant
		}
	}

	if r.extras != nil {
		if _, ok := r.extras[ext]; ok {
			confidence += r.spec.ExtensionWeight
			reasons = append(reasons, fmt.Sprintf("file extension %s suggests %s", ext, r.spec.Format))
		}
	}

	if r.spec.Probe != nil {
		if res := r.spec.Probe(path, sample, text); res != nil {
			hits++
			confidence += res.Weight
			reasons = append(reasons, res.Reasons...)
			if variant == "" && res.Variant != "" {
				variant = res.Variant
			}
			if len(res.Metadata) > 0 {
				metadata = res.Metadata
			}
		}
	}

	if hits < r.minHits {
		return nil
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	if confidence < 0 {
		confidence = 0
	}

	return &confkit.Match{
		Format:     r.spec.Format,
		Variant:    variant,
		Confidence: confidence,
		Reasons:    reasons,
		Metadata:   metadata,
	}
}

// nonTextRatio is the fraction of sample bytes outside the printable
// ASCII-plus-tab/CR/LF set.
func nonTextRatio(sample []byte) float64 {
	if len(sample) == 0 {
		return 0
	}
	nonText := 0
	for _, b := range sample {
		if (b < 0x20 || b > 0x7E) && b != '\t' && b != '\r' && b != '\n' {
			nonText++
		}
	}
	return float64(nonText) / float64(len(sample))
}
