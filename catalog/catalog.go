// Package catalog provides the immutable, versioned description of known
// configuration-file format classes, their subtypes, aliases, severities,
// and remediation hints, plus the metadata validator that checks detection
// results against it.
package catalog

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Severity ranks how much attention a detected format deserves during
// drift auditing and secret hunting.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// severityHints maps a severity to the default reviewer guidance injected
// as catalog_severity_hint.
var severityHints = map[Severity]string{
	SeverityInfo:     "informational; no review required",
	SeverityLow:      "review during routine configuration audits",
	SeverityMedium:   "review for environment-specific overrides and drift",
	SeverityHigh:     "prioritize for credential and secret review",
	SeverityCritical: "treat as sensitive material; review immediately",
}

// slugPattern is the canonical identifier shape for formats and variants.
var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// RemediationHint is one catalog-declared remediation pointer for a format.
type RemediationHint struct {
	ID            string `json:"id" yaml:"id"`
	Category      string `json:"category" yaml:"category"`
	Summary       string `json:"summary" yaml:"summary"`
	Documentation string `json:"documentation,omitempty" yaml:"documentation,omitempty"`
}

// Subtype describes one variant of a format class, e.g. resource XML under
// the XML class. A subtype severity overrides the class default.
type Subtype struct {
	Name       string      `json:"name" yaml:"name"`
	Variant    string      `json:"variant" yaml:"variant"`
	Aliases    []string    `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Severity   Severity    `json:"severity,omitempty" yaml:"severity,omitempty"`
	Signatures []Signature `json:"signatures,omitempty" yaml:"signatures,omitempty"`
}

// FormatClass describes one detectable format: its canonical slug, aliases,
// default severity, file extensions, declarative signatures, variants, and
// remediation hints. The class marked Fallback is the catalog's terminal
// low-confidence entry.
type FormatClass struct {
	Name        string            `json:"name" yaml:"name"`
	Slug        string            `json:"slug" yaml:"slug"`
	Priority    int               `json:"priority,omitempty" yaml:"priority,omitempty"`
	Severity    Severity          `json:"severity" yaml:"severity"`
	Extensions  []string          `json:"extensions,omitempty" yaml:"extensions,omitempty"`
	Aliases     []string          `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Signatures  []Signature       `json:"signatures,omitempty" yaml:"signatures,omitempty"`
	Subtypes    []Subtype         `json:"variants,omitempty" yaml:"variants,omitempty"`
	Remediation []RemediationHint `json:"remediation,omitempty" yaml:"remediation,omitempty"`
	Fallback    bool              `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// entry is one resolved lookup target: the owning class and its allowed
// variants keyed by variant slug and variant alias.
type entry struct {
	class    *FormatClass
	variants map[string]*Subtype
}

// Catalog is the immutable, versioned format catalog. Loaded once at process
// start and never mutated; safe for concurrent readers.
type Catalog struct {
	version  string
	classes  []FormatClass
	fallback *FormatClass
	lookup   map[string]*entry
}

// New builds a catalog from a version string and format classes, validating
// slug shapes and rejecting duplicate identifiers.
func New(version string, classes []FormatClass) (*Catalog, error) {
	if version == "" {
		return nil, NewValidationError(ErrorTypeCatalog, "catalog version must not be empty")
	}

	c := &Catalog{
		version: version,
		classes: make([]FormatClass, len(classes)),
		lookup:  make(map[string]*entry),
	}
	copy(c.classes, classes)

	for i := range c.classes {
		class := &c.classes[i]
		if !slugPattern.MatchString(class.Slug) {
			return nil, NewValidationError(ErrorTypeCatalog,
				fmt.Sprintf("format slug %q is not a canonical identifier", class.Slug))
		}

		e := &entry{class: class, variants: make(map[string]*Subtype)}
		for j := range class.Subtypes {
			sub := &class.Subtypes[j]
			if !slugPattern.MatchString(sub.Variant) {
				return nil, NewValidationError(ErrorTypeCatalog,
					fmt.Sprintf("variant %q of format %q is not a canonical identifier", sub.Variant, class.Slug))
			}
			if err := addVariantKey(e, sub.Variant, sub, class.Slug); err != nil {
				return nil, err
			}
			for _, alias := range sub.Aliases {
				if err := addVariantKey(e, normalizeKey(alias), sub, class.Slug); err != nil {
					return nil, err
				}
			}
		}

		keys := []string{class.Slug, normalizeKey(class.Name)}
		for _, alias := range class.Aliases {
			keys = append(keys, normalizeKey(alias))
		}
		for _, key := range keys {
			if key == "" {
				continue
			}
			if prev, ok := c.lookup[key]; ok && prev.class != class {
				return nil, NewValidationError(ErrorTypeCatalog,
					fmt.Sprintf("identifier %q is claimed by both %q and %q", key, prev.class.Slug, class.Slug))
			}
			c.lookup[key] = e
		}

		if class.Fallback {
			if c.fallback != nil {
				return nil, NewValidationError(ErrorTypeCatalog,
					fmt.Sprintf("both %q and %q are marked as the fallback class", c.fallback.Slug, class.Slug))
			}
			c.fallback = class
		}
	}

	if c.fallback == nil {
		return nil, NewValidationError(ErrorTypeCatalog, "catalog declares no fallback class")
	}
	return c, nil
}

func addVariantKey(e *entry, key string, sub *Subtype, slug string) error {
	if key == "" {
		return nil
	}
	if prev, ok := e.variants[key]; ok && prev != sub {
		return NewValidationError(ErrorTypeCatalog,
			fmt.Sprintf("variant identifier %q is claimed twice within format %q", key, slug))
	}
	e.variants[key] = sub
	return nil
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Version returns the catalog's declared version string. Every emitted
// catalog_version metadata value matches it exactly.
func (c *Catalog) Version() string {
	return c.version
}

// Fallback returns the catalog's terminal low-confidence class.
func (c *Catalog) Fallback() *FormatClass {
	return c.fallback
}

// Classes returns the catalog's format classes in declaration order.
func (c *Catalog) Classes() []FormatClass {
	out := make([]FormatClass, len(c.classes))
	copy(out, c.classes)
	return out
}

// Resolve maps an arbitrary format name or alias to its format class.
func (c *Catalog) Resolve(identifier string) (*FormatClass, bool) {
	e, ok := c.lookup[normalizeKey(identifier)]
	if !ok {
		return nil, false
	}
	return e.class, true
}

// ResolveVariant maps a variant name or alias within a resolved format.
func (c *Catalog) ResolveVariant(format, variant string) (*Subtype, bool) {
	e, ok := c.lookup[normalizeKey(format)]
	if !ok {
		return nil, false
	}
	sub, ok := e.variants[normalizeKey(variant)]
	return sub, ok
}

// Variants returns the sorted allowed variant slugs of a format, empty when
// the format declares no subtypes or is unknown.
func (c *Catalog) Variants(format string) []string {
	e, ok := c.lookup[normalizeKey(format)]
	if !ok {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, sub := range e.variants {
		if _, dup := seen[sub.Variant]; dup {
			continue
		}
		seen[sub.Variant] = struct{}{}
		out = append(out, sub.Variant)
	}
	sort.Strings(out)
	return out
}

// severityFor resolves the most specific severity for a class and optional
// subtype: the subtype override wins over the class default.
func severityFor(class *FormatClass, sub *Subtype) Severity {
	if sub != nil && sub.Severity != "" {
		return sub.Severity
	}
	if class.Severity != "" {
		return class.Severity
	}
	return SeverityInfo
}

// hintFor returns the reviewer guidance text for a severity.
func hintFor(sev Severity) string {
	if hint, ok := severityHints[sev]; ok {
		return hint
	}
	return severityHints[SeverityInfo]
}
