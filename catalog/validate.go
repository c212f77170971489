package catalog

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Metadata keys injected by the validator.
const (
	MetaCatalogVersion      = "catalog_version"
	MetaCatalogFormat       = "catalog_format"
	MetaCatalogVariant      = "catalog_variant"
	MetaCatalogSeverity     = "catalog_severity"
	MetaCatalogSeverityHint = "catalog_severity_hint"
	MetaCatalogRemediation  = "catalog_remediation"
)

// Validator checks a raw detection's declared format and variant against a
// catalog and injects canonical severity and remediation metadata.
//
// In strict mode (the default) unknown formats and disallowed variants fail;
// lenient mode accepts unknown format identifiers as their own canonical
// slug with an empty allowed-variant set.
type Validator struct {
	catalog *Catalog
	lenient bool
}

// NewValidator creates a metadata validator for a catalog.
func NewValidator(c *Catalog, lenient bool) *Validator {
	return &Validator{catalog: c, lenient: lenient}
}

// Lenient reports whether the validator accepts unknown format identifiers.
func (v *Validator) Lenient() bool {
	return v.lenient
}

// Catalog returns the validator's catalog.
func (v *Validator) Catalog() *Catalog {
	return v.catalog
}

// Validate verifies a declared format/variant pair and returns the metadata
// map with catalog fields injected. The input map is coerced to JSON-safe
// values first; a nil map is treated as empty. Caller-supplied severity and
// remediation values are never overwritten.
func (v *Validator) Validate(format, variant string, metadata map[string]any) (map[string]any, error) {
	meta, err := CoerceMetadata(metadata)
	if err != nil {
		return nil, err
	}

	formatSlug, err := NormalizeIdentifier(format)
	if err != nil {
		return nil, err
	}

	e, known := v.catalog.lookup[formatSlug]
	if !known && !v.lenient {
		return nil, NewValidationError(ErrorTypeFormat,
			fmt.Sprintf("format %q is not declared by catalog version %s", formatSlug, v.catalog.version))
	}

	canonical := formatSlug
	if known {
		canonical = e.class.Slug
	}
	meta[MetaCatalogVersion] = v.catalog.version
	meta[MetaCatalogFormat] = canonical

	var sub *Subtype
	if variant != "" {
		variantSlug, err := NormalizeIdentifier(variant)
		if err != nil {
			return nil, err
		}
		if known {
			resolved, ok := e.variants[variantSlug]
			switch {
			case ok:
				sub = resolved
				variantSlug = resolved.Variant
			case len(e.variants) > 0 && !v.lenient:
				return nil, NewValidationError(ErrorTypeVariant,
					fmt.Sprintf("variant %q is not an allowed variant of format %q", variantSlug, canonical))
			}
		}
		meta[MetaCatalogVariant] = variantSlug
	}

	if known {
		sev := severityFor(e.class, sub)
		setIfAbsent(meta, MetaCatalogSeverity, string(sev))
		setIfAbsent(meta, MetaCatalogSeverityHint, hintFor(sev))
		if len(e.class.Remediation) > 0 {
			setIfAbsent(meta, MetaCatalogRemediation, remediationList(e.class.Remediation))
		}
	}

	return meta, nil
}

func setIfAbsent(meta map[string]any, key string, value any) {
	if _, ok := meta[key]; !ok {
		meta[key] = value
	}
}

func remediationList(hints []RemediationHint) []any {
	out := make([]any, 0, len(hints))
	for _, h := range hints {
		entry := map[string]any{
			"id":       h.ID,
			"category": h.Category,
			"summary":  h.Summary,
		}
		if h.Documentation != "" {
			entry["documentation"] = h.Documentation
		}
		out = append(out, entry)
	}
	return out
}

// NormalizeIdentifier lowercases a format or variant name and verifies it
// forms a canonical identifier.
func NormalizeIdentifier(name string) (string, error) {
	slug := strings.ToLower(strings.TrimSpace(name))
	if !slugPattern.MatchString(slug) {
		return "", NewValidationError(ErrorTypeIdentifier,
			fmt.Sprintf("%q cannot be normalized to a canonical identifier", name))
	}
	return slug, nil
}

// CoerceMetadata normalizes a metadata map to plain string-keyed,
// JSON-representable values: byte strings become best-effort decoded text,
// maps and sequences are normalized recursively, and anything else
// unrepresentable is stringified.
func CoerceMetadata(metadata map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(metadata))
	for k, val := range metadata {
		out[k] = coerceValue(val)
	}
	return out, nil
}

func coerceValue(val any) any {
	switch v := val.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v
	case []byte:
		if utf8.Valid(v) {
			return string(v)
		}
		runes := make([]rune, len(v))
		for i, b := range v {
			runes[i] = rune(b)
		}
		return string(runes)
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, child := range v {
			m[k] = coerceValue(child)
		}
		return m
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, child := range v {
			m[fmt.Sprint(k)] = coerceValue(child)
		}
		return m
	case []any:
		s := make([]any, len(v))
		for i, child := range v {
			s[i] = coerceValue(child)
		}
		return s
	case []string:
		s := make([]any, len(v))
		for i, child := range v {
			s[i] = child
		}
		return s
	case fmt.Stringer:
		return v.String()
	case error:
		return v.Error()
	default:
		return fmt.Sprint(v)
	}
}
