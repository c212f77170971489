// Package profile overlays organizational expectations onto raw detections.
// A profile is a named, tagged container of configs; each config scopes an
// expected format to a path or glob plus activation tags. The store owning
// all profiles enforces globally unique config identifiers and transactional
// updates.
package profile

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// Config is one expectation inside a profile: an identifier unique across
// the whole store, an optional exact path or glob, optional
// application/version/branch scoping, a required tag set, and the expected
// detected format.
//
// The JSON field set is the external profile schema consumed and produced by
// CLI and bridge front ends.
type Config struct {
	ID              string         `json:"id" yaml:"id"`
	Path            string         `json:"path" yaml:"path,omitempty"`
	PathGlob        string         `json:"path_glob" yaml:"path_glob,omitempty"`
	Application     string         `json:"application" yaml:"application,omitempty"`
	Version         string         `json:"version" yaml:"version,omitempty"`
	Branch          string         `json:"branch" yaml:"branch,omitempty"`
	Tags            []string       `json:"tags" yaml:"tags,omitempty"`
	ExpectedFormat  string         `json:"expected_format" yaml:"expected_format,omitempty"`
	ExpectedVariant string         `json:"expected_variant" yaml:"expected_variant,omitempty"`
	Metadata        map[string]any `json:"metadata" yaml:"metadata,omitempty"`
}

// Profile is a named, tagged container of configs. A profile activates for a
// provided tag set iff its own tags are a subset of it; an empty tag set
// means always active.
type Profile struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description,omitempty"`
	Tags        []string       `json:"tags" yaml:"tags,omitempty"`
	Metadata    map[string]any `json:"metadata" yaml:"metadata,omitempty"`
	Configs     []Config       `json:"configs" yaml:"configs"`
}

// validate checks structural requirements once, before a profile enters the
// store: non-empty name, non-empty unique config IDs, compilable globs.
func (p *Profile) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return NewStoreError(ErrorTypeInvalidProfile, "profile name must not be empty")
	}
	seen := make(map[string]struct{}, len(p.Configs))
	for i := range p.Configs {
		cfg := &p.Configs[i]
		if strings.TrimSpace(cfg.ID) == "" {
			return NewStoreError(ErrorTypeInvalidProfile,
				fmt.Sprintf("profile %q contains a config with an empty id", p.Name))
		}
		if _, dup := seen[cfg.ID]; dup {
			return NewStoreError(ErrorTypeDuplicateConfig,
				fmt.Sprintf("config id %q appears twice in profile %q", cfg.ID, p.Name))
		}
		seen[cfg.ID] = struct{}{}
		if cfg.PathGlob != "" {
			if _, err := glob.Compile(cfg.PathGlob, '/'); err != nil {
				return NewStoreError(ErrorTypeInvalidProfile,
					fmt.Sprintf("config %q declares invalid glob %q: %v", cfg.ID, cfg.PathGlob, err))
			}
		}
	}
	return nil
}

// Clone returns a copy of the config whose tags and metadata share no
// storage with the receiver.
func (c Config) Clone() Config {
	c.Tags = append([]string(nil), c.Tags...)
	c.Metadata = cloneMetadata(c.Metadata)
	return c
}

// Clone returns a deep copy of the profile.
func (p *Profile) Clone() *Profile {
	clone := &Profile{
		Name:        p.Name,
		Description: p.Description,
		Tags:        append([]string(nil), p.Tags...),
		Metadata:    cloneMetadata(p.Metadata),
		Configs:     make([]Config, len(p.Configs)),
	}
	for i, cfg := range p.Configs {
		clone.Configs[i] = cfg.Clone()
	}
	return clone
}

func cloneMetadata(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ConfigIDs returns the profile's config identifiers in declaration order.
func (p *Profile) ConfigIDs() []string {
	ids := make([]string, len(p.Configs))
	for i, cfg := range p.Configs {
		ids[i] = cfg.ID
	}
	return ids
}

// ActiveFor reports whether the profile activates for a provided tag set.
func (p *Profile) ActiveFor(tags []string) bool {
	return subsetOf(p.Tags, tagSet(tags))
}

// Matches evaluates the config's predicate against a relative path and
// provided tag set:
//
//  1. the config's required tags must be a subset of the provided tags;
//  2. any declared application/version/branch value must appear in the
//     provided tags as a "<field>:<value>" token;
//  3. with neither an exact path nor a glob declared the config matches
//     unconditionally; otherwise an exact normalized-path match wins, else a
//     glob match against the normalized relative path, else no match.
func (c *Config) Matches(relPath string, tags []string) bool {
	set := tagSet(tags)
	if !subsetOf(c.Tags, set) {
		return false
	}
	for _, field := range []struct{ name, value string }{
		{"application", c.Application},
		{"version", c.Version},
		{"branch", c.Branch},
	} {
		if field.value == "" {
			continue
		}
		if _, ok := set[field.name+":"+field.value]; !ok {
			return false
		}
	}

	if c.Path == "" && c.PathGlob == "" {
		return true
	}

	normalized := NormalizePath(relPath)
	if c.Path != "" && NormalizePath(c.Path) == normalized {
		return true
	}
	if c.PathGlob != "" {
		g, err := glob.Compile(c.PathGlob, '/')
		if err == nil && g.Match(normalized) {
			return true
		}
	}
	return false
}

// NormalizePath canonicalizes a relative path for matching: forward slashes,
// cleaned, no leading "./".
func NormalizePath(p string) string {
	cleaned := path.Clean(strings.ReplaceAll(p, "\\", "/"))
	cleaned = strings.TrimPrefix(cleaned, "./")
	return cleaned
}

func tagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	return set
}

func subsetOf(required []string, provided map[string]struct{}) bool {
	for _, t := range required {
		if _, ok := provided[t]; !ok {
			return false
		}
	}
	return true
}

// sortedCopy returns a sorted copy of a string slice.
func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
