// Package confkit classifies configuration-bearing files (registry exports,
// XML .config variants, JSON, YAML, TOML, INI, Unix conf files, scripts,
// embedded databases, opaque binaries) by running an ordered set of
// content-sniffing rules against a bounded sample of each file.
//
// Classification is deterministic and resource-bounded: each file contributes
// at most a fixed-size byte sample, an aggregate budget caps the bytes read
// across a whole scan, and rules are evaluated in ascending priority order
// with first-match-wins semantics. The winning match is enriched with sample
// metadata, validated against a versioned format catalog, and optionally
// annotated with organizational expectations from a profile store.
//
// # Pipeline
//
//	register (rules) → sample → classify → validate (catalog) → annotate (profiles)
//
// # Basic Usage
//
//	reg := confkit.NewRegistry()
//	if err := rules.RegisterBuiltin(reg); err != nil {
//	    log.Fatal(err)
//	}
//
//	det, err := confkit.NewDetector(reg, catalog.Builtin(), confkit.DetectorConfig{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	match, err := det.ScanFile("app.config")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(match.Format, match.Confidence)
//
// # Subpackages
//
//   - github.com/gobeaver/confkit/catalog: versioned format catalog and
//     metadata validation
//   - github.com/gobeaver/confkit/rules: built-in classification rules
//   - github.com/gobeaver/confkit/profile: configuration profiles and
//     expectation matching
//
// Rule registries and catalogs are read-only during scanning and may be
// shared across Detector instances. A single Detector scans one path at a
// time; callers that parallelize should use one Detector per worker.
package confkit
