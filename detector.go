package confkit

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/gobeaver/confkit/catalog"
)

// Sampling and budget defaults.
const (
	// DefaultSampleSize is the per-file sample size.
	DefaultSampleSize = 128 * 1024

	// MaxSampleSize is the hard per-file ceiling; larger requests are
	// clamped with a logged warning, not rejected.
	MaxSampleSize = 512 * 1024

	// DefaultSampleBudget is the aggregate cross-scan byte budget.
	DefaultSampleBudget = 16 * 1024 * 1024
)

// ErrorCallback observes per-file scan errors. Returning a non-nil error
// escalates, even when it is the *ScanError the callback was handed:
// ScanFile returns the callback's error wrapped in a *CallbackError and
// ScanPath aborts the traversal with it. Returning nil lets ScanPath
// continue past the file.
type ErrorCallback func(*ScanError) error

// DetectorConfig holds Detector construction options. Zero values select
// defaults; negative sizes fail fast with ErrInvalidConfig.
type DetectorConfig struct {
	// SampleSize is the target per-file sample size in bytes.
	SampleSize int

	// SampleBudget is the aggregate byte budget across a whole scan.
	SampleBudget int64

	// Lenient relaxes catalog validation of unknown format identifiers.
	Lenient bool

	// Logger receives structured scan diagnostics; defaults to slog.Default().
	Logger *slog.Logger

	// OnError observes per-file I/O errors during scans.
	OnError ErrorCallback
}

// Detector orchestrates the sampler and rule registry under per-file and
// aggregate byte budgets. One Detector scans one path at a time; its public
// methods have no reentrancy contract.
type Detector struct {
	registry   *Registry
	validator  *catalog.Validator
	sampleSize int
	budget     int64
	consumed   int64
	exhausted  bool
	logger     *slog.Logger
	onError    ErrorCallback
}

// FileResult pairs a scanned path with its detection match.
type FileResult struct {
	Path  string `json:"path"`
	Match *Match `json:"match"`
}

// NewDetector creates a detector over a rule registry and format catalog.
// A nil catalog selects the built-in one.
func NewDetector(registry *Registry, cat *catalog.Catalog, cfg DetectorConfig) (*Detector, error) {
	if registry == nil {
		return nil, fmt.Errorf("%w: nil rule registry", ErrInvalidConfig)
	}
	if cat == nil {
		cat = catalog.Builtin()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sampleSize := cfg.SampleSize
	switch {
	case sampleSize < 0:
		return nil, fmt.Errorf("%w: sample size must be positive, got %d", ErrInvalidConfig, sampleSize)
	case sampleSize == 0:
		sampleSize = DefaultSampleSize
	case sampleSize > MaxSampleSize:
		logger.Warn("sample size clamped to ceiling",
			"requested", sampleSize,
			"ceiling", MaxSampleSize)
		sampleSize = MaxSampleSize
	}

	budget := cfg.SampleBudget
	switch {
	case budget < 0:
		return nil, fmt.Errorf("%w: sample budget must be positive, got %d", ErrInvalidConfig, budget)
	case budget == 0:
		budget = DefaultSampleBudget
	}

	return &Detector{
		registry:   registry,
		validator:  catalog.NewValidator(cat, cfg.Lenient),
		sampleSize: sampleSize,
		budget:     budget,
		logger:     logger,
		onError:    cfg.OnError,
	}, nil
}

// SampleSize returns the effective per-file sample size.
func (d *Detector) SampleSize() int {
	return d.sampleSize
}

// SampleBudget returns the aggregate byte budget.
func (d *Detector) SampleBudget() int64 {
	return d.budget
}

// BytesConsumed returns the bytes sampled so far under the current budget.
func (d *Detector) BytesConsumed() int64 {
	return d.consumed
}

// BudgetExhausted reports whether the aggregate budget has been consumed.
// Exhaustion is an expected operating condition, never an error.
func (d *Detector) BudgetExhausted() bool {
	return d.exhausted
}

// ResetBudget restores the full aggregate budget for a fresh scan.
func (d *Detector) ResetBudget() {
	d.consumed = 0
	d.exhausted = false
}

// ScanFile classifies a single regular file. It returns (nil, nil) when the
// aggregate budget was already exhausted (no rules evaluated) or when no
// registered rule matched. Catalog validation failures propagate; they are
// never downgraded to no-match.
func (d *Detector) ScanFile(path string) (*Match, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, d.routeIOError("stat", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, &ScanError{Op: "scan", Path: path, Err: ErrNotRegularFile}
	}

	if d.exhausted || d.consumed >= d.budget {
		d.exhausted = true
		return nil, nil
	}

	limit := int64(d.sampleSize)
	if remaining := d.budget - d.consumed; remaining < limit {
		limit = remaining
	}

	sample, truncated, err := SampleFile(path, int(limit))
	if err != nil {
		return nil, d.routeIOError("read", path, err)
	}

	var decoded *Decoded
	if LooksText(sample, DefaultTextThreshold) {
		text, encoding := DecodeText(sample)
		decoded = &Decoded{Text: text, Encoding: encoding}
	}

	d.consumed += int64(len(sample))
	if d.consumed >= d.budget {
		d.exhausted = true
	}

	var match *Match
	for _, rule := range d.registry.Snapshot() {
		if m := rule.Detect(path, sample, decoded); m != nil {
			m.Plugin = rule.Name()
			match = m
			break
		}
	}
	if match == nil {
		return nil, nil
	}

	d.enrich(match, sample, decoded, truncated)

	meta, err := d.validator.Validate(match.Format, match.Variant, match.Metadata)
	if err != nil {
		return nil, err
	}
	match.Metadata = meta
	match.Reasons = NormalizeReasons(match.Reasons)
	return match, nil
}

// enrich records sampling facts on the winning match before validation.
func (d *Detector) enrich(match *Match, sample []byte, decoded *Decoded, truncated bool) {
	match.ensureMetadata()
	match.setIfAbsent(MetaBytesSampled, len(sample))
	match.setIfAbsent(MetaSampleDigest, SampleDigest(sample))

	if decoded != nil {
		match.setIfAbsent(MetaEncoding, decoded.Encoding)
		match.addReason(fmt.Sprintf("decoded sample as %s text", decoded.Encoding))
	}
	if truncated {
		match.Metadata[MetaSampleTruncated] = true
		match.addReason("sample truncated at detector limit")
	}
	if d.exhausted {
		match.Metadata[MetaBudgetExhausted] = true
		match.addReason("aggregate sample budget exhausted")
	}
}

// ScanPath scans every regular file under root matching the glob pattern, in
// lexicographic path order for determinism. The aggregate budget is reset
// first unless resetBudget is false (for chaining multiple roots under one
// shared cap). The traversal stops early the moment the budget becomes
// exhausted; remaining files are skipped, not errors.
//
// Per-file I/O errors are routed through the error callback and do not abort
// the remaining traversal unless the callback escalates. Without a callback,
// the first I/O error aborts.
func (d *Detector) ScanPath(root, pattern string, resetBudget bool) ([]FileResult, error) {
	if resetBudget {
		d.ResetBudget()
	}
	if pattern == "" {
		pattern = "**/*"
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, d.routeIOError("stat", root, err)
	}
	if info.Mode().IsRegular() {
		match, err := d.ScanFile(root)
		if err != nil {
			return nil, err
		}
		if match == nil {
			return nil, nil
		}
		return []FileResult{{Path: root, Match: match}}, nil
	}

	paths, err := doublestar.Glob(os.DirFS(root), pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid glob pattern %q: %v", ErrInvalidConfig, pattern, err)
	}
	sort.Strings(paths)

	d.logger.Debug("scanning directory",
		"root", root,
		"pattern", pattern,
		"candidates", len(paths))

	var results []FileResult
	for _, rel := range paths {
		full := filepath.Join(root, filepath.FromSlash(rel))

		fi, err := os.Lstat(full)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}

		if d.exhausted {
			break
		}

		match, err := d.ScanFile(full)
		if err != nil {
			var cbe *CallbackError
			if errors.As(err, &cbe) {
				return results, err
			}
			var se *ScanError
			if errors.As(err, &se) && d.onError != nil && !errors.Is(err, ErrNotRegularFile) {
				// Callback was notified in ScanFile and chose not to
				// escalate; continue with the remaining files.
				continue
			}
			return results, err
		}
		if match != nil {
			results = append(results, FileResult{Path: full, Match: match})
		}
		if d.exhausted {
			break
		}
	}
	return results, nil
}

// routeIOError wraps an OS-level failure and routes it through the optional
// error callback. The callback's error, if any, replaces the scan error,
// wrapped in a *CallbackError so ScanPath can tell escalation apart from a
// declined *ScanError.
func (d *Detector) routeIOError(op, path string, err error) error {
	se := &ScanError{Op: op, Path: path, Err: err}
	if d.onError != nil {
		if cbErr := d.onError(se); cbErr != nil {
			return &CallbackError{Err: cbErr}
		}
	}
	return se
}

// relativeTo computes the profile-relative path for a scanned file: relative
// to root when root is a directory, else the bare filename. Always
// slash-separated.
func relativeTo(root string, rootIsDir bool, path string) string {
	if !rootIsDir {
		return filepath.Base(path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
