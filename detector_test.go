package confkit

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s) error = %v", name, err)
	}
	return path
}

func newTestDetector(t *testing.T, cfg DetectorConfig, rules ...Rule) *Detector {
	t.Helper()
	reg := NewRegistry()
	for _, r := range rules {
		if err := reg.Register(r); err != nil {
			t.Fatalf("Register(%s) error = %v", r.Name(), err)
		}
	}
	det, err := NewDetector(reg, nil, cfg)
	if err != nil {
		t.Fatalf("NewDetector() error = %v", err)
	}
	return det
}

func TestNewDetectorConfig(t *testing.T) {
	reg := NewRegistry()

	if _, err := NewDetector(reg, nil, DetectorConfig{SampleSize: -1}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for negative sample size, got %v", err)
	}
	if _, err := NewDetector(reg, nil, DetectorConfig{SampleBudget: -1}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for negative budget, got %v", err)
	}

	det, err := NewDetector(reg, nil, DetectorConfig{})
	if err != nil {
		t.Fatalf("NewDetector() error = %v", err)
	}
	if det.SampleSize() != DefaultSampleSize {
		t.Errorf("Expected default sample size %d, got %d", DefaultSampleSize, det.SampleSize())
	}
	if det.SampleBudget() != DefaultSampleBudget {
		t.Errorf("Expected default budget %d, got %d", DefaultSampleBudget, det.SampleBudget())
	}

	// Oversized per-file samples clamp to the ceiling instead of failing.
	det, err = NewDetector(reg, nil, DetectorConfig{SampleSize: MaxSampleSize * 4})
	if err != nil {
		t.Fatalf("NewDetector() error = %v", err)
	}
	if det.SampleSize() != MaxSampleSize {
		t.Errorf("Expected clamped sample size %d, got %d", MaxSampleSize, det.SampleSize())
	}
}

func TestScanFileFirstMatchWins(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "app.yaml", "name: demo\n")

	det := newTestDetector(t, DetectorConfig{},
		&stubRule{name: "late", priority: 50, match: &Match{Format: "ini", Confidence: 0.9}},
		&stubRule{name: "early", priority: 10, match: &Match{Format: "yaml", Confidence: 0.6}},
		&stubRule{name: "never", priority: 5},
	)

	match, err := det.ScanFile(path)
	if err != nil {
		t.Fatalf("ScanFile() error = %v", err)
	}
	if match == nil {
		t.Fatal("Expected a match")
	}
	if match.Plugin != "early" {
		t.Errorf("Expected lowest-priority matching rule to win, got plugin %q", match.Plugin)
	}
	if match.Format != "yaml" {
		t.Errorf("Expected format yaml, got %q", match.Format)
	}
}

func TestScanFileEnrichment(t *testing.T) {
	dir := t.TempDir()
	content := "name: demo\n"
	path := writeTestFile(t, dir, "app.yaml", content)

	det := newTestDetector(t, DetectorConfig{},
		&stubRule{name: "r", priority: 10, match: &Match{Format: "yaml", Confidence: 0.8, Reasons: []string{"matched mapping"}}},
	)

	match, err := det.ScanFile(path)
	if err != nil {
		t.Fatalf("ScanFile() error = %v", err)
	}

	if got := match.Metadata[MetaBytesSampled]; got != len(content) {
		t.Errorf("Expected bytes_sampled %d, got %v", len(content), got)
	}
	if got, ok := match.Metadata[MetaSampleDigest].(string); !ok || len(got) != 16 {
		t.Errorf("Expected 16-char sample digest, got %v", match.Metadata[MetaSampleDigest])
	}
	if got := match.Metadata[MetaEncoding]; got != "utf-8" {
		t.Errorf("Expected encoding utf-8, got %v", got)
	}
	if got := match.Metadata["catalog_format"]; got != "yaml" {
		t.Errorf("Expected catalog_format yaml, got %v", got)
	}

	// Reasons come back normalized.
	found := false
	for _, r := range match.Reasons {
		if r == "Matched Mapping" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected normalized reason, got %v", match.Reasons)
	}
}

func TestScanFileTruncation(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "big.yaml", strings.Repeat("key: value\n", 100))

	det := newTestDetector(t, DetectorConfig{SampleSize: 64},
		&stubRule{name: "r", priority: 10, match: &Match{Format: "yaml", Confidence: 0.8}},
	)

	match, err := det.ScanFile(path)
	if err != nil {
		t.Fatalf("ScanFile() error = %v", err)
	}
	if got := match.Metadata[MetaSampleTruncated]; got != true {
		t.Errorf("Expected sample_truncated true, got %v", got)
	}
	if got := match.Metadata[MetaBytesSampled]; got != 64 {
		t.Errorf("Expected bytes_sampled 64, got %v", got)
	}
}

func TestScanFileNotRegular(t *testing.T) {
	det := newTestDetector(t, DetectorConfig{})

	_, err := det.ScanFile(t.TempDir())
	if !IsNotRegularFile(err) {
		t.Errorf("Expected not-a-regular-file error, got %v", err)
	}
	var se *ScanError
	if !errors.As(err, &se) {
		t.Errorf("Expected *ScanError, got %T", err)
	}
}

func TestScanFileMissingRoutesCallback(t *testing.T) {
	sentinel := errors.New("escalated")
	var observed *ScanError

	det := newTestDetector(t, DetectorConfig{
		OnError: func(se *ScanError) error {
			observed = se
			return sentinel
		},
	})

	_, err := det.ScanFile(filepath.Join(t.TempDir(), "missing.conf"))
	if !errors.Is(err, sentinel) {
		t.Errorf("Expected callback error to replace the scan error, got %v", err)
	}
	if observed == nil || observed.Op != "stat" {
		t.Errorf("Expected callback to observe the stat failure, got %+v", observed)
	}
}

func TestScanFileCallbackReraise(t *testing.T) {
	// A callback that hands back the very *ScanError it received is still an
	// escalation, distinguishable from the declined case by the wrapper type.
	det := newTestDetector(t, DetectorConfig{
		OnError: func(se *ScanError) error { return se },
	})

	_, err := det.ScanFile(filepath.Join(t.TempDir(), "missing.conf"))

	var cbe *CallbackError
	if !errors.As(err, &cbe) {
		t.Fatalf("Expected *CallbackError, got %T: %v", err, err)
	}
	if !IsScanError(cbe.Err) {
		t.Errorf("Expected the wrapped error to stay a scan error, got %v", cbe.Err)
	}
	if !IsScanError(err) {
		t.Errorf("Expected errors.As to reach the scan error through the wrapper")
	}
}

func TestScanPathCallbackEscalationAborts(t *testing.T) {
	sentinel := errors.New("stop the scan")
	det := newTestDetector(t, DetectorConfig{
		OnError: func(se *ScanError) error { return se },
	})

	// A missing root routes through the callback like any other I/O failure.
	_, err := det.ScanPath(filepath.Join(t.TempDir(), "gone"), "**/*", true)
	var cbe *CallbackError
	if !errors.As(err, &cbe) {
		t.Errorf("Expected escalation to surface as *CallbackError, got %T: %v", err, err)
	}

	det = newTestDetector(t, DetectorConfig{
		OnError: func(se *ScanError) error { return sentinel },
	})
	if _, err := det.ScanPath(filepath.Join(t.TempDir(), "gone"), "**/*", true); !errors.Is(err, sentinel) {
		t.Errorf("Expected the callback's own error to propagate, got %v", err)
	}
}

func TestScanPathBudgetExhaustion(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.txt", strings.Repeat("a", 100))
	writeTestFile(t, dir, "b.txt", strings.Repeat("b", 100))
	writeTestFile(t, dir, "c.txt", strings.Repeat("c", 100))

	det := newTestDetector(t, DetectorConfig{SampleSize: 1024, SampleBudget: 150},
		&stubRule{name: "r", priority: 10, match: &Match{Format: "unknown", Confidence: 0.1}},
	)

	results, err := det.ScanPath(dir, "**/*", true)
	if err != nil {
		t.Fatalf("ScanPath() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results before exhaustion, got %d", len(results))
	}
	if !det.BudgetExhausted() {
		t.Error("Expected budget to be exhausted")
	}
	if det.BytesConsumed() != 150 {
		t.Errorf("Expected 150 bytes consumed, got %d", det.BytesConsumed())
	}

	// The file that crossed the budget is flagged.
	last := results[1].Match
	if got := last.Metadata[MetaBudgetExhausted]; got != true {
		t.Errorf("Expected sample_budget_exhausted on the crossing file, got %v", got)
	}

	// Scanning with an exhausted budget is a state, not an error.
	match, err := det.ScanFile(results[0].Path)
	if err != nil {
		t.Errorf("ScanFile() after exhaustion error = %v", err)
	}
	if match != nil {
		t.Errorf("Expected nil match after exhaustion, got %+v", match)
	}

	det.ResetBudget()
	if det.BudgetExhausted() || det.BytesConsumed() != 0 {
		t.Error("Expected ResetBudget to restore the full budget")
	}
}

func TestScanPathOrderAndRelativeGlob(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	writeTestFile(t, dir, "z.conf", "x 1\n")
	writeTestFile(t, dir, "a.conf", "x 1\n")
	writeTestFile(t, filepath.Join(dir, "nested"), "m.conf", "x 1\n")

	det := newTestDetector(t, DetectorConfig{},
		&stubRule{name: "r", priority: 10, match: &Match{Format: "unix-conf", Confidence: 0.5}},
	)

	results, err := det.ScanPath(dir, "**/*", true)
	if err != nil {
		t.Fatalf("ScanPath() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}

	want := []string{
		filepath.Join(dir, "a.conf"),
		filepath.Join(dir, "nested", "m.conf"),
		filepath.Join(dir, "z.conf"),
	}
	for i, res := range results {
		if res.Path != want[i] {
			t.Errorf("Expected results[%d] = %s, got %s", i, want[i], res.Path)
		}
	}

	// A narrower pattern restricts the candidate set.
	results, err = det.ScanPath(dir, "*.conf", true)
	if err != nil {
		t.Fatalf("ScanPath() error = %v", err)
	}
	if len(results) != 2 {
		t.Errorf("Expected 2 top-level results, got %d", len(results))
	}
}

func TestScanPathSingleFileRoot(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "single.yaml", "a: 1\n")

	det := newTestDetector(t, DetectorConfig{},
		&stubRule{name: "r", priority: 10, match: &Match{Format: "yaml", Confidence: 0.8}},
	)

	results, err := det.ScanPath(path, "", true)
	if err != nil {
		t.Fatalf("ScanPath() error = %v", err)
	}
	if len(results) != 1 || results[0].Path != path {
		t.Errorf("Expected the single file as its own result, got %+v", results)
	}
}

func TestScanFileValidationFailurePropagates(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "a.txt", "hello\n")

	det := newTestDetector(t, DetectorConfig{},
		&stubRule{name: "r", priority: 10, match: &Match{Format: "made-up-format", Confidence: 0.9}},
	)

	if _, err := det.ScanFile(path); err == nil {
		t.Error("Expected strict catalog validation to reject an unknown format")
	}

	lenient := newTestDetector(t, DetectorConfig{Lenient: true},
		&stubRule{name: "r", priority: 10, match: &Match{Format: "made-up-format", Confidence: 0.9}},
	)
	match, err := lenient.ScanFile(path)
	if err != nil {
		t.Fatalf("ScanFile() lenient error = %v", err)
	}
	if got := match.Metadata["catalog_format"]; got != "made-up-format" {
		t.Errorf("Expected lenient mode to accept the identifier, got %v", got)
	}
}
