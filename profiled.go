package confkit

import (
	"fmt"
	"os"

	"github.com/gobeaver/confkit/profile"
)

// Profile-config metadata switch that clears review flags on matched files.
const MetaIgnoreReviewFlags = "ignore_review_flags"

// AppliedConfig identifies one profile config whose predicates matched a
// scanned path, together with its declared expectation.
type AppliedConfig struct {
	Profile         string `json:"profile"`
	ConfigID        string `json:"config_id"`
	ExpectedFormat  string `json:"expected_format,omitempty"`
	ExpectedVariant string `json:"expected_variant,omitempty"`
}

// ProfiledDetection joins a path's detection match with the profile configs
// that matched it. FormatDrift is set when any applied config expected a
// different format than was detected.
type ProfiledDetection struct {
	Path         string          `json:"path"`
	RelativePath string          `json:"relative_path"`
	Match        *Match          `json:"match"`
	Applied      []AppliedConfig `json:"applied_configs,omitempty"`
	FormatDrift  bool            `json:"format_drift,omitempty"`
}

// ScanWithProfiles runs ScanPath and annotates each result with the profile
// configs matching its profile-relative path under the given tag set. The
// relative path is computed against root when root is a directory, else it
// is the bare filename.
//
// When any matched config carries the ignore_review_flags metadata switch
// and the match was flagged needs_review, the flag is cleared and replaced
// with an explicit review_ignored marker naming the overriding config so
// the override stays visible in the output.
func (d *Detector) ScanWithProfiles(root string, store *profile.Store, tags []string, pattern string) ([]ProfiledDetection, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: nil profile store", ErrInvalidConfig)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, d.routeIOError("stat", root, err)
	}
	rootIsDir := info.IsDir()

	results, err := d.ScanPath(root, pattern, true)
	if err != nil {
		return nil, err
	}

	annotated := make([]ProfiledDetection, 0, len(results))
	for _, res := range results {
		rel := relativeTo(root, rootIsDir, res.Path)
		matched := store.MatchConfigs(rel, tags)

		det := ProfiledDetection{
			Path:         res.Path,
			RelativePath: rel,
			Match:        res.Match,
		}
		for _, applied := range matched {
			det.Applied = append(det.Applied, AppliedConfig{
				Profile:         applied.Profile,
				ConfigID:        applied.Config.ID,
				ExpectedFormat:  applied.Config.ExpectedFormat,
				ExpectedVariant: applied.Config.ExpectedVariant,
			})
			if applied.Config.ExpectedFormat != "" && applied.Config.ExpectedFormat != res.Match.Format {
				det.FormatDrift = true
			}
			if ignoresReviewFlags(applied.Config) {
				overrideReviewFlag(res.Match, applied.Config.ID)
			}
		}
		annotated = append(annotated, det)
	}
	return annotated, nil
}

// ignoresReviewFlags reports whether a config declares the review override
// switch. Any one matching config wins; the configs are not required to
// agree.
func ignoresReviewFlags(cfg profile.Config) bool {
	v, ok := cfg.Metadata[MetaIgnoreReviewFlags]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// overrideReviewFlag clears a needs_review flag, leaving an auditable
// marker in its place. The original signal is never silently dropped.
func overrideReviewFlag(match *Match, configID string) {
	if match.Metadata == nil {
		return
	}
	flagged, ok := match.Metadata[MetaNeedsReview].(bool)
	if !ok || !flagged {
		return
	}
	delete(match.Metadata, MetaNeedsReview)
	match.Metadata[MetaReviewIgnored] = true
	match.Metadata[MetaReviewIgnoredBy] = configID
	match.Reasons = append(match.Reasons,
		NormalizeReason(fmt.Sprintf("review flag overridden by profile config %s", configID)))
}
