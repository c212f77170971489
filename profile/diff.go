package profile

import "sort"

// ProfileDelta records the structural changes to one profile present in both
// summary snapshots.
type ProfileDelta struct {
	Name             string   `json:"name"`
	AddedConfigIDs   []string `json:"added_config_ids"`
	RemovedConfigIDs []string `json:"removed_config_ids"`
	CountDelta       int      `json:"count_delta"`
}

// SummaryDiff is a purely structural comparison of two summary snapshots; it
// carries no semantic interpretation of config content.
type SummaryDiff struct {
	AddedProfiles   []string       `json:"added_profiles"`
	RemovedProfiles []string       `json:"removed_profiles"`
	ChangedProfiles []ProfileDelta `json:"changed_profiles"`
}

// Empty reports whether the diff records no structural change.
func (d *SummaryDiff) Empty() bool {
	return len(d.AddedProfiles) == 0 &&
		len(d.RemovedProfiles) == 0 &&
		len(d.ChangedProfiles) == 0
}

// DiffSummaries computes added/removed profile names between two snapshots
// and, for profiles present in both, the added/removed config-id sets and
// config count delta. Profiles with no structural change are omitted from
// ChangedProfiles.
func DiffSummaries(baseline, current []Summary) *SummaryDiff {
	base := make(map[string]Summary, len(baseline))
	for _, s := range baseline {
		base[s.Name] = s
	}
	cur := make(map[string]Summary, len(current))
	for _, s := range current {
		cur[s.Name] = s
	}

	diff := &SummaryDiff{
		AddedProfiles:   []string{},
		RemovedProfiles: []string{},
		ChangedProfiles: []ProfileDelta{},
	}

	for name := range cur {
		if _, ok := base[name]; !ok {
			diff.AddedProfiles = append(diff.AddedProfiles, name)
		}
	}
	for name := range base {
		if _, ok := cur[name]; !ok {
			diff.RemovedProfiles = append(diff.RemovedProfiles, name)
		}
	}
	sort.Strings(diff.AddedProfiles)
	sort.Strings(diff.RemovedProfiles)

	shared := make([]string, 0, len(cur))
	for name := range cur {
		if _, ok := base[name]; ok {
			shared = append(shared, name)
		}
	}
	sort.Strings(shared)

	for _, name := range shared {
		before, after := base[name], cur[name]
		added := missingFrom(after.ConfigIDs, before.ConfigIDs)
		removed := missingFrom(before.ConfigIDs, after.ConfigIDs)
		delta := after.ConfigCount - before.ConfigCount
		if len(added) == 0 && len(removed) == 0 && delta == 0 {
			continue
		}
		diff.ChangedProfiles = append(diff.ChangedProfiles, ProfileDelta{
			Name:             name,
			AddedConfigIDs:   added,
			RemovedConfigIDs: removed,
			CountDelta:       delta,
		})
	}
	return diff
}

// missingFrom returns the sorted elements of a not present in b.
func missingFrom(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, id := range b {
		set[id] = struct{}{}
	}
	out := []string{}
	for _, id := range a {
		if _, ok := set[id]; !ok {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
