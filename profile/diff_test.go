package profile

import "testing"

func summaries(t *testing.T, profiles ...*Profile) []Summary {
	t.Helper()
	store := NewStore()
	for _, p := range profiles {
		if err := store.RegisterProfile(p); err != nil {
			t.Fatalf("RegisterProfile(%s) error = %v", p.Name, err)
		}
	}
	return store.Summary()
}

func TestDiffSummariesEmpty(t *testing.T) {
	base := summaries(t, &Profile{Name: "web", Configs: []Config{{ID: "a"}}})
	diff := DiffSummaries(base, base)
	if !diff.Empty() {
		t.Errorf("Expected an empty diff, got %+v", diff)
	}
	// Empty slices, not nil, so the JSON shape is stable.
	if diff.AddedProfiles == nil || diff.RemovedProfiles == nil || diff.ChangedProfiles == nil {
		t.Error("Expected initialized slices in an empty diff")
	}
}

func TestDiffSummaries(t *testing.T) {
	baseline := summaries(t,
		&Profile{Name: "web", Configs: []Config{{ID: "app-settings"}, {ID: "nginx-main"}}},
		&Profile{Name: "legacy", Configs: []Config{{ID: "old-ini"}}},
	)
	current := summaries(t,
		&Profile{Name: "web", Configs: []Config{{ID: "app-settings"}, {ID: "tls-cert"}}},
		&Profile{Name: "prod", Configs: []Config{{ID: "db-conn"}}},
	)

	diff := DiffSummaries(baseline, current)
	if diff.Empty() {
		t.Fatal("Expected a non-empty diff")
	}

	if len(diff.AddedProfiles) != 1 || diff.AddedProfiles[0] != "prod" {
		t.Errorf("Expected added profile prod, got %v", diff.AddedProfiles)
	}
	if len(diff.RemovedProfiles) != 1 || diff.RemovedProfiles[0] != "legacy" {
		t.Errorf("Expected removed profile legacy, got %v", diff.RemovedProfiles)
	}

	if len(diff.ChangedProfiles) != 1 {
		t.Fatalf("Expected 1 changed profile, got %+v", diff.ChangedProfiles)
	}
	delta := diff.ChangedProfiles[0]
	if delta.Name != "web" {
		t.Errorf("Expected changed profile web, got %s", delta.Name)
	}
	if len(delta.AddedConfigIDs) != 1 || delta.AddedConfigIDs[0] != "tls-cert" {
		t.Errorf("Expected added config tls-cert, got %v", delta.AddedConfigIDs)
	}
	if len(delta.RemovedConfigIDs) != 1 || delta.RemovedConfigIDs[0] != "nginx-main" {
		t.Errorf("Expected removed config nginx-main, got %v", delta.RemovedConfigIDs)
	}
	if delta.CountDelta != 0 {
		t.Errorf("Expected count delta 0 for a swap, got %d", delta.CountDelta)
	}
}

func TestDiffSummariesCountDelta(t *testing.T) {
	baseline := summaries(t, &Profile{Name: "web", Configs: []Config{{ID: "a"}}})
	current := summaries(t, &Profile{Name: "web", Configs: []Config{{ID: "a"}, {ID: "b"}, {ID: "c"}}})

	diff := DiffSummaries(baseline, current)
	if len(diff.ChangedProfiles) != 1 {
		t.Fatalf("Expected 1 changed profile, got %+v", diff.ChangedProfiles)
	}
	if diff.ChangedProfiles[0].CountDelta != 2 {
		t.Errorf("Expected count delta 2, got %d", diff.ChangedProfiles[0].CountDelta)
	}
}
