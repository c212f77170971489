package confkit

import (
	"errors"
	"testing"
)

// stubRule is a minimal rule for registry and detector tests.
type stubRule struct {
	name     string
	priority int
	match    *Match
}

func (r *stubRule) Name() string     { return r.name }
func (r *stubRule) Priority() int    { return r.priority }
func (r *stubRule) Version() string  { return "0.0.1" }
func (r *stubRule) Detect(string, []byte, *Decoded) *Match {
	if r.match == nil {
		return nil
	}
	clone := *r.match
	return &clone
}

func TestRegistryRegister(t *testing.T) {
	reg := NewRegistry()

	a := &stubRule{name: "a", priority: 10}
	if err := reg.Register(a); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if reg.Len() != 1 {
		t.Errorf("Expected Len() 1, got %d", reg.Len())
	}

	// Re-registering the same instance is a no-op.
	if err := reg.Register(a); err != nil {
		t.Errorf("Register() same instance error = %v", err)
	}
	if reg.Len() != 1 {
		t.Errorf("Expected Len() 1 after re-register, got %d", reg.Len())
	}

	// A different rule under the same name collides.
	if err := reg.Register(&stubRule{name: "a", priority: 20}); !errors.Is(err, ErrNameCollision) {
		t.Errorf("Expected ErrNameCollision, got %v", err)
	}

	if err := reg.Register(nil); !errors.Is(err, ErrNilRule) {
		t.Errorf("Expected ErrNilRule for nil rule, got %v", err)
	}
}

func TestRegistrySnapshotOrder(t *testing.T) {
	reg := NewRegistry()
	for _, r := range []*stubRule{
		{name: "late", priority: 900},
		{name: "mid", priority: 40},
		{name: "early", priority: 10},
		{name: "mid2", priority: 40},
	} {
		if err := reg.Register(r); err != nil {
			t.Fatalf("Register(%s) error = %v", r.name, err)
		}
	}

	snap := reg.Snapshot()
	if len(snap) != 4 {
		t.Fatalf("Expected 4 rules, got %d", len(snap))
	}
	if snap[0].Name() != "early" || snap[3].Name() != "late" {
		t.Errorf("Expected priority order early..late, got %s..%s", snap[0].Name(), snap[3].Name())
	}
	// Equal priorities keep registration order.
	if snap[1].Name() != "mid" || snap[2].Name() != "mid2" {
		t.Errorf("Expected stable order for equal priorities, got %s, %s", snap[1].Name(), snap[2].Name())
	}
}
