package confkit

import (
	"fmt"
	"sort"
	"sync"
)

// Decoded is the text view of a sample when the sampler classified it as
// text-like. Encoding names the candidate encoding that produced Text.
type Decoded struct {
	Text     string
	Encoding string
}

// Rule is one named, prioritized classification strategy. Implementations
// must be pure with respect to detector state: Detect inspects only the
// provided path, sample bytes, and decoded text (nil for binary samples),
// and returns nil when the rule does not apply.
//
// Rules must not perform their own file I/O beyond what the sampler already
// provided, except where structured content genuinely requires it (e.g.
// opening a database file to count tables); such probes must fail soft and
// return a match without the probed detail on any I/O error.
type Rule interface {
	// Name returns the rule's stable, unique identifier.
	Name() string

	// Priority orders rule evaluation; lower values are evaluated first.
	Priority() int

	// Version is the rule's semantic version string.
	Version() string

	// Detect classifies a sample, returning nil when the rule does not match.
	Detect(path string, sample []byte, text *Decoded) *Match
}

// Registry is an ordered collection of classification rules. Registration is
// append-only with name uniqueness enforcement; there is no unregistration
// primitive. Populated at start-up and read-only during scanning.
type Registry struct {
	mu     sync.RWMutex
	rules  []Rule
	byName map[string]Rule
}

// NewRegistry creates an empty rule registry
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Rule),
	}
}

// Register adds a rule to the registry. Registering the exact same rule
// instance again is a no-op; a different rule declaring an already-used name
// fails with ErrNameCollision.
func (r *Registry) Register(rule Rule) error {
	if rule == nil {
		return ErrNilRule
	}
	name := rule.Name()
	if name == "" {
		return fmt.Errorf("%w: empty rule name", ErrNameCollision)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byName[name]; ok {
		if existing == rule {
			return nil
		}
		return fmt.Errorf("%w: %q", ErrNameCollision, name)
	}

	r.byName[name] = rule
	r.rules = append(r.rules, rule)
	return nil
}

// Snapshot returns a read-only copy of the registered rules sorted by
// ascending priority. The sort is stable: ties preserve registration order.
func (r *Registry) Snapshot() []Rule {
	r.mu.RLock()
	snapshot := make([]Rule, len(r.rules))
	copy(snapshot, r.rules)
	r.mu.RUnlock()

	sort.SliceStable(snapshot, func(i, j int) bool {
		return snapshot[i].Priority() < snapshot[j].Priority()
	})
	return snapshot
}

// Len returns the number of registered rules
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}

// Names returns the registered rule names in registration order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.rules))
	for i, rule := range r.rules {
		names[i] = rule.Name()
	}
	return names
}
