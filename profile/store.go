package profile

import (
	"fmt"
	"sort"
	"sync"
)

// Store owns all registered profiles and a flat config-identifier index. It
// rejects duplicate profile names and config identifiers at registration
// time and applies updates copy-on-write: a mutation is validated against a
// shadow index and atomically swapped in only on success, so callers never
// observe a partially-applied update.
//
// Concurrent mutation must be serialized by the caller; the store's own lock
// protects readers against a concurrent single writer.
type Store struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
	index    map[string]string // config id -> owning profile name
}

// Applied pairs a matching config with the profile that owns it.
type Applied struct {
	Profile string
	Config  Config
}

// Summary is a read-only snapshot of one profile, suitable for diffing.
type Summary struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	ConfigCount int      `json:"config_count"`
	ConfigIDs   []string `json:"config_ids"`
}

// NewStore creates an empty profile store
func NewStore() *Store {
	return &Store{
		profiles: make(map[string]*Profile),
		index:    make(map[string]string),
	}
}

// RegisterProfile adds a profile to the store. Registering the exact same
// profile instance again is a no-op; a different profile reusing the name
// fails with a duplicate_profile error, and any config identifier already
// indexed anywhere in the store fails with duplicate_config. On success
// every config identifier is indexed.
//
// The store takes ownership: callers must not mutate a registered profile.
func (s *Store) RegisterProfile(p *Profile) error {
	if p == nil {
		return NewStoreError(ErrorTypeInvalidProfile, "profile is nil")
	}
	if err := p.validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.profiles[p.Name]; ok {
		if existing == p {
			return nil
		}
		return NewStoreError(ErrorTypeDuplicateProfile,
			fmt.Sprintf("profile %q is already registered", p.Name))
	}
	for _, id := range p.ConfigIDs() {
		if owner, ok := s.index[id]; ok {
			return NewStoreError(ErrorTypeDuplicateConfig,
				fmt.Sprintf("config id %q is already registered by profile %q", id, owner))
		}
	}

	s.profiles[p.Name] = p
	for _, id := range p.ConfigIDs() {
		s.index[id] = p.Name
	}
	return nil
}

// Mutator transforms a cloned profile during UpdateProfile. Returning a nil
// profile fails the update with a mutator_result error.
type Mutator func(*Profile) (*Profile, error)

// UpdateProfile applies a mutator to a clone of the named profile,
// revalidates the candidate under the same rules as registration against a
// shadow index (the live index minus the original's entries), and atomically
// swaps it in. Any failure leaves the original profile and its index entries
// untouched.
func (s *Store) UpdateProfile(name string, mutate Mutator) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.profiles[name]
	if !ok {
		return NewStoreError(ErrorTypeUnknownProfile,
			fmt.Sprintf("profile %q is not registered", name))
	}

	candidate, err := mutate(original.Clone())
	if err != nil {
		return err
	}
	if candidate == nil {
		return NewStoreError(ErrorTypeMutatorResult,
			fmt.Sprintf("mutator for profile %q returned no profile", name))
	}
	if err := candidate.validate(); err != nil {
		return err
	}

	if candidate.Name != name {
		if _, taken := s.profiles[candidate.Name]; taken {
			return NewStoreError(ErrorTypeDuplicateProfile,
				fmt.Sprintf("cannot rename profile %q: %q is already registered", name, candidate.Name))
		}
	}

	// Shadow validation: the candidate's ids may reuse only identifiers
	// owned by the original.
	for _, id := range candidate.ConfigIDs() {
		if owner, taken := s.index[id]; taken && owner != name {
			return NewStoreError(ErrorTypeDuplicateConfig,
				fmt.Sprintf("config id %q is already registered by profile %q", id, owner))
		}
	}

	// Validation passed; swap atomically.
	for _, id := range original.ConfigIDs() {
		delete(s.index, id)
	}
	delete(s.profiles, name)

	s.profiles[candidate.Name] = candidate
	for _, id := range candidate.ConfigIDs() {
		s.index[id] = candidate.Name
	}
	return nil
}

// RemoveConfig removes one config from a profile, expressed as an
// UpdateProfile mutation. Fails with unknown_config when the identifier is
// absent from the profile.
func (s *Store) RemoveConfig(profileName, configID string) error {
	return s.UpdateProfile(profileName, func(p *Profile) (*Profile, error) {
		for i, cfg := range p.Configs {
			if cfg.ID == configID {
				p.Configs = append(p.Configs[:i], p.Configs[i+1:]...)
				return p, nil
			}
		}
		return nil, NewStoreError(ErrorTypeUnknownConfig,
			fmt.Sprintf("profile %q has no config %q", profileName, configID))
	})
}

// Profile returns a clone of the named profile.
func (s *Store) Profile(name string) (*Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[name]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// Names returns the registered profile names in alphabetical order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.profiles))
	for name := range s.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered profiles.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

// ConfigOwner returns the profile name owning a config identifier.
func (s *Store) ConfigOwner(configID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	owner, ok := s.index[configID]
	return owner, ok
}

// MatchConfigs returns every (profile, config) pair whose predicates match a
// relative path under the provided tag set. Profiles are visited in
// alphabetical order and configs in declaration order, so results are
// deterministic for a fixed store.
func (s *Store) MatchConfigs(relPath string, tags []string) []Applied {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.profiles))
	for name := range s.profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	var matched []Applied
	for _, name := range names {
		p := s.profiles[name]
		if !p.ActiveFor(tags) {
			continue
		}
		for _, cfg := range p.Configs {
			if cfg.Matches(relPath, tags) {
				// Detached copy; mutating the result must not reach the store.
				matched = append(matched, Applied{Profile: name, Config: cfg.Clone()})
			}
		}
	}
	return matched
}

// Summary returns an alphabetically-ordered snapshot of every profile with
// sorted tags and config identifiers.
func (s *Store) Summary() []Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Summary, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, Summary{
			Name:        p.Name,
			Description: p.Description,
			Tags:        sortedCopy(p.Tags),
			ConfigCount: len(p.Configs),
			ConfigIDs:   sortedCopy(p.ConfigIDs()),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
