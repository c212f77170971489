package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the serialized profile store shape:
//
//	{"profiles": [{"name", "description", "tags", "metadata", "configs": [...]}]}
//
// Round-tripping a store through this schema reproduces an equivalent store
// (profile and config sets, not object identity).
type Document struct {
	Profiles []*Profile `json:"profiles" yaml:"profiles"`
}

// Export returns the store's serializable form with profiles in
// alphabetical order.
func (s *Store) Export() *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.profiles))
	for name := range s.profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	doc := &Document{Profiles: make([]*Profile, 0, len(names))}
	for _, name := range names {
		p := s.profiles[name].Clone()
		if p.Tags == nil {
			p.Tags = []string{}
		}
		for i := range p.Configs {
			if p.Configs[i].Tags == nil {
				p.Configs[i].Tags = []string{}
			}
		}
		doc.Profiles = append(doc.Profiles, p)
	}
	return doc
}

// NewStoreFromDocument builds a store from a serialized document, applying
// the same duplicate checks as registration.
func NewStoreFromDocument(doc *Document) (*Store, error) {
	store := NewStore()
	for _, p := range doc.Profiles {
		if err := store.RegisterProfile(p.Clone()); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// EncodeJSON renders the store as an indented JSON document.
func (s *Store) EncodeJSON() ([]byte, error) {
	return json.MarshalIndent(s.Export(), "", "  ")
}

// DecodeJSON builds a store from a JSON document.
func DecodeJSON(data []byte) (*Store, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, NewStoreError(ErrorTypeInvalidProfile,
			fmt.Sprintf("cannot parse profile document: %v", err))
	}
	return NewStoreFromDocument(&doc)
}

// DecodeYAML builds a store from a YAML document of the same shape.
func DecodeYAML(data []byte) (*Store, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, NewStoreError(ErrorTypeInvalidProfile,
			fmt.Sprintf("cannot parse profile document: %v", err))
	}
	return NewStoreFromDocument(&doc)
}

// LoadFile reads a profile document from disk, selecting the decoder by
// extension: .yaml/.yml use YAML, everything else JSON.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return DecodeJSON(data)
	}
}
