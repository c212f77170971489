package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is the serialized catalog shape. Catalogs ship as YAML so format
// teams can review signature and severity changes in ordinary diffs.
type Document struct {
	Version string        `json:"version" yaml:"version"`
	Formats []FormatClass `json:"formats" yaml:"formats"`
}

// Load parses a YAML catalog document and builds a catalog from it.
func Load(data []byte) (*Catalog, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, NewValidationError(ErrorTypeCatalog,
			fmt.Sprintf("cannot parse catalog document: %v", err))
	}
	return New(doc.Version, doc.Formats)
}

// LoadFile reads and parses a YAML catalog file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(data)
}

// Document returns the catalog's serializable form, suitable for
// round-tripping through Load.
func (c *Catalog) Document() *Document {
	return &Document{
		Version: c.version,
		Formats: c.Classes(),
	}
}

// Encode renders the catalog as a YAML document.
func (c *Catalog) Encode() ([]byte, error) {
	return yaml.Marshal(c.Document())
}
