package catalog

import (
	"testing"
)

func TestBuiltin(t *testing.T) {
	cat := Builtin()
	if cat.Version() != BuiltinVersion {
		t.Errorf("Expected version %s, got %s", BuiltinVersion, cat.Version())
	}

	fb := cat.Fallback()
	if fb == nil || fb.Slug != "unknown" {
		t.Fatalf("Expected unknown fallback class, got %+v", fb)
	}
	if fb.Severity != SeverityInfo {
		t.Errorf("Expected fallback severity info, got %s", fb.Severity)
	}

	for _, slug := range []string{"registry-export", "env-file", "pem", "sqlite", "xml", "shell-script", "json", "yaml", "toml", "ini", "unix-conf"} {
		if _, ok := cat.Resolve(slug); !ok {
			t.Errorf("Expected built-in class %q", slug)
		}
	}
}

func TestResolveAlias(t *testing.T) {
	cat := Builtin()

	class, ok := cat.Resolve("reg")
	if !ok {
		t.Fatal("Expected alias reg to resolve")
	}
	if class.Slug != "registry-export" {
		t.Errorf("Expected alias to resolve to registry-export, got %s", class.Slug)
	}

	if _, ok := cat.Resolve("nope-not-here"); ok {
		t.Error("Expected unknown identifier to fail resolution")
	}
}

func TestResolveVariant(t *testing.T) {
	cat := Builtin()

	sub, ok := cat.ResolveVariant("xml", "resource-xml")
	if !ok {
		t.Fatal("Expected resource-xml variant")
	}
	if sub.Severity != SeverityMedium {
		t.Errorf("Expected variant severity medium, got %s", sub.Severity)
	}

	// Variant aliases resolve too.
	if _, ok := cat.ResolveVariant("xml", "resx"); !ok {
		t.Error("Expected resx alias to resolve")
	}
	if _, ok := cat.ResolveVariant("xml", "unheard-of"); ok {
		t.Error("Expected unknown variant to fail resolution")
	}

	variants := cat.Variants("pem")
	if len(variants) != 3 {
		t.Errorf("Expected 3 pem variants, got %v", variants)
	}
}

func TestNewRejectsBadCatalogs(t *testing.T) {
	tests := []struct {
		name    string
		version string
		classes []FormatClass
	}{
		{"empty version", "", []FormatClass{{Name: "A", Slug: "a", Fallback: true}}},
		{"bad slug", "1.0.0", []FormatClass{{Name: "A", Slug: "Not A Slug", Fallback: true}}},
		{"duplicate slug", "1.0.0", []FormatClass{
			{Name: "A", Slug: "a", Fallback: true},
			{Name: "B", Slug: "a"},
		}},
		{"no fallback", "1.0.0", []FormatClass{{Name: "A", Slug: "a"}}},
		{"two fallbacks", "1.0.0", []FormatClass{
			{Name: "A", Slug: "a", Fallback: true},
			{Name: "B", Slug: "b", Fallback: true},
		}},
		{"alias collides", "1.0.0", []FormatClass{
			{Name: "A", Slug: "a", Aliases: []string{"b"}, Fallback: true},
			{Name: "B", Slug: "b"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.version, tt.classes); err == nil {
				t.Error("Expected New() to reject the catalog")
			} else if !IsValidationError(err) {
				t.Errorf("Expected a validation error, got %T", err)
			}
		})
	}
}

func TestNewValidCatalog(t *testing.T) {
	cat, err := New("2.0.0", []FormatClass{
		{Name: "Custom", Slug: "custom", Severity: SeverityHigh},
		{Name: "Rest", Slug: "rest", Fallback: true},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if len(cat.Classes()) != 2 {
		t.Errorf("Expected 2 classes, got %d", len(cat.Classes()))
	}
	if cat.Fallback().Slug != "rest" {
		t.Errorf("Expected fallback rest, got %s", cat.Fallback().Slug)
	}
}
