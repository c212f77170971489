package rules

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gobeaver/confkit"
	"github.com/gobeaver/confkit/catalog"
)

// BuiltinVersion is the version stamped on every built-in rule.
const BuiltinVersion = "1.0.0"

// Builtin constructs the full set of built-in rules in priority order.
func Builtin() ([]confkit.Rule, error) {
	specs := []TableSpec{
		registrySpec,
		envFileSpec,
		pemSpec,
		xmlSpec,
		shellSpec,
		jsonSpec,
		yamlSpec,
		tomlSpec,
		iniSpec,
		unixConfSpec,
	}

	out := make([]confkit.Rule, 0, len(specs)+2)
	for _, spec := range specs {
		r, err := NewTableRule(spec)
		if err != nil {
			return nil, fmt.Errorf("building rule %s: %w", spec.Name, err)
		}
		out = append(out, r)
	}
	out = append(out, NewSQLiteRule())
	out = append(out, NewFallbackRule("unknown"))
	return out, nil
}

// RegisterBuiltin registers every built-in rule on a registry.
func RegisterBuiltin(reg *confkit.Registry) error {
	builtin, err := Builtin()
	if err != nil {
		return err
	}
	for _, r := range builtin {
		if err := reg.Register(r); err != nil {
			return err
		}
	}
	return nil
}

var registrySpec = TableSpec{
	Name:           "registry-export",
	Priority:       10,
	Version:        BuiltinVersion,
	Format:         "registry-export",
	BaseConfidence: 0.55,
	TextOnly:       true,
	Signatures: []Signature{
		{
			Kind:    catalog.SignaturePrefixRegex,
			Pattern: `^Windows Registry Editor Version 5\.00`,
			Weight:  0.4,
			Reason:  "windows registry editor 5.00 header signature",
			Variant: "regedit5",
		},
		{
			Kind:    catalog.SignaturePrefixRegex,
			Pattern: `^REGEDIT4`,
			Weight:  0.4,
			Reason:  "REGEDIT4 header signature",
			Variant: "regedit4",
		},
		{
			Kind:    catalog.SignatureContainsRegex,
			Pattern: `(?m)^\[-?HKEY_`,
			Weight:  0.05,
			Reason:  "registry hive section header",
		},
	},
	Extensions:      []string{".reg"},
	ExtensionWeight: 0.05,
}

var envFileSpec = TableSpec{
	Name:           "env-file",
	Priority:       15,
	Version:        BuiltinVersion,
	Format:         "env-file",
	BaseConfidence: 0.5,
	TextOnly:       true,
	MinHits:        2,
	Signatures: []Signature{
		{
			Kind:     catalog.SignatureContainsRegex,
			Pattern:  `(?m)^(export\s+)?[A-Za-z_][A-Za-z0-9_]*=`,
			Weight:   0.25,
			Reason:   "shell-style variable assignments",
			Required: true,
		},
		{
			Kind:    catalog.SignatureNegatedRegex,
			Pattern: `(?m)^\s*\[[^\]\n]+\]\s*$`,
		},
		{
			Kind:    catalog.SignatureNegatedRegex,
			Pattern: `^#!`,
		},
	},
	Probe: envFileProbe,
}

// envFileProbe adds confidence only for filenames that look like dotenv
// files; the assignment signature alone is too weak to beat later rules for
// arbitrary text.
func envFileProbe(path string, _ []byte, _ *confkit.Decoded) *ProbeResult {
	base := strings.ToLower(filepath.Base(path))
	if base == ".env" || strings.HasPrefix(base, ".env.") || strings.HasSuffix(base, ".env") {
		return &ProbeResult{
			Weight:  0.35,
			Reasons: []string{"dotenv file name"},
		}
	}
	return nil
}

var pemSpec = TableSpec{
	Name:           "pem",
	Priority:       20,
	Version:        BuiltinVersion,
	Format:         "pem",
	BaseConfidence: 0.45,
	TextOnly:       true,
	Signatures: []Signature{
		{
			Kind:     catalog.SignatureContainsRegex,
			Pattern:  `-----BEGIN [A-Z0-9 ]+-----`,
			Weight:   0.5,
			Reason:   "pem armor boundary present",
			Required: true,
		},
		{
			Kind:    catalog.SignatureContainsRegex,
			Pattern: `-----BEGIN (RSA |DSA |EC |ENCRYPTED |OPENSSH )?PRIVATE KEY-----`,
			Weight:  0.05,
			Reason:  "private key block",
			Variant: "private-key",
		},
		{
			Kind:    catalog.SignatureContainsRegex,
			Pattern: `-----BEGIN CERTIFICATE-----`,
			Weight:  0.05,
			Reason:  "certificate block",
			Variant: "certificate",
		},
		{
			Kind:    catalog.SignatureContainsRegex,
			Pattern: `-----BEGIN (RSA |EC )?PUBLIC KEY-----`,
			Weight:  0.05,
			Reason:  "public key block",
			Variant: "public-key",
		},
	},
	Extensions:      []string{".pem", ".key", ".crt", ".cer", ".pub"},
	ExtensionWeight: 0.05,
	Probe:           pemReviewProbe,
}

var pemPrivateKey = regexp.MustCompile(`-----BEGIN (RSA |DSA |EC |ENCRYPTED |OPENSSH )?PRIVATE KEY-----`)

// pemReviewProbe flags private key material for review; downstream profile
// configs may override the flag explicitly.
func pemReviewProbe(_ string, _ []byte, text *confkit.Decoded) *ProbeResult {
	if text == nil || !pemPrivateKey.MatchString(text.Text) {
		return nil
	}
	return &ProbeResult{
		Metadata: map[string]any{confkit.MetaNeedsReview: true},
	}
}

var xmlSpec = TableSpec{
	Name:           "xml",
	Priority:       30,
	Version:        BuiltinVersion,
	Format:         "xml",
	BaseConfidence: 0.5,
	TextOnly:       true,
	Signatures: []Signature{
		{
			Kind:     catalog.SignaturePrefixRegex,
			Pattern:  `^\s*<`,
			Weight:   0,
			Required: true,
		},
		{
			Kind:    catalog.SignaturePrefixRegex,
			Pattern: `^\s*<\?xml`,
			Weight:  0.25,
			Reason:  "xml declaration present",
		},
		{
			Kind:    catalog.SignatureContainsRegex,
			Pattern: `(?i)<resheader\b`,
			Weight:  0.1,
			Reason:  "resource xml resheader element",
			Variant: "resource-xml",
		},
		{
			Kind:    catalog.SignatureContainsRegex,
			Pattern: `(?i)<configuration(\s|>)`,
			Weight:  0.1,
			Reason:  "application configuration root element",
			Variant: "app-config",
		},
		{
			Kind:    catalog.SignatureContainsRegex,
			Pattern: `(?i)<!DOCTYPE plist|<plist\b`,
			Weight:  0.1,
			Reason:  "property list declaration",
			Variant: "plist",
		},
		{
			Kind:    catalog.SignatureContainsRegex,
			Pattern: `schemas\.microsoft\.com/developer/msbuild`,
			Weight:  0.1,
			Reason:  "msbuild project namespace",
			Variant: "msbuild-project",
		},
	},
	Extensions:      []string{".xml", ".config", ".resx", ".plist", ".csproj"},
	ExtensionWeight: 0.1,
	Probe:           xmlProbe,
}

// xmlProbe confirms the sample tokenizes as xml. It reads a small fixed
// number of tokens rather than the whole document; a truncated sample
// still yields well-formed leading tokens.
func xmlProbe(_ string, _ []byte, text *confkit.Decoded) *ProbeResult {
	if text == nil {
		return nil
	}
	dec := xml.NewDecoder(strings.NewReader(text.Text))
	dec.Strict = false
	seen := 0
	for seen < 8 {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil
		}
		if _, ok := tok.(xml.StartElement); ok {
			seen++
		}
	}
	if seen == 0 {
		return nil
	}
	return &ProbeResult{
		Weight:  0.15,
		Reasons: []string{"parsed leading xml elements"},
	}
}

var shellSpec = TableSpec{
	Name:           "shell-script",
	Priority:       35,
	Version:        BuiltinVersion,
	Format:         "shell-script",
	BaseConfidence: 0.7,
	TextOnly:       true,
	Signatures: []Signature{
		{
			Kind:     catalog.SignaturePrefixRegex,
			Pattern:  `^#!`,
			Weight:   0.25,
			Reason:   "shebang interpreter line",
			Required: true,
		},
	},
	Extensions:      []string{".sh", ".bash", ".zsh"},
	ExtensionWeight: 0.05,
	Probe:           shebangProbe,
}

var shebangInterpreters = []struct {
	pattern *regexp.Regexp
	variant string
}{
	{regexp.MustCompile(`^#![^\n]*\bpython[0-9.]*\b`), "python"},
	{regexp.MustCompile(`^#![^\n]*\bperl\b`), "perl"},
	{regexp.MustCompile(`^#![^\n]*\b(sh|bash|zsh|ksh|dash)\b`), "posix-shell"},
}

func shebangProbe(_ string, _ []byte, text *confkit.Decoded) *ProbeResult {
	if text == nil {
		return nil
	}
	for _, it := range shebangInterpreters {
		if it.pattern.MatchString(text.Text) {
			return &ProbeResult{Variant: it.variant}
		}
	}
	return nil
}

var jsonSpec = TableSpec{
	Name:           "json",
	Priority:       40,
	Version:        BuiltinVersion,
	Format:         "json",
	BaseConfidence: 0.5,
	TextOnly:       true,
	Signatures: []Signature{
		{
			Kind:     catalog.SignaturePrefixRegex,
			Pattern:  `^\s*[\[{]`,
			Weight:   0,
			Required: true,
		},
	},
	Extensions:      []string{".json"},
	ExtensionWeight: 0.15,
	Probe:           jsonProbe,
}

var appSettingsName = regexp.MustCompile(`(?i)^appsettings(\.[A-Za-z0-9_.-]+)?\.json$`)

func jsonProbe(path string, _ []byte, text *confkit.Decoded) *ProbeResult {
	if text == nil || !json.Valid([]byte(text.Text)) {
		return nil
	}
	res := &ProbeResult{
		Weight:  0.35,
		Reasons: []string{"parsed as json document"},
	}
	if appSettingsName.MatchString(filepath.Base(path)) {
		res.Variant = "appsettings"
		res.Reasons = append(res.Reasons, "appsettings file name")
	}
	return res
}

var yamlSpec = TableSpec{
	Name:           "yaml",
	Priority:       50,
	Version:        BuiltinVersion,
	Format:         "yaml",
	BaseConfidence: 0.35,
	TextOnly:       true,
	Signatures: []Signature{
		{
			Kind:    catalog.SignaturePrefixRegex,
			Pattern: `^---(\r?\n|\s|$)`,
			Weight:  0.25,
			Reason:  "yaml document start marker",
		},
		{
			Kind:    catalog.SignatureContainsRegex,
			Pattern: `(?m)^[A-Za-z0-9_.-]+:(\s|$)`,
			Weight:  0.15,
			Reason:  "top-level key-value mapping lines",
		},
	},
	Extensions:      []string{".yaml", ".yml"},
	ExtensionWeight: 0.15,
	Probe:           yamlProbe,
}

func yamlProbe(_ string, _ []byte, text *confkit.Decoded) *ProbeResult {
	if text == nil {
		return nil
	}
	var doc map[string]any
	if err := yaml.Unmarshal([]byte(text.Text), &doc); err != nil || len(doc) == 0 {
		return nil
	}
	return &ProbeResult{
		Weight:  0.2,
		Reasons: []string{"parsed as yaml mapping"},
	}
}

var tomlSpec = TableSpec{
	Name:           "toml",
	Priority:       55,
	Version:        BuiltinVersion,
	Format:         "toml",
	BaseConfidence: 0.5,
	TextOnly:       true,
	RequireExts:    []string{".toml"},
	Signatures: []Signature{
		{
			Kind:    catalog.SignatureContainsRegex,
			Pattern: `(?m)^\s*\[[A-Za-z0-9_."'\- ]+\]\s*$`,
			Weight:  0.2,
			Reason:  "dotted table header",
		},
		{
			Kind:    catalog.SignatureContainsRegex,
			Pattern: `(?m)^\s*[A-Za-z0-9_.-]+\s*=\s*\S`,
			Weight:  0.2,
			Reason:  "bare-key assignments",
		},
	},
	Extensions:      []string{".toml"},
	ExtensionWeight: 0.1,
}

var iniSpec = TableSpec{
	Name:           "ini",
	Priority:       60,
	Version:        BuiltinVersion,
	Format:         "ini",
	BaseConfidence: 0.4,
	TextOnly:       true,
	MinHits:        2,
	Signatures: []Signature{
		{
			Kind:    catalog.SignatureContainsRegex,
			Pattern: `(?m)^\s*\[[^\]\n]+\]\s*$`,
			Weight:  0.25,
			Reason:  "bracketed section header",
		},
		{
			Kind:    catalog.SignatureContainsRegex,
			Pattern: `(?m)^\s*[^=\s\[;#][^=\n]*=`,
			Weight:  0.15,
			Reason:  "key-value assignment lines",
		},
	},
	Extensions:      []string{".ini", ".cfg", ".cnf"},
	ExtensionWeight: 0.15,
}

var unixConfSpec = TableSpec{
	Name:           "unix-conf",
	Priority:       70,
	Version:        BuiltinVersion,
	Format:         "unix-conf",
	BaseConfidence: 0.35,
	TextOnly:       true,
	MinHits:        2,
	Signatures: []Signature{
		{
			Kind:    catalog.SignatureContainsRegex,
			Pattern: `(?m)^\s*#`,
			Weight:  0.15,
			Reason:  "hash comment lines",
		},
		{
			Kind:    catalog.SignatureContainsRegex,
			Pattern: `(?m)^[A-Za-z][A-Za-z0-9_.-]*(\s+\S+)+\s*$`,
			Weight:  0.2,
			Reason:  "whitespace-delimited directive lines",
		},
	},
	Extensions:      []string{".conf", ".cf"},
	ExtensionWeight: 0.2,
}
