package catalog

// BuiltinVersion is the version string of the built-in catalog.
const BuiltinVersion = "1.0.0"

// builtinClasses is the built-in format catalog, ordered by ascending class
// priority to mirror rule evaluation order.
var builtinClasses = []FormatClass{
	{
		Name:       "Windows Registry Export",
		Slug:       "registry-export",
		Priority:   10,
		Severity:   SeverityHigh,
		Extensions: []string{".reg"},
		Aliases:    []string{"reg", "windows-registry"},
		Signatures: []Signature{
			{Kind: SignaturePrefixRegex, Pattern: `^Windows Registry Editor Version 5\.00`},
			{Kind: SignaturePrefixRegex, Pattern: `^REGEDIT4`},
			{Kind: SignatureContainsRegex, Pattern: `(?m)^\[HKEY_`},
		},
		Subtypes: []Subtype{
			{Name: "Registry Editor 5.00", Variant: "regedit5"},
			{Name: "REGEDIT4", Variant: "regedit4"},
		},
		Remediation: []RemediationHint{
			{
				ID:       "registry-export-secrets",
				Category: "secret-hunting",
				Summary:  "registry exports frequently embed service credentials and license keys; review value data before sharing",
			},
		},
	},
	{
		Name:       "Environment File",
		Slug:       "env-file",
		Priority:   15,
		Severity:   SeverityHigh,
		Extensions: []string{".env"},
		Aliases:    []string{"dotenv"},
		Signatures: []Signature{
			{Kind: SignatureContainsRegex, Pattern: `(?m)^[A-Z][A-Z0-9_]*=`},
		},
		Remediation: []RemediationHint{
			{
				ID:       "env-file-secrets",
				Category: "secret-hunting",
				Summary:  "dotenv files are a primary secret sink; rotate any committed credentials and move them to a secret store",
			},
		},
	},
	{
		Name:       "PEM Encoded Material",
		Slug:       "pem",
		Priority:   20,
		Severity:   SeverityCritical,
		Extensions: []string{".pem", ".crt", ".key"},
		Aliases:    []string{"pem-bundle"},
		Signatures: []Signature{
			{Kind: SignatureContainsRegex, Pattern: `-----BEGIN [A-Z ]+-----`},
		},
		Subtypes: []Subtype{
			{Name: "Private Key", Variant: "private-key", Severity: SeverityCritical},
			{Name: "Certificate", Variant: "certificate", Severity: SeverityHigh, Aliases: []string{"cert"}},
			{Name: "Public Key", Variant: "public-key", Severity: SeverityMedium},
		},
		Remediation: []RemediationHint{
			{
				ID:       "pem-key-material",
				Category: "secret-hunting",
				Summary:  "private key material must never live in configuration trees; revoke and reissue if exposed",
			},
		},
	},
	{
		Name:       "SQLite Database",
		Slug:       "sqlite",
		Priority:   25,
		Severity:   SeverityMedium,
		Extensions: []string{".db", ".sqlite", ".sqlite3"},
		Aliases:    []string{"sqlite3"},
		Signatures: []Signature{
			{Kind: SignatureMagicAtOffset, Pattern: "SQLite format 3\x00", Offset: 0},
		},
		Remediation: []RemediationHint{
			{
				ID:       "sqlite-embedded-settings",
				Category: "drift-audit",
				Summary:  "embedded databases can carry per-machine settings invisible to text diffing; export relevant tables for auditing",
			},
		},
	},
	{
		Name:       "XML Document",
		Slug:       "xml",
		Priority:   30,
		Severity:   SeverityLow,
		Extensions: []string{".xml", ".config", ".resx", ".plist", ".csproj"},
		Signatures: []Signature{
			{Kind: SignaturePrefixRegex, Pattern: `^\s*<\?xml`},
			{Kind: SignaturePrefixRegex, Pattern: `^\s*<`},
			{Kind: SignatureParseProbe},
		},
		Subtypes: []Subtype{
			{
				Name:     "Resource XML",
				Variant:  "resource-xml",
				Aliases:  []string{"resx"},
				Severity: SeverityMedium,
				Signatures: []Signature{
					{Kind: SignatureContainsRegex, Pattern: `(?i)<resheader\b`},
				},
			},
			{
				Name:     "Application Config",
				Variant:  "app-config",
				Severity: SeverityMedium,
				Signatures: []Signature{
					{Kind: SignatureContainsRegex, Pattern: `(?i)<configuration(\s|>)`},
				},
			},
			{
				Name:    "Property List",
				Variant: "plist",
				Signatures: []Signature{
					{Kind: SignatureContainsRegex, Pattern: `(?i)<!DOCTYPE plist|<plist\b`},
				},
			},
			{
				Name:    "MSBuild Project",
				Variant: "msbuild-project",
				Signatures: []Signature{
					{Kind: SignatureContainsRegex, Pattern: `schemas\.microsoft\.com/developer/msbuild`},
				},
			},
		},
		Remediation: []RemediationHint{
			{
				ID:       "xml-config-drift",
				Category: "drift-audit",
				Summary:  "compare against the committed template; connection strings and appSettings sections drift most often",
			},
		},
	},
	{
		Name:       "Shell Script",
		Slug:       "shell-script",
		Priority:   35,
		Severity:   SeverityMedium,
		Extensions: []string{".sh", ".bash", ".zsh"},
		Aliases:    []string{"script"},
		Signatures: []Signature{
			{Kind: SignaturePrefixRegex, Pattern: `^#!`},
		},
		Subtypes: []Subtype{
			{Name: "POSIX Shell", Variant: "posix-shell", Aliases: []string{"sh"}},
			{Name: "Python", Variant: "python"},
			{Name: "Perl", Variant: "perl"},
		},
		Remediation: []RemediationHint{
			{
				ID:       "script-inline-secrets",
				Category: "secret-hunting",
				Summary:  "scripts in configuration trees often inline tokens and connection strings; scan before distribution",
			},
		},
	},
	{
		Name:       "JSON Document",
		Slug:       "json",
		Priority:   40,
		Severity:   SeverityLow,
		Extensions: []string{".json"},
		Signatures: []Signature{
			{Kind: SignaturePrefixRegex, Pattern: `^\s*[\[{]`},
			{Kind: SignatureParseProbe},
		},
		Subtypes: []Subtype{
			{Name: "App Settings", Variant: "appsettings", Severity: SeverityMedium},
		},
		Remediation: []RemediationHint{
			{
				ID:       "json-config-drift",
				Category: "drift-audit",
				Summary:  "canonicalize before diffing; key order and whitespace changes mask real drift",
			},
		},
	},
	{
		Name:       "YAML Document",
		Slug:       "yaml",
		Priority:   50,
		Severity:   SeverityLow,
		Extensions: []string{".yaml", ".yml"},
		Aliases:    []string{"yml"},
		Signatures: []Signature{
			{Kind: SignaturePrefixRegex, Pattern: `^---(\s|$)`},
			{Kind: SignatureContainsRegex, Pattern: `(?m)^[A-Za-z0-9_.-]+:(\s|$)`},
			{Kind: SignatureParseProbe},
		},
		Remediation: []RemediationHint{
			{
				ID:       "yaml-anchor-review",
				Category: "drift-audit",
				Summary:  "resolve anchors and aliases before comparing; indentation-only edits are usually noise",
			},
		},
	},
	{
		Name:       "TOML Document",
		Slug:       "toml",
		Priority:   55,
		Severity:   SeverityLow,
		Extensions: []string{".toml"},
		Signatures: []Signature{
			{Kind: SignatureContainsRegex, Pattern: `(?m)^\s*\[[A-Za-z0-9_.\- "']+\]\s*$`},
			{Kind: SignatureContainsRegex, Pattern: `(?m)^\s*[A-Za-z0-9_.-]+\s*=\s*\S`},
		},
	},
	{
		Name:       "INI Configuration",
		Slug:       "ini",
		Priority:   60,
		Severity:   SeverityMedium,
		Extensions: []string{".ini", ".cfg", ".cnf"},
		Signatures: []Signature{
			{Kind: SignatureContainsRegex, Pattern: `(?m)^\s*\[[^\]\n]+\]\s*$`},
			{Kind: SignatureContainsRegex, Pattern: `(?m)^\s*[^=\s\[][^=\n]*=`},
		},
		Remediation: []RemediationHint{
			{
				ID:       "ini-credential-keys",
				Category: "secret-hunting",
				Summary:  "look for password, token, and key entries; INI files rarely support secret references",
			},
		},
	},
	{
		Name:       "Unix Configuration",
		Slug:       "unix-conf",
		Priority:   70,
		Severity:   SeverityMedium,
		Extensions: []string{".conf", ".cf"},
		Aliases:    []string{"conf"},
		Signatures: []Signature{
			{Kind: SignatureContainsRegex, Pattern: `(?m)^#`},
			{Kind: SignatureContainsRegex, Pattern: `(?m)^[A-Za-z][\w.-]*\s+\S`},
		},
		Remediation: []RemediationHint{
			{
				ID:       "unix-conf-divergence",
				Category: "drift-audit",
				Summary:  "diff against the package-shipped default; comment-only changes can hide directive edits",
			},
		},
	},
	{
		Name:     "Unknown Content",
		Slug:     "unknown",
		Priority: 900,
		Severity: SeverityInfo,
		Aliases:  []string{"binary", "opaque"},
		Fallback: true,
		Signatures: []Signature{
			{Kind: SignatureNonTextRatio, Threshold: 0.10},
		},
		Remediation: []RemediationHint{
			{
				ID:       "unknown-content-review",
				Category: "triage",
				Summary:  "no signature matched; inspect manually if the file is expected to be configuration",
			},
		},
	},
}

var builtin *Catalog

func init() {
	c, err := New(BuiltinVersion, builtinClasses)
	if err != nil {
		// The built-in table is static; a construction failure is a
		// programming error caught by the package tests.
		panic(err)
	}
	builtin = c
}

// Builtin returns the built-in catalog. The returned catalog is shared and
// immutable.
func Builtin() *Catalog {
	return builtin
}
