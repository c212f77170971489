package rules

import (
	"bytes"
	"database/sql"
	"encoding/binary"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite"

	"github.com/gobeaver/confkit"
)

// sqliteMagic is the 16-byte header every sqlite database file starts with.
var sqliteMagic = []byte("SQLite format 3\x00")

// SQLiteRule detects sqlite database files by magic header and enriches the
// match with a best-effort table count read through the sqlite driver. The
// probe is fail-soft: a locked, corrupt, or unreadable database still
// matches on the header alone.
type SQLiteRule struct {
	probe bool
}

// NewSQLiteRule returns the sqlite rule with the table-count probe enabled.
func NewSQLiteRule() *SQLiteRule {
	return &SQLiteRule{probe: true}
}

// Name returns the rule's unique name
func (r *SQLiteRule) Name() string { return "sqlite" }

// Priority returns the rule's evaluation priority
func (r *SQLiteRule) Priority() int { return 25 }

// Version returns the rule's semantic version
func (r *SQLiteRule) Version() string { return BuiltinVersion }

// Detect matches the sqlite magic header.
func (r *SQLiteRule) Detect(path string, sample []byte, _ *confkit.Decoded) *confkit.Match {
	if len(sample) < len(sqliteMagic) || !bytes.Equal(sample[:len(sqliteMagic)], sqliteMagic) {
		return nil
	}

	m := &confkit.Match{
		Format:     "sqlite",
		Confidence: 0.97,
		Reasons:    []string{"sqlite magic header present"},
		Metadata:   map[string]any{},
	}
	if len(sample) >= 18 {
		pageSize := int(binary.BigEndian.Uint16(sample[16:18]))
		if pageSize == 1 {
			pageSize = 65536
		}
		m.Metadata["page_size"] = pageSize
	}

	if r.probe {
		if count, err := tableCount(path); err == nil {
			m.Metadata["table_count"] = count
			m.Reasons = append(m.Reasons, fmt.Sprintf("enumerated %d tables", count))
		}
	}
	return m
}

// tableCount opens the database read-only and counts its tables.
func tableCount(path string) (int, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&immutable=1", url.PathEscape(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	var count int
	row := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table'`)
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
