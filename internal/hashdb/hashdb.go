// Package hashdb provides the reference-digest database the integrity
// verifier compares font files against. The database is versioned and
// injectable: the embedded copy ships best-effort placeholder digests, and an
// authoritative database can be supplied from disk without code changes.
package hashdb

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed reference_hashes.yaml
var embeddedDB []byte

// Source is what the integrity verifier depends on.
type Source interface {
	// Lookup returns the expected hex digest for a canonical font file name.
	// ok is false when the database has no entry, in which case corruption
	// cannot be asserted.
	Lookup(name string) (digest string, ok bool)

	// BestEffort reports whether the digests are illustrative rather than
	// authoritative; it softens the wording of mismatch findings.
	BestEffort() bool
}

// DB is a YAML-backed digest database.
type DB struct {
	Version        int               `yaml:"version"`
	Algorithm      string            `yaml:"algorithm"`
	BestEffortFlag bool              `yaml:"best_effort"`
	Fonts          map[string]string `yaml:"fonts"`
}

// Lookup implements Source.
func (db *DB) Lookup(name string) (string, bool) {
	d, ok := db.Fonts[name]
	return strings.ToLower(d), ok
}

// BestEffort implements Source.
func (db *DB) BestEffort() bool {
	return db.BestEffortFlag
}

// Len returns the number of reference entries.
func (db *DB) Len() int {
	return len(db.Fonts)
}

// Parse reads a digest database from YAML bytes.
func Parse(data []byte) (*DB, error) {
	var db DB
	if err := yaml.Unmarshal(data, &db); err != nil {
		return nil, fmt.Errorf("parse hash database: %w", err)
	}
	if db.Version == 0 {
		return nil, fmt.Errorf("hash database missing version")
	}
	if db.Algorithm == "" {
		db.Algorithm = "sha256"
	}
	if db.Algorithm != "sha256" {
		return nil, fmt.Errorf("unsupported hash algorithm %q", db.Algorithm)
	}
	return &db, nil
}

// Load reads a digest database from a file.
func Load(path string) (*DB, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read hash database %s: %w", path, err)
	}
	return Parse(data)
}

var (
	embeddedOnce sync.Once
	embedded     *DB
)

// Embedded returns the built-in best-effort database.
func Embedded() *DB {
	embeddedOnce.Do(func() {
		db, err := Parse(embeddedDB)
		if err != nil {
			// The embedded file is compiled in; a parse failure is a
			// build defect, not a runtime condition.
			panic(fmt.Sprintf("embedded hash database invalid: %v", err))
		}
		embedded = db
	})
	return embedded
}
