package diag

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/fontdoctor/fontdoctor/internal/hashdb"
)

// VerifyOutcome classifies one font integrity check.
type VerifyOutcome int

const (
	// VerifyOK means the file digest matches its reference.
	VerifyOK VerifyOutcome = iota
	// VerifyNoReference means the database has no entry for the font.
	// Treated as a pass: absence of a reference asserts nothing.
	VerifyNoReference
	// VerifyMismatch means the file digest disagrees with the reference.
	VerifyMismatch
	// VerifyUnreadable means the file could not be read, so no digest
	// comparison was possible.
	VerifyUnreadable
)

// digestCacheSize bounds the memo of already-hashed files. Font sets are
// small; this comfortably covers repeated interactive runs.
const digestCacheSize = 512

// Verifier compares font files against a reference digest database. Digests
// are memoized by path, size, and mtime so unchanged files are hashed once
// per process.
type Verifier struct {
	source hashdb.Source
	cache  *lru.Cache[string, string]
}

// NewVerifier builds a Verifier over the given digest source.
func NewVerifier(source hashdb.Source) *Verifier {
	cache, err := lru.New[string, string](digestCacheSize)
	if err != nil {
		// lru.New errors only on a non-positive size.
		panic(err)
	}
	return &Verifier{source: source, cache: cache}
}

// BestEffort reports whether the underlying database is illustrative rather
// than authoritative.
func (v *Verifier) BestEffort() bool {
	return v.source.BestEffort()
}

// Verify hashes the font file at path and compares it against the reference
// entry for name. The returned error is non-nil only for VerifyUnreadable.
func (v *Verifier) Verify(path, name string) (VerifyOutcome, error) {
	want, ok := v.source.Lookup(name)
	if !ok {
		return VerifyNoReference, nil
	}

	got, err := v.digest(path)
	if err != nil {
		return VerifyUnreadable, err
	}
	if got != want {
		return VerifyMismatch, nil
	}
	return VerifyOK, nil
}

func (v *Verifier) digest(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano())
	if d, ok := v.cache.Get(key); ok {
		return d, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	d := strings.ToLower(hex.EncodeToString(h.Sum(nil)))
	v.cache.Add(key, d)
	return d, nil
}
