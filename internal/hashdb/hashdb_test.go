package hashdb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedded_ParsesAndIsBestEffort(t *testing.T) {
	db := Embedded()
	assert.True(t, db.BestEffort())
	assert.Equal(t, 1, db.Version)
	assert.Greater(t, db.Len(), 0)

	digest, ok := db.Lookup("DejaVuSans.ttf")
	require.True(t, ok)
	assert.Len(t, digest, 64)
}

func TestLookup_MissingEntry(t *testing.T) {
	_, ok := Embedded().Lookup("NoSuchFont.ttf")
	assert.False(t, ok)
}

func TestLookup_NormalizesCase(t *testing.T) {
	db := &DB{Version: 1, Fonts: map[string]string{"A.ttf": "ABCDEF"}}
	digest, ok := db.Lookup("A.ttf")
	require.True(t, ok)
	assert.Equal(t, "abcdef", digest)
}

func TestParse_RejectsMissingVersion(t *testing.T) {
	_, err := Parse([]byte("fonts:\n  A.ttf: abc\n"))
	assert.Error(t, err)
}

func TestParse_RejectsUnknownAlgorithm(t *testing.T) {
	_, err := Parse([]byte("version: 1\nalgorithm: md5\n"))
	assert.Error(t, err)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.yaml")
	body := `
version: 2
best_effort: false
fonts:
  Custom.ttf: "00ff"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	db, err := Load(path)
	require.NoError(t, err)
	assert.False(t, db.BestEffort())
	assert.Equal(t, 2, db.Version)

	digest, ok := db.Lookup("Custom.ttf")
	require.True(t, ok)
	assert.Equal(t, "00ff", digest)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
