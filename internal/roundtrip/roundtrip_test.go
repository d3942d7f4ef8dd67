package roundtrip

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meta-compactor/internal/config"
)

func writeTree(t *testing.T, root string, files map[string][]byte) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, content, 0644))
	}
}

func sourceDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "data")
	writeTree(t, dir, map[string][]byte{
		"x.bin":         make([]byte, 16),
		"y.bin":         make([]byte, 16),
		"z.bin":         []byte("0123456789ABCDEF"),
		"deep/a/w.bin":  make([]byte, 16),
		"deep/b/z2.bin": []byte("0123456789ABCDEF"),
		"deep/empty":    nil,
	})
	return dir
}

func TestRun(t *testing.T) {
	dir := sourceDir(t)
	var out bytes.Buffer

	res, err := Run(context.Background(), dir, Options{Progress: &out})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Stats.Links)
	assert.Equal(t, 3, res.Rewritten)
	assert.Equal(t, 3, res.Restored)
	assert.Contains(t, out.String(), "(3/3)")

	_, err = os.Stat(res.Scratch)
	assert.ErrorIs(t, err, os.ErrNotExist, "scratch copy should be removed")

	// the source is never modified
	data, err := os.ReadFile(filepath.Join(dir, "y.bin"))
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 16), data)
}

func TestRun_KeepAndConfig(t *testing.T) {
	dir := sourceDir(t)
	cfg := config.DefaultConfig()
	cfg.Hash = "xxhash"
	cfg.BlockSize = 5
	cfg.Workers = 3

	res, err := Run(context.Background(), dir, Options{Config: cfg, Keep: true})
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(res.Scratch) })

	assert.Equal(t, 3, res.Restored)
	data, err := os.ReadFile(filepath.Join(res.Scratch, "deep", "a", "w.bin"))
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 16), data)
}

func TestRun_UnsupportedEntry(t *testing.T) {
	dir := sourceDir(t)
	require.NoError(t, os.Symlink("x.bin", filepath.Join(dir, "alias")))

	res, err := Run(context.Background(), dir, Options{})
	assert.Error(t, err)
	if res != nil {
		_, statErr := os.Stat(res.Scratch)
		assert.ErrorIs(t, statErr, os.ErrNotExist)
	}
}

func TestRun_MissingSource(t *testing.T) {
	_, err := Run(context.Background(), filepath.Join(t.TempDir(), "missing"), Options{})
	assert.Error(t, err)
}

func TestRun_CurrentDirectory(t *testing.T) {
	dir := sourceDir(t)
	t.Chdir(dir)

	res, err := Run(context.Background(), ".", Options{})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Restored)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), "_copy-", "scratch copy must not be created inside the source")
	}
}

func TestRun_HonoursExclude(t *testing.T) {
	dir := sourceDir(t)
	writeTree(t, dir, map[string][]byte{"cache/dup.tmp": make([]byte, 16)})

	res, err := Run(context.Background(), dir, Options{})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Stats.Links)

	cfg := config.DefaultConfig()
	cfg.Exclude = []string{"*.tmp"}
	res, err = Run(context.Background(), dir, Options{Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Stats.Links)
}

func TestScratchParent(t *testing.T) {
	parent, err := scratchParent("/data/photos")
	require.NoError(t, err)
	assert.Equal(t, "/data", parent)

	parent, err = scratchParent(string(filepath.Separator))
	if err == nil {
		assert.False(t, within(parent, string(filepath.Separator)))
	}

	assert.True(t, within("/a/b", "/a"))
	assert.True(t, within("/a", "/a"))
	assert.False(t, within("/ab", "/a"))
	assert.False(t, within("/", "/a"))
}
