package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string][]byte{
		"a":     seq(100),
		"b":     seq(100),
		"s/c":   seq(100),
		"s/d":   seq(10),
		"s/t/e": nil,
	})
	root := indexDir(t, dir)

	before := Collect(root)
	assert.Equal(t, Stats{Files: 5, Directories: 3}, before)

	_, err := Prune(root)
	require.NoError(t, err)

	after := Collect(root)
	assert.Equal(t, 3, after.Files)
	assert.Equal(t, 3, after.Directories)
	assert.Equal(t, 2, after.Links)
	assert.Equal(t, int64(200), after.LinkedBytes)
	assert.Equal(t, int64(200-2*len(Marker)), after.Reclaimable())
}
