package tree

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string][]byte) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, content, 0644))
	}
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func indexDir(t *testing.T, root string, opts ...Option) *Directory {
	t.Helper()
	dir, err := IndexDirectory(root, opts...)
	require.NoError(t, err)
	return dir
}

func child(t *testing.T, dir *Directory, name string) Node {
	t.Helper()
	for _, c := range dir.Children() {
		if c.Name() == name {
			return c
		}
	}
	t.Fatalf("no child %q in %s", name, dir.Path())
	return nil
}

func seq(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}

// makeTestData lays out a few levels of directories filled with a random
// pick of a small set of contents, so most files have duplicates somewhere.
func makeTestData(t *testing.T, root string) {
	t.Helper()
	names := []string{"a", "b", "c", "d"}
	contents := [][]byte{seq(128), seq(64), seq(32), seq(16), seq(4096 + 100), nil}
	rnd := rand.New(rand.NewSource(0x1337abcd))

	var makedir func(path string, depth int)
	makedir = func(path string, depth int) {
		require.NoError(t, os.MkdirAll(path, 0755))
		for _, name := range names {
			if rnd.Intn(2) == 1 {
				data := contents[rnd.Intn(len(contents))]
				require.NoError(t, os.WriteFile(filepath.Join(path, name+".bin"), data, 0644))
			}
		}
		if depth < 2 {
			for _, name := range names {
				makedir(filepath.Join(path, name), depth+1)
			}
		}
	}
	for _, name := range names {
		makedir(filepath.Join(root, name), 0)
	}
}
