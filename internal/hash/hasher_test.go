package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func TestHashFile_SmallFile(t *testing.T) {
	content := []byte("Hello, World!")
	path := writeFile(t, t.TempDir(), "test.txt", content)

	sum, err := HashFile(path, SHA256, DefaultBlockSize)
	require.NoError(t, err)

	expected := sha256.Sum256(content)
	assert.Equal(t, hex.EncodeToString(expected[:]), sum)
}

func TestHashFile_LargeFileCrossesBlocks(t *testing.T) {
	data := make([]byte, 1024*1024+17)
	for i := range data {
		data[i] = byte(i % 256)
	}
	path := writeFile(t, t.TempDir(), "large.bin", data)

	sum, err := HashFile(path, SHA256, 4096)
	require.NoError(t, err)

	expected := sha256.Sum256(data)
	assert.Equal(t, hex.EncodeToString(expected[:]), sum)
}

func TestHashFile_XXHash(t *testing.T) {
	content := []byte("test data")
	path := writeFile(t, t.TempDir(), "x.bin", content)

	sum, err := HashFile(path, XXHash, 0)
	require.NoError(t, err)

	h := xxhash.New()
	h.Write(content)
	assert.Equal(t, hex.EncodeToString(h.Sum(nil)), sum)
	assert.Len(t, sum, 16)
}

func TestHashFile_EmptyFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.txt", nil)

	sum, err := HashFile(path, SHA256, DefaultBlockSize)
	require.NoError(t, err)
	assert.Len(t, sum, sha256.Size*2)
}

func TestHashFile_IdenticalContentSameDigest(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.bin", []byte("same bytes"))
	b := writeFile(t, dir, "other-name.dat", []byte("same bytes"))

	sumA, err := HashFile(a, SHA256, DefaultBlockSize)
	require.NoError(t, err)
	sumB, err := HashFile(b, SHA256, DefaultBlockSize)
	require.NoError(t, err)
	assert.Equal(t, sumA, sumB)
}

func TestHashFile_NonExistent(t *testing.T) {
	_, err := HashFile("/nonexistent/file.txt", SHA256, DefaultBlockSize)
	assert.Error(t, err)
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		in      string
		want    Algorithm
		wantErr bool
	}{
		{"", SHA256, false},
		{"sha256", SHA256, false},
		{"xxhash", XXHash, false},
		{"md5", "", true},
	}

	for _, tt := range tests {
		got, err := ParseAlgorithm(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}
