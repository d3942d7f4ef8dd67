package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	stdhash "hash"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// DefaultBlockSize is the read size used when streaming file content.
const DefaultBlockSize = 4096

// Algorithm names a content digest.
type Algorithm string

const (
	SHA256 Algorithm = "sha256"
	XXHash Algorithm = "xxhash"
)

// ParseAlgorithm maps a configuration value to an Algorithm. The empty
// string selects SHA256.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(name) {
	case "", SHA256:
		return SHA256, nil
	case XXHash:
		return XXHash, nil
	default:
		return "", fmt.Errorf("unknown hash algorithm %q", name)
	}
}

// New returns a fresh digest for the algorithm.
func (a Algorithm) New() (stdhash.Hash, error) {
	switch a {
	case "", SHA256:
		return sha256.New(), nil
	case XXHash:
		return xxhash.New(), nil
	default:
		return nil, fmt.Errorf("unknown hash algorithm %q", string(a))
	}
}

// HashFile computes the digest of a file, streaming it in blockSize reads,
// and returns it hex encoded.
func HashFile(path string, algo Algorithm, blockSize int) (string, error) {
	h, err := algo.New()
	if err != nil {
		return "", err
	}
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	buf := make([]byte, blockSize)
	for {
		n, err := file.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
