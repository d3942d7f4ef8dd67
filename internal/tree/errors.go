package tree

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedKind is returned by Index for entries that are neither
	// regular files nor directories (symlinks, devices, sockets, pipes).
	ErrUnsupportedKind = errors.New("unsupported entry kind")
	ErrNotDirectory    = errors.New("not a directory")
)

// InvariantError is the panic value raised when a link would join two files
// with different checksums.
type InvariantError struct {
	Path                string
	Checksum            string
	Replacement         string
	ReplacementChecksum string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("tree invariant violated: %s (%s) cannot link to %s (%s)",
		e.Path, e.Checksum, e.Replacement, e.ReplacementChecksum)
}
