package tree

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

// Marker is the content written over a linked file. A file whose content
// starts with Marker is treated as already compacted.
var Marker = []byte("METACOMPACTOR-REPLACEMENT-FILE")

// Apply projects the links of root onto the filesystem: each linked file is
// deleted and rewritten to contain only Marker, unless it already starts
// with Marker. Files and directories are left alone.
//
// The link-to-canonical mapping is not written anywhere; only the in-memory
// tree can Restore what Apply replaced. Apply stops at the first error and
// does not undo earlier rewrites. It returns the number of files rewritten.
func Apply(root *Directory, opts ...Option) (int, error) {
	o := newOptions(opts)
	var rewritten int
	err := o.apply(root, &rewritten)
	return rewritten, err
}

func (o *options) apply(dir *Directory, rewritten *int) error {
	for _, child := range dir.Children() {
		switch n := child.(type) {
		case *Link:
			o.progress.SetDirectory(dir.Path())
			changed, err := o.mark(n)
			if err != nil {
				return err
			}
			if changed {
				*rewritten++
			}
			o.progress.Increment()
		case *File:
			o.logger.Debug("ignoring", zap.String("path", n.Path()))
		case *Directory:
			o.logger.Debug("descending", zap.String("path", n.Path()))
			if err := o.apply(n, rewritten); err != nil {
				return err
			}
		default:
			panic(fmt.Sprintf("tree: unknown node type %T", child))
		}
	}
	return nil
}

// mark replaces the file at link's path with Marker and reports whether it
// had to write anything.
func (o *options) mark(link *Link) (bool, error) {
	path := link.Path()

	marked, err := HasMarker(path)
	if err != nil {
		return false, err
	}
	if marked {
		o.logger.Debug("already marked", zap.String("path", path))
		return false, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("apply %s: %w", path, err)
	}

	o.logger.Debug("replacing", zap.String("path", path), zap.String("replacement", link.Replacement()))
	if err := os.Remove(path); err != nil {
		return false, fmt.Errorf("apply %s: %w", path, err)
	}
	if err := os.WriteFile(path, Marker, info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("apply %s: %w", path, err)
	}
	return true, nil
}

// HasMarker reports whether the file at path begins with Marker.
func HasMarker(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("read marker %s: %w", path, err)
	}
	defer file.Close()

	head := make([]byte, len(Marker))
	_, err = io.ReadFull(file, head)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read marker %s: %w", path, err)
	}
	return bytes.Equal(head, Marker), nil
}
