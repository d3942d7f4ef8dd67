package tree

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Index builds a tree from the filesystem at root: a *File for a regular
// file, a populated *Directory for a directory. Any other entry kind,
// including symlinks, fails the whole pass with ErrUnsupportedKind.
//
// Children appear in the order os.ReadDir returns them (sorted by name).
// Prune picks canonical files by that order.
func Index(root string, opts ...Option) (Node, error) {
	o := newOptions(opts)
	root = filepath.Clean(root)
	return o.index(root, root, root, nil)
}

// IndexDirectory is Index for a root that must be a directory.
func IndexDirectory(root string, opts ...Option) (*Directory, error) {
	node, err := Index(root, opts...)
	if err != nil {
		return nil, err
	}
	dir, ok := node.(*Directory)
	if !ok {
		return nil, fmt.Errorf("index %s: %w", root, ErrNotDirectory)
	}
	return dir, nil
}

func (o *options) index(rootPath, path, name string, parent *Directory) (Node, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, fmt.Errorf("index %s: %w", path, err)
	}

	switch mode := info.Mode(); {
	case mode.IsRegular():
		f := NewFile(name, parent, o.algo, o.blockSize)
		f.size = info.Size()
		return f, nil

	case mode.IsDir():
		dir := NewDirectory(name, parent)
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("index %s: %w", path, err)
		}
		for _, e := range entries {
			childPath := filepath.Join(path, e.Name())
			relPath, err := filepath.Rel(rootPath, childPath)
			if err != nil {
				return nil, fmt.Errorf("index %s: %w", childPath, err)
			}
			if shouldExclude(relPath, e.IsDir(), o.exclude) {
				o.logger.Debug("excluded", zap.String("path", childPath))
				continue
			}
			child, err := o.index(rootPath, childPath, e.Name(), dir)
			if err != nil {
				return nil, err
			}
			dir.Add(child)
		}
		return dir, nil

	default:
		return nil, fmt.Errorf("index %s (%s): %w", path, mode.Type(), ErrUnsupportedKind)
	}
}
