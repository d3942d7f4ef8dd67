package tree

import (
	"go.uber.org/zap"
)

// registry maps a checksum to the canonical file first seen with it. One
// registry lives for exactly one Prune call and spans the whole tree.
type registry struct {
	canonical map[string]*File
	linked    int
	logger    *zap.Logger
}

// Prune rewrites root in place so that no two reachable File nodes share a
// checksum. Within a directory, file children are handled in enumeration
// order before any subdirectory is entered; the first file seen with a
// checksum stays canonical and every later one becomes a *Link to it.
// Duplicates are found across the whole tree, not only among siblings.
//
// Prune reads files to hash them but never modifies the disk. It returns
// the number of links created; a tree that is already pruned yields zero.
func Prune(root *Directory, opts ...Option) (int, error) {
	o := newOptions(opts)
	reg := &registry{
		canonical: make(map[string]*File),
		logger:    o.logger,
	}

	if err := reg.prune(root); err != nil {
		return reg.linked, err
	}

	o.logger.Info("pruned tree",
		zap.String("root", root.Path()),
		zap.Int("canonical", len(reg.canonical)),
		zap.Int("linked", reg.linked))
	return reg.linked, nil
}

func (r *registry) prune(dir *Directory) error {
	for _, f := range dir.Files() {
		sum, err := f.Checksum()
		if err != nil {
			return err
		}

		canonical, seen := r.canonical[sum]
		if !seen {
			r.canonical[sum] = f
			continue
		}

		link, err := NewLink(f, canonical)
		if err != nil {
			return err
		}
		dir.replace(f, link)
		r.linked++
		r.logger.Debug("linked",
			zap.String("path", link.Path()),
			zap.String("replacement", link.Replacement()))
	}

	for _, sub := range dir.Directories() {
		if err := r.prune(sub); err != nil {
			return err
		}
	}
	return nil
}
