package tree

import "fmt"

// Stats summarises a tree.
type Stats struct {
	Files       int
	Directories int
	Links       int
	// LinkedBytes is the total size of the files replaced by links.
	LinkedBytes int64
}

// Reclaimable is the number of bytes Apply frees: each linked file shrinks
// to len(Marker). It can be negative when the duplicates are tiny.
func (s Stats) Reclaimable() int64 {
	return s.LinkedBytes - int64(s.Links)*int64(len(Marker))
}

// Collect counts the nodes under root. The root directory is included.
func Collect(root *Directory) Stats {
	var s Stats
	s.collect(root)
	return s
}

func (s *Stats) collect(dir *Directory) {
	s.Directories++
	for _, child := range dir.Children() {
		switch n := child.(type) {
		case *File:
			s.Files++
		case *Link:
			s.Links++
			s.LinkedBytes += n.Size()
		case *Directory:
			s.collect(n)
		default:
			panic(fmt.Sprintf("tree: unknown node type %T", child))
		}
	}
}
