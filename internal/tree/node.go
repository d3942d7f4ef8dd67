package tree

import (
	"fmt"
	"path/filepath"
	"sync"

	"meta-compactor/internal/hash"
)

// Kind identifies which of the three node variants a Node is.
type Kind uint8

const (
	KindFile Kind = iota
	KindDirectory
	KindLink
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	case KindLink:
		return "file link"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Node is an entry of an indexed tree. The set of implementations is closed:
// *File, *Directory and *Link. Walks switch on the concrete type and panic on
// anything else.
type Node interface {
	Name() string
	Parent() *Directory
	Path() string
	Kind() Kind

	sealed()
}

// entry holds what every node variant shares. The parent pointer is a back
// reference only; ownership runs from a Directory down to its children.
type entry struct {
	name   string
	parent *Directory
}

func (e *entry) Name() string { return e.name }

func (e *entry) Parent() *Directory { return e.parent }

// Path joins ancestor names from the root down. The root's name is the path
// it was indexed from, so child paths are usable directly on disk.
func (e *entry) Path() string {
	if e.parent == nil {
		return e.name
	}
	return filepath.Join(e.parent.Path(), e.name)
}

func (e *entry) sealed() {}

// File is a regular file. Its checksum is computed on first access and kept
// for the life of the node; later changes on disk are not noticed.
type File struct {
	entry
	size      int64
	algo      hash.Algorithm
	blockSize int

	mu       sync.Mutex
	checksum string
}

// NewFile creates a file node hashed with algo. It does not touch the disk
// and does not add itself to parent.
func NewFile(name string, parent *Directory, algo hash.Algorithm, blockSize int) *File {
	return &File{
		entry:     entry{name: name, parent: parent},
		algo:      algo,
		blockSize: blockSize,
	}
}

func (f *File) Kind() Kind { return KindFile }

// Size is the byte size recorded when the file was indexed.
func (f *File) Size() int64 { return f.size }

// Checksum returns the hex digest of the file content, reading the file the
// first time it is called. Failed reads are not cached.
func (f *File) Checksum() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.checksum != "" {
		return f.checksum, nil
	}

	sum, err := hash.HashFile(f.Path(), f.algo, f.blockSize)
	if err != nil {
		return "", fmt.Errorf("checksum %s: %w", f.Path(), err)
	}
	f.checksum = sum
	return sum, nil
}

// Directory owns an ordered list of children.
type Directory struct {
	entry
	children []Node
}

func NewDirectory(name string, parent *Directory) *Directory {
	return &Directory{entry: entry{name: name, parent: parent}}
}

func (d *Directory) Kind() Kind { return KindDirectory }

// Add appends child. The child must have been created with d as its parent.
func (d *Directory) Add(child Node) {
	if child.Parent() != d {
		panic(fmt.Sprintf("tree: %s added to %s but its parent is another directory", child.Name(), d.Path()))
	}
	d.children = append(d.children, child)
}

// Children returns the child list in enumeration order. Callers must not
// modify the returned slice.
func (d *Directory) Children() []Node { return d.children }

// Files returns the File children, skipping links and directories.
func (d *Directory) Files() []*File {
	var files []*File
	for _, child := range d.children {
		if f, ok := child.(*File); ok {
			files = append(files, f)
		}
	}
	return files
}

func (d *Directory) Directories() []*Directory {
	var dirs []*Directory
	for _, child := range d.children {
		if sub, ok := child.(*Directory); ok {
			dirs = append(dirs, sub)
		}
	}
	return dirs
}

// replace swaps old for link at the same position in the child list.
func (d *Directory) replace(old *File, link *Link) bool {
	for i, child := range d.children {
		if child == Node(old) {
			d.children[i] = link
			return true
		}
	}
	return false
}

// Link stands in for a File whose content duplicates an earlier canonical
// file. It keeps the replaced file's name and parent, so its path is the
// same.
type Link struct {
	entry
	replacement string
	checksum    string
	size        int64
}

// NewLink builds the link that replaces original with canonical. Both
// checksums are read (and hashed if needed); an I/O failure is returned.
// Differing checksums mean the caller paired the wrong files, and NewLink
// panics with an *InvariantError.
func NewLink(original, canonical *File) (*Link, error) {
	sum, err := original.Checksum()
	if err != nil {
		return nil, err
	}
	canonicalSum, err := canonical.Checksum()
	if err != nil {
		return nil, err
	}
	if sum != canonicalSum {
		panic(&InvariantError{
			Path:                original.Path(),
			Checksum:            sum,
			Replacement:         canonical.Path(),
			ReplacementChecksum: canonicalSum,
		})
	}

	return &Link{
		entry:       entry{name: original.name, parent: original.parent},
		replacement: canonical.Path(),
		checksum:    sum,
		size:        original.size,
	}, nil
}

func (l *Link) Kind() Kind { return KindLink }

// Replacement is the path of the canonical file holding the real content.
func (l *Link) Replacement() string { return l.replacement }

func (l *Link) Checksum() string { return l.checksum }

// Size is the size of the file the link replaced.
func (l *Link) Size() int64 { return l.size }
