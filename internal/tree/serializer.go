package tree

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Entry is a plain rendering of a node, used for dumps and debugging.
type Entry struct {
	Name        string  `json:"name" yaml:"name"`
	Path        string  `json:"path" yaml:"path"`
	Type        string  `json:"type" yaml:"type"`
	Checksum    string  `json:"checksum,omitempty" yaml:"checksum,omitempty"`
	Replacement string  `json:"replacement,omitempty" yaml:"replacement,omitempty"`
	Children    []Entry `json:"children,omitempty" yaml:"children,omitempty"`
}

// Snapshot renders n and everything below it. File checksums are computed
// if they have not been yet.
func Snapshot(n Node) (Entry, error) {
	e := Entry{
		Name: n.Name(),
		Path: n.Path(),
		Type: n.Kind().String(),
	}

	switch n := n.(type) {
	case *File:
		sum, err := n.Checksum()
		if err != nil {
			return Entry{}, err
		}
		e.Checksum = sum
	case *Link:
		e.Checksum = n.Checksum()
		e.Replacement = n.Replacement()
	case *Directory:
		e.Children = make([]Entry, 0, len(n.Children()))
		for _, child := range n.Children() {
			ce, err := Snapshot(child)
			if err != nil {
				return Entry{}, err
			}
			e.Children = append(e.Children, ce)
		}
	default:
		panic(fmt.Sprintf("tree: unknown node type %T", n))
	}
	return e, nil
}

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Write encodes e to w in the given format.
func Write(w io.Writer, e Entry, format Format) error {
	switch format {
	case FormatJSON, "":
		data, err := json.MarshalIndent(e, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal tree: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("failed to marshal tree: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
