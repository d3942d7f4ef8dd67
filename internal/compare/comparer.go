// Package compare checks two filesystem trees for byte-exact equality.
package compare

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

const blockSize = 4096

// Comparer compares files and directories. The zero value is ready to use
// and logs nothing.
type Comparer struct {
	Logger *zap.Logger
}

func (c *Comparer) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// Files reports whether left and right hold the same bytes.
func Files(left, right string) (bool, error) {
	return (&Comparer{}).Files(left, right)
}

// Directories reports whether left and right are recursively equal.
func Directories(left, right string) (bool, error) {
	return (&Comparer{}).Directories(left, right)
}

// Files reads both files in matching blocks. A differing block, or one file
// ending before the other, means they differ.
func (c *Comparer) Files(left, right string) (bool, error) {
	l, err := os.Open(left)
	if err != nil {
		return false, fmt.Errorf("failed to open file: %w", err)
	}
	defer l.Close()

	r, err := os.Open(right)
	if err != nil {
		return false, fmt.Errorf("failed to open file: %w", err)
	}
	defer r.Close()

	lbuf := make([]byte, blockSize)
	rbuf := make([]byte, blockSize)
	for {
		ln, lerr := io.ReadFull(l, lbuf)
		rn, rerr := io.ReadFull(r, rbuf)

		if lerr != nil && lerr != io.EOF && lerr != io.ErrUnexpectedEOF {
			return false, fmt.Errorf("failed to read file: %w", lerr)
		}
		if rerr != nil && rerr != io.EOF && rerr != io.ErrUnexpectedEOF {
			return false, fmt.Errorf("failed to read file: %w", rerr)
		}

		if !bytes.Equal(lbuf[:ln], rbuf[:rn]) {
			return false, nil
		}
		// a short block is the last one
		if ln < blockSize {
			return true, nil
		}
	}
}

// Directories pairs entries by enumeration order, not by name. The trees are
// equal when every level has the same entry count and each pair is of the
// same kind and recursively equal. The first mismatch ends the comparison.
func (c *Comparer) Directories(left, right string) (bool, error) {
	lentries, err := os.ReadDir(left)
	if err != nil {
		return false, fmt.Errorf("failed to read directory: %w", err)
	}
	rentries, err := os.ReadDir(right)
	if err != nil {
		return false, fmt.Errorf("failed to read directory: %w", err)
	}

	if len(lentries) != len(rentries) {
		c.logger().Debug("child count differs",
			zap.String("left", left), zap.Int("left_count", len(lentries)),
			zap.String("right", right), zap.Int("right_count", len(rentries)))
		return false, nil
	}

	for i := range lentries {
		lchild := filepath.Join(left, lentries[i].Name())
		rchild := filepath.Join(right, rentries[i].Name())
		lkind := lentries[i].Type()
		rkind := rentries[i].Type()

		switch {
		case lkind.IsRegular() && rkind.IsRegular():
			same, err := c.Files(lchild, rchild)
			if err != nil {
				return false, err
			}
			c.logger().Debug("compared", zap.String("left", lchild), zap.String("right", rchild), zap.Bool("equal", same))
			if !same {
				return false, nil
			}
		case lkind.IsDir() && rkind.IsDir():
			same, err := c.Directories(lchild, rchild)
			if err != nil || !same {
				return false, err
			}
		default:
			c.logger().Debug("entry kinds differ",
				zap.String("left", lchild), zap.Stringer("left_kind", lkind),
				zap.String("right", rchild), zap.Stringer("right_kind", rkind))
			return false, nil
		}
	}

	return true, nil
}
