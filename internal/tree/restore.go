package tree

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

// Restore writes back the content of every linked file by copying the
// current bytes of its canonical file over it. The canonical files must
// still hold the content they had when the tree was pruned; nothing checks
// this. Restore stops at the first error, which can leave a file partly
// written. It returns the number of files restored.
func Restore(root *Directory, opts ...Option) (int, error) {
	o := newOptions(opts)
	var restored int
	err := o.restore(root, &restored)
	return restored, err
}

func (o *options) restore(dir *Directory, restored *int) error {
	for _, child := range dir.Children() {
		switch n := child.(type) {
		case *Link:
			o.progress.SetDirectory(dir.Path())
			o.logger.Debug("restoring", zap.String("path", n.Path()), zap.String("replacement", n.Replacement()))
			if err := copyFile(n.Replacement(), n.Path(), o.blockSize); err != nil {
				return fmt.Errorf("restore %s: %w", n.Path(), err)
			}
			*restored++
			o.progress.Increment()
		case *File:
		case *Directory:
			o.logger.Debug("descending for restoration", zap.String("path", n.Path()))
			if err := o.restore(n, restored); err != nil {
				return err
			}
		default:
			panic(fmt.Sprintf("tree: unknown node type %T", child))
		}
	}
	return nil
}

// copyFile overwrites dst with the content of src in blockSize chunks.
func copyFile(src, dst string, blockSize int) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	buf := make([]byte, blockSize)
	for {
		n, rerr := in.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			return rerr
		}
	}
}
