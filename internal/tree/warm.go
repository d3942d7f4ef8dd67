package tree

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Warm computes the checksum of every File under root ahead of Prune, using
// up to workers goroutines. Prune then only reads memoized digests. With
// workers <= 1 the files are hashed sequentially.
func Warm(ctx context.Context, root *Directory, workers int) error {
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var walk func(dir *Directory) bool
	walk = func(dir *Directory) bool {
		for _, child := range dir.Children() {
			if gctx.Err() != nil {
				return false
			}
			switch n := child.(type) {
			case *File:
				g.Go(func() error {
					if err := gctx.Err(); err != nil {
						return err
					}
					_, err := n.Checksum()
					return err
				})
			case *Directory:
				if !walk(n) {
					return false
				}
			}
		}
		return true
	}
	walk(root)

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
