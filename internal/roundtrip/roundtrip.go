// Package roundtrip runs index, prune, apply and restore against a scratch
// copy of a directory and checks that the copy comes back byte-identical.
package roundtrip

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"meta-compactor/internal/compare"
	"meta-compactor/internal/config"
	"meta-compactor/internal/logging"
	"meta-compactor/internal/progress"
	"meta-compactor/internal/tree"
)

// ErrMismatch means the scratch copy differed from the source at a step
// where they must be equal.
var ErrMismatch = errors.New("directory contents differ")

type Options struct {
	Config *config.Config
	Logger *zap.Logger
	// Keep leaves the scratch copy on disk.
	Keep bool
	// Progress, when set, receives progress bars for apply and restore.
	Progress io.Writer
}

type Result struct {
	Scratch   string
	Stats     tree.Stats
	Rewritten int
	Restored  int
}

// Run copies dir next to itself (or under the system temp directory when dir
// is a filesystem root) and round-trips the copy. dir is only read.
func Run(ctx context.Context, dir string, opts Options) (res *Result, err error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	cmp := &compare.Comparer{Logger: logger}

	dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	parent, err := scratchParent(dir)
	if err != nil {
		return nil, err
	}
	scratch, err := os.MkdirTemp(parent, filepath.Base(dir)+"_copy-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	res = &Result{Scratch: scratch}
	if !opts.Keep {
		defer func() {
			if rerr := os.RemoveAll(scratch); rerr != nil && err == nil {
				err = fmt.Errorf("failed to remove scratch directory: %w", rerr)
			}
		}()
	}

	logger.Info("copying", zap.String("source", dir), zap.String("scratch", scratch))
	if err := os.CopyFS(scratch, os.DirFS(dir)); err != nil {
		return res, fmt.Errorf("failed to copy %s: %w", dir, err)
	}
	if err := expectEqual(cmp, dir, scratch, "copy"); err != nil {
		return res, err
	}

	treeOpts := []tree.Option{
		tree.WithHash(cfg.Algorithm()),
		tree.WithBlockSize(cfg.BlockSize),
		tree.WithExclude(cfg.Exclude),
		tree.WithLogger(logger),
	}

	root, err := tree.IndexDirectory(scratch, treeOpts...)
	if err != nil {
		return res, err
	}
	if cfg.Workers > 0 {
		if err := tree.Warm(ctx, root, cfg.Workers); err != nil {
			return res, err
		}
	}
	if _, err := tree.Prune(root, treeOpts...); err != nil {
		return res, err
	}
	if err := expectEqual(cmp, dir, scratch, "prune"); err != nil {
		return res, err
	}
	res.Stats = tree.Collect(root)

	if err := ctx.Err(); err != nil {
		return res, err
	}
	bar := newBar(opts.Progress, "apply", res.Stats.Links)
	res.Rewritten, err = tree.Apply(root, append(treeOpts, tree.WithProgress(bar))...)
	bar.Finish()
	if err != nil {
		return res, err
	}

	bar = newBar(opts.Progress, "restore", res.Stats.Links)
	res.Restored, err = tree.Restore(root, append(treeOpts, tree.WithProgress(bar))...)
	bar.Finish()
	if err != nil {
		return res, err
	}

	if err := expectEqual(cmp, dir, scratch, "restore"); err != nil {
		return res, err
	}
	logger.Info("round trip complete",
		zap.Int("links", res.Stats.Links),
		zap.Int("rewritten", res.Rewritten),
		zap.Int("restored", res.Restored))
	return res, nil
}

// scratchParent picks where the copy of dir goes: next to dir, or under the
// system temp directory when dir has no parent. The copy must never land
// inside dir, or copying would recurse into itself.
func scratchParent(dir string) (string, error) {
	for _, parent := range []string{filepath.Dir(dir), os.TempDir()} {
		abs, err := filepath.Abs(parent)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		if !within(abs, dir) {
			return abs, nil
		}
	}
	return "", fmt.Errorf("no scratch location outside %s", dir)
}

// within reports whether path is dir or lies below it.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func expectEqual(cmp *compare.Comparer, dir, scratch, step string) error {
	same, err := cmp.Directories(dir, scratch)
	if err != nil {
		return fmt.Errorf("compare after %s: %w", step, err)
	}
	if !same {
		return fmt.Errorf("after %s: %w", step, ErrMismatch)
	}
	return nil
}

func newBar(w io.Writer, label string, total int) *progress.Bar {
	switch w {
	case nil:
		return nil
	case os.Stderr:
		return progress.New(label, int64(total))
	default:
		return progress.NewWithWriter(label, int64(total), w)
	}
}
