package tree

import (
	"go.uber.org/zap"

	"meta-compactor/internal/hash"
	"meta-compactor/internal/logging"
	"meta-compactor/internal/progress"
)

type options struct {
	algo      hash.Algorithm
	blockSize int
	exclude   []string
	logger    *zap.Logger
	progress  *progress.Bar
}

// Option configures Index, Prune, Apply and Restore. Each operation reads
// only the options that concern it.
type Option func(*options)

// WithHash selects the digest used for File checksums (Index).
func WithHash(algo hash.Algorithm) Option {
	return func(o *options) { o.algo = algo }
}

// WithBlockSize sets the read size for hashing and restore copies.
func WithBlockSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.blockSize = n
		}
	}
}

// WithExclude skips entries matching the glob patterns while indexing.
// Patterns ending in "/" match directory names at any depth; others match
// the base name, or the relative path when they contain a "/".
func WithExclude(patterns []string) Option {
	return func(o *options) { o.exclude = patterns }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithProgress reports each link processed by Apply or Restore to bar.
func WithProgress(bar *progress.Bar) Option {
	return func(o *options) { o.progress = bar }
}

func newOptions(opts []Option) *options {
	o := &options{
		algo:      hash.SHA256,
		blockSize: hash.DefaultBlockSize,
		logger:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
