package progress

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Bar renders a single-line progress bar. A nil *Bar is valid and draws
// nothing, so walks can report progress unconditionally.
type Bar struct {
	total      int64
	current    int64
	width      int
	label      string
	writer     io.Writer
	mu         sync.Mutex
	lastDir    string
	lastUpdate time.Time
}

func New(label string, total int64) *Bar {
	return NewWithWriter(label, total, os.Stderr)
}

func NewWithWriter(label string, total int64, w io.Writer) *Bar {
	return &Bar{
		total:      total,
		width:      40,
		label:      label,
		writer:     w,
		lastUpdate: time.Now(),
	}
}

// SetDirectory records the directory currently being processed.
func (b *Bar) SetDirectory(dir string) {
	if b == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastDir = dir
}

func (b *Bar) Increment() {
	if b == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.current++

	// Update at most every 100ms to reduce flickering
	now := time.Now()
	if now.Sub(b.lastUpdate) > 100*time.Millisecond || b.current == b.total {
		b.lastUpdate = now
		b.render()
	}
}

// Current reports how many increments have been recorded.
func (b *Bar) Current() int64 {
	if b == nil {
		return 0
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// render must be called with mu already locked
func (b *Bar) render() {
	if b.total == 0 {
		return
	}

	current := b.current
	if current > b.total {
		current = b.total
	}
	percent := float64(current) / float64(b.total) * 100
	filledWidth := int(float64(b.width) * float64(current) / float64(b.total))

	bar := strings.Repeat("█", filledWidth) + strings.Repeat("░", b.width-filledWidth)

	var dirDisplay string
	if b.lastDir != "" {
		dirDisplay = " | " + filepath.Base(b.lastDir)
	}

	fmt.Fprintf(b.writer, "\r\033[K%s [%s] %3d%% (%d/%d)%s",
		b.label, bar, int(percent), current, b.total, dirDisplay)
}

func (b *Bar) Finish() {
	if b == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.total == 0 {
		return
	}
	b.current = b.total
	b.render()
	fmt.Fprintf(b.writer, "\n")
}
