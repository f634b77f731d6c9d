package log

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// TreeDumper writes labelled multi-line dumps of built schema trees.
type TreeDumper interface {
	Dump(label string, v fmt.Stringer)
}

type treeDumper struct {
	w  io.Writer
	mu sync.Mutex
}

// NewTreeDumper creates a TreeDumper. If w is nil, the dumper is a no-op.
func NewTreeDumper(w io.Writer) TreeDumper {
	return &treeDumper{w: w}
}

// Dump emits a timestamped header line followed by the indented rendering of v.
func (d *treeDumper) Dump(label string, v fmt.Stringer) {
	if d.w == nil || v == nil {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s tree %s\n", time.Now().Format("2006/01/02 15:04:05"), label)
	for _, line := range strings.SplitAfter(v.String(), "\n") {
		if line == "" {
			continue
		}
		b.WriteString("    ")
		b.WriteString(line)
	}
	if !strings.HasSuffix(b.String(), "\n") {
		b.WriteByte('\n')
	}

	d.mu.Lock()
	_, _ = io.WriteString(d.w, b.String())
	d.mu.Unlock()
}
