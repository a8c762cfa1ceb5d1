package app

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"time"
)

// profiler appends per-section frame timings as CSV. A nil profiler is a
// no-op, so callers never check.
type profiler struct {
	file  *os.File
	w     *bufio.Writer
	now   func() time.Time
	frame uint64
	start time.Time
	last  time.Time
}

func newProfiler(path string, logger *log.Logger) *profiler {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger.Printf("profiler disabled: %v", err)
		return nil
	}
	p := &profiler{file: f, w: bufio.NewWriter(f), now: time.Now}
	fmt.Fprintln(p.w, "frame,section,ms")
	return p
}

func (p *profiler) beginFrame() {
	if p == nil {
		return
	}
	p.frame++
	p.start = p.now()
	p.last = p.start
}

func (p *profiler) mark(section string) {
	if p == nil {
		return
	}
	now := p.now()
	p.write(section, now.Sub(p.last))
	p.last = now
}

func (p *profiler) endFrame() {
	if p == nil {
		return
	}
	p.write("total", p.now().Sub(p.start))
}

func (p *profiler) write(section string, d time.Duration) {
	fmt.Fprintf(p.w, "%d,%s,%.3f\n", p.frame, section, float64(d)/float64(time.Millisecond))
}

func (p *profiler) Close() error {
	if p == nil {
		return nil
	}
	if err := p.w.Flush(); err != nil {
		p.file.Close()
		return err
	}
	return p.file.Close()
}
