package tui

import (
	"fmt"
	"io"
	"sync"
	"time"
)

const statusInterval = 100 * time.Millisecond

// StatusWriter keeps a single spinner line updated on w while a command
// does setup work (probing media, loading config) before any table shows.
type StatusWriter struct {
	w       io.Writer
	mu      sync.Mutex
	message string
	since   time.Time
	done    chan struct{}
	stopped bool
}

// NewStatusWriter starts the spinner goroutine.
func NewStatusWriter(w io.Writer) *StatusWriter {
	sw := &StatusWriter{w: w, since: time.Now(), done: make(chan struct{})}
	go sw.loop()
	return sw
}

// Update replaces the message and restarts the elapsed timer.
func (sw *StatusWriter) Update(msg string) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	sw.message = msg
	sw.since = time.Now()
}

// Stop halts the spinner and erases its line. Calling it twice is harmless.
func (sw *StatusWriter) Stop() {
	sw.mu.Lock()
	if sw.stopped {
		sw.mu.Unlock()
		return
	}
	sw.stopped = true
	close(sw.done)
	sw.mu.Unlock()
	fmt.Fprint(sw.w, "\r\033[K")
}

func (sw *StatusWriter) loop() {
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()
	for frame := 0; ; frame++ {
		select {
		case <-sw.done:
			return
		case <-ticker.C:
		}
		sw.mu.Lock()
		if sw.stopped {
			sw.mu.Unlock()
			return
		}
		line := fmt.Sprintf("\r\033[K%s %s (%s)", spinnerFrames[frame%len(spinnerFrames)], sw.message, formatElapsed(time.Since(sw.since)))
		fmt.Fprint(sw.w, line)
		sw.mu.Unlock()
	}
}

// formatElapsed renders d compactly: 850ms, 4.2s, 37s, 2m05s.
func formatElapsed(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < 10*time.Second:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	default:
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	}
}
