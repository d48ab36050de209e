package logging

import (
	"strings"
	"sync"
)

// LineCapture is an io.Writer that keeps only the last non-empty line
// written to it. It backs the /api/log/latest overlay.
type LineCapture struct {
	mu   sync.RWMutex
	last string
}

var (
	// GlobalLogCapture receives the capture handler's text output.
	GlobalLogCapture = &LineCapture{}
	// GlobalEventCapture receives every formatted navigation event.
	GlobalEventCapture = &LineCapture{}
)

// Write records the last line of p. Writes that carry no text leave the
// previous line in place.
func (c *LineCapture) Write(p []byte) (int, error) {
	text := strings.TrimRight(string(p), "\r\n")
	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	}
	text = strings.TrimRight(text, "\r")
	if text != "" {
		c.mu.Lock()
		c.last = text
		c.mu.Unlock()
	}
	return len(p), nil
}

// LastLine returns the most recent line without its terminator.
func (c *LineCapture) LastLine() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}
