package shell

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"sync"
	"time"
)

// matcher accumulates terminal output from a reader goroutine and serves
// Expect calls against it. Shared by every Connection implementation in this
// package.
type matcher struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	eof    bool
	notify chan struct{}
}

func newMatcher() *matcher {
	return &matcher{notify: make(chan struct{}, 1)}
}

// run copies r into the buffer until EOF or read error. Meant to be run on
// its own goroutine.
func (m *matcher) run(r io.Reader) {
	chunk := make([]byte, 4096)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			m.mu.Lock()
			m.buf.Write(chunk[:n])
			m.mu.Unlock()
			m.wake()
		}
		if err != nil {
			m.mu.Lock()
			m.eof = true
			m.mu.Unlock()
			m.wake()
			return
		}
	}
}

func (m *matcher) wake() {
	select {
	case m.notify <- struct{}{}:
	default:
	}
}

// expect blocks until one of the patterns matches the buffered output.
// Patterns are tried in order; the first one that matches wins. The matched
// region is consumed from the buffer and everything before it is returned.
func (m *matcher) expect(timeout time.Duration, patterns ...*regexp.Regexp) (int, string, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		m.mu.Lock()
		data := m.buf.Bytes()
		for i, pattern := range patterns {
			loc := pattern.FindIndex(data)
			if loc == nil {
				continue
			}
			before := string(data[:loc[0]])
			m.buf.Next(loc[1])
			m.mu.Unlock()
			return i, before, nil
		}
		eof := m.eof
		rest := string(data)
		m.mu.Unlock()

		if eof {
			return -1, rest, io.EOF
		}
		select {
		case <-m.notify:
		case <-deadline.C:
			return -1, rest, fmt.Errorf("expect: %w", ErrTimeout)
		}
	}
}
