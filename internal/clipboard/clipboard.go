package clipboard

import (
	"errors"
	"sync"

	"github.com/atotto/clipboard"
)

// ErrUnsupported is returned by Discard and by System on hosts without a clipboard.
var ErrUnsupported = errors.New("clipboard: not available")

type Writer interface {
	WriteAll(text string) error
}

// System writes to the host clipboard (pbcopy, xclip/xsel/wl-copy, Windows API).
type System struct {
	mu sync.Mutex
}

func (s *System) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return clipboard.WriteAll(text)
}

// Discard never copies; used when CLIPBOARD=none so the page falls back to the browser.
type Discard struct{}

func (Discard) WriteAll(string) error { return ErrUnsupported }

// New selects a Writer for the CLIPBOARD mode ("system" or "none").
func New(mode string) Writer {
	if mode == "system" {
		return &System{}
	}
	return Discard{}
}

// Recorder keeps every write in memory. Tests and the mock server use it.
type Recorder struct {
	mu     sync.Mutex
	Writes []string
	Err    error
}

func (r *Recorder) WriteAll(text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Writes = append(r.Writes, text)
	return nil
}

func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Writes)
}
