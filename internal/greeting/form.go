package greeting

import (
	"context"
	"sync"

	"github.com/ccastromar/greetgen/internal/clipboard"
	"github.com/ccastromar/greetgen/internal/logx"
	"github.com/ccastromar/greetgen/internal/metrics"
)

// Greeter is what a Form needs from the generation path.
type Greeter interface {
	Generate(ctx context.Context, self, recipient string) (string, error)
}

// View is an immutable snapshot of a Form.
type View struct {
	Self      string `json:"self"`
	Recipient string `json:"recipient"`
	Loading   bool   `json:"loading"`
	Error     string `json:"error,omitempty"`
	Greeting  string `json:"greeting"`
}

// Form holds the transient state of one rendered page.
// At most one submission is in flight; the lock is never held across it.
type Form struct {
	mu       sync.Mutex
	greeter  Greeter
	view     View
	onChange func(View)
}

func NewForm(g Greeter) *Form {
	return &Form{greeter: g}
}

// OnChange registers a hook called, with the lock held, after every state transition.
func (f *Form) OnChange(fn func(View)) {
	f.mu.Lock()
	f.onChange = fn
	f.mu.Unlock()
}

func (f *Form) Snapshot() View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.view
}

func (f *Form) changed() {
	if f.onChange != nil {
		f.onChange(f.view)
	}
}

// Submit runs one generation. Validation failures never set Loading and never reach
// the greeter; ErrBusy leaves the state untouched; every other path ends with Loading=false.
// Greeting only changes on success.
func (f *Form) Submit(ctx context.Context, self, recipient string) (View, error) {
	f.mu.Lock()
	if f.view.Loading {
		f.mu.Unlock()
		return f.Snapshot(), ErrBusy
	}
	f.view.Self, f.view.Recipient = self, recipient
	if verr := validateInput(self, recipient); verr != nil {
		f.view.Error = Message(verr)
		f.changed()
		v := f.view
		f.mu.Unlock()
		metrics.Generations.Inc(map[string]string{"outcome": verr.Outcome()})
		return v, verr
	}
	f.view.Loading = true
	f.view.Error = ""
	f.changed()
	f.mu.Unlock()

	text, err := f.greeter.Generate(ctx, self, recipient)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.view.Loading = false
	if err != nil {
		f.view.Error = Message(Classify(err))
	} else {
		f.view.Greeting = text
	}
	f.changed()
	return f.view, err
}

// Copy writes the current greeting to w. It performs no write when the
// greeting is empty. Write failures are logged and reported as false.
func (f *Form) Copy(w clipboard.Writer) bool {
	text := f.Snapshot().Greeting
	if text == "" {
		metrics.Copies.Inc(map[string]string{"outcome": "empty"})
		return false
	}
	if err := w.WriteAll(text); err != nil {
		logx.Error("Clipboard", "Failed to copy text: %v", err)
		metrics.Copies.Inc(map[string]string{"outcome": "error"})
		return false
	}
	metrics.Copies.Inc(map[string]string{"outcome": "ok"})
	return true
}
