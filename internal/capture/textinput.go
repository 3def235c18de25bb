package capture

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
)

// TextInput is the line-oriented fallback used when no audio device is
// configured or selection failed. Reads block on the underlying reader
// but the wait can be abandoned through the context, so a shutdown
// signal still gets through while the user types nothing.
type TextInput struct {
	r       *bufio.Reader
	results chan lineResult
	once    sync.Once
}

type lineResult struct {
	text string
	err  error
}

// NewTextInput wraps a reader, normally os.Stdin.
func NewTextInput(r io.Reader) *TextInput {
	return &TextInput{
		r:       bufio.NewReader(r),
		results: make(chan lineResult),
	}
}

// ReadLine waits for one line and returns it trimmed. io.EOF is
// returned when the input is exhausted; ctx.Err() when the context is
// cancelled first. The underlying read itself cannot be interrupted: a
// cancelled wait leaves one read pending, and its line is delivered to
// the next call.
func (t *TextInput) ReadLine(ctx context.Context) (string, error) {
	t.once.Do(func() { go t.readLoop() })

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-t.results:
		return res.text, res.err
	}
}

// readLoop owns the reader. After the first error the same error is
// served to every later call.
func (t *TextInput) readLoop() {
	for {
		line, err := t.r.ReadString('\n')
		if err != nil {
			if err == io.EOF && strings.TrimSpace(line) != "" {
				t.results <- lineResult{text: strings.TrimSpace(line)}
				continue
			}
			for {
				t.results <- lineResult{err: err}
			}
		}
		t.results <- lineResult{text: strings.TrimSpace(line)}
	}
}
