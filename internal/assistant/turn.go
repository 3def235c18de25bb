package assistant

import (
	"strings"
	"time"

	"sonny/internal/memory"
)

// Fixed user-visible strings. Internal error detail is logged, never
// surfaced through these.
const (
	ReplyNotReady = "System not ready."
	ReplyNoOutput = "[No output]"
	ReplyError    = "Error processing message."
	ReplyFarewell = "Goodbye! See you next time."
	ReplyGreeting = "Hello, I am Sonny, ready to assist you."
)

// Source tags where an utterance came from.
type Source string

const (
	SourceAudio Source = "audio"
	SourceText  Source = "text"
)

// Utterance is one captured user input. Created once per loop iteration
// and discarded after the turn completes.
type Utterance struct {
	Text       string
	Source     Source
	CapturedAt time.Time
}

// NewUtterance stamps the capture time.
func NewUtterance(text string, source Source) Utterance {
	return Utterance{Text: text, Source: source, CapturedAt: time.Now()}
}

// TurnRecord is the result of one dispatch. No in-process history is
// retained across turns beyond what memory stores.
type TurnRecord struct {
	Utterance Utterance
	Reply     string
	OK        bool
	Entry     *memory.Entry // set when the exchange was persisted
}

// terminationWords is the fixed vocabulary that ends the loop.
var terminationWords = []string{"goodbye", "exit", "quit", "stop"}

// IsTermination matches the termination vocabulary as substrings of the
// lower-cased utterance. This intentionally fires on utterances that
// merely contain a word ("don't stop me"), matching the long-standing
// behavior users rely on to bail out.
func IsTermination(text string) bool {
	lower := strings.ToLower(text)
	for _, word := range terminationWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// summaryPrefix returns at most n runes of s.
func summaryPrefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
