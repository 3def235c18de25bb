// Package memory implements sonny's long-term memory: a SQLite-backed
// store for summarized exchanges and a JSON-lines conversation journal.
package memory

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one stored memory record. Once stored it is owned by the
// memory subsystem; callers keep no reference.
type Entry struct {
	ID         string            `json:"id"`
	Category   string            `json:"category"`
	Content    string            `json:"content"`
	Importance float64           `json:"importance"` // [0,1]
	Metadata   map[string]string `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// NewEntry builds an entry with a fresh ID and an ISO-8601 timestamp
// in its metadata.
func NewEntry(category, content string, importance float64) Entry {
	now := time.Now()
	return Entry{
		ID:         uuid.NewString(),
		Category:   category,
		Content:    content,
		Importance: clamp01(importance),
		Metadata:   map[string]string{"timestamp": now.Format(time.RFC3339)},
		CreatedAt:  now,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
