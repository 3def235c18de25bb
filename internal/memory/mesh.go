package memory

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// MeshBridge journals conversation exchanges as JSON lines, one file per
// day, under a configurable directory. Writes are buffered; Save flushes
// and syncs the current file.
type MeshBridge struct {
	mu   sync.Mutex
	dir  string
	file *os.File
	w    *bufio.Writer
	day  string
}

// NewMeshBridge creates the conversation-memory directory if needed.
func NewMeshBridge(dir string) (*MeshBridge, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create conversation memory directory: %w", err)
	}
	return &MeshBridge{dir: dir}, nil
}

// Store appends one entry to today's journal.
func (m *MeshBridge) Store(entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.rotateLocked(time.Now()); err != nil {
		return err
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode entry: %w", err)
	}
	if _, err := m.w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to append entry: %w", err)
	}
	return nil
}

// rotateLocked opens the journal file for the given day, closing the
// previous one. Caller holds m.mu.
func (m *MeshBridge) rotateLocked(now time.Time) error {
	day := now.Format("2006-01-02")
	if m.file != nil && day == m.day {
		return nil
	}

	if m.file != nil {
		_ = m.w.Flush()
		_ = m.file.Close()
		m.file = nil
		m.w = nil
	}

	path := filepath.Join(m.dir, day+".jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open journal %s: %w", path, err)
	}
	m.file = f
	m.w = bufio.NewWriter(f)
	m.day = day
	return nil
}

// Save flushes buffered entries and syncs the journal to disk.
func (m *MeshBridge) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.file == nil {
		return nil
	}
	if err := m.w.Flush(); err != nil {
		return fmt.Errorf("failed to flush journal: %w", err)
	}
	if err := m.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync journal: %w", err)
	}
	return nil
}

// Close flushes and closes the current journal.
func (m *MeshBridge) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.file == nil {
		return nil
	}
	if err := m.w.Flush(); err != nil {
		return err
	}
	err := m.file.Close()
	m.file = nil
	m.w = nil
	return err
}
