package reasoner

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// PersonaSource serves the system prompt from a file and hot-reloads it
// when the file changes on disk. A nil source yields an empty persona.
type PersonaSource struct {
	mu      sync.RWMutex
	path    string
	text    string
	watcher *fsnotify.Watcher
	log     *zap.Logger
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewPersonaSource loads the persona file and starts watching its
// directory for changes. A missing file is not an error; the persona is
// empty until the file appears.
func NewPersonaSource(path string, log *zap.Logger) (*PersonaSource, error) {
	p := &PersonaSource{
		path:   path,
		log:    log,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	p.reload()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	p.watcher = watcher

	// Watch the directory, not the file: editors replace files on save.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		log.Warn("persona watch failed, hot-reload disabled",
			zap.String("dir", dir), zap.Error(err))
	}

	go p.run()
	return p, nil
}

// Current returns the current persona text. Safe on a nil source.
func (p *PersonaSource) Current() string {
	if p == nil {
		return ""
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.text
}

func (p *PersonaSource) reload() {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if !os.IsNotExist(err) {
			p.log.Debug("persona read failed", zap.Error(err))
		}
		return
	}
	p.mu.Lock()
	p.text = strings.TrimSpace(string(data))
	p.mu.Unlock()
}

const reloadQuietPeriod = 100 * time.Millisecond

func (p *PersonaSource) run() {
	defer close(p.doneCh)

	// Rapid editor saves collapse into one reload after a quiet period;
	// each event pushes the timer back, so the last save always lands.
	debounce := time.NewTimer(reloadQuietPeriod)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(p.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !debounce.Stop() {
				select {
				case <-debounce.C:
				default:
				}
			}
			debounce.Reset(reloadQuietPeriod)
		case <-debounce.C:
			p.reload()
			p.log.Debug("persona reloaded", zap.String("path", p.path))
		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			p.log.Debug("persona watcher error", zap.Error(err))
		}
	}
}

// Close stops the watcher.
func (p *PersonaSource) Close() error {
	if p == nil || p.watcher == nil {
		return nil
	}
	close(p.stopCh)
	err := p.watcher.Close()
	<-p.doneCh
	return err
}
