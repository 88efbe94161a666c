package lsp

import (
	"os"
	"time"
)

// GrammarWatcher polls the grammar file and calls reload whenever its
// modification time moves forward.
type GrammarWatcher struct {
	path         string
	reload       func() error
	stopCh       chan struct{}
	pollInterval time.Duration
	modTime      time.Time
}

func NewGrammarWatcher(path string, reload func() error) *GrammarWatcher {
	w := &GrammarWatcher{
		path:         path,
		reload:       reload,
		stopCh:       make(chan struct{}),
		pollInterval: 1 * time.Second,
	}
	if info, err := os.Stat(path); err == nil {
		w.modTime = info.ModTime()
	}
	return w
}

func (w *GrammarWatcher) Start() {
	go w.run()
}

func (w *GrammarWatcher) Stop() {
	close(w.stopCh)
}

func (w *GrammarWatcher) run() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.scan()
		}
	}
}

// scan reports whether the grammar changed since the last scan.
func (w *GrammarWatcher) scan() bool {
	info, err := os.Stat(w.path)
	if err != nil {
		log.Warningf("watch grammar: %s", err)
		return false
	}
	if !info.ModTime().After(w.modTime) {
		return false
	}
	w.modTime = info.ModTime()
	if err := w.reload(); err != nil {
		log.Errorf("reload grammar %s: %s", w.path, err)
	}
	return true
}
