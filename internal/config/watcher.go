package config

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads Config from its source file when that file changes,
// enabled only in development (watcher.go's "hot reload in dev only"
// rule) and debounced so rapid successive writes from an editor
// collapse into a single reload.
type Watcher struct {
	path      string
	mu        sync.RWMutex
	current   *Config
	callbacks []func(*Config)
	logger    *zap.Logger
	fsw       *fsnotify.Watcher
	stop      chan struct{}
}

// NewWatcher starts watching path for changes when cfg is a
// development config; it is a harmless no-op wrapper otherwise.
func NewWatcher(path string, cfg *Config, logger *zap.Logger) (*Watcher, error) {
	w := &Watcher{path: path, current: cfg, logger: logger, stop: make(chan struct{})}

	if !cfg.IsDevelopment() || path == "" {
		logger.Info("config hot reload disabled", zap.String("environment", cfg.Environment))
		return w, nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(path); err != nil {
		fsw.Close()
		return nil, err
	}
	w.fsw = fsw
	go w.loop()
	logger.Info("config hot reload enabled", zap.String("path", path))
	return w, nil
}

// OnChange registers a callback invoked with the new Config after
// every successful reload.
func (w *Watcher) OnChange(fn func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, fn)
}

// Current returns the most recently loaded Config.
func (w *Watcher) Current() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

func (w *Watcher) loop() {
	defer w.fsw.Close()

	var debounce *time.Timer
	const delay = 300 * time.Millisecond

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(delay, w.reload)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("config watcher error", zap.Error(err))
		case <-w.stop:
			return
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Error("config reload failed, keeping previous config", zap.Error(err))
		return
	}

	w.mu.Lock()
	w.current = cfg
	cbs := append([]func(*Config){}, w.callbacks...)
	w.mu.Unlock()

	w.logger.Info("config reloaded", zap.Int("callbacks", len(cbs)))
	for _, cb := range cbs {
		cb(cfg)
	}
}

// Close stops the watcher goroutine; safe to call even when hot
// reload was never enabled.
func (w *Watcher) Close() {
	close(w.stop)
}
