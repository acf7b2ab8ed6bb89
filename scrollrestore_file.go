package vlist

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// storedScroll is the on-disk representation written by FileScrollStore.
type storedScroll struct {
	Position int    `json:"position"`
	SelectID string `json:"selectId,omitempty"`
}

// FileScrollStore persists a pending scroll target to a JSON file
// (Config.ScrollRestore.StorePath) and invalidates its in-memory cache
// whenever the file changes outside this process, using
// github.com/fsnotify/fsnotify to watch it. Strictly additive to
// ScrollRestoreFeature's in-memory behavior: a missing or unreadable file is
// not an error, just an empty cache.
type FileScrollStore struct {
	mu    sync.Mutex
	path  string
	cache *storedScroll

	watcher *fsnotify.Watcher
}

// NewFileScrollStore opens path for persistence and starts watching it for
// external changes. The file need not exist yet.
func NewFileScrollStore(path string) (*FileScrollStore, error) {
	s := &FileScrollStore{path: path}
	s.load()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return s, nil
	}
	// The directory is watched, so a file created after opening is still seen.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return s, nil
	}
	s.watcher = watcher
	go s.watch()
	return s, nil
}

func (s *FileScrollStore) watch() {
	for {
		select {
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove) != 0 {
				s.mu.Lock()
				s.cache = nil
				s.mu.Unlock()
			}
		case _, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (s *FileScrollStore) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var stored storedScroll
	if err := json.Unmarshal(data, &stored); err != nil {
		return
	}
	s.mu.Lock()
	s.cache = &stored
	s.mu.Unlock()
}

// Save writes (position, selectID) to disk and refreshes the in-memory
// cache.
func (s *FileScrollStore) Save(position int, selectID string) error {
	stored := storedScroll{Position: position, SelectID: selectID}
	data, err := json.Marshal(stored)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return err
	}
	s.mu.Lock()
	s.cache = &stored
	s.mu.Unlock()
	return nil
}

// Load returns the last known (position, selectID), re-reading the file if
// an external change invalidated the cache.
func (s *FileScrollStore) Load() (position int, selectID string, ok bool) {
	s.mu.Lock()
	cached := s.cache
	s.mu.Unlock()
	if cached == nil {
		s.load()
		s.mu.Lock()
		cached = s.cache
		s.mu.Unlock()
	}
	if cached == nil {
		return 0, "", false
	}
	return cached.Position, cached.SelectID, true
}

// Close stops watching the file.
func (s *FileScrollStore) Close() error {
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}
