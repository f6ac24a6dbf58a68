// Package watcher reports changes to the city file currently loaded.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mgkapitany/pdsnd-github/internal/logger"
)

// Event represents a watcher event.
type Event struct {
	Type  EventType
	Path  string
	Error error
}

// EventType defines the type of watcher event.
type EventType int

const (
	// EventFileChanged means the tracked file was written, replaced or removed.
	EventFileChanged EventType = iota
	EventError
)

const (
	eventBuffer      = 16
	debounceInterval = 100 * time.Millisecond
)

// Service watches the directory of the tracked file with debouncing.
type Service struct {
	mu            sync.Mutex
	target        string
	dirs          map[string]bool
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
}

// New creates a watcher service. Nothing is reported until Track is called.
func New() (*Service, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	s := &Service{
		dirs:      make(map[string]bool),
		watcher:   w,
		eventChan: make(chan Event, eventBuffer),
		stopChan:  make(chan struct{}),
	}

	go s.watchLoop()
	return s, nil
}

// Track switches the watched file to path.
func (s *Service) Track(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	dir := filepath.Dir(abs)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirs[dir] {
		if err := s.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		s.dirs[dir] = true
	}
	s.target = abs
	logger.Debug("watching data file", "path", abs)
	return nil
}

// Events returns the channel watcher events are delivered on.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// watchLoop handles file system events with debouncing.
func (s *Service) watchLoop() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			s.mu.Lock()
			target := s.target
			s.mu.Unlock()

			if target == "" || filepath.Clean(event.Name) != target {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			s.mu.Lock()
			if s.debounceTimer != nil {
				s.debounceTimer.Stop()
			}
			s.debounceTimer = time.AfterFunc(debounceInterval, func() {
				s.sendEvent(Event{Type: EventFileChanged, Path: target})
			})
			s.mu.Unlock()

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("file watcher error", "error", err)
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest event
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the file watcher and cleans up resources.
func (s *Service) Close() error {
	close(s.stopChan)

	s.mu.Lock()
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.mu.Unlock()

	return s.watcher.Close()
}
