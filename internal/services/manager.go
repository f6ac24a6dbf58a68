// Package services provides service orchestration for the TUI.
package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/mgkapitany/pdsnd-github/internal/config"
	"github.com/mgkapitany/pdsnd-github/internal/dataset"
	"github.com/mgkapitany/pdsnd-github/internal/db"
	"github.com/mgkapitany/pdsnd-github/internal/logger"
	"github.com/mgkapitany/pdsnd-github/internal/models"
	"github.com/mgkapitany/pdsnd-github/internal/services/watcher"
)

// ErrNoDataset is returned by the reporters before a dataset is loaded.
var ErrNoDataset = errors.New("no dataset loaded")

type (
	// DataChangedEvent is emitted when the loaded city file changes on disk.
	DataChangedEvent struct {
		Path string
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (DataChangedEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()       {}

// notify shows a desktop notification.
var notify = func(title, body string) error {
	return beeep.Notify(title, body, "")
}

// Manager owns the loaded dataset and the query engine behind it.
type Manager struct {
	mu          sync.RWMutex
	cfg         *config.Config
	loader      *dataset.Loader
	database    *db.DB
	watcher     *watcher.Service
	current     *dataset.Dataset
	eventChan   chan ServiceEvent
	stopChan    chan struct{}
	subscribers []chan<- ServiceEvent
}

// NewManager creates a new service manager.
func NewManager(cfg *config.Config) (*Manager, error) {
	m := &Manager{
		cfg:       cfg,
		loader:    dataset.NewLoader(cfg.DataDir, cfg.Cities),
		eventChan: make(chan ServiceEvent, 100),
		stopChan:  make(chan struct{}),
	}

	var err error
	m.database, err = db.New(db.MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.WatchData {
		m.watcher, err = watcher.New()
		if err != nil {
			// Run without watching.
			logger.Warn("data watcher disabled", "error", err)
			m.watcher = nil
		}
	}

	go m.routeEvents()

	return m, nil
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	var events <-chan watcher.Event
	if m.watcher != nil {
		events = m.watcher.Events()
	}

	for {
		select {
		case event := <-events:
			m.handleWatcherEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) handleWatcherEvent(event watcher.Event) {
	switch event.Type {
	case watcher.EventFileChanged:
		logger.Info("data file changed", "path", event.Path)
		m.broadcast(DataChangedEvent{Path: event.Path})

	case watcher.EventError:
		m.broadcast(ErrorEvent{
			Service: "watcher",
			Error:   event.Error,
		})
	}
}

// Load reads and filters a city file, replacing the current dataset.
func (m *Manager) Load(filter models.Filter) (models.DatasetSummary, error) {
	start := time.Now()

	ds, err := m.loader.Load(filter)
	if err != nil {
		logger.Error("failed to load dataset", "city", filter.City, "error", err)
		return models.DatasetSummary{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.database.ReplaceTrips(ds.Trips); err != nil {
		logger.Error("failed to store dataset", "city", filter.City, "error", err)
		return models.DatasetSummary{}, err
	}
	m.current = ds

	if m.watcher != nil {
		if err := m.watcher.Track(ds.File); err != nil {
			logger.Warn("failed to watch data file", "path", ds.File, "error", err)
		}
	}

	summary := ds.Summary()
	summary.LoadTime = time.Since(start)

	logger.Info("dataset loaded",
		"city", filter.City,
		"month", filter.Month,
		"day", filter.Day,
		"rows", summary.Rows,
		"total", summary.TotalRows,
		"took", summary.LoadTime,
	)

	m.checkSlowLoad(summary)

	return summary, nil
}

func (m *Manager) checkSlowLoad(summary models.DatasetSummary) {
	if !m.cfg.DesktopNotify || summary.LoadTime < m.cfg.SlowLoadThreshold {
		return
	}

	title := fmt.Sprintf("%s data ready", models.Title(summary.Filter.City))
	body := fmt.Sprintf("Loaded %d trips in %s", summary.Rows, summary.LoadTime.Round(time.Millisecond))
	if err := notify(title, body); err != nil {
		logger.Warn("desktop notification failed", "error", err)
	}
}

// Dataset returns the current dataset, or nil before the first load.
func (m *Manager) Dataset() *dataset.Dataset {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// TimeStats computes the most frequent times of travel.
func (m *Manager) TimeStats() (models.TimeStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return models.TimeStats{}, ErrNoDataset
	}

	start := time.Now()
	s, err := m.database.TimeStats()
	if err != nil {
		return s, err
	}
	s.Elapsed = time.Since(start)
	logger.Debug("time stats computed", "took", s.Elapsed)
	return s, nil
}

// StationStats computes the most popular stations and trip.
func (m *Manager) StationStats() (models.StationStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return models.StationStats{}, ErrNoDataset
	}

	start := time.Now()
	s, err := m.database.StationStats()
	if err != nil {
		return s, err
	}
	s.Elapsed = time.Since(start)
	logger.Debug("station stats computed", "took", s.Elapsed)
	return s, nil
}

// DurationStats computes the total and mean trip duration.
func (m *Manager) DurationStats() (models.DurationStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return models.DurationStats{}, ErrNoDataset
	}

	start := time.Now()
	s, err := m.database.DurationStats()
	if err != nil {
		return s, err
	}
	s.Elapsed = time.Since(start)
	logger.Debug("duration stats computed", "took", s.Elapsed)
	return s, nil
}

// UserStats computes user demographics for whatever columns the current
// dataset carries.
func (m *Manager) UserStats() (models.UserStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return models.UserStats{}, ErrNoDataset
	}

	start := time.Now()
	s, err := m.database.UserStats(m.current.Schema)
	if err != nil {
		return s, err
	}
	s.Elapsed = time.Since(start)
	logger.Debug("user stats computed", "took", s.Elapsed)
	return s, nil
}

// RawPage returns the page of rows starting at offset.
func (m *Manager) RawPage(offset int) (models.RawPage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return models.RawPage{}, ErrNoDataset
	}

	total, err := m.database.Count()
	if err != nil {
		return models.RawPage{}, err
	}
	trips, err := m.database.Page(offset, m.cfg.PageSize)
	if err != nil {
		return models.RawPage{}, err
	}

	return models.RawPage{
		Trips:  trips,
		Schema: m.current.Schema,
		Offset: offset,
		Total:  total,
	}, nil
}

// PageSize returns the number of rows per raw data page.
func (m *Manager) PageSize() int {
	return m.cfg.PageSize
}

// Cities returns the configured city names in display order.
func (m *Manager) Cities() []string {
	return m.cfg.Cities.Names()
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	// Send to main event channel
	select {
	case m.eventChan <- event:
	default:
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel. It yields
// nil once the channel is closed.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return event
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	close(m.stopChan)

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	var errs []error

	if m.watcher != nil {
		if err := m.watcher.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if err := m.database.Close(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
