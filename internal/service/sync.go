package service

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jask/innkeeper/internal/clock"
	"github.com/jask/innkeeper/internal/database/repository"
)

// SyncMonitor tracks the online/offline/syncing badge. It is safe for
// concurrent use since refreshes complete on tea.Cmd goroutines.
type SyncMonitor struct {
	Clock  clock.Clock
	Logger *zap.Logger
	// Location is used for the tooltip time; nil means local time.
	Location *time.Location

	mu         sync.Mutex
	status     repository.PropertyStatus
	lastSynced time.Time
	lastErr    error
}

// NewSyncMonitor starts online with the current time as the last sync.
func NewSyncMonitor(c clock.Clock, logger *zap.Logger) *SyncMonitor {
	c = clock.OrReal(c)
	return &SyncMonitor{Clock: c, Logger: logger, status: repository.StatusOnline, lastSynced: c.Now()}
}

func (m *SyncMonitor) Status() repository.PropertyStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status == "" {
		return repository.StatusOnline
	}
	return m.status
}

func (m *SyncMonitor) LastSynced() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSynced
}

func (m *SyncMonitor) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// Begin moves to syncing. It reports false when a sync is already running.
func (m *SyncMonitor) Begin() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status == repository.StatusSyncing {
		return false
	}
	m.status = repository.StatusSyncing
	loggerOrNop(m.Logger).Debug("sync started")
	return true
}

// Complete ends a sync: online with a fresh timestamp, or offline on error.
func (m *SyncMonitor) Complete(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastErr = err
	if err != nil {
		m.status = repository.StatusOffline
		loggerOrNop(m.Logger).Warn("sync failed", zap.Error(err))
		return
	}
	m.status = repository.StatusOnline
	m.lastSynced = clock.OrReal(m.Clock).Now()
	loggerOrNop(m.Logger).Debug("sync complete", zap.Time("at", m.lastSynced))
}

func (m *SyncMonitor) Label() string {
	switch m.Status() {
	case repository.StatusOffline:
		return "Offline"
	case repository.StatusSyncing:
		return "Syncing"
	default:
		return "Online"
	}
}

func (m *SyncMonitor) Tooltip() string {
	switch m.Status() {
	case repository.StatusOffline:
		return "Working offline. Changes will sync when connection is restored."
	case repository.StatusSyncing:
		return "Synchronizing data with cloud..."
	default:
		last := m.LastSynced()
		if m.Location != nil {
			last = last.In(m.Location)
		}
		return "Last synced: " + last.Format("3:04:05 PM")
	}
}
