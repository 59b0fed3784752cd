// Package settings keeps user preferences: the last opened root, recently
// used roots and the thumbnail size.
package settings

import (
	"image"
	"log/slog"
	"sync"

	"github.com/datatug/pngnote/pkg/logging"
)

// Manager caches settings loaded from a Storage and writes changes through.
// It is safe for concurrent use.
type Manager struct {
	mu      sync.Mutex
	storage Storage
	current Settings
	log     *slog.Logger
}

// NewManager loads the settings. A load failure is logged and the defaults
// are used, so a broken settings file never blocks startup.
func NewManager(storage Storage) *Manager {
	m := &Manager{storage: storage, log: logging.New("settings")}
	current, err := storage.Load()
	if err != nil {
		m.log.Warn("failed to load settings, using defaults", "error", err)
		current = Defaults()
	}
	m.current = current
	return m
}

func (m *Manager) Get() Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneSettings(m.current)
}

func (m *Manager) LastRoot() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current.LastRoot
}

func (m *Manager) RecentRoots() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.current.RecentRoots...)
}

// SetLastRoot remembers root and saves. The in-memory value is updated even
// when saving fails.
func (m *Manager) SetLastRoot(root string) error {
	return m.update(func(s Settings) Settings {
		return s.WithRoot(root)
	})
}

func (m *Manager) ThumbnailSize() image.Point {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current.Thumbnail.Size()
}

func (m *Manager) update(f func(Settings) Settings) error {
	m.mu.Lock()
	m.current = f(m.current)
	snapshot := cloneSettings(m.current)
	m.mu.Unlock()
	if err := m.storage.Save(snapshot); err != nil {
		m.log.Error("failed to save settings", "error", err)
		return err
	}
	return nil
}
