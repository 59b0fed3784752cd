package settings

import (
	"sync"

	"github.com/datatug/pngnote/pkg/fsutils"
)

// Storage persists settings. Load returns defaults when nothing was saved yet.
type Storage interface {
	Load() (Settings, error)
	Save(Settings) error
}

var _ Storage = (*YAMLFileStorage)(nil)

type YAMLFileStorage struct {
	Path string
}

var readYAML = fsutils.ReadYAMLFile
var writeYAML = fsutils.WriteYAMLFile

func (s YAMLFileStorage) Load() (Settings, error) {
	result := Defaults()
	if err := readYAML(fsutils.ExpandHome(s.Path), false, &result); err != nil {
		return Defaults(), err
	}
	return result, nil
}

func (s YAMLFileStorage) Save(v Settings) error {
	return writeYAML(fsutils.ExpandHome(s.Path), v)
}

var _ Storage = (*MemoryStorage)(nil)

// MemoryStorage keeps settings for the life of the process.
type MemoryStorage struct {
	mu    sync.Mutex
	saved *Settings
	saves int
}

func (m *MemoryStorage) Load() (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil {
		return Defaults(), nil
	}
	return cloneSettings(*m.saved), nil
}

func (m *MemoryStorage) Save(v Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v = cloneSettings(v)
	m.saved = &v
	m.saves++
	return nil
}

// Saves counts calls to Save.
func (m *MemoryStorage) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func cloneSettings(v Settings) Settings {
	v.RecentRoots = append([]string(nil), v.RecentRoots...)
	return v
}
