package settings

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/datatug/pngnote/pkg/thumbs"
)

const (
	DefaultDir      = "~/.pngnote"
	DefaultFileName = "pngnote-settings.yaml"

	MaxRecentRoots = 10
)

var osUserHomeDir = os.UserHomeDir

// DefaultPath returns the settings file location inside the user's home.
func DefaultPath() (string, error) {
	home, err := osUserHomeDir()
	if err != nil {
		return filepath.Join(DefaultDir, DefaultFileName), err
	}
	return filepath.Join(home, DefaultDir[2:], DefaultFileName), nil
}

type Settings struct {
	LastRoot    string        `yaml:"last_root,omitempty"`
	RecentRoots []string      `yaml:"recent_roots,omitempty"`
	Thumbnail   thumbs.Config `yaml:"thumbnail,omitempty"`
}

// Defaults has no root and the default thumbnail size.
func Defaults() Settings {
	return Settings{Thumbnail: thumbs.DefaultConfig()}
}

// WithRoot returns a copy with root as the last root and at the head of the
// recent roots list. Recent roots hold no duplicates and at most
// MaxRecentRoots entries.
func (s Settings) WithRoot(root string) Settings {
	root = collapseHome(root)
	s.LastRoot = root
	recent := make([]string, 0, len(s.RecentRoots)+1)
	recent = append(recent, root)
	for _, r := range s.RecentRoots {
		if r != root && !slices.Contains(recent, r) {
			recent = append(recent, r)
		}
	}
	if len(recent) > MaxRecentRoots {
		recent = recent[:MaxRecentRoots]
	}
	s.RecentRoots = recent
	return s
}

// collapseHome stores local paths under the home directory as ~/... so the
// settings file survives a changed home location.
func collapseHome(p string) string {
	if p == "" || strings.Contains(p, "://") {
		return p
	}
	home, err := osUserHomeDir()
	if err != nil || home == "" {
		return p
	}
	cleanHome := filepath.Clean(home)
	cleanPath := filepath.Clean(p)
	if cleanPath == cleanHome {
		return "~"
	}
	homePrefix := cleanHome + string(filepath.Separator)
	if strings.HasPrefix(cleanPath, homePrefix) {
		return filepath.Join("~", strings.TrimPrefix(cleanPath, homePrefix))
	}
	return p
}
