// Package dotdir manages the .apibot/ and ~/.apibot directories.
//
// The directory holds config.toml and apibot.log, which receives log output
// while the terminal UI owns the screen and a JSON copy of the web server log.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	dirName = ".apibot"

	// LogFile is the log file name inside the directory.
	LogFile = "apibot.log"
)

// Manager resolves the apibot directory. The working and home directory
// lookups are fields so tests can pin them.
type Manager struct {
	getwd   func() (string, error)
	homeDir func() (string, error)
}

func NewManager() *Manager {
	return &Manager{getwd: os.Getwd, homeDir: os.UserHomeDir}
}

// Resolve picks the .apibot/ directory without touching the filesystem
// beyond a stat. In order of precedence:
//  1. the override, when not empty
//  2. ./.apibot/ when it exists
//  3. ~/.apibot/
func (m *Manager) Resolve(overrideDir string) (string, error) {
	if overrideDir != "" {
		return filepath.Abs(overrideDir)
	}

	if cwd, err := m.getwd(); err == nil {
		local := filepath.Join(cwd, dirName)
		if info, err := os.Stat(local); err == nil && info.IsDir() {
			return local, nil
		}
	}

	home, err := m.homeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// Target resolves the directory like Resolve and creates it if missing.
func (m *Manager) Target(overrideDir string) (string, error) {
	dir, err := m.Resolve(overrideDir)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating apibot directory %s: %w", dir, err)
	}
	return dir, nil
}

// File returns the path of name inside the target directory.
func (m *Manager) File(overrideDir, name string) (string, error) {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// LogPath returns the path of apibot.log.
func (m *Manager) LogPath(overrideDir string) (string, error) {
	return m.File(overrideDir, LogFile)
}

// OpenLog opens apibot.log for appending, creating it when needed.
// The caller closes the returned file.
func (m *Manager) OpenLog(overrideDir string) (*os.File, error) {
	path, err := m.LogPath(overrideDir)
	if err != nil {
		return nil, fmt.Errorf("resolving log path: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}
