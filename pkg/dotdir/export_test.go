package dotdir

// NewManagerAt returns a Manager whose working and home directories are
// fixed.
func NewManagerAt(cwd, home string) *Manager {
	return &Manager{
		getwd:   func() (string, error) { return cwd, nil },
		homeDir: func() (string, error) { return home, nil },
	}
}
