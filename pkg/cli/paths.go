package cli

import (
	"os"
	"path/filepath"
)

// Paths locates the per-user directories of an app under
// ~/.audioproject/<app>.
type Paths struct {
	AppName string
	HomeDir string
}

// NewPaths returns the paths of appName under the user's home directory.
func NewPaths(appName string) (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &Paths{AppName: appName, HomeDir: home}, nil
}

func (p *Paths) BaseDir() string {
	return filepath.Join(p.HomeDir, DefaultBaseDir)
}

func (p *Paths) AppDir() string {
	return filepath.Join(p.BaseDir(), p.AppName)
}

func (p *Paths) ConfigFile() string {
	return filepath.Join(p.AppDir(), DefaultConfigFile)
}

// DataDir holds state that outlives a work directory, such as the run
// ledger.
func (p *Paths) DataDir() string {
	return filepath.Join(p.AppDir(), "data")
}

// LedgerDir is the badger directory of the run ledger.
func (p *Paths) LedgerDir() string {
	return filepath.Join(p.DataDir(), "ledger")
}

// EnsureDataDir creates the data directory with owner-only access.
func (p *Paths) EnsureDataDir() error {
	return os.MkdirAll(p.DataDir(), 0o700)
}
