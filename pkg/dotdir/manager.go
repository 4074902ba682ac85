// Package dotdir locates the .compass directory that holds config.toml.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DirName is the name of the compass directory.
	DirName = ".compass"

	// HomeEnv names an explicit compass directory, used when no override is
	// given. Container deployments point it at a mounted volume.
	HomeEnv = "COMPASS_HOME"
)

// Source records which rule selected a directory.
type Source string

const (
	SourceOverride Source = "override"
	SourceEnv      Source = "env"
	SourceLocal    Source = "local"
	SourceHome     Source = "home"
)

// Dir is a resolved compass directory. It may not exist yet.
type Dir struct {
	Path   string
	Source Source
}

// Exists reports whether d.Path is an existing directory.
func (d Dir) Exists() bool {
	info, err := os.Stat(d.Path)
	return err == nil && info.IsDir()
}

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Resolve picks the compass directory without creating it.
// Order of precedence is as follows:
//  1. Provided override
//  2. $COMPASS_HOME
//  3. Local ./.compass/ dir, when it exists
//  4. Home ~/.compass/ dir
func (m *Manager) Resolve(override string) (Dir, error) {
	var d Dir

	switch {
	case override != "":
		d = Dir{Path: override, Source: SourceOverride}

	case os.Getenv(HomeEnv) != "":
		d = Dir{Path: os.Getenv(HomeEnv), Source: SourceEnv}

	default:
		local, err := m.Local()
		if err != nil {
			return Dir{}, err
		}
		if (Dir{Path: local}).Exists() {
			d = Dir{Path: local, Source: SourceLocal}
			break
		}

		home, err := os.UserHomeDir()
		if err != nil {
			return Dir{}, fmt.Errorf("getting home directory: %w", err)
		}
		d = Dir{Path: filepath.Join(home, DirName), Source: SourceHome}
	}

	abs, err := filepath.Abs(d.Path)
	if err != nil {
		return Dir{}, fmt.Errorf("resolving %s: %w", d.Path, err)
	}
	d.Path = abs
	return d, nil
}

// Target resolves the compass directory like Resolve and creates it when
// missing. Used by commands that write config.toml.
func (m *Manager) Target(override string) (string, error) {
	d, err := m.Resolve(override)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(d.Path, 0o755); err != nil {
		return "", fmt.Errorf("creating compass directory %s: %w", d.Path, err)
	}
	return d.Path, nil
}

// Local returns ./.compass under the working directory, existing or not.
func (m *Manager) Local() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	return filepath.Join(cwd, DirName), nil
}
