package cli

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/ardnew/rebind/pkg"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config.yaml"

const dirMode os.FileMode = 0o700

// appDirs are the per-user directories rebind reads and writes. They are
// named after the program rather than the executable, so an installed
// cargo-rebind wrapper shares them.
type appDirs struct {
	config string // holds baseConfig
	cache  string // REPL history and profiles
}

// locateDirs resolves the directories from the environment on every call,
// so XDG_CONFIG_HOME and XDG_CACHE_HOME changes between runs take effect.
func locateDirs() appDirs {
	return appDirs{
		config: userDir(os.UserConfigDir, ".config"),
		cache:  userDir(os.UserCacheDir, ".cache"),
	}
}

// userDir returns the rebind subdirectory of the directory found by lookup.
// Without one it falls back to home beneath the home directory, and then to
// the working directory.
func userDir(lookup func() (string, error), home string) string {
	dir, err := lookup()
	if err != nil {
		if h, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(h, home)
		} else {
			dir = "."
		}
	}

	return filepath.Join(dir, pkg.Name)
}

func (d appDirs) configFile() string { return filepath.Join(d.config, baseConfig) }

// mkdirAll creates both directories.
func (d appDirs) mkdirAll() error {
	return errors.Join(
		os.MkdirAll(d.config, dirMode),
		os.MkdirAll(d.cache, dirMode),
	)
}
