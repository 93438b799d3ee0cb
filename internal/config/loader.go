package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvPath names the environment variable that overrides the config path.
const EnvPath = "SNAPMARK_CONFIG"

// Loader handles loading the configuration.
type Loader struct {
	Version      string // "dev" also consults ./.snapmarkrc
	OverridePath string
}

// NewLoader creates a new Loader. An empty overridePath falls back to
// $SNAPMARK_CONFIG.
func NewLoader(version string, overridePath string) *Loader {
	if overridePath == "" {
		overridePath = os.Getenv(EnvPath)
	}
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load reads the first configuration file found, or returns the defaults
// when there is none.
func (l *Loader) Load() (*Config, error) {
	path := l.GetConfigPath()
	if path == "" {
		return New(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.SaveDir = ExpandHome(cfg.SaveDir)
	return cfg, nil
}

// GetConfigPath returns the path to the configuration file, or empty string if not found.
func (l *Loader) GetConfigPath() string {
	if l.OverridePath != "" {
		if _, err := os.Stat(l.OverridePath); err == nil {
			return l.OverridePath
		}
	}

	if l.Version == "dev" {
		wd, _ := os.Getwd()
		localPath := filepath.Join(wd, ".snapmarkrc")
		if _, err := os.Stat(localPath); err == nil {
			return localPath
		}
	}

	if p := l.DefaultPath(); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// DefaultPath is where `config save` writes.
func (l *Loader) DefaultPath() string {
	if l.OverridePath != "" {
		return l.OverridePath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "snapmark", "config.rc")
}

// Save writes cfg to the default path, creating parent directories.
func (l *Loader) Save(cfg *Config) (string, error) {
	path := l.DefaultPath()
	if path == "" {
		return "", fmt.Errorf("no config path: home directory unknown")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(cfg.String()), 0o644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(p string) string {
	rest, ok := strings.CutPrefix(p, "~/")
	if !ok && p != "~" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, rest)
}
