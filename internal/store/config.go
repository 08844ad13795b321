package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// GlobalConfig is the on-disk shape of ~/.taskdeck/config.json.
//
// Keys mirror the viper keys read by internal/config so that `taskdeck config set`
// and environment overrides address the same settings.
type GlobalConfig struct {
	Backend *BackendConfig `json:"backend,omitempty"`
	Log     *LogConfig     `json:"log,omitempty"`
	Refresh *RefreshConfig `json:"refresh,omitempty"`
	TUI     *TUIConfig     `json:"tui,omitempty"`

	// LastEmail pre-fills the login form. It is not a credential.
	LastEmail string `json:"lastEmail,omitempty"`
}

type BackendConfig struct {
	URL      string `json:"url,omitempty"`
	BasePath string `json:"basePath,omitempty"`
	// Timeout is a Go duration string ("15s"). Empty or "0" means no client timeout.
	Timeout string `json:"timeout,omitempty"`
}

type LogConfig struct {
	Level string `json:"level,omitempty"`
	Path  string `json:"path,omitempty"`
}

type RefreshConfig struct {
	// MaxAge is a Go duration string. "0" refetches on every focus.
	MaxAge string `json:"maxAge,omitempty"`
}

type TUIConfig struct {
	// Glyphs selects the glyph set ("unicode", "ascii").
	Glyphs string `json:"glyphs,omitempty"`
}

const configFileName = "config.json"

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.taskdeck).
	if v := strings.TrimSpace(os.Getenv("TASKDECK_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".taskdeck"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func SaveConfig(cfg *GlobalConfig) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	// Unique temp name + rename so concurrent CLI/TUI writers never leave a torn file.
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}

// SetConfigValue updates one dotted key (e.g. "backend.url") and saves the file.
func SetConfigValue(key, value string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	value = strings.TrimSpace(value)
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "backend.url":
		cfg.backend().URL = value
	case "backend.basepath":
		cfg.backend().BasePath = value
	case "backend.timeout":
		cfg.backend().Timeout = value
	case "log.level":
		cfg.log().Level = value
	case "log.path":
		cfg.log().Path = value
	case "refresh.maxage":
		if cfg.Refresh == nil {
			cfg.Refresh = &RefreshConfig{}
		}
		cfg.Refresh.MaxAge = value
	case "tui.glyphs":
		if cfg.TUI == nil {
			cfg.TUI = &TUIConfig{}
		}
		cfg.TUI.Glyphs = value
	case "lastemail":
		cfg.LastEmail = value
	default:
		return errors.New("unknown config key: " + key)
	}
	return SaveConfig(cfg)
}

func (c *GlobalConfig) backend() *BackendConfig {
	if c.Backend == nil {
		c.Backend = &BackendConfig{}
	}
	return c.Backend
}

func (c *GlobalConfig) log() *LogConfig {
	if c.Log == nil {
		c.Log = &LogConfig{}
	}
	return c.Log
}
