// Package config resolves runtime settings: flags, then TASKDECK_* env vars, then
// config.json in the config dir, then defaults.
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"taskdeck-cli/internal/store"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultBackendURL = "http://localhost:8080"
	DefaultBasePath   = "/api/project-0"
	EnvPrefix         = "TASKDECK"
)

type Config struct {
	Backend BackendConfig
	Log     LogConfig
	Refresh RefreshConfig
	TUI     TUIConfig
	Dir     string
}

type BackendConfig struct {
	URL      string
	BasePath string
	// Timeout of 0 leaves requests bounded only by their context.
	Timeout time.Duration
}

// BaseURL joins URL and BasePath without doubling slashes.
func (b BackendConfig) BaseURL() string {
	u := strings.TrimRight(strings.TrimSpace(b.URL), "/")
	p := strings.TrimSpace(b.BasePath)
	if p == "" {
		return u
	}
	return u + "/" + strings.Trim(p, "/")
}

type LogConfig struct {
	Level string
	Path  string
}

type RefreshConfig struct {
	MaxAge time.Duration
}

type TUIConfig struct {
	Glyphs string
}

// Load reads configuration. flags may be nil; when given, any flag named after a key
// (e.g. "backend.url") or in flagKeys overrides env and file values.
func Load(flags *pflag.FlagSet) (*Config, error) {
	dir, err := store.ConfigDir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(dir + string(os.PathSeparator) + "config.json")
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// TASKDECK_LOG is the short form for the log file.
	_ = v.BindEnv("log.path", EnvPrefix+"_LOG_PATH", EnvPrefix+"_LOG")

	if flags != nil {
		for flagName, key := range flagKeys {
			if f := flags.Lookup(flagName); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	timeout, err := getDuration(v, "backend.timeout")
	if err != nil {
		return nil, err
	}
	maxAge, err := getDuration(v, "refresh.maxAge")
	if err != nil {
		return nil, err
	}

	return &Config{
		Backend: BackendConfig{
			URL:      getString(v, "backend.url", DefaultBackendURL),
			BasePath: getString(v, "backend.basePath", DefaultBasePath),
			Timeout:  timeout,
		},
		Log: LogConfig{
			Level: getString(v, "log.level", "info"),
			Path:  getString(v, "log.path", ""),
		},
		Refresh: RefreshConfig{MaxAge: maxAge},
		TUI:     TUIConfig{Glyphs: getString(v, "tui.glyphs", "unicode")},
		Dir:     dir,
	}, nil
}

// flagKeys maps cobra persistent flag names to config keys.
var flagKeys = map[string]string{
	"backend":   "backend.url",
	"base-path": "backend.basePath",
	"timeout":   "backend.timeout",
	"log-level": "log.level",
	"log-file":  "log.path",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend.url", DefaultBackendURL)
	v.SetDefault("backend.basePath", DefaultBasePath)
	v.SetDefault("backend.timeout", "0")
	v.SetDefault("log.level", "info")
	v.SetDefault("refresh.maxAge", "0")
	v.SetDefault("tui.glyphs", "unicode")
}

func getString(v *viper.Viper, key, def string) string {
	if s := strings.TrimSpace(v.GetString(key)); s != "" {
		return s
	}
	return def
}

func getDuration(v *viper.Viper, key string) (time.Duration, error) {
	s := strings.TrimSpace(v.GetString(key))
	if s == "" || s == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, errors.New("invalid " + key + ": " + s)
	}
	if d < 0 {
		return 0, errors.New("invalid " + key + ": must not be negative")
	}
	return d, nil
}
