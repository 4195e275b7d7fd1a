package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DefaultPomodoroMinutes is used when the configured minute count is
// missing or not a positive integer.
const DefaultPomodoroMinutes = 25

// ServerConfig describes how to reach the dashboard server.
type ServerConfig struct {
	// BaseURL is the root URL of the dashboard (e.g., http://localhost:8000).
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// CSRFCookie is the cookie that carries the CSRF token.
	CSRFCookie string `mapstructure:"csrf_cookie" yaml:"csrf_cookie"`

	// CSRFHeader is the request header the token is echoed in.
	CSRFHeader string `mapstructure:"csrf_header" yaml:"csrf_header"`

	// SessionCookie is the name of the authenticated session cookie.
	SessionCookie string `mapstructure:"session_cookie" yaml:"session_cookie"`

	// TimeoutSec bounds each request. Zero leaves requests unbounded.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// PomodoroConfig holds the countdown timer settings.
type PomodoroConfig struct {
	Minutes int `mapstructure:"minutes" yaml:"minutes"`
}

// ToastConfig holds notification display settings.
type ToastConfig struct {
	// Enabled controls whether the toast container is mounted at all.
	Enabled    bool `mapstructure:"enabled" yaml:"enabled"`
	DurationMs int  `mapstructure:"duration_ms" yaml:"duration_ms"`
	GraceMs    int  `mapstructure:"grace_ms" yaml:"grace_ms"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme           string `mapstructure:"theme" yaml:"theme"`
	PollIntervalSec int    `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`
}

// StoreConfig locates the local sqlite database.
type StoreConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// LogConfig locates the diagnostic log file.
type LogConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Pomodoro PomodoroConfig `mapstructure:"pomodoro" yaml:"pomodoro"`
	Toast    ToastConfig    `mapstructure:"toast" yaml:"toast"`
	Display  DisplayConfig  `mapstructure:"display" yaml:"display"`
	Store    StoreConfig    `mapstructure:"store" yaml:"store"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/focusflow/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "focusflow", "config.yaml")
}

// dataDir returns ~/.local/share/focusflow, or the working directory
// when the home directory cannot be resolved.
func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "focusflow")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			BaseURL:       "http://localhost:8000",
			CSRFCookie:    "csrftoken",
			CSRFHeader:    "X-CSRFToken",
			SessionCookie: "sessionid",
		},
		Pomodoro: PomodoroConfig{Minutes: DefaultPomodoroMinutes},
		Toast: ToastConfig{
			Enabled:    true,
			DurationMs: 3200,
			GraceMs:    250,
		},
		Display: DisplayConfig{
			Theme:           "light",
			PollIntervalSec: 120,
		},
		Store: StoreConfig{Path: filepath.Join(dataDir(), "focusflow.db")},
		Log:   LogConfig{File: filepath.Join(dataDir(), "focusflow.log")},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	def := defaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("server.base_url", def.Server.BaseURL)
	v.SetDefault("server.csrf_cookie", def.Server.CSRFCookie)
	v.SetDefault("server.csrf_header", def.Server.CSRFHeader)
	v.SetDefault("server.session_cookie", def.Server.SessionCookie)
	v.SetDefault("server.timeout_sec", 0)
	v.SetDefault("pomodoro.minutes", DefaultPomodoroMinutes)
	v.SetDefault("toast.enabled", true)
	v.SetDefault("toast.duration_ms", def.Toast.DurationMs)
	v.SetDefault("toast.grace_ms", def.Toast.GraceMs)
	v.SetDefault("display.theme", def.Display.Theme)
	v.SetDefault("display.poll_interval_sec", def.Display.PollIntervalSec)
	v.SetDefault("store.path", def.Store.Path)
	v.SetDefault("log.file", def.Log.File)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return def, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return def, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	// A bad minute count falls back rather than failing startup.
	if v.GetInt("pomodoro.minutes") <= 0 {
		v.Set("pomodoro.minutes", DefaultPomodoroMinutes)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Toast.DurationMs < 0 {
		cfg.Toast.DurationMs = def.Toast.DurationMs
	}
	if cfg.Toast.GraceMs < 0 {
		cfg.Toast.GraceMs = def.Toast.GraceMs
	}
	if cfg.Display.PollIntervalSec <= 0 {
		cfg.Display.PollIntervalSec = def.Display.PollIntervalSec
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("server", cfg.Server)
	v.Set("pomodoro", cfg.Pomodoro)
	v.Set("toast", cfg.Toast)
	v.Set("display", cfg.Display)
	v.Set("store", cfg.Store)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
