package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything Ladle needs to reach the platform.
type Config struct {
	APIURL      string
	MQTTBroker  string // empty disables the livestore bridge
	Realm       string
	SessionPath string
	LogFile     string

	DashboardPoll time.Duration
	OrdersPoll    time.Duration
	TrackPoll     time.Duration

	Demo DemoConfig
}

// DemoConfig drives the simulated telemetry feed used when no real driver
// devices are reporting.
type DemoConfig struct {
	Enabled  bool
	StartLat float64
	StartLng float64
	EndLat   float64
	EndLng   float64
}

const (
	defaultConfigPath = "~/.config/ladle/config.toml"
	defaultAPIURL     = "http://127.0.0.1:8000"
	defaultRealm      = "annapurna"
	defaultLogFile    = "~/.local/share/ladle/ladle.log"

	defaultDashboardPoll = 15 * time.Second
	defaultOrdersPoll    = 10 * time.Second
	defaultTrackPoll     = 5 * time.Second
)

type rawConfig struct {
	APIURL      string `toml:"api_url"`
	MQTTBroker  string `toml:"mqtt_broker"`
	Realm       string `toml:"realm"`
	SessionPath string `toml:"session_path"`
	LogFile     string `toml:"log_file"`

	Poll struct {
		DashboardSeconds int `toml:"dashboard_seconds"`
		OrdersSeconds    int `toml:"orders_seconds"`
		TrackSeconds     int `toml:"track_seconds"`
	} `toml:"poll"`

	Demo struct {
		Enabled  bool    `toml:"enabled"`
		StartLat float64 `toml:"start_lat"`
		StartLng float64 `toml:"start_lng"`
		EndLat   float64 `toml:"end_lat"`
		EndLng   float64 `toml:"end_lng"`
	} `toml:"demo"`
}

// Load locates and parses the ladle config, falling back to defaults when
// the file is missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

	raw, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	var parsed rawConfig
	if err := toml.Unmarshal(raw, &parsed); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(parsed.APIURL); v != "" {
		cfg.APIURL = v
	}
	cfg.MQTTBroker = strings.TrimSpace(parsed.MQTTBroker)
	if v := strings.TrimSpace(parsed.Realm); v != "" {
		cfg.Realm = v
	}
	cfg.SessionPath = strings.TrimSpace(parsed.SessionPath)
	if v := strings.TrimSpace(parsed.LogFile); v != "" {
		cfg.LogFile = v
	}
	cfg.LogFile = mustExpand(cfg.LogFile)

	if parsed.Poll.DashboardSeconds > 0 {
		cfg.DashboardPoll = time.Duration(parsed.Poll.DashboardSeconds) * time.Second
	}
	if parsed.Poll.OrdersSeconds > 0 {
		cfg.OrdersPoll = time.Duration(parsed.Poll.OrdersSeconds) * time.Second
	}
	if parsed.Poll.TrackSeconds > 0 {
		cfg.TrackPoll = time.Duration(parsed.Poll.TrackSeconds) * time.Second
	}

	cfg.Demo = DemoConfig(parsed.Demo)
	if cfg.Demo.Enabled && cfg.Demo.StartLat == 0 && cfg.Demo.StartLng == 0 &&
		cfg.Demo.EndLat == 0 && cfg.Demo.EndLng == 0 {
		// Demo route through Mumbai, matching the platform's seeded data.
		cfg.Demo.StartLat, cfg.Demo.StartLng = 19.0760, 72.8777
		cfg.Demo.EndLat, cfg.Demo.EndLng = 19.0330, 72.8569
	}

	return cfg, nil
}

func defaults() Config {
	return Config{
		APIURL:        defaultAPIURL,
		Realm:         defaultRealm,
		LogFile:       mustExpand(defaultLogFile),
		DashboardPoll: defaultDashboardPoll,
		OrdersPoll:    defaultOrdersPoll,
		TrackPoll:     defaultTrackPoll,
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
