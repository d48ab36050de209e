// Package config loads and saves the nanonav YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted after the YAML file is read.
const (
	EnvServerAddress = "NANONAV_SERVER_ADDRESS"
	EnvLogLevel      = "NANONAV_LOG_LEVEL"
	EnvSimProvider   = "NANONAV_SIM_PROVIDER"
)

// Config holds the application configuration.
type Config struct {
	Log    LogConfig    `yaml:"log"`
	DB     DBConfig     `yaml:"db"`
	Server ServerConfig `yaml:"server"`
	Ticker TickerConfig `yaml:"ticker"`
	Sim    SimConfig    `yaml:"sim"`
	Nav    NavConfig    `yaml:"nav"`
}

// SimConfig holds settings for the simulation connection.
type SimConfig struct {
	Provider string        `yaml:"provider"` // only "mock" is built in
	Mock     MockSimConfig `yaml:"mock"`
}

// MockSimConfig describes the straight-in approach flown by the mock vessel.
type MockSimConfig struct {
	StartLat        float64  `yaml:"start_lat"`
	StartLon        float64  `yaml:"start_lon"`
	StartAlt        float64  `yaml:"start_alt"` // meters MSL
	StartHeading    float64  `yaml:"start_heading"`
	GroundSpeed     float64  `yaml:"ground_speed"` // m/s
	DescentAngle    float64  `yaml:"descent_angle"`
	GroundElevation float64  `yaml:"ground_elevation"` // meters MSL
	Delay           Duration `yaml:"delay"`
}

// NavConfig holds navigation settings.
type NavConfig struct {
	BodyName    string      `yaml:"body_name"`
	BodyRadius  Distance    `yaml:"body_radius"`
	Proximity   Distance    `yaml:"proximity_threshold"`
	Catalog     string      `yaml:"catalog"`
	Destination string      `yaml:"destination"` // airfield selected at startup, empty for none
	Defaults    ILSDefaults `yaml:"defaults"`
}

// ILSDefaults are applied to runways that leave an optional field unset.
type ILSDefaults struct {
	Cone       float64  `yaml:"ils_cone"`
	Range      Distance `yaml:"ils_range"`
	Glideslope float64  `yaml:"glideslope"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server   LogSettings `yaml:"server"`
	Requests LogSettings `yaml:"requests"`
	Events   LogSettings `yaml:"events"`
	Trace    bool        `yaml:"trace"` // per-tick navigation logs at debug level
}

// LogSettings holds settings for a specific logger.
type LogSettings struct {
	Path      string `yaml:"path"`
	Level     string `yaml:"level"`
	MaxSizeMB int    `yaml:"max_size_mb"`
}

// DBConfig holds database settings.
type DBConfig struct {
	Path           string   `yaml:"path"`
	EventRetention Duration `yaml:"event_retention"` // 0 keeps events forever
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// TickerConfig holds ticker settings.
type TickerConfig struct {
	TelemetryLoop  Duration `yaml:"telemetry_loop"`
	StatusInterval Duration `yaml:"status_interval"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Server: LogSettings{
				Path:      "./logs/server.log",
				Level:     "INFO",
				MaxSizeMB: 32,
			},
			Requests: LogSettings{
				Path:      "./logs/requests.log",
				Level:     "INFO",
				MaxSizeMB: 16,
			},
			Events: LogSettings{
				Path:  "./logs/events.log",
				Level: "INFO",
			},
		},
		DB: DBConfig{
			Path:           "./data/nanonav.db",
			EventRetention: Duration(30 * Day),
		},
		Server: ServerConfig{
			Address: "localhost:1921",
		},
		Ticker: TickerConfig{
			TelemetryLoop:  Duration(100 * time.Millisecond),
			StatusInterval: Duration(10 * time.Second),
		},
		Sim: SimConfig{
			Provider: "mock",
			Mock: MockSimConfig{
				// 20 km west of the KSC 090 threshold, on the 3 degree glideslope
				StartLat:        -0.0486,
				StartLon:        -76.6229,
				StartAlt:        1114.0,
				StartHeading:    90.0,
				GroundSpeed:     80.0,
				DescentAngle:    3.0,
				GroundElevation: 65.75,
				Delay:           Duration(5 * time.Second),
			},
		},
		Nav: NavConfig{
			BodyName:   "Kerbin",
			BodyRadius: Distance(600000),
			Proximity:  Distance(2000),
			Catalog:    "configs/airfields.yaml",
			Defaults: ILSDefaults{
				Cone:       5.0,
				Range:      Distance(25000),
				Glideslope: 3.0,
			},
		},
	}
}

// Load loads the configuration from the given path.
// If the file does not exist, it creates it with default values.
// If the file exists, it merges defaults with existing values but does NOT save back to disk.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if err := Save(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config file: %w", err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv lets the environment (or a .env file loaded beforehand) override a few settings.
func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvServerAddress); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Server.Level = v
	}
	if v := os.Getenv(EnvSimProvider); v != "" {
		cfg.Sim.Provider = v
	}
}

var validLevel = regexp.MustCompile(`^(?i)(debug|info|warn|error)$`)

// Validate checks values that would otherwise produce nonsense navigation output.
func (c *Config) Validate() error {
	if c.Nav.BodyRadius <= 0 {
		return fmt.Errorf("invalid nav.body_radius %v: must be positive", float64(c.Nav.BodyRadius))
	}
	if c.Nav.Proximity < 0 {
		return fmt.Errorf("invalid nav.proximity_threshold %v: must not be negative", float64(c.Nav.Proximity))
	}
	if c.Nav.Defaults.Cone < 0 || c.Nav.Defaults.Range < 0 {
		return fmt.Errorf("invalid nav.defaults: cone and range must not be negative")
	}
	if lvl := c.Log.Server.Level; lvl != "" && !validLevel.MatchString(lvl) {
		return fmt.Errorf("invalid log.server.level '%s': must be one of debug, info, warn, error", lvl)
	}
	if p := strings.ToLower(c.Sim.Provider); p != "mock" && p != "none" {
		return fmt.Errorf("invalid sim.provider '%s': must be 'mock' or 'none'", c.Sim.Provider)
	}
	return nil
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# nanonav Configuration
# ---------------------
# Supported Units:
#   Duration: ns, us (or µs), ms, s, m, h, d (day), w (week)
#   Distance: m (meters), km (kilometers), nm (nautical miles), ft (feet)

`)
	data = append(header, data...)

	reProvider := regexp.MustCompile(`(?m)^(\s+)provider:`)
	data = reProvider.ReplaceAll(data, []byte("${1}# Options: mock, none\n${1}provider:"))

	reDest := regexp.MustCompile(`(?m)^(\s+)destination:`)
	data = reDest.ReplaceAll(data, []byte("${1}# Airfield name from the catalog, empty for none\n${1}destination:"))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at the given path.
// Returns nil if the file already exists.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return Save(path, DefaultConfig())
}
