// Package config handles loading and validating twinspect configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// envVarPattern matches ${VAR_NAME} placeholders in config values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ErrConfigFileNotFound is returned by Load when the specified config file does not exist.
var ErrConfigFileNotFound = errors.New("config file not found")

// Config is the top-level twinspect configuration.
type Config struct {
	Listen         string               `yaml:"listen" env:"TWINSPECT_LISTEN"`
	DataDir        string               `yaml:"data_dir" env:"TWINSPECT_DATA_DIR"`
	LogLevel       string               `yaml:"log_level" env:"TWINSPECT_LOG_LEVEL"`
	LogFormat      string               `yaml:"log_format" env:"TWINSPECT_LOG_FORMAT"`
	LogToFile      bool                 `yaml:"log_to_file" env:"TWINSPECT_LOG_TO_FILE"`
	HistoryHours   int                  `yaml:"history_hours" env:"TWINSPECT_HISTORY_HOURS"`
	WorkerPoolSize int                  `yaml:"worker_pool_size" env:"TWINSPECT_WORKER_POOL_SIZE"`
	Simulation     SimulationConfig     `yaml:"simulation"`
	Bootstrap      BootstrapConfig      `yaml:"bootstrap"`
	Notifications  []NotificationConfig `yaml:"notifications"`
	Alerts         AlertsConfig         `yaml:"alerts"`
}

// SimulationConfig tunes the simulated device fleet.
type SimulationConfig struct {
	Devices        int      `yaml:"devices" env:"TWINSPECT_SIM_DEVICES"`
	Seed           int64    `yaml:"seed" env:"TWINSPECT_SIM_SEED"`
	DeviceInterval Duration `yaml:"device_interval"`
	SystemInterval Duration `yaml:"system_interval"`
	EnergyInterval Duration `yaml:"energy_interval"`
}

// BootstrapConfig controls the optional subprocess steps of the bootstrap
// sequence. An empty Installer or Manifest disables the install step; an
// empty UIPatchCmd disables the patch hook.
type BootstrapConfig struct {
	Installer     string   `yaml:"installer"`
	InstallerArgs []string `yaml:"installer_args"`
	Manifest      string   `yaml:"manifest"`
	UIPatchCmd    string   `yaml:"ui_patch_cmd"`
	UIPatchArgs   []string `yaml:"ui_patch_args"`
	Tools         []string `yaml:"tools"`
}

// NotificationConfig describes a notification target.
type NotificationConfig struct {
	Type    string            `yaml:"type"` // "ntfy" or "webhook"
	URL     string            `yaml:"url"`
	Topic   string            `yaml:"topic,omitempty"`   // ntfy only
	Method  string            `yaml:"method,omitempty"`  // webhook only
	Headers map[string]string `yaml:"headers,omitempty"` // webhook only
}

// AlertsConfig holds thresholds for each alert rule.
type AlertsConfig struct {
	DeviceCritical    *AlertDeviceCritical    `yaml:"device_critical,omitempty"`
	ReadingOutOfRange *AlertReadingOutOfRange `yaml:"reading_out_of_range,omitempty"`
	DeviceStale       *AlertDeviceStale       `yaml:"device_stale,omitempty"`
	EnergyOverBudget  *AlertEnergyOverBudget  `yaml:"energy_over_budget,omitempty"`
}

type AlertDeviceCritical struct {
	Cooldown Duration `yaml:"cooldown"`
	Severity string   `yaml:"severity"`
}

type AlertReadingOutOfRange struct {
	Duration Duration `yaml:"duration"`
	Severity string   `yaml:"severity"`
}

type AlertDeviceStale struct {
	GracePeriod Duration `yaml:"grace_period"`
	Severity    string   `yaml:"severity"`
}

type AlertEnergyOverBudget struct {
	ThresholdKW float64 `yaml:"threshold_kw"`
	Severity    string  `yaml:"severity"`
}

// Duration wraps time.Duration with YAML string parsing support.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// Paths holds every filesystem location twinspect provisions and uses,
// derived once from the data root so components never guess paths.
type Paths struct {
	Root           string
	DBDir          string
	DBFile         string
	LogsDir        string
	LogFile        string
	AuditDir       string
	BackupsDir     string
	KeysDir        string
	MasterKeyFile  string
	MasterSaltFile string
	AnalyticsCache string
	AnalyticsModel string
	ReportsDir     string
	WebStaticDir   string
}

// Paths derives the environment layout from the configured data root.
func (c *Config) Paths() Paths {
	root := c.DataDir
	return Paths{
		Root:           root,
		DBDir:          filepath.Join(root, "db"),
		DBFile:         filepath.Join(root, "db", "digital_twin.db"),
		LogsDir:        filepath.Join(root, "logs"),
		LogFile:        filepath.Join(root, "logs", "twinspect.log"),
		AuditDir:       filepath.Join(root, "security", "audit"),
		BackupsDir:     filepath.Join(root, "security", "backups"),
		KeysDir:        filepath.Join(root, "security", "keys"),
		MasterKeyFile:  filepath.Join(root, "security", "keys", "master.key"),
		MasterSaltFile: filepath.Join(root, "security", "keys", "master.salt"),
		AnalyticsCache: filepath.Join(root, "analytics", "cache"),
		AnalyticsModel: filepath.Join(root, "analytics", "models"),
		ReportsDir:     filepath.Join(root, "reports"),
		WebStaticDir:   filepath.Join(root, "web", "static"),
	}
}

// Load reads configuration from a YAML file. If no path is given, defaults
// plus TWINSPECT_* environment variables apply. If a path is given and the
// file does not exist, ErrConfigFileNotFound is returned.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
		}
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(expandEnvVars(data), cfg); err != nil {
				return nil, fmt.Errorf("parsing config: %w", err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("log_level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.LogFormat] {
		return fmt.Errorf("log_format must be one of: text, json")
	}
	if c.HistoryHours < 1 {
		return fmt.Errorf("history_hours must be >= 1")
	}
	if c.WorkerPoolSize < 1 {
		return fmt.Errorf("worker_pool_size must be >= 1")
	}
	if c.Simulation.Devices < 1 {
		return fmt.Errorf("simulation.devices must be >= 1")
	}
	if c.Simulation.DeviceInterval.Duration <= 0 {
		return fmt.Errorf("simulation.device_interval must be > 0")
	}
	if c.Simulation.SystemInterval.Duration <= 0 {
		return fmt.Errorf("simulation.system_interval must be > 0")
	}
	if c.Simulation.EnergyInterval.Duration <= 0 {
		return fmt.Errorf("simulation.energy_interval must be > 0")
	}
	if c.Bootstrap.Installer != "" && c.Bootstrap.Manifest == "" {
		return fmt.Errorf("bootstrap.manifest is required when bootstrap.installer is set")
	}
	for i, n := range c.Notifications {
		switch n.Type {
		case "ntfy":
			if n.URL == "" {
				return fmt.Errorf("notifications[%d]: url is required for ntfy", i)
			}
			if n.Topic == "" {
				return fmt.Errorf("notifications[%d]: topic is required for ntfy", i)
			}
		case "webhook":
			if n.URL == "" {
				return fmt.Errorf("notifications[%d]: url is required for webhook", i)
			}
		default:
			return fmt.Errorf("notifications[%d]: unknown type %q (expected ntfy or webhook)", i, n.Type)
		}
	}

	// Validate alert thresholds
	if a := c.Alerts.DeviceCritical; a != nil {
		if a.Cooldown.Duration <= 0 {
			return fmt.Errorf("alerts.device_critical: cooldown must be > 0")
		}
	}
	if a := c.Alerts.ReadingOutOfRange; a != nil {
		if a.Duration.Duration <= 0 {
			return fmt.Errorf("alerts.reading_out_of_range: duration must be > 0")
		}
	}
	if a := c.Alerts.DeviceStale; a != nil {
		if a.GracePeriod.Duration <= 0 {
			return fmt.Errorf("alerts.device_stale: grace_period must be > 0")
		}
	}
	if a := c.Alerts.EnergyOverBudget; a != nil {
		if a.ThresholdKW <= 0 {
			return fmt.Errorf("alerts.energy_over_budget: threshold_kw must be > 0")
		}
	}

	return nil
}

func defaults() *Config {
	return &Config{
		Listen:         ":3900",
		DataDir:        "data",
		LogLevel:       "info",
		LogFormat:      "text",
		LogToFile:      false,
		HistoryHours:   48,
		WorkerPoolSize: 4,
		Simulation: SimulationConfig{
			Devices:        20,
			Seed:           0,
			DeviceInterval: Duration{5 * time.Second},
			SystemInterval: Duration{10 * time.Second},
			EnergyInterval: Duration{30 * time.Second},
		},
		Bootstrap: BootstrapConfig{
			Installer:     "pip3",
			InstallerArgs: []string{"install", "-r"},
			Manifest:      "requirements.txt",
			Tools:         []string{"python3"},
		},
	}
}

// expandEnvVars replaces ${VAR_NAME} placeholders in raw YAML with the
// corresponding environment variable values. Unset variables are replaced
// with an empty string, which will then fail validation with a clear error.
func expandEnvVars(data []byte) []byte {
	return envVarPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		key := string(match[2 : len(match)-1]) // strip ${ and }
		return []byte(os.Getenv(key))
	})
}
