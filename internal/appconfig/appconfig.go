// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mwiater/calview/internal/calibration"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// legacyConfigPath is checked when the default path does not exist.
	legacyConfigPath = "config.json"
	// DefaultListenAddr is the address the dashboard server binds to.
	DefaultListenAddr = ":8501"
	// defaultReadTimeout bounds how long the server waits for a request.
	defaultReadTimeout = 30 * time.Second
	defaultLogFile     = "calview.log"
)

// Config represents the top-level application configuration.
type Config struct {
	Debug              bool     `json:"debug" mapstructure:"debug"`
	LogFile            string   `json:"logFile,omitempty" mapstructure:"logFile"`
	TrainingLog        string   `json:"trainingLog,omitempty" mapstructure:"trainingLog"`
	TrainingLogCPS     string   `json:"trainingLogCPS,omitempty" mapstructure:"trainingLogCPS"`
	FinalResults       string   `json:"finalResults,omitempty" mapstructure:"finalResults"`
	DefaultMetrics     []string `json:"defaultMetrics,omitempty" mapstructure:"defaultMetrics"`
	ListenAddr         string   `json:"listenAddr,omitempty" mapstructure:"listenAddr"`
	ReadTimeoutSeconds int      `json:"readTimeout,omitempty" mapstructure:"readTimeout"`
	ConfigPath         string   `json:"-" mapstructure:"-"`
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return defaultLogFile
}

// InputPaths returns the three input tables, falling back to the file names
// the calibration run writes into the working directory.
func (c Config) InputPaths() calibration.Paths {
	paths := calibration.DefaultPaths()
	if p := strings.TrimSpace(c.TrainingLog); p != "" {
		paths.TrainingLog = p
	}
	if p := strings.TrimSpace(c.TrainingLogCPS); p != "" {
		paths.TrainingLogCPS = p
	}
	if p := strings.TrimSpace(c.FinalResults); p != "" {
		paths.FinalResults = p
	}
	return paths
}

// DefaultMetricNames returns the configured default selection, or the
// built-in one.
func (c Config) DefaultMetricNames() []string {
	if len(c.DefaultMetrics) == 0 {
		out := make([]string, len(calibration.DefaultMetrics))
		copy(out, calibration.DefaultMetrics)
		return out
	}
	out := make([]string, len(c.DefaultMetrics))
	copy(out, c.DefaultMetrics)
	return out
}

// ListenAddress returns the server address.
func (c Config) ListenAddress() string {
	if addr := strings.TrimSpace(c.ListenAddr); addr != "" {
		return addr
	}
	return DefaultListenAddr
}

// ReadTimeout returns the server read timeout.
func (c Config) ReadTimeout() time.Duration {
	if c.ReadTimeoutSeconds <= 0 {
		return defaultReadTimeout
	}
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// Load reads the application configuration from the specified path, with fallback to a legacy path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err == nil {
		config.ConfigPath = path
		return config, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		if path == DefaultConfigPath {
			config, legacyErr := loadFromPath(legacyConfigPath)
			if legacyErr == nil {
				config.ConfigPath = legacyConfigPath
				return config, nil
			}
			if errors.Is(legacyErr, os.ErrNotExist) {
				return Config{}, fmt.Errorf("no configuration file found (searched %q and %q): %w", DefaultConfigPath, legacyConfigPath, os.ErrNotExist)
			}
			return Config{}, fmt.Errorf("could not read config file %q: %w", legacyConfigPath, legacyErr)
		}
		return Config{}, fmt.Errorf("no configuration file found at %q: %w", path, os.ErrNotExist)
	}

	return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
}

// loadFromPath reads, validates and decodes one configuration file.
func loadFromPath(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := Validate(raw); err != nil {
		return Config{}, err
	}

	var config Config
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&config); err != nil {
		return Config{}, err
	}
	return config, nil
}
