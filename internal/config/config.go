package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jopey-woof/turt3/internal/fix"
)

// Config is the calfix configuration file
type Config struct {
	// Root is prefixed to every fix path (e.g. a mounted image)
	Root string `yaml:"root" json:"root"`

	// Backup keeps <file>.bak copies before patching
	Backup bool `yaml:"backup" json:"backup"`

	// MetricsFile is a node-exporter textfile target; empty disables it
	MetricsFile string `yaml:"metrics_file" json:"metrics_file"`

	Log LogConfig `yaml:"log" json:"log"`

	// Watch settings for `calfix watch`
	Watch WatchConfig `yaml:"watch" json:"watch"`

	// Fixes are merged over the built-in catalog by name
	Fixes []fix.Fix `yaml:"fixes" json:"fixes"`
}

// LogConfig selects log level and format
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`  // debug, info, warn, error
	Format string `yaml:"format" json:"format"` // text or json
}

// WatchConfig tunes the watch loop
type WatchConfig struct {
	Debounce string `yaml:"debounce" json:"debounce"` // e.g. "500ms"
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Watch: WatchConfig{
			Debounce: "500ms",
		},
	}
}

// Load loads configuration from a YAML file, filling defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration, filling defaults and validating fixes
func Parse(data []byte) (*Config, error) {
	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "text"
	}
	if config.Watch.Debounce == "" {
		config.Watch.Debounce = "500ms"
	}

	for _, f := range config.Fixes {
		if err := f.Validate(); err != nil {
			return nil, err
		}
	}

	return config, nil
}

// Catalog returns the built-in fixes merged with the configured ones
func (c *Config) Catalog() *fix.Catalog {
	catalog := fix.Builtin()
	catalog.Merge(c.Fixes...)
	return catalog
}

// Exists checks if config file exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ExampleConfig is printed by `calfix config example`
const ExampleConfig = `# calfix configuration
# Searched in /etc/calfix/config.yaml and $HOME/.calfix/config.yaml

# Prefix applied to every fix path (useful against a mounted image)
root: ""

# Keep <file>.bak before patching
backup: false

# node-exporter textfile collector output (empty = disabled)
metrics_file: ""

log:
  level: info     # debug, info, warn, error
  format: text    # text or json

watch:
  debounce: "500ms"

# Extra fixes, or overrides of the built-ins by name
fixes:
  - name: calibration
    path: /etc/X11/xorg.conf.d/10-touchscreen.conf
    old: 'Option "CalibrationMatrix" ""'
    new: 'Option "CalibrationMatrix" "1.0 0.0 0.0 0.0 0.8 0.0 0.0 0.0 1.0"'
    success: "✅ Calibration matrix applied successfully!"
    details:
      - "   Matrix: 1.0 0.0 0.0 0.0 0.8 0.0 0.0 0.0 1.0"
    not_found: "❌ Could not find empty calibration matrix in configuration"
`
