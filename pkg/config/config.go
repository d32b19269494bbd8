// Package config handles loading and parsing of lazybuild configuration.
// Configuration is loaded from ~/.lazybuild/config.yaml or ./config.yaml;
// command line flags bound to the same keys take precedence.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Bridge kinds.
const (
	BridgeXcode   = "xcode"
	BridgeFixture = "fixture"
)

// Config is the root configuration structure for lazybuild.
type Config struct {
	UI     UIConfig     `mapstructure:"ui"`
	Bridge BridgeConfig `mapstructure:"bridge"`
	Log    LogConfig    `mapstructure:"log"`
	Watch  WatchConfig  `mapstructure:"watch"`
}

// UIConfig contains user interface configuration options.
type UIConfig struct {
	Theme ThemeConfig `mapstructure:"theme"`
	// ShowIcons enables Nerd Font icons in panel titles
	ShowIcons bool `mapstructure:"showIcons"`
	// NerdFontsVersion is "2" or "3"; anything else disables icons
	NerdFontsVersion string `mapstructure:"nerdFontsVersion"`
}

// ThemeConfig defines the color scheme for the terminal UI.
// Colors can be specified as:
//   - Named colors: "cyan", "blue", "red", "green", "yellow", "magenta", "white", "black", "default"
//   - Hex colors: "#ed8796"
//   - 256-color numbers: "0" to "255"
//   - Attributes: "bold", "underline", "reverse"
type ThemeConfig struct {
	// ActiveBorderColor is the color of the focused panel's border and title
	ActiveBorderColor []string `mapstructure:"activeBorderColor"`
	// InactiveBorderColor is the color of unfocused panel borders
	InactiveBorderColor []string `mapstructure:"inactiveBorderColor"`
	// FilterBorderColor marks a panel with a committed search
	FilterBorderColor []string `mapstructure:"filterBorderColor"`
	// OptionsTextColor is the color of help text in the footer
	OptionsTextColor []string `mapstructure:"optionsTextColor"`
	// SelectedLineBgColor is the background color of the highlighted row
	SelectedLineBgColor []string `mapstructure:"selectedLineBgColor"`
}

// BridgeConfig selects and tunes the source of project data.
type BridgeConfig struct {
	// Kind is "xcode" (default) or "fixture"
	Kind string `mapstructure:"kind"`
	// Osascript is the script runner used by the xcode bridge
	Osascript string `mapstructure:"osascript"`
	// Fixture is the YAML file served by the fixture bridge
	Fixture string `mapstructure:"fixture"`
	// Timeout bounds each bridge call; zero means no limit
	Timeout time.Duration `mapstructure:"timeout"`
	// Latency delays fixture calls to imitate a slow Xcode
	Latency time.Duration `mapstructure:"latency"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// WatchConfig lists paths whose changes trigger a reload.
type WatchConfig struct {
	Paths    []string      `mapstructure:"paths"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// Dir returns ~/.lazybuild, or "" when the home directory is unknown.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".lazybuild")
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("ui.theme.activeBorderColor", []string{"cyan"})
	v.SetDefault("ui.theme.inactiveBorderColor", []string{"default"})
	v.SetDefault("ui.theme.filterBorderColor", []string{"yellow"})
	v.SetDefault("ui.theme.optionsTextColor", []string{"cyan"})
	v.SetDefault("ui.theme.selectedLineBgColor", []string{"blue"})
	v.SetDefault("ui.showIcons", false)
	v.SetDefault("ui.nerdFontsVersion", "3")

	v.SetDefault("bridge.kind", BridgeXcode)
	v.SetDefault("bridge.osascript", "osascript")
	v.SetDefault("bridge.timeout", time.Duration(0))
	v.SetDefault("bridge.latency", time.Duration(0))

	logFile := ""
	if dir := Dir(); dir != "" {
		logFile = filepath.Join(dir, "lazybuild.log")
	}
	v.SetDefault("log.file", logFile)
	v.SetDefault("log.level", "info")

	v.SetDefault("watch.paths", []string{})
	v.SetDefault("watch.debounce", 500*time.Millisecond)
}

// Load reads configuration into v. An explicit file wins over the search
// in ~/.lazybuild/ and the current directory. A missing config file is not
// an error.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir := Dir(); dir != "" {
			// Create config directory if it doesn't exist
			if err := os.MkdirAll(dir, 0755); err == nil {
				v.AddConfigPath(dir)
			}
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "failed to read config")
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}
	return config, nil
}
