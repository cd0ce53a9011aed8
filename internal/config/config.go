package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"ezsubs/internal/errors"
	"ezsubs/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Collision policies applied when a rename destination already exists.
const (
	CollisionFail   = "fail"   // record the instruction as failed
	CollisionSkip   = "skip"   // leave the subtitle untouched
	CollisionRename = "rename" // pick "name_(n).ext"
)

// EnvPrefix prefixes environment overrides, e.g. EZSUBS_SETTINGS_DRY_RUN.
const EnvPrefix = "EZSUBS"

// Config represents the application configuration structure.
type Config struct {
	Media     ListConfig `yaml:"media" mapstructure:"media"`         // Left-hand list (video files)
	Subtitles ListConfig `yaml:"subtitles" mapstructure:"subtitles"` // Right-hand list (subtitle files)
	Collect   struct {
		Recursive bool `yaml:"recursive" mapstructure:"recursive"` // Descend into sub-directories of dropped folders
	} `yaml:"collect" mapstructure:"collect"`
	Settings Settings `yaml:"settings" mapstructure:"settings"`
	Logging  struct {
		Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
		Format string `yaml:"format" mapstructure:"format"` // text or json
		File   string `yaml:"file" mapstructure:"file"`     // Optional log file
	} `yaml:"logging" mapstructure:"logging"`
	Theme struct {
		Name string `yaml:"name" mapstructure:"name"` // TUI color theme
	} `yaml:"theme" mapstructure:"theme"`
}

// ListConfig configures one of the two file lists.
type ListConfig struct {
	Extensions []string `yaml:"extensions" mapstructure:"extensions"` // Accepted extensions, without dots
}

// ExtensionSet returns the normalized extension set.
func (l ListConfig) ExtensionSet() types.ExtensionSet {
	return types.NewExtensionSet(l.Extensions...)
}

// Settings holds rename behaviour.
type Settings struct {
	DryRun          bool   `yaml:"dry_run" mapstructure:"dry_run"`                       // If true, simulate renames
	CreateDirs      bool   `yaml:"create_dirs" mapstructure:"create_dirs"`               // Create missing target directories
	Collision       string `yaml:"collision" mapstructure:"collision"`                   // fail, skip or rename
	SortOnFirstDrop bool   `yaml:"sort_on_first_drop" mapstructure:"sort_on_first_drop"` // Natural-sort a list when it is first filled
}

// DefaultPath returns ~/.config/ezsubs/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ezsubs", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location.
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from path, layered over the defaults
// and under EZSUBS_* environment variables. A missing file is not an error.
func LoadConfigFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, defaultConfig())

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewConfigError("error reading config file", path, errors.InvalidConfig, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.NewConfigError("error parsing config file", path, errors.InvalidConfig, err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("media.extensions", cfg.Media.Extensions)
	v.SetDefault("subtitles.extensions", cfg.Subtitles.Extensions)
	v.SetDefault("collect.recursive", cfg.Collect.Recursive)
	v.SetDefault("settings.dry_run", cfg.Settings.DryRun)
	v.SetDefault("settings.create_dirs", cfg.Settings.CreateDirs)
	v.SetDefault("settings.collision", cfg.Settings.Collision)
	v.SetDefault("settings.sort_on_first_drop", cfg.Settings.SortOnFirstDrop)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("theme.name", cfg.Theme.Name)
}

// normalize lowercases extensions and strips dots and blanks.
func (c *Config) normalize() {
	c.Media.Extensions = c.Media.ExtensionSet().List()
	c.Subtitles.Extensions = c.Subtitles.ExtensionSet().List()
	c.Settings.Collision = strings.ToLower(strings.TrimSpace(c.Settings.Collision))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
}

// defaultConfig returns the default configuration with safe defaults.
func defaultConfig() *Config {
	cfg := &Config{}
	cfg.Media.Extensions = append([]string(nil), types.MediaExtensions...)
	cfg.Subtitles.Extensions = append([]string(nil), types.SubtitleExtensions...)
	cfg.Collect.Recursive = true
	cfg.Settings.DryRun = false
	cfg.Settings.CreateDirs = true
	cfg.Settings.Collision = CollisionFail
	cfg.Settings.SortOnFirstDrop = true
	cfg.Logging.Level = "info"
	cfg.Logging.Format = "text"
	cfg.Theme.Name = "default"
	return cfg
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// NewTestConfig creates a configuration for tests with debug logging.
func NewTestConfig() *Config {
	cfg := defaultConfig()
	cfg.Logging.Level = "debug"
	return cfg
}

// SaveConfig writes cfg as YAML, creating parent directories.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Marshal renders cfg as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.NewConfigError("nil config", "", errors.InvalidConfig, nil)
	}

	switch c.Settings.Collision {
	case CollisionFail, CollisionSkip, CollisionRename:
	default:
		return errors.NewConfigError("invalid collision setting", c.Settings.Collision, errors.InvalidConfig, nil)
	}

	if len(c.Media.Extensions) == 0 {
		return errors.NewConfigError("at least one extension is required", "media.extensions", errors.InvalidConfig, nil)
	}
	if len(c.Subtitles.Extensions) == 0 {
		return errors.NewConfigError("at least one extension is required", "subtitles.extensions", errors.InvalidConfig, nil)
	}

	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return errors.NewConfigError("invalid log level", c.Logging.Level, errors.InvalidConfig, err)
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return errors.NewConfigError("invalid log format", c.Logging.Format, errors.InvalidConfig, nil)
	}

	if _, ok := themes[c.Theme.Name]; !ok {
		return errors.NewConfigError("unknown theme", c.Theme.Name, errors.InvalidConfig, nil)
	}
	return nil
}

var themes = map[string]map[string]string{
	"default": {
		"primary":  "213", // Purple
		"success":  "114", // Green
		"warning":  "220", // Yellow
		"error":    "196", // Red
		"muted":    "245", // Grey
		"emphasis": "212", // Light Pink
	},
	"dark": {
		"primary":  "105",
		"success":  "78",
		"warning":  "214",
		"error":    "160",
		"muted":    "240",
		"emphasis": "147",
	},
	"monochrome": {
		"primary":  "250",
		"success":  "252",
		"warning":  "248",
		"error":    "255",
		"muted":    "241",
		"emphasis": "255",
	},
}

// GetTheme returns the ANSI color palette for name, falling back to the
// default theme.
func GetTheme(name string) map[string]string {
	if theme, ok := themes[name]; ok {
		return theme
	}
	return themes["default"]
}

// ListThemes returns the available theme names.
func ListThemes() []string {
	return []string{"default", "dark", "monochrome"}
}
