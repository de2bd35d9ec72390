// Package config loads pcmuml settings from a TOML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	perrors "github.com/palladiosimulator/pcmuml/pkg/errors"
	"github.com/palladiosimulator/pcmuml/pkg/pipeline"
	"github.com/palladiosimulator/pcmuml/pkg/render"
)

const (
	appName = "pcmuml"

	// LocalFile is the project configuration file looked up in the working
	// directory.
	LocalFile = ".pcmuml.toml"

	// EnvPrefix prefixes environment overrides, e.g. PCMUML_OUTPUT_DIR.
	EnvPrefix = "PCMUML"
)

// Config holds all configuration options for pcmuml.
type Config struct {
	OutputDir  string      `mapstructure:"output_dir"`
	Wrap       bool        `mapstructure:"wrap"`
	Kinds      []string    `mapstructure:"kinds"`
	Workspace  string      `mapstructure:"workspace"` // Root for platform:/resource locations
	SystemName string      `mapstructure:"system_name"`
	Serve      ServeConfig `mapstructure:"serve"`
	Watch      WatchConfig `mapstructure:"watch"`

	// File is the configuration file that was read, or "" for defaults only.
	File string `mapstructure:"-"`
}

// ServeConfig configures the render server.
type ServeConfig struct {
	Addr string `mapstructure:"addr"`
}

// WatchConfig configures the file watcher.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// Defaults returns the configuration used when no file sets a value.
func Defaults() Config {
	return Config{
		Wrap:       true,
		Kinds:      append([]string(nil), pipeline.DefaultKinds...),
		SystemName: render.DefaultSystemName,
		Serve:      ServeConfig{Addr: ":8080"},
		Watch:      WatchConfig{Debounce: 300 * time.Millisecond},
	}
}

// Load reads the configuration. An explicit path must exist; otherwise
// ./.pcmuml.toml and then $XDG_CONFIG_HOME/pcmuml/config.toml are tried, and
// when neither exists the defaults are used. Environment variables with the
// PCMUML_ prefix override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	switch {
	case path != "":
		if !exists(path) {
			return nil, perrors.New(perrors.ErrCodeFileNotFound, "config file %s does not exist", path)
		}
		v.SetConfigFile(path)
	case exists(LocalFile):
		v.SetConfigFile(LocalFile)
	default:
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.SetConfigName("config")
		v.SetConfigType("toml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "read config")
		}
		// No config file found - use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "decode config")
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("wrap", d.Wrap)
	v.SetDefault("kinds", d.Kinds)
	v.SetDefault("workspace", d.Workspace)
	v.SetDefault("system_name", d.SystemName)
	v.SetDefault("serve.addr", d.Serve.Addr)
	v.SetDefault("watch.debounce", d.Watch.Debounce)
}

// Validate checks value ranges and diagram kinds.
func (c *Config) Validate() error {
	for _, k := range c.Kinds {
		if err := perrors.ValidateDiagramKind(strings.TrimSpace(k)); err != nil {
			return fmt.Errorf("kinds: %w", err)
		}
	}
	if c.Watch.Debounce < 0 {
		return perrors.New(perrors.ErrCodeInvalidInput, "watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	if c.Serve.Addr == "" {
		return perrors.New(perrors.ErrCodeInvalidInput, "serve.addr cannot be empty")
	}
	return nil
}

// PipelineOptions converts the configuration into pipeline options.
func (c *Config) PipelineOptions() pipeline.Options {
	kinds := make([]string, 0, len(c.Kinds))
	for _, k := range c.Kinds {
		kinds = append(kinds, strings.TrimSpace(k))
	}
	return pipeline.Options{
		Kinds:      kinds,
		Raw:        !c.Wrap,
		SystemName: c.SystemName,
		Workspace:  c.Workspace,
	}
}

// configDir returns the user configuration directory using the XDG standard
// (~/.config/pcmuml/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
