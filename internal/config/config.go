// Package config provides configuration management for tessera using Viper
// for loading from files, environment variables and command-line flags.
//
// Configuration lives in .tessera.yml by default. Every key can be
// overridden with a TESSERA_ environment variable, where dots become
// underscores (TESSERA_SERVER_PORT=9000). Values are checked with struct tag
// validation after defaults are applied.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/conneroisu/tessera/internal/errors"
)

const (
	// EnvPrefix is the prefix of environment variable overrides.
	EnvPrefix = "TESSERA"
	// DefaultFileName is the config file looked up in the working directory.
	DefaultFileName = ".tessera.yml"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server" yaml:"server" json:"server"`
	Preview     PreviewConfig     `mapstructure:"preview" yaml:"preview" json:"preview"`
	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging" json:"logging"`
	Development DevelopmentConfig `mapstructure:"development" yaml:"development" json:"development"`
	Classes     ClassesConfig     `mapstructure:"classes" yaml:"classes" json:"classes"`
}

type ServerConfig struct {
	Host           string   `mapstructure:"host" yaml:"host" json:"host" validate:"required,hostname_rfc1123|ip"`
	Port           int      `mapstructure:"port" yaml:"port" json:"port" validate:"min=0,max=65535"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins" json:"allowed_origins" validate:"dive,url"`
}

type PreviewConfig struct {
	Title       string `mapstructure:"title" yaml:"title" json:"title" validate:"required"`
	TailwindCDN string `mapstructure:"tailwind_cdn" yaml:"tailwind_cdn" json:"tailwind_cdn" validate:"omitempty,url"`
	Stories     string `mapstructure:"stories" yaml:"stories" json:"stories" validate:"omitempty,safepath"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level" validate:"oneof=debug info warn warning error"`
	Format string `mapstructure:"format" yaml:"format" json:"format" validate:"oneof=text json"`

	// File, when set, also receives every log record as JSON.
	File string `mapstructure:"file" yaml:"file" json:"file" validate:"omitempty,safepath"`
}

type DevelopmentConfig struct {
	HotReload      bool          `mapstructure:"hot_reload" yaml:"hot_reload" json:"hot_reload"`
	ContractChecks bool          `mapstructure:"contract_checks" yaml:"contract_checks" json:"contract_checks"`
	WatchDebounce  time.Duration `mapstructure:"watch_debounce" yaml:"watch_debounce" json:"watch_debounce" validate:"min=0"`
}

// ClassesConfig customises the class merger.
type ClassesConfig struct {
	// ExtraGroups maps a conflict group name to the utility prefixes that
	// belong to it, for utilities Tailwind's own groups do not cover.
	ExtraGroups map[string][]string `mapstructure:"extra_groups" yaml:"extra_groups" json:"extra_groups" validate:"dive,keys,required,endkeys,min=1,dive,required"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{})

	v.SetDefault("preview.title", "tessera preview")
	v.SetDefault("preview.tailwind_cdn", "https://cdn.tailwindcss.com")
	v.SetDefault("preview.stories", "stories.yml")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.file", "")

	v.SetDefault("development.hot_reload", true)
	v.SetDefault("development.contract_checks", true)
	v.SetDefault("development.watch_debounce", 300*time.Millisecond)
}

// BindEnv makes v read TESSERA_ environment variables, with dots in keys
// replaced by underscores.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// Load reads the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom applies defaults to v, unmarshals it and validates the result.
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeConfigInvalid, "cannot decode configuration", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration with every default applied.
func Default() *Config {
	cfg, err := LoadFrom(viper.New())
	if err != nil {
		// The defaults are constants; failing here is a programming error.
		panic(err)
	}
	return cfg
}

// Address returns the host:port the preview server listens on.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
