// Package config loads inferskema settings from defaults, an optional config
// file, a .env file, INFERSKEMA_* environment variables and bound flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	inferskema "github.com/reoring/inferskema"
	"github.com/reoring/inferskema/internal/logging"
	"github.com/reoring/inferskema/source/gojson"
)

// EnvPrefix is prepended to every environment variable, for example
// INFERSKEMA_PARSE_MAX_DEPTH.
const EnvPrefix = "INFERSKEMA"

// Viper keys.
const (
	KeyLogLevel      = "log.level"
	KeyLogFormat     = "log.format"
	KeyJSONDriver    = "parse.json_driver"
	KeyDuplicateKeys = "parse.duplicate_keys"
	KeyMaxDepth      = "parse.max_depth"
	KeyMaxBytes      = "parse.max_bytes"
	KeyDialect       = "emit.dialect"
	KeyMaxUnion      = "emit.max_union"
	KeyOutput        = "emit.output"
	KeyServerAddr    = "server.addr"
	KeyCacheSize     = "server.cache_size"
	KeyFailOnError   = "fail_on_error"
)

// Output formats.
const (
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Config is the resolved configuration.
type Config struct {
	Log         logging.Config `mapstructure:"log"`
	Parse       ParseConfig    `mapstructure:"parse"`
	Emit        EmitConfig     `mapstructure:"emit"`
	Server      ServerConfig   `mapstructure:"server"`
	FailOnError bool           `mapstructure:"fail_on_error"`
}

type ParseConfig struct {
	JSONDriver    string `mapstructure:"json_driver"`
	DuplicateKeys string `mapstructure:"duplicate_keys"` // ignore, warn or error
	MaxDepth      int    `mapstructure:"max_depth"`
	MaxBytes      int64  `mapstructure:"max_bytes"`
}

type EmitConfig struct {
	Dialect  string `mapstructure:"dialect"`
	MaxUnion int    `mapstructure:"max_union"`
	Output   string `mapstructure:"output"`
}

type ServerConfig struct {
	Addr      string `mapstructure:"addr"`
	CacheSize int    `mapstructure:"cache_size"`
}

// SetDefaults registers every key so that environment variables are seen by
// Unmarshal even when no file or flag sets them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, string(logging.FormatText))
	v.SetDefault(KeyJSONDriver, inferskema.DefaultJSONDriverName)
	v.SetDefault(KeyDuplicateKeys, "ignore")
	v.SetDefault(KeyMaxDepth, 0)
	v.SetDefault(KeyMaxBytes, 0)
	v.SetDefault(KeyDialect, "")
	v.SetDefault(KeyMaxUnion, 0)
	v.SetDefault(KeyOutput, OutputJSON)
	v.SetDefault(KeyServerAddr, ":8080")
	v.SetDefault(KeyCacheSize, 128)
	v.SetDefault(KeyFailOnError, false)
}

// Load resolves the configuration held by v. configFile is read when non-empty.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	_ = godotenv.Load()

	SetDefaults(v)
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the Config for invalid values.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Driver(); err != nil {
		errs = append(errs, err)
	}
	if _, err := severity(c.Parse.DuplicateKeys); err != nil {
		errs = append(errs, err)
	}
	if c.Parse.MaxDepth < 0 {
		errs = append(errs, errors.New("max_depth must not be negative"))
	}
	if c.Parse.MaxBytes < 0 {
		errs = append(errs, errors.New("max_bytes must not be negative"))
	}
	if c.Emit.MaxUnion < 0 {
		errs = append(errs, errors.New("max_union must not be negative"))
	}
	if c.Emit.Dialect != "" {
		if u, err := url.Parse(c.Emit.Dialect); err != nil || !u.IsAbs() {
			errs = append(errs, fmt.Errorf("dialect must be an absolute URI: %q", c.Emit.Dialect))
		}
	}
	switch c.Emit.Output {
	case OutputJSON, OutputYAML:
	default:
		errs = append(errs, fmt.Errorf("unsupported output format: %s", c.Emit.Output))
	}
	return errors.Join(errs...)
}

// Driver returns the configured JSON driver.
func (c *Config) Driver() (inferskema.JSONDriver, error) {
	switch c.Parse.JSONDriver {
	case "", inferskema.DefaultJSONDriverName:
		return inferskema.DefaultJSONDriver(), nil
	case gojson.Name:
		return gojson.Driver(), nil
	}
	return nil, fmt.Errorf("unknown json driver: %s", c.Parse.JSONDriver)
}

// ParseOpt returns the parser options; sink receives duplicate-key warnings.
func (c *Config) ParseOpt(sink func(inferskema.Issue)) inferskema.ParseOpt {
	sev, _ := severity(c.Parse.DuplicateKeys)
	return inferskema.ParseOpt{
		Strictness: inferskema.Strictness{OnDuplicateKey: sev},
		MaxDepth:   c.Parse.MaxDepth,
		MaxBytes:   c.Parse.MaxBytes,
		IssueSink:  sink,
	}
}

// EmitOpt returns the emitter options.
func (c *Config) EmitOpt() inferskema.EmitOpt {
	return inferskema.EmitOpt{Dialect: c.Emit.Dialect, MaxUnion: c.Emit.MaxUnion}
}

func severity(s string) (inferskema.Severity, error) {
	switch strings.ToLower(s) {
	case "", "ignore":
		return inferskema.Ignore, nil
	case "warn":
		return inferskema.Warn, nil
	case "error":
		return inferskema.Error, nil
	}
	return inferskema.Ignore, fmt.Errorf("unsupported duplicate_keys policy: %s", s)
}
