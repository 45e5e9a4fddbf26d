// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package requisitor

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gogama/requisitor/auth"
	"github.com/gogama/requisitor/handler"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of the environment variables read by
// LoadConfig, for example REQUISITOR_TIMEOUT.
const EnvPrefix = "REQUISITOR"

// Config holds Session defaults loaded from a file or the environment.
// See LoadConfig and NewSessionFromConfig.
type Config struct {
	Headers      map[string]string `mapstructure:"headers"`
	Params       map[string]string `mapstructure:"params"`
	UnixSocket   string            `mapstructure:"unix_socket"`
	Insecure     bool              `mapstructure:"insecure"`
	CABundle     string            `mapstructure:"ca_bundle" validate:"omitempty,file"`
	CertFile     string            `mapstructure:"cert_file" validate:"omitempty,file"`
	KeyFile      string            `mapstructure:"key_file" validate:"omitempty,file"`
	User         string            `mapstructure:"user" validate:"required_with=Password"`
	Password     string            `mapstructure:"password"`
	AuthScheme   string            `mapstructure:"auth_scheme" validate:"omitempty,oneof=basic digest"`
	Timeout      time.Duration     `mapstructure:"timeout" validate:"gte=0"`
	MaxRedirects int               `mapstructure:"max_redirects" validate:"gte=0"`
	RateLimit    float64           `mapstructure:"rate_limit" validate:"gte=0"`
	RateBurst    int               `mapstructure:"rate_burst" validate:"gte=0"`
	LogLevel     string            `mapstructure:"log_level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
}

var configDefaults = map[string]interface{}{
	"headers":       map[string]string{},
	"params":        map[string]string{},
	"unix_socket":   "",
	"insecure":      false,
	"ca_bundle":     "",
	"cert_file":     "",
	"key_file":      "",
	"user":          "",
	"password":      "",
	"auth_scheme":   "basic",
	"timeout":       time.Duration(0),
	"max_redirects": handler.DefaultMaxRedirects,
	"rate_limit":    0.0,
	"rate_burst":    1,
	"log_level":     "",
}

// Validate checks the field constraints of c.
func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("requisitor: invalid config: %w", err)
	}
	if c.KeyFile != "" && c.CertFile == "" {
		return errors.New("requisitor: invalid config: key_file requires cert_file")
	}
	if c.Insecure && c.CABundle != "" {
		return errors.New("requisitor: invalid config: insecure and ca_bundle are exclusive")
	}
	return nil
}

// A ConfigOption customizes LoadConfig.
type ConfigOption func(*configLoader)

type configLoader struct {
	configFile string
	envFile    string
}

// WithConfigFile reads the config file at path. Its format is chosen by
// extension: YAML, JSON, TOML and the other formats viper supports.
func WithConfigFile(path string) ConfigOption {
	return func(l *configLoader) { l.configFile = path }
}

// WithEnvFile loads the environment variables in the .env file at path
// before the environment is read. Variables already set are not
// overridden.
func WithEnvFile(path string) ConfigOption {
	return func(l *configLoader) { l.envFile = path }
}

// LoadConfig builds a Config from, in increasing order of precedence,
// the defaults, the optional config file, and REQUISITOR_* environment
// variables (including those loaded from the optional .env file). The
// result is validated.
func LoadConfig(opts ...ConfigOption) (*Config, error) {
	var l configLoader
	for _, opt := range opts {
		opt(&l)
	}

	v := viper.New()
	for key, value := range configDefaults {
		v.SetDefault(key, value)
	}
	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("requisitor: reading config file %s: %w", l.configFile, err)
		}
	}
	if l.envFile != "" {
		if err := godotenv.Load(l.envFile); err != nil {
			return nil, fmt.Errorf("requisitor: loading env file %s: %w", l.envFile, err)
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("requisitor: decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewSessionFromConfig returns a new Session with the defaults in cfg.
// A non-zero RateLimit adds a handler.Throttle to the session handlers,
// and a non-empty LogLevel gives the session a zerolog logger writing
// to standard error.
func NewSessionFromConfig(cfg *Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := NewSession()
	if err := s.SetHeaders(cfg.Headers); err != nil {
		return nil, err
	}
	for k, v := range cfg.Params {
		s.Params.Set(k, v)
	}
	s.UnixSocket = cfg.UnixSocket
	switch {
	case cfg.Insecure:
		s.Verify = Insecure
	case cfg.CABundle != "":
		s.Verify = CABundle(cfg.CABundle)
	}
	if cfg.CertFile != "" {
		s.cert = &Cert{CertFile: cfg.CertFile, KeyFile: cfg.KeyFile}
	}
	if cfg.User != "" {
		if cfg.AuthScheme == "digest" {
			s.auth = auth.Digest{User: cfg.User, Password: cfg.Password}
		} else {
			s.auth = auth.Basic{User: cfg.User, Password: cfg.Password}
		}
	}
	s.Timeout = cfg.Timeout
	s.MaxRedirects = cfg.MaxRedirects
	if cfg.RateLimit > 0 {
		s.Handlers = append(s.Handlers, handler.NewThrottle(cfg.RateLimit, cfg.RateBurst))
	}
	if cfg.LogLevel != "" {
		level, err := zerolog.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
		s.Logger = &logger
	}
	return s, nil
}
