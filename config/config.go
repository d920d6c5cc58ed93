// Package config provides the layered configuration lookups used by the
// filesystem and the credential resolver.
//
// Values are merged in the order their options are applied, later layers
// overriding earlier ones. The usual order is built-in defaults, an optional
// YAML or JSON file and finally the process environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Recognized configuration keys.
const (
	KeyRegion             = "AWS_REGION"
	KeyDefaultRegion      = "AWS_DEFAULT_REGION"
	KeyNoSignRequest      = "AWS_NO_SIGN_REQUEST"
	KeySecretAccessKey    = "AWS_SECRET_ACCESS_KEY"
	KeyAccessKeyID        = "AWS_ACCESS_KEY_ID"
	KeySessionToken       = "AWS_SESSION_TOKEN"
	KeyEndpoint           = "AWS_S3_ENDPOINT"
	KeyRequestPayer       = "AWS_REQUEST_PAYER"
	KeyDefaultProfile     = "AWS_DEFAULT_PROFILE"
	KeyCredentialsFile    = "CPL_AWS_CREDENTIALS_FILE"
	KeyConfigFile         = "AWS_CONFIG_FILE"
	KeyHTTPS              = "AWS_HTTPS"
	KeyVirtualHosting     = "AWS_VIRTUAL_HOSTING"
	KeyClient             = "OSSVFS_CLIENT"
	KeyHome               = "HOME"
	KeyWindowsUserProfile = "USERPROFILE"
)

// Values holds explicit per-call overrides.
// They take precedence over every configuration layer.
type Values map[string]string

// Config is a read-only view over the merged configuration layers.
type Config struct {
	kf *koanf.Koanf
}

type Option func(*koanf.Koanf) error

// New loads all layers in the order given.
func New(opts ...Option) (*Config, error) {
	kf := koanf.New(".")
	for _, opt := range opts {
		if err := opt(kf); err != nil {
			return nil, err
		}
	}

	return &Config{kf: kf}, nil
}

// Default returns a configuration backed by the process environment only.
func Default() *Config {
	cfg, err := New(WithEnvironment())
	if err != nil {
		// The environment provider never fails
		return &Config{kf: koanf.New(".")}
	}
	return cfg
}

// WithValues loads a static set of values as a layer.
func WithValues(values map[string]string) Option {
	return func(kf *koanf.Koanf) error {
		mp := make(map[string]any, len(values))
		for k, v := range values {
			mp[k] = v
		}
		return kf.Load(confmap.Provider(mp, ""), nil)
	}
}

// WithFile loads a YAML or JSON configuration file, selected by extension.
func WithFile(path string) Option {
	return func(kf *koanf.Koanf) error {
		var parser koanf.Parser
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return fmt.Errorf("unsupported config format for '%s'", path)
		}

		if err := kf.Load(file.Provider(path), parser); err != nil {
			return fmt.Errorf("failed to load config '%s': %w", path, err)
		}
		return nil
	}
}

// WithEnvironment loads every process environment variable as a layer.
func WithEnvironment() Option {
	return func(kf *koanf.Koanf) error {
		return kf.Load(env.Provider("", ".", func(s string) string {
			return s
		}), nil)
	}
}

// Lookup returns the value for key and whether it is set at all.
func (c *Config) Lookup(key string) (string, bool) {
	if !c.kf.Exists(key) {
		return "", false
	}
	return c.kf.String(key), true
}

// String returns the value for key, or def if the key is not set.
func (c *Config) String(key, def string) string {
	if value, ok := c.Lookup(key); ok {
		return value
	}
	return def
}

// Bool returns the boolean interpretation of key, or def if not set.
func (c *Config) Bool(key string, def bool) bool {
	if value, ok := c.Lookup(key); ok {
		return TestBool(value)
	}
	return def
}

// Fetch resolves key from the explicit values first and falls back to the
// configuration layers, then to def.
func (c *Config) Fetch(values Values, key, def string) string {
	if value, ok := values[key]; ok {
		return value
	}
	return c.String(key, def)
}

// HomeDir returns the configured home directory or the user's home directory.
func (c *Config) HomeDir() string {
	if home, ok := c.Lookup(KeyHome); ok {
		return home
	}
	if home, ok := c.Lookup(KeyWindowsUserProfile); ok {
		return home
	}
	home, _ := os.UserHomeDir()
	return home
}

// TestBool interprets NO, FALSE, OFF and 0 (in any case) as false
// and everything else as true.
func TestBool(value string) bool {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "NO", "FALSE", "OFF", "0":
		return false
	default:
		return true
	}
}
