package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "HOSTCTL"

// envKeys are the config keys that can be set from the environment as
// HOSTCTL_<NAME>. Nested keys such as log.timestamps go through AutomaticEnv.
var envKeys = map[string]string{
	"project":           "PROJECT",
	"site":              "SITE",
	"token":             "TOKEN",
	"hostingOrigin":     "HOSTING_ORIGIN",
	"hostingAPIVersion": "HOSTING_API_VERSION",
	"authOrigin":        "AUTH_ORIGIN",
	"requestsPerSecond": "REQUESTS_PER_SECOND",
	"pollInterval":      "POLL_INTERVAL",
	"authDomainSuffix":  "AUTH_DOMAIN_SUFFIX",
}

// Loader reads the config file and HOSTCTL_* environment through viper.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a Loader with environment bindings in place.
func NewLoader() *Loader {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, name := range envKeys {
		_ = v.BindEnv(key, envPrefix+"_"+name)
	}
	return &Loader{v: v}
}

// Load reads configFile, or the default location when empty. A missing
// file is not an error. Environment values override file values. No
// defaults are applied.
func (l *Loader) Load(configFile string) (*Config, error) {
	path, err := resolveConfigFile(configFile)
	if err != nil {
		return nil, err
	}

	l.v.SetConfigFile(path)
	l.v.SetConfigType("yaml")
	if err := l.v.ReadInConfig(); err != nil && !isMissingConfig(err) {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config file %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadWithDefaults is Load followed by Config.WithDefaults.
func (l *Loader) LoadWithDefaults(configFile string) (*Config, error) {
	cfg, err := l.Load(configFile)
	if err != nil {
		return nil, err
	}
	return cfg.WithDefaults(), nil
}

// ConfigFileExists reports whether configFile (or the default location)
// exists.
func ConfigFileExists(configFile string) (bool, error) {
	path, err := resolveConfigFile(configFile)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func resolveConfigFile(configFile string) (string, error) {
	if configFile == "" {
		var err error
		if configFile, err = GetConfigFile(); err != nil {
			return "", fmt.Errorf("locating config file: %w", err)
		}
	}
	path, err := ExpandPath(configFile)
	if err != nil {
		return "", fmt.Errorf("expanding config path %s: %w", configFile, err)
	}
	return path, nil
}

func isMissingConfig(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}
