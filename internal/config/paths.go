package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// HomeDirName is the per-user directory under $HOME.
	HomeDirName = ".hostctl"
	// ConfigFileName is the config file inside HomeDirName.
	ConfigFileName = "config.yaml"
	// ConfigEnv overrides the config file location.
	ConfigEnv = "HOSTCTL_CONFIG"
)

// Paths are the per-user hostctl locations.
type Paths struct {
	HomeDir    string
	ConfigFile string
}

// DefaultPaths returns ~/.hostctl and ~/.hostctl/config.yaml.
func DefaultPaths() (*Paths, error) {
	userHome, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	home := filepath.Join(userHome, HomeDirName)
	return &Paths{HomeDir: home, ConfigFile: filepath.Join(home, ConfigFileName)}, nil
}

// GetConfigFile returns $HOSTCTL_CONFIG, or the default config file.
func GetConfigFile() (string, error) {
	if p := os.Getenv(ConfigEnv); p != "" {
		return p, nil
	}
	paths, err := DefaultPaths()
	if err != nil {
		return "", err
	}
	return paths.ConfigFile, nil
}

// ExpandPath replaces a leading ~ or ~/ with the user's home directory.
// ~user forms are returned unchanged.
func ExpandPath(path string) (string, error) {
	rest, ok := strings.CutPrefix(path, "~")
	if !ok || (rest != "" && rest[0] != '/' && rest[0] != filepath.Separator) {
		return path, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userHome, rest), nil
}
