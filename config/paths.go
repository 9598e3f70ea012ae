package config

import (
	"errors"
	"os"
	"path/filepath"
)

const (
	// EnvConfigDir overrides the configuration directory.
	EnvConfigDir = "NEEDLE_CONFIG_DIR"
	// FileName is the settings file name inside the configuration directory.
	FileName = "config.toml"
	// FontsDir holds user-supplied font files.
	FontsDir = "fonts"
	// ShadersDir holds the compiled background shaders.
	ShadersDir = "shaders"
)

var errNoConfigDir = errors.New("config: no configuration directory available")

// Dir returns the configuration directory joined with elem.
//
// The directory is $NEEDLE_CONFIG_DIR when it names an existing directory,
// otherwise <UserConfigDir>/needle.
func Dir(elem ...string) (string, error) {
	base, err := baseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{base}, elem...)...), nil
}

// Path returns the default settings file path.
func Path() (string, error) {
	return Dir(FileName)
}

func baseDir() (string, error) {
	// useful during development and in tests.
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		if s, err := os.Stat(dir); err == nil && s.IsDir() {
			return dir, nil
		}
	}
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return "", errNoConfigDir
	}
	return filepath.Join(dir, "needle"), nil
}
