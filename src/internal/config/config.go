package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"modserve/src/internal/domain"
)

const (
	DefaultHost = "0.0.0.0"
	DefaultPort = "8080"
)

// Load builds the process configuration. Precedence, later wins: built-in
// defaults, a .env file in the working directory, then the process
// environment. Flag overrides are applied by the caller on top of this.
func Load(version string) domain.Config {
	cfg := domain.Config{
		Version:    version,
		Host:       DefaultHost,
		Port:       DefaultPort,
		Root:       ".",
		LiveReload: true,
	}

	if err := godotenv.Load(); err == nil {
		logrus.Debug("Loaded .env file")
	}

	if v := os.Getenv("MODSERVE_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("MODSERVE_PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("MODSERVE_ROOT"); v != "" {
		cfg.Root = v
	}
	if v := os.Getenv("MODSERVE_LIVERELOAD"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.LiveReload = enabled
		} else {
			logrus.Warnf("Ignoring invalid MODSERVE_LIVERELOAD value %q", v)
		}
	}

	return cfg
}

// ResolveRoot turns the configured root into an absolute path and verifies
// it is an existing directory. Serving resolves paths against this value;
// the process never changes its working directory.
func ResolveRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve root %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("root %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("root %s is not a directory", abs)
	}
	return abs, nil
}
