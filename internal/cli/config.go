package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const envPrefix = "FLASHDECK_"

type Config struct {
	Server    string        `koanf:"server"`
	TokenFile string        `koanf:"token-file"`
	Timeout   time.Duration `koanf:"timeout"`
	PageSize  int           `koanf:"page-size"`
	LogLevel  string        `koanf:"log-level"`
}

// DefaultConfigDir is ~/.config/flashdeck or the platform equivalent.
func DefaultConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".flashdeck"
	}
	return filepath.Join(dir, "flashdeck")
}

func defaults() map[string]any {
	return map[string]any{
		"server":     "http://localhost:8080",
		"token-file": filepath.Join(DefaultConfigDir(), "token"),
		"timeout":    "15s",
		"page-size":  20,
		"log-level":  "ERROR",
	}
}

// LoadConfig layers defaults, the YAML file at path, FLASHDECK_* variables
// and explicitly set flags, later sources winning. A missing file is not an
// error.
func LoadConfig(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	for key, val := range defaults() {
		if err := k.Set(key, val); err != nil {
			return Config{}, err
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return Config{}, fmt.Errorf("read %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, fmt.Errorf("read flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// FLASHDECK_TOKEN_FILE -> token-file
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", "-")
}

func (c Config) Validate() error {
	if c.Server == "" {
		return errors.New("server address is empty")
	}
	if !strings.HasPrefix(c.Server, "http://") && !strings.HasPrefix(c.Server, "https://") {
		return fmt.Errorf("server must be an http(s) URL, got %q", c.Server)
	}
	if c.TokenFile == "" {
		return errors.New("token-file is empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page-size must be positive, got %d", c.PageSize)
	}
	return nil
}
