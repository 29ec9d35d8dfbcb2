package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port string

	// Data source
	DataDir  string
	DataFile string // explicit single-file override

	// Auth. Empty disables the password gate.
	AccessPassword string

	// Upload limits
	MaxUploadBytes int64

	// Session expiry
	SessionTTL time.Duration
}

// fileConfig is the YAML shape of the optional config file. Durations are
// strings ("90m") so the file reads like the env vars do.
type fileConfig struct {
	Port           string `yaml:"port"`
	DataDir        string `yaml:"data_dir"`
	DataFile       string `yaml:"data_file"`
	AccessPassword string `yaml:"access_password"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
	SessionTTL     string `yaml:"session_ttl"`
}

// Load reads the optional YAML config file (EXAMVIEW_CONFIG, default
// ./examview.yaml), then applies environment variables on top. Env always
// wins over the file.
func Load() (Config, error) {
	cfg := Config{
		Port:           "8090",
		DataDir:        "data",
		MaxUploadBytes: 10485760, // 10MB
		SessionTTL:     2 * time.Hour,
	}

	path := envOr("EXAMVIEW_CONFIG", "examview.yaml")
	if raw, err := os.ReadFile(path); err == nil {
		var fc fileConfig
		if err := yaml.Unmarshal(raw, &fc); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
		if fc.Port != "" {
			cfg.Port = fc.Port
		}
		if fc.DataDir != "" {
			cfg.DataDir = fc.DataDir
		}
		if fc.DataFile != "" {
			cfg.DataFile = fc.DataFile
		}
		if fc.AccessPassword != "" {
			cfg.AccessPassword = fc.AccessPassword
		}
		if fc.MaxUploadBytes > 0 {
			cfg.MaxUploadBytes = fc.MaxUploadBytes
		}
		if fc.SessionTTL != "" {
			d, err := time.ParseDuration(fc.SessionTTL)
			if err != nil {
				return cfg, fmt.Errorf("parse config file %s: session_ttl: %w", path, err)
			}
			cfg.SessionTTL = d
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("read config file %s: %w", path, err)
	}

	cfg.Port = envOr("PORT", cfg.Port)
	cfg.DataDir = envOr("DATA_DIR", cfg.DataDir)
	cfg.DataFile = envOr("DATA_FILE", cfg.DataFile)
	cfg.AccessPassword = envOr("ACCESS_PASSWORD", cfg.AccessPassword)
	cfg.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)
	cfg.SessionTTL = envDuration("SESSION_TTL", cfg.SessionTTL)

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 2 * time.Hour
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.DataFile != "" {
		if _, err := os.Stat(c.DataFile); err != nil {
			return fmt.Errorf("DATA_FILE %s: %w", c.DataFile, err)
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
