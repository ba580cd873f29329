package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/aretw0/intake/internal/logging"
)

// Environment variables read by the CLI. Flags take precedence.
const (
	EnvDir                    = "INTAKE_DIR"
	EnvSessionDir             = "INTAKE_SESSION_DIR"
	EnvLogLevel               = "INTAKE_LOG_LEVEL"
	EnvLogFormat              = "INTAKE_LOG_FORMAT"
	EnvRedisAddr              = "INTAKE_REDIS_ADDR"
	EnvRedisPassword          = "INTAKE_REDIS_PASSWORD"
	EnvSessionTTL             = "INTAKE_SESSION_TTL"
	EnvEncryptionKey          = "INTAKE_ENCRYPTION_KEY"
	EnvEncryptionFallbackKeys = "INTAKE_ENCRYPTION_FALLBACK_KEYS"
	EnvHooksFile              = "INTAKE_HOOKS_FILE"
)

// DefaultEnvFile is loaded when present in the working directory.
const DefaultEnvFile = ".env"

// Config gathers the settings shared by every command.
type Config struct {
	// Dir is the flow repository. Empty serves the built-in catalog.
	Dir string
	// SessionDir holds file-backed sessions. Defaults to <Dir>/.intake/sessions.
	SessionDir string

	LogLevel  string
	LogFormat string

	RedisAddr     string
	RedisPassword string
	SessionTTL    time.Duration

	// EncryptionKey is a base64 AES-256 key. Fallback keys only decrypt.
	EncryptionKey          string
	EncryptionFallbackKeys []string

	// HooksPath points at hooks.yaml. Defaults to <Dir>/hooks.yaml.
	HooksPath string
}

// LoadDotEnv loads path into the process environment without overriding
// variables that are already set. A missing file is only an error when the
// user named it explicitly.
func LoadDotEnv(path string, explicit bool) error {
	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// WithEnv fills every unset field from the INTAKE_* environment.
func (c Config) WithEnv() (Config, error) {
	fill := func(field *string, key string) {
		if *field == "" {
			*field = strings.TrimSpace(os.Getenv(key))
		}
	}
	fill(&c.Dir, EnvDir)
	fill(&c.SessionDir, EnvSessionDir)
	fill(&c.LogLevel, EnvLogLevel)
	fill(&c.LogFormat, EnvLogFormat)
	fill(&c.RedisAddr, EnvRedisAddr)
	fill(&c.RedisPassword, EnvRedisPassword)
	fill(&c.EncryptionKey, EnvEncryptionKey)
	fill(&c.HooksPath, EnvHooksFile)

	if c.SessionTTL == 0 {
		if raw := os.Getenv(EnvSessionTTL); raw != "" {
			ttl, err := time.ParseDuration(raw)
			if err != nil {
				return c, fmt.Errorf("invalid %s: %w", EnvSessionTTL, err)
			}
			c.SessionTTL = ttl
		}
	}
	if len(c.EncryptionFallbackKeys) == 0 {
		for _, k := range strings.Split(os.Getenv(EnvEncryptionFallbackKeys), ",") {
			if k = strings.TrimSpace(k); k != "" {
				c.EncryptionFallbackKeys = append(c.EncryptionFallbackKeys, k)
			}
		}
	}
	return c, nil
}

// Logger builds the stderr logger described by LogLevel and LogFormat.
func (c Config) Logger() (*slog.Logger, error) {
	if c.LogLevel == "" || strings.EqualFold(c.LogLevel, "off") {
		return logging.NewNop(), nil
	}
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(c.LogFormat)
	if err != nil {
		return nil, err
	}
	return logging.New(level, format), nil
}

func (c Config) baseDir() string {
	if c.Dir == "" {
		return "."
	}
	return c.Dir
}

func (c Config) sessionDir() string {
	if c.SessionDir != "" {
		return c.SessionDir
	}
	return filepath.Join(c.baseDir(), ".intake", "sessions")
}

func (c Config) hooksPath() string {
	if c.HooksPath != "" {
		return c.HooksPath
	}
	return filepath.Join(c.baseDir(), "hooks.yaml")
}
