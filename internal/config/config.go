// Package config builds the process-wide configuration once at startup.
//
// Sources are layered lowest to highest: built-in defaults, an optional YAML
// file, environment variables (after loading .env.local and .env), and
// command-line flags. Keys use snake_case; environment variables are the same
// keys upper-cased (DATABASE_URL, JWT_SECRET, ...).
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/adityakumar60853/nirmaan/internal/token"
)

// Config holds runtime settings for the Nirmaan API.
type Config struct {
	Port        string
	DatabaseURL string

	// JWTSecret signs session tokens (HS256). It never changes during a
	// process lifetime.
	JWTSecret string
	TokenTTL  time.Duration

	BcryptCost  int
	HashWorkers int

	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int

	LogFormat string
	LogLevel  string
}

var defaults = map[string]any{
	"port":             "5050",
	"token_ttl":        "168h",
	"bcrypt_cost":      10,
	"hash_workers":     0,
	"allowed_origins":  "http://localhost:3000",
	"rate_limit_rps":   10.0,
	"rate_limit_burst": 20,
	"log_format":       "json",
	"log_level":        "info",
}

// RegisterFlags adds the flags understood by Load to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a YAML config file")
	fs.String("port", "", "HTTP listen port")
	fs.String("database-url", "", "PostgreSQL connection string")
	fs.Duration("token-ttl", 0, "session token lifetime")
	fs.Int("bcrypt-cost", 0, "bcrypt work factor")
	fs.String("log-format", "", "log format: json or text")
	fs.String("log-level", "", "log level: debug, info, warn, error")
}

// Load reads configuration from all sources. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	// Same convention as local development: .env.local wins over .env.
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	k := koanf.New(".")
	for key, val := range defaults {
		if err := k.Set(key, val); err != nil {
			return nil, fmt.Errorf("config default %s: %w", key, err)
		}
	}

	path := os.Getenv("CONFIG_FILE")
	if fs != nil {
		if p, err := fs.GetString("config"); err == nil && p != "" {
			path = p
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.ProviderWithValue("", ".", envKey)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if fs != nil {
		p := posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, any) {
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(fs, f)
		})
		if err := k.Load(p, nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	cfg := &Config{
		Port:           k.String("port"),
		DatabaseURL:    k.String("database_url"),
		JWTSecret:      k.String("jwt_secret"),
		TokenTTL:       k.Duration("token_ttl"),
		BcryptCost:     k.Int("bcrypt_cost"),
		HashWorkers:    k.Int("hash_workers"),
		AllowedOrigins: splitList(k.String("allowed_origins")),
		RateLimitRPS:   k.Float64("rate_limit_rps"),
		RateLimitBurst: k.Int("rate_limit_burst"),
		LogFormat:      k.String("log_format"),
		LogLevel:       k.String("log_level"),
	}
	if cfg.HashWorkers <= 0 {
		cfg.HashWorkers = runtime.GOMAXPROCS(0)
	}
	return cfg, nil
}

// Validate checks the settings needed to serve requests.
func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is empty"))
	}
	if err := c.ValidateSigning(); err != nil {
		errs = append(errs, err)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST %d out of range 4..31", c.BcryptCost))
	}
	return errors.Join(errs...)
}

// ValidateSigning checks only the token settings. Tools that mint or inspect
// tokens without touching the database use it instead of Validate.
func (c *Config) ValidateSigning() error {
	var errs []error
	if len(c.JWTSecret) < token.MinSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", token.MinSecretLength))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	return errors.Join(errs...)
}

// keys without a default that may still come from the environment
var required = []string{"database_url", "jwt_secret"}

// envKey maps an environment variable to its config key. Variables that
// name no setting are skipped, and empty ones count as unset so they cannot
// blank out defaults.
func envKey(key, value string) (string, any) {
	if value == "" {
		return "", nil
	}
	key = strings.ToLower(key)
	if _, ok := defaults[key]; !ok && !slices.Contains(required, key) {
		return "", nil
	}
	return key, value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
