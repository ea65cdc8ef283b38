// Package config loads the wiki's runtime settings from defaults, an
// optional .env file, the environment and command-line flags, in that order.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"kanwiki/internal/auth"
)

// Config holds the settings of the wiki server.
type Config struct {
	Addr string
	DSN  string

	// SecretKey signs session cookies. It must stay the same across
	// restarts or every issued cookie becomes invalid.
	SecretKey      string
	PasswordScheme auth.Scheme
	CookieSecure   bool
	CookieHTTPOnly bool

	LogLevel  string
	LogFormat string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Args holds the arguments left over after the flags.
	Args []string
}

// LoadDefaults populates c with development defaults. No default secret is
// provided.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.DSN = "kanwiki.db"
	c.PasswordScheme = auth.SchemeSaltedSHA256
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.ReadTimeout = 15 * time.Second
	c.WriteTimeout = 15 * time.Second
	c.IdleTimeout = 60 * time.Second
	c.ShutdownTimeout = 15 * time.Second
}

// Load builds a Config from defaults, the .env file named by envFile (if
// it exists), the environment and args, and validates it.
func Load(envFile string, args []string) (*Config, error) {
	cfg, err := Read(envFile, args)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read is like Load but leaves validation to the caller. The admin
// commands use it since most of them never touch the secret.
func Read(envFile string, args []string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error loading %s: %w", envFile, err)
		}
	}

	cfg := &Config{}
	cfg.LoadDefaults()
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	if err := cfg.parseFlags(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadEnv() error {
	c.Addr = envString("ADDR", c.Addr)
	c.DSN = envString("DSN", c.DSN)
	c.SecretKey = envString("SECRET_KEY", c.SecretKey)
	c.PasswordScheme = auth.Scheme(envString("PASSWORD_SCHEME", string(c.PasswordScheme)))
	c.CookieSecure = envBool("COOKIE_SECURE", c.CookieSecure)
	c.CookieHTTPOnly = envBool("COOKIE_HTTPONLY", c.CookieHTTPOnly)
	c.LogLevel = envString("LOG_LEVEL", c.LogLevel)
	c.LogFormat = envString("LOG_FORMAT", c.LogFormat)

	var err error
	if c.ReadTimeout, err = envDuration("READ_TIMEOUT", c.ReadTimeout); err != nil {
		return err
	}
	if c.WriteTimeout, err = envDuration("WRITE_TIMEOUT", c.WriteTimeout); err != nil {
		return err
	}
	if c.IdleTimeout, err = envDuration("IDLE_TIMEOUT", c.IdleTimeout); err != nil {
		return err
	}
	if c.ShutdownTimeout, err = envDuration("SHUTDOWN_TIMEOUT", c.ShutdownTimeout); err != nil {
		return err
	}
	return nil
}

func (c *Config) parseFlags(args []string) error {
	fs := flag.NewFlagSet("kanwiki", flag.ContinueOnError)
	fs.StringVar(&c.Addr, "addr", c.Addr, "The address to listen on.")
	fs.StringVar(&c.DSN, "dsn", c.DSN, "The database connection string.")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "The log level: debug, info, warn, error.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.Args = fs.Args()
	return nil
}

// Validate checks that the configuration can run a server.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY is required")
	}
	if len(c.SecretKey) < auth.MinSecretLength {
		return fmt.Errorf("SECRET_KEY must be at least %d characters long", auth.MinSecretLength)
	}
	if _, err := auth.ParseScheme(string(c.PasswordScheme)); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown LOG_FORMAT %q", c.LogFormat)
	}
	return nil
}

func envString(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
