package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Store drivers accepted by CONTACTS_STORE / --store.
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
)

// ErrMissingAccessToken is returned when ACCESS_TOKEN is not configured.
var ErrMissingAccessToken = errors.New("ACCESS_TOKEN not found in environment variables")

// Config is the process configuration. It is built once at startup and not
// modified afterwards.
type Config struct {
	Addr             string
	AccessToken      string
	Store            string
	ContactsFile     string
	DatabaseURL      string
	AllowedOrigins   []string
	LogLevel         string
	ContactRateLimit int
	TrustedProxies   int
	Greeting         string
}

// Load reads a .env file (if present), then the environment, then the
// command-line flags in args, which take precedence.
func Load(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("server", pflag.ContinueOnError)
	envFile := fs.String("env-file", ".env", "dotenv file to load before reading the environment")
	addr := fs.String("addr", "", "listen address (overrides ADDR)")
	contactsFile := fs.String("contacts-file", "", "path of the contacts JSON file (overrides CONTACTS_FILE)")
	store := fs.String("store", "", "contact store driver: file or postgres (overrides CONTACTS_STORE)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", *envFile, err)
	}

	cfg := &Config{
		Addr:           getEnv("ADDR", ":8000"),
		AccessToken:    os.Getenv("ACCESS_TOKEN"),
		Store:          getEnv("CONTACTS_STORE", StoreFile),
		ContactsFile:   getEnv("CONTACTS_FILE", "contacts.json"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),
		LogLevel:       getEnv("LOG_LEVEL", "INFO"),
		Greeting:       getEnv("GREETING", "Hello! from the contact API"),
	}

	limit, err := strconv.Atoi(getEnv("CONTACT_RATE_LIMIT", "30"))
	if err != nil || limit < 0 {
		return nil, fmt.Errorf("CONTACT_RATE_LIMIT must be a non-negative integer, got %q", os.Getenv("CONTACT_RATE_LIMIT"))
	}
	cfg.ContactRateLimit = limit

	proxies, err := strconv.Atoi(getEnv("TRUSTED_PROXIES", "0"))
	if err != nil || proxies < 0 {
		return nil, fmt.Errorf("TRUSTED_PROXIES must be a non-negative integer, got %q", os.Getenv("TRUSTED_PROXIES"))
	}
	cfg.TrustedProxies = proxies

	if *addr != "" {
		cfg.Addr = *addr
	}
	if *contactsFile != "" {
		cfg.ContactsFile = *contactsFile
	}
	if *store != "" {
		cfg.Store = *store
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.AccessToken == "" {
		return ErrMissingAccessToken
	}
	switch c.Store {
	case StoreFile:
		if c.ContactsFile == "" {
			return errors.New("CONTACTS_FILE must not be empty")
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when CONTACTS_STORE=postgres")
		}
	default:
		return fmt.Errorf("unknown CONTACTS_STORE %q (want %q or %q)", c.Store, StoreFile, StorePostgres)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
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
