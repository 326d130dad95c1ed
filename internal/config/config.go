package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// Account is a local login allowed to obtain a token when auth is enabled.
type Account struct {
	Username string
	PassHash string // bcrypt
	Role     string
}

type Config struct {
	Mode     Mode
	HTTPAddr string

	LogLevel  string
	LogFormat string // text|json

	RequestTimeout time.Duration

	CORSOriginsOnline  []string
	CORSOriginsOffline []string

	EnableAuth     bool
	AuthHMACSecret string
	TokenTTL       time.Duration

	AdminUser         string
	AdminPassHash     string
	ClinicianUser     string
	ClinicianPassHash string
}

// Load reads .env files (missing files are ignored) and then the environment.
// Variables already set in the environment take precedence over .env.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	cfg := FromEnv()
	return cfg, cfg.Validate()
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	return Config{
		Mode:               mode,
		HTTPAddr:           envOr("HTTP_ADDR", ":8080"),
		LogLevel:           envOr("LOG_LEVEL", "info"),
		LogFormat:          envOr("LOG_FORMAT", "text"),
		RequestTimeout:     envDuration("REQUEST_TIMEOUT", 30*time.Second),
		CORSOriginsOnline:  csvOr("CORS_ORIGINS_ONLINE", "https://scores.mindengage.ai"),
		CORSOriginsOffline: csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000,http://localhost:3010"),

		EnableAuth:     envBool("ENABLE_AUTH", false),
		AuthHMACSecret: os.Getenv("AUTH_HMAC_SECRET"),
		TokenTTL:       envDuration("TOKEN_TTL", 8*time.Hour),

		AdminUser:         envOr("ADMIN_USER", "admin"),
		AdminPassHash:     os.Getenv("ADMIN_PASS_HASH"),
		ClinicianUser:     os.Getenv("CLINICIAN_USER"),
		ClinicianPassHash: os.Getenv("CLINICIAN_PASS_HASH"),
	}
}

// Validate rejects combinations the server cannot start with.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeOffline, ModeOnline:
	default:
		return fmt.Errorf("config: MODE must be %q or %q, got %q", ModeOffline, ModeOnline, c.Mode)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("config: LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("config: REQUEST_TIMEOUT must be positive")
	}
	if !c.EnableAuth {
		return nil
	}
	if c.AuthHMACSecret == "" {
		return errors.New("config: AUTH_HMAC_SECRET is required when ENABLE_AUTH is set")
	}
	if len(c.Accounts()) == 0 {
		return errors.New("config: ENABLE_AUTH needs ADMIN_PASS_HASH or CLINICIAN_PASS_HASH")
	}
	return nil
}

// Accounts lists the configured local logins. Entries without a password
// hash are skipped.
func (c Config) Accounts() []Account {
	var out []Account
	if c.AdminUser != "" && c.AdminPassHash != "" {
		out = append(out, Account{Username: c.AdminUser, PassHash: c.AdminPassHash, Role: "admin"})
	}
	if c.ClinicianUser != "" && c.ClinicianPassHash != "" {
		out = append(out, Account{Username: c.ClinicianUser, PassHash: c.ClinicianPassHash, Role: "clinician"})
	}
	return out
}

// CORSOrigins returns the allow-list for the configured mode.
func (c Config) CORSOrigins() []string {
	if c.Mode == ModeOnline {
		return c.CORSOriginsOnline
	}
	return c.CORSOriginsOffline
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func envDuration(k string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(k))
	if err != nil {
		return def
	}
	return d
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
