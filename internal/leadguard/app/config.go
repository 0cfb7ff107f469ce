package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/leadguard/internal/leadguard/service"
	"github.com/aussiebroadwan/leadguard/pkg/formtoken"
	"github.com/aussiebroadwan/leadguard/pkg/heuristics"
	"github.com/aussiebroadwan/leadguard/pkg/httpx"
)

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Single-use store backends.
const (
	SingleUseDatabase = "database"
	SingleUseRedis    = "redis"
	SingleUseMemory   = "memory"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
	FingerprintRetention time.Duration // Idle fingerprint counters are purged after this (default: 30 days)

	DatabaseDriver string // sqlite or postgres (default: sqlite)
	DatabaseFile   string // SQLite database path (default: ./leadguard.db)
	DatabaseURL    string // Postgres URL, required for the postgres driver

	SingleUseBackend string // database, redis or memory (default: database)
	RedisAddr        string // Redis address, required for the redis backend
	RedisPassword    string
	RedisDB          int

	TokenSecret     string        // Optional: inline form token HMAC secret
	TokenSecretFile string        // Used when TokenSecret is empty (default: ./secrets/form_token)
	TokenTTL        time.Duration // Form token lifetime (default: 30m)
	FormRoutes      []string      // Routes tokens may be issued for

	FingerprintSalt        string // Optional: inline fingerprint salt
	FingerprintSaltFile    string // Used when FingerprintSalt is empty (default: ./secrets/fingerprint_salt)
	FingerprintSaltVersion string // Bump to rotate the salt (default: v1)
	HeuristicsFile         string // Optional: YAML thresholds file

	Issuer         string        // Admin session issuer (default: leadguard)
	SessionKeyFile string        // HS256 key for admin sessions (default: ./secrets/session_key)
	SessionTTL     time.Duration // Admin session lifetime (default: 8h)
	PepperFile     string        // Password hashing pepper (default: ./secrets/pepper)
	TOTPKeyFile    string        // Key sealing admin TOTP secrets (default: ./secrets/totp_key)

	RateLimits     httpx.RateLimitProfiles
	TrustedProxies string // CIDRs allowed to set X-Forwarded-For (default: none)
}

func LoadConfig() Config {
	return Config{
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		FingerprintRetention: getEnvDurationOrDefault("LEADGUARD_FINGERPRINT_RETENTION", service.DefaultFingerprintRetention),

		DatabaseDriver: strings.ToLower(getEnvOrDefault("LEADGUARD_DATABASE_DRIVER", DriverSQLite)),
		DatabaseFile:   getEnvOrDefault("LEADGUARD_DATABASE_FILE", "leadguard.db"),
		DatabaseURL:    os.Getenv("LEADGUARD_DATABASE_URL"),

		SingleUseBackend: strings.ToLower(getEnvOrDefault("LEADGUARD_SINGLE_USE_BACKEND", SingleUseDatabase)),
		RedisAddr:        os.Getenv("LEADGUARD_REDIS_ADDR"),
		RedisPassword:    os.Getenv("LEADGUARD_REDIS_PASSWORD"),
		RedisDB:          getEnvIntOrDefault("LEADGUARD_REDIS_DB", 0),

		TokenSecret:     os.Getenv("LEADGUARD_TOKEN_SECRET"),
		TokenSecretFile: getEnvOrDefault("LEADGUARD_TOKEN_SECRET_FILE", "secrets/form_token"),
		TokenTTL:        getEnvDurationOrDefault("LEADGUARD_TOKEN_TTL", formtoken.DefaultTTL),
		FormRoutes:      getEnvListOrDefault("LEADGUARD_FORM_ROUTES", service.DefaultRoutes()),

		FingerprintSalt:        os.Getenv("LEADGUARD_FINGERPRINT_SALT"),
		FingerprintSaltFile:    getEnvOrDefault("LEADGUARD_FINGERPRINT_SALT_FILE", "secrets/fingerprint_salt"),
		FingerprintSaltVersion: getEnvOrDefault("LEADGUARD_FINGERPRINT_SALT_VERSION", heuristics.DefaultSaltVersion),
		HeuristicsFile:         os.Getenv("LEADGUARD_HEURISTICS_FILE"),

		Issuer:         getEnvOrDefault("LEADGUARD_ISSUER", "leadguard"),
		SessionKeyFile: getEnvOrDefault("LEADGUARD_SESSION_KEY_FILE", "secrets/session_key"),
		SessionTTL:     getEnvDurationOrDefault("LEADGUARD_SESSION_TTL", 8*time.Hour),
		PepperFile:     getEnvOrDefault("LEADGUARD_PEPPER_FILE", "secrets/pepper"),
		TOTPKeyFile:    getEnvOrDefault("LEADGUARD_TOTP_KEY_FILE", "secrets/totp_key"),

		RateLimits:     httpx.RateLimitProfilesFromEnv(),
		TrustedProxies: os.Getenv("LEADGUARD_TRUSTED_PROXIES"),
	}
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabaseFile == "" {
			fail("LEADGUARD_DATABASE_FILE is required for sqlite")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			fail("LEADGUARD_DATABASE_URL is required for postgres")
		}
	default:
		fail("unknown database driver %q", c.DatabaseDriver)
	}

	switch c.SingleUseBackend {
	case SingleUseDatabase, SingleUseMemory:
	case SingleUseRedis:
		if c.RedisAddr == "" {
			fail("LEADGUARD_REDIS_ADDR is required for the redis backend")
		}
	default:
		fail("unknown single-use backend %q", c.SingleUseBackend)
	}

	if c.TokenTTL <= 0 {
		fail("token TTL must be positive")
	}
	if len(c.FormRoutes) == 0 {
		fail("at least one form route is required")
	}
	for _, r := range c.FormRoutes {
		if !strings.HasPrefix(r, "/") || strings.Contains(r, ":") {
			fail("form route %q must start with / and not contain ':'", r)
		}
	}
	if c.Port <= 0 || c.Port > 65535 {
		fail("port %d out of range", c.Port)
	}
	if _, err := httpx.ParseTrustedProxies(c.TrustedProxies); err != nil {
		fail("LEADGUARD_TRUSTED_PROXIES: %v", err)
	}

	return errors.Join(errs...)
}

// Proxies returns the parsed trusted proxy list. Validate has already
// rejected anything unparsable.
func (c Config) Proxies() httpx.TrustedProxies {
	proxies, _ := httpx.ParseTrustedProxies(c.TrustedProxies)
	return proxies
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

// getEnvListOrDefault splits a comma separated value, dropping blanks.
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for part := range strings.SplitSeq(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
