package config

import (
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr        string
	Environment string
	LogLevel    string
	// AdminToken guards /admin. Empty disables the admin surface unless
	// AdminTokenHash is set.
	AdminToken string
	// AdminTokenHash is a bcrypt hash of the admin token and takes
	// precedence over AdminToken.
	AdminTokenHash string
	// AlertPrefix is the application name used in X-<App>-Alert headers and
	// alert keys.
	AlertPrefix    string
	TrustedProxies []netip.Prefix
	// RequestTimeout bounds the context of each API request.
	RequestTimeout time.Duration

	DatabaseURL string
	// IndexPath is the SQLite search index file. Empty keeps the index in
	// memory.
	IndexPath string

	KafkaBrokers string
	KafkaTopic   string

	Repair Repair
}

// Repair configures the index repair worker.
type Repair struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
	// Retention is how long replayed entries are kept before the worker
	// sweeps them.
	Retention time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:           envString("HRCATALOG_ADDR", ":8080"),
		Environment:    envString("ENVIRONMENT", "local"),
		LogLevel:       envString("LOG_LEVEL", "info"),
		AdminToken:     os.Getenv("ADMIN_TOKEN"),
		AdminTokenHash: os.Getenv("ADMIN_TOKEN_HASH"),
		AlertPrefix:    envString("APP_ALERT_PREFIX", "hrApp"),
		TrustedProxies: parsePrefixes(os.Getenv("TRUSTED_PROXIES")),
		RequestTimeout: envDuration("REQUEST_TIMEOUT", 15*time.Second),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		IndexPath:      os.Getenv("INDEX_PATH"),
		KafkaBrokers:   os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:     envString("KAFKA_TOPIC", "hrcatalog.changes"),
		Repair: Repair{
			PollInterval: envDuration("REPAIR_POLL_INTERVAL", 5*time.Second),
			BatchSize:    envInt("REPAIR_BATCH_SIZE", 100),
			MaxAttempts:  envInt("REPAIR_MAX_ATTEMPTS", 10),
			Retention:    envDuration("REPAIR_RETENTION", 7*24*time.Hour),
		},
	}
}

// AdminEnabled reports whether the operator endpoints are mounted.
func (s Server) AdminEnabled() bool {
	return s.AdminToken != "" || s.AdminTokenHash != ""
}

// InMemory reports whether the record store runs without Postgres.
func (s Server) InMemory() bool {
	return s.DatabaseURL == ""
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// parsePrefixes reads a comma separated CIDR list, skipping invalid entries.
// Bare addresses are treated as single-host prefixes.
func parsePrefixes(raw string) []netip.Prefix {
	var out []netip.Prefix
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if p, err := netip.ParsePrefix(part); err == nil {
			out = append(out, p)
			continue
		}
		if a, err := netip.ParseAddr(part); err == nil {
			out = append(out, netip.PrefixFrom(a, a.BitLen()))
		}
	}
	return out
}
