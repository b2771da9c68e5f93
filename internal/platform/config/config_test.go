package config

import (
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"HRCATALOG_ADDR", "ENVIRONMENT", "LOG_LEVEL", "ADMIN_TOKEN", "APP_ALERT_PREFIX",
		"TRUSTED_PROXIES", "DATABASE_URL", "INDEX_PATH", "KAFKA_BROKERS", "KAFKA_TOPIC",
		"REPAIR_POLL_INTERVAL", "REPAIR_BATCH_SIZE", "REPAIR_MAX_ATTEMPTS", "REPAIR_RETENTION",
		"ADMIN_TOKEN_HASH", "REQUEST_TIMEOUT",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "hrApp", cfg.AlertPrefix)
	assert.Equal(t, "hrcatalog.changes", cfg.KafkaTopic)
	assert.True(t, cfg.InMemory())
	assert.Empty(t, cfg.AdminToken)
	assert.False(t, cfg.AdminEnabled())
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, Repair{PollInterval: 5 * time.Second, BatchSize: 100, MaxAttempts: 10, Retention: 7 * 24 * time.Hour}, cfg.Repair)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("HRCATALOG_ADDR", ":9090")
	t.Setenv("DATABASE_URL", "postgres://hr@localhost/hr")
	t.Setenv("REPAIR_POLL_INTERVAL", "250ms")
	t.Setenv("REPAIR_BATCH_SIZE", "not-a-number")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.7, bogus")
	t.Setenv("ADMIN_TOKEN_HASH", "$2a$10$abc")
	t.Setenv("REQUEST_TIMEOUT", "2s")

	cfg := FromEnv()
	assert.Equal(t, ":9090", cfg.Addr)
	assert.False(t, cfg.InMemory())
	assert.True(t, cfg.AdminEnabled())
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Repair.PollInterval)
	assert.Equal(t, 100, cfg.Repair.BatchSize, "invalid values fall back to the default")
	assert.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("192.168.1.7/32"),
	}, cfg.TrustedProxies)
}
