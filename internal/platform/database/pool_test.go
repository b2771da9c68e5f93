package database

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRequiresURL(t *testing.T) {
	_, err := Open(context.Background(), DefaultConfig(""), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestOpenGivesUpOnUnreachableDatabase(t *testing.T) {
	cfg := DefaultConfig("postgres://hr:hr@127.0.0.1:1/hrcatalog?sslmode=disable&connect_timeout=1")
	cfg.ConnectAttempts = 2
	cfg.RetryDelay = 10 * time.Millisecond
	cfg.PingTimeout = time.Second

	_, err := Open(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
}

func TestNilPool(t *testing.T) {
	var p *Pool
	assert.Error(t, p.Health(context.Background()))
	assert.NoError(t, p.Close())
}
