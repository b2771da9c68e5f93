//go:build integration

// Package containers starts the Postgres and Kafka dependencies of the
// integration suites once per test binary.
package containers

import (
	"sync"
	"testing"
)

var shared struct {
	mu       sync.Mutex
	postgres *PostgresContainer
	kafka    *KafkaContainer
}

// Postgres returns the package-wide Postgres container, starting it on first
// use. Suites isolate themselves with Reset rather than new containers.
func Postgres(t *testing.T) *PostgresContainer {
	t.Helper()
	shared.mu.Lock()
	defer shared.mu.Unlock()

	if shared.postgres == nil {
		shared.postgres = startPostgres(t)
	}
	return shared.postgres
}

// Kafka returns the package-wide Kafka container, starting it on first use.
func Kafka(t *testing.T) *KafkaContainer {
	t.Helper()
	shared.mu.Lock()
	defer shared.mu.Unlock()

	if shared.kafka == nil {
		shared.kafka = startKafka(t)
	}
	return shared.kafka
}
