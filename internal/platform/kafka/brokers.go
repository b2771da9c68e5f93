// Package kafka holds helpers shared by the producer and consumer.
package kafka

import (
	"errors"
	"strings"
)

// ErrNoBrokers is returned when a broker list has no usable address.
var ErrNoBrokers = errors.New("kafka brokers not configured")

// SeedBrokers splits a comma-separated broker list, dropping blanks and
// duplicates while keeping order.
func SeedBrokers(list string) ([]string, error) {
	seen := make(map[string]bool)
	var brokers []string
	for _, b := range strings.Split(list, ",") {
		b = strings.TrimSpace(b)
		if b == "" || seen[b] {
			continue
		}
		seen[b] = true
		brokers = append(brokers, b)
	}
	if len(brokers) == 0 {
		return nil, ErrNoBrokers
	}
	return brokers, nil
}
