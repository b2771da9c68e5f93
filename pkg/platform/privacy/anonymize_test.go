package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskClientIP(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "ipv4", input: "192.168.1.47", expected: "192.168.1.0/24"},
		{name: "ipv4 already masked", input: "10.0.0.0", expected: "10.0.0.0/24"},
		{name: "ipv4 loopback", input: "127.0.0.1", expected: "127.0.0.0/24"},
		{name: "ipv6", input: "2001:db8:85a3::8a2e:370:7334", expected: "2001:db8:85a3::/48"},
		{name: "ipv6 with zone", input: "fe80::1%eth0", expected: "fe80::/48"},
		{name: "ipv4 mapped ipv6", input: "::ffff:192.168.1.47", expected: "192.168.1.0/24"},
		{name: "empty", input: "", expected: "unknown"},
		{name: "unknown marker", input: "unknown", expected: "unknown"},
		{name: "garbage", input: "not-an-ip", expected: "invalid"},
		{name: "host and port", input: "192.168.1.47:8080", expected: "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaskClientIP(tt.input))
		})
	}
}
