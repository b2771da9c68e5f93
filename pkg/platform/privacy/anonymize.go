// Package privacy keeps client addresses out of logs at full precision.
package privacy

import "net/netip"

const (
	ipv4Bits = 24
	ipv6Bits = 48
)

// MaskClientIP returns the network prefix of a client address, e.g.
// "192.168.1.47" becomes "192.168.1.0/24" and IPv6 addresses are cut to /48.
// IPv4-mapped IPv6 addresses are treated as IPv4. Empty input yields
// "unknown" and unparseable input yields "invalid".
func MaskClientIP(raw string) string {
	if raw == "" || raw == "unknown" {
		return "unknown"
	}
	addr, err := netip.ParseAddr(raw)
	if err != nil {
		return "invalid"
	}
	addr = addr.Unmap()

	bits := ipv6Bits
	if addr.Is4() {
		bits = ipv4Bits
	}
	prefix, err := addr.WithZone("").Prefix(bits)
	if err != nil {
		return "invalid"
	}
	return prefix.String()
}
