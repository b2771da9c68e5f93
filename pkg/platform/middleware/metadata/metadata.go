// Package metadata copies caller metadata (client IP, acting user) from the
// request into the context.
package metadata

import (
	"net/http"
	"net/netip"
	"strings"

	request "hrcatalog/pkg/platform/middleware/request"
	"hrcatalog/pkg/requestcontext"
)

// MaxXFFHeaderLength caps the X-Forwarded-For value we are willing to parse.
const MaxXFFHeaderLength = 500

// ActorHeader names the acting user stamped into created_by/last_modified_by.
// It is set by an authenticating proxy and honoured only from a trusted peer.
const ActorHeader = "X-Actor"

// Config holds configuration for the metadata middleware.
type Config struct {
	// TrustedProxies lists the prefixes allowed to append to
	// X-Forwarded-For. Empty means forwarded headers are ignored.
	TrustedProxies []netip.Prefix
}

// Middleware resolves the client address and acting user of a request.
type Middleware struct {
	trusted []netip.Prefix
}

// NewMiddleware creates a metadata middleware. A nil cfg trusts no proxy.
func NewMiddleware(cfg *Config) *Middleware {
	if cfg == nil {
		return &Middleware{}
	}
	return &Middleware{trusted: cfg.TrustedProxies}
}

// Handler stores the client IP and, when a trusted proxy forwarded a safe
// X-Actor value, the acting user. Other requests are attributed to
// requestcontext.SystemActor by the stores.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		peer, ok := remoteAddr(r.RemoteAddr)
		fromProxy := ok && m.isTrusted(peer)

		ctx := requestcontext.WithClientIP(r.Context(), m.clientIP(r, peer, ok))
		if fromProxy {
			if actor := strings.TrimSpace(r.Header.Get(ActorHeader)); request.IsValidToken(actor) {
				ctx = requestcontext.WithActor(ctx, actor)
			}
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientIP walks X-Forwarded-For from the nearest hop outwards and returns
// the first address not owned by a trusted proxy. Entries left of that point
// were written by the client and are ignored.
func (m *Middleware) clientIP(r *http.Request, peer netip.Addr, ok bool) string {
	if !ok {
		return "unknown"
	}
	if !m.isTrusted(peer) {
		return peer.String()
	}

	xff := r.Header.Get("X-Forwarded-For")
	if xff == "" {
		if xri, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
			return xri.Unmap().String()
		}
		return peer.String()
	}
	if len(xff) > MaxXFFHeaderLength {
		return peer.String()
	}

	hops := strings.Split(xff, ",")
	client := peer
	for i := len(hops) - 1; i >= 0; i-- {
		addr, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			break
		}
		client = addr.Unmap()
		if !m.isTrusted(client) {
			break
		}
	}
	return client.String()
}

func (m *Middleware) isTrusted(addr netip.Addr) bool {
	for _, prefix := range m.trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// remoteAddr parses RemoteAddr with or without a port.
func remoteAddr(raw string) (netip.Addr, bool) {
	if ap, err := netip.ParseAddrPort(raw); err == nil {
		return ap.Addr().Unmap(), true
	}
	if addr, err := netip.ParseAddr(strings.Trim(raw, "[]")); err == nil {
		return addr.Unmap(), true
	}
	return netip.Addr{}, false
}
