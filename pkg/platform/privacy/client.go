package privacy

import (
	"strings"

	"github.com/mssola/useragent"
)

// ClientFamily reduces a User-Agent header to "browser/os/platform" so access
// logs can tell callers apart without keeping the full header.
func ClientFamily(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return "unknown"
	}

	ua := useragent.New(userAgent)
	browser, _ := ua.Browser()
	platform := "desktop"
	if ua.Mobile() {
		platform = "mobile"
	}
	return normalize(browser) + "/" + normalize(ua.OS()) + "/" + platform
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "unknown"
	}
	return strings.ReplaceAll(s, " ", "-")
}
