// Package fingerprint derives a stable client fingerprint from the User-Agent header.
package fingerprint

import (
	"net/http"
	"strings"

	"github.com/mileusna/useragent"
)

const unknown = "unknown"

// FromUserAgent returns "<browser>|<os>|<device type>".
// Versions are left out so that browser updates do not end sessions.
func FromUserAgent(ua string) string {
	if strings.TrimSpace(ua) == "" {
		return strings.Join([]string{unknown, unknown, unknown}, "|")
	}
	parsed := useragent.Parse(ua)
	return strings.Join([]string{
		orUnknown(parsed.Name),
		orUnknown(parsed.OS),
		deviceType(parsed),
	}, "|")
}

// FromRequest derives the fingerprint of r.
func FromRequest(r *http.Request) string {
	return FromUserAgent(r.UserAgent())
}

func deviceType(ua useragent.UserAgent) string {
	switch {
	case ua.Bot:
		return "bot"
	case ua.Tablet:
		return "tablet"
	case ua.Mobile:
		return "mobile"
	case ua.Desktop:
		return "desktop"
	default:
		return unknown
	}
}

func orUnknown(s string) string {
	if s == "" {
		return unknown
	}
	return s
}
