// Package device derives a human-readable label for the browsing context
// from the User-Agent header. The label only feeds audit events and session
// listings; it carries no authorization weight.
package device

import (
	"fmt"

	"github.com/mssola/useragent"
)

// ParseUserAgent turns a raw User-Agent into a short display label like
// "Chrome on Mac OS X".
func ParseUserAgent(raw string) string {
	if raw == "" {
		return "Unknown Device"
	}

	ua := useragent.New(raw)
	browser, _ := ua.Browser()
	os := ua.OSInfo().Name

	if browser == "" {
		browser = "Unknown Browser"
	}
	if os == "" {
		os = ua.Platform()
	}
	if os == "" {
		os = "Unknown OS"
	}

	return fmt.Sprintf("%s on %s", browser, os)
}
