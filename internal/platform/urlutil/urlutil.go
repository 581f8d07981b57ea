// Package urlutil provides utilities for URL normalization and parsing.
package urlutil

import (
	"net/url"
	"strings"
)

// ExtractScheme returns the scheme of a URL in lowercase, or "" when the
// input carries no scheme.
func ExtractScheme(rawURL string) string {
	trimmed := strings.TrimSpace(rawURL)
	if idx := strings.Index(trimmed, "://"); idx != -1 {
		return strings.ToLower(trimmed[:idx])
	}
	return ""
}

// ExtractPath returns the path component of a URL.
// If the input is not a valid URL, it attempts to extract a path-like component.
func ExtractPath(rawURL string) string {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return ""
	}
	if strings.Contains(trimmed, "://") {
		if parsed, err := url.Parse(trimmed); err == nil {
			if parsed.Path != "" {
				return parsed.Path
			}
			return ""
		}
	}
	if idx := strings.Index(trimmed, "/"); idx != -1 {
		return trimmed[idx:]
	}
	return ""
}

// ExtractPort returns the explicit port of a URL or host:port string, or ""
// when no port is present. Default scheme ports are never inferred.
func ExtractPort(rawURL string) string {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return ""
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return ""
	}
	return parsed.Port()
}

// StripScheme removes the http/https prefix for display purposes, matching
// how hosts are listed in reports.
func StripScheme(rawURL string) string {
	trimmed := strings.TrimSpace(rawURL)
	trimmed = strings.TrimPrefix(trimmed, "https://")
	trimmed = strings.TrimPrefix(trimmed, "http://")
	return trimmed
}

// Truncate limits a string to n runes for aligned console columns.
func Truncate(s string, n int) string {
	if n <= 3 || len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
