package db

import (
	"regexp"
	"strings"
)

var (
	kvPairRegex   = regexp.MustCompile(`(?i)\b(host|user|password|dbname|port|sslmode)=`)
	kvPassword    = regexp.MustCompile(`(?i)(password=)([^\s]+)`)
	urlCredential = regexp.MustCompile(`(://[^:/@]+:)([^@]+)(@)`)
)

// NormalizeDSN accepts either a URL style DSN (postgres://...) or a lib/pq key=value list.
// It trims quotes and whitespace and adds sslmode=disable to key=value lists that lack it.
func NormalizeDSN(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "\"'")
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return s
	}
	// Not key=value pairs either: leave it to the driver to complain.
	if !kvPairRegex.MatchString(s) {
		return s
	}
	cleaned := strings.Join(strings.Fields(s), " ")
	if !strings.Contains(strings.ToLower(cleaned), "sslmode=") {
		cleaned += " sslmode=disable"
	}
	return cleaned
}

// MaskDSN hides the password of a DSN for logging.
func MaskDSN(dsn string) string {
	masked := kvPassword.ReplaceAllString(dsn, `${1}***`)
	return urlCredential.ReplaceAllString(masked, `${1}***${3}`)
}
