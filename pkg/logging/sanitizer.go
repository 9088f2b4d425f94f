package logging

import (
	"regexp"
	"unicode/utf8"
)

const (
	// MaxQueryLogLength is the maximum length of SQL text to log
	MaxQueryLogLength = 100
	// MaxValueLogLength is the maximum length of an argument value to log
	MaxValueLogLength = 64
	// RedactedText is the replacement text for sensitive data
	RedactedText = "[REDACTED]"
)

var (
	// Pattern to match potential passwords in assignments or connection strings
	// Matches: password=xxx, pwd=xxx, pass=xxx (until next delimiter)
	passwordPattern = regexp.MustCompile(`(?i)(password|pwd|pass)=[^;&\s]+`)

	// Pattern to match SQL password clauses: PASSWORD 'xxx'
	sqlPasswordPattern = regexp.MustCompile(`(?i)(password)\s+E?'(?:[^']|'')*'`)

	// Pattern to match potential API keys
	apiKeyPattern = regexp.MustCompile(`(?i)(api[_-]?key|apikey|key)=[A-Za-z0-9-_]{20,}`)
)

// SanitizeValue truncates and redacts an argument value for logging
func SanitizeValue(value string) string {
	if value == "" {
		return ""
	}

	sanitized := redact(value)
	return TruncateString(sanitized, MaxValueLogLength)
}

// SanitizeQuery truncates and sanitizes formatted SQL for logging.
// Redaction runs before truncation so a cut never leaves half a secret.
func SanitizeQuery(query string) string {
	if query == "" {
		return ""
	}

	sanitized := redact(query)
	return TruncateString(sanitized, MaxQueryLogLength)
}

func redact(s string) string {
	s = passwordPattern.ReplaceAllString(s, "${1}="+RedactedText)
	s = sqlPasswordPattern.ReplaceAllString(s, "${1} "+RedactedText)
	s = apiKeyPattern.ReplaceAllString(s, "${1}="+RedactedText)
	return s
}

// TruncateString truncates a string to at most maxLen bytes and adds ellipsis
// if needed. The cut never splits a multi-byte rune.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
