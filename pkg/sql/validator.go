package sql

import (
	"strings"

	"github.com/ekaya-inc/pgformat/pkg/apperrors"
)

// ErrMultipleStatements indicates the SQL contains more than one statement.
var ErrMultipleStatements = apperrors.ErrMultipleStatements

// ValidationResult contains the normalized SQL and any validation errors.
type ValidationResult struct {
	NormalizedSQL string
	Error         error
}

// ValidateAndNormalize checks SQL for multiple statements and strips the trailing semicolon.
//
// The validation order is:
// 1. Strip trailing semicolon and whitespace (normalize)
// 2. Check for multiple statements (any remaining semicolons outside quoted text or comments)
func ValidateAndNormalize(sqlQuery string) ValidationResult {
	sqlQuery = strings.TrimSpace(sqlQuery)

	if sqlQuery == "" {
		return ValidationResult{NormalizedSQL: sqlQuery}
	}

	normalized := stripTrailingSemicolon(sqlQuery)

	if hasSemicolonOutsideStrings(normalized) {
		return ValidationResult{Error: ErrMultipleStatements}
	}

	return ValidationResult{NormalizedSQL: normalized}
}

// hasSemicolonOutsideStrings returns true if the SQL contains a semicolon
// outside of string literals, quoted identifiers, dollar-quoted bodies and
// comments. It understands the quoting this package produces: doubled
// quotes, E'' strings with backslash escapes and $tag$ delimiters.
func hasSemicolonOutsideStrings(sqlQuery string) bool {
	n := len(sqlQuery)
	for i := 0; i < n; i++ {
		switch sqlQuery[i] {
		case ';':
			return true
		case '\'':
			i = skipQuoted(sqlQuery, i, '\'', isEscapeStringPrefix(sqlQuery, i))
		case '"':
			i = skipQuoted(sqlQuery, i, '"', false)
		case '$':
			if tag, ok := dollarTagAt(sqlQuery, i); ok {
				end := strings.Index(sqlQuery[i+len(tag):], tag)
				if end < 0 {
					return false
				}
				i += len(tag) + end + len(tag) - 1
			}
		case '-':
			if i+1 < n && sqlQuery[i+1] == '-' {
				end := strings.IndexByte(sqlQuery[i:], '\n')
				if end < 0 {
					return false
				}
				i += end
			}
		case '/':
			if i+1 < n && sqlQuery[i+1] == '*' {
				end := strings.Index(sqlQuery[i+2:], "*/")
				if end < 0 {
					return false
				}
				i += 2 + end + 1
			}
		}
	}
	return false
}

// skipQuoted returns the index of the quote closing the quoted run that
// opens at start, or the last index when it is unterminated. A doubled
// quote stays inside the run; with backslashEscapes a backslash escapes the
// next character.
func skipQuoted(s string, start int, quote byte, backslashEscapes bool) int {
	for i := start + 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if backslashEscapes {
				i++
			}
		case quote:
			if i+1 < len(s) && s[i+1] == quote {
				i++
				continue
			}
			return i
		}
	}
	return len(s) - 1
}

// isEscapeStringPrefix reports whether the quote at i opens an E'' string.
func isEscapeStringPrefix(s string, i int) bool {
	if i == 0 || (s[i-1] != 'E' && s[i-1] != 'e') {
		return false
	}
	return i < 2 || !isIdentByte(s[i-2])
}

// dollarTagAt returns the $tag$ delimiter starting at i, if any. Tags
// follow identifier rules, so positional parameters like $1 are not tags.
func dollarTagAt(s string, i int) (string, bool) {
	if i > 0 && isIdentByte(s[i-1]) {
		return "", false
	}
	for j := i + 1; j < len(s); j++ {
		c := s[j]
		if c == '$' {
			return s[i : j+1], true
		}
		if j == i+1 && c >= '0' && c <= '9' {
			return "", false
		}
		if !isIdentByte(c) {
			return "", false
		}
	}
	return "", false
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c >= 0x80
}

// stripTrailingSemicolon removes a trailing semicolon and any whitespace after it.
func stripTrailingSemicolon(sqlQuery string) string {
	sqlQuery = strings.TrimRight(sqlQuery, " \t\n\r")

	if strings.HasSuffix(sqlQuery, ";") {
		sqlQuery = strings.TrimSuffix(sqlQuery, ";")
		sqlQuery = strings.TrimRight(sqlQuery, " \t\n\r")
	}

	return sqlQuery
}
