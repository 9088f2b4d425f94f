package sql

import (
	"regexp"
	"strings"
)

// unquotedIdentRegex matches identifiers PostgreSQL accepts without quotes
// and without case folding.
var unquotedIdentRegex = regexp.MustCompile(`^[a-z_][a-z0-9_$]*$`)

// IsValidUnquotedIdentifier reports whether id can be emitted as-is: it is
// not a reserved word and consists of a lowercase letter or underscore
// followed by lowercase letters, digits, underscores or dollar signs.
func IsValidUnquotedIdentifier(id string, reserved *ReservedWords) bool {
	if reserved.Contains(id) {
		return false
	}
	return unquotedIdentRegex.MatchString(id)
}

// QuoteIdent wraps id in double quotes, doubling any embedded double quote.
func QuoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
