package sql

import (
	"fmt"
	"strings"

	"github.com/ekaya-inc/pgformat/pkg/apperrors"
)

// dollarTags is the alphabet dollar-quote tags are drawn from.
var dollarTags = []string{
	"a", "b", "c", "d", "e", "f", "g", "h", "i", "j",
	"k", "l", "m", "n", "o", "p", "q", "r", "s", "t",
}

// RenderString returns the plain text form of v with no escaping. Null
// renders as the empty string. Only use it for trusted SQL fragments.
func RenderString(v Value) string {
	return v.String()
}

// RenderIdent renders v as an identifier, quoting it unless it is a valid
// unquoted identifier. Null is rejected with apperrors.ErrInvalidArgument.
func RenderIdent(v Value, reserved *ReservedWords) (string, error) {
	if v.IsNull() {
		return "", fmt.Errorf("identifier required: %w", apperrors.ErrInvalidArgument)
	}
	id := v.String()
	if IsValidUnquotedIdentifier(id, reserved) {
		return id, nil
	}
	return QuoteIdent(id), nil
}

// RenderLiteral renders v as a SQL literal.
//
// Null renders as NULL. Lists render each element recursively, joined by
// ", " inside parentheses. Everything else is treated as text: single quotes
// are doubled, then backslashes are doubled, and the result is wrapped in
// single quotes with an E prefix when the input contained a backslash.
//
//	RenderLiteral(Text("it's"))   // 'it''s'
//	RenderLiteral(Text(`a\b`))    // E'a\\b'
//	RenderLiteral(List(Text("a"), Null()))  // ('a', NULL)
func RenderLiteral(v Value) string {
	switch v.Kind() {
	case KindNull:
		return "NULL"
	case KindList:
		elems := v.Elems()
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = RenderLiteral(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}

	s := v.String()
	prefix := ""
	if strings.Contains(s, `\`) {
		prefix = "E"
	}
	s = strings.ReplaceAll(s, `'`, `''`)
	s = strings.ReplaceAll(s, `\`, `\\`)
	return prefix + "'" + s + "'"
}

// RenderDollarQuoted wraps v in a $x$ ... $x$ dollar-quoted string with a
// tag letter chosen by pick, which must return a value in [0, n). Null and
// empty text render as the empty string. The body is not escaped, so a body
// containing the chosen delimiter breaks the quoting.
func RenderDollarQuoted(v Value, pick func(n int) int) string {
	s := v.String()
	if v.IsNull() || s == "" {
		return ""
	}
	tag := "$" + dollarTags[pick(len(dollarTags))] + "$"
	return tag + s + tag
}
