package sql

import "strings"

// Verb is the character following % in a placeholder.
type Verb byte

const (
	VerbString       Verb = 's'
	VerbIdent        Verb = 'I'
	VerbLiteral      Verb = 'L'
	VerbDollarQuoted Verb = 'Q'
)

func isVerb(c byte) bool {
	switch Verb(c) {
	case VerbString, VerbIdent, VerbLiteral, VerbDollarQuoted:
		return true
	}
	return false
}

// segment is either literal text or a placeholder consuming one argument.
type segment struct {
	text string
	verb Verb
}

func (s segment) isPlaceholder() bool { return s.verb != 0 }

// Template is a compiled format string. It is immutable and may be shared
// between goroutines.
type Template struct {
	source       string
	segments     []segment
	placeholders int
}

// Compile scans template once, left to right. %% becomes a literal percent
// sign; %s, %I, %L and %Q become placeholders. Any other % is copied
// through unchanged and scanning resumes at the following character, so
// unknown sequences such as %d never consume an argument.
func Compile(template string) *Template {
	t := &Template{source: template}

	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			t.segments = append(t.segments, segment{text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '%' || i+1 >= len(template) {
			lit.WriteByte(c)
			continue
		}

		next := template[i+1]
		switch {
		case next == '%':
			lit.WriteByte('%')
			i++
		case isVerb(next):
			flush()
			t.segments = append(t.segments, segment{verb: Verb(next)})
			t.placeholders++
			i++
		default:
			lit.WriteByte('%')
		}
	}
	flush()

	return t
}

// Source returns the template text the Template was compiled from.
func (t *Template) Source() string { return t.source }

// Placeholders returns the number of argument-consuming placeholders.
func (t *Template) Placeholders() int { return t.placeholders }
