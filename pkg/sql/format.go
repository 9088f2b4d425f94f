// Package sql formats SQL text by interpolating values into %s, %I, %L and
// %Q placeholders, quoting identifiers and escaping literals so untrusted
// values cannot change the statement's structure.
package sql

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/ekaya-inc/pgformat/pkg/apperrors"
	"github.com/ekaya-inc/pgformat/pkg/logging"
)

// DefaultTemplateCacheSize is the number of compiled templates a Formatter
// keeps unless WithTemplateCache says otherwise.
const DefaultTemplateCacheSize = 256

// Formatter interpolates values into SQL text according to %s, %I, %L and
// %Q placeholders. A Formatter is safe for concurrent use.
type Formatter struct {
	reserved  *ReservedWords
	logger    *zap.Logger
	cache     *lru.Cache[string, *Template]
	cacheSize int
	pick      func(n int) int
	rawCheck  RawCheck
	auditor   InjectionAuditor
}

// InjectionAuditor receives raw fragments flagged by the raw check.
type InjectionAuditor interface {
	LogInjectionAttempt(template string, result *InjectionCheckResult, rejected bool)
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithLogger sets the logger used for debug and raw-check output.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Formatter) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithTemplateCache sets how many compiled templates are kept. Zero
// disables caching.
func WithTemplateCache(size int) Option {
	return func(f *Formatter) {
		f.cacheSize = size
	}
}

// WithTagPicker replaces the random source used to choose dollar-quote
// tags. pick must return a value in [0, n) and be safe for concurrent use.
func WithTagPicker(pick func(n int) int) Option {
	return func(f *Formatter) {
		if pick != nil {
			f.pick = pick
		}
	}
}

// WithRawCheck sets how %s arguments are screened for injection payloads.
func WithRawCheck(check RawCheck) Option {
	return func(f *Formatter) {
		f.rawCheck = check
	}
}

// WithAuditor reports flagged raw fragments to auditor in addition to the
// formatter's own logging. It has no effect while the raw check is off.
func WithAuditor(auditor InjectionAuditor) Option {
	return func(f *Formatter) {
		f.auditor = auditor
	}
}

// NewFormatter creates a Formatter backed by the given reserved word set.
// A nil set is an error; pass NewReservedWords() to format without any
// reserved words.
func NewFormatter(reserved *ReservedWords, opts ...Option) (*Formatter, error) {
	if reserved == nil {
		return nil, apperrors.ErrReservedWordsMissing
	}

	f := &Formatter{
		reserved:  reserved,
		logger:    zap.NewNop(),
		cacheSize: DefaultTemplateCacheSize,
		pick:      rand.IntN,
		rawCheck:  RawCheckOff,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.cacheSize < 0 {
		return nil, fmt.Errorf("template cache size must not be negative, got %d", f.cacheSize)
	}
	if f.cacheSize > 0 {
		cache, err := lru.New[string, *Template](f.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create template cache: %w", err)
		}
		f.cache = cache
	}

	return f, nil
}

var defaultFormatter = sync.OnceValue(func() *Formatter {
	f, err := NewFormatter(DefaultReservedWords())
	if err != nil {
		panic(err)
	}
	return f
})

// Default returns a shared Formatter using the built-in reserved words.
func Default() *Formatter {
	return defaultFormatter()
}

// ReservedWords returns the reserved word set the Formatter consults.
func (f *Formatter) ReservedWords() *ReservedWords {
	return f.reserved
}

// Compile returns the compiled form of template, using the cache when one
// is configured.
func (f *Formatter) Compile(template string) *Template {
	if f.cache != nil {
		if t, ok := f.cache.Get(template); ok {
			return t
		}
	}

	t := Compile(template)
	f.logger.Debug("Compiled SQL template",
		zap.String("template", logging.TruncateString(template, logging.MaxQueryLogLength)),
		zap.Int("placeholders", t.Placeholders()))

	if f.cache != nil {
		f.cache.Add(template, t)
	}
	return t
}

// Format substitutes args into template. The Nth placeholder consumes the
// Nth argument; placeholders beyond the supplied arguments receive Null.
//
// Example:
//
//	out, err := f.Format("select %I from %I where %L", "col", "tbl", "it's")
//	// out == "select col from tbl where 'it''s'"
func (f *Formatter) Format(template string, args ...any) (string, error) {
	return f.Execute(f.Compile(template), args...)
}

// Execute substitutes args into a compiled template.
func (f *Formatter) Execute(t *Template, args ...any) (string, error) {
	var b strings.Builder
	b.Grow(len(t.source) + 16*t.placeholders)

	n := 0
	for _, seg := range t.segments {
		if !seg.isPlaceholder() {
			b.WriteString(seg.text)
			continue
		}

		var arg Value
		if n < len(args) {
			arg = ValueOf(args[n])
		}
		n++

		out, err := f.render(t, seg.verb, arg, n)
		if err != nil {
			return "", fmt.Errorf("placeholder %d (%%%c): %w", n, seg.verb, err)
		}
		b.WriteString(out)
	}

	return b.String(), nil
}

// FormatStatement formats template and checks that the result is a single
// SQL statement, stripping a trailing semicolon.
func (f *Formatter) FormatStatement(template string, args ...any) (string, error) {
	out, err := f.Format(template, args...)
	if err != nil {
		return "", err
	}

	result := ValidateAndNormalize(out)
	if result.Error != nil {
		return "", result.Error
	}
	return result.NormalizedSQL, nil
}

func (f *Formatter) render(t *Template, verb Verb, v Value, placeholder int) (string, error) {
	switch verb {
	case VerbString:
		return f.renderRaw(t, v, placeholder)
	case VerbIdent:
		return RenderIdent(v, f.reserved)
	case VerbLiteral:
		return RenderLiteral(v), nil
	case VerbDollarQuoted:
		return RenderDollarQuoted(v, f.pick), nil
	default:
		return "", fmt.Errorf("unsupported placeholder verb %q", byte(verb))
	}
}

func (f *Formatter) renderRaw(t *Template, v Value, placeholder int) (string, error) {
	s := RenderString(v)
	if f.rawCheck == RawCheckOff {
		return s, nil
	}

	result := CheckRawFragment(s)
	if result == nil {
		return s, nil
	}
	result.Placeholder = placeholder

	rejected := f.rawCheck == RawCheckReject
	if f.auditor != nil {
		f.auditor.LogInjectionAttempt(t.source, result, rejected)
	}
	if rejected {
		return "", fmt.Errorf("fingerprint %s: %w", result.Fingerprint, apperrors.ErrSuspectedInjection)
	}

	f.logger.Warn("Raw SQL fragment matches an injection pattern",
		zap.Int("placeholder", result.Placeholder),
		zap.String("fingerprint", result.Fingerprint),
		zap.String("value", logging.SanitizeValue(result.Value)))
	return s, nil
}

// String renders v with the %s rule.
func (f *Formatter) String(v any) string {
	return RenderString(ValueOf(v))
}

// Ident renders v with the %I rule.
func (f *Formatter) Ident(v any) (string, error) {
	return RenderIdent(ValueOf(v), f.reserved)
}

// Literal renders v with the %L rule.
func (f *Formatter) Literal(v any) string {
	return RenderLiteral(ValueOf(v))
}

// DollarQuoted renders v with the %Q rule.
func (f *Formatter) DollarQuoted(v any) string {
	return RenderDollarQuoted(ValueOf(v), f.pick)
}
