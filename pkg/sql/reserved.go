package sql

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/ekaya-inc/pgformat/pkg/apperrors"
)

//go:embed reserved_words.txt
var defaultReservedWordList string

// ReservedWords is an immutable set of lowercase SQL keywords that cannot
// appear as unquoted identifiers. Build it once and share it between
// formatters; it is safe for concurrent reads.
type ReservedWords struct {
	words map[string]struct{}
}

// NewReservedWords builds a set from the given words, folding each to
// lowercase. Blank entries are skipped. Calling it with no words yields an
// empty set, which is the explicit way to format without keyword quoting.
func NewReservedWords(words ...string) *ReservedWords {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		set[strings.ToLower(w)] = struct{}{}
	}
	return &ReservedWords{words: set}
}

// LoadReservedWords reads one keyword per line. A source that yields no
// keywords is rejected with apperrors.ErrReservedWordsMissing.
func LoadReservedWords(r io.Reader) (*ReservedWords, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reserved words: %w", err)
	}

	rw := NewReservedWords(words...)
	if rw.Len() == 0 {
		return nil, apperrors.ErrReservedWordsMissing
	}
	return rw, nil
}

// LoadReservedWordsFile loads a keyword list from disk.
func LoadReservedWordsFile(path string) (*ReservedWords, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrReservedWordsMissing, err)
	}
	defer f.Close()

	rw, err := LoadReservedWords(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rw, nil
}

var defaultReservedWords = sync.OnceValue(func() *ReservedWords {
	rw, err := LoadReservedWords(strings.NewReader(defaultReservedWordList))
	if err != nil {
		// The list is embedded at build time.
		panic(err)
	}
	return rw
})

// DefaultReservedWords returns the built-in PostgreSQL keyword list.
func DefaultReservedWords() *ReservedWords {
	return defaultReservedWords()
}

// Contains reports whether word is in the set. The lookup is exact: the set
// holds lowercase keys, so callers compare lowercase text.
func (r *ReservedWords) Contains(word string) bool {
	_, ok := r.words[word]
	return ok
}

// Len returns the number of keywords in the set.
func (r *ReservedWords) Len() int {
	return len(r.words)
}
