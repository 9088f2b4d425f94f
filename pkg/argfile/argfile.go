// Package argfile loads positional formatter arguments from JSON or YAML
// documents. Each document is a top-level sequence; element N feeds the
// Nth placeholder. Nulls, numbers, booleans and nested sequences keep their
// types, which plain command-line arguments cannot express.
package argfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Load reads the argument file at path. The format is chosen by extension:
// .yaml and .yml are YAML, everything else is JSON.
func Load(path string) ([]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read argument file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return DecodeJSON(data)
	}
}
