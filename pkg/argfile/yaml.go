package argfile

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// DecodeYAML decodes a YAML sequence of arguments. Mappings are passed
// through as their JSON text, matching DecodeJSON.
func DecodeYAML(data []byte) ([]any, error) {
	var raw []any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("arguments must be a YAML sequence: %w", err)
	}

	args := make([]any, len(raw))
	for i, v := range raw {
		normalized, err := normalizeYAML(v)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		args[i] = normalized
	}
	return args, nil
}

func normalizeYAML(v any) (any, error) {
	switch val := v.(type) {
	case []any:
		list := make([]any, len(val))
		for i, e := range val {
			n, err := normalizeYAML(e)
			if err != nil {
				return nil, err
			}
			list[i] = n
		}
		return list, nil
	case map[string]any:
		data, err := json.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("failed to encode mapping: %w", err)
		}
		return string(data), nil
	default:
		return val, nil
	}
}
