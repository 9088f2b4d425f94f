package argfile

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeJSON decodes a JSON array of arguments. Numbers are kept as
// json.Number so large integers and decimals survive unchanged.
func DecodeJSON(data []byte) ([]any, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("arguments must be a JSON array: %w", err)
	}

	args := make([]any, len(raws))
	for i, raw := range raws {
		args[i] = FlexibleValue(raw)
	}
	return args, nil
}

// FlexibleValue converts a json.RawMessage into a formatter argument:
// null becomes nil, strings stay strings, numbers become json.Number,
// booleans stay booleans and arrays recurse. Objects have no SQL
// rendering of their own and are passed through as their JSON text.
func FlexibleValue(raw json.RawMessage) any {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	switch raw[0] {
	case '"':
		var strVal string
		if err := json.Unmarshal(raw, &strVal); err == nil {
			return strVal
		}
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err == nil {
			list := make([]any, len(elems))
			for i, e := range elems {
				list[i] = FlexibleValue(e)
			}
			return list
		}
	case 't', 'f':
		var boolVal bool
		if err := json.Unmarshal(raw, &boolVal); err == nil {
			return boolVal
		}
	case '{':
		return string(raw)
	default:
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var numVal json.Number
		if err := dec.Decode(&numVal); err == nil {
			return numVal
		}
	}

	// Fallback: return raw string representation
	return string(raw)
}
