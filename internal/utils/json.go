package utils

import "encoding/json"

// JSONString marshals a metadata map into a JSON string for storage in
// text columns. Returns "{}" when the map is empty or cannot be encoded.
func JSONString(meta map[string]any) string {
	if len(meta) == 0 {
		return "{}"
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return "{}"
	}
	return string(raw)
}
