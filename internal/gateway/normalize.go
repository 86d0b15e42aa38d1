package gateway

import (
	"bytes"
	"encoding/json"
)

// listWrapperKeys are the object keys observed wrapping list payloads across
// backend revisions. Probed in order.
var listWrapperKeys = []string{"data", "evaluations", "evaluaciones", "documents"}

// decodeList normalizes a list payload to a slice of T. The backend returns
// either a bare array or an object wrapping the array under one of several
// keys; anything else degrades to an empty list. The second return reports
// whether a recognized shape was found, so the caller can log the surprise.
func decodeList[T any](raw []byte) ([]T, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return []T{}, true
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return []T{}, false
		}
		return items, true
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return []T{}, false
	}
	for _, key := range listWrapperKeys {
		inner, ok := wrapper[key]
		if !ok {
			continue
		}
		var items []T
		if err := json.Unmarshal(inner, &items); err != nil {
			continue
		}
		return items, true
	}
	return []T{}, false
}
