package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON parses a model response as a JSON object. Responses that
// carry leading or trailing prose around the object are salvaged by
// parsing the slice between the first '{' and the last '}'. When no
// such slice exists the original parse error is returned; when the
// slice itself is malformed, its error is.
func ExtractJSON(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)

	var top any
	err := json.Unmarshal([]byte(raw), &top)
	if err == nil {
		obj, ok := top.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("response is not a JSON object")
		}
		return obj, nil
	}

	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start == -1 || end <= start {
		return nil, err
	}

	var obj map[string]any
	if serr := json.Unmarshal([]byte(raw[start:end+1]), &obj); serr != nil {
		return nil, serr
	}
	return obj, nil
}
