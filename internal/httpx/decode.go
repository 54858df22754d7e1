package httpx

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/guarzo/pkmchase/internal/model"
)

// DecodeList accepts either a bare JSON array or an object carrying the
// array under one of wrapperKeys, and returns the array elements. Any other
// shape is a *model.MalformedResponseError.
func DecodeList(source string, body []byte, wrapperKeys ...string) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, &model.MalformedResponseError{Source: source, Detail: "empty body"}
	}

	switch trimmed[0] {
	case '[':
		var list []json.RawMessage
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, &model.MalformedResponseError{Source: source, Detail: "invalid array", Err: err}
		}
		return list, nil
	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, &model.MalformedResponseError{Source: source, Detail: "invalid object", Err: err}
		}
		for _, key := range wrapperKeys {
			raw, ok := wrapper[key]
			if !ok {
				continue
			}
			var list []json.RawMessage
			if err := json.Unmarshal(raw, &list); err != nil {
				return nil, &model.MalformedResponseError{Source: source, Detail: fmt.Sprintf("field %q is not a list", key), Err: err}
			}
			return list, nil
		}
		return nil, &model.MalformedResponseError{Source: source, Detail: fmt.Sprintf("none of %v present", wrapperKeys)}
	default:
		return nil, &model.MalformedResponseError{Source: source, Detail: "body is neither a list nor an object"}
	}
}
