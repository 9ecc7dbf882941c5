package gemini

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/JaimeStill/scout/pkg/formatting"
)

var errFieldType = errors.New("unexpected field type")

// String decodes a JSON string or null. Any other type is an error.
type String string

func (s *String) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = String(v)
		return nil
	}
	return fmt.Errorf("%w: want string, got %s", errFieldType, kind(data))
}

// Text decodes a loosely typed scalar. Strings pass through, numbers and booleans
// keep their literal form, arrays of scalars are joined with "; ", and null is empty.
// Objects and nested arrays are rejected.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		parts := make([]string, 0, len(items))
		for _, item := range items {
			v, err := scalar(item)
			if err != nil {
				return err
			}
			if v != "" {
				parts = append(parts, v)
			}
		}
		*t = Text(strings.Join(parts, "; "))
		return nil
	}

	v, err := scalar(data)
	if err != nil {
		return err
	}
	*t = Text(v)
	return nil
}

// List decodes either a JSON array of scalars or a delimited string into string items.
type List []string

func (l *List) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = formatting.SplitList(s)
		return nil
	}

	if len(data) == 0 || data[0] != '[' {
		return fmt.Errorf("%w: want array, got %s", errFieldType, kind(data))
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(List, 0, len(raw))
	for _, item := range raw {
		v, err := scalar(item)
		if err != nil {
			return err
		}
		if v != "" {
			out = append(out, v)
		}
	}
	*l = out
	return nil
}

// scalar returns the string form of a JSON string, number, boolean, or null.
func scalar(data []byte) (string, error) {
	data = bytes.TrimSpace(data)

	switch k := kind(data); k {
	case "null":
		return "", nil
	case "string":
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return s, nil
	case "number", "boolean":
		var compact bytes.Buffer
		if err := json.Compact(&compact, data); err != nil {
			return "", err
		}
		return compact.String(), nil
	default:
		return "", fmt.Errorf("%w: want scalar, got %s", errFieldType, k)
	}
}

func kind(data []byte) string {
	if len(data) == 0 {
		return "empty"
	}
	switch c := data[0]; {
	case c == '"':
		return "string"
	case c == '{':
		return "object"
	case c == '[':
		return "array"
	case c == 't' || c == 'f':
		return "boolean"
	case c == 'n':
		return "null"
	default:
		return "number"
	}
}
