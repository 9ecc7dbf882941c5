package repository

import (
	"encoding/json"
	"fmt"
)

// EncodeList marshals a string list for a JSONB column. A nil list is stored as [].
func EncodeList(items []string) ([]byte, error) {
	if items == nil {
		items = []string{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode list: %w", err)
	}
	return data, nil
}

// DecodeList unmarshals a JSONB column into a string list. NULL decodes to an empty list.
func DecodeList(data []byte) ([]string, error) {
	items := []string{}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	if items == nil {
		items = []string{}
	}
	return items, nil
}
