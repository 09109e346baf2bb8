package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONMap stores a free-form settings group as a JSON document.

type JSONMap map[string]any

// Value implements the driver.Valuer interface.
// This defines how the map is stored in the database.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}

	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize JSONMap, %w", err)
	}

	return string(b), nil
}

// Scan implements the sql.Scanner interface.
// This defines how the database value is converted back into go.
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}

	var b []byte

	switch v := value.(type) {
	case string:
		b = []byte(v)
	case []byte:
		b = v
	default:
		return fmt.Errorf("failed to scan JSONMap, %v", value)
	}

	if len(b) == 0 {
		*m = JSONMap{}
		return nil
	}

	return json.Unmarshal(b, m)
}

// Merge copies the supplied keys into the map, keeping every key
// that isn't mentioned. Used by the preference update handlers.
func (m JSONMap) Merge(updates map[string]any) JSONMap {
	out := JSONMap{}
	for k, v := range m {
		out[k] = v
	}
	for k, v := range updates {
		out[k] = v
	}
	return out
}
