package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// listArg binds values as a VARCHAR[] parameter. A nil slice binds as an empty list.
func listArg(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// listColumn renders a list column as JSON text so it scans into a string.
func listColumn(column string) string {
	return fmt.Sprintf("CAST(to_json(%s) AS VARCHAR)", column)
}

// decodeList parses a JSON-encoded list column.
func decodeList(raw string) ([]string, error) {
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// nullableString converts an optional string pointer into a SQL argument.
func nullableString(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

// encodeJSON renders a configuration object, or NULL when empty.
func encodeJSON(value map[string]any) (any, error) {
	if len(value) == 0 {
		return nil, nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return string(payload), nil
}

// decodeJSON parses a nullable JSON column.
func decodeJSON(raw sql.NullString) (map[string]any, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(raw.String), &out); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return out, nil
}

// stringPointer converts a nullable column to an optional string.
func stringPointer(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	out := value.String
	return &out
}

// timePointer converts a nullable column to an optional time.
func timePointer(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	out := value.Time.UTC()
	return &out
}
