package tools

import "encoding/json"

// Schema describes the JSON schema for tool parameters.
type Schema struct {
	Type                 string            `json:"type,omitempty"`
	Description          string            `json:"description,omitempty"`
	Properties           map[string]Schema `json:"properties,omitempty"`
	Items                *Schema           `json:"items,omitempty"`
	Required             []string          `json:"required,omitempty"`
	Enum                 []string          `json:"enum,omitempty"`
	Default              any               `json:"default,omitempty"`
	Minimum              *float64          `json:"minimum,omitempty"`
	Maximum              *float64          `json:"maximum,omitempty"`
	AdditionalProperties *bool             `json:"additionalProperties,omitempty"`
}

// BoolPointer returns a pointer to the provided bool value.
func BoolPointer(value bool) *bool {
	return &value
}

// ObjectSchema builds a schema for a JSON object.
func ObjectSchema(properties map[string]Schema, required ...string) Schema {
	return Schema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

// ArraySchema builds a schema for a JSON array.
func ArraySchema(items Schema, description string) Schema {
	return Schema{Type: "array", Items: &items, Description: description}
}

// StringSchema builds a schema for a JSON string.
func StringSchema(description string) Schema {
	return Schema{Type: "string", Description: description}
}

// IntegerSchema builds a schema for a JSON integer.
func IntegerSchema(description string) Schema {
	return Schema{Type: "integer", Description: description}
}

// NumberSchema builds a schema for a JSON number.
func NumberSchema(description string) Schema {
	return Schema{Type: "number", Description: description}
}

// WithDefault returns a copy of s carrying a default value.
func (s Schema) WithDefault(value any) Schema {
	s.Default = value
	return s
}

// WithEnum returns a copy of s restricted to values.
func (s Schema) WithEnum(values ...string) Schema {
	s.Enum = values
	return s
}

// WithRange returns a copy of s bounded to [min, max].
func (s Schema) WithRange(min, max float64) Schema {
	s.Minimum = &min
	s.Maximum = &max
	return s
}

// JSON renders the schema document.
func (s Schema) JSON() []byte {
	payload, err := json.Marshal(s)
	if err != nil {
		return []byte(`{"type":"object"}`)
	}
	return payload
}
