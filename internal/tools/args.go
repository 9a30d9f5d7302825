package tools

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Args holds decoded JSON arguments for a tool call.
type Args map[string]json.RawMessage

// ParseArgs decodes a JSON object into Args. Empty input yields empty Args.
func ParseArgs(raw string) (Args, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Args{}, nil
	}
	var args Args
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("parse tool arguments: %w", err)
	}
	if args == nil {
		args = Args{}
	}
	return args, nil
}

// ArgsFromMap encodes plain values into Args.
func ArgsFromMap(values map[string]any) (Args, error) {
	args := make(Args, len(values))
	for key, value := range values {
		payload, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		args[key] = payload
	}
	return args, nil
}

// Map decodes every argument into a plain value for logging and persistence.
func (args Args) Map() map[string]any {
	out := make(map[string]any, len(args))
	for key, raw := range args {
		var value any
		if err := json.Unmarshal(raw, &value); err != nil {
			out[key] = string(raw)
			continue
		}
		out[key] = value
	}
	return out
}

// JSON renders the arguments as a JSON object.
func (args Args) JSON() []byte {
	if args == nil {
		return []byte("{}")
	}
	payload, err := json.Marshal(map[string]json.RawMessage(args))
	if err != nil {
		return []byte("{}")
	}
	return payload
}

// RequiredString returns a required string argument.
func (args Args) RequiredString(key string) (string, error) {
	value, ok, err := args.OptionalString(key)
	if err != nil {
		return "", err
	}
	if !ok || value == "" {
		return "", fmt.Errorf("%w: %s is required", ErrInvalidArguments, key)
	}
	return value, nil
}

// OptionalString returns an optional string argument with a presence flag.
func (args Args) OptionalString(key string) (string, bool, error) {
	raw, ok := args.present(key)
	if !ok {
		return "", false, nil
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false, fmt.Errorf("%w: %s must be a string", ErrInvalidArguments, key)
	}
	return strings.TrimSpace(value), true, nil
}

// OptionalInt returns an optional integer argument.
func (args Args) OptionalInt(key string) (*int, error) {
	raw, ok := args.present(key)
	if !ok {
		return nil, nil
	}
	var value int
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", ErrInvalidArguments, key)
	}
	return &value, nil
}

// OptionalFloat returns an optional number argument.
func (args Args) OptionalFloat(key string) (*float64, error) {
	raw, ok := args.present(key)
	if !ok {
		return nil, nil
	}
	var value float64
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("%w: %s must be a number", ErrInvalidArguments, key)
	}
	return &value, nil
}

// FloatSlice returns a required list of numbers.
func (args Args) FloatSlice(key string) ([]float64, error) {
	raw, ok := args.present(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s is required", ErrInvalidArguments, key)
	}
	var value []float64
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("%w: %s must be a list of numbers", ErrInvalidArguments, key)
	}
	return value, nil
}

// present returns the raw value for key unless it is missing or null.
func (args Args) present(key string) (json.RawMessage, bool) {
	raw, ok := args[key]
	if !ok {
		return nil, false
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, false
	}
	return raw, true
}
