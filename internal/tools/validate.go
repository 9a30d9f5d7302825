package tools

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var (
	// ErrUnknownTool reports a lookup for a tool that is not registered.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrInvalidArguments reports arguments that do not satisfy a tool schema.
	ErrInvalidArguments = errors.New("invalid arguments")
)

// ArgsValidator checks tool arguments against a compiled JSON schema.
type ArgsValidator struct {
	schema *gojsonschema.Schema
}

// NewArgsValidator compiles a parameter schema.
func NewArgsValidator(schema Schema) (*ArgsValidator, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schema.JSON()))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &ArgsValidator{schema: compiled}, nil
}

// Validate returns ErrInvalidArguments describing every schema violation.
func (v *ArgsValidator) Validate(args Args) error {
	if v == nil || v.schema == nil {
		return nil
	}
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(args.JSON()))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	if result.Valid() {
		return nil
	}
	issues := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		issues = append(issues, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidArguments, strings.Join(issues, "; "))
}
