// Package schema compiles JSON Schema documents and validates option maps against them.
//
// Tap options can arrive as plain maps (decoded from YAML or JSON, or assembled by hosts).
// Those maps are checked against a compiled schema before they are turned into tap records:
//
//	opts := schema.MustCompile(schema.Object(map[string]*schema.Property{
//	    "name":  schema.String("Tap name"),
//	    "stage": schema.Integer("Ordering stage"),
//	}, "name"))
//
//	if err := opts.Validate(map[string]any{"name": "Logger", "stage": 10}); err != nil {
//	    return err
//	}
//
// Values are normalized through encoding/json before validation, so Go ints, string slices
// and nested structs validate the same way their decoded JSON counterparts would.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is a JSON Schema definition with its compiled validator.
type Schema struct {
	raw      map[string]any
	compiled *jsonschema.Schema
}

// Raw returns the underlying map representation.
func (s *Schema) Raw() map[string]any {
	if s == nil {
		return nil
	}
	return s.raw
}

// Validate validates data against the schema. A nil schema accepts everything.
func (s *Schema) Validate(data map[string]any) error {
	if s == nil || s.compiled == nil {
		return nil
	}

	doc, err := normalize(data)
	if err != nil {
		return &ValidationError{Err: err}
	}
	if err := s.compiled.Validate(doc); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

// normalize converts a Go value into the generic form produced by the JSON decoder.
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("value is not JSON-encodable: %w", err)
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(data))
}

// ValidationError wraps a JSON Schema validation error.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema validation failed: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Compile compiles a raw schema map. A nil map compiles to a nil Schema.
func Compile(raw map[string]any) (*Schema, error) {
	if raw == nil {
		return nil, nil
	}

	doc, err := normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", doc); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	compiled, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return &Schema{
		raw:      raw,
		compiled: compiled,
	}, nil
}

// MustCompile is like Compile but panics on error. Use it for schemas defined at init time.
func MustCompile(raw map[string]any) *Schema {
	s, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return s
}

// -----------------------------------------------------------------------------
// Schema Builders
// -----------------------------------------------------------------------------

// Object creates an object schema with the given properties. Property names passed as
// variadic arguments are required.
//
// Example:
//
//	schema.Object(map[string]*schema.Property{
//	    "name":    schema.String("Tap name"),
//	    "context": schema.Boolean("Deprecated context flag"),
//	}, "name")
func Object(properties map[string]*Property, required ...string) map[string]any {
	props := make(map[string]any, len(properties))
	for name, prop := range properties {
		props[name] = prop.build()
	}

	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}

	if len(required) > 0 {
		schema["required"] = required
	}

	return schema
}

// Property is a property in an object schema.
type Property struct {
	typ         string
	description string
	items       *Property
	anyOf       []*Property
}

func (p *Property) build() map[string]any {
	m := map[string]any{}

	if p.typ != "" {
		m["type"] = p.typ
	}
	if p.description != "" {
		m["description"] = p.description
	}
	if p.items != nil {
		m["items"] = p.items.build()
	}
	if len(p.anyOf) > 0 {
		alternatives := make([]any, len(p.anyOf))
		for i, alt := range p.anyOf {
			alternatives[i] = alt.build()
		}
		m["anyOf"] = alternatives
	}

	return m
}

// String creates a string property.
func String(description string) *Property {
	return &Property{typ: "string", description: description}
}

// Integer creates an integer property.
func Integer(description string) *Property {
	return &Property{typ: "integer", description: description}
}

// Boolean creates a boolean property.
func Boolean(description string) *Property {
	return &Property{typ: "boolean", description: description}
}

// Array creates an array property whose elements match items.
//
// Example:
//
//	schema.Array("Tap names", schema.String(""))
func Array(description string, items *Property) *Property {
	return &Property{typ: "array", description: description, items: items}
}

// AnyOf creates a property that accepts a value matching at least one of the alternatives.
//
// Example:
//
//	// A single name or a list of names
//	schema.AnyOf("Names", schema.String(""), schema.Array("", schema.String("")))
func AnyOf(description string, alternatives ...*Property) *Property {
	return &Property{description: description, anyOf: alternatives}
}
