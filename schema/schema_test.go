package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name    string
		raw     map[string]any
		wantNil bool
		wantErr bool
	}{
		{
			name:    "nil schema returns nil",
			raw:     nil,
			wantNil: true,
		},
		{
			name: "valid schema compiles",
			raw: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{"type": "string"},
				},
			},
		},
		{
			name:    "invalid type keyword fails",
			raw:     map[string]any{"type": 42},
			wantNil: true,
			wantErr: true,
		},
		{
			name:    "unencodable schema fails",
			raw:     map[string]any{"type": func() {}},
			wantNil: true,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Compile(tt.raw)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			if tt.wantNil {
				assert.Nil(t, s)
			} else {
				require.NotNil(t, s)
				assert.Equal(t, tt.raw, s.Raw())
			}
		})
	}
}

func TestMustCompile_PanicsOnInvalidSchema(t *testing.T) {
	assert.Panics(t, func() {
		MustCompile(map[string]any{"type": 42})
	})
}

func TestSchema_Validate(t *testing.T) {
	s := MustCompile(Object(map[string]*Property{
		"name":    String("Tap name"),
		"stage":   Integer("Stage"),
		"context": Boolean("Context flag"),
		"before":  AnyOf("Names", String(""), Array("", String(""))),
	}, "name"))

	tests := []struct {
		name    string
		data    map[string]any
		wantErr bool
	}{
		{
			name: "go ints validate as integers",
			data: map[string]any{"name": "a", "stage": -3},
		},
		{
			name: "string slice validates against array alternative",
			data: map[string]any{"name": "a", "before": []string{"b", "c"}},
		},
		{
			name: "single string validates against string alternative",
			data: map[string]any{"name": "a", "before": "b"},
		},
		{
			name:    "missing required name",
			data:    map[string]any{"stage": 1},
			wantErr: true,
		},
		{
			name:    "fractional stage",
			data:    map[string]any{"name": "a", "stage": 1.5},
			wantErr: true,
		},
		{
			name:    "before of wrong type",
			data:    map[string]any{"name": "a", "before": 12},
			wantErr: true,
		},
		{
			name:    "array with non-string element",
			data:    map[string]any{"name": "a", "before": []any{"b", 3}},
			wantErr: true,
		},
		{
			name:    "non-boolean context",
			data:    map[string]any{"name": "a", "context": "yes"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Validate(tt.data)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var verr *ValidationError
			assert.True(t, errors.As(err, &verr))
		})
	}
}

func TestSchema_Validate_NilSchemaAcceptsAnything(t *testing.T) {
	var s *Schema
	assert.NoError(t, s.Validate(map[string]any{"anything": true}))
	assert.Nil(t, s.Raw())
}

func TestProperty_Build(t *testing.T) {
	built := Integer("Stage").build()
	assert.Equal(t, map[string]any{"type": "integer", "description": "Stage"}, built)

	names := Array("Names", String("")).build()
	assert.Equal(t, map[string]any{
		"type":        "array",
		"description": "Names",
		"items":       map[string]any{"type": "string"},
	}, names)

	either := AnyOf("Before", String(""), Array("", Boolean(""))).build()
	assert.Equal(t, map[string]any{
		"description": "Before",
		"anyOf": []any{
			map[string]any{"type": "string"},
			map[string]any{"type": "array", "items": map[string]any{"type": "boolean"}},
		},
	}, either)
}
