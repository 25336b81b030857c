package tapable

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"strings"

	"github.com/rickchristie/tapable/schema"
)

// TapOptions describes a tap at registration time. Zero-valued fields count as unset when
// options are merged (see Hook.WithOptions); use the map form to set a zero value explicitly.
//
// Registration methods accept, in place of TapOptions:
//   - a string, taken as the tap name
//   - a *TapOptions
//   - a map[string]any with the keys "name", "stage", "before" and "context"; any other key
//     lands in Tap.Meta
type TapOptions struct {
	Name    string
	Stage   int
	Before  []string
	Context bool
	Meta    map[string]any
}

const (
	optName    = "name"
	optStage   = "stage"
	optBefore  = "before"
	optContext = "context"
)

var tapOptionsSchema = schema.MustCompile(schema.Object(map[string]*schema.Property{
	optName:  schema.String("Tap name"),
	optStage: schema.Integer("Ordering stage; lower runs earlier"),
	optBefore: schema.AnyOf("Names of taps this tap runs ahead of",
		schema.String("A single tap name"),
		schema.Array("Several tap names", schema.String("")),
	),
	optContext: schema.Boolean("Deprecated context flag"),
}))

func isKnownOption(key string) bool {
	switch key {
	case optName, optStage, optBefore, optContext:
		return true
	}
	return false
}

// optionsMap normalizes any accepted options value into its map form.
func optionsMap(opts any) (map[string]any, error) {
	switch o := opts.(type) {
	case string:
		return map[string]any{optName: o}, nil
	case TapOptions:
		return o.toMap(), nil
	case *TapOptions:
		if o == nil {
			return nil, fmt.Errorf("%w: nil *TapOptions", ErrInvalidOptions)
		}
		return o.toMap(), nil
	case map[string]any:
		if o == nil {
			return nil, fmt.Errorf("%w: nil map", ErrInvalidOptions)
		}
		known := make(map[string]any, 4)
		for k, v := range o {
			if isKnownOption(k) {
				known[k] = v
			}
		}
		if err := tapOptionsSchema.Validate(known); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
		}
		return maps.Clone(o), nil
	default:
		return nil, fmt.Errorf("%w: unsupported options type %T", ErrInvalidOptions, opts)
	}
}

func (o TapOptions) toMap() map[string]any {
	m := make(map[string]any, len(o.Meta)+4)
	for k, v := range o.Meta {
		if !isKnownOption(k) {
			m[k] = v
		}
	}
	if o.Name != "" {
		m[optName] = o.Name
	}
	if o.Stage != 0 {
		m[optStage] = o.Stage
	}
	if len(o.Before) > 0 {
		m[optBefore] = o.Before
	}
	if o.Context {
		m[optContext] = true
	}
	return m
}

// mergeOptions layers over on top of base. Keys present in over win.
func mergeOptions(base, over map[string]any) map[string]any {
	merged := maps.Clone(base)
	if merged == nil {
		merged = make(map[string]any, len(over))
	}
	maps.Copy(merged, over)
	return merged
}

// newTap builds a tap record from normalized options.
func newTap(m map[string]any, kind Kind, fn any) (*Tap, error) {
	name, _ := m[optName].(string)
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMissingName
	}

	t := &Tap{Name: name, Kind: kind, Fn: fn}
	for k, v := range m {
		switch k {
		case optName:
		case optStage:
			stage, err := toInt(v)
			if err != nil {
				return nil, fmt.Errorf("%w: stage: %w", ErrInvalidOptions, err)
			}
			t.Stage = stage
		case optBefore:
			before, err := toNames(v)
			if err != nil {
				return nil, fmt.Errorf("%w: before: %w", ErrInvalidOptions, err)
			}
			t.Before = before
		case optContext:
			t.Context, _ = v.(bool)
		default:
			if t.Meta == nil {
				t.Meta = make(map[string]any)
			}
			t.Meta[k] = v
		}
	}
	return t, nil
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int:
		return n, nil
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		if n < math.MinInt || n > math.MaxInt {
			return 0, fmt.Errorf("%d is out of range", n)
		}
		return int(n), nil
	case uint:
		return fromUint(uint64(n))
	case uint8:
		return int(n), nil
	case uint16:
		return int(n), nil
	case uint32:
		return fromUint(uint64(n))
	case uint64:
		return fromUint(n)
	case float32:
		return toInt(float64(n))
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%v is not an integer", n)
		}
		// float64(math.MaxInt) rounds up to 2^63, which is itself out of range.
		if n < math.MinInt || n >= math.MaxInt {
			return 0, fmt.Errorf("%v is out of range", n)
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, err
		}
		return toInt(i)
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

func fromUint(n uint64) (int, error) {
	if n > math.MaxInt {
		return 0, fmt.Errorf("%d is out of range", n)
	}
	return int(n), nil
}

func toNames(v any) ([]string, error) {
	switch b := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{b}, nil
	case []string:
		return append([]string(nil), b...), nil
	case []any:
		names := make([]string, 0, len(b))
		for _, item := range b {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("unsupported element type %T", item)
			}
			names = append(names, s)
		}
		return names, nil
	default:
		return nil, fmt.Errorf("unsupported type %T", v)
	}
}
