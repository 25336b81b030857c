package loggers

import (
	"io"

	"github.com/rickchristie/tapable"
	"gopkg.in/yaml.v3"
)

type hookDump struct {
	Name         string    `yaml:"name,omitempty"`
	Args         []string  `yaml:"args"`
	Interceptors []string  `yaml:"interceptors,omitempty"`
	Taps         []tapDump `yaml:"taps"`
}

type tapDump struct {
	Name   string         `yaml:"name"`
	Kind   string         `yaml:"kind"`
	Stage  int            `yaml:"stage"`
	Before []string       `yaml:"before,omitempty"`
	Meta   map[string]any `yaml:"meta,omitempty"`
}

// DumpHook writes h's name, arguments, interceptors and ordered taps as YAML.
// Meta values must be YAML-encodable.
func DumpHook(w io.Writer, h *tapable.Hook) error {
	d := hookDump{
		Name: h.Name(),
		Args: h.Args(),
		Taps: make([]tapDump, 0),
	}
	for _, i := range h.Interceptors() {
		name := i.Name
		if name == "" {
			name = "(unnamed)"
		}
		d.Interceptors = append(d.Interceptors, name)
	}
	for _, t := range h.Taps() {
		d.Taps = append(d.Taps, tapDump{
			Name:   t.Name,
			Kind:   string(t.Kind),
			Stage:  t.Stage,
			Before: t.Before,
			Meta:   t.Meta,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return err
	}
	return enc.Close()
}
