package config

import (
	"encoding/json"

	"github.com/goccy/go-yaml"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/ardnew/ewwc/widget"
)

// ToMap returns a plain, serializable view of the configuration:
//
//	widgets:   name -> {structure, size?}
//	windows:   name -> {position, size, widget}
//	variables: {defaults: name -> value, script_vars: [{name, command, interval}]}
//
// Widget attributes are rendered as written; variable defaults keep their
// classified types.
func (c *Config) ToMap() map[string]any {
	widgets := make(map[string]any, len(c.widgets))
	for name, def := range c.widgets {
		m := map[string]any{"structure": useMap(def.Structure)}
		if def.Size != nil {
			m["size"] = []int{def.Size[0], def.Size[1]}
		}

		widgets[name] = m
	}

	windows := make(map[string]any, len(c.windows))
	for name, def := range c.windows {
		windows[name.String()] = map[string]any{
			"position": []int{def.Position[0], def.Position[1]},
			"size":     []int{def.Size[0], def.Size[1]},
			"widget":   useMap(def.Widget),
		}
	}

	scriptVars := make([]any, len(c.scriptVars))
	for i, v := range c.scriptVars {
		scriptVars[i] = map[string]any{
			"name":     v.Name.String(),
			"command":  v.Command,
			"interval": v.Interval.String(),
		}
	}

	return map[string]any{
		"widgets": widgets,
		"windows": windows,
		"variables": map[string]any{
			"defaults":    c.defaults.Native(),
			"script_vars": scriptVars,
		},
	}
}

func useMap(u widget.Use) map[string]any {
	m := map[string]any{"name": u.Name}

	if len(u.Attrs) > 0 {
		attrs := make(map[string]any, len(u.Attrs))
		for k, v := range u.Attrs {
			attrs[k] = v.String()
		}

		m["attrs"] = attrs
	}

	if len(u.Children) > 0 {
		children := make([]any, len(u.Children))
		for i, c := range u.Children {
			children[i] = useMap(c)
		}

		m["children"] = children
	}

	return m
}

// MarshalJSON encodes [Config.ToMap].
func (c *Config) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.ToMap())
}

// MarshalYAML returns [Config.ToMap] for encoding by goccy/go-yaml.
func (c *Config) MarshalYAML() (any, error) {
	return c.ToMap(), nil
}

// EncodeMsgpack encodes [Config.ToMap].
func (c *Config) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(c.ToMap())
}

var (
	_ json.Marshaler          = (*Config)(nil)
	_ yaml.InterfaceMarshaler = (*Config)(nil)
	_ msgpack.CustomEncoder   = (*Config)(nil)
)
