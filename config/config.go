package config

import (
	"bytes"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/ewwc/pkg"
	"github.com/ardnew/ewwc/value"
	"github.com/ardnew/ewwc/widget"
	"github.com/ardnew/ewwc/xmltree"
)

// Section and element tags of a configuration document.
const (
	DefinitionsTag = "definitions"
	WindowsTag     = "windows"
	VariablesTag   = "variables"
	VarTag         = "var"
)

// variableTags lists the elements legal inside <variables>.
var variableTags = []string{VarTag, ScriptVarTag}

// Config is a compiled configuration document.
// It is immutable once built and safe for concurrent use.
type Config struct {
	widgets    map[string]widget.Definition
	windows    map[WindowName]WindowDefinition
	defaults   value.Table
	scriptVars []ScriptVar
}

// Load reads and compiles the configuration document at path.
// An unreadable file fails with [pkg.ErrIO]; malformed XML fails with
// [pkg.ErrXMLSyntax].
func Load(path string, opts ...Option) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, pkg.ErrIO.
			Describe("%s", path).
			Wrap(err).
			With(slog.String("path", path))
	}

	return ParseBytes(content, opts...)
}

// ParseBytes compiles the configuration document held in src.
// Malformed XML fails with [pkg.ErrXMLSyntax].
func ParseBytes(src []byte, opts ...Option) (*Config, error) {
	o := makeOptions(opts...)

	doc, err := xmltree.Parse(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}

	o.logger.DebugContext(o.ctx, "document parsed",
		slog.Int("bytes", len(src)))

	return parse(doc.Root(), o)
}

// Parse compiles a configuration from the document's root element.
//
// The <definitions> and <windows> sections are required; <variables> is
// optional. Parsing stops at the first invalid entry, and no partial
// configuration is returned.
func Parse(root *xmltree.Element, opts ...Option) (*Config, error) {
	return parse(root, makeOptions(opts...))
}

func parse(root *xmltree.Element, o options) (*Config, error) {
	widgets, err := parseDefinitions(root, o)
	if err != nil {
		return nil, pkg.Contextf(err, "error parsing widget definitions")
	}

	windows, err := parseWindows(root, o)
	if err != nil {
		return nil, pkg.Contextf(err, "error parsing window definitions")
	}

	defaults, scriptVars, err := parseVariables(root, o)
	if err != nil {
		return nil, pkg.Contextf(err, "error parsing variables")
	}

	o.logger.TraceContext(o.ctx, "parse complete",
		slog.Int("widgets", len(widgets)),
		slog.Int("windows", len(windows)),
		slog.Int("defaults", len(defaults)),
		slog.Int("script_vars", len(scriptVars)))

	return &Config{
		widgets:    widgets,
		windows:    windows,
		defaults:   defaults,
		scriptVars: scriptVars,
	}, nil
}

func section(root *xmltree.Element, tag string) (*xmltree.Element, error) {
	el, err := root.Child(tag)
	if err != nil && pkg.KindOf(err) == pkg.KindMissingChild {
		return nil, pkg.ErrMissingSection.At(root.Pos()).
			Describe("%s", tag).
			With(slog.String("section", tag))
	}

	return el, err
}

func parseDefinitions(
	root *xmltree.Element,
	o options,
) (map[string]widget.Definition, error) {
	block, err := section(root, DefinitionsTag)
	if err != nil {
		return nil, err
	}

	widgets := map[string]widget.Definition{}

	for el := range block.ChildElements() {
		def, err := widget.ParseDefinition(el)
		if err != nil {
			return nil, err
		}

		if err := insert(o, widgets, def.Name, def, el, def.Name); err != nil {
			return nil, err
		}
	}

	return widgets, nil
}

func parseWindows(
	root *xmltree.Element,
	o options,
) (map[WindowName]WindowDefinition, error) {
	block, err := section(root, WindowsTag)
	if err != nil {
		return nil, err
	}

	windows := map[WindowName]WindowDefinition{}

	for el := range block.ChildElements() {
		name, err := el.Attr("name")
		if err != nil {
			return nil, err
		}

		def, err := ParseWindowDefinition(el)
		if err != nil {
			return nil, pkg.Contextf(err, "window '%s'", name)
		}

		if err := insert(o, windows, NewWindowName(name), def, el, name); err != nil {
			return nil, err
		}
	}

	return windows, nil
}

func parseVariables(
	root *xmltree.Element,
	o options,
) (value.Table, []ScriptVar, error) {
	defaults := value.Table{}
	scriptVars := []ScriptVar{}

	block, err := root.Child(VariablesTag)
	if err != nil {
		if pkg.KindOf(err) == pkg.KindMissingChild {
			return defaults, scriptVars, nil
		}

		return nil, nil, err
	}

	seen := map[value.VarName]struct{}{}

	for el := range block.ChildElements() {
		var name value.VarName

		switch el.Tag() {
		case VarTag:
			raw, err := el.Attr("name")
			if err != nil {
				return nil, nil, err
			}

			name = value.NewVarName(raw)
			defaults[name] = value.ParsePrimitive(defaultText(el))

		case ScriptVarTag:
			v, err := ParseScriptVar(el)
			if err != nil {
				return nil, nil, err
			}

			name = v.Name
			scriptVars = append(scriptVars, v)

		default:
			return nil, nil, illegalElement(el)
		}

		if _, dup := seen[name]; dup && o.strict {
			return nil, nil, duplicateName(el, name.String())
		}

		seen[name] = struct{}{}
	}

	return defaults, scriptVars, nil
}

// defaultText returns the text of a <var>'s only child, or "" if it has
// none or several.
func defaultText(el *xmltree.Element) string {
	child, err := el.OnlyChild()
	if err != nil {
		return ""
	}

	return xmltree.TextOrSourcecode(child)
}

func illegalElement(el *xmltree.Element) error {
	e := pkg.ErrIllegalElement.At(el.Pos()).
		Describe("Illegal element in variables block: %s", el.TagString()).
		With(slog.String("tag", el.Tag()))

	if hint := suggest(el.Tag(), variableTags); hint != "" {
		e = e.Describe("Illegal element in variables block: %s (did you mean <%s>?)",
			el.TagString(), hint).
			With(slog.String("suggestion", hint))
	}

	return e
}

// suggest returns the candidate that best fuzzily matches tag, or "" if none
// is close.
func suggest(tag string, candidates []string) string {
	if matches := fuzzy.Find(tag, candidates); len(matches) > 0 {
		return matches[0].Str
	}

	// Also catch tags that extend a candidate, e.g. "variable".
	var best string

	for _, c := range candidates {
		if len(fuzzy.Find(c, []string{tag})) > 0 && len(c) > len(best) {
			best = c
		}
	}

	return best
}

func duplicateName(el *xmltree.Element, name string) error {
	return pkg.ErrDuplicateName.At(el.Pos()).
		Describe("%s redeclares '%s'", el.TagString(), name).
		With(slog.String("name", name))
}

// Widgets returns the widget definitions keyed by name.
// The returned map is a copy.
func (c *Config) Widgets() map[string]widget.Definition {
	return maps.Clone(c.widgets)
}

// Windows returns the window definitions keyed by name.
// The returned map is a copy.
func (c *Config) Windows() map[WindowName]WindowDefinition {
	return maps.Clone(c.windows)
}

// DefaultVars returns the statically declared variable values.
// The returned map is a copy.
func (c *Config) DefaultVars() value.Table {
	return maps.Clone(c.defaults)
}

// ScriptVars returns the script variables in declaration order.
// The returned slice is a copy.
func (c *Config) ScriptVars() []ScriptVar {
	return slices.Clone(c.scriptVars)
}

// Widget returns the named widget definition.
func (c *Config) Widget(name string) (widget.Definition, bool) {
	def, ok := c.widgets[name]

	return def, ok
}

// Window returns the named window definition.
func (c *Config) Window(name WindowName) (WindowDefinition, bool) {
	def, ok := c.windows[name]

	return def, ok
}

// WidgetNames returns the widget names in sorted order.
func (c *Config) WidgetNames() []string {
	return slices.Sorted(maps.Keys(c.widgets))
}

// WindowNames returns the window names in sorted order.
func (c *Config) WindowNames() []WindowName {
	return slices.SortedFunc(maps.Keys(c.windows), func(a, b WindowName) int {
		return strings.Compare(a.name, b.name)
	})
}

// VarNames returns every declared variable, default or script, in sorted
// order without duplicates.
func (c *Config) VarNames() []value.VarName {
	names := slices.Collect(maps.Keys(c.defaults))
	for _, v := range c.scriptVars {
		names = append(names, v.Name)
	}

	slices.SortFunc(names, func(a, b value.VarName) int {
		return strings.Compare(a.String(), b.String())
	})

	return slices.Compact(names)
}

// insert stores val under key, replacing an earlier entry unless strict.
func insert[K comparable, V any](
	o options,
	m map[K]V,
	key K,
	val V,
	el *xmltree.Element,
	name string,
) error {
	if _, dup := m[key]; dup {
		if o.strict {
			return duplicateName(el, name)
		}

		o.logger.DebugContext(o.ctx, "duplicate name replaced",
			slog.String("name", name),
			slog.String("pos", el.Pos().String()))
	}

	m[key] = val

	return nil
}
