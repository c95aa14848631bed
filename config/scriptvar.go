package config

import (
	"log/slog"
	"time"

	"github.com/ardnew/ewwc/pkg"
	"github.com/ardnew/ewwc/value"
	"github.com/ardnew/ewwc/xmltree"
)

// ScriptVarTag is the element that declares a script variable.
const ScriptVarTag = "script-var"

// ScriptVar is a variable whose value is produced by periodically running a
// shell command.
type ScriptVar struct {
	Name     value.VarName `json:"name"     yaml:"name"`
	Command  string        `json:"command"  yaml:"command"`
	Interval time.Duration `json:"interval" yaml:"interval"`
}

// ParseScriptVar parses a <script-var name="..." interval="...">command</script-var>
// element.
func ParseScriptVar(el *xmltree.Element) (ScriptVar, error) {
	if err := el.ExpectTag(ScriptVarTag); err != nil {
		return ScriptVar{}, err
	}

	name, err := el.Attr("name")
	if err != nil {
		return ScriptVar{}, err
	}

	raw, err := el.Attr("interval")
	if err != nil {
		return ScriptVar{}, err
	}

	interval, ierr := parseInterval(raw)
	if ierr != nil {
		return ScriptVar{}, ierr.At(el.Pos()).With(slog.String("var", name))
	}

	child, err := el.OnlyChild()
	if err != nil {
		return ScriptVar{}, err
	}

	text, err := xmltree.AsText(child)
	if err != nil {
		return ScriptVar{}, err
	}

	return ScriptVar{
		Name:     value.NewVarName(name),
		Command:  text.Text(),
		Interval: interval,
	}, nil
}

// ParseInterval parses a non-negative duration such as "500ms", "10s" or
// "1h30m".
// Malformed text fails with [pkg.ErrAttributeParse].
func ParseInterval(s string) (time.Duration, error) {
	d, err := parseInterval(s)
	if err != nil {
		return 0, err
	}

	return d, nil
}

func parseInterval(s string) (time.Duration, *pkg.Error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, pkg.ErrAttributeParse.
			Describe("invalid interval %q", s).
			Wrap(err)
	}

	if d < 0 {
		return 0, pkg.ErrAttributeParse.
			Describe("negative interval %q", s)
	}

	return d, nil
}
