package value

import (
	"math"
	"strconv"
)

// Kind identifies the type a [Primitive] was classified as.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBoolean
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"

	case KindNumber:
		return "number"

	case KindBoolean:
		return "boolean"

	default:
		return "unknown"
	}
}

// Primitive is a typed scalar literal.
// The raw text is kept verbatim so that String round-trips exactly.
type Primitive struct {
	raw  string
	kind Kind
}

// ParsePrimitive classifies s as a boolean ("true" or "false"), a number
// (anything [strconv.ParseFloat] accepts) or otherwise a string.
func ParsePrimitive(s string) Primitive {
	switch {
	case s == "true" || s == "false":
		return Primitive{raw: s, kind: KindBoolean}

	case isNumber(s):
		return Primitive{raw: s, kind: KindNumber}

	default:
		return Primitive{raw: s, kind: KindString}
	}
}

// String creates a string-kinded Primitive without classification.
func String(s string) Primitive { return Primitive{raw: s, kind: KindString} }

func isNumber(s string) bool {
	if s == "" {
		return false
	}

	f, err := strconv.ParseFloat(s, 64)

	return err == nil && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// Kind returns the classification of p.
func (p Primitive) Kind() Kind { return p.kind }

// String returns the raw text of p.
func (p Primitive) String() string { return p.raw }

// AsBool returns the boolean value of p, or false for non-boolean kinds.
func (p Primitive) AsBool() bool { return p.kind == KindBoolean && p.raw == "true" }

// AsFloat returns the numeric value of p.
func (p Primitive) AsFloat() (float64, error) {
	return strconv.ParseFloat(p.raw, 64)
}

// Native converts p to the closest Go value: bool, int64, float64 or string.
func (p Primitive) Native() any {
	switch p.kind {
	case KindBoolean:
		return p.AsBool()

	case KindNumber:
		if i, err := strconv.ParseInt(p.raw, 10, 64); err == nil {
			return i
		}

		if f, err := p.AsFloat(); err == nil {
			return f
		}

		return p.raw

	default:
		return p.raw
	}
}

// MarshalText renders p as its raw text.
func (p Primitive) MarshalText() ([]byte, error) { return []byte(p.raw), nil }

// UnmarshalText classifies text with [ParsePrimitive].
func (p *Primitive) UnmarshalText(text []byte) error {
	*p = ParsePrimitive(string(text))

	return nil
}

// VarName identifies a reactive variable.
// It is deliberately not a string alias so that arbitrary strings cannot be
// passed where a variable name is expected without [NewVarName].
type VarName struct {
	name string
}

// NewVarName wraps name.
func NewVarName(name string) VarName { return VarName{name: name} }

// String returns the raw name.
func (v VarName) String() string { return v.name }

// MarshalText renders the raw name.
func (v VarName) MarshalText() ([]byte, error) { return []byte(v.name), nil }

// UnmarshalText wraps text.
func (v *VarName) UnmarshalText(text []byte) error {
	v.name = string(text)

	return nil
}

// Table maps variable names to their values.
type Table map[VarName]Primitive

// Native converts t into a plain map suitable for serialization.
func (t Table) Native() map[string]any {
	out := make(map[string]any, len(t))
	for k, v := range t {
		out[k.name] = v.Native()
	}

	return out
}
