package pkg

// Sentinel errors shared by the compiler packages.
// Every error produced while compiling a document is an *Error carrying one
// of these kinds, so callers can test for a kind using errors.Is against the
// matching sentinel regardless of how much context has been wrapped around it.

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Kind classifies an [Error].
type Kind int

const (
	KindContext Kind = iota
	KindIO
	KindXMLSyntax
	KindTagMismatch
	KindMissingSection
	KindMissingAttribute
	KindMissingChild
	KindChildCardinality
	KindAttributeParse
	KindIllegalElement
	KindExternalCommand
	KindDuplicateName
	KindUndefinedVariable
)

var kindName = [...]string{
	KindContext:           "context",
	KindIO:                "io",
	KindXMLSyntax:         "xml-syntax",
	KindTagMismatch:       "tag-mismatch",
	KindMissingSection:    "missing-section",
	KindMissingAttribute:  "missing-attribute",
	KindMissingChild:      "missing-child",
	KindChildCardinality:  "child-cardinality",
	KindAttributeParse:    "attribute-parse",
	KindIllegalElement:    "illegal-element",
	KindExternalCommand:   "external-command",
	KindDuplicateName:     "duplicate-name",
	KindUndefinedVariable: "undefined-variable",
}

// String returns the kind's short name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindName) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}

	return kindName[k]
}

// ErrIO is returned when the source document cannot be read.
var ErrIO = NewError(KindIO, "failed to read input")

// ErrXMLSyntax is returned when the source document is not well-formed XML.
var ErrXMLSyntax = NewError(KindXMLSyntax, "malformed XML")

// ErrTagMismatch is returned when an element with a specific tag was required
// but a different node was found.
var ErrTagMismatch = NewError(KindTagMismatch, "unexpected element")

// ErrMissingSection is returned when a required top-level block is absent.
var ErrMissingSection = NewError(KindMissingSection, "missing section")

// ErrMissingAttribute is returned when a required attribute is absent.
var ErrMissingAttribute = NewError(KindMissingAttribute, "missing attribute")

// ErrMissingChild is returned when a required named child element is absent.
var ErrMissingChild = NewError(KindMissingChild, "missing child element")

// ErrChildCardinality is returned when exactly one child was required but
// zero or several were found.
var ErrChildCardinality = NewError(
	KindChildCardinality,
	"expected exactly one child",
)

// ErrAttributeParse is returned when an attribute or text value cannot be
// converted to the required type (integer, duration, expression).
var ErrAttributeParse = NewError(KindAttributeParse, "invalid value")

// ErrIllegalElement is returned when an unrecognized element appears where
// only a fixed set of tags is allowed.
var ErrIllegalElement = NewError(KindIllegalElement, "illegal element")

// ErrExternalCommand is returned when a script variable's command cannot be
// run or exits unsuccessfully.
var ErrExternalCommand = NewError(
	KindExternalCommand,
	"external command failed",
)

// ErrDuplicateName is returned in strict mode when two declarations share a
// name within one collection.
var ErrDuplicateName = NewError(KindDuplicateName, "duplicate name")

// ErrUndefinedVariable is returned when an attribute expression refers to a
// variable that is not declared.
var ErrUndefinedVariable = NewError(
	KindUndefinedVariable,
	"undefined variable",
)

// Position identifies a location in a source document.
// Line and Column are 1-based; the zero value means "unknown".
type Position struct {
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// IsValid reports whether p refers to an actual location.
func (p Position) IsValid() bool { return p.Line > 0 }

// String renders p as "line:column", or "line" when the column is unknown.
func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}

	if p.Column <= 0 {
		return strconv.Itoa(p.Line)
	}

	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Error represents a compiler error with an optional source position and
// structured logging attributes.
// It implements error, errors.Is by [Kind], and slog.LogValuer.
type Error struct {
	kind   Kind
	msg    string
	detail string
	pos    Position
	err    error       // Wrapped error (for errors.Unwrap)
	attrs  []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error of the given kind.
func NewError(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// Contextf annotates err with a message describing what was being done when
// it occurred. The result matches the same sentinels err does.
func Contextf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	return &Error{
		kind: KindContext,
		msg:  fmt.Sprintf(format, args...),
		err:  err,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build the message from whichever fields are set:
	//
	//   "<pos> | <msg>: <detail>: <err>"
	var sb strings.Builder

	if e.pos.IsValid() {
		sb.WriteString(e.pos.String())
		sb.WriteString(" | ")
	}

	part := make([]string, 0, 3)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.detail != "" {
		part = append(part, e.detail)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	sb.WriteString(strings.Join(part, ": "))

	return sb.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an *Error of the same kind.
// Context errors never match by kind; errors.Is keeps unwrapping instead.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.kind == KindContext {
		return false
	}

	return e.kind == t.kind
}

// Kind returns the error's classification.
func (e *Error) Kind() Kind { return e.kind }

// Pos returns the source position attached to the error, if any.
func (e *Error) Pos() Position { return e.pos }

// Detail returns the human-readable detail attached with [Error.Describe].
func (e *Error) Detail() string { return e.detail }

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.detail != "" {
		attrs = append(attrs, slog.String("detail", e.detail))
	}

	if e.pos.IsValid() {
		attrs = append(attrs, slog.String("pos", e.pos.String()))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := e.clone()
	c.err = err

	return c
}

// At creates a new Error located at pos.
func (e *Error) At(pos Position) *Error {
	c := e.clone()
	c.pos = pos

	return c
}

// Describe creates a new Error with a formatted detail message appended to
// the kind's base message.
func (e *Error) Describe(format string, args ...any) *Error {
	c := e.clone()
	c.detail = fmt.Sprintf(format, args...)

	return c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.clone()
	c.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(c.attrs, e.attrs)
	copy(c.attrs[len(e.attrs):], attrs)

	return c
}

func (e *Error) clone() *Error {
	c := *e

	return &c
}

// KindOf returns the kind of the innermost classified error in err's chain,
// or [KindContext] if none is classified.
func KindOf(err error) Kind {
	kind := KindContext

	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			break
		}

		if e.kind != KindContext {
			kind = e.kind
		}

		err = e.err
	}

	return kind
}

// PositionOf returns the innermost valid source position in err's chain.
func PositionOf(err error) (Position, bool) {
	var (
		pos Position
		ok  bool
	)

	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			break
		}

		if e.pos.IsValid() {
			pos, ok = e.pos, true
		}

		err = e.err
	}

	return pos, ok
}
