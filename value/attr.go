package value

import (
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/ewwc/pkg"
)

const (
	exprOpen  = "{{"
	exprClose = "}}"
)

// bareRef matches an expression body that is nothing but a variable name.
// Hyphens are legal in variable names, which expr-lang would otherwise read
// as subtraction.
var bareRef = regexp.MustCompile(`^[\p{L}_][\p{L}\p{N}_-]*$`)

// Attr is a widget attribute value: either a literal [Primitive] or an
// expression written as {{ ... }} that is evaluated against the variable
// table at runtime.
type Attr struct {
	lit     Primitive
	source  string      // expression body, empty for literals
	program *vm.Program // nil for literals and bare references
	refs    []VarName
}

// Literal creates a literal Attr.
func Literal(p Primitive) Attr { return Attr{lit: p} }

// ParseAttr parses an attribute's text.
//
// Text enclosed in {{ and }} is an expression. A body consisting of a single
// variable name is a direct reference; anything else is compiled with
// expr-lang, failing with [pkg.ErrAttributeParse] on syntax errors.
// All other text is a literal classified by [ParsePrimitive].
func ParseAttr(s string) (Attr, error) {
	trimmed := strings.TrimSpace(s)

	if !strings.HasPrefix(trimmed, exprOpen) ||
		!strings.HasSuffix(trimmed, exprClose) ||
		len(trimmed) < len(exprOpen)+len(exprClose) {
		return Literal(ParsePrimitive(s)), nil
	}

	body := strings.TrimSpace(trimmed[len(exprOpen) : len(trimmed)-len(exprClose)])
	if body == "" {
		return Attr{}, pkg.ErrAttributeParse.
			Describe("empty expression %q", s)
	}

	if bareRef.MatchString(body) {
		return Attr{source: body, refs: []VarName{NewVarName(body)}}, nil
	}

	tree, err := parser.Parse(body)
	if err != nil {
		return Attr{}, pkg.ErrAttributeParse.
			Describe("expression %q", body).
			Wrap(err)
	}

	program, err := expr.Compile(body, expr.AllowUndefinedVariables())
	if err != nil {
		return Attr{}, pkg.ErrAttributeParse.
			Describe("expression %q", body).
			Wrap(err)
	}

	return Attr{
		source:  body,
		program: program,
		refs:    collectRefs(&tree.Node),
	}, nil
}

// IsExpr reports whether a is an expression rather than a literal.
func (a Attr) IsExpr() bool { return a.source != "" }

// Refs returns the variables an expression reads, sorted by name.
// Literals reference no variables.
func (a Attr) Refs() []VarName { return a.refs }

// String renders a the way it was written: raw literal text, or the
// expression enclosed in {{ }}.
func (a Attr) String() string {
	if a.IsExpr() {
		return exprOpen + " " + a.source + " " + exprClose
	}

	return a.lit.String()
}

// MarshalText renders a with [Attr.String].
func (a Attr) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// Resolve computes the attribute's value against vars.
// A direct reference to an undeclared variable fails with
// [pkg.ErrUndefinedVariable]; inside larger expressions undeclared variables
// evaluate to nil.
func (a Attr) Resolve(vars Table) (Primitive, error) {
	if !a.IsExpr() {
		return a.lit, nil
	}

	if a.program == nil {
		name := a.refs[0]

		v, ok := vars[name]
		if !ok {
			return Primitive{}, pkg.ErrUndefinedVariable.
				Describe("%s", name).
				With(slog.String("var", name.String()))
		}

		return v, nil
	}

	out, err := vm.Run(a.program, vars.Native())
	if err != nil {
		return Primitive{}, pkg.ErrAttributeParse.
			Describe("evaluate %q", a.source).
			Wrap(err)
	}

	return ParsePrimitive(formatResult(out)), nil
}

func formatResult(v any) string {
	switch r := v.(type) {
	case nil:
		return ""

	case string:
		return r

	case bool:
		return strconv.FormatBool(r)

	case float64:
		return strconv.FormatFloat(r, 'f', -1, 64)

	case int:
		return strconv.Itoa(r)

	case int64:
		return strconv.FormatInt(r, 10)

	default:
		return fmt.Sprint(r)
	}
}

// refCollector gathers identifier nodes that are not call targets.
type refCollector struct {
	idents  []string
	callees []string
}

// Visit implements ast.Visitor.
func (c *refCollector) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.IdentifierNode:
		c.idents = append(c.idents, n.Value)

	case *ast.CallNode:
		if id, ok := n.Callee.(*ast.IdentifierNode); ok {
			c.callees = append(c.callees, id.Value)
		}
	}
}

func collectRefs(root *ast.Node) []VarName {
	var c refCollector

	ast.Walk(root, &c)

	names := slices.DeleteFunc(c.idents, func(s string) bool {
		return slices.Contains(c.callees, s)
	})

	slices.Sort(names)

	names = slices.Compact(names)

	refs := make([]VarName, len(names))
	for i, name := range names {
		refs[i] = NewVarName(name)
	}

	return refs
}
