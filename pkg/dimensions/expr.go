package dimensions

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"math"
	"sort"
	"strconv"
)

var (
	// ErrDivideByZero indicates an expression that divides by zero.
	ErrDivideByZero = errors.New("dimensions: division by zero")
	// ErrSyntax indicates an expression the evaluator does not accept.
	ErrSyntax = errors.New("dimensions: invalid expression")
	// ErrReservedName indicates a dimension named after a constant or function.
	ErrReservedName = errors.New("dimensions: reserved name")
	// ErrNotFinite indicates an expression whose value is NaN or infinite.
	ErrNotFinite = errors.New("dimensions: value is not finite")
)

// UnknownDimensionError reports a reference to a name that is not defined.
type UnknownDimensionError struct {
	Name string
	In   string // the dimension or expression that referenced it
}

func (e *UnknownDimensionError) Error() string {
	if e.In == "" {
		return fmt.Sprintf("dimensions: unknown dimension %q", e.Name)
	}
	return fmt.Sprintf("dimensions: %s refers to unknown dimension %q", e.In, e.Name)
}

// CycleError reports derived dimensions that depend on each other.
type CycleError struct {
	Names []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dimensions: dependency cycle among %v", e.Names)
}

var constants = map[string]float64{
	"pi": math.Pi,
}

type function struct {
	minArgs, maxArgs int // maxArgs < 0 means variadic
	fn               func(args []float64) float64
}

var functions = map[string]function{
	"sqrt": {1, 1, func(a []float64) float64 { return math.Sqrt(a[0]) }},
	"abs":  {1, 1, func(a []float64) float64 { return math.Abs(a[0]) }},
	"min": {1, -1, func(a []float64) float64 {
		m := a[0]
		for _, v := range a[1:] {
			m = math.Min(m, v)
		}
		return m
	}},
	"max": {1, -1, func(a []float64) float64 {
		m := a[0]
		for _, v := range a[1:] {
			m = math.Max(m, v)
		}
		return m
	}},
}

// reserved reports whether name is a constant or function name.
func reserved(name string) bool {
	_, c := constants[name]
	_, f := functions[name]
	return c || f
}

// expr is a parsed expression and the dimension names it references.
type expr struct {
	src  string
	node ast.Expr
	refs []string
}

func parse(src string) (*expr, error) {
	if src == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrSyntax)
	}
	node, err := parser.ParseExpr(src)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrSyntax, src, err)
	}
	e := &expr{src: src, node: node}
	seen := make(map[string]bool)
	ast.Inspect(node, func(n ast.Node) bool { return collect(n, seen, e) })
	sort.Strings(e.refs)
	return e, nil
}

// collect records referenced names. A selector group.key is one name; the
// names of called functions are not references.
func collect(n ast.Node, seen map[string]bool, e *expr) bool {
	var name string
	switch n := n.(type) {
	case *ast.CallExpr:
		if _, ok := n.Fun.(*ast.Ident); ok {
			for _, a := range n.Args {
				ast.Inspect(a, func(m ast.Node) bool { return collect(m, seen, e) })
			}
			return false
		}
		return true
	case *ast.SelectorExpr:
		x, ok := n.X.(*ast.Ident)
		if !ok {
			return true
		}
		name = x.Name + "." + n.Sel.Name
	case *ast.Ident:
		if _, ok := constants[n.Name]; ok {
			return false
		}
		name = n.Name
	default:
		return true
	}
	if !seen[name] {
		seen[name] = true
		e.refs = append(e.refs, name)
	}
	return false
}

// eval computes e. lookup resolves dimension names.
func (e *expr) eval(lookup func(string) (float64, bool)) (float64, error) {
	v, err := evalNode(e.src, e.node, lookup)
	if err != nil {
		return 0, err
	}
	if !finite(v) {
		return 0, fmt.Errorf("%w: %q gives %v", ErrNotFinite, e.src, v)
	}
	return v, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func evalNode(src string, n ast.Expr, lookup func(string) (float64, bool)) (float64, error) {
	switch n := n.(type) {
	case *ast.BasicLit:
		if n.Kind != token.INT && n.Kind != token.FLOAT {
			return 0, fmt.Errorf("%w %q: %s is not a number", ErrSyntax, src, n.Value)
		}
		v, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return 0, fmt.Errorf("%w %q: %v", ErrSyntax, src, err)
		}
		return v, nil

	case *ast.Ident:
		if v, ok := constants[n.Name]; ok {
			return v, nil
		}
		return resolve(n.Name, lookup)

	case *ast.SelectorExpr:
		x, ok := n.X.(*ast.Ident)
		if !ok {
			return 0, fmt.Errorf("%w %q: only group.key selectors are allowed", ErrSyntax, src)
		}
		return resolve(x.Name+"."+n.Sel.Name, lookup)

	case *ast.ParenExpr:
		return evalNode(src, n.X, lookup)

	case *ast.UnaryExpr:
		v, err := evalNode(src, n.X, lookup)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case token.SUB:
			return -v, nil
		case token.ADD:
			return v, nil
		}
		return 0, fmt.Errorf("%w %q: operator %s", ErrSyntax, src, n.Op)

	case *ast.BinaryExpr:
		a, err := evalNode(src, n.X, lookup)
		if err != nil {
			return 0, err
		}
		b, err := evalNode(src, n.Y, lookup)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case token.ADD:
			return a + b, nil
		case token.SUB:
			return a - b, nil
		case token.MUL:
			return a * b, nil
		case token.QUO:
			if b == 0 {
				return 0, fmt.Errorf("%w in %q", ErrDivideByZero, src)
			}
			return a / b, nil
		}
		return 0, fmt.Errorf("%w %q: operator %s", ErrSyntax, src, n.Op)

	case *ast.CallExpr:
		id, ok := n.Fun.(*ast.Ident)
		if !ok {
			return 0, fmt.Errorf("%w %q: bad call", ErrSyntax, src)
		}
		f, ok := functions[id.Name]
		if !ok {
			return 0, fmt.Errorf("%w %q: unknown function %s", ErrSyntax, src, id.Name)
		}
		if len(n.Args) < f.minArgs || (f.maxArgs >= 0 && len(n.Args) > f.maxArgs) {
			return 0, fmt.Errorf("%w %q: %s called with %d arguments", ErrSyntax, src, id.Name, len(n.Args))
		}
		args := make([]float64, len(n.Args))
		for i, a := range n.Args {
			v, err := evalNode(src, a, lookup)
			if err != nil {
				return 0, err
			}
			args[i] = v
		}
		return f.fn(args), nil
	}
	return 0, fmt.Errorf("%w %q", ErrSyntax, src)
}

func resolve(name string, lookup func(string) (float64, bool)) (float64, error) {
	v, ok := lookup(name)
	if !ok {
		return 0, &UnknownDimensionError{Name: name}
	}
	return v, nil
}
