package lisp

import (
	"fmt"
	"strconv"
	"strings"
)

// Type tags every Value. The names are the ones used in error messages.
type Type uint8

const (
	NumberType Type = iota
	StringType
	SymbolType
	ErrorType
	SExprType
	QExprType
	FunctionType
)

func (t Type) String() string {
	switch t {
	case NumberType:
		return "Number"
	case StringType:
		return "String"
	case SymbolType:
		return "Symbol"
	case ErrorType:
		return "Error"
	case SExprType:
		return "S-Expression"
	case QExprType:
		return "Q-Expression"
	case FunctionType:
		return "Function"
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Value is any runtime datum. The set of implementations is closed:
// Number, String, Symbol, *Error, *SExpr, *QExpr, *Builtin and *Closure.
type Value interface {
	Type() Type
	String() string
	copy() Value
}

type Number int64

func (Number) Type() Type { return NumberType }
func (n Number) String() string { return strconv.FormatInt(int64(n), 10) }
func (n Number) copy() Value { return n }

type String string

func (String) Type() Type { return StringType }
func (s String) String() string { return `"` + escaper.Replace(string(s)) + `"` }
func (s String) copy() Value { return s }

var escaper = strings.NewReplacer(
	"\a", `\a`,
	"\b", `\b`,
	"\f", `\f`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
	"\v", `\v`,
	"\\", `\\`,
	"'", `\'`,
	`"`, `\"`,
	"\x00", `\0`,
)

type Symbol string

func (Symbol) Type() Type { return SymbolType }
func (s Symbol) String() string { return string(s) }
func (s Symbol) copy() Value { return s }

// Error is a first-class value, not a Go error: it is returned and stored
// like any other Value.
type Error struct {
	Msg string
}

func NewError(msg string) *Error {
	return &Error{Msg: msg}
}

func Errorf(format string, args ...any) *Error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}

func (*Error) Type() Type { return ErrorType }
func (e *Error) String() string { return "Error: " + e.Msg }
func (e *Error) copy() Value { return &Error{Msg: e.Msg} }

// SExpr is an active list: evaluating it applies its first element to the rest.
type SExpr struct {
	Cells []Value
}

func NewSExpr(cells ...Value) *SExpr {
	return &SExpr{Cells: cells}
}

func (*SExpr) Type() Type { return SExprType }
func (s *SExpr) String() string { return printCells('(', s.Cells, ')') }
func (s *SExpr) copy() Value { return &SExpr{Cells: copyCells(s.Cells)} }

// QExpr is an inert list, never evaluated unless converted to an SExpr.
type QExpr struct {
	Cells []Value
}

func NewQExpr(cells ...Value) *QExpr {
	return &QExpr{Cells: cells}
}

func (*QExpr) Type() Type { return QExprType }
func (q *QExpr) String() string { return printCells('{', q.Cells, '}') }
func (q *QExpr) copy() Value { return &QExpr{Cells: copyCells(q.Cells)} }

// BuiltinProc is a native operation. It receives its arguments already
// evaluated and performs its own arity and type checks.
type BuiltinProc func(ev *evaluator, env *Env, args []Value) Value

// Builtin values are immutable; two builtins are equal only if they are
// the same registration.
type Builtin struct {
	Name string
	fn   BuiltinProc
}

func (*Builtin) Type() Type { return FunctionType }
func (*Builtin) String() string { return "<builtin>" }
func (b *Builtin) copy() Value { return b }

// Closure is a user-defined function. Env holds the formals bound so far by
// partial application; its parent is set to the calling environment on each
// full application.
type Closure struct {
	Formals *QExpr
	Body    Value
	Env     *Env
}

func (*Closure) Type() Type { return FunctionType }

func (c *Closure) String() string {
	return fmt.Sprintf(`(\ %s %s)`, c.Formals, c.Body)
}

func (c *Closure) copy() Value {
	return &Closure{
		Formals: c.Formals.copy().(*QExpr),
		Body:    c.Body.copy(),
		Env:     c.Env.Copy(),
	}
}

// Copy returns a structurally equal Value that shares no mutable state with v.
func Copy(v Value) Value {
	return v.copy()
}

func copyCells(cells []Value) []Value {
	if cells == nil {
		return nil
	}
	out := make([]Value, len(cells))
	for i, c := range cells {
		out[i] = c.copy()
	}
	return out
}

func printCells(open byte, cells []Value, close byte) string {
	var b strings.Builder
	b.WriteByte(open)
	for i, c := range cells {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(c.String())
	}
	b.WriteByte(close)
	return b.String()
}

// Equal reports structural equality. Lists are equal when every element
// pair is equal; builtins compare by identity.
func Equal(a, b Value) bool {
	if a.Type() != b.Type() {
		return false
	}
	switch x := a.(type) {
	case Number:
		return x == b.(Number)
	case String:
		return x == b.(String)
	case Symbol:
		return x == b.(Symbol)
	case *Error:
		return x.Msg == b.(*Error).Msg
	case *SExpr:
		return equalCells(x.Cells, b.(*SExpr).Cells)
	case *QExpr:
		return equalCells(x.Cells, b.(*QExpr).Cells)
	case *Builtin:
		return x == b
	case *Closure:
		y, ok := b.(*Closure)
		if !ok {
			return false
		}
		return Equal(x.Formals, y.Formals) && Equal(x.Body, y.Body)
	}
	return false
}

func equalCells(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// IsError reports whether v is an *Error.
func IsError(v Value) bool {
	_, ok := v.(*Error)
	return ok
}
