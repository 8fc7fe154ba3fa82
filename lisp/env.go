package lisp

import (
	"io"
	"log/slog"
)

// Env is a binding table with a link to its outer table. The outer link is
// never owned: copying an Env copies its bindings and shares the outer.
type Env struct {
	dict  map[Symbol]Value
	outer *Env
}

func NewEnv(outer *Env) *Env {
	return &Env{dict: map[Symbol]Value{}, outer: outer}
}

func (e *Env) find(s Symbol) (*Env, bool) {
	if _, ok := e.dict[s]; ok {
		return e, true
	}
	if e.outer == nil {
		return nil, false
	}
	return e.outer.find(s)
}

// Get looks s up in e and then in each outer table. The result is a copy.
func (e *Env) Get(s Symbol) Value {
	ed, ok := e.find(s)
	if !ok {
		return Errorf("unbound symbol %s", s)
	}
	return ed.dict[s].copy()
}

// Put binds s to a copy of v in e itself.
func (e *Env) Put(s Symbol, v Value) {
	e.dict[s] = v.copy()
}

// Def binds s to a copy of v in the root table.
func (e *Env) Def(s Symbol, v Value) {
	e.Root().Put(s, v)
}

func (e *Env) Root() *Env {
	for e.outer != nil {
		e = e.outer
	}
	return e
}

func (e *Env) Copy() *Env {
	if e == nil {
		return nil
	}
	m := make(map[Symbol]Value, len(e.dict))
	for k, v := range e.dict {
		m[k] = v.copy()
	}
	return &Env{dict: m, outer: e.outer}
}

func (e *Env) addBuiltin(s Symbol, f BuiltinProc) {
	e.dict[s] = &Builtin{Name: string(s), fn: f}
}

// ExternalProc is a native function supplied by a host program. It gets
// the evaluated arguments and nothing else.
type ExternalProc func(args []Value) Value

func (e *Env) AddBuiltin(s Symbol, f ExternalProc) {
	e.addBuiltin(s, func(ev *evaluator, env *Env, args []Value) Value {
		return f(args)
	})
}

// DefaultMaxDepth bounds the nesting of eval calls so runaway recursion
// comes back as an *Error instead of exhausting the goroutine stack.
const DefaultMaxDepth = 100000

type evaluator struct {
	out      io.Writer
	log      *slog.Logger
	maxDepth int
	depth    int
}

func newEvaluator(out io.Writer, log *slog.Logger, maxDepth int) *evaluator {
	return &evaluator{out: out, log: log, maxDepth: maxDepth}
}

func (ev *evaluator) eval(env *Env, v Value) Value {
	if ev.maxDepth > 0 && ev.depth >= ev.maxDepth {
		return Errorf("maximum evaluation depth %d exceeded", ev.maxDepth)
	}
	ev.depth++
	defer func() { ev.depth-- }()

	switch x := v.(type) {
	case Symbol:
		return env.Get(x)
	case *SExpr:
		return ev.evalSExpr(env, x)
	}
	return v
}

func (ev *evaluator) evalSExpr(env *Env, s *SExpr) Value {
	cells := make([]Value, len(s.Cells))
	for i, c := range s.Cells {
		evalled := ev.eval(env, c)
		if IsError(evalled) {
			return evalled
		}
		cells[i] = evalled
	}
	switch len(cells) {
	case 0:
		return s
	case 1:
		return cells[0]
	}
	f := cells[0]
	if f.Type() != FunctionType {
		return Errorf("first element is not a function, got %s", f.Type())
	}
	return ev.call(env, f, cells[1:])
}

// call applies f to args, which have already been evaluated in env.
func (ev *evaluator) call(env *Env, f Value, args []Value) Value {
	if b, ok := f.(*Builtin); ok {
		return b.fn(ev, env, args)
	}
	// work on a copy so binding never touches the caller's value
	c := f.copy().(*Closure)
	if c.Env == nil {
		c.Env = NewEnv(nil)
	}
	for _, formal := range c.Formals.Cells {
		if formal.Type() != SymbolType {
			return Errorf("formals must be Symbols, got %s", formal.Type())
		}
	}
	given := len(args)
	expected := len(c.Formals.Cells)

	for len(args) > 0 {
		if len(c.Formals.Cells) == 0 {
			return Errorf("too many arguments: expected %d, got %d", expected, given)
		}
		formal := c.Formals.Cells[0].(Symbol)
		c.Formals.Cells = c.Formals.Cells[1:]
		if formal == varargs {
			if len(c.Formals.Cells) != 1 {
				return badVarargs()
			}
			rest := c.Formals.Cells[0].(Symbol)
			c.Formals.Cells = nil
			c.Env.Put(rest, NewQExpr(args...))
			args = nil
			break
		}
		c.Env.Put(formal, args[0])
		args = args[1:]
	}

	if len(c.Formals.Cells) > 0 && c.Formals.Cells[0] == varargs {
		if len(c.Formals.Cells) != 2 {
			return badVarargs()
		}
		c.Env.Put(c.Formals.Cells[1].(Symbol), NewQExpr())
		c.Formals.Cells = nil
	}
	if len(c.Formals.Cells) > 0 {
		// partial application
		return c
	}

	c.Env.outer = env
	return ev.eval(c.Env, asSExpr(c.Body).copy())
}

const varargs Symbol = "&"

func badVarargs() *Error {
	return NewError("bad varargs: & must be followed by exactly one symbol")
}

// asSExpr relabels a list as active. Anything else is wrapped so that
// evaluating it yields the value itself.
func asSExpr(v Value) *SExpr {
	switch x := v.(type) {
	case *SExpr:
		return x
	case *QExpr:
		return &SExpr{Cells: x.Cells}
	}
	return NewSExpr(v)
}

// Eval evaluates v in env. Failures are returned as *Error values; output of
// print goes to stdout.
func Eval(env *Env, v Value) Value {
	return newEvaluator(stdout, discardLogger, DefaultMaxDepth).eval(env, v)
}
