package lisp

import (
	"fmt"
	"strings"
)

// GlobalEnv returns a fresh root environment with every builtin registered.
func GlobalEnv() *Env {
	env := NewEnv(nil)
	RegisterBuiltins(env)
	return env
}

func RegisterBuiltins(env *Env) {
	for name, f := range map[Symbol]BuiltinProc{
		"+":  add,
		"-":  sub,
		"*":  mul,
		"/":  div,
		"<":  lt,
		"<=": leq,
		">":  gt,
		">=": geq,
		"==": eq,
		"/=": neq,
		// lists
		"list": list,
		"head": head,
		"tail": tail,
		"eval": eval,
		"join": join,
		// control and definitions
		"if":  ifFunc,
		"def": def,
		":=":  assign,
		`\`:   lambda,
		// io
		"print": printFunc,
		"error": errorFunc,
		"load":  load,
	} {
		env.addBuiltin(name, f)
	}
}

func checkCount(name string, args []Value, n int) *Error {
	if len(args) != n {
		return Errorf("%s: expected %d arguments, got %d", name, n, len(args))
	}
	return nil
}

func checkType(name string, v Value, want Type) *Error {
	if v.Type() != want {
		return Errorf("%s: expected %s, got %s", name, want, v.Type())
	}
	return nil
}

func arith(op string, args []Value) Value {
	for _, arg := range args {
		if err := checkType(op, arg, NumberType); err != nil {
			return err
		}
	}
	if len(args) == 0 {
		switch op {
		case "+":
			return Number(0)
		case "*":
			return Number(1)
		}
		return Errorf("%s: expected at least 1 argument, got 0", op)
	}
	x := args[0].(Number)
	if op == "-" && len(args) == 1 {
		return -x
	}
	for _, arg := range args[1:] {
		y := arg.(Number)
		switch op {
		case "+":
			x += y
		case "-":
			x -= y
		case "*":
			x *= y
		case "/":
			if y == 0 {
				return NewError("division by zero")
			}
			x /= y
		}
	}
	return x
}

func add(ev *evaluator, env *Env, args []Value) Value {
	return arith("+", args)
}

func sub(ev *evaluator, env *Env, args []Value) Value {
	return arith("-", args)
}

func mul(ev *evaluator, env *Env, args []Value) Value {
	return arith("*", args)
}

func div(ev *evaluator, env *Env, args []Value) Value {
	return arith("/", args)
}

func compare(op string, args []Value, cmp func(x, y Number) bool) Value {
	if err := checkCount(op, args, 2); err != nil {
		return err
	}
	for _, arg := range args {
		if err := checkType(op, arg, NumberType); err != nil {
			return err
		}
	}
	return truth(cmp(args[0].(Number), args[1].(Number)))
}

func truth(b bool) Number {
	if b {
		return 1
	}
	return 0
}

func lt(ev *evaluator, env *Env, args []Value) Value {
	return compare("<", args, func(x, y Number) bool { return x < y })
}

func leq(ev *evaluator, env *Env, args []Value) Value {
	return compare("<=", args, func(x, y Number) bool { return x <= y })
}

func gt(ev *evaluator, env *Env, args []Value) Value {
	return compare(">", args, func(x, y Number) bool { return x > y })
}

func geq(ev *evaluator, env *Env, args []Value) Value {
	return compare(">=", args, func(x, y Number) bool { return x >= y })
}

func eq(ev *evaluator, env *Env, args []Value) Value {
	if err := checkCount("==", args, 2); err != nil {
		return err
	}
	return truth(Equal(args[0], args[1]))
}

func neq(ev *evaluator, env *Env, args []Value) Value {
	if err := checkCount("/=", args, 2); err != nil {
		return err
	}
	return truth(!Equal(args[0], args[1]))
}

func list(ev *evaluator, env *Env, args []Value) Value {
	return NewQExpr(args...)
}

func nonEmptyList(name string, args []Value) (*QExpr, *Error) {
	if err := checkCount(name, args, 1); err != nil {
		return nil, err
	}
	if err := checkType(name, args[0], QExprType); err != nil {
		return nil, err
	}
	q := args[0].(*QExpr)
	if len(q.Cells) == 0 {
		return nil, Errorf("%s: empty list", name)
	}
	return q, nil
}

func head(ev *evaluator, env *Env, args []Value) Value {
	q, err := nonEmptyList("head", args)
	if err != nil {
		return err
	}
	return NewQExpr(q.Cells[0])
}

func tail(ev *evaluator, env *Env, args []Value) Value {
	q, err := nonEmptyList("tail", args)
	if err != nil {
		return err
	}
	return NewQExpr(q.Cells[1:]...)
}

// (eval {expression}) evaluates the list as if it had been written with ().
func eval(ev *evaluator, env *Env, args []Value) Value {
	if err := checkCount("eval", args, 1); err != nil {
		return err
	}
	if err := checkType("eval", args[0], QExprType); err != nil {
		return err
	}
	return ev.eval(env, asSExpr(args[0]))
}

func join(ev *evaluator, env *Env, args []Value) Value {
	cells := []Value{}
	for _, arg := range args {
		if err := checkType("join", arg, QExprType); err != nil {
			return err
		}
		cells = append(cells, arg.(*QExpr).Cells...)
	}
	return NewQExpr(cells...)
}

// (if cond {then} {else}) evaluates only the chosen branch.
func ifFunc(ev *evaluator, env *Env, args []Value) Value {
	if err := checkCount("if", args, 3); err != nil {
		return err
	}
	for i, want := range []Type{NumberType, QExprType, QExprType} {
		if err := checkType("if", args[i], want); err != nil {
			return err
		}
	}
	branch := args[2]
	if args[0].(Number) != 0 {
		branch = args[1]
	}
	return ev.eval(env, asSExpr(branch))
}

func define(name string, args []Value, put func(Symbol, Value)) Value {
	if len(args) == 0 {
		return Errorf("%s: expected at least 1 argument, got 0", name)
	}
	if err := checkType(name, args[0], QExprType); err != nil {
		return err
	}
	syms := args[0].(*QExpr).Cells
	for _, s := range syms {
		if err := checkType(name, s, SymbolType); err != nil {
			return err
		}
	}
	if err := checkCount(name, args, len(syms)+1); err != nil {
		return err
	}
	for i, s := range syms {
		put(s.(Symbol), args[i+1])
	}
	return NewSExpr()
}

// (def {a b} 1 2) binds in the root environment.
func def(ev *evaluator, env *Env, args []Value) Value {
	return define("def", args, env.Def)
}

// (:= {a b} 1 2) binds in the innermost environment.
func assign(ev *evaluator, env *Env, args []Value) Value {
	return define(":=", args, env.Put)
}

// (\ {formals} {body})
func lambda(ev *evaluator, env *Env, args []Value) Value {
	if err := checkCount(`\`, args, 2); err != nil {
		return err
	}
	for _, arg := range args {
		if err := checkType(`\`, arg, QExprType); err != nil {
			return err
		}
	}
	formals := args[0].(*QExpr)
	for _, f := range formals.Cells {
		if err := checkType(`\`, f, SymbolType); err != nil {
			return err
		}
	}
	return &Closure{Formals: formals, Body: args[1], Env: NewEnv(nil)}
}

func printFunc(ev *evaluator, env *Env, args []Value) Value {
	s := make([]string, len(args))
	for i, arg := range args {
		s[i] = arg.String()
	}
	fmt.Fprintln(ev.out, strings.Join(s, " "))
	return NewSExpr()
}

func errorFunc(ev *evaluator, env *Env, args []Value) Value {
	if err := checkCount("error", args, 1); err != nil {
		return err
	}
	if err := checkType("error", args[0], StringType); err != nil {
		return err
	}
	return NewError(string(args[0].(String)))
}

// (load "file") evaluates every form in file. Errors of individual forms are
// printed and do not stop the load.
func load(ev *evaluator, env *Env, args []Value) Value {
	if err := checkCount("load", args, 1); err != nil {
		return err
	}
	if err := checkType("load", args[0], StringType); err != nil {
		return err
	}
	path := string(args[0].(String))
	sexprs, err := ParseFile(path)
	if err != nil {
		return Errorf("load: failed to load %q: %v", path, err)
	}
	ev.log.Debug("loading file", "path", path, "forms", len(sexprs))
	for i, e := range sexprs {
		res := ev.eval(env, e)
		if IsError(res) {
			ev.log.Warn("form failed", "path", path, "form", i, "error", res.(*Error).Msg)
			fmt.Fprintln(ev.out, res)
		}
	}
	return NewSExpr()
}
