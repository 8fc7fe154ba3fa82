package lisp

import "fmt"

// Load a string of lisp code/data into the environment. Unlike the load
// builtin it stops at the first form that evaluates to an *Error.
func (l *Lisp) Load(data string) error {
	sexprs, err := ParseAll(data)
	if err != nil {
		return err
	}
	for i, def := range sexprs {
		if res := l.EvalExpr(def); IsError(res) {
			return fmt.Errorf("form %d: %s", i+1, res.(*Error).Msg)
		}
	}
	return nil
}

// LoadFile behaves like (load "path"): failing forms are printed and the
// rest of the file is still evaluated.
func (l *Lisp) LoadFile(path string) Value {
	return load(l.ev, l.Env, []Value{String(path)})
}
