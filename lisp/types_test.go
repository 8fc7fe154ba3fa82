package lisp

import (
	"testing"
)

func TestCopyIsIndependent(t *testing.T) {
	orig := mustParse(`{1 "s" sym {2 (3)} (\ {x} {x})}`)
	cp := Copy(orig)
	if !Equal(orig, cp) {
		t.Fatalf("copy %s not equal to %s", cp, orig)
	}
	inner := cp.(*QExpr).Cells[3].(*QExpr)
	inner.Cells[0] = Number(9)
	inner.Cells[1].(*SExpr).Cells = nil
	if got, want := orig.String(), `{1 "s" sym {2 (3)} (\ {x} {x})}`; got != want {
		t.Errorf("mutating the copy changed the original: got %s want %s", got, want)
	}
}

func TestCopyClosure(t *testing.T) {
	env := NewEnv(GlobalEnv())
	env.Put("x", Number(1))
	c := &Closure{Formals: NewQExpr(Symbol("y")), Body: NewQExpr(Symbol("y")), Env: env}
	cp := Copy(c).(*Closure)
	if cp.Env == c.Env {
		t.Fatal("closure environment shared by copy")
	}
	if cp.Env.outer != c.Env.outer {
		t.Error("copied environment should keep the same outer environment")
	}
	cp.Env.Put("x", Number(2))
	cp.Formals.Cells[0] = Symbol("z")
	if got := c.Env.Get("x"); !Equal(got, Number(1)) {
		t.Errorf("original binding changed to %s", got)
	}
	if got := c.Formals.String(); got != "{y}" {
		t.Errorf("original formals changed to %s", got)
	}
}

func TestEqual(t *testing.T) {
	plus := GlobalEnv().Get("+")
	otherPlus := GlobalEnv().Get("+")
	for i, tt := range []struct {
		a, b Value
		want bool
	}{
		{Number(1), Number(1), true},
		{Number(1), Number(2), false},
		{Number(1), String("1"), false},
		{String("a"), String("a"), true},
		{String("a"), String("b"), false},
		{Symbol("a"), Symbol("a"), true},
		{Symbol("a"), String("a"), false},
		{NewError("x"), NewError("x"), true},
		{NewError("x"), NewError("y"), false},
		{mustParse("{1 2}"), mustParse("{1 2}"), true},
		{mustParse("{1 2}"), mustParse("{1 3}"), false},
		{mustParse("{1 2}"), mustParse("{3 2}"), false},
		{mustParse("{1 2}"), mustParse("(1 2)"), false},
		{mustParse("(a {b})"), mustParse("(a {b})"), true},
		{NewSExpr(), NewSExpr(), true},
		{plus, plus, true},
		{plus, otherPlus, false},
	} {
		if got := Equal(tt.a, tt.b); got != tt.want {
			t.Errorf("%d) Equal(%s, %s) = %v want %v", i, tt.a, tt.b, got, tt.want)
		}
	}
}

func TestString(t *testing.T) {
	for i, tt := range []struct {
		v    Value
		want string
	}{
		{Number(-42), "-42"},
		{String("tab\there\x00"), `"tab\there\0"`},
		{Symbol(`\`), `\`},
		{NewError("boom"), "Error: boom"},
		{NewSExpr(), "()"},
		{NewQExpr(Number(1), NewSExpr(Symbol("f"))), "{1 (f)}"},
		{&Builtin{Name: "+"}, "<builtin>"},
		{&Closure{Formals: NewQExpr(Symbol("x")), Body: NewQExpr(Symbol("x"))}, `(\ {x} {x})`},
	} {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("%d) got %s want %s", i, got, tt.want)
		}
	}
}

func TestTypeNames(t *testing.T) {
	for _, tt := range []struct {
		v    Value
		want string
	}{
		{Number(1), "Number"},
		{String(""), "String"},
		{Symbol("s"), "Symbol"},
		{NewError(""), "Error"},
		{NewSExpr(), "S-Expression"},
		{NewQExpr(), "Q-Expression"},
		{&Builtin{}, "Function"},
		{&Closure{}, "Function"},
	} {
		if got := tt.v.Type().String(); got != tt.want {
			t.Errorf("got %s want %s", got, tt.want)
		}
	}
}
