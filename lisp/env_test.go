package lisp

import (
	"testing"
)

func TestEnvLookup(t *testing.T) {
	root := NewEnv(nil)
	mid := NewEnv(root)
	leaf := NewEnv(mid)
	root.Put("a", Number(1))
	mid.Put("a", Number(2))
	mid.Put("b", Number(3))

	for _, tt := range []struct {
		env  *Env
		sym  Symbol
		want string
	}{
		{leaf, "a", "2"},
		{leaf, "b", "3"},
		{root, "a", "1"},
		{root, "b", "Error: unbound symbol b"},
		{leaf, "c", "Error: unbound symbol c"},
	} {
		if got := tt.env.Get(tt.sym).String(); got != tt.want {
			t.Errorf("Get(%s) = %s want %s", tt.sym, got, tt.want)
		}
	}
}

func TestEnvStoresCopies(t *testing.T) {
	env := NewEnv(nil)
	q := NewQExpr(Number(1))
	env.Put("q", q)
	q.Cells[0] = Number(2)
	got := env.Get("q")
	if got.String() != "{1}" {
		t.Fatalf("binding changed with the original value: %s", got)
	}
	got.(*QExpr).Cells[0] = Number(3)
	if again := env.Get("q"); again.String() != "{1}" {
		t.Errorf("binding changed through a looked up value: %s", again)
	}
}

func TestEnvDef(t *testing.T) {
	root := NewEnv(nil)
	leaf := NewEnv(NewEnv(root))
	leaf.Def("g", Number(1))
	if _, ok := root.dict["g"]; !ok {
		t.Error("def did not bind in the root environment")
	}
	if _, ok := leaf.dict["g"]; ok {
		t.Error("def bound in the innermost environment")
	}
	if leaf.Root() != root {
		t.Error("wrong root")
	}
}

func TestEnvCopy(t *testing.T) {
	root := GlobalEnv()
	env := NewEnv(root)
	env.Put("x", NewQExpr(Number(1)))
	cenv := env.Copy()
	if cenv.outer != root {
		t.Error("copy should share the outer environment")
	}
	cenv.Put("x", Number(2))
	cenv.Put("y", Number(3))
	if got := env.Get("x").String(); got != "{1}" {
		t.Errorf("original binding changed to %s", got)
	}
	if _, ok := env.dict["y"]; ok {
		t.Error("binding leaked into the original")
	}
}
