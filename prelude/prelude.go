// Package prelude holds the standard library of list and control functions
// that are written in lispy itself.
package prelude

import (
	_ "embed"

	"github.com/deosjr/lispy/lisp"
)

//go:embed prelude.lspy
var prelude string

// Load defines the prelude in the root environment of l.
func Load(l *lisp.Lisp) error {
	return l.Load(prelude)
}

// MustLoad is Load for programs that cannot run without the prelude.
func MustLoad(l *lisp.Lisp) {
	if err := Load(l); err != nil {
		panic(err)
	}
}
