package lisp

import (
	"io"
	"log/slog"
	"os"
)

// Lisp is one interpreter session: a root environment plus the output and
// logging the builtins use. It is not safe for concurrent use.
type Lisp struct {
	Env *Env
	ev  *evaluator
}

type Option func(*evaluator)

// WithOutput sets where print and load write. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(ev *evaluator) { ev.out = w }
}

func WithLogger(l *slog.Logger) Option {
	return func(ev *evaluator) { ev.log = l }
}

// WithMaxDepth bounds evaluation nesting; 0 means unbounded.
func WithMaxDepth(n int) Option {
	return func(ev *evaluator) { ev.maxDepth = n }
}

func New(opts ...Option) *Lisp {
	ev := newEvaluator(stdout, discardLogger, DefaultMaxDepth)
	for _, opt := range opts {
		opt(ev)
	}
	return &Lisp{Env: GlobalEnv(), ev: ev}
}

// Eval parses and evaluates input. The error is non-nil only if input does
// not parse; evaluation failures come back as *Error values.
func (l *Lisp) Eval(input string) (Value, error) {
	sexp, err := Parse(input)
	if err != nil {
		return nil, err
	}
	return l.EvalExpr(sexp), nil
}

func (l *Lisp) EvalExpr(e Value) Value {
	return l.ev.eval(l.Env, e)
}

var (
	stdout        io.Writer = os.Stdout
	discardLogger           = slog.New(slog.NewTextHandler(io.Discard, nil))
)
