package lisp

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrIncomplete marks parse errors caused only by input ending too early,
// such as an unclosed list or string. More input may fix them.
var ErrIncomplete = errors.New("incomplete input")

func IsIncomplete(err error) bool {
	return errors.Is(err, ErrIncomplete)
}

// ParseFile slurps in the entire file and returns its top-level forms.
func ParseFile(filename string) ([]Value, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseAll(string(b))
}

// Parse returns the single form in program. A program with zero or several
// top-level forms is read as one S-expression of those forms, so that
// "+ 1 2" means (+ 1 2).
func Parse(program string) (Value, error) {
	list, err := ParseAll(program)
	if err != nil {
		return nil, err
	}
	if len(list) == 1 {
		return list[0], nil
	}
	return NewSExpr(list...), nil
}

func mustParse(program string) Value {
	p, err := Parse(program)
	if err != nil {
		panic(err)
	}
	return p
}

type parsed struct {
	v       Value
	special parseConst
}

type parseConst uint8

const (
	none parseConst = iota
	paren
	brace
)

func ParseAll(program string) ([]Value, error) {
	stack := []parsed{}
	line := 1
	for {
		token, p, n, err := nextToken(program)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		line += strings.Count(program[:len(program)-len(p)], "\n")
		program = p
		if token == "" {
			break
		}
		switch token {
		case "(":
			stack = append(stack, parsed{special: paren})
		case "{":
			stack = append(stack, parsed{special: brace})
		case ")", "}":
			s, err := simplifyStack(stack, token)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			stack = s
		default:
			v := n
			if v == nil {
				v, err = atom(token)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
			}
			stack = append(stack, parsed{v: v})
		}
	}

	list := []Value{}
	for _, p := range stack {
		if p.v == nil {
			return nil, fmt.Errorf("line %d: %w: missing closing bracket", line, ErrIncomplete)
		}
		list = append(list, p.v)
	}
	return list, nil
}

// nextToken skips whitespace and comments and returns the next token and
// the remaining input. String literals come back already decoded as v.
func nextToken(program string) (token, rest string, v Value, err error) {
	for {
		program = strings.TrimLeftFunc(program, unicode.IsSpace)
		if !strings.HasPrefix(program, ";") {
			break
		}
		_, after, found := strings.Cut(program, "\n")
		if !found {
			return "", "", nil, nil
		}
		program = after
	}
	if program == "" {
		return "", "", nil, nil
	}

	r, size := utf8.DecodeRuneInString(program)
	switch r {
	case '(', ')', '{', '}':
		return string(r), program[size:], nil, nil
	case '"':
		return readString(program[size:])
	}

	var b []byte
	for len(program) > 0 {
		r, size := utf8.DecodeRuneInString(program)
		if unicode.IsSpace(r) || strings.ContainsRune(`(){}";`, r) {
			break
		}
		program = program[size:]
		b = utf8.AppendRune(b, r)
	}
	return string(b), program, nil, nil
}

var unescapes = map[rune]rune{
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
	'0':  0,
}

// readString decodes a string literal; the opening quote is already consumed.
func readString(program string) (string, string, Value, error) {
	var s []rune
	for len(program) > 0 {
		r, size := utf8.DecodeRuneInString(program)
		program = program[size:]
		switch r {
		case '"':
			return `"`, program, String(s), nil
		case '\\':
			next, n := utf8.DecodeRuneInString(program)
			if n == 0 {
				return "", "", nil, fmt.Errorf("%w: trailing escape in string", ErrIncomplete)
			}
			program = program[n:]
			if u, ok := unescapes[next]; ok {
				next = u
			}
			s = append(s, next)
			continue
		}
		s = append(s, r)
	}
	return "", "", nil, fmt.Errorf(`%w: unclosed string quote '"'`, ErrIncomplete)
}

var (
	numberRe = regexp.MustCompile(`^-?[0-9]+$`)
	symbolRe = regexp.MustCompile(`^[a-zA-Z0-9_+\-*/\\=<>!&:]+$`)
)

func atom(token string) (Value, error) {
	if numberRe.MatchString(token) {
		n, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			return NewError("invalid number"), nil
		}
		return Number(n), nil
	}
	if symbolRe.MatchString(token) {
		return Symbol(token), nil
	}
	return nil, fmt.Errorf("invalid symbol %q", token)
}

// we just consumed a closing bracket, find the matching opening bracket on
// the stack and push the resulting list back
func simplifyStack(stack []parsed, closing string) ([]parsed, error) {
	list := []Value{}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if p.special == none {
			list = append(list, p.v)
			continue
		}
		if (p.special == paren) != (closing == ")") {
			return nil, fmt.Errorf("mismatched %q", closing)
		}
		rev := make([]Value, len(list))
		for i, v := range list {
			rev[len(list)-1-i] = v
		}
		var v Value = NewSExpr(rev...)
		if p.special == brace {
			v = NewQExpr(rev...)
		}
		return append(stack, parsed{v: v}), nil
	}
	return nil, fmt.Errorf("unexpected %q", closing)
}
