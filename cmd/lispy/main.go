package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/deosjr/lispy/lisp"
	"github.com/deosjr/lispy/prelude"
)

const (
	historyFile = ".lispy_history"
	promptMain  = "lispy> "
	promptCont  = "...... "
)

func main() {
	var (
		expr        = flag.String("e", "", "evaluate `expr` after loading files, print the result and exit")
		depth       = flag.Int("depth", lisp.DefaultMaxDepth, "maximum evaluation depth, 0 for unbounded")
		loadPrelude = flag.Bool("prelude", true, "load the standard prelude")
		verbose     = flag.Bool("v", false, "log debug output to stderr")
		history     = flag.String("history", defaultHistory(), "REPL history `file`, empty to disable")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: lispy [flags] [file ...]\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelError
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	l := lisp.New(lisp.WithLogger(logger), lisp.WithMaxDepth(*depth))
	if *loadPrelude {
		if err := prelude.Load(l); err != nil {
			logger.Error("loading prelude", "error", err)
			os.Exit(1)
		}
	}
	for _, filename := range flag.Args() {
		if res := l.LoadFile(filename); lisp.IsError(res) {
			fmt.Println(res)
		}
	}

	if *expr != "" {
		e, err := l.Eval(*expr)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(e)
		if lisp.IsError(e) {
			os.Exit(1)
		}
		return
	}
	repl(l, *history, logger)
}

func defaultHistory() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFile)
}

func repl(l *lisp.Lisp, history string, logger *slog.Logger) {
	fmt.Println("lispy: Ctrl-C cancels input, Ctrl-D exits")

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if history != "" {
		if f, err := os.Open(history); err == nil {
			if _, err := ln.ReadHistory(f); err != nil {
				logger.Debug("reading history", "path", history, "error", err)
			}
			f.Close()
		}
		defer func() {
			f, err := os.Create(history)
			if err != nil {
				logger.Debug("writing history", "path", history, "error", err)
				return
			}
			defer f.Close()
			ln.WriteHistory(f)
		}()
	}

	for {
		src, ok := readInput(ln)
		if !ok {
			fmt.Println()
			return
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		e, err := l.Eval(src)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		fmt.Println(e)
	}
}

// readInput keeps prompting while the parser reports that the input so far
// is only incomplete, so a list can span several lines.
func readInput(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if _, err := lisp.Parse(src); lisp.IsIncomplete(err) {
			continue
		}
		return src, true
	}
}
