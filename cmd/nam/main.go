package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"github.com/pkg/errors"

	nam "github.com/KiN4Tec/nam-lang"
)

const (
	promptMain = ">> "
	promptCont = ".. "
)

func main() {
	log.SetFlags(0)
	var (
		inname, verb, history string
		with                  [][2]string
		echo                  bool
		tol                   float64
	)
	addwith := func(s string) error {
		d := strings.SplitN(s, "=", 2)
		if len(d) != 2 {
			return fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
		}
		with = append(with, [2]string{strings.TrimSpace(d[0]), strings.TrimSpace(d[1])})
		return nil
	}
	flag.StringVar(&inname, "in", "", "input file (default stdin if no args given)")
	flag.StringVar(&verb, "fmt", "", "formatting verb for each number, e.g. %.4f (default shortest)")
	flag.Func("given", "name=value variable definition (any number of times)", addwith)
	flag.Float64Var(&tol, "tol", 0, "magnitude at or below which matrix pivots count as zero")
	flag.BoolVar(&echo, "echo", false, "print parsed statements")
	flag.StringVar(&history, "history", defaultHistory(), "REPL history file (empty to disable)")
	flag.Parse()
	if tol < 0 {
		log.Fatalf("tolerance (%g) must not be negative", tol)
	}

	ctx := nam.NewContext(nam.Tolerance(tol))
	for _, d := range with {
		v, err := nam.EvalString(d[1], nam.Tolerance(tol))
		if err != nil {
			log.Fatalf("setting %s: %v", d[0], err)
		}
		ctx.Set(d[0], v)
	}
	out := &printer{w: bufio.NewWriter(os.Stdout), verb: verb, echo: echo}
	defer out.w.Flush()

	switch {
	case flag.NArg() > 0:
		for _, arg := range flag.Args() {
			if err := run(ctx, out, strings.NewReader(arg)); err != nil {
				out.w.Flush()
				log.Fatal(err)
			}
		}
		if inname == "" {
			return
		}
	case inname == "" && interactive(os.Stdin):
		if err := repl(ctx, out, history); err != nil {
			out.w.Flush()
			log.Fatal(err)
		}
		return
	}

	f, err := infile(inname)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	if err := batch(ctx, out, f); err != nil {
		out.w.Flush()
		log.Fatal(err)
	}
}

// printer writes statement results.
type printer struct {
	w    *bufio.Writer
	verb string
	echo bool
}

func (p *printer) print(r nam.Result) {
	if p.echo {
		fmt.Fprintf(p.w, "%v : ", r.Stmt)
	}
	if !r.Stmt.PrintResult {
		if p.echo {
			p.w.WriteByte('\n')
		}
		return
	}
	if r.Stmt.Name != "" {
		fmt.Fprintf(p.w, "%s = ", r.Stmt.Name)
	}
	fmt.Fprintln(p.w, r.Value.Format(p.verb))
}

// run evaluates all statements from src, printing each result. Results from
// statements before an error are still printed.
func run(ctx *nam.Context, out *printer, src io.RuneScanner) error {
	rs, err := ctx.Exec(src)
	for _, r := range rs {
		out.print(r)
	}
	return err
}

// batch evaluates input line by line. A matrix literal may span lines, so
// lines are accumulated while the statement is incomplete. Errors are
// reported and evaluation continues with the next line.
func batch(ctx *nam.Context, out *printer, r io.Reader) error {
	sc := bufio.NewScanner(r)
	var b strings.Builder
	line := 0
	for sc.Scan() {
		line++
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(sc.Text())
		if _, err := nam.ParseString(b.String()); nam.IsIncomplete(err) {
			continue
		}
		err := run(ctx, out, strings.NewReader(b.String()))
		b.Reset()
		if err != nil {
			out.w.Flush()
			log.Printf("line %d: %v", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return errors.Wrap(err, "reading input")
	}
	if b.Len() > 0 {
		return errors.Errorf("line %d: unexpected end of input in matrix literal", line)
	}
	return nil
}

// repl runs an interactive session with line editing and history.
func repl(ctx *nam.Context, out *printer, history string) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if history != "" {
		if f, err := os.Open(history); err == nil {
			ln.ReadHistory(f)
			f.Close()
		}
		defer func() {
			f, err := os.Create(history)
			if err != nil {
				log.Print(errors.Wrap(err, "saving history"))
				return
			}
			ln.WriteHistory(f)
			f.Close()
		}()
	}

	for {
		src, err := readStmt(ln)
		if err != nil {
			if err == io.EOF || err == liner.ErrPromptAborted {
				fmt.Println()
				return nil
			}
			return errors.Wrap(err, "reading input")
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		err = run(ctx, out, strings.NewReader(src))
		out.w.Flush()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

// readStmt reads lines until they form input the parser can finish, using the
// continuation prompt while a matrix literal is open.
func readStmt(ln *liner.State) (string, error) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if err != nil {
			if err == io.EOF && b.Len() > 0 {
				return b.String(), nil
			}
			return "", err
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if _, err := nam.ParseString(b.String()); !nam.IsIncomplete(err) {
			return b.String(), nil
		}
	}
}

func interactive(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func infile(inname string) (io.ReadCloser, error) {
	if inname == "" || inname == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(inname)
	if err != nil {
		return nil, errors.Wrapf(err, "opening input")
	}
	return f, nil
}

func defaultHistory() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".nam_history")
}
