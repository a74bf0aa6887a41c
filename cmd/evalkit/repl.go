package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/randalmurphal/evalkit/pkg/evalkit"
	"github.com/randalmurphal/evalkit/pkg/evalkit/expr"
)

const (
	prompt         = ">>> "
	continuePrompt = "... "
)

// lineReader is satisfied by *term.Terminal and promptReader.
type lineReader interface {
	ReadLine() (string, error)
	SetPrompt(prompt string)
}

// promptReader reads lines from a non-terminal input, echoing the prompt.
type promptReader struct {
	scanner *bufio.Scanner
	out     io.Writer
	prompt  string
}

func newPromptReader(in io.Reader, out io.Writer) *promptReader {
	return &promptReader{scanner: bufio.NewScanner(in), out: out, prompt: prompt}
}

func (p *promptReader) SetPrompt(prompt string) { p.prompt = prompt }

func (p *promptReader) ReadLine() (string, error) {
	fmt.Fprint(p.out, p.prompt)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimRight(p.scanner.Text(), "\r"), nil
}

// repl holds one session's context. Variables persist across lines.
type repl struct {
	engine *evalkit.DefaultEngine
	vars   *expr.DefaultContext
	out    io.Writer
}

func newREPL(engine *evalkit.DefaultEngine, out io.Writer) *repl {
	return &repl{engine: engine, vars: engine.NewContext(), out: out}
}

// runTerminal switches stdin to raw mode and drives the session through
// a term.Terminal for line editing and history.
func runTerminal(ctx context.Context, r *repl) error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return r.run(ctx, newPromptReader(os.Stdin, os.Stdout))
	}
	defer term.Restore(fd, oldState)

	t := term.NewTerminal(struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}, prompt)
	r.out = t
	fmt.Fprintln(t, "evalkit REPL (Ctrl+D to exit, :help for commands)")
	return r.run(ctx, t)
}

// run reads until EOF or :quit. A trailing backslash continues the
// expression on the next line.
func (r *repl) run(ctx context.Context, lines lineReader) error {
	var pending strings.Builder
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		line, err := lines.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out)
				return nil
			}
			return err
		}

		if rest, ok := strings.CutSuffix(line, "\\"); ok {
			pending.WriteString(rest)
			pending.WriteString("\n")
			lines.SetPrompt(continuePrompt)
			continue
		}
		pending.WriteString(line)
		input := pending.String()
		pending.Reset()
		lines.SetPrompt(prompt)

		if strings.TrimSpace(input) == "" {
			continue
		}
		if quit := r.handle(ctx, input); quit {
			return nil
		}
	}
}

// evalOnce evaluates input and prints the result, returning the
// evaluation error to the caller.
func (r *repl) evalOnce(ctx context.Context, input string) error {
	v, err := r.engine.Evaluate(ctx, input, r.vars)
	if err != nil {
		return fmt.Errorf("%s error: %w", expr.KindOf(err), err)
	}
	r.print(v)
	return nil
}

func (r *repl) handle(ctx context.Context, input string) bool {
	if cmd, ok := strings.CutPrefix(strings.TrimSpace(input), ":"); ok {
		return r.command(ctx, cmd)
	}
	if err := r.evalOnce(ctx, input); err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
	}
	return false
}

func (r *repl) print(v expr.DefaultValue) {
	if !v.IsEmpty() {
		fmt.Fprintln(r.out, v)
	}
}

func (r *repl) command(ctx context.Context, cmd string) bool {
	name, arg, _ := strings.Cut(cmd, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "q", "quit", "exit":
		return true
	case "help":
		fmt.Fprint(r.out, replHelp)
	case "vars":
		for k, v := range r.vars.Variables() {
			fmt.Fprintf(r.out, "%s = %s\n", k, v)
		}
	case "clear":
		r.vars.ClearVariables()
	case "tree":
		tree, err := r.engine.Compile(ctx, arg)
		if err != nil {
			fmt.Fprintf(r.out, "Error: %v\n", err)
			break
		}
		fmt.Fprintf(r.out, "%s (depth %d)\n", tree, tree.Depth())
	case "save":
		snap, err := r.engine.SaveContext(ctx, arg, r.vars)
		if err != nil {
			fmt.Fprintf(r.out, "Error: %v\n", err)
			break
		}
		fmt.Fprintf(r.out, "saved %s\n", snap.Name)
	case "load":
		snap, err := r.engine.LoadContext(ctx, arg, r.vars)
		if err != nil {
			fmt.Fprintf(r.out, "Error: %v\n", err)
			break
		}
		fmt.Fprintf(r.out, "loaded %s from %s\n", snap.Name, snap.Timestamp.Format("2006-01-02 15:04:05"))
	case "snapshots":
		if err := listSnapshots(r.out, r.engine); err != nil {
			fmt.Fprintf(r.out, "Error: %v\n", err)
		}
	default:
		fmt.Fprintf(r.out, "unknown command :%s (try :help)\n", name)
	}
	return false
}

const replHelp = `Commands:
  :vars          list variables
  :clear         remove all variables
  :tree EXPR     show the parsed form of EXPR
  :save NAME     save variables as snapshot NAME
  :load NAME     restore variables from snapshot NAME
  :snapshots     list stored snapshots
  :quit          exit
End a line with \ to continue the expression on the next line.
`
