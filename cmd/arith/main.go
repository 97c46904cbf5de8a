package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/zephyrtronium/arith"
	"github.com/zephyrtronium/arith/internal/client"
	"github.com/zephyrtronium/arith/internal/present"
	"github.com/zephyrtronium/arith/internal/repl"
)

const usage = `usage: arith [-en] [-d depth] [-r url] [-i file] [expression ...]

  -i file  evaluate each line of file; - means stdin
  -r url   evaluate with the arithd service at url
  -d n     maximum nesting depth
  -e       print parse trees
  -n       disable colors
  -h       show this help

With no expressions and no -i, arith reads expressions interactively.
`

func main() {
	log.SetFlags(0)
	var (
		inname, remote string
		depth          int
		echo           bool
	)
	opts, optind, err := getopt.Getopts(os.Args, "i:r:d:enh")
	if err != nil {
		log.Fatalf("%v\n%s", err, usage)
	}
	for _, opt := range opts {
		switch opt.Option {
		case 'i':
			inname = opt.Value
		case 'r':
			remote = opt.Value
		case 'd':
			depth, err = strconv.Atoi(opt.Value)
			if err != nil || depth < 0 {
				log.Fatalf("invalid depth %q", opt.Value)
			}
		case 'e':
			echo = true
		case 'n':
			color.NoColor = true
		case 'h':
			fmt.Print(usage)
			return
		}
	}
	args := os.Args[optind:]

	var ev repl.Evaluator = repl.Local{MaxDepth: depth}
	if remote != "" {
		ev = client.New(remote)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if inname == "" && len(args) == 0 {
		if err := interactive(ctx, ev); err != nil {
			log.Fatal(err)
		}
		return
	}

	b := batch{ev: ev, echo: echo, depth: depth, out: os.Stdout, errs: os.Stderr}
	if inname != "" {
		if err := b.file(ctx, inname); err != nil {
			log.Fatal(err)
		}
	}
	for _, arg := range args {
		b.eval(ctx, arg)
	}
	if b.failed {
		os.Exit(1)
	}
}

// batch evaluates expressions one-shot, remembering whether any failed.
type batch struct {
	ev     repl.Evaluator
	echo   bool
	depth  int
	out    io.Writer
	errs   io.Writer
	failed bool
}

func (b *batch) file(ctx context.Context, name string) error {
	var r io.Reader = os.Stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) == "" {
			continue
		}
		b.eval(ctx, sc.Text())
	}
	return sc.Err()
}

func (b *batch) eval(ctx context.Context, expr string) {
	echoed := false
	if b.echo {
		// The tree is always built locally, even for remote evaluation.
		if a, err := arith.Parse(strings.NewReader(expr), arith.MaxDepth(b.depth)); err == nil {
			fmt.Fprintf(b.out, "%v : ", a)
			echoed = true
		}
	}
	v, err := b.ev.Evaluate(ctx, expr)
	if err != nil {
		b.failed = true
		if echoed {
			fmt.Fprintln(b.out)
		}
		color.New(color.FgRed).Fprintf(b.errs, "%s: %v\n", strings.TrimSpace(expr), err)
		return
	}
	fmt.Fprintln(b.out, present.String(v))
}

// interactive runs the REPL on stdin, with line editing when it is a terminal.
func interactive(ctx context.Context, ev repl.Evaluator) error {
	s := repl.Session{Eval: ev}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		s.In = repl.NewScanner(os.Stdin, nil, "")
		s.Out = os.Stdout
		return s.Run(ctx)
	}
	old, err := term.MakeRaw(fd)
	if err != nil {
		return err
	}
	defer term.Restore(fd, old)
	t := term.NewTerminal(struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}, "> ")
	fmt.Fprintln(t, "Enter expressions to evaluate, or quit to exit.")
	s.In = t
	s.Out = t
	return s.Run(ctx)
}
