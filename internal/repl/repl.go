// Package repl implements the interactive read-evaluate-print loop.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"

	"github.com/zephyrtronium/arith"
	"github.com/zephyrtronium/arith/internal/present"
)

// Evaluator evaluates a single expression.
type Evaluator interface {
	Evaluate(ctx context.Context, expr string) (float64, error)
}

// Local evaluates expressions in process.
type Local struct {
	// MaxDepth limits nesting. Zero means arith.DefaultMaxDepth.
	MaxDepth int
}

// Evaluate evaluates expr. It never blocks, so ctx is only checked first.
func (l Local) Evaluate(ctx context.Context, expr string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return arith.EvalString(expr, arith.MaxDepth(l.MaxDepth))
}

// LineReader reads one line of input at a time. *term.Terminal implements
// LineReader.
type LineReader interface {
	ReadLine() (string, error)
}

// Scanner is a LineReader over a plain reader, for input that is not a
// terminal.
type Scanner struct {
	sc     *bufio.Scanner
	w      io.Writer
	prompt string
}

// NewScanner creates a LineReader that writes prompt to w before reading each
// line from r. w may be nil to omit prompts.
func NewScanner(r io.Reader, w io.Writer, prompt string) *Scanner {
	return &Scanner{sc: bufio.NewScanner(r), w: w, prompt: prompt}
}

// ReadLine returns the next line without its terminator. It returns io.EOF
// after the last line.
func (s *Scanner) ReadLine() (string, error) {
	if s.w != nil && s.prompt != "" {
		if _, err := io.WriteString(s.w, s.prompt); err != nil {
			return "", err
		}
	}
	if !s.sc.Scan() {
		if err := s.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.sc.Text(), nil
}

var (
	resultColor = color.New(color.FgGreen)
	errorColor  = color.New(color.FgRed)
)

// Session is one run of the loop.
type Session struct {
	// Eval evaluates each line.
	Eval Evaluator
	// In supplies lines.
	In LineReader
	// Out receives results and errors.
	Out io.Writer
	// Log receives diagnostics. Nil discards them.
	Log *slog.Logger
}

// Run reads and evaluates lines until the input ends, the user types quit or
// exit, or ctx is done. Evaluation errors are printed and the loop continues.
// Run returns nil when the input ends or the user quits.
func (s *Session) Run(ctx context.Context) error {
	log := s.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := s.In.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// Leave the cursor on a fresh line after ^D.
				fmt.Fprintln(s.Out)
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}
		expr := strings.TrimSpace(line)
		switch strings.ToLower(expr) {
		case "":
			continue
		case "quit", "exit":
			return nil
		}
		v, err := s.Eval.Evaluate(ctx, expr)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Debug("evaluation failed", slog.String("expression", expr), slog.Any("err", err))
			errorColor.Fprintf(s.Out, "Error: %v\n", err)
			continue
		}
		resultColor.Fprintf(s.Out, "Result: %s\n", present.String(v))
	}
}
