package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"git.sr.ht/~sircmpwn/getopt"

	"github.com/zephyrtronium/arith/internal/server"
)

const usage = `usage: arithd [-a addr] [-d depth] [-l level]

  -a addr   listen address (default :8000)
  -d n      maximum nesting depth
  -l level  log level: debug, info, warn, or error (default info)
`

func main() {
	log.SetFlags(0)
	o, err := parseArgs(os.Args)
	if err != nil {
		log.Fatalf("%v\n%s", err, usage)
	}
	if o.help {
		fmt.Print(usage)
		return
	}
	cfg := o.cfg
	cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: o.level}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := server.New(cfg).Run(ctx); err != nil {
		cfg.Logger.Error("server failed", slog.Any("err", err))
		os.Exit(1)
	}
}

type options struct {
	cfg   server.Config
	level slog.Level
	help  bool
}

// parseArgs reads the command line, including the program name in args[0].
func parseArgs(args []string) (options, error) {
	o := options{cfg: server.Config{Addr: ":8000"}}
	opts, optind, err := getopt.Getopts(args, "a:d:l:h")
	if err != nil {
		return o, err
	}
	for _, opt := range opts {
		switch opt.Option {
		case 'a':
			o.cfg.Addr = opt.Value
		case 'd':
			d, err := strconv.Atoi(opt.Value)
			if err != nil || d < 0 {
				return o, fmt.Errorf("invalid depth %q", opt.Value)
			}
			o.cfg.MaxDepth = d
		case 'l':
			if err := o.level.UnmarshalText([]byte(opt.Value)); err != nil {
				return o, fmt.Errorf("invalid log level: %w", err)
			}
		case 'h':
			o.help = true
		}
	}
	if optind < len(args) {
		return o, fmt.Errorf("unexpected arguments %q", args[optind:])
	}
	return o, nil
}
