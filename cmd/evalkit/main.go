// Command evalkit evaluates expressions from the command line, an
// interactive prompt, or a websocket endpoint.
//
// Usage:
//
//	evalkit [flags]                  start the REPL (or read stdin when piped)
//	evalkit [flags] -e 'a = 1; a+1'  evaluate one expression
//	evalkit [flags] serve            serve evaluations over a websocket
//	evalkit [flags] snapshots        list stored context snapshots
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/randalmurphal/evalkit/pkg/evalkit"
	"github.com/randalmurphal/evalkit/pkg/evalkit/config"
	"github.com/randalmurphal/evalkit/pkg/evalkit/numeric"
)

func main() {
	os.Exit(mainCode())
}

func mainCode() int {
	var (
		evalStr    = flag.String("e", "", "Evaluate an expression and exit")
		configPath = flag.String("config", "", "YAML or JSON config file")
		dbPath     = flag.String("db", "", "SQLite snapshot database (overrides snapshot_path)")
		addr       = flag.String("addr", "127.0.0.1:8080", "Listen address for serve")
		verbose    = flag.Bool("v", false, "Log evaluations to stderr")
	)
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	engine, err := openEngine(*configPath, *dbPath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer engine.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, engine, flag.Args(), *evalStr, *addr, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func run(ctx context.Context, engine *evalkit.DefaultEngine, args []string, evalStr, addr string, logger *slog.Logger) error {
	if len(args) > 0 {
		switch args[0] {
		case "serve":
			return serve(ctx, addr, engine, logger)
		case "snapshots":
			return listSnapshots(os.Stdout, engine)
		default:
			return fmt.Errorf("unknown command %q (use serve or snapshots)", args[0])
		}
	}

	r := newREPL(engine, os.Stdout)
	switch {
	case evalStr != "":
		return r.evalOnce(ctx, evalStr)
	case !term.IsTerminal(int(os.Stdin.Fd())):
		input, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		return r.evalOnce(ctx, string(input))
	default:
		return runTerminal(ctx, r)
	}
}

// openEngine builds the engine from an optional config file. A -db path
// replaces the configured snapshot store.
func openEngine(configPath, dbPath string, logger *slog.Logger) (*evalkit.DefaultEngine, error) {
	cfg := config.New(nil)
	if configPath != "" {
		var err error
		if cfg, err = config.FromFile(configPath); err != nil {
			return nil, err
		}
	}

	if dbPath != "" {
		data := maps.Clone(cfg.Raw())
		data[config.KeySnapshotPath] = dbPath
		cfg = config.New(data)
	}
	return evalkit.NewFromConfig[numeric.Int64, numeric.Float64](cfg, evalkit.WithLogger(logger))
}
