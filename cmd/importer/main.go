// Command importer loads error codes from a fixture file into the store
// named by DATABASE_URL.
//
// Usage:
//
//	importer <data-file>
//
// JSON is assumed unless the file ends in .yaml or .yml.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/helprobot/internal/config"
	"github.com/JonMunkholm/helprobot/internal/core"
	"github.com/JonMunkholm/helprobot/internal/logging"
	"github.com/JonMunkholm/helprobot/internal/store"
	"github.com/joho/godotenv"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("importer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: importer <data-file>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	path := fs.Arg(0)

	// A missing .env is not an error for a one-shot command.
	_ = godotenv.Overload()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return 1
	}
	logger := slog.New(logging.NewHandler(stderr, cfg.Logging.Level, cfg.Logging.Format))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, backend, err := store.Open(ctx, store.Options{
		URL:             cfg.Database.URL,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error importing data: %v\n", err)
		return 1
	}
	defer st.Close()
	logger.Debug("store opened", "backend", backend)

	result, err := core.NewImporter(st).WithLogger(logger).ImportFile(ctx, path)
	if err != nil {
		var ie *core.ImportError
		if errors.As(err, &ie) {
			fmt.Fprintln(stderr, ie.Message())
		} else {
			fmt.Fprintf(stderr, "Error importing data: %v\n", err)
		}
		return 1
	}

	fmt.Fprintf(stdout, "Successfully imported %d new errors and updated %d existing errors\n", result.Created, result.Updated)
	return 0
}
