// Package commands implements the cashbook subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/google/subcommands"

	"cashbook/internal/cli"
	"cashbook/internal/log"
	"cashbook/internal/persistence"
	"cashbook/internal/sheets"
	"cashbook/internal/sheets/google"
)

// Env is what commands read from and write to.
type Env struct {
	// Open returns the application bound to the persisted ledger.
	Open func(ctx context.Context) (*cli.App, error)
	// Sheets returns the report sink used by sheets-export.
	Sheets func(ctx context.Context, app *cli.App) (sheets.ReportWriter, error)

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultEnv uses the process streams, the configured store and Google
// Sheets.
func DefaultEnv() *Env {
	return &Env{
		Open:   cli.Open,
		Sheets: googleSheets,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

func googleSheets(ctx context.Context, app *cli.App) (sheets.ReportWriter, error) {
	return google.New(ctx, app.Config.GoogleSpreadsheetID, app.Config.GoogleSheetName, app.Logger)
}

// Register the subcommands.
func Register(c *subcommands.Commander, env *Env) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&addCmd{env: env}, "transactions")
	c.Register(&editCmd{env: env}, "transactions")
	c.Register(&showCmd{env: env}, "transactions")
	c.Register(&deleteCmd{env: env}, "transactions")
	c.Register(&listCmd{env: env}, "transactions")
	c.Register(&summaryCmd{env: env}, "transactions")
	c.Register(&periodCmd{env: env}, "transactions")

	c.Register(&exportCmd{env: env}, "reports")
	c.Register(&printCmd{env: env}, "reports")
	c.Register(&sheetsExportCmd{env: env}, "reports")

	c.Register(&shellCmd{env: env}, "")
}

// usageError marks bad command line input.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

// run opens the application, calls fn and maps its error to an exit status.
func (e *Env) run(ctx context.Context, fn func(context.Context, *cli.App) error) subcommands.ExitStatus {
	app, err := e.Open(ctx)
	if err != nil {
		fmt.Fprintf(e.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer app.Close()

	ctx = log.NewContext(ctx, app.Logger)
	err = fn(ctx, app)
	var uerr usageError
	var werr *persistence.WriteError
	switch {
	case err == nil:
		return subcommands.ExitSuccess
	case errors.As(err, &uerr):
		fmt.Fprintf(e.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	case errors.As(err, &werr):
		fmt.Fprintf(e.Stderr, "Error: change not saved: %v\n", err)
		return subcommands.ExitFailure
	default:
		fmt.Fprintf(e.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, usagef("invalid transaction id %q", s)
	}
	return id, nil
}

// singleID returns the only positional argument as a transaction id.
func singleID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, usagef("expected exactly one transaction id, got %d arguments", len(args))
	}
	return parseID(args[0])
}
