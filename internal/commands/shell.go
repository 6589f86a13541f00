package commands

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/subcommands"

	"cashbook/internal/cli"
	"cashbook/internal/core"
	"cashbook/internal/persistence"
)

const shellHelp = `Commands:
  new            fill in and add a new transaction
  edit <id>      start editing a transaction, then use submit
  submit         fill in the form and save it (updates while editing)
  cancel         stop editing
  delete <id>    remove a transaction
  list           list transactions, most recent first
  summary        show totals
  period [label] show or set the period label
  help           show this help
  quit           leave the shell
`

type shellCmd struct {
	env *Env
}

func (*shellCmd) Name() string     { return "shell" }
func (*shellCmd) Synopsis() string { return "interactive form to manage the ledger" }
func (*shellCmd) Usage() string {
	return `cashbook shell

  Starts an interactive session. Type help for the list of commands.
`
}

func (*shellCmd) SetFlags(*flag.FlagSet) {}

func (c *shellCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.run(ctx, func(ctx context.Context, app *cli.App) error {
		ctx, stop := cli.SignalContext(ctx)
		defer stop()
		return newShell(app, c.env.Stdin, c.env.Stdout).run(ctx)
	})
}

// errQuit ends the session.
var errQuit = errors.New("quit")

// shell is a line-oriented stand-in for the entry form: the editing cursor
// lives in the ledger, the field prompts play the role of the inputs.
type shell struct {
	app *cli.App
	in  io.Reader
	out io.Writer

	lines   <-chan string
	scanErr error
}

func newShell(app *cli.App, in io.Reader, out io.Writer) *shell {
	return &shell{app: app, in: in, out: out}
}

// scan feeds input lines to s.lines until the input ends or stop is closed.
func (s *shell) scan(stop <-chan struct{}) {
	lines := make(chan string)
	s.lines = lines
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(s.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-stop:
				return
			}
		}
		s.scanErr = sc.Err()
	}()
}

// readLine returns the next input line, io.EOF at the end of input, or the
// context error once ctx is done.
func (s *shell) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case text, ok := <-s.lines:
		if !ok {
			if s.scanErr != nil {
				return "", s.scanErr
			}
			return "", io.EOF
		}
		return text, nil
	}
}

func (s *shell) run(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)
	s.scan(stop)

	fmt.Fprintf(s.out, "cashbook: %s, %d transactions. Type help for commands.\n",
		s.app.Ledger.PeriodLabel(), s.app.Ledger.Len())

	for {
		fmt.Fprint(s.out, s.prompt())
		text, err := s.readLine(ctx)
		if err != nil {
			fmt.Fprintln(s.out)
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return err
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		err = s.dispatch(ctx, strings.ToLower(fields[0]), fields[1:])
		var werr *persistence.WriteError
		switch {
		case errors.Is(err, errQuit):
			return nil
		case ctx.Err() != nil:
			fmt.Fprintln(s.out)
			return nil
		case errors.As(err, &werr):
			fmt.Fprintf(s.out, "Warning: change not saved: %v\n", err)
		case err != nil:
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
	}
}

func (s *shell) prompt() string {
	if id, ok := s.app.Ledger.Editing(); ok {
		return fmt.Sprintf("cashbook (editing #%d)> ", id)
	}
	return "cashbook> "
}

func (s *shell) dispatch(ctx context.Context, verb string, args []string) error {
	ledger := s.app.Ledger
	switch verb {
	case "help", "?":
		fmt.Fprint(s.out, shellHelp)
	case "quit", "exit":
		return errQuit
	case "new":
		ledger.CancelEdit(ctx)
		return s.submit(ctx)
	case "submit":
		return s.submit(ctx)
	case "edit":
		id, err := singleID(args)
		if err != nil {
			return err
		}
		t, err := ledger.BeginEdit(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprint(s.out, "Editing ")
		printTransaction(s.out, s.app, t)
	case "cancel":
		ledger.CancelEdit(ctx)
		fmt.Fprintln(s.out, "Edit cancelled")
	case "delete":
		id, err := singleID(args)
		if err != nil {
			return err
		}
		if err := ledger.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Deleted #%d\n", id)
	case "list":
		fmt.Fprint(s.out, transactionsTable(ledger.List(), s.app.Formatter))
	case "summary":
		fmt.Fprint(s.out, summaryText(ledger.Summary(), s.app.Formatter))
	case "period":
		if len(args) == 0 {
			fmt.Fprintln(s.out, ledger.PeriodLabel())
			return nil
		}
		label, err := ledger.SetPeriodLabel(ctx, strings.Join(args, " "))
		fmt.Fprintf(s.out, "Period: %s\n", label)
		return err
	default:
		return fmt.Errorf("unknown command %q, type help for the list of commands", verb)
	}
	return nil
}

// submit prompts for every field, pre-filled with the record under edit,
// and commits the form.
func (s *shell) submit(ctx context.Context) error {
	form := entryFlags{date: time.Now().Format(core.ISODateLayout)}
	if id, ok := s.app.Ledger.Editing(); ok {
		current, err := s.app.Ledger.Get(id)
		if err != nil {
			return err
		}
		form = entryFlags{}.merge(current)
	}

	var err error
	if form.kind, err = s.ask(ctx, "Type (incoming/outgoing)", form.kind); err != nil {
		return err
	}
	if form.date, err = s.ask(ctx, "Date (YYYY-MM-DD)", form.date); err != nil {
		return err
	}
	if form.description, err = s.ask(ctx, "Description", form.description); err != nil {
		return err
	}
	if form.amount, err = s.ask(ctx, "Amount", form.amount); err != nil {
		return err
	}

	e, err := form.entry()
	if err != nil {
		return err
	}
	_, editing := s.app.Ledger.Editing()
	t, err := s.app.Ledger.Submit(ctx, e)
	if t.ID == 0 {
		return err
	}
	if editing {
		fmt.Fprint(s.out, "Updated ")
	} else {
		fmt.Fprint(s.out, "Added ")
	}
	printTransaction(s.out, s.app, t)
	return err
}

// ask reads one line; an empty answer keeps def.
func (s *shell) ask(ctx context.Context, label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(s.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(s.out, "%s: ", label)
	}
	text, err := s.readLine(ctx)
	if errors.Is(err, io.EOF) {
		return "", io.ErrUnexpectedEOF
	}
	if err != nil {
		return "", err
	}
	answer := strings.TrimSpace(text)
	if answer == "" {
		return def, nil
	}
	return answer, nil
}
