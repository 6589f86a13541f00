package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/google/subcommands"

	"cashbook/internal/cli"
	"cashbook/internal/core"
)

// entryFlags are the form fields shared by add and edit.
type entryFlags struct {
	kind        string
	date        string
	description string
	amount      string
}

func (e *entryFlags) set(f *flag.FlagSet) {
	f.StringVar(&e.kind, "type", "", "Transaction type: incoming or outgoing.")
	f.StringVar(&e.date, "date", "", "Date of the transaction (YYYY-MM-DD).")
	f.StringVar(&e.description, "description", "", "What the transaction was for.")
	f.StringVar(&e.amount, "amount", "", "Positive amount, e.g. 1500 or 12.50.")
}

// merge fills empty fields from t, so an edit only needs the changed values.
func (e entryFlags) merge(t core.Transaction) entryFlags {
	if e.kind == "" {
		e.kind = t.Kind.String()
	}
	if e.date == "" {
		e.date = t.OccurredOn.String()
	}
	if e.description == "" {
		e.description = t.Description
	}
	if e.amount == "" {
		e.amount = t.Amount.String()
	}
	return e
}

func (e entryFlags) entry() (core.Entry, error) {
	return core.ParseEntry(e.kind, e.date, e.description, e.amount)
}

func printTransaction(w io.Writer, app *cli.App, t core.Transaction) {
	fmt.Fprintf(w, "#%d %s %s %q %s\n",
		t.ID, t.Kind.Label(), t.DisplayDate(), t.Description, app.Formatter.Format(t.Amount))
}

type addCmd struct {
	env *Env
	entryFlags
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a new transaction" }
func (*addCmd) Usage() string {
	return `cashbook add -type <incoming|outgoing> -date <YYYY-MM-DD> -description <text> -amount <n>

  Adds a transaction to the ledger.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) { c.entryFlags.set(f) }

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.run(ctx, func(ctx context.Context, app *cli.App) error {
		if f.NArg() != 0 {
			return usagef("unexpected arguments: %v", f.Args())
		}
		e, err := c.entry()
		if err != nil {
			return err
		}
		t, err := app.Ledger.Add(ctx, e)
		if err != nil {
			return err
		}
		fmt.Fprint(c.env.Stdout, "Added ")
		printTransaction(c.env.Stdout, app, t)
		return nil
	})
}

type editCmd struct {
	env *Env
	entryFlags
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "change an existing transaction" }
func (*editCmd) Usage() string {
	return `cashbook edit [-type <t>] [-date <d>] [-description <text>] [-amount <n>] <id>

  Replaces the fields of a transaction. Omitted flags keep their current value.
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) { c.entryFlags.set(f) }

func (c *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.run(ctx, func(ctx context.Context, app *cli.App) error {
		id, err := singleID(f.Args())
		if err != nil {
			return err
		}
		current, err := app.Ledger.BeginEdit(ctx, id)
		if err != nil {
			return err
		}
		e, err := c.entryFlags.merge(current).entry()
		if err != nil {
			return err
		}
		t, err := app.Ledger.Submit(ctx, e)
		if err != nil {
			return err
		}
		fmt.Fprint(c.env.Stdout, "Updated ")
		printTransaction(c.env.Stdout, app, t)
		return nil
	})
}

type showCmd struct {
	env *Env
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "print one transaction" }
func (*showCmd) Usage() string {
	return `cashbook show <id>
`
}

func (*showCmd) SetFlags(*flag.FlagSet) {}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.run(ctx, func(ctx context.Context, app *cli.App) error {
		id, err := singleID(f.Args())
		if err != nil {
			return err
		}
		t, err := app.Ledger.Get(id)
		if err != nil {
			return err
		}
		printTransaction(c.env.Stdout, app, t)
		return nil
	})
}

type deleteCmd struct {
	env *Env
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "remove a transaction" }
func (*deleteCmd) Usage() string {
	return `cashbook delete <id>
`
}

func (*deleteCmd) SetFlags(*flag.FlagSet) {}

func (c *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.run(ctx, func(ctx context.Context, app *cli.App) error {
		id, err := singleID(f.Args())
		if err != nil {
			return err
		}
		if err := app.Ledger.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(c.env.Stdout, "Deleted #%d\n", id)
		return nil
	})
}
