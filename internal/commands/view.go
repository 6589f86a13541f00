package commands

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/subcommands"
	md "github.com/nao1215/markdown"

	"cashbook/internal/cli"
	"cashbook/internal/core"
	"cashbook/internal/report"
)

// transactionsTable renders txs as a markdown table with an ID column so
// that rows can be referred to by edit and delete.
func transactionsTable(txs []core.Transaction, f report.Formatter) string {
	if len(txs) == 0 {
		return report.EmptyTableLabel + "\n"
	}
	set := md.TableSet{Header: append([]string{"ID"}, report.Columns...)}
	for _, t := range txs {
		r := report.ToRow(t, f)
		set.Rows = append(set.Rows, []string{
			strconv.FormatInt(t.ID, 10), r.KindLabel, report.EscapeCell(r.Description), r.DisplayDate, report.EscapeCell(r.FormattedAmount),
		})
	}
	var buf bytes.Buffer
	return md.NewMarkdown(&buf).CustomTable(set, report.TableOptions).String()
}

func summaryText(s core.Summary, f report.Formatter) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total Incoming: %s\n", f.Format(s.TotalIncoming))
	fmt.Fprintf(&b, "Total Outgoing: %s\n", f.Format(s.TotalOutgoing))
	fmt.Fprintf(&b, "Balance: %s\n", f.Format(s.Balance))
	return b.String()
}

type listCmd struct {
	env *Env
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list all transactions, most recent first" }
func (*listCmd) Usage() string {
	return `cashbook list
`
}

func (*listCmd) SetFlags(*flag.FlagSet) {}

func (c *listCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.run(ctx, func(_ context.Context, app *cli.App) error {
		fmt.Fprint(c.env.Stdout, transactionsTable(app.Ledger.List(), app.Formatter))
		return nil
	})
}

type summaryCmd struct {
	env *Env
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "print incoming, outgoing and balance totals" }
func (*summaryCmd) Usage() string {
	return `cashbook summary
`
}

func (*summaryCmd) SetFlags(*flag.FlagSet) {}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.run(ctx, func(_ context.Context, app *cli.App) error {
		fmt.Fprint(c.env.Stdout, summaryText(app.Ledger.Summary(), app.Formatter))
		return nil
	})
}

type periodCmd struct {
	env *Env
}

func (*periodCmd) Name() string     { return "period" }
func (*periodCmd) Synopsis() string { return "show or set the report period label" }
func (*periodCmd) Usage() string {
	return `cashbook period [label]

  Without arguments prints the current label. With arguments sets it; the
  words are joined with spaces. An empty label restores the default.
`
}

func (*periodCmd) SetFlags(*flag.FlagSet) {}

func (c *periodCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.run(ctx, func(ctx context.Context, app *cli.App) error {
		if f.NArg() == 0 {
			fmt.Fprintln(c.env.Stdout, app.Ledger.PeriodLabel())
			return nil
		}
		label, err := app.Ledger.SetPeriodLabel(ctx, strings.Join(f.Args(), " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(c.env.Stdout, label)
		return nil
	})
}
