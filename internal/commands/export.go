package commands

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"cashbook/internal/cli"
	"cashbook/internal/log"
	"cashbook/internal/report"
)

type exportCmd struct {
	env *Env
	dir string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the report as a markdown file" }
func (*exportCmd) Usage() string {
	return `cashbook export [-dir <directory>]

  Writes Expense-Tracker-<period>.md. The directory defaults to REPORT_DIR.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dir, "dir", "", "Directory to write the report into.")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.run(ctx, func(ctx context.Context, app *cli.App) error {
		dir := c.dir
		if dir == "" {
			dir = app.Config.ReportDir
		}
		path, err := report.SaveFile(app.Report(), dir)
		if err != nil {
			return err
		}
		log.FromContext(ctx).WithComponent(log.ComponentReport).InfoContext(ctx, "Report exported",
			log.FieldOperation, log.OpExport,
			log.FieldPath, path)
		fmt.Fprintln(c.env.Stdout, path)
		return nil
	})
}

type printCmd struct {
	env   *Env
	style string
}

func (*printCmd) Name() string     { return "print" }
func (*printCmd) Synopsis() string { return "render the report in the terminal" }
func (*printCmd) Usage() string {
	return `cashbook print [-style <auto|dark|light|notty>]
`
}

func (c *printCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.style, "style", report.DefaultStyle, "Glamour style used to render the report.")
}

func (c *printCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.run(ctx, func(_ context.Context, app *cli.App) error {
		return report.Print(app.Report(), c.env.Stdout, c.style)
	})
}

type sheetsExportCmd struct {
	env *Env
}

func (*sheetsExportCmd) Name() string     { return "sheets-export" }
func (*sheetsExportCmd) Synopsis() string { return "write the report to Google Sheets" }
func (*sheetsExportCmd) Usage() string {
	return `cashbook sheets-export

  Replaces the content of GOOGLE_SHEET_NAME in GOOGLE_SPREADSHEET_ID with the
  report. Credentials come from GOOGLE_SERVICE_ACCOUNT_JSON,
  GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_APPLICATION_CREDENTIALS.
`
}

func (*sheetsExportCmd) SetFlags(*flag.FlagSet) {}

func (c *sheetsExportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.run(ctx, func(ctx context.Context, app *cli.App) error {
		w, err := c.env.Sheets(ctx, app)
		if err != nil {
			return err
		}
		ref, err := w.WriteReport(ctx, app.Report())
		if err != nil {
			return err
		}
		fmt.Fprintln(c.env.Stdout, ref)
		return nil
	})
}
