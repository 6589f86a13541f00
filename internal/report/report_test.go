package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashbook/internal/core"
	"cashbook/internal/ledger"
)

var generatedAt = time.Date(2023, 6, 1, 9, 30, 0, 0, time.UTC)

func scenarioLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	l := ledger.New()
	_, err := l.Add(core.Entry{Kind: core.Incoming, OccurredOn: core.NewDate(2023, 5, 1), Description: "Salary", Amount: decimal.NewFromInt(50000)})
	require.NoError(t, err)
	_, err = l.Add(core.Entry{Kind: core.Outgoing, OccurredOn: core.NewDate(2023, 5, 3), Description: "Rent", Amount: decimal.NewFromInt(15000)})
	require.NoError(t, err)
	return l
}

func TestFormatter(t *testing.T) {
	f := DefaultFormatter()
	cases := map[string]string{
		"50000":     "Rs. 50,000.00",
		"1234567.5": "Rs. 1,234,567.50",
		"0.005":     "Rs. 0.01",
		"12":        "Rs. 12.00",
		"0":         "Rs. 0.00",
		"-35000":    "-Rs. 35,000.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, f.Format(decimal.RequireFromString(in)), in)
	}

	assert.Equal(t, "€ 1,000", NewFormatter("€ ", 0).Format(decimal.NewFromInt(1000)))
	assert.Equal(t, "Rs. 1.00", Formatter{}.Format(decimal.NewFromInt(1)), "zero value falls back to the default")
}

func TestFormatterLargeAmounts(t *testing.T) {
	f := DefaultFormatter()
	cases := map[string]string{
		"92233720368547758.07":      "Rs. 92,233,720,368,547,758.07",
		"100000000000000000":        "Rs. 100,000,000,000,000,000.00",
		"-100000000000000000":       "-Rs. 100,000,000,000,000,000.00",
		"123456789012345678901.005": "Rs. 123,456,789,012,345,678,901.01",
	}
	for in, want := range cases {
		assert.Equal(t, want, f.Format(decimal.RequireFromString(in)), in)
	}
	assert.Equal(t, "€ 10,000,000,000,000,000,000,000", NewFormatter("€ ", 0).Format(decimal.RequireFromString("1e22")))

	l := ledger.New()
	_, err := l.Add(core.Entry{Kind: core.Incoming, OccurredOn: core.NewDate(2023, 5, 1), Description: "Windfall", Amount: decimal.RequireFromString("100000000000000000")})
	require.NoError(t, err)
	d := Build(l, f, generatedAt)
	assert.Equal(t, "Rs. 100,000,000,000,000,000.00", d.Rows[0].FormattedAmount)
	assert.Equal(t, "Rs. 100,000,000,000,000,000.00", d.SummaryLines[2].Amount)
}

func TestBuild(t *testing.T) {
	l := scenarioLedger(t)
	l.SetPeriodLabel("May 2023")

	d := Build(l, DefaultFormatter(), generatedAt)
	assert.Equal(t, "May 2023", d.PeriodLabel)
	assert.Equal(t, "Expense Tracker - May 2023", d.Title())
	assert.Equal(t, generatedAt, d.GeneratedAt)

	assert.Equal(t, []Row{
		{KindLabel: "Outgoing", Description: "Rent", DisplayDate: "May 3, 2023", FormattedAmount: "Rs. 15,000.00"},
		{KindLabel: "Incoming", Description: "Salary", DisplayDate: "May 1, 2023", FormattedAmount: "Rs. 50,000.00"},
	}, d.Rows)

	assert.Equal(t, []SummaryLine{
		{Label: "Incoming", Amount: "Rs. 50,000.00"},
		{Label: "Outgoing", Amount: "Rs. 15,000.00"},
		{Label: "Balance", Amount: "Rs. 35,000.00"},
	}, d.SummaryLines)
	assert.True(t, d.Summary.Balance.Equal(decimal.NewFromInt(35000)))

	assert.Equal(t, [][]string{
		{"Outgoing", "Rent", "May 3, 2023", "Rs. 15,000.00"},
		{"Incoming", "Salary", "May 1, 2023", "Rs. 50,000.00"},
	}, d.Cells())
}

func TestMarkdown(t *testing.T) {
	out := Markdown(Build(scenarioLedger(t), DefaultFormatter(), generatedAt))
	assert.Contains(t, out, "# Expense Tracker - May 2023")
	assert.Contains(t, out, "Generated on: Jun 1, 2023 09:30")
	assert.Contains(t, out, "## Summary")
	for _, col := range Columns {
		assert.Contains(t, out, col)
	}
	assert.Contains(t, out, "Rs. 35,000.00")
	assert.Less(t, strings.Index(out, "Rent"), strings.Index(out, "Salary"), "rows are newest first")
	assert.NotContains(t, out, EmptyTableLabel)

	empty := Markdown(Build(ledger.New(), DefaultFormatter(), generatedAt))
	assert.Contains(t, empty, EmptyTableLabel)
	assert.Contains(t, empty, "Rs. 0.00")
}

func TestMarkdownEscapesCells(t *testing.T) {
	l := ledger.New()
	_, err := l.Add(core.Entry{Kind: core.Outgoing, OccurredOn: core.NewDate(2023, 5, 4), Description: "Food | drinks\nand tip", Amount: decimal.NewFromInt(2)})
	require.NoError(t, err)

	d := Build(l, DefaultFormatter(), generatedAt)
	out := Markdown(d)

	var row string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Food") {
			row = line
		}
	}
	require.NotEmpty(t, row)
	assert.Contains(t, row, `Food \| drinks and tip`)
	assert.Equal(t, len(Columns)+1, strings.Count(row, "|")-strings.Count(row, `\|`), "one cell per column")
	assert.Equal(t, "Food | drinks\nand tip", d.Rows[0].Description, "the document keeps the raw text")
}

func TestSaveFile(t *testing.T) {
	l := scenarioLedger(t)
	l.SetPeriodLabel("05/2023")
	d := Build(l, DefaultFormatter(), generatedAt)

	dir := filepath.Join(t.TempDir(), "reports")
	path, err := SaveFile(d, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Expense-Tracker-05-2023.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Markdown(d), string(data))
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	err := Print(Build(scenarioLedger(t), DefaultFormatter(), generatedAt), &buf, "notty")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Expense Tracker - May 2023")
	assert.Contains(t, buf.String(), "Salary")
}
