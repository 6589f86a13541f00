// Package report projects a ledger into the read-only document handed to
// exporters, and implements the markdown, terminal and file exporters.
package report

import (
	"time"

	"cashbook/internal/core"
)

const (
	TitlePrefix     = "Expense Tracker - "
	EmptyTableLabel = "No expenses recorded"
)

// Columns of the transaction table.
var Columns = []string{"Type", "Description", "Date", "Amount"}

// Source is the read side of a ledger.
type Source interface {
	ListSorted() []core.Transaction
	Summary() core.Summary
	PeriodLabel() string
}

type Row struct {
	KindLabel       string
	Description     string
	DisplayDate     string
	FormattedAmount string
}

type SummaryLine struct {
	Label  string
	Amount string
}

// Document is everything an exporter needs; it holds no reference back to
// the ledger.
type Document struct {
	PeriodLabel  string
	GeneratedAt  time.Time
	Summary      core.Summary
	SummaryLines []SummaryLine
	Rows         []Row
}

// Build projects src in the same order as the interactive table (newest
// first).
func Build(src Source, f Formatter, now time.Time) Document {
	txs := src.ListSorted()
	sum := src.Summary()

	rows := make([]Row, 0, len(txs))
	for _, t := range txs {
		rows = append(rows, ToRow(t, f))
	}

	return Document{
		PeriodLabel: src.PeriodLabel(),
		GeneratedAt: now,
		Summary:     sum,
		SummaryLines: []SummaryLine{
			{Label: "Incoming", Amount: f.Format(sum.TotalIncoming)},
			{Label: "Outgoing", Amount: f.Format(sum.TotalOutgoing)},
			{Label: "Balance", Amount: f.Format(sum.Balance)},
		},
		Rows: rows,
	}
}

func ToRow(t core.Transaction, f Formatter) Row {
	return Row{
		KindLabel:       t.Kind.Label(),
		Description:     t.Description,
		DisplayDate:     t.DisplayDate(),
		FormattedAmount: f.Format(t.Amount),
	}
}

func (d Document) Title() string {
	return TitlePrefix + d.PeriodLabel
}

// Cells returns the rows as plain string slices in column order.
func (d Document) Cells() [][]string {
	out := make([][]string, 0, len(d.Rows))
	for _, r := range d.Rows {
		out = append(out, []string{r.KindLabel, r.Description, r.DisplayDate, r.FormattedAmount})
	}
	return out
}
