package sheets

import "cashbook/internal/report"

// Values lays a report out as spreadsheet rows: title, generation time, the
// summary block, then the transactions table. An empty ledger gets a single
// placeholder row under the header.
func Values(d report.Document) [][]any {
	rows := [][]any{
		{d.Title()},
		{"Generated on: " + d.GeneratedAt.Format(report.GeneratedLayout)},
		{},
		{"Total", "Amount"},
	}
	for _, l := range d.SummaryLines {
		rows = append(rows, []any{l.Label, l.Amount})
	}
	rows = append(rows, []any{})

	header := make([]any, len(report.Columns))
	for i, c := range report.Columns {
		header[i] = c
	}
	rows = append(rows, header)

	cells := d.Cells()
	if len(cells) == 0 {
		return append(rows, []any{report.EmptyTableLabel})
	}
	for _, c := range cells {
		row := make([]any, len(c))
		for i, v := range c {
			row[i] = v
		}
		rows = append(rows, row)
	}
	return rows
}
