package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	md "github.com/nao1215/markdown"
)

// GeneratedLayout formats the generation timestamp.
const GeneratedLayout = "Jan 2, 2006 15:04"

// DefaultStyle lets glamour pick a dark or light theme from the terminal.
const DefaultStyle = "auto"

// TableOptions keeps headers as written and every row on a single line.
var TableOptions = md.TableOptions{AutoWrapText: false, AutoFormatHeaders: false}

var cellEscaper = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ", "\r", " ")

// EscapeCell keeps free text inside a single markdown table cell.
func EscapeCell(s string) string {
	return cellEscaper.Replace(s)
}

func escapeRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = make([]string, len(row))
		for j, cell := range row {
			out[i][j] = EscapeCell(cell)
		}
	}
	return out
}

func Markdown(d Document) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(d.Title())
	doc.PlainText(fmt.Sprintf("Generated on: %s", d.GeneratedAt.Format(GeneratedLayout)))

	doc.H2("Summary")
	summary := md.TableSet{Header: []string{"Total", "Amount"}}
	for _, l := range d.SummaryLines {
		summary.Rows = append(summary.Rows, []string{EscapeCell(l.Label), EscapeCell(l.Amount)})
	}
	doc.CustomTable(summary, TableOptions)

	doc.H2("Transactions")
	if len(d.Rows) == 0 {
		doc.PlainText(EmptyTableLabel)
	} else {
		doc.CustomTable(md.TableSet{Header: Columns, Rows: escapeRows(d.Cells())}, TableOptions)
	}

	return doc.String()
}

// FileName is the export file name for the document's period.
func FileName(d Document) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, d.PeriodLabel)
	return "Expense-Tracker-" + name + ".md"
}

// SaveFile writes the markdown document into dir and returns its path.
func SaveFile(d Document, dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}
	path := filepath.Join(dir, FileName(d))
	if err := os.WriteFile(path, []byte(Markdown(d)), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// Print renders the document for a terminal with the given glamour style.
func Print(d Document, w io.Writer, style string) error {
	if style == "" {
		style = DefaultStyle
	}
	out, err := glamour.Render(Markdown(d), style)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
