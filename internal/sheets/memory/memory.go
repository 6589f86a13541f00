// Package memory keeps written reports in process memory.
package memory

import (
	"context"
	"fmt"
	"sync"

	"cashbook/internal/report"
	ports "cashbook/internal/sheets"
)

type Writer struct {
	mu     sync.Mutex
	writes int
	values [][]any
}

var _ ports.ReportWriter = (*Writer)(nil)

func New() *Writer {
	return &Writer{}
}

// WriteReport replaces the stored values and returns a synthetic reference.
func (w *Writer) WriteReport(_ context.Context, d report.Document) (string, error) {
	values := ports.Values(d)
	w.mu.Lock()
	defer w.mu.Unlock()
	w.values = values
	w.writes++
	return fmt.Sprintf("mem:%d!A1:D%d", w.writes, len(values)), nil
}

// Values returns the rows of the last written report.
func (w *Writer) Values() [][]any {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([][]any, len(w.values))
	copy(out, w.values)
	return out
}

func (w *Writer) Writes() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writes
}
