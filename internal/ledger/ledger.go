// Package ledger holds the authoritative in-memory set of transactions,
// the editing cursor and the reporting period label.
//
// A Ledger is not safe for concurrent use. It is meant to be owned by a
// single caller that runs every operation to completion before the next.
package ledger

import (
	"slices"
	"strings"

	"cashbook/internal/core"
)

// Ledger owns transactions keyed by ID and remembers insertion order.
type Ledger struct {
	records     map[int64]core.Transaction
	order       []int64
	editingID   int64
	periodLabel string
	nextID      int64
	revision    uint64
}

// Snapshot is the persistable state of a Ledger. Records are in insertion
// order.
type Snapshot struct {
	Records     []core.Transaction
	PeriodLabel string
}

// New returns an empty ledger labelled with the default period.
func New() *Ledger {
	return &Ledger{
		records:     make(map[int64]core.Transaction),
		periodLabel: core.DefaultPeriodLabel,
		nextID:      1,
	}
}

// FromSnapshot builds a ledger restored from s.
func FromSnapshot(s Snapshot) *Ledger {
	l := New()
	l.Restore(s)
	return l
}

// Add validates e and inserts it as a new transaction with a fresh ID.
func (l *Ledger) Add(e core.Entry) (core.Transaction, error) {
	if err := e.Validate(); err != nil {
		return core.Transaction{}, err
	}
	t := newTransaction(l.nextID, e)
	l.nextID++
	l.records[t.ID] = t
	l.order = append(l.order, t.ID)
	l.revision++
	return t, nil
}

// Update replaces every mutable field of the transaction identified by id.
// The ID and the insertion position are kept. A matching editing cursor is
// cleared.
func (l *Ledger) Update(id int64, e core.Entry) (core.Transaction, error) {
	if err := e.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if _, ok := l.records[id]; !ok {
		return core.Transaction{}, &core.NotFoundError{ID: id}
	}
	t := newTransaction(id, e)
	l.records[id] = t
	if l.editingID == id {
		l.editingID = 0
	}
	l.revision++
	return t, nil
}

// Delete removes the transaction identified by id.
func (l *Ledger) Delete(id int64) error {
	if _, ok := l.records[id]; !ok {
		return &core.NotFoundError{ID: id}
	}
	delete(l.records, id)
	l.order = slices.DeleteFunc(l.order, func(v int64) bool { return v == id })
	if l.editingID == id {
		l.editingID = 0
	}
	l.revision++
	return nil
}

// Get returns a copy of the transaction identified by id.
func (l *Ledger) Get(id int64) (core.Transaction, error) {
	t, ok := l.records[id]
	if !ok {
		return core.Transaction{}, &core.NotFoundError{ID: id}
	}
	return t, nil
}

// BeginEdit points the editing cursor at id and returns the record so a
// form can be pre-filled.
func (l *Ledger) BeginEdit(id int64) (core.Transaction, error) {
	t, err := l.Get(id)
	if err != nil {
		return core.Transaction{}, err
	}
	l.editingID = id
	return t, nil
}

// CancelEdit clears the editing cursor.
func (l *Ledger) CancelEdit() {
	l.editingID = 0
}

// Editing reports the transaction under revision, if any.
func (l *Ledger) Editing() (int64, bool) {
	return l.editingID, l.editingID != 0
}

// Submit commits a form: it replaces the record under revision when the
// editing cursor is set and adds a new record otherwise.
func (l *Ledger) Submit(e core.Entry) (core.Transaction, error) {
	if id, ok := l.Editing(); ok {
		return l.Update(id, e)
	}
	return l.Add(e)
}

// ListSorted returns all transactions, most recent OccurredOn first.
// Transactions on the same day keep their insertion order.
func (l *Ledger) ListSorted() []core.Transaction {
	out := l.inOrder()
	slices.SortStableFunc(out, func(a, b core.Transaction) int {
		return b.OccurredOn.Compare(a.OccurredOn.Time)
	})
	return out
}

// Summary totals incoming and outgoing amounts.
func (l *Ledger) Summary() core.Summary {
	return core.Summarize(l.inOrder())
}

// SetPeriodLabel stores the trimmed label, or the default when blank.
func (l *Ledger) SetPeriodLabel(label string) {
	label = strings.TrimSpace(label)
	if label == "" {
		label = core.DefaultPeriodLabel
	}
	if label != l.periodLabel {
		l.periodLabel = label
		l.revision++
	}
}

func (l *Ledger) PeriodLabel() string {
	return l.periodLabel
}

func (l *Ledger) Len() int {
	return len(l.order)
}

// Revision increases with every successful mutation.
func (l *Ledger) Revision() uint64 {
	return l.revision
}

// Snapshot copies the persistable state.
func (l *Ledger) Snapshot() Snapshot {
	return Snapshot{Records: l.inOrder(), PeriodLabel: l.periodLabel}
}

// RestoreResult counts the records Restore could not take as stored.
type RestoreResult struct {
	// Skipped records had invalid fields and were dropped.
	Skipped int
	// Reassigned records had a duplicate or non-positive ID and received a
	// fresh one.
	Reassigned int
}

// Restore replaces the whole state with s. Records with invalid fields are
// skipped. The first record carrying an ID keeps it; later records with the
// same ID, and records without a positive ID, get fresh IDs above the highest
// stored one, keeping their position. The editing cursor is cleared.
func (l *Ledger) Restore(s Snapshot) RestoreResult {
	var res RestoreResult
	valid := make([]core.Transaction, 0, len(s.Records))
	var maxID int64
	for _, t := range s.Records {
		if t.Entry().Validate() != nil {
			res.Skipped++
			continue
		}
		valid = append(valid, t)
		maxID = max(maxID, t.ID)
	}

	records := make(map[int64]core.Transaction, len(valid))
	order := make([]int64, 0, len(valid))
	nextID := maxID + 1
	for _, t := range valid {
		if _, dup := records[t.ID]; dup || t.ID <= 0 {
			t.ID = nextID
			nextID++
			res.Reassigned++
		}
		records[t.ID] = t
		order = append(order, t.ID)
	}

	l.records = records
	l.order = order
	l.editingID = 0
	l.nextID = nextID
	l.periodLabel = core.DefaultPeriodLabel
	l.SetPeriodLabel(s.PeriodLabel)
	l.revision++
	return res
}

func (l *Ledger) inOrder() []core.Transaction {
	out := make([]core.Transaction, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.records[id])
	}
	return out
}

func newTransaction(id int64, e core.Entry) core.Transaction {
	return core.Transaction{
		ID:          id,
		Kind:        e.Kind,
		OccurredOn:  e.OccurredOn,
		Description: e.Description,
		Amount:      e.Amount,
	}
}
