package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"cashbook/internal/core"
)

// record is the stored shape of a transaction:
// {type, date, rawDate, description, amount, id}.
type record struct {
	Type        string      `json:"type"`
	Date        string      `json:"date"`
	RawDate     string      `json:"rawDate"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	ID          json.Number `json:"id"`
}

func toRecord(t core.Transaction) record {
	return record{
		Type:        t.Kind.String(),
		Date:        t.DisplayDate(),
		RawDate:     t.OccurredOn.String(),
		Description: t.Description,
		Amount:      json.Number(t.Amount.String()),
		ID:          json.Number(fmt.Sprint(t.ID)),
	}
}

// transaction converts a stored record back, checking every field. The
// stored display date is ignored and recomputed from rawDate. A missing or
// malformed id comes back as 0 so the ledger assigns a fresh one.
func (r record) transaction() (core.Transaction, error) {
	id, err := r.ID.Int64()
	if err != nil || id < 0 {
		id = 0
	}
	kind, err := core.ParseKind(r.Type)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("record %d: %w", id, err)
	}
	date, err := core.ParseDate(r.RawDate)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("record %d: %w", id, err)
	}
	amount, err := decimal.NewFromString(r.Amount.String())
	if err != nil {
		return core.Transaction{}, fmt.Errorf("record %d: %w", id, core.ErrInvalidAmount)
	}
	e := core.Entry{Kind: kind, OccurredOn: date, Description: r.Description, Amount: amount}
	if err := e.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("record %d: %w", id, err)
	}
	return core.Transaction{
		ID:          id,
		Kind:        e.Kind,
		OccurredOn:  e.OccurredOn,
		Description: e.Description,
		Amount:      e.Amount,
	}, nil
}
