package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Incoming Kind = "incoming"
	Outgoing Kind = "outgoing"
)

const (
	// DefaultPeriodLabel is used whenever the period label is unset or blank.
	DefaultPeriodLabel = "May 2023"

	// ISODateLayout is the machine-sortable form dates are stored in.
	ISODateLayout = "2006-01-02"

	// DisplayDateLayout renders dates the way the summary table shows them.
	DisplayDateLayout = "Jan 2, 2006"
)

type (
	Kind string

	Date struct {
		time.Time
	}

	// Entry is the user-supplied content of a transaction, as accepted by
	// the ledger when adding or replacing a record.
	Entry struct {
		Kind        Kind
		OccurredOn  Date
		Description string
		Amount      decimal.Decimal
	}

	Transaction struct {
		ID          int64
		Kind        Kind
		OccurredOn  Date
		Description string
		Amount      decimal.Decimal
	}
)

var (
	ErrInvalidKind      = errors.New("invalid kind")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
)

// ParseKind accepts "incoming"/"outgoing" in any letter case.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", ErrInvalidKind
	}
	return k, nil
}

func (k Kind) Valid() bool {
	switch k {
	case Incoming, Outgoing:
		return true
	default:
		return false
	}
}

// Label returns the capitalised form used in tables and reports.
func (k Kind) Label() string {
	switch k {
	case Incoming:
		return "Incoming"
	case Outgoing:
		return "Outgoing"
	default:
		return string(k)
	}
}

func (k Kind) String() string {
	return string(k)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(ISODateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String returns the ISO form, e.g. 2023-05-01.
func (d Date) String() string {
	return d.Format(ISODateLayout)
}

// Display returns the en-US short form, e.g. May 1, 2023.
func (d Date) Display() string {
	return d.Format(DisplayDateLayout)
}

func (e Entry) Validate() error {
	if !e.Kind.Valid() {
		return &ValidationError{Field: FieldKind, Err: ErrInvalidKind}
	}
	if err := e.OccurredOn.Validate(); err != nil {
		return &ValidationError{Field: FieldDate, Err: err}
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return &ValidationError{Field: FieldDescription, Err: ErrEmptyDescription}
	}
	if !e.Amount.IsPositive() {
		return &ValidationError{Field: FieldAmount, Err: ErrInvalidAmount}
	}
	return nil
}

// ParseEntry converts raw form values into a validated Entry.
func ParseEntry(kind, date, description, amount string) (Entry, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return Entry{}, &ValidationError{Field: FieldKind, Err: err}
	}
	d, err := ParseDate(date)
	if err != nil {
		return Entry{}, &ValidationError{Field: FieldDate, Err: err}
	}
	a, err := ParseAmount(amount)
	if err != nil {
		return Entry{}, &ValidationError{Field: FieldAmount, Err: err}
	}
	e := Entry{Kind: k, OccurredOn: d, Description: description, Amount: a}
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// DisplayDate is always derived from OccurredOn.
func (t Transaction) DisplayDate() string {
	return t.OccurredOn.Display()
}

// Entry returns the mutable part of the transaction, e.g. to pre-fill an
// edit form.
func (t Transaction) Entry() Entry {
	return Entry{
		Kind:        t.Kind,
		OccurredOn:  t.OccurredOn,
		Description: t.Description,
		Amount:      t.Amount,
	}
}
