package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cashbook/internal/core"
	"cashbook/internal/events"
	"cashbook/internal/ledger"
	"cashbook/internal/log"
	"cashbook/internal/persistence"
	"cashbook/internal/report"
)

// Publisher announces persisted ledger changes.
type Publisher interface {
	PublishLedgerChanged(ctx context.Context, msg *events.LedgerChangedMessage) error
}

// LedgerService orchestrates ledger mutations across persistence and AMQP.
// Every successful mutation is saved; a save failure is returned as a
// *persistence.WriteError next to the mutated record, and the in-memory
// ledger keeps the change. Publishing happens only after a successful save
// and never fails the operation.
type LedgerService struct {
	ledger    *ledger.Ledger
	store     *persistence.Adapter
	publisher Publisher
	logger    *log.Logger

	defaultPeriod string
}

// Option configures a LedgerService.
type Option func(*LedgerService)

// WithPublisher enables change notifications.
func WithPublisher(p Publisher) Option {
	return func(s *LedgerService) { s.publisher = p }
}

// WithLogger sets the service logger.
func WithLogger(l *log.Logger) Option {
	return func(s *LedgerService) { s.logger = l }
}

// WithDefaultPeriod sets the label used when the store holds none.
func WithDefaultPeriod(label string) Option {
	return func(s *LedgerService) { s.defaultPeriod = label }
}

func NewLedgerService(store *persistence.Adapter, opts ...Option) *LedgerService {
	s := &LedgerService{
		ledger: ledger.New(),
		store:  store,
		logger: log.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent(log.ComponentLedger)
	return s
}

// Load replaces the in-memory ledger with the stored state. The ledger is
// usable even when an error is returned; the error describes what could not
// be read.
func (s *LedgerService) Load(ctx context.Context) error {
	snap, err := s.store.Load(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "Stored ledger partially unreadable",
			log.FieldOperation, log.OpLoad,
			log.FieldError, err)
	}
	if strings.TrimSpace(snap.PeriodLabel) == "" {
		snap.PeriodLabel = s.defaultPeriod
	}

	res := s.ledger.Restore(snap)
	if res.Skipped > 0 || res.Reassigned > 0 {
		s.logger.WarnContext(ctx, "Stored records needed repair",
			log.FieldOperation, log.OpLoad,
			"skipped", res.Skipped,
			"reassigned", res.Reassigned)
	}
	s.logger.DebugContext(ctx, "Ledger loaded",
		log.FieldRecords, s.ledger.Len(),
		log.FieldPeriod, s.ledger.PeriodLabel())
	return err
}

// Add validates and inserts a new transaction.
func (s *LedgerService) Add(ctx context.Context, e core.Entry) (core.Transaction, error) {
	t, err := s.ledger.Add(e)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}
	return t, s.commit(ctx, log.OpCreate, t)
}

// Update replaces the fields of the transaction identified by id.
func (s *LedgerService) Update(ctx context.Context, id int64, e core.Entry) (core.Transaction, error) {
	t, err := s.ledger.Update(id, e)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	return t, s.commit(ctx, log.OpUpdate, t)
}

// Delete removes the transaction identified by id.
func (s *LedgerService) Delete(ctx context.Context, id int64) error {
	if err := s.ledger.Delete(id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return s.commit(ctx, log.OpDelete, core.Transaction{ID: id})
}

// Submit commits a form: the record under revision is replaced when an
// edit is in progress, otherwise a new record is added.
func (s *LedgerService) Submit(ctx context.Context, e core.Entry) (core.Transaction, error) {
	if id, ok := s.ledger.Editing(); ok {
		return s.Update(ctx, id, e)
	}
	return s.Add(ctx, e)
}

// BeginEdit moves the editing cursor to id and returns the record to
// pre-fill the form with.
func (s *LedgerService) BeginEdit(ctx context.Context, id int64) (core.Transaction, error) {
	t, err := s.ledger.BeginEdit(id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("begin edit: %w", err)
	}
	s.logger.DebugContext(ctx, "Editing transaction",
		log.FieldOperation, log.OpBeginEdit,
		log.FieldTransactionID, id)
	return t, nil
}

func (s *LedgerService) CancelEdit(ctx context.Context) {
	s.ledger.CancelEdit()
	s.logger.DebugContext(ctx, "Edit cancelled", log.FieldOperation, log.OpCancelEdit)
}

func (s *LedgerService) Editing() (int64, bool) {
	return s.ledger.Editing()
}

func (s *LedgerService) Get(id int64) (core.Transaction, error) {
	return s.ledger.Get(id)
}

// SetPeriodLabel stores the label shown on reports. A blank label resets it
// to the default. It returns the effective label.
func (s *LedgerService) SetPeriodLabel(ctx context.Context, label string) (string, error) {
	before := s.ledger.Revision()
	s.ledger.SetPeriodLabel(label)
	if s.ledger.Revision() == before {
		return s.ledger.PeriodLabel(), nil
	}
	return s.ledger.PeriodLabel(), s.commit(ctx, log.OpSetPeriod, core.Transaction{})
}

func (s *LedgerService) PeriodLabel() string {
	return s.ledger.PeriodLabel()
}

// List returns every transaction, most recent first.
func (s *LedgerService) List() []core.Transaction {
	return s.ledger.ListSorted()
}

func (s *LedgerService) Summary() core.Summary {
	return s.ledger.Summary()
}

func (s *LedgerService) Len() int {
	return s.ledger.Len()
}

// Report builds the export document for the current state.
func (s *LedgerService) Report(f report.Formatter, now time.Time) report.Document {
	return report.Build(s.ledger, f, now)
}

func (s *LedgerService) commit(ctx context.Context, op string, t core.Transaction) error {
	fields := log.NewFields().
		WithOperation(op).
		WithRevision(s.ledger.Revision())
	if t.ID != 0 {
		fields[log.FieldTransactionID] = t.ID
	}

	if err := s.store.Save(ctx, s.ledger.Snapshot()); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist ledger",
			fields.WithError(err).WithErrorType(log.ErrorTypeDatabase).ToSlice()...)
		return err
	}
	s.logger.InfoContext(ctx, "Ledger updated", fields.ToSlice()...)

	s.publish(ctx, op, t.ID)
	return nil
}

func (s *LedgerService) publish(ctx context.Context, op string, id int64) {
	if s.publisher == nil {
		return
	}
	msg := events.NewLedgerChangedMessage(op, id, s.ledger.Revision())
	if err := s.publisher.PublishLedgerChanged(ctx, msg); err != nil {
		level := s.logger.WarnContext
		if errors.Is(err, events.ErrCircuitOpen) {
			level = s.logger.DebugContext
		}
		level(ctx, "Failed to publish ledger change",
			log.FieldOperation, op,
			log.FieldMessageID, msg.MessageID,
			log.FieldError, err)
	}
}
