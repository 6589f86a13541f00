package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashbook/internal/core"
	"cashbook/internal/events"
	"cashbook/internal/kv/memory"
	"cashbook/internal/persistence"
	"cashbook/internal/report"
)

type recordingPublisher struct {
	messages []*events.LedgerChangedMessage
	err      error
}

func (p *recordingPublisher) PublishLedgerChanged(_ context.Context, msg *events.LedgerChangedMessage) error {
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, msg)
	return nil
}

func (p *recordingPublisher) operations() []string {
	ops := make([]string, len(p.messages))
	for i, m := range p.messages {
		ops[i] = m.Operation
	}
	return ops
}

type brokenStore struct {
	*memory.Store
}

func (brokenStore) Set(context.Context, string, string) error {
	return errors.New("disk full")
}

func salary() core.Entry {
	return core.Entry{Kind: core.Incoming, OccurredOn: core.NewDate(2023, 5, 1), Description: "Salary", Amount: decimal.NewFromInt(50000)}
}

func rent() core.Entry {
	return core.Entry{Kind: core.Outgoing, OccurredOn: core.NewDate(2023, 5, 3), Description: "Rent", Amount: decimal.NewFromInt(15000)}
}

func newService(t *testing.T, store *memory.Store, opts ...Option) *LedgerService {
	t.Helper()
	s := NewLedgerService(persistence.NewAdapter(store, nil), opts...)
	require.NoError(t, s.Load(context.Background()))
	return s
}

func TestLedgerService_PersistsEveryMutation(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	pub := &recordingPublisher{}
	s := newService(t, store, WithPublisher(pub))

	a, err := s.Add(ctx, salary())
	require.NoError(t, err)
	b, err := s.Add(ctx, rent())
	require.NoError(t, err)

	_, err = s.Update(ctx, a.ID, core.Entry{Kind: core.Incoming, OccurredOn: core.NewDate(2023, 5, 2), Description: "Salary May", Amount: decimal.NewFromInt(51000)})
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, b.ID))
	label, err := s.SetPeriodLabel(ctx, " June 2023 ")
	require.NoError(t, err)
	assert.Equal(t, "June 2023", label)

	reloaded := newService(t, store)
	require.Equal(t, 1, reloaded.Len())
	got, err := reloaded.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Salary May", got.Description)
	assert.Equal(t, "June 2023", reloaded.PeriodLabel())

	assert.Equal(t, []string{"create", "create", "update", "delete", "set_period"}, pub.operations())
	assert.Equal(t, a.ID, pub.messages[2].TransactionID)
	for i := 1; i < len(pub.messages); i++ {
		assert.Greater(t, pub.messages[i].Revision, pub.messages[i-1].Revision)
	}
}

func TestLedgerService_Submit(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	s := newService(t, memory.New(), WithPublisher(pub))

	created, err := s.Submit(ctx, salary())
	require.NoError(t, err)

	_, err = s.BeginEdit(ctx, created.ID)
	require.NoError(t, err)
	id, editing := s.Editing()
	require.True(t, editing)
	assert.Equal(t, created.ID, id)

	updated, err := s.Submit(ctx, rent())
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 1, s.Len())
	_, editing = s.Editing()
	assert.False(t, editing)

	_, err = s.BeginEdit(ctx, created.ID)
	require.NoError(t, err)
	s.CancelEdit(ctx)
	_, err = s.Submit(ctx, salary())
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())

	assert.Equal(t, []string{"create", "update", "create"}, pub.operations())
}

func TestLedgerService_Errors(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	s := newService(t, memory.New(), WithPublisher(pub))

	_, err := s.Add(ctx, core.Entry{Kind: core.Outgoing, OccurredOn: core.NewDate(2023, 5, 1), Description: "x", Amount: decimal.Zero})
	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, core.FieldAmount, verr.Field)

	assert.ErrorIs(t, s.Delete(ctx, 99), core.ErrNotFound)
	_, err = s.Update(ctx, 99, salary())
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, err = s.BeginEdit(ctx, 99)
	assert.ErrorIs(t, err, core.ErrNotFound)

	assert.Empty(t, pub.messages, "failed mutations are not announced")
}

func TestLedgerService_WriteFailureKeepsChange(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	s := NewLedgerService(persistence.NewAdapter(brokenStore{memory.New()}, nil), WithPublisher(pub))
	require.NoError(t, s.Load(ctx))

	created, err := s.Add(ctx, salary())
	var werr *persistence.WriteError
	require.ErrorAs(t, err, &werr)
	assert.NotZero(t, created.ID)
	assert.Equal(t, 1, s.Len())
	assert.Empty(t, pub.messages, "unsaved changes are not announced")
}

func TestLedgerService_PublishFailureIsIgnored(t *testing.T) {
	s := newService(t, memory.New(), WithPublisher(&recordingPublisher{err: errors.New("broker down")}))

	_, err := s.Add(context.Background(), salary())
	assert.NoError(t, err)
	assert.Equal(t, 1, s.Len())
}

func TestLedgerService_UnchangedPeriodIsNotSaved(t *testing.T) {
	pub := &recordingPublisher{}
	s := newService(t, memory.New(), WithPublisher(pub))

	label, err := s.SetPeriodLabel(context.Background(), core.DefaultPeriodLabel)
	require.NoError(t, err)
	assert.Equal(t, core.DefaultPeriodLabel, label)
	assert.Empty(t, pub.messages)
}

func TestLedgerService_DefaultPeriod(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	s := newService(t, store, WithDefaultPeriod("June 2023"))
	assert.Equal(t, "June 2023", s.PeriodLabel())

	require.NoError(t, store.Set(ctx, persistence.KeyPeriodLabel, "July 2023"))
	s = newService(t, store, WithDefaultPeriod("June 2023"))
	assert.Equal(t, "July 2023", s.PeriodLabel(), "a stored label wins")

	require.NoError(t, store.Set(ctx, persistence.KeyPeriodLabel, core.DefaultPeriodLabel))
	s = newService(t, store, WithDefaultPeriod("June 2023"))
	assert.Equal(t, core.DefaultPeriodLabel, s.PeriodLabel(), "a stored label equal to the built-in default is kept")
}

func TestLedgerService_LoadKeepsRecordsWithCollidingIDs(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	raw := `[
		{"type":"incoming","rawDate":"2023-05-01","description":"Salary","amount":50000,"id":1683000000000},
		{"type":"outgoing","rawDate":"2023-05-01","description":"Coffee","amount":3,"id":1683000000000},
		{"type":"outgoing","rawDate":"2023-05-02","description":"` + strings.Repeat("long note ", 25) + `","amount":7,"id":1682000000000}
	]`
	require.NoError(t, store.Set(ctx, persistence.KeyRecords, raw))

	s := newService(t, store)
	require.Equal(t, 3, s.Len())

	_, err := s.Add(ctx, rent())
	require.NoError(t, err)

	reloaded := newService(t, store)
	assert.Equal(t, 4, reloaded.Len(), "no stored record is lost after the next save")
	seen := map[int64]bool{}
	for _, tx := range reloaded.List() {
		assert.False(t, seen[tx.ID], "ids are unique")
		seen[tx.ID] = true
	}
}

func TestLedgerService_LoadReportsUnreadableState(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Set(ctx, persistence.KeyRecords, "not json"))

	s := NewLedgerService(persistence.NewAdapter(store, nil))
	err := s.Load(ctx)
	var rerr *persistence.ReadError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, 0, s.Len())

	_, err = s.Add(ctx, salary())
	assert.NoError(t, err, "the ledger stays usable")
}

func TestLedgerService_ListSummaryReport(t *testing.T) {
	ctx := context.Background()
	s := newService(t, memory.New())
	_, err := s.Add(ctx, salary())
	require.NoError(t, err)
	_, err = s.Add(ctx, rent())
	require.NoError(t, err)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "Rent", list[0].Description)

	sum := s.Summary()
	assert.True(t, sum.Balance.Equal(decimal.NewFromInt(35000)))

	doc := s.Report(report.DefaultFormatter(), time.Date(2023, 5, 10, 9, 0, 0, 0, time.UTC))
	assert.Equal(t, core.DefaultPeriodLabel, doc.PeriodLabel)
	require.Len(t, doc.Rows, 2)
	assert.Equal(t, "Rent", doc.Rows[0].Description)
}
