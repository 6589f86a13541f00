// Package persistence mirrors ledger state into a kv.Store using the
// localStorage layout of the browser tracker: the period label under
// "expenseMonth" and a JSON array of records under "expenses".
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cashbook/internal/core"
	"cashbook/internal/kv"
	"cashbook/internal/ledger"
	"cashbook/internal/log"
)

const (
	KeyPeriodLabel = "expenseMonth"
	KeyRecords     = "expenses"
)

// Adapter saves and loads ledger snapshots. Nothing is written implicitly:
// callers save after every mutation that should survive a restart.
type Adapter struct {
	store  kv.Store
	logger *log.Logger
}

func NewAdapter(store kv.Store, logger *log.Logger) *Adapter {
	if logger == nil {
		logger = log.Discard()
	}
	return &Adapter{store: store, logger: logger.WithComponent(log.ComponentPersistence)}
}

// Save writes the period label, then the records. The two writes are
// independent; a failure of either is reported as a *WriteError.
func (a *Adapter) Save(ctx context.Context, s ledger.Snapshot) error {
	if err := a.store.Set(ctx, KeyPeriodLabel, s.PeriodLabel); err != nil {
		return &WriteError{Key: KeyPeriodLabel, Err: err}
	}

	records := make([]record, 0, len(s.Records))
	for _, t := range s.Records {
		records = append(records, toRecord(t))
	}
	data, err := json.Marshal(records)
	if err != nil {
		return &WriteError{Key: KeyRecords, Err: fmt.Errorf("marshal records: %w", err)}
	}
	if err := a.store.Set(ctx, KeyRecords, string(data)); err != nil {
		return &WriteError{Key: KeyRecords, Err: err}
	}

	a.logger.DebugContext(ctx, "Ledger saved",
		log.FieldOperation, log.OpSave,
		log.FieldRecords, len(records),
		log.FieldPeriod, s.PeriodLabel)
	return nil
}

// Load reads both entries. The returned snapshot is always usable: a missing
// or blank label is left empty so the caller can pick a default, a missing or
// unreadable records entry yields no records. Problems are reported as
// *ReadError values joined together.
func (a *Adapter) Load(ctx context.Context) (ledger.Snapshot, error) {
	var errs []error
	var snap ledger.Snapshot

	label, found, err := a.store.Get(ctx, KeyPeriodLabel)
	switch {
	case err != nil:
		errs = append(errs, &ReadError{Key: KeyPeriodLabel, Err: err})
	case found:
		snap.PeriodLabel = strings.TrimSpace(label)
	}

	records, err := a.loadRecords(ctx)
	if err != nil {
		errs = append(errs, err)
	}
	snap.Records = records

	if len(errs) > 0 {
		err := errors.Join(errs...)
		a.logger.WarnContext(ctx, "Ledger state partially recovered",
			log.FieldOperation, log.OpLoad,
			log.FieldError, err)
		return snap, err
	}

	a.logger.DebugContext(ctx, "Ledger loaded",
		log.FieldOperation, log.OpLoad,
		log.FieldRecords, len(snap.Records),
		log.FieldPeriod, snap.PeriodLabel)
	return snap, nil
}

func (a *Adapter) loadRecords(ctx context.Context) ([]core.Transaction, error) {
	raw, found, err := a.store.Get(ctx, KeyRecords)
	if err != nil {
		return nil, &ReadError{Key: KeyRecords, Err: err}
	}
	if !found || raw == "" {
		return nil, nil
	}

	var stored []record
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, &ReadError{Key: KeyRecords, Err: fmt.Errorf("parse records: %w", err)}
	}

	out := make([]core.Transaction, 0, len(stored))
	for i, r := range stored {
		t, err := r.transaction()
		if err != nil {
			a.logger.WarnContext(ctx, "Skipping stored record",
				"index", i,
				log.FieldError, err)
			continue
		}
		out = append(out, t)
	}
	return out, nil
}
