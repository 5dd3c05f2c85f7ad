// Package memstore keeps ledger entries in process memory. It backs the
// in-memory driver and the service tests.
package memstore

import (
	"context"
	"database/sql"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/timebank/internal/ledger"
)

var _ ledger.Repository = (*Store)(nil)

type account struct {
	mu           sync.RWMutex
	credits      map[uuid.UUID]*ledger.TimeCredit
	expenditures map[uuid.UUID]*ledger.TimeExpenditure
	deductions   []ledger.Deduction
}

type Store struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*account
	now      func() time.Time
}

func New() *Store {
	return &Store{
		accounts: make(map[uuid.UUID]*account),
		now:      time.Now,
	}
}

func (s *Store) account(licenseID uuid.UUID) *account {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[licenseID]
	if !ok {
		a = &account{
			credits:      make(map[uuid.UUID]*ledger.TimeCredit),
			expenditures: make(map[uuid.UUID]*ledger.TimeExpenditure),
		}
		s.accounts[licenseID] = a
	}

	return a
}

// Begin takes the license's write lock; it is held until Commit or Rollback.
func (s *Store) Begin(ctx context.Context, licenseID uuid.UUID) (ledger.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a := s.account(licenseID)
	a.mu.Lock()

	return &tx{
		now:          s.now,
		acct:         a,
		credits:      cloneMap(a.credits, cloneCredit),
		expenditures: cloneMap(a.expenditures, cloneExpenditure),
		deductions:   cloneDeductions(a.deductions),
	}, nil
}

func (s *Store) Snapshot(ctx context.Context, licenseID uuid.UUID) (*ledger.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a := s.account(licenseID)
	a.mu.RLock()
	defer a.mu.RUnlock()

	snap := &ledger.Snapshot{
		LicenseID:  licenseID,
		Deductions: cloneDeductions(a.deductions),
	}

	for _, c := range a.credits {
		snap.Credits = append(snap.Credits, cloneCredit(c))
	}

	for _, e := range a.expenditures {
		snap.Expenditures = append(snap.Expenditures, cloneExpenditure(e))
	}

	snap.Credits = ledger.SortCredits(snap.Credits)
	snap.Expenditures = ledger.SortExpenditures(snap.Expenditures)

	return snap, nil
}

// tx stages every write on private copies and publishes them on Commit.
type tx struct {
	now  func() time.Time
	acct *account
	done bool

	credits      map[uuid.UUID]*ledger.TimeCredit
	expenditures map[uuid.UUID]*ledger.TimeExpenditure
	deductions   []ledger.Deduction
}

func (t *tx) ListCredits(_ context.Context) ([]*ledger.TimeCredit, error) {
	out := make([]*ledger.TimeCredit, 0, len(t.credits))
	for _, c := range t.credits {
		out = append(out, cloneCredit(c))
	}

	return ledger.SortCredits(out), nil
}

func (t *tx) ListExpenditures(_ context.Context) ([]*ledger.TimeExpenditure, error) {
	out := make([]*ledger.TimeExpenditure, 0, len(t.expenditures))
	for _, e := range t.expenditures {
		out = append(out, cloneExpenditure(e))
	}

	return ledger.SortExpenditures(out), nil
}

func (t *tx) GetCredit(_ context.Context, id uuid.UUID) (*ledger.TimeCredit, error) {
	c, ok := t.credits[id]
	if !ok {
		return nil, &ledger.NotFoundError{Kind: "credit", ID: id}
	}

	return cloneCredit(c), nil
}

func (t *tx) CreateCredit(_ context.Context, c *ledger.TimeCredit) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	c.CreatedAt = t.now()
	t.credits[c.ID] = cloneCredit(c)

	return nil
}

func (t *tx) UpdateCredit(_ context.Context, c *ledger.TimeCredit) error {
	if _, ok := t.credits[c.ID]; !ok {
		return &ledger.NotFoundError{Kind: "credit", ID: c.ID}
	}

	c.UpdatedAt = new(t.now())
	t.credits[c.ID] = cloneCredit(c)

	return nil
}

func (t *tx) DeleteCredit(_ context.Context, id uuid.UUID) error {
	if _, ok := t.credits[id]; !ok {
		return &ledger.NotFoundError{Kind: "credit", ID: id}
	}

	delete(t.credits, id)

	return nil
}

func (t *tx) GetExpenditure(_ context.Context, id uuid.UUID) (*ledger.TimeExpenditure, error) {
	e, ok := t.expenditures[id]
	if !ok {
		return nil, &ledger.NotFoundError{Kind: "expenditure", ID: id}
	}

	return cloneExpenditure(e), nil
}

func (t *tx) CreateExpenditure(_ context.Context, e *ledger.TimeExpenditure) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	e.CreatedAt = t.now()
	t.expenditures[e.ID] = cloneExpenditure(e)

	return nil
}

func (t *tx) UpdateExpenditure(_ context.Context, e *ledger.TimeExpenditure) error {
	if _, ok := t.expenditures[e.ID]; !ok {
		return &ledger.NotFoundError{Kind: "expenditure", ID: e.ID}
	}

	e.UpdatedAt = new(t.now())
	t.expenditures[e.ID] = cloneExpenditure(e)

	return nil
}

func (t *tx) DeleteExpenditure(_ context.Context, id uuid.UUID) error {
	if _, ok := t.expenditures[id]; !ok {
		return &ledger.NotFoundError{Kind: "expenditure", ID: id}
	}

	delete(t.expenditures, id)

	return nil
}

func (t *tx) ReplaceDeductions(_ context.Context, deductions []ledger.Deduction) error {
	t.deductions = cloneDeductions(deductions)
	return nil
}

func (t *tx) Commit() error {
	if t.done {
		return sql.ErrTxDone
	}

	t.acct.credits = t.credits
	t.acct.expenditures = t.expenditures
	t.acct.deductions = t.deductions
	t.finish()

	return nil
}

func (t *tx) Rollback() error {
	if t.done {
		return sql.ErrTxDone
	}

	t.finish()

	return nil
}

func (t *tx) finish() {
	t.done = true
	t.acct.mu.Unlock()
}

func cloneMap[T any](m map[uuid.UUID]*T, clone func(*T) *T) map[uuid.UUID]*T {
	out := maps.Clone(m)
	for k, v := range out {
		out[k] = clone(v)
	}

	return out
}

func cloneCredit(c *ledger.TimeCredit) *ledger.TimeCredit {
	out := *c
	if c.UpdatedAt != nil {
		out.UpdatedAt = new(*c.UpdatedAt)
	}

	return &out
}

func cloneExpenditure(e *ledger.TimeExpenditure) *ledger.TimeExpenditure {
	out := *e
	if e.Time != nil {
		out.Time = new(*e.Time)
	}

	if e.UpdatedAt != nil {
		out.UpdatedAt = new(*e.UpdatedAt)
	}

	return &out
}

func cloneDeductions(ds []ledger.Deduction) []ledger.Deduction {
	out := slices.Clone(ds)
	for i, d := range out {
		if d.CreditID != nil {
			out[i].CreditID = new(*d.CreditID)
		}
	}

	return out
}
