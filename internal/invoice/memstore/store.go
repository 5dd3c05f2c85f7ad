package memstore

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/timebank/internal/invoice"
	"github.com/MrJamesThe3rd/timebank/internal/ledger"
)

var _ invoice.Repository = (*Store)(nil)

type Store struct {
	mu       sync.RWMutex
	invoices map[uuid.UUID]*invoice.MaintenanceInvoice
}

func New() *Store {
	return &Store{invoices: make(map[uuid.UUID]*invoice.MaintenanceInvoice)}
}

func (s *Store) CreateInvoice(_ context.Context, inv *invoice.MaintenanceInvoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}

	s.invoices[inv.ID] = clone(inv)

	return nil
}

func (s *Store) GetInvoice(_ context.Context, id uuid.UUID) (*invoice.MaintenanceInvoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, ok := s.invoices[id]
	if !ok {
		return nil, &ledger.NotFoundError{Kind: "invoice", ID: id}
	}

	return clone(inv), nil
}

func (s *Store) ListInvoices(_ context.Context, licenseID uuid.UUID) ([]*invoice.MaintenanceInvoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*invoice.MaintenanceInvoice

	for _, inv := range s.invoices {
		if inv.LicenseID == licenseID {
			out = append(out, clone(inv))
		}
	}

	slices.SortFunc(out, func(a, b *invoice.MaintenanceInvoice) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}

		return slices.Compare(b.ID[:], a.ID[:])
	})

	return out, nil
}

func (s *Store) DeleteInvoice(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.invoices[id]; !ok {
		return &ledger.NotFoundError{Kind: "invoice", ID: id}
	}

	delete(s.invoices, id)

	return nil
}

func clone(inv *invoice.MaintenanceInvoice) *invoice.MaintenanceInvoice {
	out := *inv
	out.LineItems = slices.Clone(inv.LineItems)

	return &out
}
