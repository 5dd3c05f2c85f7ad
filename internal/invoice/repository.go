package invoice

import (
	"context"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/timebank/internal/ledger"
)

//go:generate mockgen -source=repository.go -destination=repository_mock.go -package=invoice

type Repository interface {
	CreateInvoice(ctx context.Context, inv *MaintenanceInvoice) error
	GetInvoice(ctx context.Context, id uuid.UUID) (*MaintenanceInvoice, error)
	// ListInvoices returns the invoices of a license, newest first.
	ListInvoices(ctx context.Context, licenseID uuid.UUID) ([]*MaintenanceInvoice, error)
	DeleteInvoice(ctx context.Context, id uuid.UUID) error
}

// Renderer turns a finalized invoice into a document and returns where it can be fetched.
type Renderer interface {
	Render(ctx context.Context, inv *MaintenanceInvoice) (string, error)
}

// LedgerReader supplies the ledger state an invoice is frozen from.
type LedgerReader interface {
	Snapshot(ctx context.Context, licenseID uuid.UUID) (*ledger.Snapshot, error)
}
