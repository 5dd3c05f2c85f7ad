package ledger

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockgen -source=repository.go -destination=repository_mock.go -package=ledger

// Repository stores the ledger entries of every license.
type Repository interface {
	// Begin opens a mutation scope for one license. Scopes for the same license
	// are serialized; scopes for different licenses run in parallel.
	Begin(ctx context.Context, licenseID uuid.UUID) (Tx, error)

	// Snapshot reads a license's ledger without observing half-applied mutations.
	Snapshot(ctx context.Context, licenseID uuid.UUID) (*Snapshot, error)
}

// Tx is a mutation scope bound to a single license. Nothing written through it
// is visible to others until Commit.
type Tx interface {
	ListCredits(ctx context.Context) ([]*TimeCredit, error)
	ListExpenditures(ctx context.Context) ([]*TimeExpenditure, error)

	GetCredit(ctx context.Context, id uuid.UUID) (*TimeCredit, error)
	CreateCredit(ctx context.Context, c *TimeCredit) error
	UpdateCredit(ctx context.Context, c *TimeCredit) error
	DeleteCredit(ctx context.Context, id uuid.UUID) error

	GetExpenditure(ctx context.Context, id uuid.UUID) (*TimeExpenditure, error)
	CreateExpenditure(ctx context.Context, e *TimeExpenditure) error
	UpdateExpenditure(ctx context.Context, e *TimeExpenditure) error
	DeleteExpenditure(ctx context.Context, id uuid.UUID) error

	ReplaceDeductions(ctx context.Context, deductions []Deduction) error

	Commit() error
	Rollback() error
}
