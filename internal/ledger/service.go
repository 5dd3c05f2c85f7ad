package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/timebank/internal/metrics"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for mutation and invariant reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock overrides the clock used for expiry and activity flags.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		logger: slog.Default(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CreditView is a credit with its derived fields as of a given day.
type CreditView struct {
	*TimeCredit
	RemainingHours decimal.Decimal
	IsExpired      bool
	IsActive       bool
}

// ExpenditureView is an expenditure with the deductions it produced.
type ExpenditureView struct {
	*TimeExpenditure
	Deductions []Deduction
}

func (s *Service) AddCredit(ctx context.Context, licenseID uuid.UUID, params CreditParams) (*TimeCredit, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	credit := &TimeCredit{LicenseID: licenseID}
	params.apply(credit)

	err := s.mutate(ctx, licenseID, "add_credit", func(tx Tx) error {
		return tx.CreateCredit(ctx, credit)
	})
	if err != nil {
		return nil, err
	}

	return credit, nil
}

func (s *Service) UpdateCredit(ctx context.Context, licenseID, id uuid.UUID, params CreditParams) (*TimeCredit, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	var credit *TimeCredit

	err := s.mutate(ctx, licenseID, "update_credit", func(tx Tx) error {
		var err error

		credit, err = tx.GetCredit(ctx, id)
		if err != nil {
			return err
		}

		params.apply(credit)

		return tx.UpdateCredit(ctx, credit)
	})
	if err != nil {
		return nil, err
	}

	return credit, nil
}

// PatchCredit applies patch to the stored fields of a credit and saves the
// result, all under the license lock.
func (s *Service) PatchCredit(ctx context.Context, licenseID, id uuid.UUID, patch func(*CreditParams)) (*TimeCredit, error) {
	var credit *TimeCredit

	err := s.mutate(ctx, licenseID, "patch_credit", func(tx Tx) error {
		var err error

		credit, err = tx.GetCredit(ctx, id)
		if err != nil {
			return err
		}

		params := credit.Params()
		patch(&params)

		if err := params.Validate(); err != nil {
			return err
		}

		params.apply(credit)

		return tx.UpdateCredit(ctx, credit)
	})
	if err != nil {
		return nil, err
	}

	return credit, nil
}

// DeleteCredit removes a credit; expenditures it covered are re-allocated to
// the remaining credits or become debt.
func (s *Service) DeleteCredit(ctx context.Context, licenseID, id uuid.UUID) error {
	return s.mutate(ctx, licenseID, "delete_credit", func(tx Tx) error {
		return tx.DeleteCredit(ctx, id)
	})
}

func (s *Service) AddExpenditure(ctx context.Context, licenseID uuid.UUID, params ExpenditureParams) (*TimeExpenditure, error) {
	exps, err := s.addExpenditures(ctx, licenseID, "add_expenditure", []ExpenditureParams{params}, params.Validate)
	if err != nil {
		return nil, err
	}

	return exps[0], nil
}

// AddExpenditures stores a batch of expenditures atomically: either every row
// is valid and stored, or nothing is.
func (s *Service) AddExpenditures(ctx context.Context, licenseID uuid.UUID, params []ExpenditureParams) ([]*TimeExpenditure, error) {
	if len(params) == 0 {
		return nil, nil
	}

	return s.addExpenditures(ctx, licenseID, "add_expenditures", params, func() error {
		return validateBatch(params)
	})
}

func (s *Service) addExpenditures(
	ctx context.Context,
	licenseID uuid.UUID,
	op string,
	params []ExpenditureParams,
	validate func() error,
) ([]*TimeExpenditure, error) {
	if err := validate(); err != nil {
		return nil, err
	}

	exps := make([]*TimeExpenditure, len(params))
	for i, p := range params {
		exps[i] = &TimeExpenditure{LicenseID: licenseID}
		p.apply(exps[i])
	}

	err := s.mutate(ctx, licenseID, op, func(tx Tx) error {
		for _, e := range exps {
			if err := tx.CreateExpenditure(ctx, e); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return exps, nil
}

func (s *Service) UpdateExpenditure(ctx context.Context, licenseID, id uuid.UUID, params ExpenditureParams) (*TimeExpenditure, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	var exp *TimeExpenditure

	err := s.mutate(ctx, licenseID, "update_expenditure", func(tx Tx) error {
		var err error

		exp, err = tx.GetExpenditure(ctx, id)
		if err != nil {
			return err
		}

		params.apply(exp)

		return tx.UpdateExpenditure(ctx, exp)
	})
	if err != nil {
		return nil, err
	}

	return exp, nil
}

func (s *Service) PatchExpenditure(ctx context.Context, licenseID, id uuid.UUID, patch func(*ExpenditureParams)) (*TimeExpenditure, error) {
	var exp *TimeExpenditure

	err := s.mutate(ctx, licenseID, "patch_expenditure", func(tx Tx) error {
		var err error

		exp, err = tx.GetExpenditure(ctx, id)
		if err != nil {
			return err
		}

		params := exp.Params()
		patch(&params)

		if err := params.Validate(); err != nil {
			return err
		}

		params.apply(exp)

		return tx.UpdateExpenditure(ctx, exp)
	})
	if err != nil {
		return nil, err
	}

	return exp, nil
}

func (s *Service) DeleteExpenditure(ctx context.Context, licenseID, id uuid.UUID) error {
	return s.mutate(ctx, licenseID, "delete_expenditure", func(tx Tx) error {
		return tx.DeleteExpenditure(ctx, id)
	})
}

// Reallocate rebuilds the stored deductions of a license from its entries.
func (s *Service) Reallocate(ctx context.Context, licenseID uuid.UUID) ([]Deduction, error) {
	var deductions []Deduction

	err := s.mutate(ctx, licenseID, "reallocate", func(tx Tx) error {
		return nil
	}, func(d []Deduction) {
		deductions = d
	})
	if err != nil {
		return nil, err
	}

	return deductions, nil
}

// mutate runs fn and the re-allocation it triggers inside one serialized
// scope. The scope is committed only if both succeed.
func (s *Service) mutate(ctx context.Context, licenseID uuid.UUID, op string, fn func(Tx) error, observe ...func([]Deduction)) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveMutation(op, mutationResult(err), start) }()

	tx, err := s.repo.Begin(ctx, licenseID)
	if err != nil {
		return fmt.Errorf("begin %s: %w", op, err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	deductions, err := s.allocate(ctx, licenseID, tx)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", op, err)
	}

	for _, o := range observe {
		o(deductions)
	}

	s.logger.Debug("ledger mutation committed",
		"license_id", licenseID,
		"op", op,
		"deductions", len(deductions),
	)

	return nil
}

func (s *Service) allocate(ctx context.Context, licenseID uuid.UUID, tx Tx) ([]Deduction, error) {
	credits, err := tx.ListCredits(ctx)
	if err != nil {
		return nil, fmt.Errorf("list credits: %w", err)
	}

	exps, err := tx.ListExpenditures(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenditures: %w", err)
	}

	deductions := Allocate(credits, exps)

	if err := Reconcile(licenseID, credits, exps, deductions); err != nil {
		metrics.LedgerInvariantViolations.Inc()
		s.logger.Error("allocation failed reconciliation", "license_id", licenseID, "error", err)
		return nil, err
	}

	if err := tx.ReplaceDeductions(ctx, deductions); err != nil {
		return nil, fmt.Errorf("replace deductions: %w", err)
	}

	return deductions, nil
}

func mutationResult(err error) string {
	var ve *ValidationError

	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.As(err, &ve):
		return metrics.ResultInvalid
	case errors.Is(err, ErrNotFound):
		return metrics.ResultNotFound
	default:
		return metrics.ResultError
	}
}

// Snapshot returns a consistent view of a license's ledger.
func (s *Service) Snapshot(ctx context.Context, licenseID uuid.UUID) (*Snapshot, error) {
	snap, err := s.repo.Snapshot(ctx, licenseID)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	return snap, nil
}

func (s *Service) GetBalance(ctx context.Context, licenseID uuid.UUID) (Balance, error) {
	snap, err := s.Snapshot(ctx, licenseID)
	if err != nil {
		return Balance{}, err
	}

	return snap.Balance(), nil
}

func (s *Service) Settlements(ctx context.Context, licenseID uuid.UUID) ([]Settlement, error) {
	snap, err := s.Snapshot(ctx, licenseID)
	if err != nil {
		return nil, err
	}

	return snap.Settlements(), nil
}

func (s *Service) ListDeductions(ctx context.Context, licenseID uuid.UUID) ([]Deduction, error) {
	snap, err := s.Snapshot(ctx, licenseID)
	if err != nil {
		return nil, err
	}

	return snap.Deductions, nil
}

// ListCredits returns the credits in allocation order with derived fields as
// of today. A zero today uses the service clock.
func (s *Service) ListCredits(ctx context.Context, licenseID uuid.UUID, today time.Time) ([]CreditView, error) {
	snap, err := s.Snapshot(ctx, licenseID)
	if err != nil {
		return nil, err
	}

	return s.creditViews(snap, today), nil
}

func (s *Service) GetCredit(ctx context.Context, licenseID, id uuid.UUID, today time.Time) (*CreditView, error) {
	snap, err := s.Snapshot(ctx, licenseID)
	if err != nil {
		return nil, err
	}

	for _, v := range s.creditViews(snap, today) {
		if v.ID == id {
			return &v, nil
		}
	}

	return nil, &NotFoundError{Kind: "credit", ID: id}
}

func (s *Service) creditViews(snap *Snapshot, today time.Time) []CreditView {
	if today.IsZero() {
		today = s.now()
	}

	remaining := RemainingHours(snap.Credits, snap.Deductions)
	ordered := SortCredits(snap.Credits)

	views := make([]CreditView, len(ordered))
	for i, c := range ordered {
		views[i] = CreditView{
			TimeCredit:     c,
			RemainingHours: remaining[c.ID],
			IsExpired:      c.IsExpired(today),
			IsActive:       c.IsActive(today),
		}
	}

	return views
}

// ListExpenditures returns the expenditures in allocation order with their deductions.
func (s *Service) ListExpenditures(ctx context.Context, licenseID uuid.UUID) ([]ExpenditureView, error) {
	snap, err := s.Snapshot(ctx, licenseID)
	if err != nil {
		return nil, err
	}

	return expenditureViews(snap), nil
}

func (s *Service) GetExpenditure(ctx context.Context, licenseID, id uuid.UUID) (*ExpenditureView, error) {
	snap, err := s.Snapshot(ctx, licenseID)
	if err != nil {
		return nil, err
	}

	for _, v := range expenditureViews(snap) {
		if v.ID == id {
			return &v, nil
		}
	}

	return nil, &NotFoundError{Kind: "expenditure", ID: id}
}

func expenditureViews(snap *Snapshot) []ExpenditureView {
	byExpenditure := make(map[uuid.UUID][]Deduction, len(snap.Expenditures))
	for _, d := range snap.Deductions {
		byExpenditure[d.ExpenditureID] = append(byExpenditure[d.ExpenditureID], d)
	}

	ordered := SortExpenditures(snap.Expenditures)

	views := make([]ExpenditureView, len(ordered))
	for i, e := range ordered {
		views[i] = ExpenditureView{TimeExpenditure: e, Deductions: byExpenditure[e.ID]}
	}

	return views
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
