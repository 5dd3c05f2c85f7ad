package invoice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/timebank/internal/metrics"
)

type Service struct {
	repo     Repository
	ledger   LedgerReader
	renderer Renderer
	logger   *slog.Logger
	now      func() time.Time
}

type Option func(*Service)

// WithRenderer attaches a document renderer. Without one invoices are stored
// with an empty document reference.
func WithRenderer(r Renderer) Option {
	return func(s *Service) {
		s.renderer = r
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo Repository, ledger LedgerReader, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		ledger: ledger,
		logger: slog.Default(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Generate freezes the ledger window into a new invoice. The document is
// rendered before the invoice is stored; if rendering fails nothing is stored.
func (s *Service) Generate(ctx context.Context, licenseID uuid.UUID, params GenerateParams) (inv *MaintenanceInvoice, err error) {
	defer func() {
		result := metrics.ResultOK
		if err != nil {
			result = metrics.ResultError
		}

		metrics.InvoicesGenerated.WithLabelValues(result).Inc()
	}()

	if err := params.Validate(); err != nil {
		return nil, err
	}

	snap, err := s.ledger.Snapshot(ctx, licenseID)
	if err != nil {
		return nil, fmt.Errorf("reading ledger: %w", err)
	}

	inv = Build(snap, params)
	inv.ID = uuid.New()
	inv.CreatedAt = s.now().UTC()

	if s.renderer != nil {
		ref, err := s.renderer.Render(ctx, inv)
		if err != nil {
			s.logger.Error("rendering invoice", "invoice_id", inv.ID, "license_id", licenseID, "error", err)
			return nil, fmt.Errorf("rendering invoice: %w", err)
		}

		inv.DocumentReference = ref
	}

	if err := s.repo.CreateInvoice(ctx, inv); err != nil {
		return nil, fmt.Errorf("storing invoice: %w", err)
	}

	s.logger.Info("invoice generated",
		"invoice_id", inv.ID,
		"license_id", licenseID,
		"balance", inv.Balance.String(),
	)

	return inv, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*MaintenanceInvoice, error) {
	return s.repo.GetInvoice(ctx, id)
}

func (s *Service) List(ctx context.Context, licenseID uuid.UUID) ([]*MaintenanceInvoice, error) {
	return s.repo.ListInvoices(ctx, licenseID)
}

// Delete removes the invoice snapshot only; the ledger is never touched.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteInvoice(ctx, id)
}
