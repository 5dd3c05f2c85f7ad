package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/timebank/internal/invoice"
	"github.com/MrJamesThe3rd/timebank/internal/ledger"
)

var _ invoice.Repository = (*Store)(nil)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectInvoiceColumns = `
	id, license_id, invoice_number, start_date, end_date, total_credits, total_expenditures,
	balance, line_items, document_reference, created_at
`

// scanInvoice expects the column order of selectInvoiceColumns.
func scanInvoice(s scanner) (*invoice.MaintenanceInvoice, error) {
	var inv invoice.MaintenanceInvoice

	var lineItems []byte

	if err := s.Scan(
		&inv.ID, &inv.LicenseID, &inv.InvoiceNumber, &inv.StartDate, &inv.EndDate,
		&inv.TotalCredits, &inv.TotalExpenditures, &inv.Balance, &lineItems,
		&inv.DocumentReference, &inv.CreatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(lineItems, &inv.LineItems); err != nil {
		return nil, fmt.Errorf("decoding line items: %w", err)
	}

	if inv.StartDate != nil {
		inv.StartDate = new(ledger.Day(*inv.StartDate))
	}

	if inv.EndDate != nil {
		inv.EndDate = new(ledger.Day(*inv.EndDate))
	}

	return &inv, nil
}

func (s *Store) CreateInvoice(ctx context.Context, inv *invoice.MaintenanceInvoice) error {
	lineItems, err := json.Marshal(inv.LineItems)
	if err != nil {
		return fmt.Errorf("encoding line items: %w", err)
	}

	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}

	query := `
		INSERT INTO maintenance_invoices (
			id, license_id, invoice_number, start_date, end_date, total_credits,
			total_expenditures, balance, line_items, document_reference, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = s.db.ExecContext(ctx, query,
		inv.ID,
		inv.LicenseID,
		inv.InvoiceNumber,
		inv.StartDate,
		inv.EndDate,
		inv.TotalCredits,
		inv.TotalExpenditures,
		inv.Balance,
		lineItems,
		inv.DocumentReference,
		inv.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting invoice: %w", err)
	}

	return nil
}

func (s *Store) GetInvoice(ctx context.Context, id uuid.UUID) (*invoice.MaintenanceInvoice, error) {
	query := `SELECT ` + selectInvoiceColumns + ` FROM maintenance_invoices WHERE id = $1`

	inv, err := scanInvoice(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &ledger.NotFoundError{Kind: "invoice", ID: id}
		}

		return nil, fmt.Errorf("getting invoice: %w", err)
	}

	return inv, nil
}

func (s *Store) ListInvoices(ctx context.Context, licenseID uuid.UUID) ([]*invoice.MaintenanceInvoice, error) {
	query := `SELECT ` + selectInvoiceColumns + `
		FROM maintenance_invoices
		WHERE license_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, licenseID)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*invoice.MaintenanceInvoice

	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}

		invoices = append(invoices, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoice rows: %w", err)
	}

	return invoices, nil
}

func (s *Store) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM maintenance_invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting invoice: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting invoice: %w", err)
	}

	if n == 0 {
		return &ledger.NotFoundError{Kind: "invoice", ID: id}
	}

	return nil
}
