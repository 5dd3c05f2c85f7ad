package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/timebank/internal/ledger"
)

var _ ledger.Repository = (*Store)(nil)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectCreditColumns = `
	id, license_id, start_date, end_date, granted_by, credit_hours, created_at, updated_at
`

// scanCredit expects the column order of selectCreditColumns.
func scanCredit(s scanner) (*ledger.TimeCredit, error) {
	var c ledger.TimeCredit

	if err := s.Scan(
		&c.ID, &c.LicenseID, &c.StartDate, &c.EndDate, &c.GrantedBy, &c.CreditHours,
		&c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}

	c.StartDate = ledger.Day(c.StartDate)
	c.EndDate = ledger.Day(c.EndDate)

	return &c, nil
}

const selectExpenditureColumns = `
	id, license_id, date, time_of_day, user_ref, activity, task_type, hours_spent, comment,
	is_goodwill, created_at, updated_at
`

// scanExpenditure expects the column order of selectExpenditureColumns.
func scanExpenditure(s scanner) (*ledger.TimeExpenditure, error) {
	var e ledger.TimeExpenditure

	var activity, taskType string

	var timeOfDay sql.NullInt32

	if err := s.Scan(
		&e.ID, &e.LicenseID, &e.Date, &timeOfDay, &e.User, &activity, &taskType, &e.HoursSpent,
		&e.Comment, &e.IsGoodwill, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}

	e.Date = ledger.Day(e.Date)
	e.Activity = ledger.Activity(activity)
	e.TaskType = ledger.TaskType(taskType)

	if timeOfDay.Valid {
		e.Time = new(ledger.TimeOfDay(timeOfDay.Int32))
	}

	return &e, nil
}

func listCredits(ctx context.Context, q querier, licenseID uuid.UUID) ([]*ledger.TimeCredit, error) {
	query := `SELECT ` + selectCreditColumns + `
		FROM time_credits
		WHERE license_id = $1
		ORDER BY start_date ASC, id ASC`

	rows, err := q.QueryContext(ctx, query, licenseID)
	if err != nil {
		return nil, fmt.Errorf("listing credits: %w", err)
	}
	defer rows.Close()

	var credits []*ledger.TimeCredit

	for rows.Next() {
		c, err := scanCredit(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning credit: %w", err)
		}

		credits = append(credits, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating credit rows: %w", err)
	}

	return credits, nil
}

func listExpenditures(ctx context.Context, q querier, licenseID uuid.UUID) ([]*ledger.TimeExpenditure, error) {
	query := `SELECT ` + selectExpenditureColumns + `
		FROM time_expenditures
		WHERE license_id = $1
		ORDER BY date ASC, time_of_day ASC NULLS LAST, id ASC`

	rows, err := q.QueryContext(ctx, query, licenseID)
	if err != nil {
		return nil, fmt.Errorf("listing expenditures: %w", err)
	}
	defer rows.Close()

	var exps []*ledger.TimeExpenditure

	for rows.Next() {
		e, err := scanExpenditure(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning expenditure: %w", err)
		}

		exps = append(exps, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expenditure rows: %w", err)
	}

	return exps, nil
}

func listDeductions(ctx context.Context, q querier, licenseID uuid.UUID) ([]ledger.Deduction, error) {
	query := `
		SELECT expenditure_id, credit_id, hours_deducted
		FROM time_deductions
		WHERE license_id = $1
		ORDER BY position ASC`

	rows, err := q.QueryContext(ctx, query, licenseID)
	if err != nil {
		return nil, fmt.Errorf("listing deductions: %w", err)
	}
	defer rows.Close()

	var deductions []ledger.Deduction

	for rows.Next() {
		var d ledger.Deduction
		if err := rows.Scan(&d.ExpenditureID, &d.CreditID, &d.HoursDeducted); err != nil {
			return nil, fmt.Errorf("scanning deduction: %w", err)
		}

		deductions = append(deductions, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating deduction rows: %w", err)
	}

	return deductions, nil
}

// Snapshot reads all three tables in one repeatable-read transaction so a
// concurrent mutation is seen either entirely or not at all.
func (s *Store) Snapshot(ctx context.Context, licenseID uuid.UUID) (*ledger.Snapshot, error) {
	dbTx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("beginning snapshot: %w", err)
	}
	defer dbTx.Rollback()

	credits, err := listCredits(ctx, dbTx, licenseID)
	if err != nil {
		return nil, err
	}

	exps, err := listExpenditures(ctx, dbTx, licenseID)
	if err != nil {
		return nil, err
	}

	deductions, err := listDeductions(ctx, dbTx, licenseID)
	if err != nil {
		return nil, err
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("committing snapshot: %w", err)
	}

	return &ledger.Snapshot{
		LicenseID:    licenseID,
		Credits:      credits,
		Expenditures: exps,
		Deductions:   deductions,
	}, nil
}

func licenseLockKey(licenseID uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write([]byte("ledger"))
	h.Write([]byte{0})
	h.Write(licenseID[:])

	return int64(h.Sum64())
}

type ledgerTx struct {
	tx        *sql.Tx
	licenseID uuid.UUID
}

// Begin holds a transaction-scoped advisory lock on the license until the
// transaction ends, serializing every mutation of that license.
func (s *Store) Begin(ctx context.Context, licenseID uuid.UUID) (ledger.Tx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning ledger tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", licenseLockKey(licenseID)); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring license lock: %w", err)
	}

	return &ledgerTx{tx: dbTx, licenseID: licenseID}, nil
}

func (t *ledgerTx) Commit() error   { return t.tx.Commit() }
func (t *ledgerTx) Rollback() error { return t.tx.Rollback() }

func (t *ledgerTx) ListCredits(ctx context.Context) ([]*ledger.TimeCredit, error) {
	return listCredits(ctx, t.tx, t.licenseID)
}

func (t *ledgerTx) ListExpenditures(ctx context.Context) ([]*ledger.TimeExpenditure, error) {
	return listExpenditures(ctx, t.tx, t.licenseID)
}

func (t *ledgerTx) GetCredit(ctx context.Context, id uuid.UUID) (*ledger.TimeCredit, error) {
	query := `SELECT ` + selectCreditColumns + `
		FROM time_credits
		WHERE id = $1 AND license_id = $2`

	c, err := scanCredit(t.tx.QueryRowContext(ctx, query, id, t.licenseID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &ledger.NotFoundError{Kind: "credit", ID: id}
		}

		return nil, fmt.Errorf("getting credit: %w", err)
	}

	return c, nil
}

func (t *ledgerTx) CreateCredit(ctx context.Context, c *ledger.TimeCredit) error {
	query := `
		INSERT INTO time_credits (license_id, start_date, end_date, granted_by, credit_hours, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`

	err := t.tx.QueryRowContext(ctx, query,
		t.licenseID,
		c.StartDate,
		c.EndDate,
		c.GrantedBy,
		c.CreditHours,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating credit: %w", err)
	}

	c.LicenseID = t.licenseID

	return nil
}

func (t *ledgerTx) UpdateCredit(ctx context.Context, c *ledger.TimeCredit) error {
	query := `
		UPDATE time_credits
		SET start_date = $1, end_date = $2, granted_by = $3, credit_hours = $4, updated_at = NOW()
		WHERE id = $5 AND license_id = $6
		RETURNING updated_at
	`

	err := t.tx.QueryRowContext(ctx, query,
		c.StartDate,
		c.EndDate,
		c.GrantedBy,
		c.CreditHours,
		c.ID,
		t.licenseID,
	).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &ledger.NotFoundError{Kind: "credit", ID: c.ID}
		}

		return fmt.Errorf("updating credit: %w", err)
	}

	return nil
}

func (t *ledgerTx) DeleteCredit(ctx context.Context, id uuid.UUID) error {
	return t.delete(ctx, "time_credits", "credit", id)
}

func (t *ledgerTx) GetExpenditure(ctx context.Context, id uuid.UUID) (*ledger.TimeExpenditure, error) {
	query := `SELECT ` + selectExpenditureColumns + `
		FROM time_expenditures
		WHERE id = $1 AND license_id = $2`

	e, err := scanExpenditure(t.tx.QueryRowContext(ctx, query, id, t.licenseID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &ledger.NotFoundError{Kind: "expenditure", ID: id}
		}

		return nil, fmt.Errorf("getting expenditure: %w", err)
	}

	return e, nil
}

func (t *ledgerTx) CreateExpenditure(ctx context.Context, e *ledger.TimeExpenditure) error {
	query := `
		INSERT INTO time_expenditures (
			license_id, date, time_of_day, user_ref, activity, task_type, hours_spent, comment,
			is_goodwill, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id, created_at
	`

	err := t.tx.QueryRowContext(ctx, query,
		t.licenseID,
		e.Date,
		timeOfDayValue(e.Time),
		e.User,
		e.Activity,
		e.TaskType,
		e.HoursSpent,
		e.Comment,
		e.IsGoodwill,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating expenditure: %w", err)
	}

	e.LicenseID = t.licenseID

	return nil
}

func (t *ledgerTx) UpdateExpenditure(ctx context.Context, e *ledger.TimeExpenditure) error {
	query := `
		UPDATE time_expenditures
		SET date = $1, time_of_day = $2, user_ref = $3, activity = $4, task_type = $5,
			hours_spent = $6, comment = $7, is_goodwill = $8, updated_at = NOW()
		WHERE id = $9 AND license_id = $10
		RETURNING updated_at
	`

	err := t.tx.QueryRowContext(ctx, query,
		e.Date,
		timeOfDayValue(e.Time),
		e.User,
		e.Activity,
		e.TaskType,
		e.HoursSpent,
		e.Comment,
		e.IsGoodwill,
		e.ID,
		t.licenseID,
	).Scan(&e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &ledger.NotFoundError{Kind: "expenditure", ID: e.ID}
		}

		return fmt.Errorf("updating expenditure: %w", err)
	}

	return nil
}

func (t *ledgerTx) DeleteExpenditure(ctx context.Context, id uuid.UUID) error {
	return t.delete(ctx, "time_expenditures", "expenditure", id)
}

func (t *ledgerTx) delete(ctx context.Context, table, kind string, id uuid.UUID) error {
	query := `DELETE FROM ` + table + ` WHERE id = $1 AND license_id = $2`

	res, err := t.tx.ExecContext(ctx, query, id, t.licenseID)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", kind, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting %s: %w", kind, err)
	}

	if n == 0 {
		return &ledger.NotFoundError{Kind: kind, ID: id}
	}

	return nil
}

// ReplaceDeductions swaps the stored allocation for a freshly computed one,
// keeping the allocation order in the position column.
func (t *ledgerTx) ReplaceDeductions(ctx context.Context, deductions []ledger.Deduction) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM time_deductions WHERE license_id = $1`, t.licenseID); err != nil {
		return fmt.Errorf("clearing deductions: %w", err)
	}

	query := `
		INSERT INTO time_deductions (license_id, position, expenditure_id, credit_id, hours_deducted)
		VALUES ($1, $2, $3, $4, $5)
	`

	for i, d := range deductions {
		if _, err := t.tx.ExecContext(ctx, query,
			t.licenseID,
			i,
			d.ExpenditureID,
			d.CreditID,
			d.HoursDeducted,
		); err != nil {
			return fmt.Errorf("inserting deduction: %w", err)
		}
	}

	return nil
}

func timeOfDayValue(t *ledger.TimeOfDay) sql.NullInt32 {
	if t == nil {
		return sql.NullInt32{}
	}

	return sql.NullInt32{Int32: int32(*t), Valid: true}
}
