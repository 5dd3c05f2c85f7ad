// Package invoice freezes a window of a license's ledger into immutable
// maintenance invoices.
package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/timebank/internal/ledger"
)

// LineKind tells what kind of ledger entry a line item was copied from.
type LineKind string

const (
	LineCredit      LineKind = "credit"
	LineExpenditure LineKind = "expenditure"
	LineGoodwill    LineKind = "goodwill"
)

// LineItem is a frozen copy of one ledger entry. Goodwill lines carry their
// hours but are not counted in the invoice totals.
type LineItem struct {
	Kind     LineKind        `json:"kind"`
	EntryID  uuid.UUID       `json:"entry_id"`
	Date     time.Time       `json:"date"`
	EndDate  *time.Time      `json:"end_date,omitempty"`
	Hours    decimal.Decimal `json:"hours"`
	User     string          `json:"user,omitempty"`
	Activity ledger.Activity `json:"activity,omitempty"`
	TaskType ledger.TaskType `json:"task_type,omitempty"`
	Time     string          `json:"time,omitempty"`
	Comment  string          `json:"comment,omitempty"`
}

// MaintenanceInvoice is an immutable snapshot of a license's ledger over an
// optional window. Nil bounds mean the window is open on that side.
type MaintenanceInvoice struct {
	ID                uuid.UUID
	LicenseID         uuid.UUID
	InvoiceNumber     *string
	StartDate         *time.Time
	EndDate           *time.Time
	TotalCredits      decimal.Decimal
	TotalExpenditures decimal.Decimal
	Balance           decimal.Decimal
	LineItems         []LineItem
	DocumentReference string
	CreatedAt         time.Time
}

type GenerateParams struct {
	StartDate     *time.Time
	EndDate       *time.Time
	InvoiceNumber *string
}

func (p GenerateParams) Validate() error {
	var v ledger.ValidationError

	if p.StartDate != nil && p.EndDate != nil && ledger.Day(*p.EndDate).Before(ledger.Day(*p.StartDate)) {
		v.Add("end_date", "must not be before start_date")
	}

	if p.InvoiceNumber != nil && *p.InvoiceNumber == "" {
		v.Add("invoice_number", "must not be empty when given")
	}

	return v.Err()
}

func (p GenerateParams) contains(d time.Time) bool {
	d = ledger.Day(d)

	if p.StartDate != nil && d.Before(ledger.Day(*p.StartDate)) {
		return false
	}

	if p.EndDate != nil && d.After(ledger.Day(*p.EndDate)) {
		return false
	}

	return true
}

// Build freezes the part of snap that falls inside the window of params.
// A credit is in the window when its start date is; an expenditure when its date is.
func Build(snap *ledger.Snapshot, params GenerateParams) *MaintenanceInvoice {
	inv := &MaintenanceInvoice{
		LicenseID:     snap.LicenseID,
		InvoiceNumber: params.InvoiceNumber,
		StartDate:     dayPtr(params.StartDate),
		EndDate:       dayPtr(params.EndDate),
		LineItems:     []LineItem{},
	}

	var (
		credits []*ledger.TimeCredit
		exps    []*ledger.TimeExpenditure
	)

	for _, c := range ledger.SortCredits(snap.Credits) {
		if !params.contains(c.StartDate) {
			continue
		}

		credits = append(credits, c)
		inv.LineItems = append(inv.LineItems, LineItem{
			Kind:    LineCredit,
			EntryID: c.ID,
			Date:    c.StartDate,
			EndDate: new(c.EndDate),
			Hours:   c.CreditHours,
			User:    c.GrantedBy,
		})
	}

	for _, e := range ledger.SortExpenditures(snap.Expenditures) {
		if !params.contains(e.Date) {
			continue
		}

		exps = append(exps, e)

		item := LineItem{
			Kind:     LineExpenditure,
			EntryID:  e.ID,
			Date:     e.Date,
			Hours:    e.HoursSpent,
			User:     e.User,
			Activity: e.Activity,
			TaskType: e.TaskType,
			Comment:  e.Comment,
		}

		if e.IsGoodwill {
			item.Kind = LineGoodwill
		}

		if e.Time != nil {
			item.Time = e.Time.String()
		}

		inv.LineItems = append(inv.LineItems, item)
	}

	b := ledger.CalculateBalance(credits, exps)
	inv.TotalCredits = b.TotalCredits
	inv.TotalExpenditures = b.TotalExpenditures
	inv.Balance = b.CurrentBalance

	return inv
}

func dayPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	return new(ledger.Day(*t))
}
