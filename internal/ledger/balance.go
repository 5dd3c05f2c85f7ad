package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Balance is the all-time entitlement position of a license.
type Balance struct {
	TotalCredits      decimal.Decimal
	TotalExpenditures decimal.Decimal
	CurrentBalance    decimal.Decimal
}

// CalculateBalance sums every credit ever granted against every non-goodwill
// expenditure. Expiry does not reduce TotalCredits.
func CalculateBalance(credits []*TimeCredit, expenditures []*TimeExpenditure) Balance {
	b := Balance{
		TotalCredits:      decimal.Zero,
		TotalExpenditures: decimal.Zero,
	}

	for _, c := range credits {
		b.TotalCredits = b.TotalCredits.Add(c.CreditHours)
	}

	for _, e := range expenditures {
		if e.IsGoodwill {
			continue
		}

		b.TotalExpenditures = b.TotalExpenditures.Add(e.HoursSpent)
	}

	b.CurrentBalance = b.TotalCredits.Sub(b.TotalExpenditures)

	return b
}

// Balance returns the aggregate position of the snapshot.
func (s *Snapshot) Balance() Balance {
	return CalculateBalance(s.Credits, s.Expenditures)
}

// RemainingHours returns, per credit id, the credit hours not yet drawn down.
func RemainingHours(credits []*TimeCredit, deductions []Deduction) map[uuid.UUID]decimal.Decimal {
	remaining := make(map[uuid.UUID]decimal.Decimal, len(credits))
	for _, c := range credits {
		remaining[c.ID] = c.CreditHours
	}

	for _, d := range deductions {
		if d.IsDebt() {
			continue
		}

		if r, ok := remaining[*d.CreditID]; ok {
			remaining[*d.CreditID] = r.Sub(d.HoursDeducted)
		}
	}

	return remaining
}

// Debt returns the hours no credit could cover.
func Debt(deductions []Deduction) decimal.Decimal {
	debt := decimal.Zero

	for _, d := range deductions {
		if d.IsDebt() {
			debt = debt.Add(d.HoursDeducted)
		}
	}

	return debt
}

// Reconcile checks an allocation against the entries it was computed from:
//   - every non-goodwill expenditure is fully accounted for, goodwill never deducts
//   - no credit is drawn below zero and no deduction references an unknown credit
//   - the aggregate balance equals remaining credit hours minus debt
func Reconcile(licenseID uuid.UUID, credits []*TimeCredit, expenditures []*TimeExpenditure, deductions []Deduction) error {
	perExpenditure := make(map[uuid.UUID]decimal.Decimal, len(expenditures))
	known := make(map[uuid.UUID]bool, len(credits))

	for _, c := range credits {
		known[c.ID] = true
	}

	for _, d := range deductions {
		if !d.HoursDeducted.IsPositive() {
			return &InvariantViolationError{
				LicenseID: licenseID,
				Reason:    "non-positive deduction for expenditure " + d.ExpenditureID.String(),
				Expected:  decimal.Zero,
				Actual:    d.HoursDeducted,
			}
		}

		if !d.IsDebt() && !known[*d.CreditID] {
			return &InvariantViolationError{
				LicenseID: licenseID,
				Reason:    "deduction references unknown credit " + d.CreditID.String(),
				Expected:  decimal.Zero,
				Actual:    d.HoursDeducted,
			}
		}

		perExpenditure[d.ExpenditureID] = perExpenditure[d.ExpenditureID].Add(d.HoursDeducted)
	}

	for _, e := range expenditures {
		want := e.HoursSpent
		if e.IsGoodwill {
			want = decimal.Zero
		}

		if got := perExpenditure[e.ID]; !got.Equal(want) {
			return &InvariantViolationError{
				LicenseID: licenseID,
				Reason:    "deductions do not cover expenditure " + e.ID.String(),
				Expected:  want,
				Actual:    got,
			}
		}

		delete(perExpenditure, e.ID)
	}

	for id, hours := range perExpenditure {
		return &InvariantViolationError{
			LicenseID: licenseID,
			Reason:    "deduction references unknown expenditure " + id.String(),
			Expected:  decimal.Zero,
			Actual:    hours,
		}
	}

	remaining := decimal.Zero

	for id, r := range RemainingHours(credits, deductions) {
		if r.IsNegative() {
			return &InvariantViolationError{
				LicenseID: licenseID,
				Reason:    "credit " + id.String() + " overdrawn",
				Expected:  decimal.Zero,
				Actual:    r,
			}
		}

		remaining = remaining.Add(r)
	}

	balance := CalculateBalance(credits, expenditures).CurrentBalance
	if allocated := remaining.Sub(Debt(deductions)); !allocated.Equal(balance) {
		return &InvariantViolationError{
			LicenseID: licenseID,
			Reason:    "balance does not match allocation",
			Expected:  balance,
			Actual:    allocated,
		}
	}

	return nil
}
