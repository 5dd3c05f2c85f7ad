package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Settlement is one accounting period: a credit's validity window, or the
// trailing period (nil Credit) collecting activity no credit window covers.
type Settlement struct {
	Credit           *TimeCredit
	Expenditures     []*TimeExpenditure
	CarryOverIn      decimal.Decimal
	CreditAmount     decimal.Decimal
	ExpenditureTotal decimal.Decimal
	Balance          decimal.Decimal
	CarryOverOut     decimal.Decimal
	IsFinal          bool
}

// BuildSettlements partitions the history into one period per credit, in
// allocation order, followed by a trailing period when some expenditure falls
// outside every credit window.
//
// Surplus hours expire at the end of a period; a deficit carries forward in full.
func BuildSettlements(credits []*TimeCredit, expenditures []*TimeExpenditure, deductions []Deduction) []Settlement {
	ordered := SortCredits(credits)

	deducted := make(map[uuid.UUID]decimal.Decimal, len(expenditures))
	for _, d := range deductions {
		deducted[d.ExpenditureID] = deducted[d.ExpenditureID].Add(d.HoursDeducted)
	}

	periods := make([]Settlement, len(ordered)+1)
	for i, c := range ordered {
		periods[i].Credit = c
		periods[i].CreditAmount = c.CreditHours
	}

	trailing := len(ordered)
	periods[trailing].CreditAmount = decimal.Zero

	for _, e := range SortExpenditures(expenditures) {
		idx := trailing

		for i, c := range ordered {
			if c.Covers(e.Date) {
				idx = i
				break
			}
		}

		periods[idx].Expenditures = append(periods[idx].Expenditures, e)
		periods[idx].ExpenditureTotal = periods[idx].ExpenditureTotal.Add(deducted[e.ID])
	}

	if len(periods[trailing].Expenditures) == 0 {
		periods = periods[:trailing]
	}

	carry := decimal.Zero

	for i := range periods {
		p := &periods[i]
		p.CarryOverIn = carry
		p.Balance = p.CarryOverIn.Add(p.CreditAmount).Sub(p.ExpenditureTotal)
		p.CarryOverOut = carryOver(p.Balance)
		carry = p.CarryOverOut
	}

	if len(periods) > 0 {
		periods[len(periods)-1].IsFinal = true
	}

	return periods
}

// carryOver applies the use-it-or-lose-it policy: only debt survives a period.
func carryOver(balance decimal.Decimal) decimal.Decimal {
	if balance.IsPositive() {
		return decimal.Zero
	}

	return balance
}

// Settlements returns the settlement periods of the snapshot.
func (s *Snapshot) Settlements() []Settlement {
	return BuildSettlements(s.Credits, s.Expenditures, s.Deductions)
}
