package ledger

import (
	"bytes"
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SortCredits returns the credits ordered by start date, ties broken by id.
// The input slice is left untouched.
func SortCredits(credits []*TimeCredit) []*TimeCredit {
	sorted := slices.Clone(credits)
	slices.SortFunc(sorted, func(a, b *TimeCredit) int {
		if c := a.StartDate.Compare(b.StartDate); c != 0 {
			return c
		}

		return compareIDs(a.ID, b.ID)
	})

	return sorted
}

// SortExpenditures returns the expenditures ordered by date, then time of day
// (entries without a time last), then id. The input slice is left untouched.
func SortExpenditures(expenditures []*TimeExpenditure) []*TimeExpenditure {
	sorted := slices.Clone(expenditures)
	slices.SortFunc(sorted, func(a, b *TimeExpenditure) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}

		switch {
		case a.Time != nil && b.Time == nil:
			return -1
		case a.Time == nil && b.Time != nil:
			return 1
		case a.Time != nil && b.Time != nil && *a.Time != *b.Time:
			if *a.Time < *b.Time {
				return -1
			}

			return 1
		}

		return compareIDs(a.ID, b.ID)
	})

	return sorted
}

// Allocate draws every non-goodwill expenditure down against the credits in
// validity order. Expired credits stay eligible. Hours no credit can cover
// are emitted as a single deduction with a nil credit.
//
// The result depends only on the input entries, never on their order or on the clock.
func Allocate(credits []*TimeCredit, expenditures []*TimeExpenditure) []Deduction {
	ordered := SortCredits(credits)

	available := make([]decimal.Decimal, len(ordered))
	for i, c := range ordered {
		available[i] = c.CreditHours
	}

	var deductions []Deduction

	for _, e := range SortExpenditures(expenditures) {
		if e.IsGoodwill {
			continue
		}

		remaining := e.HoursSpent

		for i, c := range ordered {
			if !remaining.IsPositive() {
				break
			}

			if !available[i].IsPositive() {
				continue
			}

			take := decimal.Min(available[i], remaining)
			available[i] = available[i].Sub(take)
			remaining = remaining.Sub(take)

			creditID := c.ID
			deductions = append(deductions, Deduction{
				ExpenditureID: e.ID,
				CreditID:      &creditID,
				HoursDeducted: take,
			})
		}

		if remaining.IsPositive() {
			deductions = append(deductions, Deduction{
				ExpenditureID: e.ID,
				HoursDeducted: remaining,
			})
		}
	}

	return deductions
}

func compareIDs(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}
