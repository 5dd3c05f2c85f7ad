package ledger_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/timebank/internal/ledger"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func hours(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertHours(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, hours(want).Equal(got), append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func credit(h string, start, end time.Time) *ledger.TimeCredit {
	return &ledger.TimeCredit{
		ID:          uuid.New(),
		StartDate:   start,
		EndDate:     end,
		CreditHours: hours(h),
	}
}

func expenditure(h string, on time.Time) *ledger.TimeExpenditure {
	return &ledger.TimeExpenditure{
		ID:         uuid.New(),
		Date:       on,
		Activity:   ledger.ActivityRemoteSupport,
		TaskType:   ledger.TaskTypeBugs,
		HoursSpent: hours(h),
	}
}

func goodwill(h string, on time.Time) *ledger.TimeExpenditure {
	e := expenditure(h, on)
	e.IsGoodwill = true

	return e
}

func at(e *ledger.TimeExpenditure, hhmm string) *ledger.TimeExpenditure {
	tod, err := ledger.ParseTimeOfDay(hhmm)
	if err != nil {
		panic(err)
	}

	e.Time = &tod

	return e
}

// deductionsFor returns the deductions of one expenditure in allocation order.
func deductionsFor(ds []ledger.Deduction, id uuid.UUID) []ledger.Deduction {
	var out []ledger.Deduction

	for _, d := range ds {
		if d.ExpenditureID == id {
			out = append(out, d)
		}
	}

	return out
}
