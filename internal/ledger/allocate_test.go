package ledger_test

import (
	"slices"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/timebank/internal/ledger"
)

func TestAllocate_DrawsDownThenRecordsDebt(t *testing.T) {
	a := credit("10", date(2024, 1, 1), date(2024, 6, 30))
	first := expenditure("4", date(2024, 2, 1))
	second := expenditure("8", date(2024, 3, 1))

	ds := ledger.Allocate([]*ledger.TimeCredit{a}, []*ledger.TimeExpenditure{first})
	require.Len(t, ds, 1)
	assert.Equal(t, a.ID, *ds[0].CreditID)
	assertHours(t, "4", ds[0].HoursDeducted)
	assertHours(t, "6", ledger.RemainingHours([]*ledger.TimeCredit{a}, ds)[a.ID])

	ds = ledger.Allocate([]*ledger.TimeCredit{a}, []*ledger.TimeExpenditure{first, second})

	got := deductionsFor(ds, second.ID)
	require.Len(t, got, 2)
	assert.Equal(t, a.ID, *got[0].CreditID)
	assertHours(t, "6", got[0].HoursDeducted)
	assert.True(t, got[1].IsDebt())
	assertHours(t, "2", got[1].HoursDeducted)
	assertHours(t, "2", ledger.Debt(ds))
}

func TestAllocate_SplitsAcrossCreditsInStartOrder(t *testing.T) {
	later := credit("5", date(2024, 7, 1), date(2024, 12, 31))
	earlier := credit("3", date(2024, 1, 1), date(2024, 6, 30))
	e := expenditure("7", date(2024, 8, 1))

	ds := ledger.Allocate([]*ledger.TimeCredit{later, earlier}, []*ledger.TimeExpenditure{e})

	require.Len(t, ds, 2)
	assert.Equal(t, earlier.ID, *ds[0].CreditID)
	assertHours(t, "3", ds[0].HoursDeducted)
	assert.Equal(t, later.ID, *ds[1].CreditID)
	assertHours(t, "4", ds[1].HoursDeducted)
}

func TestAllocate_ExpiredCreditsRemainConsumable(t *testing.T) {
	expired := credit("10", date(2020, 1, 1), date(2020, 12, 31))
	e := expenditure("2", date(2024, 5, 5))

	ds := ledger.Allocate([]*ledger.TimeCredit{expired}, []*ledger.TimeExpenditure{e})

	require.Len(t, ds, 1)
	assert.Equal(t, expired.ID, *ds[0].CreditID)
}

func TestAllocate_Goodwill(t *testing.T) {
	a := credit("10", date(2024, 1, 1), date(2024, 6, 30))
	paid := expenditure("4", date(2024, 2, 1))
	free := goodwill("100", date(2024, 1, 15))

	without := ledger.Allocate([]*ledger.TimeCredit{a}, []*ledger.TimeExpenditure{paid})
	with := ledger.Allocate([]*ledger.TimeCredit{a}, []*ledger.TimeExpenditure{paid, free})

	assert.Empty(t, deductionsFor(with, free.ID))
	assert.Equal(t, without, with)
	assert.Equal(t,
		ledger.CalculateBalance([]*ledger.TimeCredit{a}, []*ledger.TimeExpenditure{paid}),
		ledger.CalculateBalance([]*ledger.TimeCredit{a}, []*ledger.TimeExpenditure{paid, free}),
	)
}

func TestAllocate_OrdersExpendituresByDateTimeThenID(t *testing.T) {
	a := credit("3", date(2024, 1, 1), date(2024, 12, 31))
	day := date(2024, 3, 1)

	untimed := expenditure("1", day)
	evening := at(expenditure("1", day), "18:00")
	morning := at(expenditure("1", day), "09:30")
	later := expenditure("1", date(2024, 3, 2))

	ds := ledger.Allocate([]*ledger.TimeCredit{a}, []*ledger.TimeExpenditure{later, untimed, evening, morning})

	order := make([]uuid.UUID, 0, len(ds))
	for _, d := range ds {
		order = append(order, d.ExpenditureID)
	}

	assert.Equal(t, []uuid.UUID{morning.ID, evening.ID, untimed.ID, later.ID}, order)
	assert.True(t, ds[3].IsDebt())
}

func TestAllocate_ZeroHourCreditIsSkipped(t *testing.T) {
	empty := credit("0", date(2024, 1, 1), date(2024, 1, 31))
	full := credit("5", date(2024, 2, 1), date(2024, 2, 28))
	e := expenditure("1", date(2024, 1, 10))

	ds := ledger.Allocate([]*ledger.TimeCredit{empty, full}, []*ledger.TimeExpenditure{e})

	require.Len(t, ds, 1)
	assert.Equal(t, full.ID, *ds[0].CreditID)
}

func TestAllocate_Idempotent(t *testing.T) {
	credits := []*ledger.TimeCredit{
		credit("10", date(2024, 1, 1), date(2024, 6, 30)),
		credit("2.5", date(2024, 7, 1), date(2024, 12, 31)),
	}
	exps := []*ledger.TimeExpenditure{
		expenditure("4", date(2024, 2, 1)),
		expenditure("8.25", date(2024, 3, 1)),
		goodwill("1", date(2024, 3, 2)),
		expenditure("0.5", date(2025, 1, 1)),
	}

	first := ledger.Allocate(credits, exps)
	second := ledger.Allocate(credits, exps)

	assert.Equal(t, first, second)
}

func TestAllocate_DeterministicUnderReordering(t *testing.T) {
	credits := []*ledger.TimeCredit{
		credit("10", date(2024, 1, 1), date(2024, 6, 30)),
		credit("20", date(2024, 7, 1), date(2024, 12, 31)),
		credit("5", date(2024, 1, 1), date(2024, 3, 31)),
	}
	exps := []*ledger.TimeExpenditure{
		expenditure("4", date(2024, 2, 1)),
		expenditure("8", date(2024, 3, 1)),
		expenditure("3", date(2024, 3, 1)),
		goodwill("100", date(2024, 4, 1)),
		expenditure("30", date(2024, 9, 1)),
	}

	want := ledger.Allocate(credits, exps)
	wantSettlements := ledger.BuildSettlements(credits, exps, want)

	reversedCredits := slices.Clone(credits)
	slices.Reverse(reversedCredits)

	reversedExps := slices.Clone(exps)
	slices.Reverse(reversedExps)

	got := ledger.Allocate(reversedCredits, reversedExps)

	assert.Equal(t, want, got)
	assert.Equal(t, wantSettlements, ledger.BuildSettlements(reversedCredits, reversedExps, got))
}

func TestAllocate_DoesNotReorderInput(t *testing.T) {
	credits := []*ledger.TimeCredit{
		credit("1", date(2024, 7, 1), date(2024, 12, 31)),
		credit("1", date(2024, 1, 1), date(2024, 6, 30)),
	}
	before := slices.Clone(credits)

	ledger.Allocate(credits, nil)

	assert.Equal(t, before, credits)
}
