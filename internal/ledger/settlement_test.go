package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/timebank/internal/ledger"
)

func settle(credits []*ledger.TimeCredit, exps []*ledger.TimeExpenditure) []ledger.Settlement {
	return ledger.BuildSettlements(credits, exps, ledger.Allocate(credits, exps))
}

func TestBuildSettlements_DebtCarriesIntoNextCredit(t *testing.T) {
	a := credit("10", date(2024, 1, 1), date(2024, 6, 30))
	b := credit("20", date(2024, 7, 1), date(2024, 12, 31))
	exps := []*ledger.TimeExpenditure{
		expenditure("4", date(2024, 2, 1)),
		expenditure("8", date(2024, 3, 1)),
	}

	periods := settle([]*ledger.TimeCredit{a, b}, exps)
	require.Len(t, periods, 2)

	first := periods[0]
	assert.Equal(t, a, first.Credit)
	assert.Len(t, first.Expenditures, 2)
	assertHours(t, "0", first.CarryOverIn)
	assertHours(t, "10", first.CreditAmount)
	assertHours(t, "12", first.ExpenditureTotal)
	assertHours(t, "-2", first.Balance)
	assertHours(t, "-2", first.CarryOverOut)
	assert.False(t, first.IsFinal)

	second := periods[1]
	assert.Equal(t, b, second.Credit)
	assert.Empty(t, second.Expenditures)
	assertHours(t, "-2", second.CarryOverIn)
	assertHours(t, "20", second.CreditAmount)
	assertHours(t, "0", second.ExpenditureTotal)
	assertHours(t, "18", second.Balance)
	assertHours(t, "0", second.CarryOverOut)
	assert.True(t, second.IsFinal)
}

func TestBuildSettlements_CarryOverAsymmetry(t *testing.T) {
	tests := []struct {
		name        string
		spent       string
		wantBalance string
		wantCarry   string
	}{
		{name: "SurplusExpires", spent: "5", wantBalance: "5", wantCarry: "0"},
		{name: "DeficitCarries", spent: "15", wantBalance: "-5", wantCarry: "-5"},
		{name: "ExactlySpent", spent: "10", wantBalance: "0", wantCarry: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := credit("10", date(2024, 1, 1), date(2024, 12, 31))
			e := expenditure(tt.spent, date(2024, 5, 1))

			periods := settle([]*ledger.TimeCredit{c}, []*ledger.TimeExpenditure{e})
			require.Len(t, periods, 1)

			assertHours(t, tt.wantBalance, periods[0].Balance)
			assertHours(t, tt.wantCarry, periods[0].CarryOverOut)
			assert.True(t, periods[0].IsFinal)
		})
	}
}

func TestBuildSettlements_TrailingPeriod(t *testing.T) {
	a := credit("10", date(2024, 1, 1), date(2024, 6, 30))
	inside := expenditure("4", date(2024, 2, 1))
	after := expenditure("9", date(2024, 9, 1))

	periods := settle([]*ledger.TimeCredit{a}, []*ledger.TimeExpenditure{inside, after})
	require.Len(t, periods, 2)

	assertHours(t, "6", periods[0].Balance)
	assertHours(t, "0", periods[0].CarryOverOut)

	trailing := periods[1]
	assert.Nil(t, trailing.Credit)
	assert.Equal(t, []*ledger.TimeExpenditure{after}, trailing.Expenditures)
	assertHours(t, "0", trailing.CarryOverIn)
	assertHours(t, "0", trailing.CreditAmount)
	assertHours(t, "9", trailing.ExpenditureTotal)
	assertHours(t, "-9", trailing.Balance)
	assertHours(t, "-9", trailing.CarryOverOut)
	assert.True(t, trailing.IsFinal)
}

func TestBuildSettlements_GoodwillListedButNotCounted(t *testing.T) {
	a := credit("10", date(2024, 1, 1), date(2024, 6, 30))
	free := goodwill("100", date(2024, 3, 1))

	periods := settle([]*ledger.TimeCredit{a}, []*ledger.TimeExpenditure{free})
	require.Len(t, periods, 1)

	assert.Equal(t, []*ledger.TimeExpenditure{free}, periods[0].Expenditures)
	assertHours(t, "0", periods[0].ExpenditureTotal)
	assertHours(t, "10", periods[0].Balance)
}

func TestBuildSettlements_OnlyUncoveredActivity(t *testing.T) {
	e := expenditure("3", date(2024, 3, 1))

	periods := settle(nil, []*ledger.TimeExpenditure{e})
	require.Len(t, periods, 1)

	assert.Nil(t, periods[0].Credit)
	assertHours(t, "-3", periods[0].CarryOverOut)
	assert.True(t, periods[0].IsFinal)
}

func TestBuildSettlements_Empty(t *testing.T) {
	assert.Empty(t, settle(nil, nil))
}

func TestBuildSettlements_OverlappingWindowsUseFirstCredit(t *testing.T) {
	wide := credit("10", date(2024, 1, 1), date(2024, 12, 31))
	narrow := credit("10", date(2024, 3, 1), date(2024, 3, 31))
	e := expenditure("2", date(2024, 3, 15))

	periods := settle([]*ledger.TimeCredit{narrow, wide}, []*ledger.TimeExpenditure{e})
	require.Len(t, periods, 2)

	assert.Equal(t, wide, periods[0].Credit)
	assert.Len(t, periods[0].Expenditures, 1)
	assert.Empty(t, periods[1].Expenditures)
}
