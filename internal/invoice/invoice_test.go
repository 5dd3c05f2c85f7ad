package invoice_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/timebank/internal/invoice"
	"github.com/MrJamesThe3rd/timebank/internal/ledger"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// fixture is the credit A / credit B history with a debt in the first period
// and a goodwill entry.
func fixture() *ledger.Snapshot {
	credits := []*ledger.TimeCredit{
		{ID: uuid.New(), StartDate: date(2024, 7, 1), EndDate: date(2024, 12, 31), CreditHours: dec("20")},
		{ID: uuid.New(), StartDate: date(2024, 1, 1), EndDate: date(2024, 6, 30), CreditHours: dec("10"), GrantedBy: "ops"},
	}
	exps := []*ledger.TimeExpenditure{
		{ID: uuid.New(), Date: date(2024, 3, 1), HoursSpent: dec("8"), Activity: ledger.ActivityPhoneSupport, TaskType: ledger.TaskTypeBugs},
		{ID: uuid.New(), Date: date(2024, 2, 1), HoursSpent: dec("4"), Activity: ledger.ActivityEmailSupport, TaskType: ledger.TaskTypeOther},
		{ID: uuid.New(), Date: date(2024, 8, 1), HoursSpent: dec("100"), IsGoodwill: true, Activity: ledger.ActivityRemoteSupport, TaskType: ledger.TaskTypeTraining},
	}

	return &ledger.Snapshot{
		LicenseID:    uuid.New(),
		Credits:      credits,
		Expenditures: exps,
		Deductions:   ledger.Allocate(credits, exps),
	}
}

func TestBuild(t *testing.T) {
	snap := fixture()

	tests := []struct {
		name      string
		params    invoice.GenerateParams
		wantLines []invoice.LineKind
		credits   string
		exps      string
		balance   string
	}{
		{
			name: "AllHistory",
			wantLines: []invoice.LineKind{
				invoice.LineCredit, invoice.LineCredit,
				invoice.LineExpenditure, invoice.LineExpenditure, invoice.LineGoodwill,
			},
			credits: "30",
			exps:    "12",
			balance: "18",
		},
		{
			name:      "FirstHalf",
			params:    invoice.GenerateParams{StartDate: new(date(2024, 1, 1)), EndDate: new(date(2024, 6, 30))},
			wantLines: []invoice.LineKind{invoice.LineCredit, invoice.LineExpenditure, invoice.LineExpenditure},
			credits:   "10",
			exps:      "12",
			balance:   "-2",
		},
		{
			name:      "OpenStartInclusiveEnd",
			params:    invoice.GenerateParams{EndDate: new(date(2024, 2, 1))},
			wantLines: []invoice.LineKind{invoice.LineCredit, invoice.LineExpenditure},
			credits:   "10",
			exps:      "4",
			balance:   "6",
		},
		{
			name:      "GoodwillOnly",
			params:    invoice.GenerateParams{StartDate: new(date(2024, 8, 1)), EndDate: new(date(2024, 8, 1))},
			wantLines: []invoice.LineKind{invoice.LineGoodwill},
			credits:   "0",
			exps:      "0",
			balance:   "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := invoice.Build(snap, tt.params)

			kinds := make([]invoice.LineKind, len(inv.LineItems))
			for i, li := range inv.LineItems {
				kinds[i] = li.Kind
			}

			assert.Equal(t, tt.wantLines, kinds)
			assert.Equal(t, snap.LicenseID, inv.LicenseID)
			assert.True(t, dec(tt.credits).Equal(inv.TotalCredits), "total_credits %s", inv.TotalCredits)
			assert.True(t, dec(tt.exps).Equal(inv.TotalExpenditures), "total_expenditures %s", inv.TotalExpenditures)
			assert.True(t, dec(tt.balance).Equal(inv.Balance), "balance %s", inv.Balance)
		})
	}
}

func TestBuild_LineItemsAreChronological(t *testing.T) {
	inv := invoice.Build(fixture(), invoice.GenerateParams{})
	require.Len(t, inv.LineItems, 5)

	assert.Equal(t, date(2024, 1, 1), inv.LineItems[0].Date)
	assert.Equal(t, "ops", inv.LineItems[0].User)
	assert.Equal(t, date(2024, 6, 30), *inv.LineItems[0].EndDate)
	assert.Equal(t, date(2024, 7, 1), inv.LineItems[1].Date)
	assert.Equal(t, date(2024, 2, 1), inv.LineItems[2].Date)
	assert.Equal(t, ledger.ActivityEmailSupport, inv.LineItems[2].Activity)
	assert.Equal(t, date(2024, 3, 1), inv.LineItems[3].Date)
}

func TestGenerateParams_Validate(t *testing.T) {
	assert.NoError(t, invoice.GenerateParams{}.Validate())
	assert.NoError(t, invoice.GenerateParams{StartDate: new(date(2024, 1, 1)), EndDate: new(date(2024, 1, 1))}.Validate())

	err := invoice.GenerateParams{StartDate: new(date(2024, 2, 1)), EndDate: new(date(2024, 1, 1))}.Validate()

	var ve *ledger.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "end_date", ve.Fields[0].Field)

	err = invoice.GenerateParams{InvoiceNumber: new("")}.Validate()
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "invoice_number", ve.Fields[0].Field)
}
