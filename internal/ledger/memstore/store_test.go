package memstore_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/timebank/internal/ledger"
	"github.com/MrJamesThe3rd/timebank/internal/ledger/memstore"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func work(h string, on time.Time) ledger.ExpenditureParams {
	return ledger.ExpenditureParams{
		Date:       on,
		Activity:   ledger.ActivityRemoteSupport,
		TaskType:   ledger.TaskTypeBugs,
		HoursSpent: decimal.RequireFromString(h),
	}
}

func grant(h string, start, end time.Time) ledger.CreditParams {
	return ledger.CreditParams{
		StartDate:   start,
		EndDate:     end,
		GrantedBy:   "ops",
		CreditHours: decimal.RequireFromString(h),
	}
}

func requireBalance(t *testing.T, svc *ledger.Service, licenseID uuid.UUID, want string) {
	t.Helper()

	b, err := svc.GetBalance(context.Background(), licenseID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString(want).Equal(b.CurrentBalance), "balance %s, want %s", b.CurrentBalance, want)
}

func TestLedgerScenario(t *testing.T) {
	ctx := context.Background()
	svc := ledger.NewService(memstore.New())
	licenseID := uuid.New()

	a, err := svc.AddCredit(ctx, licenseID, grant("10", date(2024, 1, 1), date(2024, 6, 30)))
	require.NoError(t, err)

	_, err = svc.AddExpenditure(ctx, licenseID, work("4", date(2024, 2, 1)))
	require.NoError(t, err)

	view, err := svc.GetCredit(ctx, licenseID, a.ID, date(2024, 3, 1))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(6).Equal(view.RemainingHours))

	second, err := svc.AddExpenditure(ctx, licenseID, work("8", date(2024, 3, 1)))
	require.NoError(t, err)

	exp, err := svc.GetExpenditure(ctx, licenseID, second.ID)
	require.NoError(t, err)
	require.Len(t, exp.Deductions, 2)
	assert.Equal(t, a.ID, *exp.Deductions[0].CreditID)
	assert.True(t, exp.Deductions[1].IsDebt())
	requireBalance(t, svc, licenseID, "-2")

	_, err = svc.AddCredit(ctx, licenseID, grant("20", date(2024, 7, 1), date(2024, 12, 31)))
	require.NoError(t, err)

	periods, err := svc.Settlements(ctx, licenseID)
	require.NoError(t, err)
	require.Len(t, periods, 2)
	assert.True(t, decimal.NewFromInt(-2).Equal(periods[1].CarryOverIn))
	assert.True(t, decimal.NewFromInt(18).Equal(periods[1].Balance))
	assert.True(t, periods[1].CarryOverOut.IsZero())
	requireBalance(t, svc, licenseID, "18")

	free := work("100", date(2024, 4, 1))
	free.IsGoodwill = true

	_, err = svc.AddExpenditure(ctx, licenseID, free)
	require.NoError(t, err)
	requireBalance(t, svc, licenseID, "18")

	credits, err := svc.ListCredits(ctx, licenseID, date(2024, 8, 1))
	require.NoError(t, err)
	require.Len(t, credits, 2)
	assert.True(t, credits[0].RemainingHours.IsZero())
	assert.True(t, credits[0].IsExpired)
	assert.True(t, decimal.NewFromInt(18).Equal(credits[1].RemainingHours))
	assert.True(t, credits[1].IsActive)
}

func TestDeleteCreditCascadesReallocation(t *testing.T) {
	ctx := context.Background()
	svc := ledger.NewService(memstore.New())
	licenseID := uuid.New()

	c, err := svc.AddCredit(ctx, licenseID, grant("10", date(2024, 1, 1), date(2024, 6, 30)))
	require.NoError(t, err)

	_, err = svc.AddExpenditure(ctx, licenseID, work("4", date(2024, 2, 1)))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCredit(ctx, licenseID, c.ID))

	ds, err := svc.ListDeductions(ctx, licenseID)
	require.NoError(t, err)
	require.Len(t, ds, 1)
	assert.True(t, ds[0].IsDebt())
	requireBalance(t, svc, licenseID, "-4")
}

func TestUpdateExpenditureReallocates(t *testing.T) {
	ctx := context.Background()
	svc := ledger.NewService(memstore.New())
	licenseID := uuid.New()

	_, err := svc.AddCredit(ctx, licenseID, grant("10", date(2024, 1, 1), date(2024, 6, 30)))
	require.NoError(t, err)

	e, err := svc.AddExpenditure(ctx, licenseID, work("4", date(2024, 2, 1)))
	require.NoError(t, err)

	params := e.Params()
	params.HoursSpent = decimal.NewFromInt(12)

	updated, err := svc.UpdateExpenditure(ctx, licenseID, e.ID, params)
	require.NoError(t, err)
	assert.NotNil(t, updated.UpdatedAt)

	ds, err := svc.ListDeductions(ctx, licenseID)
	require.NoError(t, err)
	require.Len(t, ds, 2)
	assert.True(t, decimal.NewFromInt(2).Equal(ds[1].HoursDeducted))

	require.NoError(t, svc.DeleteExpenditure(ctx, licenseID, e.ID))

	ds, err = svc.ListDeductions(ctx, licenseID)
	require.NoError(t, err)
	assert.Empty(t, ds)
	requireBalance(t, svc, licenseID, "10")
}

func TestFailedMutationLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	svc := ledger.NewService(store)
	licenseID := uuid.New()

	_, err := svc.AddCredit(ctx, licenseID, grant("10", date(2024, 1, 1), date(2024, 6, 30)))
	require.NoError(t, err)

	bad := work("1", date(2024, 2, 1))
	bad.TaskType = "unknown"

	_, err = svc.AddExpenditures(ctx, licenseID, []ledger.ExpenditureParams{work("1", date(2024, 2, 1)), bad})
	require.Error(t, err)

	err = svc.DeleteExpenditure(ctx, licenseID, uuid.New())
	assert.True(t, ledger.IsNotFound(err))

	snap, err := store.Snapshot(ctx, licenseID)
	require.NoError(t, err)
	assert.Len(t, snap.Credits, 1)
	assert.Empty(t, snap.Expenditures)
}

func TestTxIsolation(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	licenseID := uuid.New()

	tx, err := store.Begin(ctx, licenseID)
	require.NoError(t, err)

	require.NoError(t, tx.CreateCredit(ctx, &ledger.TimeCredit{
		LicenseID:   licenseID,
		StartDate:   date(2024, 1, 1),
		EndDate:     date(2024, 1, 31),
		CreditHours: decimal.NewFromInt(1),
	}))
	require.NoError(t, tx.Rollback())
	assert.Error(t, tx.Commit())

	snap, err := store.Snapshot(ctx, licenseID)
	require.NoError(t, err)
	assert.Empty(t, snap.Credits)
}

func TestConcurrentMutationsAreSerialized(t *testing.T) {
	ctx := context.Background()
	svc := ledger.NewService(memstore.New())
	licenseID := uuid.New()
	other := uuid.New()

	_, err := svc.AddCredit(ctx, licenseID, grant("50", date(2024, 1, 1), date(2024, 12, 31)))
	require.NoError(t, err)

	var wg sync.WaitGroup

	for i := range 40 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			target := licenseID
			if i%2 == 1 {
				target = other
			}

			_, err := svc.AddExpenditure(ctx, target, work("1.5", date(2024, 3, 1+i%20)))
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	requireBalance(t, svc, licenseID, "20")
	requireBalance(t, svc, other, "-30")

	snap, err := svc.Snapshot(ctx, licenseID)
	require.NoError(t, err)
	assert.NoError(t, ledger.Reconcile(licenseID, snap.Credits, snap.Expenditures, snap.Deductions))
	assert.Equal(t, ledger.Allocate(snap.Credits, snap.Expenditures), snap.Deductions)
}
