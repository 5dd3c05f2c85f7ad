package invoice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/timebank/internal/invoice"
	"github.com/MrJamesThe3rd/timebank/internal/invoice/memstore"
	"github.com/MrJamesThe3rd/timebank/internal/ledger"
	ledgermem "github.com/MrJamesThe3rd/timebank/internal/ledger/memstore"
)

type mocks struct {
	repo     *invoice.MockRepository
	renderer *invoice.MockRenderer
	ledger   *invoice.MockLedgerReader
}

func TestService_Generate(t *testing.T) {
	snap := fixture()
	licenseID := snap.LicenseID

	type testCase struct {
		name        string
		params      invoice.GenerateParams
		setupMock   func(m mocks)
		wantErr     bool
		wantBalance string
		wantRef     string
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(m mocks) {
				m.ledger.EXPECT().Snapshot(gomock.Any(), licenseID).Return(snap, nil)
				gomock.InOrder(
					m.renderer.EXPECT().
						Render(gomock.Any(), gomock.Any()).
						DoAndReturn(func(_ context.Context, inv *invoice.MaintenanceInvoice) (string, error) {
							assert.NotEqual(t, uuid.Nil, inv.ID)
							return "https://docs.example.com/" + inv.ID.String() + ".pdf", nil
						}),
					m.repo.EXPECT().
						CreateInvoice(gomock.Any(), gomock.Any()).
						DoAndReturn(func(_ context.Context, inv *invoice.MaintenanceInvoice) error {
							assert.NotEmpty(t, inv.DocumentReference)
							return nil
						}),
				)
			},
			wantBalance: "18",
			wantRef:     "https://docs.example.com/",
		},
		{
			name:    "InvertedWindow",
			params:  invoice.GenerateParams{StartDate: new(date(2024, 2, 1)), EndDate: new(date(2024, 1, 1))},
			wantErr: true,
		},
		{
			name: "LedgerError",
			setupMock: func(m mocks) {
				m.ledger.EXPECT().Snapshot(gomock.Any(), licenseID).Return(nil, errors.New("db down"))
			},
			wantErr: true,
		},
		{
			name: "RendererErrorStoresNothing",
			setupMock: func(m mocks) {
				m.ledger.EXPECT().Snapshot(gomock.Any(), licenseID).Return(snap, nil)
				m.renderer.EXPECT().Render(gomock.Any(), gomock.Any()).Return("", errors.New("renderer unavailable"))
			},
			wantErr: true,
		},
		{
			name: "RepoError",
			setupMock: func(m mocks) {
				m.ledger.EXPECT().Snapshot(gomock.Any(), licenseID).Return(snap, nil)
				m.renderer.EXPECT().Render(gomock.Any(), gomock.Any()).Return("ref", nil)
				m.repo.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).Return(errors.New("insert failed"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := mocks{
				repo:     invoice.NewMockRepository(ctrl),
				renderer: invoice.NewMockRenderer(ctrl),
				ledger:   invoice.NewMockLedgerReader(ctrl),
			}

			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			svc := invoice.NewService(m.repo, m.ledger, invoice.WithRenderer(m.renderer))
			got, err := svc.Generate(context.Background(), licenseID, tt.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.True(t, dec(tt.wantBalance).Equal(got.Balance))
			assert.Contains(t, got.DocumentReference, tt.wantRef)
			assert.False(t, got.CreatedAt.IsZero())
		})
	}
}

// Invoices are independent of the ledger: deleting one never moves the balance.
func TestService_DeleteLeavesLedgerUntouched(t *testing.T) {
	ctx := context.Background()
	licenseID := uuid.New()
	ledgerSvc := ledger.NewService(ledgermem.New())

	_, err := ledgerSvc.AddCredit(ctx, licenseID, ledger.CreditParams{
		StartDate: date(2024, 1, 1), EndDate: date(2024, 6, 30), CreditHours: dec("10"),
	})
	require.NoError(t, err)

	_, err = ledgerSvc.AddCredit(ctx, licenseID, ledger.CreditParams{
		StartDate: date(2024, 7, 1), EndDate: date(2024, 12, 31), CreditHours: dec("20"),
	})
	require.NoError(t, err)

	_, err = ledgerSvc.AddExpenditures(ctx, licenseID, []ledger.ExpenditureParams{
		{Date: date(2024, 2, 1), HoursSpent: dec("4"), Activity: ledger.ActivityEmailSupport, TaskType: ledger.TaskTypeOther},
		{Date: date(2024, 3, 1), HoursSpent: dec("8"), Activity: ledger.ActivityEmailSupport, TaskType: ledger.TaskTypeOther},
	})
	require.NoError(t, err)

	svc := invoice.NewService(memstore.New(), ledgerSvc)

	first, err := svc.Generate(ctx, licenseID, invoice.GenerateParams{})
	require.NoError(t, err)
	assert.True(t, dec("30").Equal(first.TotalCredits))
	assert.True(t, dec("12").Equal(first.TotalExpenditures))
	assert.True(t, dec("18").Equal(first.Balance))
	assert.Empty(t, first.DocumentReference)

	second, err := svc.Generate(ctx, licenseID, invoice.GenerateParams{InvoiceNumber: new("INV-2")})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	list, err := svc.List(ctx, licenseID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	before, err := ledgerSvc.GetBalance(ctx, licenseID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, first.ID))

	after, err := ledgerSvc.GetBalance(ctx, licenseID)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	_, err = svc.Get(ctx, first.ID)
	assert.True(t, ledger.IsNotFound(err))

	got, err := svc.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-2", *got.InvoiceNumber)

	assert.True(t, ledger.IsNotFound(svc.Delete(ctx, first.ID)))
}
