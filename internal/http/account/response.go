package account

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/timebank/internal/http/api"
	"github.com/MrJamesThe3rd/timebank/internal/ledger"
)

type balanceResponse struct {
	LicenseID         uuid.UUID       `json:"license_id"`
	TotalCredits      decimal.Decimal `json:"total_credits"`
	TotalExpenditures decimal.Decimal `json:"total_expenditures"`
	CurrentBalance    decimal.Decimal `json:"current_balance"`
}

func toBalanceResponse(licenseID uuid.UUID, b ledger.Balance) balanceResponse {
	return balanceResponse{
		LicenseID:         licenseID,
		TotalCredits:      b.TotalCredits,
		TotalExpenditures: b.TotalExpenditures,
		CurrentBalance:    b.CurrentBalance,
	}
}

type creditSummary struct {
	ID          uuid.UUID       `json:"id"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	GrantedBy   string          `json:"granted_by"`
	CreditHours decimal.Decimal `json:"credit_hours"`
}

type settlementResponse struct {
	Credit           *creditSummary            `json:"credit"`
	Expenditures     []api.ExpenditureResponse `json:"expenditures"`
	CarryOverIn      decimal.Decimal           `json:"carry_over_in"`
	CreditAmount     decimal.Decimal           `json:"credit_amount"`
	ExpenditureTotal decimal.Decimal           `json:"expenditure_total"`
	Balance          decimal.Decimal           `json:"balance"`
	CarryOverOut     decimal.Decimal           `json:"carry_over_out"`
	IsFinal          bool                      `json:"is_final"`
}

func toSettlementResponse(s ledger.Settlement) settlementResponse {
	resp := settlementResponse{
		Expenditures:     api.ToExpenditureResponseList(s.Expenditures),
		CarryOverIn:      s.CarryOverIn,
		CreditAmount:     s.CreditAmount,
		ExpenditureTotal: s.ExpenditureTotal,
		Balance:          s.Balance,
		CarryOverOut:     s.CarryOverOut,
		IsFinal:          s.IsFinal,
	}

	if c := s.Credit; c != nil {
		resp.Credit = &creditSummary{
			ID:          c.ID,
			StartDate:   api.FormatDate(c.StartDate),
			EndDate:     api.FormatDate(c.EndDate),
			GrantedBy:   c.GrantedBy,
			CreditHours: c.CreditHours,
		}
	}

	return resp
}
