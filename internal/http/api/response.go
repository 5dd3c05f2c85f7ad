package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/timebank/internal/ledger"
)

type CreditResponse struct {
	ID             uuid.UUID        `json:"id"`
	LicenseID      uuid.UUID        `json:"license_id"`
	StartDate      string           `json:"start_date"`
	EndDate        string           `json:"end_date"`
	GrantedBy      string           `json:"granted_by"`
	CreditHours    decimal.Decimal  `json:"credit_hours"`
	RemainingHours *decimal.Decimal `json:"remaining_hours,omitempty"`
	IsExpired      *bool            `json:"is_expired,omitempty"`
	IsActive       *bool            `json:"is_active,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      *time.Time       `json:"updated_at,omitempty"`
}

func ToCreditResponse(c *ledger.TimeCredit) CreditResponse {
	return CreditResponse{
		ID:          c.ID,
		LicenseID:   c.LicenseID,
		StartDate:   FormatDate(c.StartDate),
		EndDate:     FormatDate(c.EndDate),
		GrantedBy:   c.GrantedBy,
		CreditHours: c.CreditHours,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func ToCreditViewResponse(v ledger.CreditView) CreditResponse {
	resp := ToCreditResponse(v.TimeCredit)
	resp.RemainingHours = new(v.RemainingHours)
	resp.IsExpired = new(v.IsExpired)
	resp.IsActive = new(v.IsActive)

	return resp
}

func ToCreditViewResponseList(views []ledger.CreditView) []CreditResponse {
	resp := make([]CreditResponse, len(views))
	for i, v := range views {
		resp[i] = ToCreditViewResponse(v)
	}

	return resp
}

type DeductionResponse struct {
	ExpenditureID uuid.UUID       `json:"expenditure_id"`
	CreditID      *uuid.UUID      `json:"credit_id"`
	HoursDeducted decimal.Decimal `json:"hours_deducted"`
}

func ToDeductionResponseList(ds []ledger.Deduction) []DeductionResponse {
	resp := make([]DeductionResponse, len(ds))
	for i, d := range ds {
		resp[i] = DeductionResponse{
			ExpenditureID: d.ExpenditureID,
			CreditID:      d.CreditID,
			HoursDeducted: d.HoursDeducted,
		}
	}

	return resp
}

type ExpenditureResponse struct {
	ID         uuid.UUID           `json:"id"`
	LicenseID  uuid.UUID           `json:"license_id"`
	Date       string              `json:"date"`
	Time       *string             `json:"time"`
	User       string              `json:"user"`
	Activity   ledger.Activity     `json:"activity"`
	TaskType   ledger.TaskType     `json:"task_type"`
	HoursSpent decimal.Decimal     `json:"hours_spent"`
	Comment    string              `json:"comment"`
	IsGoodwill bool                `json:"is_goodwill"`
	Deductions []DeductionResponse `json:"deductions,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  *time.Time          `json:"updated_at,omitempty"`
}

func ToExpenditureResponse(e *ledger.TimeExpenditure) ExpenditureResponse {
	return ExpenditureResponse{
		ID:         e.ID,
		LicenseID:  e.LicenseID,
		Date:       FormatDate(e.Date),
		Time:       FormatTime(e.Time),
		User:       e.User,
		Activity:   e.Activity,
		TaskType:   e.TaskType,
		HoursSpent: e.HoursSpent,
		Comment:    e.Comment,
		IsGoodwill: e.IsGoodwill,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func ToExpenditureViewResponse(v ledger.ExpenditureView) ExpenditureResponse {
	resp := ToExpenditureResponse(v.TimeExpenditure)
	resp.Deductions = ToDeductionResponseList(v.Deductions)

	return resp
}

func ToExpenditureResponseList(exps []*ledger.TimeExpenditure) []ExpenditureResponse {
	resp := make([]ExpenditureResponse, len(exps))
	for i, e := range exps {
		resp[i] = ToExpenditureResponse(e)
	}

	return resp
}
