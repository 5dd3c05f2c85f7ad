package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/timebank/internal/http/api"
	"github.com/MrJamesThe3rd/timebank/internal/invoice"
	"github.com/MrJamesThe3rd/timebank/internal/ledger"
)

type lineItemResponse struct {
	Kind     invoice.LineKind `json:"kind"`
	EntryID  uuid.UUID        `json:"entry_id"`
	Date     string           `json:"date"`
	EndDate  *string          `json:"end_date,omitempty"`
	Hours    decimal.Decimal  `json:"hours"`
	User     string           `json:"user,omitempty"`
	Activity ledger.Activity  `json:"activity,omitempty"`
	TaskType ledger.TaskType  `json:"task_type,omitempty"`
	Time     string           `json:"time,omitempty"`
	Comment  string           `json:"comment,omitempty"`
}

type invoiceResponse struct {
	ID                         uuid.UUID          `json:"id"`
	LicenseID                  uuid.UUID          `json:"license_id"`
	InvoiceNumber              *string            `json:"invoice_number"`
	StartDate                  *string            `json:"start_date"`
	EndDate                    *string            `json:"end_date"`
	TotalCredits               decimal.Decimal    `json:"total_credits"`
	TotalExpenditures          decimal.Decimal    `json:"total_expenditures"`
	Balance                    decimal.Decimal    `json:"balance"`
	LineItems                  []lineItemResponse `json:"line_items"`
	GeneratedDocumentReference string             `json:"generated_document_reference,omitempty"`
	CreatedAt                  time.Time          `json:"created_at"`
}

func toInvoiceResponse(inv *invoice.MaintenanceInvoice) invoiceResponse {
	resp := invoiceResponse{
		ID:                         inv.ID,
		LicenseID:                  inv.LicenseID,
		InvoiceNumber:              inv.InvoiceNumber,
		StartDate:                  api.FormatOptionalDate(inv.StartDate),
		EndDate:                    api.FormatOptionalDate(inv.EndDate),
		TotalCredits:               inv.TotalCredits,
		TotalExpenditures:          inv.TotalExpenditures,
		Balance:                    inv.Balance,
		LineItems:                  make([]lineItemResponse, len(inv.LineItems)),
		GeneratedDocumentReference: inv.DocumentReference,
		CreatedAt:                  inv.CreatedAt,
	}

	for i, item := range inv.LineItems {
		resp.LineItems[i] = lineItemResponse{
			Kind:     item.Kind,
			EntryID:  item.EntryID,
			Date:     api.FormatDate(item.Date),
			EndDate:  api.FormatOptionalDate(item.EndDate),
			Hours:    item.Hours,
			User:     item.User,
			Activity: item.Activity,
			TaskType: item.TaskType,
			Time:     item.Time,
			Comment:  item.Comment,
		}
	}

	return resp
}
