package http_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/MrJamesThe3rd/timebank/internal/http"
	"github.com/MrJamesThe3rd/timebank/internal/http/account"
	"github.com/MrJamesThe3rd/timebank/internal/http/credit"
	"github.com/MrJamesThe3rd/timebank/internal/http/expenditure"
	"github.com/MrJamesThe3rd/timebank/internal/http/importcsv"
	invoicehttp "github.com/MrJamesThe3rd/timebank/internal/http/invoice"
	"github.com/MrJamesThe3rd/timebank/internal/importer"
	"github.com/MrJamesThe3rd/timebank/internal/invoice"
	invoicemem "github.com/MrJamesThe3rd/timebank/internal/invoice/memstore"
	"github.com/MrJamesThe3rd/timebank/internal/ledger"
	ledgermem "github.com/MrJamesThe3rd/timebank/internal/ledger/memstore"
)

type fieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type errorBody struct {
	Error  string       `json:"error"`
	Fields []fieldError `json:"fields"`
}

type deductionBody struct {
	ExpenditureID uuid.UUID       `json:"expenditure_id"`
	CreditID      *uuid.UUID      `json:"credit_id"`
	HoursDeducted decimal.Decimal `json:"hours_deducted"`
}

type creditBody struct {
	ID             uuid.UUID       `json:"id"`
	RemainingHours decimal.Decimal `json:"remaining_hours"`
	IsExpired      bool            `json:"is_expired"`
	IsActive       bool            `json:"is_active"`
}

type expenditureBody struct {
	ID         uuid.UUID       `json:"id"`
	Time       *string         `json:"time"`
	HoursSpent decimal.Decimal `json:"hours_spent"`
	Deductions []deductionBody `json:"deductions"`
}

type balanceBody struct {
	TotalCredits      decimal.Decimal `json:"total_credits"`
	TotalExpenditures decimal.Decimal `json:"total_expenditures"`
	CurrentBalance    decimal.Decimal `json:"current_balance"`
}

type settlementBody struct {
	Credit *struct {
		ID uuid.UUID `json:"id"`
	} `json:"credit"`
	CarryOverIn  decimal.Decimal `json:"carry_over_in"`
	Balance      decimal.Decimal `json:"balance"`
	CarryOverOut decimal.Decimal `json:"carry_over_out"`
	IsFinal      bool            `json:"is_final"`
}

type invoiceBody struct {
	ID                         uuid.UUID       `json:"id"`
	InvoiceNumber              *string         `json:"invoice_number"`
	StartDate                  *string         `json:"start_date"`
	TotalCredits               decimal.Decimal `json:"total_credits"`
	TotalExpenditures          decimal.Decimal `json:"total_expenditures"`
	Balance                    decimal.Decimal `json:"balance"`
	GeneratedDocumentReference string          `json:"generated_document_reference"`
	LineItems                  []struct {
		Kind string `json:"kind"`
		Date string `json:"date"`
	} `json:"line_items"`
}

type testServer struct {
	t       *testing.T
	handler http.Handler
	base    string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ledgerSvc := ledger.NewService(ledgermem.New())
	invoiceSvc := invoice.NewService(invoicemem.New(), ledgerSvc)

	h := apphttp.New(apphttp.Handlers{
		Credits:      credit.NewHandler(ledgerSvc),
		Expenditures: expenditure.NewHandler(ledgerSvc),
		Import:       importcsv.NewHandler(importer.NewService(), ledgerSvc),
		Account:      account.NewHandler(ledgerSvc),
		Invoices:     invoicehttp.NewHandler(invoiceSvc),
	}, []string{"*"})

	return &testServer{
		t:       t,
		handler: h,
		base:    "/api/v1/licenses/" + uuid.NewString(),
	}
}

func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())

	return v
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "got %s, want %s", got, want)
}

func creditJSON(hours, start, end string) map[string]any {
	return map[string]any{
		"start_date":   start,
		"end_date":     end,
		"granted_by":   "ops",
		"credit_hours": hours,
	}
}

func expenditureJSON(hours, date string) map[string]any {
	return map[string]any{
		"date":        date,
		"activity":    "remote_support",
		"task_type":   "bugs",
		"hours_spent": hours,
	}
}

func TestRouter_LedgerScenario(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, s.base+"/credits?today=2024-03-01", creditJSON("10", "2024-01-01", "2024-06-30"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	a := decode[creditBody](t, rec)
	assertDecimal(t, "10", a.RemainingHours)
	assert.True(t, a.IsActive)
	assert.False(t, a.IsExpired)

	rec = s.do(http.MethodPost, s.base+"/expenditures", expenditureJSON("4", "2024-02-01"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, s.base+"/expenditures", expenditureJSON("8", "2024-03-01"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	second := decode[expenditureBody](t, rec)
	require.Len(t, second.Deductions, 2)
	assert.Equal(t, a.ID, *second.Deductions[0].CreditID)
	assertDecimal(t, "6", second.Deductions[0].HoursDeducted)
	assert.Nil(t, second.Deductions[1].CreditID)
	assertDecimal(t, "2", second.Deductions[1].HoursDeducted)

	rec = s.do(http.MethodGet, s.base+"/balance", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	b := decode[balanceBody](t, rec)
	assertDecimal(t, "10", b.TotalCredits)
	assertDecimal(t, "12", b.TotalExpenditures)
	assertDecimal(t, "-2", b.CurrentBalance)

	rec = s.do(http.MethodPost, s.base+"/credits", creditJSON("20", "2024-07-01", "2024-12-31"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, s.base+"/settlements", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	periods := decode[[]settlementBody](t, rec)
	require.Len(t, periods, 2)
	assertDecimal(t, "-2", periods[0].CarryOverOut)
	assertDecimal(t, "-2", periods[1].CarryOverIn)
	assertDecimal(t, "18", periods[1].Balance)
	assertDecimal(t, "0", periods[1].CarryOverOut)
	assert.True(t, periods[1].IsFinal)

	rec = s.do(http.MethodGet, s.base+"/credits/"+a.ID.String()+"?today=2024-08-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	expired := decode[creditBody](t, rec)
	assertDecimal(t, "0", expired.RemainingHours)
	assert.True(t, expired.IsExpired)
	assert.False(t, expired.IsActive)

	rec = s.do(http.MethodGet, s.base+"/deductions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]deductionBody](t, rec), 3)

	rec = s.do(http.MethodPost, s.base+"/reallocate", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]deductionBody](t, rec), 3)
}

func TestRouter_ValidationErrors(t *testing.T) {
	type testCase struct {
		name       string
		path       string
		body       any
		wantFields []string
	}

	tests := []testCase{
		{
			name:       "InvertedCreditWindow",
			path:       "/credits",
			body:       creditJSON("10", "2024-06-30", "2024-01-01"),
			wantFields: []string{"end_date"},
		},
		{
			name:       "NegativeCredit",
			path:       "/credits",
			body:       creditJSON("-1", "2024-01-01", "2024-06-30"),
			wantFields: []string{"credit_hours"},
		},
		{
			name:       "MalformedDate",
			path:       "/credits",
			body:       creditJSON("10", "01/01/2024", "2024-06-30"),
			wantFields: []string{"start_date"},
		},
		{
			name:       "ZeroHoursExpenditure",
			path:       "/expenditures",
			body:       expenditureJSON("0", "2024-02-01"),
			wantFields: []string{"hours_spent"},
		},
		{
			name: "UnknownActivity",
			path: "/expenditures",
			body: map[string]any{
				"date":        "2024-02-01",
				"activity":    "onsite",
				"task_type":   "bugs",
				"hours_spent": "1",
			},
			wantFields: []string{"activity"},
		},
		{
			name: "MalformedTime",
			path: "/expenditures",
			body: map[string]any{
				"date":        "2024-02-01",
				"time":        "9am",
				"activity":    "remote_support",
				"task_type":   "bugs",
				"hours_spent": "1",
			},
			wantFields: []string{"time"},
		},
		{
			name: "BatchRowIndex",
			path: "/expenditures/batch",
			body: []map[string]any{
				expenditureJSON("1", "2024-02-01"),
				expenditureJSON("1", "not-a-date"),
			},
			wantFields: []string{"[1].date"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t)

			rec := s.do(http.MethodPost, s.base+tc.path, tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			body := decode[errorBody](t, rec)
			assert.Equal(t, "validation failed", body.Error)

			fields := make([]string, len(body.Fields))
			for i, f := range body.Fields {
				fields[i] = f.Field
			}

			assert.Equal(t, tc.wantFields, fields)
		})
	}
}

func TestRouter_BatchIsAtomic(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, s.base+"/expenditures/batch", []map[string]any{
		expenditureJSON("1", "2024-02-01"),
		expenditureJSON("-1", "2024-02-02"),
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, s.base+"/expenditures", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]expenditureBody](t, rec))
}

func TestRouter_NotFound(t *testing.T) {
	s := newTestServer(t)
	missing := uuid.NewString()

	for _, path := range []string{
		s.base + "/credits/" + missing,
		s.base + "/expenditures/" + missing,
		"/api/v1/invoices/" + missing,
	} {
		rec := s.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}

	rec := s.do(http.MethodDelete, s.base+"/credits/"+missing, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPatch, s.base+"/expenditures/"+missing, map[string]any{"comment": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_BadIdentifiers(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/v1/licenses/not-a-uuid/balance", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, s.base+"/credits/42", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_PatchExpenditureReallocates(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, s.base+"/credits", creditJSON("5", "2024-01-01", "2024-12-31"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(http.MethodPost, s.base+"/expenditures", map[string]any{
		"date":        "2024-02-01",
		"time":        "09:30",
		"activity":    "email_support",
		"task_type":   "training",
		"hours_spent": 3,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	e := decode[expenditureBody](t, rec)
	require.NotNil(t, e.Time)
	assert.Equal(t, "09:30", *e.Time)

	rec = s.do(http.MethodPatch, s.base+"/expenditures/"+e.ID.String(), map[string]any{"hours_spent": "7"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	patched := decode[expenditureBody](t, rec)
	assertDecimal(t, "7", patched.HoursSpent)
	require.NotNil(t, patched.Time)
	require.Len(t, patched.Deductions, 2)
	assert.Nil(t, patched.Deductions[1].CreditID)

	rec = s.do(http.MethodPatch, s.base+"/expenditures/"+e.ID.String(), map[string]any{"is_goodwill": true})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, s.base+"/balance", nil)
	assertDecimal(t, "5", decode[balanceBody](t, rec).CurrentBalance)

	rec = s.do(http.MethodDelete, s.base+"/expenditures/"+e.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRouter_Invoices(t *testing.T) {
	s := newTestServer(t)

	for _, c := range []map[string]any{
		creditJSON("10", "2024-01-01", "2024-06-30"),
		creditJSON("20", "2024-07-01", "2024-12-31"),
	} {
		rec := s.do(http.MethodPost, s.base+"/credits", c)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	for _, e := range []map[string]any{
		expenditureJSON("4", "2024-02-01"),
		expenditureJSON("8", "2024-03-01"),
	} {
		rec := s.do(http.MethodPost, s.base+"/expenditures", e)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := s.do(http.MethodPost, s.base+"/invoices", map[string]any{
		"end_date":       "2024-06-30",
		"invoice_number": "INV-1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	inv := decode[invoiceBody](t, rec)
	require.NotNil(t, inv.InvoiceNumber)
	assert.Equal(t, "INV-1", *inv.InvoiceNumber)
	assert.Nil(t, inv.StartDate)
	assertDecimal(t, "10", inv.TotalCredits)
	assertDecimal(t, "12", inv.TotalExpenditures)
	assertDecimal(t, "-2", inv.Balance)
	require.Len(t, inv.LineItems, 3)
	assert.Equal(t, "credit", inv.LineItems[0].Kind)
	assert.Equal(t, "2024-01-01", inv.LineItems[0].Date)

	rec = s.do(http.MethodPost, s.base+"/invoices", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assertDecimal(t, "18", decode[invoiceBody](t, rec).Balance)

	rec = s.do(http.MethodGet, s.base+"/invoices", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]invoiceBody](t, rec), 2)

	rec = s.do(http.MethodPost, s.base+"/invoices", map[string]any{
		"start_date": "2024-07-01",
		"end_date":   "2024-01-01",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodDelete, "/api/v1/invoices/"+inv.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/invoices/"+inv.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, s.base+"/balance", nil)
	assertDecimal(t, "18", decode[balanceBody](t, rec).CurrentBalance)
}

func TestRouter_Import(t *testing.T) {
	s := newTestServer(t)

	upload := func(content string) *httptest.ResponseRecorder {
		var buf bytes.Buffer

		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("file", "timesheet.csv")
		require.NoError(t, err)

		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, s.base+"/expenditures/import", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())

		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, req)

		return rec
	}

	rec := upload("date;hours;activity;task_type\n2024-02-01;1,5;remote_support;bugs\n2024-02-02;0,5;email_support;testing\n")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body struct {
		Imported     int               `json:"imported"`
		Expenditures []expenditureBody `json:"expenditures"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, 2, body.Imported)
	require.Len(t, body.Expenditures, 2)

	rec = s.do(http.MethodGet, s.base+"/balance", nil)
	assertDecimal(t, "-2", decode[balanceBody](t, rec).CurrentBalance)

	rec = upload("date;hours;activity\n2024-02-03;abc;remote_support\n")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "rows[2].hours", decode[errorBody](t, rec).Fields[0].Field)

	rec = s.do(http.MethodGet, s.base+"/expenditures", nil)
	assert.Len(t, decode[[]expenditureBody](t, rec), 2)
}

func TestRouter_RejectsNonJSONBody(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, s.base+"/credits", bytes.NewBufferString("start_date=2024-01-01"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestRouter_ExposesMetrics(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, s.base+"/credits", creditJSON("10", "2024-01-01", "2024-06-30"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `timebank_ledger_mutations_total{op="add_credit",result="ok"}`)
	assert.Contains(t, body, `route="/api/v1/licenses/{licenseID}/credits`)
}
