package credit

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/timebank/internal/http/api"
	"github.com/MrJamesThe3rd/timebank/internal/ledger"
)

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createCreditRequest struct {
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	GrantedBy   string          `json:"granted_by"`
	CreditHours decimal.Decimal `json:"credit_hours"`
}

func (req createCreditRequest) params() (ledger.CreditParams, error) {
	var v ledger.ValidationError

	p := ledger.CreditParams{
		StartDate:   api.ParseDate(&v, "start_date", req.StartDate),
		EndDate:     api.ParseDate(&v, "end_date", req.EndDate),
		GrantedBy:   req.GrantedBy,
		CreditHours: req.CreditHours,
	}

	return p, v.Err()
}

type updateCreditRequest struct {
	StartDate   *string          `json:"start_date,omitempty"`
	EndDate     *string          `json:"end_date,omitempty"`
	GrantedBy   *string          `json:"granted_by,omitempty"`
	CreditHours *decimal.Decimal `json:"credit_hours,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	licenseID, ok := api.LicenseID(r)
	if !ok {
		api.BadRequest(w, "invalid license id")
		return
	}

	var req createCreditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.BadRequest(w, err.Error())
		return
	}

	params, err := req.params()
	if err != nil {
		api.Error(w, err)
		return
	}

	c, err := h.svc.AddCredit(r.Context(), licenseID, params)
	if err != nil {
		api.Error(w, err)
		return
	}

	h.respond(w, r, http.StatusCreated, c)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	licenseID, ok := api.LicenseID(r)
	if !ok {
		api.BadRequest(w, "invalid license id")
		return
	}

	today, err := api.Today(r)
	if err != nil {
		api.BadRequest(w, "invalid today")
		return
	}

	views, err := h.svc.ListCredits(r.Context(), licenseID, today)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, api.ToCreditViewResponseList(views))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	licenseID, ok := api.LicenseID(r)
	if !ok {
		api.BadRequest(w, "invalid license id")
		return
	}

	id, ok := api.PathID(r, "id")
	if !ok {
		api.BadRequest(w, "invalid id")
		return
	}

	today, err := api.Today(r)
	if err != nil {
		api.BadRequest(w, "invalid today")
		return
	}

	v, err := h.svc.GetCredit(r.Context(), licenseID, id, today)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, api.ToCreditViewResponse(*v))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	licenseID, ok := api.LicenseID(r)
	if !ok {
		api.BadRequest(w, "invalid license id")
		return
	}

	id, ok := api.PathID(r, "id")
	if !ok {
		api.BadRequest(w, "invalid id")
		return
	}

	var req updateCreditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.BadRequest(w, err.Error())
		return
	}

	var v ledger.ValidationError

	startDate := api.ParseOptionalDate(&v, "start_date", req.StartDate)
	endDate := api.ParseOptionalDate(&v, "end_date", req.EndDate)

	if err := v.Err(); err != nil {
		api.Error(w, err)
		return
	}

	c, err := h.svc.PatchCredit(r.Context(), licenseID, id, func(p *ledger.CreditParams) {
		if startDate != nil {
			p.StartDate = *startDate
		}

		if endDate != nil {
			p.EndDate = *endDate
		}

		if req.GrantedBy != nil {
			p.GrantedBy = *req.GrantedBy
		}

		if req.CreditHours != nil {
			p.CreditHours = *req.CreditHours
		}
	})
	if err != nil {
		api.Error(w, err)
		return
	}

	h.respond(w, r, http.StatusOK, c)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	licenseID, ok := api.LicenseID(r)
	if !ok {
		api.BadRequest(w, "invalid license id")
		return
	}

	id, ok := api.PathID(r, "id")
	if !ok {
		api.BadRequest(w, "invalid id")
		return
	}

	if err := h.svc.DeleteCredit(r.Context(), licenseID, id); err != nil {
		api.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// respond writes the credit with its derived fields after a mutation.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, c *ledger.TimeCredit) {
	today, _ := api.Today(r)

	v, err := h.svc.GetCredit(r.Context(), c.LicenseID, c.ID, today)
	if err != nil {
		api.JSON(w, status, api.ToCreditResponse(c))
		return
	}

	api.JSON(w, status, api.ToCreditViewResponse(*v))
}
