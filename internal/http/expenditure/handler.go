package expenditure

import (
	"encoding/json"
	"fmt"
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
	r.Post("/batch", h.createBatch)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createExpenditureRequest struct {
	Date       string          `json:"date"`
	Time       *string         `json:"time,omitempty"`
	User       string          `json:"user"`
	Activity   ledger.Activity `json:"activity"`
	TaskType   ledger.TaskType `json:"task_type"`
	HoursSpent decimal.Decimal `json:"hours_spent"`
	Comment    string          `json:"comment"`
	IsGoodwill bool            `json:"is_goodwill"`
}

// params converts the request, recording malformed dates and times on v
// under prefix.
func (req createExpenditureRequest) params(v *ledger.ValidationError, prefix string) ledger.ExpenditureParams {
	return ledger.ExpenditureParams{
		Date:       api.ParseDate(v, prefix+"date", req.Date),
		Time:       api.ParseTime(v, prefix+"time", req.Time),
		User:       req.User,
		Activity:   req.Activity,
		TaskType:   req.TaskType,
		HoursSpent: req.HoursSpent,
		Comment:    req.Comment,
		IsGoodwill: req.IsGoodwill,
	}
}

type updateExpenditureRequest struct {
	Date       *string          `json:"date,omitempty"`
	Time       *string          `json:"time,omitempty"`
	User       *string          `json:"user,omitempty"`
	Activity   *ledger.Activity `json:"activity,omitempty"`
	TaskType   *ledger.TaskType `json:"task_type,omitempty"`
	HoursSpent *decimal.Decimal `json:"hours_spent,omitempty"`
	Comment    *string          `json:"comment,omitempty"`
	IsGoodwill *bool            `json:"is_goodwill,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	licenseID, ok := api.LicenseID(r)
	if !ok {
		api.BadRequest(w, "invalid license id")
		return
	}

	var req createExpenditureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.BadRequest(w, err.Error())
		return
	}

	var v ledger.ValidationError

	params := req.params(&v, "")
	if err := v.Err(); err != nil {
		api.Error(w, err)
		return
	}

	e, err := h.svc.AddExpenditure(r.Context(), licenseID, params)
	if err != nil {
		api.Error(w, err)
		return
	}

	h.respond(w, r, http.StatusCreated, e)
}

func (h *Handler) createBatch(w http.ResponseWriter, r *http.Request) {
	licenseID, ok := api.LicenseID(r)
	if !ok {
		api.BadRequest(w, "invalid license id")
		return
	}

	var req []createExpenditureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.BadRequest(w, err.Error())
		return
	}

	var v ledger.ValidationError

	params := make([]ledger.ExpenditureParams, len(req))
	for i, item := range req {
		params[i] = item.params(&v, fmt.Sprintf("[%d].", i))
	}

	if err := v.Err(); err != nil {
		api.Error(w, err)
		return
	}

	exps, err := h.svc.AddExpenditures(r.Context(), licenseID, params)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusCreated, api.ToExpenditureResponseList(exps))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	licenseID, ok := api.LicenseID(r)
	if !ok {
		api.BadRequest(w, "invalid license id")
		return
	}

	views, err := h.svc.ListExpenditures(r.Context(), licenseID)
	if err != nil {
		api.Error(w, err)
		return
	}

	resp := make([]api.ExpenditureResponse, len(views))
	for i, v := range views {
		resp[i] = api.ToExpenditureViewResponse(v)
	}

	api.JSON(w, http.StatusOK, resp)
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

	v, err := h.svc.GetExpenditure(r.Context(), licenseID, id)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, api.ToExpenditureViewResponse(*v))
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

	var req updateExpenditureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.BadRequest(w, err.Error())
		return
	}

	var v ledger.ValidationError

	date := api.ParseOptionalDate(&v, "date", req.Date)
	tod := api.ParseTime(&v, "time", req.Time)

	if err := v.Err(); err != nil {
		api.Error(w, err)
		return
	}

	e, err := h.svc.PatchExpenditure(r.Context(), licenseID, id, func(p *ledger.ExpenditureParams) {
		if date != nil {
			p.Date = *date
		}

		// An explicit empty string clears the time of day.
		if req.Time != nil {
			p.Time = tod
		}

		if req.User != nil {
			p.User = *req.User
		}

		if req.Activity != nil {
			p.Activity = *req.Activity
		}

		if req.TaskType != nil {
			p.TaskType = *req.TaskType
		}

		if req.HoursSpent != nil {
			p.HoursSpent = *req.HoursSpent
		}

		if req.Comment != nil {
			p.Comment = *req.Comment
		}

		if req.IsGoodwill != nil {
			p.IsGoodwill = *req.IsGoodwill
		}
	})
	if err != nil {
		api.Error(w, err)
		return
	}

	h.respond(w, r, http.StatusOK, e)
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

	if err := h.svc.DeleteExpenditure(r.Context(), licenseID, id); err != nil {
		api.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, e *ledger.TimeExpenditure) {
	v, err := h.svc.GetExpenditure(r.Context(), e.LicenseID, e.ID)
	if err != nil {
		api.JSON(w, status, api.ToExpenditureResponse(e))
		return
	}

	api.JSON(w, status, api.ToExpenditureViewResponse(*v))
}
