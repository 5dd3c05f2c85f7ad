// Package account serves the derived, license-wide views of the ledger.
package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

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
	r.Get("/balance", h.balance)
	r.Get("/settlements", h.settlements)
	r.Get("/deductions", h.deductions)
	r.Post("/reallocate", h.reallocate)
}

func (h *Handler) balance(w http.ResponseWriter, r *http.Request) {
	licenseID, ok := api.LicenseID(r)
	if !ok {
		api.BadRequest(w, "invalid license id")
		return
	}

	b, err := h.svc.GetBalance(r.Context(), licenseID)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, toBalanceResponse(licenseID, b))
}

func (h *Handler) settlements(w http.ResponseWriter, r *http.Request) {
	licenseID, ok := api.LicenseID(r)
	if !ok {
		api.BadRequest(w, "invalid license id")
		return
	}

	periods, err := h.svc.Settlements(r.Context(), licenseID)
	if err != nil {
		api.Error(w, err)
		return
	}

	resp := make([]settlementResponse, len(periods))
	for i, p := range periods {
		resp[i] = toSettlementResponse(p)
	}

	api.JSON(w, http.StatusOK, resp)
}

func (h *Handler) deductions(w http.ResponseWriter, r *http.Request) {
	licenseID, ok := api.LicenseID(r)
	if !ok {
		api.BadRequest(w, "invalid license id")
		return
	}

	ds, err := h.svc.ListDeductions(r.Context(), licenseID)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, api.ToDeductionResponseList(ds))
}

func (h *Handler) reallocate(w http.ResponseWriter, r *http.Request) {
	licenseID, ok := api.LicenseID(r)
	if !ok {
		api.BadRequest(w, "invalid license id")
		return
	}

	ds, err := h.svc.Reallocate(r.Context(), licenseID)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, api.ToDeductionResponseList(ds))
}
