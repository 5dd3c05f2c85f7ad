package invoice

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/timebank/internal/http/api"
	"github.com/MrJamesThe3rd/timebank/internal/invoice"
	"github.com/MrJamesThe3rd/timebank/internal/ledger"
)

type Handler struct {
	svc *invoice.Service
}

func NewHandler(svc *invoice.Service) *Handler {
	return &Handler{svc: svc}
}

// LicenseRoutes registers the routes scoped to a license.
func (h *Handler) LicenseRoutes(r chi.Router) {
	r.Post("/", h.generate)
	r.Get("/", h.list)
}

// Routes registers the routes that address an invoice by id alone.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
}

type generateRequest struct {
	StartDate     *string `json:"start_date,omitempty"`
	EndDate       *string `json:"end_date,omitempty"`
	InvoiceNumber *string `json:"invoice_number,omitempty"`
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	licenseID, ok := api.LicenseID(r)
	if !ok {
		api.BadRequest(w, "invalid license id")
		return
	}

	// An empty body covers the whole history.
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		api.BadRequest(w, err.Error())
		return
	}

	var v ledger.ValidationError

	params := invoice.GenerateParams{
		StartDate:     api.ParseOptionalDate(&v, "start_date", req.StartDate),
		EndDate:       api.ParseOptionalDate(&v, "end_date", req.EndDate),
		InvoiceNumber: req.InvoiceNumber,
	}

	if err := v.Err(); err != nil {
		api.Error(w, err)
		return
	}

	inv, err := h.svc.Generate(r.Context(), licenseID, params)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusCreated, toInvoiceResponse(inv))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	licenseID, ok := api.LicenseID(r)
	if !ok {
		api.BadRequest(w, "invalid license id")
		return
	}

	invs, err := h.svc.List(r.Context(), licenseID)
	if err != nil {
		api.Error(w, err)
		return
	}

	resp := make([]invoiceResponse, len(invs))
	for i, inv := range invs {
		resp[i] = toInvoiceResponse(inv)
	}

	api.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(r, "id")
	if !ok {
		api.BadRequest(w, "invalid id")
		return
	}

	inv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, toInvoiceResponse(inv))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(r, "id")
	if !ok {
		api.BadRequest(w, "invalid id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		api.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
