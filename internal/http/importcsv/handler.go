package importcsv

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/timebank/internal/http/api"
	"github.com/MrJamesThe3rd/timebank/internal/importer"
	"github.com/MrJamesThe3rd/timebank/internal/ledger"
)

const maxUploadSize = 10 << 20

type Handler struct {
	importSvc *importer.Service
	ledgerSvc *ledger.Service
}

func NewHandler(importSvc *importer.Service, ledgerSvc *ledger.Service) *Handler {
	return &Handler{
		importSvc: importSvc,
		ledgerSvc: ledgerSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importTimesheet)
}

type importResponse struct {
	Imported     int                       `json:"imported"`
	Expenditures []api.ExpenditureResponse `json:"expenditures"`
}

func (h *Handler) importTimesheet(w http.ResponseWriter, r *http.Request) {
	licenseID, ok := api.LicenseID(r)
	if !ok {
		api.BadRequest(w, "invalid license id")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		api.BadRequest(w, "failed to parse form: "+err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		api.BadRequest(w, "file field is required")
		return
	}
	defer file.Close()

	params, err := h.importSvc.Import(importer.Format(r.FormValue("format")), file)
	if err != nil {
		var ve *ledger.ValidationError
		if errors.As(err, &ve) {
			api.Error(w, err)
			return
		}

		api.BadRequest(w, err.Error())

		return
	}

	if len(params) == 0 {
		api.BadRequest(w, "file contains no expenditures")
		return
	}

	exps, err := h.ledgerSvc.AddExpenditures(r.Context(), licenseID, params)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusCreated, importResponse{
		Imported:     len(exps),
		Expenditures: api.ToExpenditureResponseList(exps),
	})
}
