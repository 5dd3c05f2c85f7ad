// Package api holds the request parsing and response writing shared by the
// REST handlers.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/timebank/internal/ledger"
)

type fieldResponse struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type errorResponse struct {
	Error  string          `json:"error"`
	Fields []fieldResponse `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// BadRequest reports a request that could not be decoded at all.
func BadRequest(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// Error maps a service error to its status code. Unknown errors are logged
// and hidden behind a generic message.
func Error(w http.ResponseWriter, err error) {
	var (
		ve  *ledger.ValidationError
		inv *ledger.InvariantViolationError
	)

	switch {
	case errors.As(err, &ve):
		resp := errorResponse{Error: "validation failed", Fields: make([]fieldResponse, len(ve.Fields))}
		for i, f := range ve.Fields {
			resp.Fields[i] = fieldResponse{Field: f.Field, Reason: f.Reason}
		}

		JSON(w, http.StatusBadRequest, resp)
	case errors.Is(err, ledger.ErrNotFound):
		JSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.As(err, &inv):
		slog.Error("ledger invariant violated", "license_id", inv.LicenseID, "error", err)
		JSON(w, http.StatusInternalServerError, errorResponse{Error: "ledger invariant violated"})
	default:
		slog.Error("request failed", "error", err)
		JSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// PathID parses the named chi URL parameter as a uuid.
func PathID(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	return id, err == nil
}

// LicenseID returns the license the request is scoped to.
func LicenseID(r *http.Request) (uuid.UUID, bool) {
	return PathID(r, "licenseID")
}

// Today returns the ?today= override, or the zero time when absent.
func Today(r *http.Request) (time.Time, error) {
	s := r.URL.Query().Get("today")
	if s == "" {
		return time.Time{}, nil
	}

	return time.Parse(time.DateOnly, s)
}

// ParseDate parses a YYYY-MM-DD field, recording a failure on v.
func ParseDate(v *ledger.ValidationError, field, s string) time.Time {
	if s == "" {
		return time.Time{}
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		v.Add(field, "must be a YYYY-MM-DD date")
		return time.Time{}
	}

	return t
}

// ParseOptionalDate is ParseDate for nullable fields.
func ParseOptionalDate(v *ledger.ValidationError, field string, s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}

	t := ParseDate(v, field, *s)
	if t.IsZero() {
		return nil
	}

	return &t
}

// ParseTime parses an optional HH:MM field, recording a failure on v.
func ParseTime(v *ledger.ValidationError, field string, s *string) *ledger.TimeOfDay {
	if s == nil || *s == "" {
		return nil
	}

	t, err := ledger.ParseTimeOfDay(*s)
	if err != nil {
		v.Add(field, "must be a HH:MM time")
		return nil
	}

	return &t
}

func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

func FormatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}

	return new(FormatDate(*t))
}

func FormatTime(t *ledger.TimeOfDay) *string {
	if t == nil {
		return nil
	}

	return new(t.String())
}
