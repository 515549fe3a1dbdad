// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/fairshare/internal/domain/types"
	"github.com/okian/fairshare/internal/domain/validation"
)

// CalculationsHandler handles calculation requests.
type CalculationsHandler struct {
	deps         Dependencies
	maxBodyBytes int64
}

// NewCalculationsHandler creates a new calculations handler.
func NewCalculationsHandler(deps Dependencies, maxBodyBytes int64) *CalculationsHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	return &CalculationsHandler{deps: deps, maxBodyBytes: maxBodyBytes}
}

// HandleCalculate handles POST /calculations requests.
func (h *CalculationsHandler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "api.calculate"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req types.CalculationRequest
	if err := h.decode(w, r, &req); err != nil {
		writeKindError(w, wrapDecodeError(op, err))
		return
	}

	calc, err := h.deps.Calculate(r.Context(), req)
	if err != nil {
		writeKindError(w, wrapServiceError(op, err))
		return
	}
	writeJSON(w, http.StatusOK, calc)
}

// HandleRename handles POST /calculations/rename requests.
func (h *CalculationsHandler) HandleRename(w http.ResponseWriter, r *http.Request) {
	const op = "api.rename"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req types.RenameRequest
	if err := h.decode(w, r, &req); err != nil {
		writeKindError(w, wrapDecodeError(op, err))
		return
	}

	calc, err := h.deps.Rename(r.Context(), req)
	if err != nil {
		writeKindError(w, wrapServiceError(op, err))
		return
	}
	writeJSON(w, http.StatusOK, calc)
}

func (h *CalculationsHandler) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	return json.NewDecoder(body).Decode(v)
}

func wrapDecodeError(op string, err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return WrapKind(op, ErrPayloadTooLarge, err)
	}
	return WrapKind(op, ErrBadRequest, err)
}

func wrapServiceError(op string, err error) error {
	if errors.Is(err, validation.ErrInvalidInput) {
		return WrapKind(op, ErrInvalidInput, err)
	}
	return WrapKind(op, ErrInternal, err)
}
