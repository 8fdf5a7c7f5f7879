package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sheikh-saqib/snapshot-token-ledger/internal/ledger"
)

var (
	errMissingCaller = errors.New("X-Caller header is required")
	errBadRequest    = errors.New("invalid request body")
)

// errorCode names an error for clients; it is stable across message changes.
func errorCode(err error) (int, string) {
	switch {
	case errors.Is(err, errMissingCaller):
		return http.StatusUnauthorized, "missing_caller"
	case errors.Is(err, ledger.ErrMinterNotSet):
		return http.StatusForbidden, "minter_not_set"
	case errors.Is(err, ledger.ErrUnauthorized):
		return http.StatusForbidden, "unauthorized"
	case errors.Is(err, ledger.ErrInvalidSnapshotID):
		return http.StatusNotFound, "invalid_snapshot_id"
	case errors.Is(err, ledger.ErrAlreadySet):
		return http.StatusConflict, "already_set"
	case errors.Is(err, ledger.ErrAllowanceNotReset):
		return http.StatusConflict, "allowance_not_reset"
	case errors.Is(err, ledger.ErrIdempotencyKeyReused):
		return http.StatusConflict, "idempotency_key_reused"
	case errors.Is(err, ledger.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity, "insufficient_balance"
	case errors.Is(err, ledger.ErrInsufficientAllowance):
		return http.StatusUnprocessableEntity, "insufficient_allowance"
	case errors.Is(err, ledger.ErrSupplyOverflow):
		return http.StatusUnprocessableEntity, "supply_overflow"
	case errors.Is(err, ledger.ErrInvalidRecipient):
		return http.StatusBadRequest, "invalid_recipient"
	case errors.Is(err, ledger.ErrInvalidAmount):
		return http.StatusBadRequest, "invalid_amount"
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "bad_request"
	}
	return http.StatusInternalServerError, "internal"
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, err error) {
	status, code := errorCode(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
