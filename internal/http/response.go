package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"bankdg/internal/fetch"
	"bankdg/internal/services"
)

// envelope mirrors the backend API's response shape so the front end
// handles both with the same code path.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Message: message})
}

// writeServiceError maps service and fetch errors to HTTP statuses.
// Validation failures surface their Spanish message; everything else
// is a generic 502 so backend details stay internal.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, fetch.ErrNotFound):
		writeError(w, http.StatusNotFound, "Recurso no encontrado.")
	case errors.Is(err, fetch.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Credenciales inválidas.")
	case errors.Is(err, fetch.ErrBadOTP):
		writeError(w, http.StatusUnprocessableEntity, "Código OTP incorrecto.")
	case isValidationError(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusBadGateway, "Error al comunicarse con el banco.")
	}
}

func isValidationError(err error) bool {
	for _, v := range []error{
		services.ErrNoSourceAccount,
		services.ErrInvalidAmount,
		services.ErrInsufficientFunds,
		services.ErrNoTargetAccount,
		services.ErrCurrencyMismatch,
		services.ErrMissingIBAN,
		services.ErrInvalidIBAN,
		services.ErrSameAccount,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
