package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/nicheshunter/nicheshunter/app"
)

// Error codes of the API taxonomy. "not_found" and "subscription_required"
// are deliberately distinct: the first means the code does not exist, the
// second means it exists and subscribing will unlock it.
const (
	codeNotFound             = "not_found"
	codeSubscriptionRequired = "subscription_required"
	codeUnauthenticated      = "unauthenticated"
	codeInvalidRequest       = "invalid_request"
	codeInvalidCredentials   = "invalid_credentials"
	codeEmailTaken           = "email_taken"
	codeUnavailable          = "unavailable"
	codeInternal             = "internal"
)

type envelope struct {
	Data  any       `json:"data,omitempty"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Data: data})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Error: &apiError{Code: code, Message: message}})
}

// writeServiceError maps app-layer sentinel errors to the wire taxonomy.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	case errors.Is(err, app.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "sign in to continue")
	case errors.Is(err, app.ErrSubscriptionRequired):
		writeError(w, http.StatusForbidden, codeSubscriptionRequired, "an active subscription is required")
	case errors.Is(err, app.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, codeInvalidCredentials, "invalid email or password")
	case errors.Is(err, app.ErrEmailTaken):
		writeError(w, http.StatusConflict, codeEmailTaken, "email already registered")
	case errors.Is(err, app.ErrValidatorUnavailable):
		writeError(w, http.StatusBadGateway, codeUnavailable, "validation service unavailable, try again")
	default:
		h.logger.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
	}
}

// decodeAndValidate decodes a JSON body into dst and runs struct validation.
// Returns false after writing the error response when the request is bad.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "malformed JSON body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			fields := make(map[string]string, len(invalid))
			for _, fe := range invalid {
				fields[fe.Field()] = fe.Tag()
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(envelope{Error: &apiError{
				Code:    codeInvalidRequest,
				Message: "request validation failed",
				Fields:  fields,
			}})
			return false
		}
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "invalid request")
		return false
	}
	return true
}
