package httpx

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/harborlight-collective/harborlight/internal/errors"
)

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// WriteError maps an application error to a JSON error response:
// validation errors are 422 with the offending field, not-found 404,
// conflicts 409, everything else a generic 500.
func WriteError(w http.ResponseWriter, err error) {
	switch {
	case apperrors.IsValidation(err):
		WriteJSON(w, http.StatusUnprocessableEntity, errorBody{
			Error: apperrors.UserMessage(err),
			Field: apperrors.GetField(err),
		})
	case apperrors.IsNotFound(err):
		WriteJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	case apperrors.IsConflict(err):
		WriteJSON(w, http.StatusConflict, errorBody{Error: apperrors.UserMessage(err)})
	default:
		WriteJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}
