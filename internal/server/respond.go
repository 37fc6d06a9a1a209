package server

import (
	"encoding/json"
	"net/http"

	"github.com/kuriosis/wallbuilder/pkg/errors"
)

// errorResponse is the JSON body for every failed request.
type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, statusFor(code), errorResponse{
		Code:    code,
		Message: errors.UserMessage(err),
	})
}

// statusFor maps the error taxonomy onto HTTP statuses.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidSlot, errors.ErrCodeInvalidName,
		errors.ErrCodeInvalidDocument, errors.ErrCodeInvalidQuantity, errors.ErrCodeSlotEmpty:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeVariantNotFound,
		errors.ErrCodeGalleryNotFound, errors.ErrCodeProductNotFound,
		errors.ErrCodeImageNotFound:
		return http.StatusNotFound
	case errors.ErrCodeNetwork, errors.ErrCodeTimeout, errors.ErrCodeCart:
		return http.StatusBadGateway
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
