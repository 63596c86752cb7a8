package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/aidar/leave-tracker/internal/domain"
)

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail содержит код и описание ошибки
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondWithError отправляет ответ с ошибкой
func RespondWithError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	render.Status(r, statusCode)
	render.JSON(w, r, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// HandleError преобразует доменные ошибки в HTTP ответы.
// Ошибки сравниваются через errors.Is, так как сервисы оборачивают их.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	code := string(domain.MapErrorToCode(err))

	switch {
	case errors.Is(err, domain.ErrMemberNotFound):
		RespondWithError(w, r, http.StatusNotFound, code, "team member not found")
	case errors.Is(err, domain.ErrMemberRejected):
		RespondWithError(w, r, http.StatusUnprocessableEntity, code, err.Error())
	case errors.Is(err, domain.ErrInvalidDraft):
		RespondWithError(w, r, http.StatusUnprocessableEntity, code, err.Error())
	case errors.Is(err, domain.ErrInvalidMonth):
		RespondWithError(w, r, http.StatusBadRequest, code, err.Error())
	case errors.Is(err, domain.ErrEditInProgress), errors.Is(err, domain.ErrNotEditing),
		errors.Is(err, domain.ErrNothingToSave), errors.Is(err, domain.ErrLeaseExpired):
		RespondWithError(w, r, http.StatusConflict, code, err.Error())
	case errors.Is(err, domain.ErrInvalidLease):
		RespondWithError(w, r, http.StatusForbidden, code, err.Error())
	case errors.Is(err, domain.ErrCorruptState):
		RespondWithError(w, r, http.StatusUnprocessableEntity, code, "stored data is corrupt")
	default:
		RespondWithError(w, r, http.StatusInternalServerError, code, "internal server error")
	}
}
