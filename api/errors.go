package api

import (
	"errors"
	"net/http"

	"credmarket/api/httpx"
	"credmarket/service"

	log "github.com/sirupsen/logrus"
)

// statusForError maps service sentinels to HTTP status codes. Anything
// unmapped is treated as an internal error and not leaked to the client.
func statusForError(err error) (int, bool) {
	switch {
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrSelfTransfer),
		errors.Is(err, service.ErrInvalidValue),
		errors.Is(err, service.ErrInvalidTargetType),
		errors.Is(err, service.ErrEmptyReason),
		errors.Is(err, service.ErrEmptyTitle),
		errors.Is(err, service.ErrEmptyContent),
		errors.Is(err, service.ErrInvalidCapacity):
		return http.StatusBadRequest, true

	case errors.Is(err, service.ErrAccountNotFound),
		errors.Is(err, service.ErrResourceNotFound),
		errors.Is(err, service.ErrTargetNotFound):
		return http.StatusNotFound, true

	case errors.Is(err, service.ErrNotTeacher),
		errors.Is(err, service.ErrNotSessionHost):
		return http.StatusForbidden, true

	case errors.Is(err, service.ErrInsufficientFunds):
		return http.StatusPaymentRequired, true

	case errors.Is(err, service.ErrDuplicateReservation),
		errors.Is(err, service.ErrSessionFull),
		errors.Is(err, service.ErrSessionCancelled),
		errors.Is(err, service.ErrVoteConflict),
		errors.Is(err, service.ErrAccountConflict):
		return http.StatusConflict, true
	}

	return http.StatusInternalServerError, false
}

// writeServiceError renders a service error as a JSON response
func writeServiceError(w http.ResponseWriter, err error) {
	status, known := statusForError(err)
	if !known {
		log.WithError(err).Error("Unhandled service error")
		httpx.Error(w, status, "internal error")
		return
	}
	httpx.Error(w, status, err.Error())
}
