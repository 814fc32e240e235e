package http

import (
	"errors"
	"net/http"

	"github.com/fixit-helpdesk/fixit/internal/service"
	"github.com/fixit-helpdesk/fixit/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrWrongPassword:           http.StatusUnauthorized,
	service.ErrAccountDisabled:         http.StatusForbidden,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,

	service.ErrOTPNotFound:      http.StatusUnauthorized,
	service.ErrOTPExpired:       http.StatusUnauthorized,
	service.ErrOTPWrongCode:     http.StatusUnauthorized,
	service.ErrOTPAttemptsSpent: http.StatusTooManyRequests,

	service.ErrInvalidStatusTransition: http.StatusConflict,
	service.ErrAssigneeNotTechnician:   http.StatusUnprocessableEntity,

	store.ErrEmailAlreadyExists: http.StatusConflict,
	store.ErrNoUserWasFound:     http.StatusNotFound,
	store.ErrTicketNotFound:     http.StatusNotFound,
	store.ErrCommentNotFound:    http.StatusNotFound,

	store.ErrBuildingSQLQuery:   http.StatusInternalServerError,
	store.ErrExecutingQuery:     http.StatusInternalServerError,
	store.ErrExecutingStatement: http.StatusInternalServerError,
	store.ErrScanningRow:        http.StatusInternalServerError,
	store.ErrScanningRows:       http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
