package utils

import (
	"net/http"

	apperrors "service-order/pkg/errors"
)

var ErrorList = map[error]int{
	apperrors.ErrNotFound:                  http.StatusNotFound,
	apperrors.ErrBadRequest:                http.StatusBadRequest,
	apperrors.ErrConflict:                  http.StatusConflict,
	apperrors.ErrAlreadyInProgress:         http.StatusConflict,
	apperrors.ErrPersistenceConflict:       http.StatusConflict,
	apperrors.ErrRevertReasonRequired:      http.StatusUnprocessableEntity,
	apperrors.ErrRequiredActionsIncomplete: http.StatusUnprocessableEntity,
	apperrors.ErrSkipReasonRequired:        http.StatusUnprocessableEntity,
	apperrors.ErrSkipNotAllowed:            http.StatusUnprocessableEntity,
	apperrors.ErrEmptyAuthHeader:           http.StatusUnauthorized,
	apperrors.ErrInvalidAuthHeader:         http.StatusUnauthorized,
	apperrors.ErrInvalidToken:              http.StatusUnauthorized,
	apperrors.ErrTokenExpired:              http.StatusUnauthorized,
	apperrors.ErrTokenIsNotAccess:          http.StatusUnauthorized,
	apperrors.ErrInvalidSigningMethod:      http.StatusUnauthorized,
	apperrors.ErrUnauthorized:              http.StatusUnauthorized,
	apperrors.ErrUserIDNotFoundInContext:   http.StatusUnauthorized,
}
