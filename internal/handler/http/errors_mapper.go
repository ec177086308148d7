package http

import (
	"errors"
	"net/http"

	"github.com/ledskov/openwall/internal/service"
	"github.com/ledskov/openwall/internal/store"
	"github.com/ledskov/openwall/internal/utils"
	"github.com/ledskov/openwall/models"
)

var errorStatusMap = map[error]int{
	ErrEmptyAuthorizationHeader:   http.StatusUnauthorized,
	ErrInvalidAuthorizationHeader: http.StatusUnauthorized,
	ErrEmptyToken:                 http.StatusUnauthorized,

	service.ErrWrongPassword:           http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrTokenWithoutEmail:       http.StatusUnauthorized,
	service.ErrAccountDeactivated:      http.StatusForbidden,
	service.ErrNotMessageRecipient:     http.StatusForbidden,
	service.ErrSenderNotFound:          http.StatusNotFound,
	service.ErrRecipientNotFound:       http.StatusNotFound,

	service.ErrValidationUsernameRequired:    http.StatusBadRequest,
	service.ErrValidationUsernameLength:      http.StatusBadRequest,
	service.ErrValidationDisplayNameRequired: http.StatusBadRequest,
	service.ErrValidationEmailRequired:       http.StatusBadRequest,
	service.ErrValidationEmailInvalid:        http.StatusBadRequest,
	service.ErrValidationPasswordRequired:    http.StatusBadRequest,
	service.ErrValidationPasswordTooShort:    http.StatusBadRequest,
	service.ErrValidationBioTooLong:          http.StatusBadRequest,
	service.ErrValidationContentRequired:     http.StatusBadRequest,
	service.ErrValidationContentTooLong:      http.StatusBadRequest,

	store.ErrUsernameAlreadyExists: http.StatusConflict,
	store.ErrEmailAlreadyExists:    http.StatusConflict,
	store.ErrNoUserWasFound:        http.StatusNotFound,
	store.ErrNoMessageWasFound:     http.StatusNotFound,
	store.ErrMessageNotSaved:       http.StatusInternalServerError,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

// errorMessageMap fixes the public wording of every mapped error. Clients
// match on these strings, so they stay exactly as the API has always
// phrased them regardless of how the internal sentinels are worded.
var errorMessageMap = map[error]string{
	ErrEmptyAuthorizationHeader:   "Authorization header is missing",
	ErrInvalidAuthorizationHeader: "Authorization header is malformed",
	ErrEmptyToken:                 "Authorization header is malformed",

	service.ErrWrongPassword:           "Invalid password",
	service.ErrTokenIsExpiredOrInvalid: "Invalid or expired token",
	service.ErrTokenWithoutEmail:       "Invalid token: no email found",
	service.ErrAccountDeactivated:      "Account is deactivated. Please contact administrator.",
	service.ErrNotMessageRecipient:     "Unauthorized to mark this message as read",
	service.ErrSenderNotFound:          "Sender not found",
	service.ErrRecipientNotFound:       "Recipient not found",

	service.ErrValidationUsernameRequired:    "Username is required",
	service.ErrValidationUsernameLength:      "Username must be between 3 and 20 characters",
	service.ErrValidationDisplayNameRequired: "Display name is required",
	service.ErrValidationEmailRequired:       "Email is required",
	service.ErrValidationEmailInvalid:        "Email should be valid",
	service.ErrValidationPasswordRequired:    "Password is required",
	service.ErrValidationPasswordTooShort:    "Password must be at least 6 characters",
	service.ErrValidationBioTooLong:          "Bio must be at most 500 characters",
	service.ErrValidationContentRequired:     "Content is required",
	service.ErrValidationContentTooLong:      "Content must be at most 1000 characters",

	store.ErrUsernameAlreadyExists: "Username is already taken!",
	store.ErrEmailAlreadyExists:    "Email is already in use!",
	store.ErrNoUserWasFound:        "User not found",
	store.ErrNoMessageWasFound:     "Message not found",
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

func messageFromError(err error) string {
	for target, message := range errorMessageMap {
		if errors.Is(err, target) {
			return message
		}
	}
	return http.StatusText(http.StatusInternalServerError)
}

// writeError renders err as the uniform {"message": "..."} error body with
// the status code its kind maps to.
func writeError(w http.ResponseWriter, err error) {
	utils.WriteJSON(w, models.ErrorResponse{Message: messageFromError(err)}, statusFromError(err))
}
