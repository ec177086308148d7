package service

import "errors"

// Domain errors surfaced by the service layer. The HTTP layer maps each of
// these to a status code and a public response message.
var (
	ErrWrongPassword      = errors.New("invalid password")
	ErrAccountDeactivated = errors.New("account is deactivated")

	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrTokenWithoutEmail       = errors.New("invalid token: no email found")
	ErrTokenCreationFailed     = errors.New("creation of token failed")

	ErrSenderNotFound    = errors.New("sender not found")
	ErrRecipientNotFound = errors.New("recipient not found")

	ErrNotMessageRecipient = errors.New("unauthorized to mark this message as read")
)

// Validation errors for signup and message fields.
var (
	ErrValidationUsernameRequired    = errors.New("username is required")
	ErrValidationUsernameLength      = errors.New("username must be between 3 and 20 characters")
	ErrValidationDisplayNameRequired = errors.New("display name is required")
	ErrValidationEmailRequired       = errors.New("email is required")
	ErrValidationEmailInvalid        = errors.New("email should be valid")
	ErrValidationPasswordRequired    = errors.New("password is required")
	ErrValidationPasswordTooShort    = errors.New("password must be at least 6 characters")
	ErrValidationBioTooLong          = errors.New("bio must be at most 500 characters")
	ErrValidationContentRequired     = errors.New("content is required")
	ErrValidationContentTooLong      = errors.New("content must be at most 1000 characters")
)
