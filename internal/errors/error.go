package errors

import (
	"errors"
)

var (
	ErrEmptyAuth          = errors.New("missing authorization")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrProductNotFound    = errors.New("product not found")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrWrongCredentials   = errors.New("wrong username or password")
	ErrMissingCredentials = errors.New("notification channel credentials are not configured")
	ErrChannelRejected    = errors.New("notification channel rejected the message")
)
