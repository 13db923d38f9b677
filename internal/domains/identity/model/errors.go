package model

import "errors"

var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrForbidden          = errors.New("admin access required")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrProtectedAccount   = errors.New("cannot delete the primary admin account")

	// Library-card login denials carry distinct user-facing reasons.
	ErrCardNotFound = errors.New("invalid library card ID")
	ErrCardPending  = errors.New("your library card application is under review, please wait for approval from the library")
	ErrCardRejected = errors.New("your library card application was rejected")
	ErrCardInactive = errors.New("library card is not active")
)
