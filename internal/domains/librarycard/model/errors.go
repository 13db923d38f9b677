package model

import "errors"

var (
	ErrApplicationNotFound = errors.New("library card application not found")
	ErrDuplicateEmail      = errors.New("a library card application with this email already exists")
	ErrInvalidStatus       = errors.New("invalid application status")
)
