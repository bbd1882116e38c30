package domain

import "errors"

var (
	ErrPostNotFound = errors.New("post not found")
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("email has already been taken")
	ErrForbidden    = errors.New("access forbidden")

	// Login failures carry the message shown on the login screen.
	ErrEmailNotFound      = errors.New("Email does not exist or deleted")
	ErrInvalidCredentials = errors.New("Email and Password does not match.")
	ErrWrongPassword      = errors.New("Current password is wrong!")

	// ErrStagedFileMissing is returned when a staged upload vanished before promotion.
	ErrStagedFileMissing = errors.New("staged file no longer exists")
)
