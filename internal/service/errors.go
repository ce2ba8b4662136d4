package service

import "errors"

var (
	// ErrNotFound means the referenced page or account does not exist or does
	// not belong to the caller. Actions must fail with this before a foreign
	// page's token is ever touched.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredential means a token failed platform validation.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrExpiredCredential means a stored token watermark has passed and the
	// caller must re-authenticate.
	ErrExpiredCredential = errors.New("credential expired")

	// ErrValidation means malformed caller input.
	ErrValidation = errors.New("validation failed")
)
