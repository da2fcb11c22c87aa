package domain

import "errors"

var (
	// ErrNotFound is returned by updates and deletes that target a missing id.
	// Getters return (nil, nil) instead.
	ErrNotFound = errors.New("not found")

	ErrValidation = errors.New("validation failed")

	// ErrPartialCascade marks a multi-record delete that did not complete.
	ErrPartialCascade = errors.New("cascade delete incomplete")

	ErrStorageExhausted = errors.New("storage exhausted")

	// ErrLinkInvalid is returned when a share link is expired or has used up
	// its access allowance.
	ErrLinkInvalid = errors.New("share link expired or exhausted")
)
