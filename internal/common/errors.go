// Package common defines shared constants and sentinel errors used across
// the Aora client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Remote-service errors, mapped once by the API client.
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("service unavailable")

	// Workflow errors raised by the post orchestrators.
	ErrValidation   = errors.New("validation error")
	ErrUpload       = errors.New("upload failed")
	ErrPostCreation = errors.New("post creation failed")
	ErrDeletion     = errors.New("post deletion failed")

	// Local session cache errors.
	ErrNoSavedSession = errors.New("no saved session")
)
