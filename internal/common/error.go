// Package common defines sentinel errors shared by the store, service and
// transport layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrInvalidInput   = errors.New("invalid input")

	// Configuration errors.
	ErrMissingDSN = errors.New("database connection string is not configured")

	// Notification relay errors.
	ErrWebhookDisabled = errors.New("webhook not configured")
	ErrWebhookDelivery = errors.New("webhook delivery failed")
)
