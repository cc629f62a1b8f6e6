package mailer

import "errors"

var (
	// ErrNoRecipient indicates no recipient was specified.
	ErrNoRecipient = errors.New("email must have at least one recipient")

	// ErrNoSubject indicates no subject was provided.
	ErrNoSubject = errors.New("email must have a subject")

	// ErrNoContent indicates neither HTML nor text content was provided.
	ErrNoContent = errors.New("email must have html or text content")

	// ErrProviderNotConfigured indicates the provider credentials are missing.
	ErrProviderNotConfigured = errors.New("email provider is not configured")

	// ErrProvider indicates the provider rejected the message
	// (invalid address, quota, authentication failure).
	ErrProvider = errors.New("email provider rejected the message")

	// ErrNetwork indicates the provider could not be reached.
	ErrNetwork = errors.New("email provider is unreachable")
)
