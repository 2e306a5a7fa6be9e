package suggest

import "errors"

// Failure classes surfaced by the generator. Callers match them with errors.Is;
// the wrapped cause keeps the provider's own message.
var (
	// ErrConfiguration means the provider credential is missing or was rejected.
	ErrConfiguration = errors.New("configuration error")

	// ErrTransport covers network failures, timeouts and non-auth provider errors.
	ErrTransport = errors.New("transport error")

	// ErrSchema means the completion did not match the declared output schema.
	ErrSchema = errors.New("schema conformance error")

	// ErrValidation means the request or the tunables were malformed.
	ErrValidation = errors.New("validation error")
)
