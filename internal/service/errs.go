package service

// Error kinds the HTTP layer maps to status codes. Storage-level failures
// are translated into one of these before they leave the service layer;
// raw store errors never reach a client.

// ValidationError reports bad input: unknown or inactive products,
// insufficient stock, a non-positive charge amount, or a bad webhook
// signature.
type ValidationError struct {
	msg string
}

func NewValidationError(msg string) *ValidationError { return &ValidationError{msg: msg} }

func (e *ValidationError) Error() string { return e.msg }

// NotFoundError reports a missing order or seller/product.
type NotFoundError struct {
	msg string
}

func NewNotFoundError(msg string) *NotFoundError { return &NotFoundError{msg: msg} }

func (e *NotFoundError) Error() string { return e.msg }

// ConflictError reports an illegal order status transition.
type ConflictError struct {
	msg string
}

func NewConflictError(msg string) *ConflictError { return &ConflictError{msg: msg} }

func (e *ConflictError) Error() string { return e.msg }

// ConfigurationError reports missing deployment secrets, e.g. an unset
// Stripe key. Payment operations fail closed on it rather than skipping
// verification.
type ConfigurationError struct {
	msg string
}

func NewConfigurationError(msg string) *ConfigurationError { return &ConfigurationError{msg: msg} }

func (e *ConfigurationError) Error() string { return e.msg }
