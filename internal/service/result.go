package service

// Result is the outcome of a use case. On success Data is set and both error
// channels are empty; on failure at least one channel is populated.
type Result[T any] struct {
	Success          bool                `json:"success"`
	Data             T                   `json:"data"`
	ErrorMessages    []string            `json:"error_messages,omitempty"`
	ValidationErrors map[string][]string `json:"validation_errors,omitempty"`
}

// Ok builds a successful Result carrying data.
func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// Fail builds a non-validation failure (not found, mismatch, conflict...).
func Fail[T any](msgs ...string) Result[T] {
	return Result[T]{ErrorMessages: msgs}
}

// Invalid builds a validation failure keyed by field.
func Invalid[T any](errs map[string][]string) Result[T] {
	return Result[T]{ValidationErrors: errs}
}

// IsValidationFailure reports whether the failure came from input validation.
func (r Result[T]) IsValidationFailure() bool {
	return !r.Success && len(r.ValidationErrors) > 0
}
