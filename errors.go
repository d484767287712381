package strada

import "fmt"

// ContractViolationError is the panic value raised when a handler returns
// a value outside the recognized set. It signals a programming defect,
// not a request failure, so the error boundary lets it propagate instead
// of converting it into a 500.
type ContractViolationError struct {
	// Value is the offending return value.
	Value any
}

// Error describes the violation.
func (e *ContractViolationError) Error() string {
	return fmt.Sprintf("strada: handler returned unsupported type %T", e.Value)
}
