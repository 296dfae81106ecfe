package domain

import "fmt"

// StoreError is a data-store failure that carries a machine-readable code
// and an optional hint, both safe to return to the caller.
type StoreError struct {
	Code    string
	Message string
	Hint    string
	Err     error
}

func (e *StoreError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) ErrorCode() string { return e.Code }

func (e *StoreError) ErrorHint() string { return e.Hint }
