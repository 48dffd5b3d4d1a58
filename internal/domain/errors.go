package domain

import "errors"

var (
	ErrStartup    = errors.New("startup failed")
	ErrStorage    = errors.New("storage error")
	ErrValidation = errors.New("validation error")
)

// ValidationError carries the field-level reasons behind an ErrValidation.
type ValidationError struct {
	Reasons []PolicyDeny
}

func (e *ValidationError) Error() string {
	if len(e.Reasons) == 0 {
		return ErrValidation.Error()
	}
	return ErrValidation.Error() + ": " + e.Reasons[0].Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
