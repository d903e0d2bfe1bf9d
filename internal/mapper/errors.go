package mapper

import (
	"errors"
	"fmt"

	"github.com/cleared-dev/cardledger/internal/issuer"
)

// ErrMissingField matches every MissingFieldError.
var ErrMissingField = errors.New("missing field")

// MissingFieldError reports an activity that lacks a field needed to map it.
type MissingFieldError struct {
	Activity issuer.Activity
	Field    string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("activity %s: missing %s", e.Activity.Describe(), e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }
