package search

import (
	"errors"

	"github.com/hyperjump/tomaru/internal/models"
)

// Pipeline stages named in errors.
const (
	StageValidate = "validate"
	StageRetrieve = "retrieve"
)

// ErrInvalidInput is returned for requests rejected before retrieval.
var ErrInvalidInput = models.ErrInvalidInput

// ErrRetrievalFailure matches errors raised while fetching candidates.
var ErrRetrievalFailure = errors.New("candidate retrieval failed")

// StageError records the pipeline stage a failure happened in.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return e.Stage + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Is reports retrieve-stage errors as ErrRetrievalFailure.
func (e *StageError) Is(target error) bool {
	return target == ErrRetrievalFailure && e.Stage == StageRetrieve
}

// IsClientError reports whether err was caused by the request itself.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
