package entity

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the pipeline. Match them with errors.Is.
var (
	ErrProvider         = errors.New("flight provider error")
	ErrIncompleteData   = errors.New("incomplete flight data")
	ErrGeneration       = errors.New("generation error")
	ErrSchemaValidation = errors.New("schema validation error")
	ErrStorageIO        = errors.New("storage io error")
	ErrNotFound         = errors.New("not found")
)

// PipelineError wraps an operation, its error kind, and the underlying error.
type PipelineError struct {
	Kind error
	Op   string
	Err  error
}

func (e *PipelineError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *PipelineError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func NewProviderError(op string, err error) error {
	return &PipelineError{Kind: ErrProvider, Op: op, Err: err}
}

func NewIncompleteDataError(op string, err error) error {
	return &PipelineError{Kind: ErrIncompleteData, Op: op, Err: err}
}

func NewGenerationError(op string, err error) error {
	return &PipelineError{Kind: ErrGeneration, Op: op, Err: err}
}

func NewSchemaValidationError(op string, err error) error {
	return &PipelineError{Kind: ErrSchemaValidation, Op: op, Err: err}
}

func NewStorageIOError(op string, err error) error {
	return &PipelineError{Kind: ErrStorageIO, Op: op, Err: err}
}
