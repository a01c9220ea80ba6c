package usecase

import (
	"errors"
	"strings"

	"github.com/xavierca1/recruitica/internal/entity"
	"github.com/xavierca1/recruitica/internal/infra/integration/automation"
	"github.com/xavierca1/recruitica/internal/infra/integration/llm"
)

const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeNoClientLists     = "NO_CLIENT_LISTS"
	CodeDuplicateInList   = "DUPLICATE_IN_LIST"
	CodeNotFound          = "NOT_FOUND"
	CodeStoreError        = "STORE_ERROR"
	CodeNetworkError      = "NETWORK_ERROR"
	CodeTimedOut          = "TIMED_OUT"
	CodeUnrecognizedShape = "UNRECOGNIZED_RESPONSE_SHAPE"
	CodeAIProxyError      = "AI_PROXY_ERROR"
)

// DomainError is something the caller can fix and retry.
type DomainError struct {
	Code    string
	Message string
	Fields  []ValidationError
	Err     error
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError wraps a failure of the store or of an external service.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// ErrorCode returns the code carried by err, or "" for plain errors.
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	var te *TechnicalError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}

func validationFailed(errs []ValidationError) error {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return &DomainError{
		Code:    CodeValidation,
		Message: "validation failed: " + strings.Join(parts, ", "),
		Fields:  errs,
	}
}

// storeError keeps the store's message untouched.
func storeError(err error) error {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		return &DomainError{Code: CodeNotFound, Message: err.Error(), Err: err}
	case errors.Is(err, entity.ErrDuplicateInList):
		return &DomainError{Code: CodeDuplicateInList, Message: err.Error(), Err: err}
	}
	return &TechnicalError{Code: CodeStoreError, Message: err.Error(), Err: err}
}

func gatewayError(err error) error {
	switch {
	case errors.Is(err, automation.ErrTimedOut):
		return &TechnicalError{Code: CodeTimedOut, Message: err.Error(), Err: err}
	case errors.Is(err, automation.ErrUnrecognizedResponseShape):
		return &TechnicalError{Code: CodeUnrecognizedShape, Message: err.Error(), Err: err}
	}
	return &TechnicalError{Code: CodeNetworkError, Message: err.Error(), Err: err}
}

func aiError(err error) error {
	var apiErr *llm.APIError
	if errors.As(err, &apiErr) || errors.Is(err, llm.ErrMalformedCompletion) || errors.Is(err, llm.ErrNotConfigured) {
		return &TechnicalError{Code: CodeAIProxyError, Message: err.Error(), Err: err}
	}
	return &TechnicalError{Code: CodeNetworkError, Message: err.Error(), Err: err}
}
