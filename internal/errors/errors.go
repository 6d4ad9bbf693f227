package errors

import (
	"errors"
	"fmt"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Kind classifies application errors for transport mapping.
type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindForbidden    Kind = "forbidden"
	KindConflict     Kind = "conflict"
	KindInvalidInput Kind = "invalid_input"
	KindPersistence  Kind = "persistence"
)

type AppError struct {
	Kind        Kind
	Code        string
	Message     string
	UserMessage string
	Severity    Severity
	Retryable   bool
	cause       error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

// KindOf extracts the Kind of err, or "" when err is not an AppError.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr != nil {
		return appErr.Kind
	}

	return ""
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func NewNotFound(entity string) *AppError {
	return &AppError{
		Kind:        KindNotFound,
		Code:        "E100",
		Message:     fmt.Sprintf("%s not found", entity),
		UserMessage: "Ничего не найдено",
		Severity:    SeverityLow,
		Retryable:   false,
	}
}

func NewForbidden(msg string) *AppError {
	return &AppError{
		Kind:        KindForbidden,
		Code:        "E110",
		Message:     msg,
		UserMessage: "У вас нет прав на это действие",
		Severity:    SeverityLow,
		Retryable:   false,
	}
}

func NewConflict(msg string) *AppError {
	return &AppError{
		Kind:        KindConflict,
		Code:        "E120",
		Message:     msg,
		UserMessage: "Такая запись уже существует",
		Severity:    SeverityLow,
		Retryable:   false,
	}
}

func NewInvalidInput(msg string) *AppError {
	return &AppError{
		Kind:        KindInvalidInput,
		Code:        "E130",
		Message:     msg,
		UserMessage: fmt.Sprintf("Неверный формат данных. %s", msg),
		Severity:    SeverityLow,
		Retryable:   false,
	}
}

func NewPersistenceError(cause error) *AppError {
	var underlyingMsg string
	if cause != nil {
		underlyingMsg = cause.Error()
	}

	return &AppError{
		Kind:        KindPersistence,
		Code:        "E200",
		Message:     fmt.Sprintf("persistence error: %s", underlyingMsg),
		UserMessage: "Временная проблема, попробуйте позже",
		Severity:    SeverityHigh,
		Retryable:   true,
		cause:       cause,
	}
}

func NewExternalAPIError(apiName string, cause error) *AppError {
	return &AppError{
		Kind:        KindPersistence,
		Code:        "E300",
		Message:     fmt.Sprintf("external API error: %s", apiName),
		UserMessage: "Сервис временно недоступен, попробуйте позже",
		Severity:    SeverityMedium,
		Retryable:   true,
		cause:       cause,
	}
}
