package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Códigos de error
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeConfiguration     = "CONFIGURATION_ERROR"
	CodeUnsupportedScript = "UNSUPPORTED_SCRIPT"
)

var (
	ErrValidation        = errors.New("invalid submission")
	ErrConfiguration     = errors.New("invalid configuration")
	ErrUnsupportedScript = errors.New("unsupported script")
)

// ValidationError reporta un envío mal formado o incompleto. QuestionID es la
// primera pregunta con problemas y Missing lista todas las que faltan.
type ValidationError struct {
	QuestionID string
	Missing    []string
	Reason     string
}

func NewValidationError(questionID, reason string) *ValidationError {
	return &ValidationError{QuestionID: questionID, Reason: reason}
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 1 {
		return fmt.Sprintf("question %s: %s (missing: %s)", e.QuestionID, e.Reason, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("question %s: %s", e.QuestionID, e.Reason)
}

func (e *ValidationError) Code() string { return CodeValidation }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ConfigurationError indica tablas, contenido o fuentes inconsistentes.
type ConfigurationError struct {
	Component string
	Detail    string
	Cause     error
}

func NewConfigurationError(component, detail string, cause error) *ConfigurationError {
	return &ConfigurationError{Component: component, Detail: detail, Cause: cause}
}

func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Component, e.Detail, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Component, e.Detail)
}

func (e *ConfigurationError) Code() string { return CodeConfiguration }

func (e *ConfigurationError) Unwrap() error { return e.Cause }

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// UnsupportedScriptError se produce cuando ninguna fuente embebida dibuja un carácter.
type UnsupportedScriptError struct {
	Rune   rune
	Script string
	Text   string
}

func (e *UnsupportedScriptError) Error() string {
	return fmt.Sprintf("no font covers %U (%q, script %s) in %q", e.Rune, e.Rune, e.Script, truncate(e.Text, 40))
}

func (e *UnsupportedScriptError) Code() string { return CodeUnsupportedScript }

func (e *UnsupportedScriptError) Is(target error) bool { return target == ErrUnsupportedScript }

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
