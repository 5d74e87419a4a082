// Package errors defines the structured error type used across the htmlweld
// build pipeline, categorized by the stage that produced the failure.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind categorizes a build failure by pipeline stage.
type Kind string

const (
	// KindExtract covers read or parse failures on a component file. One
	// failing component aborts the whole rebuild; previously written
	// artifacts stay on disk.
	KindExtract Kind = "extract"

	// KindMinify covers minifier rejections of aggregated script or style.
	KindMinify Kind = "minify"

	// KindWrite covers filesystem failures creating the output directory or
	// writing artifacts.
	KindWrite Kind = "write"

	// KindConfig covers invalid configuration values.
	KindConfig Kind = "config"
)

// A missing component directory is deliberately not a Kind: the orchestrator
// treats it as empty input, never as an error.

// BuildError is a structured error carrying the failing stage, a stable code,
// and the component file involved when one is known.
type BuildError struct {
	Kind     Kind
	Code     string
	Message  string
	FilePath string
	Cause    error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")
	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *BuildError) Unwrap() error {
	return e.Cause
}

// Is matches on kind and code so callers can compare against sentinel
// BuildError values. An empty code on the target matches any code.
func (e *BuildError) Is(target error) bool {
	var t *BuildError
	if errors.As(target, &t) {
		return e.Kind == t.Kind && (t.Code == "" || e.Code == t.Code)
	}
	return false
}

// WithFile returns the error with the component file path attached.
func (e *BuildError) WithFile(path string) *BuildError {
	e.FilePath = path
	return e
}

// ExtractError reports a failure reading or parsing a component file.
func ExtractError(code, message string, cause error) *BuildError {
	return &BuildError{Kind: KindExtract, Code: code, Message: message, Cause: cause}
}

// MinifyError reports a minifier rejection.
func MinifyError(code, message string, cause error) *BuildError {
	return &BuildError{Kind: KindMinify, Code: code, Message: message, Cause: cause}
}

// WriteError reports a filesystem failure during artifact writing.
func WriteError(code, message string, cause error) *BuildError {
	return &BuildError{Kind: KindWrite, Code: code, Message: message, Cause: cause}
}

// ConfigError reports an invalid configuration value.
func ConfigError(code, message string) *BuildError {
	return &BuildError{Kind: KindConfig, Code: code, Message: message}
}

// IsKind reports whether err is a BuildError of the given kind.
func IsKind(err error, kind Kind) bool {
	var be *BuildError
	return errors.As(err, &be) && be.Kind == kind
}
