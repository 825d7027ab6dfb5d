package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for build operations
var (
	// ErrStageFailed is matched by every StageFailure
	ErrStageFailed = errors.New("build stage failed")

	// ErrWriteFailed is matched by every WriteFailure
	ErrWriteFailed = errors.New("declaration write failed")

	// ErrConfigValidation is matched by every ConfigValidationError
	ErrConfigValidation = errors.New("invalid environment configuration")

	// ErrProceedReused is returned when a stage continuation is invoked more than once
	ErrProceedReused = errors.New("stage continuation already used")

	// ErrUnknownStage is returned when intercepting a stage that does not accept interceptors
	ErrUnknownStage = errors.New("unknown or non-interceptable stage")

	// ErrInvalidSigningKey is returned when a signing key cannot be used to sign transactions
	ErrInvalidSigningKey = errors.New("invalid signing key")

	// ErrSourcesOutsideRoot is returned when the sources directory is not inside the project root
	ErrSourcesOutsideRoot = errors.New("sources directory is outside the project root")

	// ErrNoRPCEndpoint is returned when a network operation needs an RPC URL and none is configured
	ErrNoRPCEndpoint = errors.New("no RPC endpoint configured")
)

// StageFailure wraps an error raised by a pipeline stage
type StageFailure struct {
	Stage string
	Err   error
}

func (e *StageFailure) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageFailure) Unwrap() error { return e.Err }

func (e *StageFailure) Is(target error) bool { return target == ErrStageFailed }

// WriteFailure wraps an error raised while producing or writing one declaration file
type WriteFailure struct {
	SourceID string
	Path     string
	Err      error
}

func (e *WriteFailure) Error() string {
	return fmt.Sprintf("failed to write declaration for %s to %s: %v", e.SourceID, e.Path, e.Err)
}

func (e *WriteFailure) Unwrap() error { return e.Err }

func (e *WriteFailure) Is(target error) bool { return target == ErrWriteFailed }

// FieldProblem describes one environment variable that failed validation.
// The offending value is never included since it may be a secret.
type FieldProblem struct {
	Name   string
	Reason string
}

// ConfigValidationError collects every invalid environment variable
type ConfigValidationError struct {
	Problems []FieldProblem
}

func (e *ConfigValidationError) Error() string {
	var lines []string
	for _, p := range e.Problems {
		lines = append(lines, fmt.Sprintf("  %s: %s", p.Name, p.Reason))
	}
	return fmt.Sprintf("invalid environment variables:\n%s", strings.Join(lines, "\n"))
}

func (e *ConfigValidationError) Is(target error) bool { return target == ErrConfigValidation }

// CompilationError is returned when solc reports error-severity diagnostics
type CompilationError struct {
	Messages []string
}

func (e *CompilationError) Error() string {
	if len(e.Messages) == 1 {
		return "compilation failed: " + e.Messages[0]
	}
	return fmt.Sprintf("compilation failed with %d errors:\n%s", len(e.Messages), strings.Join(e.Messages, "\n"))
}
