package domain

import (
	"fmt"
	"strings"
)

// Error codes
const (
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeFileNotFound      = "FILE_NOT_FOUND"
	ErrCodeParseError        = "PARSE_ERROR"
	ErrCodeAnalysisError     = "ANALYSIS_ERROR"
	ErrCodeConfigError       = "CONFIG_ERROR"
	ErrCodeOutputError       = "OUTPUT_ERROR"
	ErrCodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	ErrCodeStructureError    = "STRUCTURE_ERROR"
)

// DomainError is a coded error raised by the analysis pipeline
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface
func (e DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e DomainError) Unwrap() error {
	return e.Cause
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, cause error) error {
	return DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewInvalidInputError creates an invalid input error
func NewInvalidInputError(message string, cause error) error {
	return NewDomainError(ErrCodeInvalidInput, message, cause)
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string, cause error) error {
	return NewDomainError(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path), cause)
}

// NewParseError creates a parse error for a source file
func NewParseError(file string, cause error) error {
	return NewDomainError(ErrCodeParseError, fmt.Sprintf("failed to parse %s", file), cause)
}

// NewAnalysisError creates an analysis error
func NewAnalysisError(message string, cause error) error {
	return NewDomainError(ErrCodeAnalysisError, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) error {
	return NewDomainError(ErrCodeConfigError, message, cause)
}

// NewOutputError creates an output error
func NewOutputError(message string, cause error) error {
	return NewDomainError(ErrCodeOutputError, message, cause)
}

// NewUnsupportedFormatError creates an unsupported format error
func NewUnsupportedFormatError(format string) error {
	return NewDomainError(ErrCodeUnsupportedFormat, fmt.Sprintf("unsupported format: %s", format), nil)
}

// NewStructureError reports source that breaks an extraction invariant,
// such as two class declarations in one file.
func NewStructureError(message string) error {
	return NewDomainError(ErrCodeStructureError, message, nil)
}

// AmbiguousRoleError is returned when a class carries more than one role tag.
type AmbiguousRoleError struct {
	Class NodeID
	Roles []Role
}

func (e *AmbiguousRoleError) Error() string {
	names := make([]string, len(e.Roles))
	for i, r := range e.Roles {
		names[i] = string(r)
	}
	return fmt.Sprintf("class %s has ambiguous role tags (%s)", e.Class, strings.Join(names, ", "))
}

// ViolationScope tells whether a violation set belongs to a class or a folder
type ViolationScope string

const (
	ViolationScopeClass  ViolationScope = "Class"
	ViolationScopeFolder ViolationScope = "Folder"
)

// ViolationsError is the single aggregate failure of a class or folder check.
type ViolationsError struct {
	Scope      ViolationScope
	Subject    string
	Violations []Violation
}

func (e *ViolationsError) Error() string {
	return fmt.Sprintf("%s %s has %d violation(s)!", e.Scope, e.Subject, len(e.Violations))
}
