// Package errors provides standardized error handling for ezsubs.
// It defines the error kinds produced while collecting, reconciling and
// renaming files, plus helpers for creating, wrapping and inspecting them.
package errors

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
	// Join combines several errors into one
	Join = errors.Join
)

// Common error constants for frequently occurring errors
var (
	ErrFileNotFound  = NewFileError("file not found", "", FileNotFound, nil)
	ErrFileAccess    = NewFileError("file access denied", "", FileAccessDenied, nil)
	ErrInvalidConfig = NewConfigError("invalid configuration", "", InvalidConfig, nil)
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// File error kinds
	FileNotFound
	FileAccessDenied
	InvalidPath
	// Collection error kinds
	CollectionFailed
	// Reconciliation error kinds
	CountMismatch
	// Rename error kinds
	DirectoryCreateFailed
	MoveFailed
	AlreadyExists
	// Config error kinds
	InvalidConfig
	ConfigNotFound
)

var kindNames = map[ErrorKind]string{
	Unknown:               "unknown",
	FileNotFound:          "file not found",
	FileAccessDenied:      "access denied",
	InvalidPath:           "invalid path",
	CollectionFailed:      "collection failed",
	CountMismatch:         "count mismatch",
	DirectoryCreateFailed: "directory create failed",
	MoveFailed:            "move failed",
	AlreadyExists:         "already exists",
	InvalidConfig:         "invalid config",
	ConfigNotFound:        "config not found",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// FileError represents errors related to a single file or directory
type FileError struct {
	ApplicationError
	path string
}

// NewFileError creates a new file error
func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the file error message
func (e *FileError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// CollectionWarning is a non-fatal problem met while expanding dropped
// paths. The offending path is skipped and collection continues.
type CollectionWarning struct {
	FileError
}

// NewCollectionWarning creates a warning for path.
func NewCollectionWarning(path string, err error) *CollectionWarning {
	kind := CollectionFailed
	switch {
	case errors.Is(err, os.ErrNotExist):
		kind = FileNotFound
	case errors.Is(err, os.ErrPermission):
		kind = FileAccessDenied
	}
	return &CollectionWarning{FileError: *NewFileError("skipped", path, kind, err)}
}

// CountMismatchError reports two lists that cannot be paired.
type CountMismatchError struct {
	ApplicationError
	MediaCount    int
	SubtitleCount int
}

// NewCountMismatchError creates a mismatch error carrying both counts.
func NewCountMismatchError(mediaCount, subtitleCount int) *CountMismatchError {
	return &CountMismatchError{
		ApplicationError: ApplicationError{
			msg:  fmt.Sprintf("media and subtitle counts differ: %d media, %d subtitles", mediaCount, subtitleCount),
			kind: CountMismatch,
		},
		MediaCount:    mediaCount,
		SubtitleCount: subtitleCount,
	}
}

// RenameError describes a failed rename of one subtitle file.
type RenameError struct {
	ApplicationError
	source string
	target string
}

// NewRenameError creates a rename error of the given kind.
func NewRenameError(kind ErrorKind, source, target string, err error) *RenameError {
	var msg string
	switch kind {
	case DirectoryCreateFailed:
		msg = "failed to create target directory"
	case AlreadyExists:
		msg = "destination already exists"
	case FileNotFound:
		msg = "source file not found"
	default:
		msg = "failed to rename file"
	}
	return &RenameError{
		ApplicationError: ApplicationError{msg: msg, err: err, kind: kind},
		source:           source,
		target:           target,
	}
}

// Error returns the rename error message with both paths
func (e *RenameError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s -> %s", e.msg, e.source, e.target)
	if e.err != nil {
		fmt.Fprintf(&sb, ": %v", e.err)
	}
	return sb.String()
}

// Source returns the path that was being renamed
func (e *RenameError) Source() string {
	return e.source
}

// Target returns the destination path
func (e *RenameError) Target() string {
	return e.target
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

// KindOf returns the kind of the first application error in err's chain.
func KindOf(err error) ErrorKind {
	var k interface{ Kind() ErrorKind }
	if errors.As(err, &k) {
		return k.Kind()
	}
	return Unknown
}

// IsFileNotFound checks if the error is a file not found error
func IsFileNotFound(err error) bool {
	return KindOf(err) == FileNotFound
}

// IsFileAccessDenied checks if the error is a file access denied error
func IsFileAccessDenied(err error) bool {
	return KindOf(err) == FileAccessDenied
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}

// IsCountMismatch checks if the error is a count mismatch
func IsCountMismatch(err error) bool {
	var mismatch *CountMismatchError
	return errors.As(err, &mismatch)
}

// IsCollectionWarning checks if the error is a collection warning
func IsCollectionWarning(err error) bool {
	var w *CollectionWarning
	return errors.As(err, &w)
}

// IsAlreadyExists checks if a rename failed because the destination exists
func IsAlreadyExists(err error) bool {
	var renameErr *RenameError
	return errors.As(err, &renameErr) && renameErr.Kind() == AlreadyExists
}

// IsDirectoryCreateFailed checks if a rename failed creating its directory
func IsDirectoryCreateFailed(err error) bool {
	var renameErr *RenameError
	return errors.As(err, &renameErr) && renameErr.Kind() == DirectoryCreateFailed
}

// IsMoveFailed checks if the rename itself failed
func IsMoveFailed(err error) bool {
	var renameErr *RenameError
	return errors.As(err, &renameErr) && renameErr.Kind() == MoveFailed
}
