package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies the failures a checksum operation can report.
// Callers use it to tell "could not verify" apart from "input was malformed"
// without matching on error strings.
type ErrorCategory int

const (
	// ErrorIO indicates the byte source could not be opened or read, e.g.
	// a missing file, a permission problem or a read failing mid-stream.
	ErrorIO ErrorCategory = iota + 1

	// ErrorDecode indicates a textual digest contained characters outside
	// the hexadecimal alphabet.
	ErrorDecode

	// ErrorLength indicates a textual or encoded digest did not describe
	// exactly 32 bytes.
	ErrorLength

	// ErrorManifest indicates a persisted manifest could not be decoded.
	ErrorManifest

	// ErrorCompression indicates compressed manifest data was corrupt.
	ErrorCompression
)

// String returns the string representation of the error category.
// This is useful for logging and error reporting.
func (c ErrorCategory) String() string {
	switch c {
	case ErrorIO:
		return "io"
	case ErrorDecode:
		return "decode"
	case ErrorLength:
		return "length"
	case ErrorManifest:
		return "manifest"
	case ErrorCompression:
		return "compression"
	default:
		return "unknown"
	}
}

// ChecksumError carries the category of a failed operation along with the
// path it concerned, if any.
type ChecksumError struct {
	Err       error
	Operation string
	Path      string
	Category  ErrorCategory
}

// New returns a ChecksumError wrapping err.
func New(category ErrorCategory, operation, path string, err error) *ChecksumError {
	return &ChecksumError{Err: err, Operation: operation, Path: path, Category: category}
}

func (e *ChecksumError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("[%v] %s %s: %v", e.Category, e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("[%v] %s: %v", e.Category, e.Operation, e.Err)
}

func (e *ChecksumError) Unwrap() error {
	return e.Err
}

// IsParseError reports whether the failure came from malformed digest text
// rather than from reading content.
func (e *ChecksumError) IsParseError() bool {
	return e.Category == ErrorDecode || e.Category == ErrorLength
}

// CategoryOf extracts the category from err, or 0 if err carries none.
func CategoryOf(err error) ErrorCategory {
	var ce *ChecksumError
	if errors.As(err, &ce) {
		return ce.Category
	}
	return 0
}

// IsIOError reports whether err is an I/O failure.
func IsIOError(err error) bool {
	return CategoryOf(err) == ErrorIO
}

// IsParseError reports whether err is a decode or length failure.
func IsParseError(err error) bool {
	var ce *ChecksumError
	return errors.As(err, &ce) && ce.IsParseError()
}
