package confkit

import (
	"errors"
	"fmt"
)

// Common detection errors
var (
	ErrInvalidConfig  = errors.New("invalid detector configuration")
	ErrNotRegularFile = errors.New("not a regular file")
	ErrNameCollision  = errors.New("rule name already registered")
	ErrNilRule        = errors.New("rule is nil")
)

// ScanError records an I/O failure and the operation and file path that
// caused it. Scan errors are routed through the Detector's optional error
// callback before being returned.
type ScanError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface
func (e *ScanError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error
func (e *ScanError) Unwrap() error {
	return e.Err
}

// CallbackError marks an error raised by an ErrorCallback. It is how
// ScanPath tells an escalated error apart from one the callback declined,
// even when the callback returns the *ScanError it was handed. Unwrap
// exposes the callback's error to errors.Is and errors.As.
type CallbackError struct {
	Err error
}

// Error implements the error interface
func (e *CallbackError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the callback's error
func (e *CallbackError) Unwrap() error {
	return e.Err
}

// IsNotRegularFile reports whether an error indicates that a scan target
// was not a regular file
func IsNotRegularFile(err error) bool {
	return errors.Is(err, ErrNotRegularFile)
}

// IsScanError reports whether an error is a per-file I/O scan error
func IsScanError(err error) bool {
	var se *ScanError
	return errors.As(err, &se)
}
