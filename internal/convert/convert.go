package convert

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
)

// Common errors returned by the convert package
var (
	// ErrUnavailable is returned when the conversion capability cannot run at all
	ErrUnavailable = errors.New("document converter is not available")

	// ErrConversionFailed is returned when the conversion operation itself fails
	ErrConversionFailed = errors.New("document conversion failed")
)

// Converter produces a PDF rendition of a staged document. The returned path
// is a new artifact owned by the calling request and must be released with
// the rest of the request's artifacts.
type Converter interface {
	// Convert turns the document at path into a PDF and returns the
	// converted file's path.
	Convert(ctx context.Context, path string) (string, error)

	// Available reports whether the conversion capability can run.
	Available() bool
}

// NeedsConversion reports whether the file at path is in a non-target format
// that should be offered to the converter before dispatch. PDF files pass
// through untouched.
func NeedsConversion(path string) bool {
	return !strings.EqualFold(filepath.Ext(path), ".pdf")
}
