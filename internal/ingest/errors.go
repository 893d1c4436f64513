package ingest

import "errors"

var (
	// ErrUnsupportedType is returned when the file is not text.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrInvalidEncoding is returned when the file is not valid UTF-8.
	ErrInvalidEncoding = errors.New("file is not valid UTF-8")
	// ErrNotDelimited is returned when no line contains the field delimiter.
	ErrNotDelimited = errors.New("no comma-delimited columns found")
	// ErrNoRecords is returned for a readable file with zero valid records.
	ErrNoRecords = errors.New("no valid records")
)

// IsFormatError reports whether err means the file could not be read as a log file,
// as opposed to a readable file that yielded nothing.
func IsFormatError(err error) bool {
	return errors.Is(err, ErrUnsupportedType) ||
		errors.Is(err, ErrInvalidEncoding) ||
		errors.Is(err, ErrNotDelimited)
}
