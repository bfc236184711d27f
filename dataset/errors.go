package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFormat is the sentinel behind every header validation failure.
	ErrInvalidFormat = errors.New("invalid dataset format")

	// ErrRecordLength marks a record whose index list is longer than the
	// dataset dimension allows.
	ErrRecordLength = errors.New("record length exceeds dimension")

	// ErrInvalidConfig is returned by GenerateConfig.Validate.
	ErrInvalidConfig = errors.New("invalid generate config")
)

// FormatError describes a rejected dataset header.
//
// errors.Is(err, ErrInvalidFormat) holds for every FormatError.
type FormatError struct {
	Reason string
	cause  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInvalidFormat, e.Reason)
}

func (e *FormatError) Unwrap() []error {
	if e.cause == nil {
		return []error{ErrInvalidFormat}
	}
	return []error{ErrInvalidFormat, e.cause}
}

// RecordError reports a failure while decoding record Index.
//
// The underlying I/O error (typically io.ErrUnexpectedEOF for a truncated
// record) is available via errors.Unwrap.
type RecordError struct {
	Index uint64
	cause error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("read record %d: %v", e.Index, e.cause)
}

func (e *RecordError) Unwrap() error { return e.cause }
