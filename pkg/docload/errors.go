package docload

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure taxonomy of a load run.
// Every failure is fatal for the run; callers distinguish them with errors.Is().
//
// Example usage:
//
//	_, err := loader.Load(ctx, config)
//	if errors.Is(err, docload.ErrInvalidTimestamp) {
//	    // the feed contains a record with an unparseable "created" value
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConnectionFailed indicates the destination connection could not be established.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrFileOpen indicates the input feed is missing or unreadable.
	ErrFileOpen = errors.New("cannot open input file")

	// ErrMalformedRecord indicates a line is not valid JSON or not a JSON object.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrInvalidIdentifier indicates the "id" field is absent or not a valid UUID.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrInvalidTimestamp indicates the "created" field is absent or unparseable.
	ErrInvalidTimestamp = errors.New("invalid timestamp")

	// ErrWriteFailed indicates the destination rejected an insert or the commit.
	ErrWriteFailed = errors.New("write failed")

	// ErrUnsupportedAuthMethod indicates the requested authentication method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")
)

// RecordError reports the feed line a fatal record failure happened on.
// It unwraps to one of the record sentinels (ErrMalformedRecord,
// ErrInvalidIdentifier, ErrInvalidTimestamp, ErrWriteFailed).
type RecordError struct {
	// Line is the 1-based line number in the feed.
	Line int
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// usageErrorPatterns are substrings of cobra/pflag argument errors.
var usageErrorPatterns = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"accepts ",
	"requires at least",
	"required flag",
	"invalid argument",
	"flag needs an argument",
	"missing required argument",
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrUnsupportedAuthMethod):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrFileOpen):
		return ExitFileOpenError
	case errors.Is(err, ErrMalformedRecord),
		errors.Is(err, ErrInvalidIdentifier),
		errors.Is(err, ErrInvalidTimestamp):
		return ExitRecordRejected
	case errors.Is(err, ErrWriteFailed):
		return ExitWriteFailed
	}

	errStr := err.Error()
	for _, p := range usageErrorPatterns {
		if strings.Contains(errStr, p) {
			return ExitUsageError
		}
	}

	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}

// Preview shortens s to MaxErrorPreviewLength characters for error messages.
func Preview(s string) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= MaxErrorPreviewLength {
		return s
	}
	return string(r[:MaxErrorPreviewLength]) + "..."
}
