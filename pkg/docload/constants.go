package docload

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Feed loaded and transaction committed
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration
	ExitConnectionError = 11 // Failed to connect to database
	ExitFileOpenError   = 12 // Input feed could not be opened
	ExitRecordRejected  = 13 // Malformed record, invalid id or invalid timestamp
	ExitWriteFailed     = 14 // Insert or commit rejected by the database
)

const (
	// DefaultTable is the document table records are inserted into.
	DefaultTable = "documents"

	// DefaultIDColumn holds the 128-bit document key.
	DefaultIDColumn = "doc_id"

	// DefaultObjectColumn holds the serialized JSON document.
	DefaultObjectColumn = "object"

	// IDField is the feed record field parsed into the document key.
	IDField = "id"

	// CreatedField is the feed record field rewritten to epoch seconds.
	CreatedField = "created"

	// StdinPath selects standard input as the feed source.
	StdinPath = "-"

	// DefaultConnectRetries disables connection retries; a connection
	// failure aborts the run.
	DefaultConnectRetries = 0

	// DefaultRetryInitialDelay is the first backoff delay when connection
	// retries are enabled.
	DefaultRetryInitialDelay = 200 * time.Millisecond

	// DefaultRetryMaxDelay caps the backoff delay between connection attempts.
	DefaultRetryMaxDelay = 10 * time.Second

	// MaxLineBytes is the longest feed line the reader accepts.
	MaxLineBytes = 32 * 1024 * 1024

	// MaxErrorPreviewLength is the maximum number of characters of a
	// rejected line shown in error messages.
	MaxErrorPreviewLength = 200
)
