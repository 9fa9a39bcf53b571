package docload

import (
	"context"

	"github.com/google/uuid"
)

// Loader loads a newline-delimited JSON feed into the document table.
// Implementations run the whole feed inside one transaction: either every
// record is stored or none is.
type Loader interface {
	// Load processes the configured feed to completion and commits, or
	// returns the first error after rolling back.
	Load(ctx context.Context, config LoadConfig) (Summary, error)
}

// Fetcher reads stored documents back by key.
type Fetcher interface {
	// Fetch returns the stored documents for ids, with the created field
	// rendered back to an RFC 3339 string.
	Fetch(ctx context.Context, config FetchConfig, ids []uuid.UUID) ([][]byte, error)
}

// Transformer turns one feed line into a Document.
type Transformer interface {
	Transform(line []byte) (Document, error)
}

// ProgressReporter is told about every record that has been written.
type ProgressReporter interface {
	// Done is called with the 1-based count of records written so far.
	Done(count int)
}
