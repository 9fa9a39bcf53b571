package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vvka-141/docload/internal/store"
	"github.com/vvka-141/docload/internal/transform"
	"github.com/vvka-141/docload/pkg/docload"
)

// FetchService implements docload.Fetcher.
type FetchService struct {
	connectorFactory docload.ConnectorFactory
	logger           docload.Logger
}

// NewFetchService creates a FetchService. It panics on nil dependencies.
func NewFetchService(connectorFactory docload.ConnectorFactory, logger docload.Logger) *FetchService {
	if connectorFactory == nil {
		panic("connectorFactory cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &FetchService{connectorFactory: connectorFactory, logger: logger}
}

// Fetch reads the documents stored under ids, in the order given, and
// renders their created field back to an RFC 3339 string. Unknown ids are
// logged and skipped.
func (s *FetchService) Fetch(ctx context.Context, config docload.FetchConfig, ids []uuid.UUID) ([][]byte, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	conn, cleanup, err := openConnection(ctx, s.connectorFactory, s.logger, connectionParams{
		connString: config.ConnectionString,
		auth:       config.Auth,
		retries:    config.ConnectRetries,
	})
	if err != nil {
		return nil, err
	}
	defer cleanup()

	stored, err := store.Fetch(ctx, conn, config.Table, ids)
	if err != nil {
		return nil, err
	}
	if missing := len(ids) - len(stored); missing > 0 {
		s.logger.Info("%d of %d document(s) not found", missing, len(ids))
	}

	out := make([][]byte, 0, len(stored))
	for _, d := range stored {
		body, err := transform.Restore(d.Body)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", d.ID, err)
		}
		out = append(out, body)
	}
	return out, nil
}
