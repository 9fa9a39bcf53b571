package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/docload/internal/feed"
	"github.com/vvka-141/docload/internal/store"
	"github.com/vvka-141/docload/internal/transform"
	"github.com/vvka-141/docload/pkg/docload"
)

// LoadService implements docload.Loader.
// Thread-Safety: NOT safe for concurrent Load() calls on the same instance.
type LoadService struct {
	connectorFactory docload.ConnectorFactory
	logger           docload.Logger
	progress         docload.ProgressReporter
	openFeed         func(path string) (*feed.Reader, error)
	newTransformer   func(loc *time.Location) docload.Transformer
}

// NewLoadService creates a LoadService. It panics on nil dependencies,
// which are programmer errors.
func NewLoadService(
	connectorFactory docload.ConnectorFactory,
	logger docload.Logger,
	progress docload.ProgressReporter,
) *LoadService {
	if connectorFactory == nil {
		panic("connectorFactory cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if progress == nil {
		panic("progress cannot be nil")
	}
	return &LoadService{
		connectorFactory: connectorFactory,
		logger:           logger,
		progress:         progress,
		openFeed:         feed.Open,
		newTransformer: func(loc *time.Location) docload.Transformer {
			return transform.New(loc)
		},
	}
}

// Load streams the feed into the document table inside one transaction.
// The feed is opened before any connection is made. The first failing
// record aborts the run and the transaction is rolled back.
func (s *LoadService) Load(ctx context.Context, config docload.LoadConfig) (docload.Summary, error) {
	start := time.Now()
	summary := docload.Summary{InputPath: config.InputPath}

	if err := config.Validate(); err != nil {
		return summary, fmt.Errorf("invalid configuration: %w", err)
	}

	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	rd, err := s.openFeed(config.InputPath)
	if err != nil {
		return summary, err
	}
	defer rd.Close()
	s.logger.Verbose("Reading %s", rd.Name())

	conn, cleanup, err := openConnection(ctx, s.connectorFactory, s.logger, connectionParams{
		connString: config.ConnectionString,
		auth:       config.Auth,
		retries:    config.ConnectRetries,
	})
	if err != nil {
		return summary, err
	}
	defer cleanup()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return summary, fmt.Errorf("%w: begin transaction: %w", docload.ErrWriteFailed, err)
	}
	defer func() {
		// After a successful commit this is a no-op returning pgx.ErrTxClosed.
		if err := tx.Rollback(context.Background()); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			s.logger.Verbose("Rollback: %v", err)
		}
	}()

	count, err := s.loadRecords(ctx, rd, store.NewWriter(tx, config.Table), s.newTransformer(config.Location))
	summary.Records = count
	if err != nil {
		s.logger.Verbose("Rolling back after %d record(s)", count)
		return summary, err
	}

	if err := tx.Commit(ctx); err != nil {
		return summary, store.CommitError(err)
	}

	summary.Duration = time.Since(start)
	_, bytes := rd.Stats()
	s.logger.Verbose("Committed %d record(s), %d bytes read in %v", count, bytes, summary.Duration.Round(time.Millisecond))
	return summary, nil
}

// loadRecords transforms and inserts every line in order, reporting progress
// after each successful insert. It returns the number of records written.
func (s *LoadService) loadRecords(
	ctx context.Context,
	rd *feed.Reader,
	writer *store.Writer,
	tr docload.Transformer,
) (int, error) {
	count := 0
	for {
		line, err := rd.Next()
		if errors.Is(err, io.EOF) {
			return count, nil
		}
		if err != nil {
			return count, err
		}

		doc, err := tr.Transform(line.Bytes)
		if err != nil {
			return count, &docload.RecordError{Line: line.Number, Err: err}
		}

		if err := writer.Insert(ctx, doc); err != nil {
			return count, &docload.RecordError{Line: line.Number, Err: err}
		}

		count++
		s.progress.Done(count)
	}
}
