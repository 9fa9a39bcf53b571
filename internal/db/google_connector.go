package db

import (
	"context"
	"fmt"
	"net"

	"cloud.google.com/go/cloudsqlconn"
	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/docload/internal/logging"
	"github.com/vvka-141/docload/pkg/docload"
)

// GoogleCloudSQLConnector implements docload.Connector for Google Cloud SQL
// using IAM database authentication via the Cloud SQL Go Connector.
//
// Implements io.Closer: the caller must call Close() after the connection
// is closed to release the Cloud SQL dialer.
type GoogleCloudSQLConnector struct {
	config   *docload.ConnectionConfig
	instance string
	dialer   *cloudsqlconn.Dialer
	logger   docload.Logger
}

// NewGoogleCloudSQLConnector creates a connector for Google Cloud SQL IAM authentication.
// instance is the instance connection name in format: project:region:instance
func NewGoogleCloudSQLConnector(config *docload.ConnectionConfig, instance string, logger docload.Logger) *GoogleCloudSQLConnector {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &GoogleCloudSQLConnector{
		config:   config,
		instance: instance,
		logger:   logger,
	}
}

// Connect opens one connection through the Cloud SQL dialer, which
// handles authentication and TLS.
func (c *GoogleCloudSQLConnector) Connect(ctx context.Context) (*pgx.Conn, error) {
	dialer, err := cloudsqlconn.NewDialer(ctx, cloudsqlconn.WithIAMAuthN())
	if err != nil {
		return nil, fmt.Errorf("failed to create Cloud SQL dialer: %w: %w", docload.ErrConnectionFailed, err)
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s dbname=%s sslmode=disable",
		c.instance,
		c.config.Username,
		c.config.Database,
	)

	connConfig, err := parseConnConfig(dsn, c.logger)
	if err != nil {
		dialer.Close()
		return nil, err
	}
	connConfig.DialFunc = func(ctx context.Context, _, _ string) (net.Conn, error) {
		return dialer.Dial(ctx, c.instance)
	}

	conn, err := pgx.ConnectConfig(ctx, connConfig)
	if err != nil {
		dialer.Close()
		return nil, wrapConnectionError(err, c.instance, c.config.Port, c.config.Database)
	}

	c.dialer = dialer
	return conn, nil
}

// Close releases the Cloud SQL dialer resources.
func (c *GoogleCloudSQLConnector) Close() error {
	if c.dialer != nil {
		err := c.dialer.Close()
		c.dialer = nil
		return err
	}
	return nil
}
