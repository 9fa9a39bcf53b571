package services

import (
	"context"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/docload/internal/db"
	"github.com/vvka-141/docload/pkg/docload"
)

// appName is reported to the server as application_name unless the
// connection string sets one.
const appName = "docload"

// connectionParams describes the destination of one run.
type connectionParams struct {
	connString string
	auth       docload.AuthConfig
	retries    int
}

// openConnection connects with the factory's connector. The returned cleanup
// closes the connection and any connector resources; it is never nil.
func openConnection(
	ctx context.Context,
	factory docload.ConnectorFactory,
	logger docload.Logger,
	p connectionParams,
) (*pgx.Conn, func(), error) {
	connConfig, err := db.ParseConnectionString(p.connString)
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to parse connection string: %w", err)
	}
	connConfig.ApplyAuth(p.auth)
	connConfig.ConnectRetries = p.retries
	if connConfig.AppName == "" {
		connConfig.AppName = appName
	}

	connector, err := factory(connConfig, logger)
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to create connector: %w", err)
	}
	closeConnector := func() {
		if c, ok := connector.(io.Closer); ok {
			if err := c.Close(); err != nil {
				logger.Verbose("Closing connector: %v", err)
			}
		}
	}

	logger.Verbose("Connecting to %s:%d/%s (%s)", connConfig.Host, connConfig.Port, connConfig.Database, connConfig.AuthMethod)
	conn, err := connector.Connect(ctx)
	if err != nil {
		closeConnector()
		return nil, func() {}, err
	}

	cleanup := func() {
		if err := conn.Close(context.Background()); err != nil {
			logger.Verbose("Closing connection: %v", err)
		}
		closeConnector()
	}
	return conn, cleanup, nil
}
