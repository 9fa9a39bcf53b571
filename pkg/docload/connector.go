package docload

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Connector is a unified interface for establishing the destination connection.
// Different implementations handle various authentication methods
// (standard credentials, cloud IAM tokens, Cloud SQL dialers).
type Connector interface {
	// Connect establishes exactly one connection to the database.
	// The returned connection must be closed by the caller when done.
	Connect(ctx context.Context) (*pgx.Conn, error)
}

// ConnectorFactory builds the Connector matching a ConnectionConfig's AuthMethod.
// Connectors that hold resources beyond the connection (a Cloud SQL dialer)
// also implement io.Closer and must be closed after the connection.
type ConnectorFactory func(config *ConnectionConfig, logger Logger) (Connector, error)
