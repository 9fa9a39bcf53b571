package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vvka-141/docload/internal/logging"
	"github.com/vvka-141/docload/internal/retry"
	"github.com/vvka-141/docload/pkg/docload"
)

// StandardConnector implements docload.Connector for username/password
// authentication. Transient failures are retried only when the config
// asks for connection retries.
type StandardConnector struct {
	config        *docload.ConnectionConfig
	retryExecutor *retry.Executor
	logger        docload.Logger
}

// NewStandardConnector creates a new StandardConnector with the given configuration.
func NewStandardConnector(config *docload.ConnectionConfig, logger docload.Logger) *StandardConnector {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &StandardConnector{
		config:        config,
		retryExecutor: newRetryExecutor(config, logger),
		logger:        logger,
	}
}

// Connect opens one connection using standard authentication.
func (c *StandardConnector) Connect(ctx context.Context) (*pgx.Conn, error) {
	var conn *pgx.Conn
	connStr := BuildConnectionString(c.config)

	err := c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		connConfig, err := parseConnConfig(connStr, c.logger)
		if err != nil {
			return err
		}

		conn, err = pgx.ConnectConfig(ctx, connConfig)
		if err != nil {
			return wrapConnectionError(err, c.config.Host, c.config.Port, c.config.Database)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return conn, nil
}

// NewConnector is a docload.ConnectorFactory that creates the Connector
// matching the ConnectionConfig's AuthMethod.
func NewConnector(config *docload.ConnectionConfig, logger docload.Logger) (docload.Connector, error) {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	switch config.AuthMethod {
	case docload.AuthMethodStandard:
		return NewStandardConnector(config, logger), nil
	case docload.AuthMethodAWSIAM:
		return newAWSConnector(config, logger)
	case docload.AuthMethodGoogleIAM:
		return newGoogleConnector(config, logger)
	case docload.AuthMethodAzureEntraID:
		return newAzureConnector(config, logger)
	default:
		return nil, fmt.Errorf("unsupported auth method %v: %w", config.AuthMethod, docload.ErrUnsupportedAuthMethod)
	}
}

func newRetryExecutor(config *docload.ConnectionConfig, logger docload.Logger) *retry.Executor {
	return retry.NewExecutor(retry.NewPostgreSQLErrorClassifier(), config.ConnectRetries).
		WithOnRetry(func(attempt int, err error) {
			logger.Info("Connection attempt failed, retrying (%d/%d): %v", attempt, config.ConnectRetries, err)
		})
}

// parseConnConfig parses connStr and routes server notices to the verbose log.
func parseConnConfig(connStr string, logger docload.Logger) (*pgx.ConnConfig, error) {
	connConfig, err := pgx.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %v: %w", err, docload.ErrInvalidConfig)
	}
	connConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		logger.Verbose("%s: %s", notice.Severity, notice.Message)
	}
	return connConfig, nil
}

// wrapConnectionError wraps raw pgx connection errors with actionable guidance.
// The result matches both docload.ErrConnectionFailed and err.
func wrapConnectionError(err error, host string, port int, database string) error {
	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", host, port)

	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		return fmt.Errorf(`%w: connection refused to %s

Possible causes:
  - PostgreSQL is not running (check: pg_isready -h %s -p %d)
  - Wrong host or port
  - Firewall blocking the connection

Original error: %w`, docload.ErrConnectionFailed, addr, host, port, err)

	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "no host"):
		return fmt.Errorf(`%w: cannot resolve host "%s"

Possible causes:
  - Hostname is misspelled
  - DNS is not configured or reachable
  - Network connection issue

Original error: %w`, docload.ErrConnectionFailed, host, err)

	case strings.Contains(errStr, "password authentication failed"):
		return fmt.Errorf(`%w: password authentication failed for database "%s"

Possible causes:
  - Wrong password (check $PGPASSWORD or ~/.pgpass)
  - Wrong username
  - User does not have access to the database

Original error: %w`, docload.ErrConnectionFailed, database, err)

	case strings.Contains(errStr, "does not exist"):
		return fmt.Errorf(`%w: database "%s" does not exist

To create it:
  createdb %s

Original error: %w`, docload.ErrConnectionFailed, database, database, err)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		return fmt.Errorf(`%w: connection timed out to %s

Possible causes:
  - Server is overloaded or unresponsive
  - Network latency or packet loss
  - Firewall silently dropping packets
  - Wrong host/port (server not listening)

Original error: %w`, docload.ErrConnectionFailed, addr, err)

	case strings.Contains(errStr, "ssl") || strings.Contains(errStr, "tls"):
		return fmt.Errorf(`%w: SSL/TLS connection error

Possible causes:
  - Server requires SSL but --sslmode is wrong
  - Certificate verification failed (try --sslmode=require)

Original error: %w`, docload.ErrConnectionFailed, err)

	case strings.Contains(errStr, "too many connections"):
		return fmt.Errorf(`%w: too many connections to database "%s"

Possible causes:
  - max_connections limit reached in postgresql.conf
  - Stale sessions from earlier runs

Original error: %w`, docload.ErrConnectionFailed, database, err)

	default:
		return fmt.Errorf("%w: %w", docload.ErrConnectionFailed, err)
	}
}

// newAWSConnector creates a token-based connector with the AWS IAM token provider.
func newAWSConnector(config *docload.ConnectionConfig, logger docload.Logger) (docload.Connector, error) {
	endpoint := fmt.Sprintf("%s:%d", config.Host, config.Port)

	tokenProvider, err := NewAWSIAMTokenProvider(endpoint, config.AWSRegion, config.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS IAM token provider: %w", err)
	}

	return NewTokenBasedConnector(config, tokenProvider, "AWS IAM", logger), nil
}

// newGoogleConnector creates a GoogleCloudSQLConnector for Google Cloud SQL IAM authentication.
func newGoogleConnector(config *docload.ConnectionConfig, logger docload.Logger) (docload.Connector, error) {
	if config.GoogleInstance == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires --google-instance (project:region:instance): %w", docload.ErrInvalidConfig)
	}
	if config.Username == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires username (-U): %w", docload.ErrInvalidConfig)
	}

	return NewGoogleCloudSQLConnector(config, config.GoogleInstance, logger), nil
}

// newAzureConnector creates a token-based connector with the Azure Entra ID token provider.
// Explicit tenant, client and secret select Service Principal auth;
// otherwise the DefaultAzureCredential chain is used.
func newAzureConnector(config *docload.ConnectionConfig, logger docload.Logger) (docload.Connector, error) {
	var tokenProvider TokenProvider
	var err error

	if config.AzureTenantID != "" && config.AzureClientID != "" && config.AzureClientSecret != "" {
		tokenProvider, err = NewAzureServicePrincipalProvider(
			config.AzureTenantID,
			config.AzureClientID,
			config.AzureClientSecret,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure Service Principal provider: %w", err)
		}
	} else {
		tokenProvider, err = NewAzureDefaultCredentialProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure Default Credential provider: %w", err)
		}
	}

	return NewTokenBasedConnector(config, tokenProvider, "Azure", logger), nil
}
