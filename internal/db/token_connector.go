package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/docload/internal/logging"
	"github.com/vvka-141/docload/internal/retry"
	"github.com/vvka-141/docload/pkg/docload"
)

// tokenExpiryWarning is the remaining token lifetime below which a warning is logged.
const tokenExpiryWarning = 5 * time.Minute

// TokenBasedConnector implements docload.Connector for cloud providers
// that authenticate via short-lived tokens (AWS IAM, Azure Entra ID).
// The token is acquired from a TokenProvider and used as the PostgreSQL password.
type TokenBasedConnector struct {
	config        *docload.ConnectionConfig
	tokenProvider TokenProvider
	retryExecutor *retry.Executor
	providerName  string
	logger        docload.Logger
}

// NewTokenBasedConnector creates a connector that uses a TokenProvider for authentication.
// providerName is used in error and warning messages (e.g., "AWS IAM", "Azure").
func NewTokenBasedConnector(config *docload.ConnectionConfig, tokenProvider TokenProvider, providerName string, logger docload.Logger) *TokenBasedConnector {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &TokenBasedConnector{
		config:        config,
		tokenProvider: tokenProvider,
		retryExecutor: newRetryExecutor(config, logger),
		providerName:  providerName,
		logger:        logger,
	}
}

func (c *TokenBasedConnector) Connect(ctx context.Context) (*pgx.Conn, error) {
	var conn *pgx.Conn

	err := c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		token, expiresOn, err := c.tokenProvider.GetToken(ctx)
		if err != nil {
			return fmt.Errorf("failed to acquire %s token: %w: %w", c.providerName, docload.ErrConnectionFailed, err)
		}
		c.logger.Verbose("Acquired token from %s", c.tokenProvider)

		if remaining := time.Until(expiresOn); remaining < tokenExpiryWarning {
			c.logger.Info("Warning: %s token expires in %v", c.providerName, remaining.Round(time.Second))
		}

		configWithToken := *c.config
		configWithToken.Password = token

		connConfig, err := parseConnConfig(BuildConnectionString(&configWithToken), c.logger)
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
