package retry

import (
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes that mean "the server is not ready for you yet".
// See: https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgClassConnectionException = "08"

	pgCodeTooManyConnections = "53300"
	pgCodeAdminShutdown      = "57P01"
	pgCodeCrashShutdown      = "57P02"
	pgCodeCannotConnectNow   = "57P03"
)

// transientMessages are lower-cased fragments of driver and network errors
// that carry no typed error.
var transientMessages = []string{
	"connection refused",
	"connection reset",
	"connection timeout",
	"network is unreachable",
	"i/o timeout",
	"broken pipe",
	"server closed the connection",
	"unexpected eof",
	"the database system is starting up",
}

// PostgreSQLErrorClassifier implements docload.ErrorClassifier for errors
// seen while establishing a PostgreSQL connection.
type PostgreSQLErrorClassifier struct{}

// NewPostgreSQLErrorClassifier creates a new PostgreSQL error classifier.
func NewPostgreSQLErrorClassifier() *PostgreSQLErrorClassifier {
	return &PostgreSQLErrorClassifier{}
}

// IsTransient determines if an error is temporary and retryable.
// Authentication failures, missing databases and configuration errors are fatal.
func (c *PostgreSQLErrorClassifier) IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return isTransientCode(pgErr.Code)
	}

	if isTransientNetError(err) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, fragment := range transientMessages {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

func isTransientCode(code string) bool {
	if strings.HasPrefix(code, pgClassConnectionException) {
		return true
	}
	switch code {
	case pgCodeTooManyConnections, pgCodeAdminShutdown, pgCodeCrashShutdown, pgCodeCannotConnectNow:
		return true
	}
	return false
}

func isTransientNetError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTemporary || dnsErr.IsTimeout
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() {
			return true
		}
		return errors.Is(opErr.Err, syscall.ECONNREFUSED) ||
			errors.Is(opErr.Err, syscall.ECONNRESET) ||
			errors.Is(opErr.Err, syscall.ENETUNREACH) ||
			errors.Is(opErr.Err, syscall.EHOSTUNREACH)
	}
	return false
}
