package db

import (
	"context"
	"fmt"
	"os"

	"github.com/sethvargo/go-envconfig"

	"github.com/vvka-141/docload/internal/config"
	"github.com/vvka-141/docload/pkg/docload"
)

// GranularConnFlags represents connection parameters from CLI flags.
// These follow PostgreSQL standard flag conventions (-h, -p, -U, -d).
//
// Password is deliberately not a flag. Use $PGPASSWORD, a .pgpass file,
// or a connection string with an embedded password.
type GranularConnFlags struct {
	Host     string
	Port     int
	Username string
	Database string
	SSLMode  string
}

// IsEmpty returns true if no connection-related granular flags were provided.
// Database is excluded because it may override the database of a connection string.
func (g *GranularConnFlags) IsEmpty() bool {
	return g.Host == "" && g.Port == 0 && g.Username == "" && g.SSLMode == ""
}

// AuthFlags selects a cloud authentication method from the command line.
// The Azure client secret has no flag; it comes from AZURE_CLIENT_SECRET only.
type AuthFlags struct {
	AWS       bool
	AWSRegion string

	Google         bool
	GoogleInstance string

	Azure         bool
	AzureTenantID string
	AzureClientID string
}

func (a *AuthFlags) selected() int {
	n := 0
	for _, on := range []bool{a.AWS, a.Google, a.Azure} {
		if on {
			n++
		}
	}
	return n
}

// EnvVars holds the environment variables that influence the connection.
// See: https://www.postgresql.org/docs/current/libpq-envars.html
type EnvVars struct {
	ConnectionString string `env:"DOCLOAD_CONNECTION_STRING"`
	DatabaseURL      string `env:"DATABASE_URL"`

	PGHost     string `env:"PGHOST"`
	PGPort     int    `env:"PGPORT"`
	PGUser     string `env:"PGUSER"`
	PGPassword string `env:"PGPASSWORD"`
	PGDatabase string `env:"PGDATABASE"`
	PGSSLMode  string `env:"PGSSLMODE"`

	AzureTenantID     string `env:"AZURE_TENANT_ID"`
	AzureClientID     string `env:"AZURE_CLIENT_ID"`
	AzureClientSecret string `env:"AZURE_CLIENT_SECRET"`

	AWSRegion string `env:"AWS_REGION"`
}

// LoadFromEnvironment reads EnvVars from the process environment.
func LoadFromEnvironment(ctx context.Context) (*EnvVars, error) {
	return LoadFromLookuper(ctx, envconfig.OsLookuper())
}

// LoadFromLookuper reads EnvVars from l.
func LoadFromLookuper(ctx context.Context, l envconfig.Lookuper) (*EnvVars, error) {
	var env EnvVars
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &env,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("read environment: %v: %w", err, docload.ErrInvalidConfig)
	}
	return &env, nil
}

// HasAzureCredentials returns true if Azure Entra ID environment variables are set.
func (e *EnvVars) HasAzureCredentials() bool {
	return e.AzureTenantID != "" || e.AzureClientID != ""
}

// ResolveConnectionParams resolves connection parameters using PostgreSQL-standard precedence:
//
//  1. Connection string flag (--connection)
//  2. DOCLOAD_CONNECTION_STRING, then DATABASE_URL, when no granular flags are given
//  3. Granular flags, then PG* environment variables, then docload.yaml
//  4. Defaults (localhost:5432, prefer SSL)
//
// The authentication method is resolved separately by resolveAuth.
//
// Returns an error if BOTH --connection AND granular flags are provided.
func ResolveConnectionParams(
	connStringFlag string,
	granularFlags *GranularConnFlags,
	authFlags *AuthFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*docload.ConnectionConfig, error) {
	if granularFlags == nil {
		granularFlags = &GranularConnFlags{}
	}
	if authFlags == nil {
		authFlags = &AuthFlags{}
	}
	if envVars == nil {
		envVars = &EnvVars{}
	}
	if projectConfig == nil {
		projectConfig = &config.ProjectConfig{}
	}

	if connStringFlag != "" && !granularFlags.IsEmpty() {
		return nil, fmt.Errorf(
			"cannot specify both --connection and granular flags (-h, -p, -U)\n"+
				"Choose one approach:\n"+
				"  1. Connection string: --connection \"postgresql://user@localhost:5432/mydb\"\n"+
				"  2. Granular flags: -h localhost -p 5432 -U myuser -d mydb\n"+
				"  3. Environment variables: export PGHOST=localhost PGPORT=5432 PGUSER=myuser\n"+
				"%w", docload.ErrInvalidConfig,
		)
	}

	var cfg *docload.ConnectionConfig
	var err error

	switch {
	case connStringFlag != "":
		cfg, err = resolveFromConnectionString(connStringFlag, granularFlags, envVars)
	case granularFlags.IsEmpty() && envVars.ConnectionString != "":
		cfg, err = resolveFromConnectionString(envVars.ConnectionString, granularFlags, envVars)
	case granularFlags.IsEmpty() && envVars.DatabaseURL != "":
		cfg, err = resolveFromConnectionString(envVars.DatabaseURL, granularFlags, envVars)
	default:
		cfg = resolveFromGranularParams(granularFlags, envVars, &projectConfig.Connection)
	}
	if err != nil {
		return nil, err
	}

	if err := resolveAuth(cfg, authFlags, envVars, &projectConfig.Connection); err != nil {
		return nil, err
	}

	cfg.ConnectRetries = projectConfig.Connection.ConnectRetries
	return cfg, nil
}

// resolveFromConnectionString parses connStr. PGSSLMODE and PGPASSWORD act as
// fallbacks for values the string leaves out, and -d overrides its database.
func resolveFromConnectionString(connStr string, flags *GranularConnFlags, envVars *EnvVars) (*docload.ConnectionConfig, error) {
	cfg, err := ParseConnectionString(connStr)
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %w", err)
	}

	if cfg.SSLMode == "" {
		cfg.SSLMode = envVars.PGSSLMode
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "prefer"
	}
	if cfg.Password == "" {
		cfg.Password = envVars.PGPassword
	}
	if flags.Database != "" {
		cfg.Database = flags.Database
	}

	return cfg, nil
}

// resolveFromGranularParams builds a ConnectionConfig where each parameter
// follows flag > environment > docload.yaml > default.
func resolveFromGranularParams(
	flags *GranularConnFlags,
	envVars *EnvVars,
	pc *config.ConnectionConfig,
) *docload.ConnectionConfig {
	cfg := &docload.ConnectionConfig{
		AuthMethod:       docload.AuthMethodStandard,
		AdditionalParams: make(map[string]string),
	}

	cfg.Host = firstNonEmpty(flags.Host, envVars.PGHost, pc.Host, "localhost")

	switch {
	case flags.Port != 0:
		cfg.Port = flags.Port
	case envVars.PGPort != 0:
		cfg.Port = envVars.PGPort
	case pc.Port != 0:
		cfg.Port = pc.Port
	default:
		cfg.Port = 5432
	}

	cfg.Username = firstNonEmpty(flags.Username, envVars.PGUser, pc.Username, os.Getenv("USER"), os.Getenv("USERNAME"))
	cfg.Password = envVars.PGPassword
	cfg.Database = firstNonEmpty(flags.Database, envVars.PGDatabase, pc.Database, "postgres")
	cfg.SSLMode = firstNonEmpty(flags.SSLMode, envVars.PGSSLMode, pc.SSLMode, "prefer")

	return cfg
}

// resolveAuth picks the authentication method: an explicit flag, then
// auth_method from docload.yaml, then Azure when AZURE_* variables are set.
func resolveAuth(cfg *docload.ConnectionConfig, flags *AuthFlags, env *EnvVars, pc *config.ConnectionConfig) error {
	if flags.selected() > 1 {
		return fmt.Errorf("choose at most one of --aws, --google, --azure: %w", docload.ErrInvalidConfig)
	}

	method := docload.AuthMethodStandard
	switch {
	case flags.AWS:
		method = docload.AuthMethodAWSIAM
	case flags.Google:
		method = docload.AuthMethodGoogleIAM
	case flags.Azure:
		method = docload.AuthMethodAzureEntraID
	case pc.AuthMethod != "":
		m, err := docload.ParseAuthMethod(pc.AuthMethod)
		if err != nil {
			return fmt.Errorf("docload.yaml: %w", err)
		}
		method = m
	case flags.AzureTenantID != "" || flags.AzureClientID != "" || env.HasAzureCredentials():
		method = docload.AuthMethodAzureEntraID
	}

	cfg.AuthMethod = method
	switch method {
	case docload.AuthMethodAWSIAM:
		cfg.AWSRegion = firstNonEmpty(flags.AWSRegion, env.AWSRegion, pc.AWSRegion)
		if cfg.AWSRegion == "" {
			return fmt.Errorf("AWS IAM auth requires --aws-region or $AWS_REGION: %w", docload.ErrInvalidConfig)
		}
	case docload.AuthMethodGoogleIAM:
		cfg.GoogleInstance = firstNonEmpty(flags.GoogleInstance, pc.GoogleInstance)
		if cfg.GoogleInstance == "" {
			return fmt.Errorf("Google Cloud SQL IAM auth requires --google-instance (project:region:instance): %w", docload.ErrInvalidConfig)
		}
	case docload.AuthMethodAzureEntraID:
		cfg.AzureTenantID = firstNonEmpty(flags.AzureTenantID, env.AzureTenantID, pc.AzureTenantID)
		cfg.AzureClientID = firstNonEmpty(flags.AzureClientID, env.AzureClientID, pc.AzureClientID)
		cfg.AzureClientSecret = env.AzureClientSecret
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
