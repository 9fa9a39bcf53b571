//go:build conntest

package conntest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/docload/internal/config"
	"github.com/vvka-141/docload/internal/db"
)

func TestPrecedence_FlagOverridesEnv(t *testing.T) {
	cfg := parseStdConnString(t)

	t.Setenv("PGHOST", "host-from-env.invalid")
	t.Setenv("PGPASSWORD", cfg.Password)

	envVars, err := db.LoadFromEnvironment(context.Background())
	require.NoError(t, err)

	resolved, err := db.ResolveConnectionParams(
		"",
		&db.GranularConnFlags{
			Host:     cfg.Host,
			Port:     cfg.Port,
			Username: cfg.Username,
			Database: cfg.Database,
			SSLMode:  "disable",
		},
		nil,
		envVars,
		nil,
	)
	require.NoError(t, err)
	assert.Equal(t, cfg.Host, resolved.Host)

	conn := connectWithConfig(t, resolved)
	pingSucceeds(t, conn)
}

func TestPrecedence_EnvFallback(t *testing.T) {
	cfg := parseStdConnString(t)

	t.Setenv("PGHOST", cfg.Host)
	t.Setenv("PGUSER", cfg.Username)
	t.Setenv("PGPASSWORD", cfg.Password)
	t.Setenv("PGDATABASE", cfg.Database)
	t.Setenv("PGSSLMODE", "disable")

	envVars, err := db.LoadFromEnvironment(context.Background())
	require.NoError(t, err)

	resolved, err := db.ResolveConnectionParams(
		"",
		&db.GranularConnFlags{Port: cfg.Port},
		nil,
		envVars,
		nil,
	)
	require.NoError(t, err)

	assert.Equal(t, cfg.Host, resolved.Host)
	assert.Equal(t, cfg.Username, resolved.Username)

	conn := connectWithConfig(t, resolved)
	pingSucceeds(t, conn)
}

func TestPrecedence_ProjectConfigFallback(t *testing.T) {
	cfg := parseStdConnString(t)

	t.Setenv("PGPASSWORD", cfg.Password)
	for _, k := range []string{"PGHOST", "PGPORT", "PGUSER", "PGDATABASE", "PGSSLMODE"} {
		t.Setenv(k, "")
	}

	envVars, err := db.LoadFromEnvironment(context.Background())
	require.NoError(t, err)

	projectCfg := &config.ProjectConfig{Connection: config.ConnectionConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Database: cfg.Database,
		SSLMode:  "disable",
	}}

	resolved, err := db.ResolveConnectionParams("", nil, nil, envVars, projectCfg)
	require.NoError(t, err)

	conn := connectWithConfig(t, resolved)
	pingSucceeds(t, conn)
}
