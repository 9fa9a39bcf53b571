package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/docload/internal/config"
	"github.com/vvka-141/docload/pkg/docload"
)

func TestResolveTable(t *testing.T) {
	fromFile := &config.ProjectConfig{Table: config.TableConfig{
		Schema:       "archive",
		Name:         "file_docs",
		IDColumn:     "file_id",
		ObjectColumn: "file_body",
	}}

	tests := []struct {
		name  string
		flags tableFlags
		env   *commandEnv
		cfg   *config.ProjectConfig
		want  docload.TableConfig
	}{
		{
			name: "defaults",
			env:  &commandEnv{},
			want: docload.DefaultTableConfig(),
		},
		{
			name: "docload.yaml",
			env:  &commandEnv{},
			cfg:  fromFile,
			want: docload.TableConfig{Schema: "archive", Name: "file_docs", IDColumn: "file_id", ObjectColumn: "file_body"},
		},
		{
			name: "environment beats docload.yaml",
			env:  &commandEnv{Table: "env_docs"},
			cfg:  fromFile,
			want: docload.TableConfig{Schema: "archive", Name: "env_docs", IDColumn: "file_id", ObjectColumn: "file_body"},
		},
		{
			name:  "flags beat everything",
			flags: tableFlags{schema: "public", table: "flag_docs", idColumn: "k", objectColumn: "v"},
			env:   &commandEnv{Table: "env_docs"},
			cfg:   fromFile,
			want:  docload.TableConfig{Schema: "public", Name: "flag_docs", IDColumn: "k", ObjectColumn: "v"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveTable(tt.flags, tt.env, tt.cfg))
		})
	}
}

func TestResolveLocation(t *testing.T) {
	t.Run("defaults to UTC", func(t *testing.T) {
		loc, err := resolveLocation("", &commandEnv{}, nil)
		require.NoError(t, err)
		assert.Equal(t, time.UTC, loc)
	})

	t.Run("flag beats environment and file", func(t *testing.T) {
		loc, err := resolveLocation("Asia/Tokyo", &commandEnv{Timezone: "Europe/Berlin"},
			&config.ProjectConfig{Timezone: "America/New_York"})
		require.NoError(t, err)
		assert.Equal(t, "Asia/Tokyo", loc.String())
	})

	t.Run("environment beats file", func(t *testing.T) {
		loc, err := resolveLocation("", &commandEnv{Timezone: "Europe/Berlin"},
			&config.ProjectConfig{Timezone: "America/New_York"})
		require.NoError(t, err)
		assert.Equal(t, "Europe/Berlin", loc.String())
	})

	t.Run("unknown zone is a config error", func(t *testing.T) {
		_, err := resolveLocation("Mars/Olympus_Mons", &commandEnv{}, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, docload.ErrInvalidConfig)
	})
}

func TestResolveEffectiveTimeout(t *testing.T) {
	newCmd := func() (*cobra.Command, *time.Duration) {
		var d time.Duration
		cmd := &cobra.Command{Use: "load"}
		cmd.Flags().DurationVar(&d, "timeout", 0, "")
		return cmd, &d
	}

	t.Run("no flag and no file", func(t *testing.T) {
		cmd, d := newCmd()
		got, err := resolveEffectiveTimeout(cmd, nil, *d)
		require.NoError(t, err)
		assert.Zero(t, got)
	})

	t.Run("file used when flag not set", func(t *testing.T) {
		cmd, d := newCmd()
		got, err := resolveEffectiveTimeout(cmd, &config.ProjectConfig{Timeout: "90s"}, *d)
		require.NoError(t, err)
		assert.Equal(t, 90*time.Second, got)
	})

	t.Run("explicit flag wins", func(t *testing.T) {
		cmd, d := newCmd()
		require.NoError(t, cmd.Flags().Set("timeout", "5s"))
		got, err := resolveEffectiveTimeout(cmd, &config.ProjectConfig{Timeout: "90s"}, *d)
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, got)
	})

	t.Run("invalid file value", func(t *testing.T) {
		cmd, d := newCmd()
		_, err := resolveEffectiveTimeout(cmd, &config.ProjectConfig{Timeout: "soon"}, *d)
		assert.ErrorIs(t, err, docload.ErrInvalidConfig)
	})
}

func TestLoadProjectConfig(t *testing.T) {
	t.Run("missing default file is not an error", func(t *testing.T) {
		t.Chdir(t.TempDir())
		cfg, err := loadProjectConfig("")
		require.NoError(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("default file in working directory", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFileName),
			[]byte("input: feed.ndjson\ntable:\n  name: events\n"), 0o644))
		t.Chdir(dir)

		cfg, err := loadProjectConfig("")
		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Equal(t, "feed.ndjson", cfg.Input)
		assert.Equal(t, "events", cfg.Table.Name)
	})

	t.Run("explicit path must exist", func(t *testing.T) {
		_, err := loadProjectConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, docload.ErrInvalidConfig)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("table: [unterminated"), 0o644))
		_, err := loadProjectConfig(path)
		assert.ErrorIs(t, err, docload.ErrInvalidConfig)
	})
}

func TestLoadCommandEnv(t *testing.T) {
	t.Setenv("DOCLOAD_INPUT", "in.ndjson")
	t.Setenv("DOCLOAD_TABLE", "events")
	t.Setenv("DOCLOAD_TIMEZONE", "UTC")

	env, err := loadCommandEnv(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &commandEnv{Input: "in.ndjson", Table: "events", Timezone: "UTC"}, env)
}

func TestSignalContext_CancelStops(t *testing.T) {
	ctx, cancel := signalContext("test")
	cancel()
	<-ctx.Done()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
