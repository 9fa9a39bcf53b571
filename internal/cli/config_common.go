package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"github.com/vvka-141/docload/internal/config"
	"github.com/vvka-141/docload/pkg/docload"
)

// commandEnv holds the non-connection environment variables.
type commandEnv struct {
	Input    string `env:"DOCLOAD_INPUT"`
	Table    string `env:"DOCLOAD_TABLE"`
	Timezone string `env:"DOCLOAD_TIMEZONE"`
}

func loadCommandEnv(ctx context.Context) (*commandEnv, error) {
	var env commandEnv
	if err := envconfig.Process(ctx, &env); err != nil {
		return nil, fmt.Errorf("read environment: %v: %w", err, docload.ErrInvalidConfig)
	}
	return &env, nil
}

// tableFlags names the destination table from the command line.
type tableFlags struct {
	schema       string
	table        string
	idColumn     string
	objectColumn string
}

func registerTableFlags(cmd *cobra.Command, f *tableFlags) {
	cmd.Flags().StringVar(&f.table, "table", "",
		"Document table (default: $DOCLOAD_TABLE, docload.yaml, or \"documents\")")
	cmd.Flags().StringVar(&f.schema, "schema", "",
		"Schema of the document table (default: the connection's search_path)")
	cmd.Flags().StringVar(&f.idColumn, "id-column", "",
		"Column receiving the document key (default: doc_id)")
	cmd.Flags().StringVar(&f.objectColumn, "object-column", "",
		"Column receiving the JSON document (default: object)")
}

// resolveTable applies flag > environment > docload.yaml > default.
func resolveTable(flags tableFlags, env *commandEnv, projectCfg *config.ProjectConfig) docload.TableConfig {
	t := docload.DefaultTableConfig()

	var fromFile config.TableConfig
	if projectCfg != nil {
		fromFile = projectCfg.Table
	}

	t.Schema = firstNonEmpty(flags.schema, fromFile.Schema)
	t.Name = firstNonEmpty(flags.table, env.Table, fromFile.Name, t.Name)
	t.IDColumn = firstNonEmpty(flags.idColumn, fromFile.IDColumn, t.IDColumn)
	t.ObjectColumn = firstNonEmpty(flags.objectColumn, fromFile.ObjectColumn, t.ObjectColumn)
	return t
}

// resolveLocation loads the zone used for created values without an offset.
// Empty everywhere means UTC.
func resolveLocation(flagTZ string, env *commandEnv, projectCfg *config.ProjectConfig) (*time.Location, error) {
	name := flagTZ
	if name == "" {
		name = env.Timezone
	}
	if name == "" && projectCfg != nil {
		name = projectCfg.Timezone
	}
	if name == "" {
		return time.UTC, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, docload.ErrInvalidConfig)
	}
	return loc, nil
}

// resolveEffectiveTimeout returns the effective timeout, preferring docload.yaml if flag wasn't set.
func resolveEffectiveTimeout(
	cmd *cobra.Command,
	projectCfg *config.ProjectConfig,
	flagTimeout time.Duration,
) (time.Duration, error) {
	if cmd.Flags().Changed("timeout") {
		return flagTimeout, nil
	}
	timeout, err := projectCfg.TimeoutDuration()
	if err != nil {
		return 0, fmt.Errorf("docload.yaml: %v: %w", err, docload.ErrInvalidConfig)
	}
	if timeout == 0 {
		return flagTimeout, nil
	}
	return timeout, nil
}

// loadProjectConfig loads .env and the project configuration.
// Returns nil config if docload.yaml does not exist (not an error).
// An explicit --config path must exist.
func loadProjectConfig(path string) (*config.ProjectConfig, error) {
	_ = godotenv.Load()

	if path != "" {
		projectCfg, err := config.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %v: %w", path, err, docload.ErrInvalidConfig)
		}
		return projectCfg, nil
	}

	projectCfg, err := config.Load(".")
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load %s: %v: %w", config.ConfigFileName, err, docload.ErrInvalidConfig)
	}
	return projectCfg, nil
}

// signalContext returns a context cancelled on the first interrupt signal
// (Ctrl+C, SIGTERM).
func signalContext(what string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			fmt.Fprintf(os.Stderr, "\n[INTERRUPT] Received interrupt signal, cancelling %s...\n", what)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
