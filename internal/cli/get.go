package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vvka-141/docload/internal/db"
	"github.com/vvka-141/docload/internal/logging"
	"github.com/vvka-141/docload/internal/services"
	"github.com/vvka-141/docload/pkg/docload"
)

var getCmd = &cobra.Command{
	Use:   "get <uuid>...",
	Short: "Print stored documents by id",
	Long: `Get reads documents back from the document table and prints them as
newline-delimited JSON on stdout, in the order the ids are given.

The integer "created" field is rendered back as an RFC 3339 UTC timestamp with
millisecond precision. Ids that are not stored are reported on stderr.

Examples:
  docload get 3fa85f64-5717-4562-b3fc-2c963f66afa6 -d mydb
  docload get {3FA85F64-5717-4562-B3FC-2C963F66AFA6} urn:uuid:... --table events`,
	Args: RequireDocumentIDs,
	RunE: runGet,
}

type getFlagValues struct {
	connectionFlags
	tableFlags
	timeout time.Duration
}

var getFlags getFlagValues

func init() {
	rootCmd.AddCommand(getCmd)

	registerConnectionFlags(getCmd, &getFlags.connectionFlags)
	registerTableFlags(getCmd, &getFlags.tableFlags)

	getCmd.Flags().DurationVar(&getFlags.timeout, "timeout", 0,
		"Abort if the lookup runs longer than this (default: no limit)")
}

// parseDocumentIDs parses every argument as a UUID and drops duplicates,
// keeping the first occurrence.
func parseDocumentIDs(args []string) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{}, len(args))
	ids := make([]uuid.UUID, 0, len(args))
	for _, arg := range args {
		id, err := uuid.Parse(arg)
		if err != nil {
			return nil, fmt.Errorf("%q is not a UUID: %w", arg, docload.ErrInvalidConfig)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func buildFetchConfig(ctx context.Context, cmd *cobra.Command, verbose bool) (docload.FetchConfig, error) {
	projectCfg, err := loadProjectConfig(getConfigFlag(cmd))
	if err != nil {
		return docload.FetchConfig{}, err
	}

	env, err := loadCommandEnv(ctx)
	if err != nil {
		return docload.FetchConfig{}, err
	}

	connConfig, err := resolveConnection(ctx, cmd, getFlags.connectionFlags, projectCfg, verbose)
	if err != nil {
		return docload.FetchConfig{}, err
	}

	timeout, err := resolveEffectiveTimeout(cmd, projectCfg, getFlags.timeout)
	if err != nil {
		return docload.FetchConfig{}, err
	}

	return docload.FetchConfig{
		ConnectionString: db.BuildConnectionString(connConfig),
		Auth:             connConfig.Auth(),
		Table:            resolveTable(getFlags.tableFlags, env, projectCfg),
		ConnectRetries:   connConfig.ConnectRetries,
		Timeout:          timeout,
		Verbose:          verbose,
	}, nil
}

func runGet(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)

	ids, err := parseDocumentIDs(args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext("lookup")
	defer cancel()

	config, err := buildFetchConfig(ctx, cmd, verbose)
	if err != nil {
		return err
	}

	fetcher := services.NewFetchService(db.NewConnector, logging.NewConsoleLogger(verbose))
	docs, err := fetcher.Fetch(ctx, config, ids)
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	return writeDocuments(cmd.OutOrStdout(), docs)
}

func writeDocuments(w io.Writer, docs [][]byte) error {
	for _, d := range docs {
		if _, err := fmt.Fprintf(w, "%s\n", d); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return nil
}
