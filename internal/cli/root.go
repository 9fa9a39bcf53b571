package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "docload",
	Short: "Load newline-delimited JSON documents into PostgreSQL",
	Long: `docload reads a newline-delimited JSON feed and stores every record as a
keyed document in a PostgreSQL table, inside a single transaction.

Each record must carry an "id" (a UUID) and a "created" date/time. The id
becomes the row key; created is rewritten to integer epoch seconds. All other
fields pass through untouched. The whole feed is loaded, or nothing is.

Exit Codes:
  0  - Success (transaction committed)
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Database connection failed
  12 - Input file could not be opened
  13 - Record rejected (malformed JSON, invalid id or invalid created)
  14 - Insert or commit rejected by the database`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	// -h is taken by --host, as in psql.
	rootCmd.PersistentFlags().Bool("help", false, "Help for docload")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
	rootCmd.PersistentFlags().String("config", "",
		"Path to a docload.yaml file (default: ./docload.yaml if present)")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}

func getConfigFlag(cmd *cobra.Command) string {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return ""
	}
	return path
}
