package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// OptionalInputPath accepts zero or one input_path argument. Without an
// argument the path comes from DOCLOAD_INPUT or docload.yaml.
func OptionalInputPath(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("accepts at most 1 arg(s), received %d", len(args))
	}
	return nil
}

// RequireDocumentIDs validates that at least one document id argument is provided.
func RequireDocumentIDs(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf(`missing required argument: <uuid>

Usage: %s

Example:
  %s 3fa85f64-5717-4562-b3fc-2c963f66afa6 -d mydb`, cmd.UseLine(), cmd.CommandPath())
	}
	return nil
}

func missingInputPath(cmd *cobra.Command) error {
	return fmt.Errorf(`missing required argument: <input_path>

Usage: %s

Provide the feed via:
  1. Argument:             %s ./feed.ndjson -d mydb
  2. Standard input:       cat feed.ndjson | %s - -d mydb
  3. Environment variable: export DOCLOAD_INPUT=./feed.ndjson
  4. docload.yaml:         input: ./feed.ndjson`,
		cmd.UseLine(), cmd.CommandPath(), cmd.CommandPath())
}
