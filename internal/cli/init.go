package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/workstreamhq/workstream/internal/store"
)

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create or migrate the database",
		Long: `Create the SQLite database at --db (or migrate an existing one to the
current schema). Opening is idempotent; running init twice is safe.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(rootOpts.Database)
			if err != nil {
				return err
			}
			defer st.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "database ready at %s\n", rootOpts.Database)
			return nil
		},
	}
}
