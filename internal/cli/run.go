package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/workstreamhq/workstream/internal/harness"
	"github.com/workstreamhq/workstream/internal/service"
	"github.com/workstreamhq/workstream/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Snapshot bool
}

// NewRunCommand creates the run command, which executes a scenario YAML
// file against the database.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a scenario file",
		Long: `Run a declarative scenario against the database: a sequence of
mutations with saved-id references, followed by final-state assertions.

Example:
  workstream run --db ./demo.db scenarios/onboarding.yaml --snapshot`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(cmd, opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.Snapshot, "snapshot", false, "print the final state snapshot")
	return cmd
}

func runScenario(cmd *cobra.Command, opts *RunOptions, path string) error {
	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return err
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	svc, err := service.New(st, service.WithLogger(newLogger(opts.RootOptions, cmd.ErrOrStderr())))
	if err != nil {
		return err
	}

	runner := harness.NewRunner(svc, st)
	if err := runner.Run(cmd.Context(), scenario); err != nil {
		return fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "scenario %s: %d steps, %d assertions ok\n",
		scenario.Name, len(scenario.Steps), len(scenario.Assertions))

	if opts.Snapshot {
		snapshot, err := runner.Snapshot(cmd.Context())
		if err != nil {
			return err
		}
		cmd.OutOrStdout().Write(snapshot)
	}
	return nil
}
