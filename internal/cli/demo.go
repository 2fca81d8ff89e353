package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/workstreamhq/workstream/internal/harness"
	"github.com/workstreamhq/workstream/internal/service"
	"github.com/workstreamhq/workstream/internal/store"
	"github.com/workstreamhq/workstream/internal/testutil"
)

// demoScenario is the built-in walkthrough: onboarding, task work, a
// comment thread, and a teardown showing the cascades.
const demoScenario = `
name: demo
description: end-to-end walkthrough of the cascade engine
actor: $amy
steps:
  - op: user.upsert
    as: bootstrap
    args:
      providerId: demo|amy
      email: amy@example.com
      name: Amy
    save: amy
  - op: user.upsert
    as: bootstrap
    args:
      providerId: demo|bob
      email: bob@example.com
      name: Bob
    save: bob
  - op: workspace.create
    args:
      name: Demo Workspace
    save: ws
  - op: task.create
    args:
      projectId: $ws.project
      name: Plan the launch
      userIds: [$amy, $bob]
    save: task
  - op: comment.create
    args:
      taskId: $task
      content: kicking this off before the review
    save: comment
  - op: task.update
    args:
      id: $task
      priority: high
  - op: task.remove
    args:
      id: $task
assertions:
  - type: count
    collection: tasks
    count: 3
  - type: count
    collection: comments
    count: 0
`

// NewDemoCommand creates the demo command.
func NewDemoCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the built-in demo scenario",
		Long: `Run a built-in scenario with deterministic ids against the database:
a user onboards, works a task with an assignee and a comment, then
deletes it, leaving only the seeded onboarding tasks behind. The final
state snapshot is printed.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, err := harness.ParseScenario([]byte(demoScenario))
			if err != nil {
				return err
			}

			st, err := store.Open(rootOpts.Database)
			if err != nil {
				return err
			}
			defer st.Close()

			svc, err := service.New(st,
				service.WithIDGenerator(testutil.NewSeqIDGenerator("demo")),
				service.WithLogger(newLogger(rootOpts, cmd.ErrOrStderr())),
			)
			if err != nil {
				return err
			}

			runner := harness.NewRunner(svc, st)
			if err := runner.Run(cmd.Context(), scenario); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "demo complete; final state:")
			snapshot, err := runner.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			cmd.OutOrStdout().Write(snapshot)
			return nil
		},
	}
}
