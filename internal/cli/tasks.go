package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/workstreamhq/workstream/internal/entity"
	"github.com/workstreamhq/workstream/internal/service"
	"github.com/workstreamhq/workstream/internal/store"
)

// TasksOptions holds flags for the tasks command.
type TasksOptions struct {
	*RootOptions
	As       string
	Assignee string
	Search   string
	Priority []string
}

// NewTasksCommand creates the tasks command.
func NewTasksCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TasksOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "tasks <project-id>",
		Short: "List a project's tasks",
		Long: `List the tasks of a project, optionally filtered by assignee,
priority or a search term over name and description.

Example:
  workstream tasks --db ./demo.db --as demo-0001 demo-0004 --priority high`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listTasks(cmd, opts, entity.ID(args[0]))
		},
	}

	cmd.Flags().StringVar(&opts.As, "as", "", "acting user id")
	cmd.Flags().StringVar(&opts.Assignee, "assignee", "", "filter by assignee user id")
	cmd.Flags().StringVar(&opts.Search, "search", "", "search term over name and description")
	cmd.Flags().StringSliceVar(&opts.Priority, "priority", nil, "filter by priority (repeatable)")

	return cmd
}

func listTasks(cmd *cobra.Command, opts *TasksOptions, projectID entity.ID) error {
	actor, err := resolveActor(opts.RootOptions, opts.As)
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

	filter := store.TaskFilter{
		ProjectID:  projectID,
		AssigneeID: entity.ID(opts.Assignee),
		SearchTerm: opts.Search,
	}
	for _, p := range opts.Priority {
		filter.Priority = append(filter.Priority, entity.Priority(p))
	}

	ctx := service.WithPrincipal(cmd.Context(), actor)
	tasks, err := svc.SearchTasks(ctx, filter)
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ALIAS\tNAME\tSTATUS\tPRIORITY\tASSIGNEES")
	for _, task := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			task.AliasID, task.Name, task.Status, task.Priority, len(task.UserIDs))
	}
	return w.Flush()
}
