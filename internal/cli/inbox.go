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

// InboxOptions holds flags for the inbox command.
type InboxOptions struct {
	*RootOptions
	As         string
	UnreadOnly bool
}

// NewInboxCommand creates the inbox command.
func NewInboxCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InboxOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "inbox <project-id>",
		Short:         "List a user's notifications in a project",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listInbox(cmd, opts, entity.ID(args[0]))
		},
	}

	cmd.Flags().StringVar(&opts.As, "as", "", "acting user id")
	cmd.Flags().BoolVar(&opts.UnreadOnly, "unread", false, "unread notifications only")

	return cmd
}

func listInbox(cmd *cobra.Command, opts *InboxOptions, projectID entity.ID) error {
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

	ctx := service.WithPrincipal(cmd.Context(), actor)
	items, err := svc.ListInbox(ctx, projectID, opts.UnreadOnly)
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTASK\tACTION\tFEATURE\tREAD")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%v\n",
			item.ID, item.ReferenceID, item.Action, item.Feature, item.IsRead)
	}
	return w.Flush()
}
