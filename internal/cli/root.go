// Package cli implements the workstream command line interface.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/workstreamhq/workstream/internal/entity"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Database   string
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	Actor      string // default --as identity, settable via config only
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the workstream CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "workstream",
		Short: "Workstream - reactive project tracking",
		Long: `Workstream is a project-management backend whose writes cascade:
task, comment, project and workspace mutations run trigger reactions
that maintain activity logs, inbox notifications and referential
consistency inside one transaction.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.ConfigPath != "" {
				cfg, err := loadConfig(opts.ConfigPath)
				if err != nil {
					return err
				}
				// Explicit flags win over config values.
				flags := cmd.Root().PersistentFlags()
				if cfg.Database != "" && !flags.Changed("db") {
					opts.Database = cfg.Database
				}
				if cfg.Format != "" && !flags.Changed("format") {
					opts.Format = cfg.Format
				}
				opts.Actor = cfg.Actor
			}
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "workstream.db", "path to SQLite database")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewDemoCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewTasksCommand(opts))
	cmd.AddCommand(NewInboxCommand(opts))

	return cmd
}

// resolveActor returns the acting user id: the --as flag when given,
// otherwise the config file's actor.
func resolveActor(opts *RootOptions, as string) (entity.ID, error) {
	if as != "" {
		return entity.ID(as), nil
	}
	if opts.Actor != "" {
		return entity.ID(opts.Actor), nil
	}
	return "", fmt.Errorf("no acting user: pass --as or set actor in the config file")
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// newLogger builds the CLI logger; verbose enables debug lines from the
// trigger runtime.
func newLogger(opts *RootOptions, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
