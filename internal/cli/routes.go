package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/crudkit/internal/adapters/filesystem"
	"github.com/example/crudkit/internal/app"
	"github.com/example/crudkit/internal/config"
	coresc "github.com/example/crudkit/internal/core/scaffold"
	"github.com/example/crudkit/internal/ports/primary"
	"github.com/example/crudkit/internal/wire"
)

// RoutesCmd returns the routes command
func RoutesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Inspect and regenerate a project's routes",
		Long:  `List the route table of a generated project and regenerate its router source.`,
	}

	cmd.AddCommand(routesListCmd())
	cmd.AddCommand(routesSyncCmd())

	return cmd
}

func routesListCmd() *cobra.Command {
	var project projectFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := project.resolve()
			if err != nil {
				return err
			}
			adapter, err := wire.ScaffoldAdapterWithOutput(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			_, err = adapter.Routes(cmd.Context(), p.ref())
			return err
		},
	}

	project.register(cmd)
	return cmd
}

func routesSyncCmd() *cobra.Command {
	var project projectFlags
	var watch bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Regenerate the router source from the route table",
		Long: `Regenerate the framework router source from the project's route table.

With --watch the router is regenerated whenever the route table changes,
e.g. after editing it by hand. Press Ctrl-C to stop.

Examples:
  crudkit routes sync
  crudkit routes sync -f angular --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := project.resolve()
			if err != nil {
				return err
			}
			adapter, err := wire.ScaffoldAdapterWithOutput(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			ref := p.ref()
			if _, err := adapter.Sync(cmd.Context(), ref); err != nil {
				return err
			}
			if !watch {
				return nil
			}

			if wire.Config().Output.Kind == config.OutputMinio {
				return fmt.Errorf("--watch requires filesystem output")
			}

			tablePath := app.RouteTablePath(coresc.ProjectDir(ref.ProjectPath, ref.ViewName))
			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s\n", filepath.Clean(tablePath))

			watcher := filesystem.NewFileWatcher(tablePath, filesystem.DefaultDebounce, wire.Logger())
			return watcher.Run(cmd.Context(), func(ctx context.Context) error {
				_, err := adapter.Sync(ctx, ref)
				return err
			})
		},
	}

	project.register(cmd)
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep running and resync when the route table changes")

	return cmd
}

func (p projectFlags) ref() primary.ProjectRef {
	return primary.ProjectRef{
		Framework:   p.framework,
		ProjectPath: p.projectPath,
		ViewName:    p.viewName,
	}
}
