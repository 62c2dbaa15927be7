package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/crudkit/internal/ports/primary"
	"github.com/example/crudkit/internal/wire"
)

// GenerateCmd returns the generate command
func GenerateCmd() *cobra.Command {
	var project projectFlags
	var fields string
	var dryRun, skipInit bool

	cmd := &cobra.Command{
		Use:     "generate [model]",
		Aliases: []string{"gen"},
		Short:   "Generate CRUD components and routes for a model",
		Long: `Generate List, Create, Update, Delete and Main components for a model,
register its route in the project's route table and regenerate the router.

The project directory is <project-path>/<view-name>. When it does not exist
the framework's CLI (vue, npx create-react-app, npx @angular/cli) creates it
first, unless --skip-init is given.

Attributes come from --fields, then the configured schema source, then the
built-in registry (product, user, cart).

Field types: string, integer, float, boolean, date, datetime, time, email,
password, url, long-text

Examples:
  crudkit generate product
  crudkit generate invoice --fields "number:string,total:float,paid:boolean"
  crudkit generate user -f react -p ~/src --view-name shop
  crudkit generate product --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := project.resolve()
			if err != nil {
				return err
			}

			adapter, err := wire.ScaffoldAdapterWithOutput(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			resp, err := adapter.Generate(cmd.Context(), primary.ScaffoldRequest{
				Model:       args[0],
				Framework:   p.framework,
				ProjectPath: p.projectPath,
				ViewName:    p.viewName,
				Fields:      fields,
				DryRun:      dryRun,
				SkipInit:    skipInit,
			})
			if err != nil {
				return err
			}

			if dryRun {
				adapter.DryRunSources(resp)
			}
			if failed := resp.Failed(); len(failed) > 0 {
				return fmt.Errorf("%w: %d of %d", errPartial, len(failed), len(resp.Files))
			}
			return nil
		},
	}

	project.register(cmd)
	cmd.Flags().StringVar(&fields, "fields", "", "Attribute list overriding the schema source (name:type,...)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print generated sources without writing anything")
	cmd.Flags().BoolVar(&skipInit, "skip-init", false, "Do not run the framework CLI when the project is missing")

	return cmd
}
