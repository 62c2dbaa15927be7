package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/crudkit/internal/ports/primary"
	"github.com/example/crudkit/internal/wire"
)

// SchemaCmd returns the schema command
func SchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect model attribute schemas",
	}

	cmd.AddCommand(schemaShowCmd())

	return cmd
}

func schemaShowCmd() *cobra.Command {
	var fields string

	cmd := &cobra.Command{
		Use:   "show [model]",
		Short: "Show the attributes a scaffold of the model would use",
		Long: `Resolve a model's attributes the same way generate does: --fields first,
then the configured schema source, then the built-in registry.

Examples:
  crudkit schema show product
  crudkit schema show invoice --fields "number:string,paid:boolean"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.ScaffoldAdapterWithOutput(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			_, err = adapter.Schema(cmd.Context(), primary.SchemaRequest{Model: args[0], Fields: fields})
			return err
		},
	}

	cmd.Flags().StringVar(&fields, "fields", "", "Attribute list overriding the schema source (name:type,...)")

	return cmd
}
