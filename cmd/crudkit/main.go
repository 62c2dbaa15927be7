package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/crudkit/internal/cli"
	"github.com/example/crudkit/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "crudkit",
		Short:   "crudkit - CRUD UI scaffolding for vue, react and angular",
		Version: version.String(),
		Long: `crudkit generates List, Create, Update, Delete and Main components for a
data model and keeps the project's route table and router source in sync.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  cli.Setup,
		PersistentPostRunE: cli.Teardown,
	}
	cli.AddGlobalFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(cli.GenerateCmd())
	rootCmd.AddCommand(cli.RoutesCmd())
	rootCmd.AddCommand(cli.SchemaCmd())
	rootCmd.AddCommand(cli.HistoryCmd())

	// Server and setup
	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.ConfigCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.ExitCode(err))
}
