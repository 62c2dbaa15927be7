package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/crudkit/internal/config"
	"github.com/example/crudkit/internal/errs"
	"github.com/example/crudkit/internal/logging"
	"github.com/example/crudkit/internal/wire"
)

// Exit codes returned by crudkit.
const (
	ExitOK            = 0
	ExitFailure       = 1 // runtime failure or some artifacts not written
	ExitConfiguration = 2 // bad flags, names or config; nothing was written
)

// errPartial is returned by generate when some artifacts were not written.
var errPartial = errors.New("some artifacts were not written")

// AddGlobalFlags registers the persistent flags shared by every command.
func AddGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().String("config", "", "Path to config file (default ./"+config.FileName+")")
	root.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error, disabled")
	root.PersistentFlags().String("log-format", "", "Log format: console or json")
}

// Setup loads the configuration, applies flag overrides and configures the
// service container. It is the root command's PersistentPreRunE.
func Setup(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	if format, _ := cmd.Flags().GetString("log-format"); format != "" {
		cfg.Log.Format = format
	}

	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		return errs.Wrap(errs.ErrKindConfiguration, "invalid --log-level", err)
	}
	if !logging.ValidFormat(cfg.Log.Format) {
		return errs.New(errs.ErrKindConfiguration, fmt.Sprintf("invalid --log-format %q", cfg.Log.Format))
	}

	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cmd.ErrOrStderr()})
	wire.Configure(cfg, logger)
	return nil
}

// Teardown closes resources opened while the command ran.
func Teardown(cmd *cobra.Command, args []string) error {
	return wire.Close()
}

// ExitCode maps a command error onto a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errs.IsConfiguration(err):
		return ExitConfiguration
	default:
		return ExitFailure
	}
}

// projectFlags are the flags addressing one generated project.
type projectFlags struct {
	framework   string
	projectPath string
	viewName    string
}

func (p *projectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&p.framework, "framework", "f", "", "Framework: vue, react or angular (default from config)")
	cmd.Flags().StringVarP(&p.projectPath, "project-path", "p", "", "Directory containing the project (default from config, then cwd)")
	cmd.Flags().StringVar(&p.viewName, "view-name", "", "Project directory name (default from config)")
}

// resolve fills unset flags from the configuration. The project path falls
// back to the working directory.
func (p projectFlags) resolve() (projectFlags, error) {
	cfg := wire.Config()
	if p.framework == "" {
		p.framework = cfg.Framework
	}
	if p.viewName == "" {
		p.viewName = cfg.ViewName
	}
	if p.projectPath == "" {
		p.projectPath = cfg.ProjectPath
	}
	if p.projectPath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return p, fmt.Errorf("failed to get working directory: %w", err)
		}
		p.projectPath = cwd
	}
	return p, nil
}
