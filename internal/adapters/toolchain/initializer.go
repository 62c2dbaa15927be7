// Package toolchain runs the front-end tooling that bootstraps new projects.
package toolchain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/crudkit/internal/core/effects"
	"github.com/example/crudkit/internal/ports/secondary"
)

// CommandResult captures one finished command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Initializer implements secondary.ProjectInitializer with os/exec.
// Commands run sequentially; the first failure stops the sequence.
type Initializer struct {
	logger zerolog.Logger
	output io.Writer // optional tee of command stdout, e.g. for --verbose
}

// NewInitializer creates a new Initializer. output may be nil.
func NewInitializer(logger zerolog.Logger, output io.Writer) *Initializer {
	return &Initializer{logger: logger, output: output}
}

// Run executes cmds in order.
func (i *Initializer) Run(ctx context.Context, cmds []effects.CommandEffect) error {
	for _, c := range cmds {
		if _, err := i.execute(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (i *Initializer) execute(ctx context.Context, c effects.CommandEffect) (*CommandResult, error) {
	if c.Dir != "" {
		if err := os.MkdirAll(c.Dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", c.Dir, err)
		}
	}

	start := time.Now()
	line := strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
	i.logger.Info().Str("dir", c.Dir).Str("command", line).Msg("running")

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	if i.output != nil {
		cmd.Stdout = io.MultiWriter(&stdout, i.output)
	}
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &CommandResult{
		ExitCode: -1,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return result, fmt.Errorf("%s is not installed or not on PATH: %w", c.Name, err)
		}
		return result, fmt.Errorf("%s failed (exit %d): %w%s", line, result.ExitCode, err, tail(result.Stderr))
	}

	i.logger.Debug().Str("command", line).Dur("duration", result.Duration).Msg("finished")
	return result, nil
}

// tail returns the last lines of stderr for error messages.
func tail(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return ": " + strings.Join(lines, "\n")
}

var _ secondary.ProjectInitializer = (*Initializer)(nil)
