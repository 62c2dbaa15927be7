package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/crudkit/internal/models"
	"github.com/example/crudkit/internal/ports/primary"
)

// ScaffoldAdapter is a thin adapter that translates CLI operations to
// ScaffoldService calls and prints human-readable reports.
type ScaffoldAdapter struct {
	service primary.ScaffoldService
	out     io.Writer
}

// NewScaffoldAdapter creates a new ScaffoldAdapter with the given service.
func NewScaffoldAdapter(service primary.ScaffoldService, out io.Writer) *ScaffoldAdapter {
	return &ScaffoldAdapter{
		service: service,
		out:     out,
	}
}

// Generate runs a scaffold and prints one line per artifact. A response is
// returned even when some artifacts failed; the caller decides the exit code.
func (a *ScaffoldAdapter) Generate(ctx context.Context, req primary.ScaffoldRequest) (*primary.ScaffoldResponse, error) {
	resp, err := a.service.Scaffold(ctx, req)
	if err != nil {
		return nil, err
	}

	if resp.DryRun {
		fmt.Fprintf(a.out, "Dry run: %s (%s) in %s\n", resp.Model, resp.Framework, resp.ProjectDir)
	} else {
		fmt.Fprintf(a.out, "Scaffolded %s (%s) in %s\n", resp.Model, resp.Framework, resp.ProjectDir)
	}
	if resp.ProjectCreated {
		fmt.Fprintln(a.out, "  project initialised")
	}
	fmt.Fprintln(a.out)

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	for _, f := range resp.Files {
		fmt.Fprintf(w, "  %s\t%s\t%s\n", statusLabel(f.Status), f.Role, f.Path)
		if f.Error != "" {
			fmt.Fprintf(w, "  \t\t%s\n", color.New(color.FgRed).Sprint(f.Error))
		}
	}
	w.Flush()
	fmt.Fprintln(a.out)

	failed := resp.Failed()
	switch {
	case len(failed) > 0:
		fmt.Fprintf(a.out, "%s %d of %d artifacts not written\n",
			color.New(color.FgRed).Sprint("✗"), len(failed), len(resp.Files))
	case resp.DryRun:
		fmt.Fprintf(a.out, "%d artifacts planned, nothing written\n", len(resp.Files))
	default:
		fmt.Fprintf(a.out, "%s %d written, %d unchanged\n",
			color.New(color.FgGreen).Sprint("✓"), resp.Written(), len(resp.Files)-resp.Written())
	}
	if resp.RouteInserted {
		fmt.Fprintf(a.out, "  route added (%d total)\n", resp.RouteCount)
	}
	if resp.RunID != "" {
		fmt.Fprintf(a.out, "  run: %s\n", resp.RunID)
	}

	return resp, nil
}

// DryRunSources prints the planned component sources of a dry-run response.
func (a *ScaffoldAdapter) DryRunSources(resp *primary.ScaffoldResponse) {
	for _, f := range resp.Files {
		if f.Content == "" {
			continue
		}
		fmt.Fprintf(a.out, "\n%s\n", color.New(color.FgCyan).Sprintf("--- %s", f.Path))
		fmt.Fprint(a.out, f.Content)
	}
}

// Schema prints the attribute schema a scaffold of the model would use.
func (a *ScaffoldAdapter) Schema(ctx context.Context, req primary.SchemaRequest) (models.AttributeSchema, error) {
	schema, err := a.service.DescribeSchema(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve schema: %w", err)
	}

	fmt.Fprintf(a.out, "Model: %s\n\n", req.Model)
	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tINPUT")
	fmt.Fprintln(w, "----\t----\t-----")
	for _, attr := range schema {
		fmt.Fprintf(w, "%s\t%s\t%s\n", attr.Name, attr.Type, attr.Type.InputKind())
	}
	w.Flush()

	return schema, nil
}

// Routes lists a project's route table.
func (a *ScaffoldAdapter) Routes(ctx context.Context, project primary.ProjectRef) (models.RouteTable, error) {
	table, err := a.service.GetRoutes(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("failed to load routes: %w", err)
	}

	if len(table) == 0 {
		fmt.Fprintln(a.out, "No routes registered.")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Scaffold your first model:")
		fmt.Fprintln(a.out, "  crudkit generate product")
		return table, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "PATH\tNAME\tCOMPONENT\tCHILDREN")
	fmt.Fprintln(w, "----\t----\t---------\t--------")
	for _, node := range table {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", node.Path, node.Name, node.Component, len(node.Children))
	}
	w.Flush()

	return table, nil
}

// Sync regenerates the router source and prints the outcome.
func (a *ScaffoldAdapter) Sync(ctx context.Context, project primary.ProjectRef) (*primary.FileOutcome, error) {
	outcome, err := a.service.SyncRoutes(ctx, project)
	if err != nil {
		return outcome, err
	}
	fmt.Fprintf(a.out, "%s %s\n", statusLabel(outcome.Status), outcome.Path)
	return outcome, nil
}

// History lists recorded runs, newest first.
func (a *ScaffoldAdapter) History(ctx context.Context, filters primary.RunFilters) ([]*primary.Run, error) {
	runs, err := a.service.ListRuns(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(a.out, "No runs recorded.")
		return runs, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tFRAMEWORK\tSTATUS\tCREATED\tPROJECT")
	fmt.Fprintln(w, "--\t-----\t---------\t------\t-------\t-------")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			run.ID,
			run.Model,
			run.Framework,
			runStatusLabel(run.Status),
			run.CreatedAt,
			run.ProjectDir,
		)
	}
	w.Flush()

	return runs, nil
}

func statusLabel(status string) string {
	switch status {
	case primary.StatusCreated:
		return color.New(color.FgGreen).Sprint("CREATE   ")
	case primary.StatusUpdated:
		return color.New(color.FgYellow).Sprint("UPDATE   ")
	case primary.StatusUnchanged:
		return color.New(color.FgBlue).Sprint("UNCHANGED")
	case primary.StatusPlanned:
		return color.New(color.FgCyan).Sprint("PLAN     ")
	case primary.StatusSkipped:
		return color.New(color.FgYellow).Sprint("SKIPPED  ")
	default:
		return color.New(color.FgRed).Sprint("FAILED   ")
	}
}

func runStatusLabel(status string) string {
	switch status {
	case models.RunStatusSucceeded:
		return color.New(color.FgGreen).Sprint(status)
	case models.RunStatusPartial:
		return color.New(color.FgYellow).Sprint(status)
	default:
		return color.New(color.FgRed).Sprint(status)
	}
}
