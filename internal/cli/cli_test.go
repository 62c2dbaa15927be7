package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/crudkit/internal/errs"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func newTestRoot() *cobra.Command {
	root := &cobra.Command{
		Use:                "crudkit",
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  Setup,
		PersistentPostRunE: Teardown,
	}
	AddGlobalFlags(root)
	root.AddCommand(GenerateCmd())
	root.AddCommand(RoutesCmd())
	root.AddCommand(SchemaCmd())
	root.AddCommand(HistoryCmd())
	root.AddCommand(ServeCmd())
	root.AddCommand(ConfigCmd())
	return root
}

// writeTestConfig writes a config rooted in a temp dir and returns its path
// and the project path it points at.
func writeTestConfig(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	projectPath := filepath.Join(dir, "work")
	cfg := fmt.Sprintf(`framework: vue
project_path: %s
view_name: shop
history:
  enabled: true
  path: %s
log:
  level: disabled
  format: console
`, projectPath, filepath.Join(dir, "history.db"))

	path := filepath.Join(dir, "crudkit.yaml")
	if err := os.WriteFile(path, []byte(cfg), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path, projectPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newTestRoot()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCmdStructure(t *testing.T) {
	root := newTestRoot()

	want := map[string]bool{"generate": false, "routes": false, "schema": false, "history": false, "serve": false, "config": false}
	for _, sub := range root.Commands() {
		name := strings.Fields(sub.Use)[0]
		if _, ok := want[name]; ok {
			want[name] = true
			if sub.Short == "" {
				t.Errorf("%s command should have a Short description", name)
			}
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("%s subcommand not registered", name)
		}
	}
}

func TestGenerate_WritesProjectAndRoutes(t *testing.T) {
	cfgPath, projectPath := writeTestConfig(t)

	out, err := run(t, "--config", cfgPath, "generate", "product", "--skip-init")
	if err != nil {
		t.Fatalf("generate failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Scaffolded product (vue)") {
		t.Errorf("unexpected output:\n%s", out)
	}

	component := filepath.Join(projectPath, "shop", "src", "components", "product", "ProductList.vue")
	if _, err := os.Stat(component); err != nil {
		t.Errorf("expected %s to exist: %v", component, err)
	}

	out, err = run(t, "--config", cfgPath, "routes", "list")
	if err != nil {
		t.Fatalf("routes list failed: %v", err)
	}
	if !strings.Contains(out, "/product") {
		t.Errorf("routes list missing /product:\n%s", out)
	}

	out, err = run(t, "--config", cfgPath, "generate", "product", "--skip-init")
	if err != nil {
		t.Fatalf("second generate failed: %v", err)
	}
	if !strings.Contains(out, "0 written, 7 unchanged") {
		t.Errorf("rerun should leave every file unchanged:\n%s", out)
	}

	out, err = run(t, "--config", cfgPath, "history", "--model", "product")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if got := strings.Count(out, "product"); got < 2 {
		t.Errorf("history should list two product runs, got output:\n%s", out)
	}
}

func TestGenerate_DryRunWritesNothing(t *testing.T) {
	cfgPath, projectPath := writeTestConfig(t)

	out, err := run(t, "--config", cfgPath, "generate", "user", "--framework", "react", "--dry-run")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !strings.Contains(out, "Dry run: user (react)") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "--- ") {
		t.Errorf("dry run should print sources:\n%s", out)
	}
	if _, err := os.Stat(projectPath); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("dry run created %s", projectPath)
	}
}

func TestGenerate_ConfigurationErrors(t *testing.T) {
	cfgPath, _ := writeTestConfig(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unsupported framework", []string{"generate", "product", "--framework", "svelte"}},
		{"invalid model", []string{"generate", "bad model"}},
		{"invalid view", []string{"generate", "product", "--view-name=-shop"}},
		{"bad log level", []string{"--log-level", "loud", "generate", "product"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, append([]string{"--config", cfgPath}, tt.args...)...)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if got := ExitCode(err); got != ExitConfiguration {
				t.Errorf("ExitCode(%v) = %d, want %d", err, got, ExitConfiguration)
			}
		})
	}
}

func TestSchemaShow(t *testing.T) {
	cfgPath, _ := writeTestConfig(t)

	out, err := run(t, "--config", cfgPath, "schema", "show", "user")
	if err != nil {
		t.Fatalf("schema show failed: %v", err)
	}
	for _, want := range []string{"Model: user", "username", "email", "password"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, "--config", cfgPath, "schema", "show", "invoice", "--fields", "number:string,paid:boolean")
	if err != nil {
		t.Fatalf("schema show --fields failed: %v", err)
	}
	if !strings.Contains(out, "paid") || !strings.Contains(out, "boolean") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ".crudkit.yaml")

	out, err := run(t, "config", "init", path)
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(out, "Wrote "+path) {
		t.Errorf("unexpected output: %q", out)
	}

	if _, err := run(t, "config", "init", path); err == nil {
		t.Error("expected error when file exists without --force")
	}
	if _, err := run(t, "config", "init", path, "--force"); err != nil {
		t.Errorf("config init --force failed: %v", err)
	}

	out, err = run(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	for _, want := range []string{"framework: vue", "view_name: hello-world", "case: exact"} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q:\n%s", want, out)
		}
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"configuration", &errs.UnsupportedFrameworkError{Framework: "svelte"}, ExitConfiguration},
		{"wrapped configuration", fmt.Errorf("failed: %w", &errs.InvalidModelNameError{Name: "x y"}), ExitConfiguration},
		{"partial", fmt.Errorf("%w: 1 of 7", errPartial), ExitFailure},
		{"other", errors.New("boom"), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
