package scaffold

import (
	"path/filepath"
	"testing"

	"github.com/example/crudkit/internal/core/effects"
)

func TestGenerateScaffoldPlan_NewProject(t *testing.T) {
	input := ScaffoldPlanInput{
		ProjectPath: "/work",
		ViewName:    "shop",
		Bootstrap: []effects.CommandEffect{
			{Name: "vue", Args: []string{"create", "shop", "--default"}},
			{Dir: "shop", Name: "npm", Args: []string{"install"}},
		},
		Files: []PlannedFile{
			{Path: "src/components/product/ProductList.vue", Content: "<template/>", Role: "component", Artifact: "List"},
		},
	}

	plan := GenerateScaffoldPlan(input)

	if plan.ProjectDir != filepath.Join("/work", "shop") {
		t.Errorf("ProjectDir = %q", plan.ProjectDir)
	}
	if len(plan.InitOps) != 2 {
		t.Fatalf("InitOps count = %d, want 2", len(plan.InitOps))
	}
	if plan.InitOps[0].Dir != "/work" {
		t.Errorf("InitOps[0].Dir = %q, want /work", plan.InitOps[0].Dir)
	}
	if plan.InitOps[1].Dir != filepath.Join("/work", "shop") {
		t.Errorf("InitOps[1].Dir = %q", plan.InitOps[1].Dir)
	}

	if len(plan.FileOps) != 1 {
		t.Fatalf("FileOps count = %d, want 1", len(plan.FileOps))
	}
	op := plan.FileOps[0]
	wantPath := filepath.Join("/work", "shop", "src", "components", "product", "ProductList.vue")
	if op.Path != wantPath {
		t.Errorf("FileOps[0].Path = %q, want %q", op.Path, wantPath)
	}
	if op.Operation != "write" {
		t.Errorf("FileOps[0].Operation = %q, want write", op.Operation)
	}
	if string(op.Content) != "<template/>" {
		t.Errorf("FileOps[0].Content = %q", op.Content)
	}

	if got := len(plan.Effects()); got != 3 {
		t.Errorf("Effects() count = %d, want 3", got)
	}
}

func TestGenerateScaffoldPlan_ExistingProjectSkipsBootstrap(t *testing.T) {
	plan := GenerateScaffoldPlan(ScaffoldPlanInput{
		ProjectPath:   "/work",
		ViewName:      "shop",
		ProjectExists: true,
		Bootstrap:     []effects.CommandEffect{{Name: "npx", Args: []string{"create-react-app", "shop"}}},
	})

	if len(plan.InitOps) != 0 {
		t.Errorf("InitOps count = %d, want 0", len(plan.InitOps))
	}
}
