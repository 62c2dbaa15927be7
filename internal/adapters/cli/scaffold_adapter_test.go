package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/example/crudkit/internal/models"
	"github.com/example/crudkit/internal/ports/primary"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// mockScaffoldService implements primary.ScaffoldService for testing
type mockScaffoldService struct {
	scaffoldFn       func(ctx context.Context, req primary.ScaffoldRequest) (*primary.ScaffoldResponse, error)
	describeSchemaFn func(ctx context.Context, req primary.SchemaRequest) (models.AttributeSchema, error)
	getRoutesFn      func(ctx context.Context, project primary.ProjectRef) (models.RouteTable, error)
	syncRoutesFn     func(ctx context.Context, project primary.ProjectRef) (*primary.FileOutcome, error)
	listRunsFn       func(ctx context.Context, filters primary.RunFilters) ([]*primary.Run, error)

	lastRequest primary.ScaffoldRequest
	lastFilters primary.RunFilters
}

func (m *mockScaffoldService) Scaffold(ctx context.Context, req primary.ScaffoldRequest) (*primary.ScaffoldResponse, error) {
	m.lastRequest = req
	if m.scaffoldFn != nil {
		return m.scaffoldFn(ctx, req)
	}
	return &primary.ScaffoldResponse{
		RunID:         "run-1",
		Model:         req.Model,
		Framework:     req.Framework,
		ProjectDir:    "/work/shop",
		RouteInserted: true,
		RouteCount:    1,
		Files: []primary.FileOutcome{
			{Path: "/work/shop/src/components/product/ProductList.vue", Role: "List", Status: primary.StatusCreated},
			{Path: "/work/shop/src/router/index.js", Role: "router", Status: primary.StatusUnchanged},
		},
	}, nil
}

func (m *mockScaffoldService) DescribeSchema(ctx context.Context, req primary.SchemaRequest) (models.AttributeSchema, error) {
	if m.describeSchemaFn != nil {
		return m.describeSchemaFn(ctx, req)
	}
	return models.AttributeSchema{
		{Name: "title", Type: models.TypeString},
		{Name: "price", Type: models.TypeFloat},
	}, nil
}

func (m *mockScaffoldService) GetRoutes(ctx context.Context, project primary.ProjectRef) (models.RouteTable, error) {
	if m.getRoutesFn != nil {
		return m.getRoutesFn(ctx, project)
	}
	return nil, nil
}

func (m *mockScaffoldService) SyncRoutes(ctx context.Context, project primary.ProjectRef) (*primary.FileOutcome, error) {
	if m.syncRoutesFn != nil {
		return m.syncRoutesFn(ctx, project)
	}
	return &primary.FileOutcome{Path: "/work/shop/src/router/index.js", Role: "router", Status: primary.StatusUpdated}, nil
}

func (m *mockScaffoldService) ListRuns(ctx context.Context, filters primary.RunFilters) ([]*primary.Run, error) {
	m.lastFilters = filters
	if m.listRunsFn != nil {
		return m.listRunsFn(ctx, filters)
	}
	return nil, nil
}

func TestScaffoldAdapter_Generate(t *testing.T) {
	service := &mockScaffoldService{}
	var out bytes.Buffer
	adapter := NewScaffoldAdapter(service, &out)

	req := primary.ScaffoldRequest{Model: "product", Framework: "vue", ProjectPath: "/work", ViewName: "shop"}
	resp, err := adapter.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.RunID != "run-1" {
		t.Errorf("RunID = %q, want %q", resp.RunID, "run-1")
	}
	if service.lastRequest != req {
		t.Errorf("request = %+v, want %+v", service.lastRequest, req)
	}

	output := out.String()
	for _, want := range []string{
		"Scaffolded product (vue) in /work/shop",
		"CREATE",
		"ProductList.vue",
		"UNCHANGED",
		"✓ 1 written, 1 unchanged",
		"route added (1 total)",
		"run: run-1",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestScaffoldAdapter_Generate_PartialFailure(t *testing.T) {
	service := &mockScaffoldService{
		scaffoldFn: func(ctx context.Context, req primary.ScaffoldRequest) (*primary.ScaffoldResponse, error) {
			return &primary.ScaffoldResponse{
				Model:      "product",
				Framework:  "vue",
				ProjectDir: "/work/shop",
				Files: []primary.FileOutcome{
					{Path: "/work/shop/src/components/product/ProductList.vue", Role: "List", Status: primary.StatusCreated},
					{Path: "/work/shop/src/router/routes.json", Role: "route table", Status: primary.StatusFailed, Error: "disk full"},
					{Path: "/work/shop/src/router/index.js", Role: "router", Status: primary.StatusSkipped},
				},
			}, nil
		},
	}
	var out bytes.Buffer
	adapter := NewScaffoldAdapter(service, &out)

	resp, err := adapter.Generate(context.Background(), primary.ScaffoldRequest{Model: "product"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(resp.Failed()); got != 2 {
		t.Errorf("Failed() = %d, want 2", got)
	}

	output := out.String()
	for _, want := range []string{"FAILED", "disk full", "SKIPPED", "✗ 2 of 3 artifacts not written"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestScaffoldAdapter_Generate_DryRun(t *testing.T) {
	service := &mockScaffoldService{
		scaffoldFn: func(ctx context.Context, req primary.ScaffoldRequest) (*primary.ScaffoldResponse, error) {
			return &primary.ScaffoldResponse{
				Model:      "product",
				Framework:  "react",
				ProjectDir: "/work/shop",
				DryRun:     true,
				Files: []primary.FileOutcome{
					{Path: "/work/shop/src/components/product/ProductList.jsx", Role: "List", Status: primary.StatusPlanned, Content: "export default ProductList;\n"},
				},
			}, nil
		},
	}
	var out bytes.Buffer
	adapter := NewScaffoldAdapter(service, &out)

	resp, err := adapter.Generate(context.Background(), primary.ScaffoldRequest{Model: "product", DryRun: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	adapter.DryRunSources(resp)

	output := out.String()
	for _, want := range []string{
		"Dry run: product (react)",
		"PLAN",
		"1 artifacts planned, nothing written",
		"--- /work/shop/src/components/product/ProductList.jsx",
		"export default ProductList;",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestScaffoldAdapter_Generate_ServiceError(t *testing.T) {
	service := &mockScaffoldService{
		scaffoldFn: func(ctx context.Context, req primary.ScaffoldRequest) (*primary.ScaffoldResponse, error) {
			return nil, errors.New("unsupported framework")
		},
	}
	var out bytes.Buffer
	adapter := NewScaffoldAdapter(service, &out)

	_, err := adapter.Generate(context.Background(), primary.ScaffoldRequest{Model: "product"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if out.Len() != 0 {
		t.Errorf("expected no output on error, got %q", out.String())
	}
}

func TestScaffoldAdapter_Schema(t *testing.T) {
	service := &mockScaffoldService{}
	var out bytes.Buffer
	adapter := NewScaffoldAdapter(service, &out)

	schema, err := adapter.Schema(context.Background(), primary.SchemaRequest{Model: "product"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(schema) != 2 {
		t.Errorf("len(schema) = %d, want 2", len(schema))
	}

	output := out.String()
	for _, want := range []string{"Model: product", "NAME", "title", "string", "price", "float"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestScaffoldAdapter_Routes(t *testing.T) {
	tests := []struct {
		name   string
		table  models.RouteTable
		expect []string
	}{
		{
			name:   "empty table",
			expect: []string{"No routes registered.", "crudkit generate product"},
		},
		{
			name: "two routes",
			table: models.RouteTable{
				{Path: "/product", Name: "product", Component: "ProductMain", Children: make([]models.RouteNode, 4)},
				{Path: "/invoice", Name: "invoice", Component: "InvoiceMain"},
			},
			expect: []string{"PATH", "/product", "ProductMain", "4", "/invoice", "InvoiceMain"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &mockScaffoldService{
				getRoutesFn: func(ctx context.Context, project primary.ProjectRef) (models.RouteTable, error) {
					return tt.table, nil
				},
			}
			var out bytes.Buffer
			adapter := NewScaffoldAdapter(service, &out)

			table, err := adapter.Routes(context.Background(), primary.ProjectRef{Framework: "vue", ProjectPath: "/work", ViewName: "shop"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(table) != len(tt.table) {
				t.Errorf("len(table) = %d, want %d", len(table), len(tt.table))
			}
			for _, want := range tt.expect {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
		})
	}
}

func TestScaffoldAdapter_Sync(t *testing.T) {
	service := &mockScaffoldService{}
	var out bytes.Buffer
	adapter := NewScaffoldAdapter(service, &out)

	outcome, err := adapter.Sync(context.Background(), primary.ProjectRef{Framework: "vue"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != primary.StatusUpdated {
		t.Errorf("Status = %q, want %q", outcome.Status, primary.StatusUpdated)
	}
	if !strings.Contains(out.String(), "UPDATE") || !strings.Contains(out.String(), "index.js") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestScaffoldAdapter_History(t *testing.T) {
	service := &mockScaffoldService{
		listRunsFn: func(ctx context.Context, filters primary.RunFilters) ([]*primary.Run, error) {
			return []*primary.Run{
				{ID: "run-2", Model: "invoice", Framework: "angular", Status: models.RunStatusPartial, CreatedAt: "2026-01-02T03:04:05Z", ProjectDir: "/work/shop"},
				{ID: "run-1", Model: "product", Framework: "vue", Status: models.RunStatusSucceeded, CreatedAt: "2026-01-01T03:04:05Z", ProjectDir: "/work/shop"},
			}, nil
		},
	}
	var out bytes.Buffer
	adapter := NewScaffoldAdapter(service, &out)

	runs, err := adapter.History(context.Background(), primary.RunFilters{Limit: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("len(runs) = %d, want 2", len(runs))
	}
	if service.lastFilters.Limit != 5 {
		t.Errorf("Limit = %d, want 5", service.lastFilters.Limit)
	}

	output := out.String()
	if strings.Index(output, "run-2") > strings.Index(output, "run-1") {
		t.Errorf("runs not listed newest first:\n%s", output)
	}
	for _, want := range []string{"partial", "succeeded", "angular"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestScaffoldAdapter_History_Empty(t *testing.T) {
	var out bytes.Buffer
	adapter := NewScaffoldAdapter(&mockScaffoldService{}, &out)

	if _, err := adapter.History(context.Background(), primary.RunFilters{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "No runs recorded.") {
		t.Errorf("unexpected output: %q", out.String())
	}
}
