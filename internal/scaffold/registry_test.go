package scaffold

import (
	"context"
	"errors"
	"testing"

	"github.com/example/crudkit/internal/models"
)

func TestBuiltinSchemas(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		model string
		want  string
	}{
		{"product", "name:string,price:float,description:long-text,stock:integer"},
		{"Product", "name:string,price:float,description:long-text,stock:integer"},
		{"user", "username:string,email:email,password:password"},
		{"cart", "user_id:integer,product_id:integer,quantity:integer"},
		{"invoice", ""},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			schema, err := BuiltinSchemas{}.Schema(ctx, tt.model)
			if err != nil {
				t.Fatalf("Schema() error = %v", err)
			}
			if schema == nil {
				t.Fatal("Schema() returned nil, want empty schema")
			}
			if got := schema.String(); got != tt.want {
				t.Errorf("Schema(%q) = %q, want %q", tt.model, got, tt.want)
			}
		})
	}
}

func TestBuiltinSchemasReturnsCopy(t *testing.T) {
	ctx := context.Background()
	first, _ := BuiltinSchemas{}.Schema(ctx, "product")
	first[0].Name = "mutated"

	second, _ := BuiltinSchemas{}.Schema(ctx, "product")
	if second[0].Name != "name" {
		t.Errorf("registry mutated through returned schema: %q", second[0].Name)
	}
}

type fixedSource struct {
	schema models.AttributeSchema
	err    error
}

func (f fixedSource) Schema(context.Context, string) (models.AttributeSchema, error) {
	return f.schema, f.err
}

func TestChainSchemas(t *testing.T) {
	ctx := context.Background()
	custom := models.AttributeSchema{{Name: "title", Type: models.TypeString}}

	chain := ChainSchemas{fixedSource{}, fixedSource{schema: custom}, BuiltinSchemas{}}
	got, err := chain.Schema(ctx, "product")
	if err != nil {
		t.Fatalf("Schema() error = %v", err)
	}
	if got.String() != "title:string" {
		t.Errorf("Schema() = %q, want first non-empty source", got)
	}

	fallback, err := ChainSchemas{fixedSource{}, BuiltinSchemas{}}.Schema(ctx, "user")
	if err != nil {
		t.Fatalf("Schema() error = %v", err)
	}
	if len(fallback) != 3 {
		t.Errorf("len(fallback) = %d, want 3", len(fallback))
	}

	boom := errors.New("connection refused")
	if _, err := (ChainSchemas{fixedSource{err: boom}, BuiltinSchemas{}}).Schema(ctx, "user"); !errors.Is(err, boom) {
		t.Errorf("Schema() error = %v, want %v", err, boom)
	}
}
