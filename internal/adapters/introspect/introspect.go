// Package introspect derives attribute schemas from live database tables.
//
// A model resolves to the first existing table among its name, its snake
// case form and the plural of that ("OrderItem" -> OrderItem, order_item,
// order_items). Primary key columns are skipped; everything else maps onto
// a logical attribute type.
package introspect

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/crudkit/internal/models"
	"github.com/example/crudkit/internal/ports/secondary"
	"github.com/example/crudkit/internal/scaffold"
)

// Column is one table column as reported by the database catalog.
type Column struct {
	Name       string
	DataType   string
	PrimaryKey bool
}

// catalog lists the columns of a table, in ordinal order. An unknown table
// yields no columns and no error.
type catalog interface {
	Columns(ctx context.Context, table string) ([]Column, error)
	Close() error
}

// Provider implements secondary.SchemaProvider over a database catalog.
type Provider struct {
	catalog catalog
	dialect string
}

// Schema returns the attributes of the model's table, or the empty schema
// when no candidate table exists.
func (p *Provider) Schema(ctx context.Context, model string) (models.AttributeSchema, error) {
	for _, table := range CandidateTables(model) {
		cols, err := p.catalog.Columns(ctx, table)
		if err != nil {
			return nil, fmt.Errorf("failed to inspect %s table %q: %w", p.dialect, table, err)
		}
		if len(cols) > 0 {
			return BuildSchema(cols)
		}
	}
	return models.AttributeSchema{}, nil
}

// Close releases the database connection.
func (p *Provider) Close() error {
	return p.catalog.Close()
}

// CandidateTables lists the table names tried for model, without duplicates.
func CandidateTables(model string) []string {
	snake := scaffold.ToSnakeCase(model)
	var out []string
	for _, name := range []string{model, snake, scaffold.Pluralize(snake)} {
		if name == "" || contains(out, name) {
			continue
		}
		out = append(out, name)
	}
	return out
}

// BuildSchema converts catalog columns into an attribute schema, skipping
// primary keys.
func BuildSchema(cols []Column) (models.AttributeSchema, error) {
	var attrs []models.Attribute
	for _, c := range cols {
		if c.PrimaryKey {
			continue
		}
		attrs = append(attrs, models.Attribute{Name: c.Name, Type: MapColumnType(c.Name, c.DataType)})
	}
	return models.NewAttributeSchema(attrs...)
}

// MapColumnType maps a SQL data type onto a logical attribute type. For
// character columns the column name refines the type (email, password, url).
func MapColumnType(name, dataType string) models.AttributeType {
	t := strings.ToLower(strings.TrimSpace(dataType))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}

	switch {
	case t == "bool" || t == "boolean" || t == "bit":
		return models.TypeBoolean
	case integerTypes[t]:
		return models.TypeInteger
	case strings.Contains(t, "numeric") || strings.Contains(t, "decimal") ||
		strings.Contains(t, "real") || strings.Contains(t, "float") ||
		strings.Contains(t, "double") || strings.Contains(t, "money"):
		return models.TypeFloat
	case strings.HasPrefix(t, "timestamp") || strings.HasPrefix(t, "datetime") || t == "smalldatetime":
		return models.TypeDateTime
	case t == "date":
		return models.TypeDate
	case strings.HasPrefix(t, "time"):
		return models.TypeTime
	case strings.Contains(t, "text") || strings.Contains(t, "clob") || t == "json" || t == "jsonb" || t == "xml":
		return models.TypeLongText
	}

	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "email"):
		return models.TypeEmail
	case strings.Contains(n, "password"):
		return models.TypePassword
	case n == "url" || strings.HasSuffix(n, "_url") || n == "website":
		return models.TypeURL
	}
	return models.TypeString
}

var integerTypes = map[string]bool{
	"int": true, "integer": true, "smallint": true, "bigint": true,
	"tinyint": true, "mediumint": true, "int2": true, "int4": true, "int8": true,
	"serial": true, "smallserial": true, "bigserial": true,
	"unsigned big int": true,
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

var _ secondary.SchemaProvider = (*Provider)(nil)
