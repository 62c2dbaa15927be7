// Package routes contains the pure route-table logic: node construction,
// idempotent merge and the canonical JSON encoding.
// This is part of the Functional Core - no I/O, only pure functions.
package routes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/example/crudkit/internal/models"
	"github.com/example/crudkit/internal/scaffold"
)

// CaseMode controls how a model name becomes a route key.
type CaseMode string

const (
	// CaseExact uses the model name as supplied: "Product" -> "/Product".
	CaseExact CaseMode = "exact"
	// CaseLower lowercases the model name before building and matching nodes.
	CaseLower CaseMode = "lower"
)

// ParseCaseMode parses a routes.case setting. Empty means exact.
func ParseCaseMode(s string) (CaseMode, error) {
	switch CaseMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", CaseExact:
		return CaseExact, nil
	case CaseLower:
		return CaseLower, nil
	default:
		return "", fmt.Errorf("invalid route case %q (valid: exact, lower)", s)
	}
}

// Options configures node construction and matching.
type Options struct {
	Case CaseMode
}

// Key returns the route key for a model under these options.
func (o Options) Key(model string) string {
	if o.Case == CaseLower {
		return strings.ToLower(model)
	}
	return model
}

// Path returns the top-level route path for a model: "/<key>".
func (o Options) Path(model string) string {
	return "/" + o.Key(model)
}

// BuildNode constructs the top-level route node for a model with its four
// children in fixed order: list, create, update, delete.
func BuildNode(model string, opts Options) models.RouteNode {
	key := opts.Key(model)
	component := func(kind models.ArtifactKind) string {
		return scaffold.ComponentName(model, string(kind))
	}

	return models.RouteNode{
		Path:      "/" + key,
		Name:      key,
		Component: component(models.ArtifactMain),
		Children: []models.RouteNode{
			{Path: "", Name: key + "List", Component: component(models.ArtifactList)},
			{Path: "create", Name: key + "Create", Component: component(models.ArtifactCreate)},
			{Path: "update/:id", Name: key + "Update", Component: component(models.ArtifactUpdate)},
			{Path: "delete/:id", Name: key + "Delete", Component: component(models.ArtifactDelete)},
		},
	}
}

// Find returns the index of the top-level node whose path exactly equals
// the model's route path, or -1.
func Find(table models.RouteTable, model string, opts Options) int {
	path := opts.Path(model)
	for i, node := range table {
		if node.Path == path {
			return i
		}
	}
	return -1
}

// MergePlanInput contains the pre-loaded table and the model to merge.
type MergePlanInput struct {
	Table   models.RouteTable
	Model   string
	Options Options
}

// MergePlan is the outcome of a merge: the resulting table and whether a
// node was appended.
type MergePlan struct {
	Table    models.RouteTable
	Inserted bool
	Node     models.RouteNode
}

// GenerateMergePlan appends the model's node when no node with its path
// exists. Existing nodes are never reordered or modified, and the input
// table is not mutated.
func GenerateMergePlan(input MergePlanInput) MergePlan {
	out := make(models.RouteTable, len(input.Table), len(input.Table)+1)
	copy(out, input.Table)

	if idx := Find(out, input.Model, input.Options); idx >= 0 {
		return MergePlan{Table: out, Node: out[idx]}
	}

	node := BuildNode(input.Model, input.Options)
	return MergePlan{Table: append(out, node), Inserted: true, Node: node}
}

// Encode renders the canonical serialized form: two-space indentation, keys
// in path/name/component/children order, and a trailing newline.
func Encode(table models.RouteTable) ([]byte, error) {
	if table == nil {
		table = models.RouteTable{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(table); err != nil {
		return nil, fmt.Errorf("failed to encode route table: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a serialized table. Data that is not a JSON array of nodes
// with non-empty paths yields ErrCorruptTable.
func Decode(data []byte) (models.RouteTable, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return models.RouteTable{}, nil
	}

	var table models.RouteTable
	if err := json.Unmarshal(data, &table); err != nil {
		return models.RouteTable{}, fmt.Errorf("%w: %v", ErrCorruptTable, err)
	}
	if table == nil {
		return models.RouteTable{}, fmt.Errorf("%w: not an array", ErrCorruptTable)
	}
	for i, node := range table {
		if node.Path == "" {
			return models.RouteTable{}, fmt.Errorf("%w: node %d has no path", ErrCorruptTable, i)
		}
	}
	return table, nil
}

// ErrCorruptTable is returned by Decode for unusable table data.
var ErrCorruptTable = errors.New("corrupt route table")
