package models

// RouteNode is one entry of a project's route table. Top-level nodes are one
// per scaffolded model; children address the list/create/update/delete views.
type RouteNode struct {
	Path      string      `json:"path"`
	Name      string      `json:"name"`
	Component string      `json:"component"`
	Children  []RouteNode `json:"children,omitempty"`
}

// RouteTable is the ordered list of top-level route nodes.
type RouteTable []RouteNode

// Paths returns the top-level paths in table order.
func (t RouteTable) Paths() []string {
	paths := make([]string, len(t))
	for i, n := range t {
		paths[i] = n.Path
	}
	return paths
}
