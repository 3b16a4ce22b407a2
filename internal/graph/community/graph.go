package community

// Edge is a directed, typed edge between two node ids.
type Edge struct {
	Source string
	Target string
	Type   Relation
}

// Graph is a directed multigraph. Nodes and edges keep insertion order.
// It is not safe for concurrent use.
type Graph struct {
	nodes map[string]Entity
	order []string
	edges []Edge
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]Entity)}
}

// AddNode inserts a node or replaces the stored entity for an existing id.
// A replaced node keeps its original position.
func (g *Graph) AddNode(e Entity) {
	id := e.ID()
	if _, ok := g.nodes[id]; !ok {
		g.order = append(g.order, id)
	}
	g.nodes[id] = e
}

// AddEdge appends a directed edge. Parallel edges are kept.
func (g *Graph) AddEdge(source, target string, rel Relation) {
	g.edges = append(g.edges, Edge{Source: source, Target: target, Type: rel})
}

// Node returns the entity stored under id.
func (g *Graph) Node(id string) (Entity, bool) {
	e, ok := g.nodes[id]
	return e, ok
}

// Nodes returns all entities in insertion order.
func (g *Graph) Nodes() []Entity {
	out := make([]Entity, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge {
	return append([]Edge(nil), g.edges...)
}

// NodeCount returns the number of distinct nodes.
func (g *Graph) NodeCount() int {
	return len(g.order)
}

// EdgeCount returns the number of edges, parallel edges included.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}
