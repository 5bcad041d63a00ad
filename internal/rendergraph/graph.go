// Package rendergraph holds the per-scene graph of render nodes that drive
// sky, sun and atmosphere evaluation. The rasterizer walks the graph once per
// frame to collect its hit and miss node lists.
package rendergraph

import "github.com/go-gl/mathgl/mgl32"

// Node is one render stage. Every method is optional in effect: nodes that
// do not contribute to a stage return false or leave the colour untouched.
type Node interface {
	// RenderSetup returns the sun direction (towards the sun) and a day
	// factor in [0,1].
	RenderSetup(hour float32) (sunDir mgl32.Vec3, dayFactor float32, ok bool)

	// RenderAmbientColor returns an rgb ambient colour with strength in w.
	RenderAmbientColor(hour float32) (mgl32.Vec4, bool)

	// RenderMissD3 shades a ray that hit no geometry.
	RenderMissD3(color *mgl32.Vec4, cameraPos, ray mgl32.Vec3, uv mgl32.Vec2, hour float32)

	// RenderHitD3 post-processes a shaded surface colour.
	RenderHitD3(color *mgl32.Vec4, cameraPos, hitPoint, normal mgl32.Vec3, hour float32)
}

// Link connects output branch FromBranch of node From to node To.
type Link struct {
	From       int
	FromBranch int
	To         int
}

// Terminal identifies the two graph roots the rasterizer evaluates.
type Terminal int

const (
	HitTerminal Terminal = iota
	MissTerminal
)

// Graph is a node list with directed links. Terminals maps each terminal to
// the index of its root node.
type Graph struct {
	Nodes     []Node
	Links     []Link
	Terminals map[Terminal]int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{Terminals: make(map[Terminal]int)}
}

// Add appends a node and returns its index.
func (g *Graph) Add(n Node) int {
	g.Nodes = append(g.Nodes, n)
	return len(g.Nodes) - 1
}

// Connect links from's branch to to.
func (g *Graph) Connect(from, branch, to int) {
	g.Links = append(g.Links, Link{From: from, FromBranch: branch, To: to})
}

// SetTerminal marks node as the root for terminal.
func (g *Graph) SetTerminal(t Terminal, node int) {
	if g.Terminals == nil {
		g.Terminals = make(map[Terminal]int)
	}
	g.Terminals[t] = node
}

// CollectNodesFrom returns the indices of the nodes reachable from the
// terminal's root through the given output branch, in depth-first link
// order. The root itself is not included. Each node appears at most once, so
// cycles terminate.
func (g *Graph) CollectNodesFrom(t Terminal, branch int) []int {
	if g == nil {
		return nil
	}
	root, ok := g.Terminals[t]
	if !ok || root < 0 || root >= len(g.Nodes) {
		return nil
	}

	var out []int
	seen := map[int]bool{root: true}
	var walk func(from, branch int)
	walk = func(from, branch int) {
		for _, l := range g.Links {
			if l.From != from || l.FromBranch != branch {
				continue
			}
			if l.To < 0 || l.To >= len(g.Nodes) || seen[l.To] {
				continue
			}
			seen[l.To] = true
			out = append(out, l.To)
			walk(l.To, 0)
		}
	}
	walk(root, branch)
	return out
}

// Resolve maps node indices to nodes, skipping invalid indices.
func (g *Graph) Resolve(indices []int) []Node {
	nodes := make([]Node, 0, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(g.Nodes) && g.Nodes[i] != nil {
			nodes = append(nodes, g.Nodes[i])
		}
	}
	return nodes
}
