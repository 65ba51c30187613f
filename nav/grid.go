package nav

import (
	"errors"
	"math"

	astar "github.com/beefsack/go-astar"
	"github.com/solarlune/resolv"

	"github.com/automoto/doomerang-bosses/shared/gamemath"
	"github.com/automoto/doomerang-bosses/tags"
)

var (
	ErrNoPath  = errors.New("nav: no path")
	ErrNoGrid  = errors.New("nav: no grid")
	ErrBlocked = errors.New("nav: no walkable cell near point")
)

// Grid is the walkable floor of a level, one Node per XZ cell.
type Grid struct {
	Width, Depth int
	CellSize     float64
	Nodes        [][]*Node // [z][x]

	maxSearchRadius int
}

// Node is one floor cell. Height is the top of whatever stands in the cell,
// zero for bare ground.
type Node struct {
	X, Z     int
	Height   float64
	Walkable bool
}

// Limits gate which steps between cells a path may take.
type Limits struct {
	MaxJump         float64
	MaxFall         float64
	VerticalPenalty float64
}

// AddObstacle puts a box of the given height into space. Solid boxes are
// walls; the rest can be stood on.
func AddObstacle(space *resolv.Space, x, z, w, d, height float64, solid bool) *resolv.Object {
	tag := tags.ResolvObstacle
	if solid {
		tag = tags.ResolvSolid
	}
	obj := resolv.NewObject(x, z, w, d, tag)
	obj.SetShape(resolv.NewRectangle(0, 0, w, d))
	obj.Data = height
	space.Add(obj)
	return obj
}

// NewGrid builds a grid by probing space cell by cell. The space maps world
// X to resolv X and world Z to resolv Y.
func NewGrid(space *resolv.Space, width, depth float64, cellSize float64, maxSearchRadius int) *Grid {
	gridW := int(width / cellSize)
	gridD := int(depth / cellSize)

	g := &Grid{
		Width:           gridW,
		Depth:           gridD,
		CellSize:        cellSize,
		Nodes:           make([][]*Node, gridD),
		maxSearchRadius: maxSearchRadius,
	}

	inset := cellSize * 0.1
	for z := 0; z < gridD; z++ {
		g.Nodes[z] = make([]*Node, gridW)
		for x := 0; x < gridW; x++ {
			n := &Node{X: x, Z: z, Walkable: true}
			g.Nodes[z][x] = n

			probe := resolv.NewObject(float64(x)*cellSize+inset, float64(z)*cellSize+inset,
				cellSize-2*inset, cellSize-2*inset, tags.ResolvProbe)
			space.Add(probe)

			if c := probe.Check(0, 0, tags.ResolvSolid); c != nil && anyOverlap(probe, c.ObjectsByTags(tags.ResolvSolid)) {
				n.Walkable = false
			}
			if c := probe.Check(0, 0, tags.ResolvObstacle); c != nil {
				for _, o := range c.ObjectsByTags(tags.ResolvObstacle) {
					if !overlaps(probe, o) {
						continue
					}
					if h, ok := o.Data.(float64); ok && h > n.Height {
						n.Height = h
					}
				}
			}

			space.Remove(probe)
		}
	}
	return g
}

// resolv reports everything sharing a cell; keep only real overlaps.
func overlaps(a, b *resolv.Object) bool {
	return a.X < b.X+b.W && a.X+a.W > b.X && a.Y < b.Y+b.H && a.Y+a.H > b.Y
}

func anyOverlap(probe *resolv.Object, objs []*resolv.Object) bool {
	for _, o := range objs {
		if overlaps(probe, o) {
			return true
		}
	}
	return false
}

// Cell returns the node under world point p, clamped to the grid.
func (g *Grid) Cell(p gamemath.Vec3) *Node {
	x := clampInt(int(p.X/g.CellSize), 0, g.Width-1)
	z := clampInt(int(p.Z/g.CellSize), 0, g.Depth-1)
	return g.Nodes[z][x]
}

// HeightAt is the floor height under (x, z). Outside the grid it is zero.
func (g *Grid) HeightAt(x, z float64) float64 {
	if x < 0 || z < 0 {
		return 0
	}
	cx, cz := int(x/g.CellSize), int(z/g.CellSize)
	if cx >= g.Width || cz >= g.Depth {
		return 0
	}
	return g.Nodes[cz][cx].Height
}

// CellCenter is the world point at the middle of n, on its floor.
func (g *Grid) CellCenter(n *Node) gamemath.Vec3 {
	return gamemath.Vec3{
		X: float64(n.X)*g.CellSize + g.CellSize/2,
		Y: n.Height,
		Z: float64(n.Z)*g.CellSize + g.CellSize/2,
	}
}

// FindPath returns cell-center waypoints from start to goal, start cell
// excluded. Points inside walls snap to the nearest walkable cell.
func (g *Grid) FindPath(start, goal gamemath.Vec3, limits Limits) ([]gamemath.Vec3, error) {
	if g == nil || g.Width == 0 || g.Depth == 0 {
		return nil, ErrNoGrid
	}

	from, to := g.Cell(start), g.Cell(goal)
	if !from.Walkable {
		from = g.nearestWalkable(from)
	}
	if !to.Walkable {
		to = g.nearestWalkable(to)
	}
	if from == nil || to == nil {
		return nil, ErrBlocked
	}
	if from == to {
		return []gamemath.Vec3{g.CellCenter(to)}, nil
	}

	q := &query{grid: g, limits: limits, nodes: map[*Node]*step{}}
	path, _, found := astar.Path(q.step(from), q.step(to))
	if !found {
		return nil, ErrNoPath
	}
	if path[0].(*step).node != from {
		for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
			path[i], path[j] = path[j], path[i]
		}
	}

	out := make([]gamemath.Vec3, 0, len(path)-1)
	for _, p := range path[1:] {
		out = append(out, g.CellCenter(p.(*step).node))
	}
	return out, nil
}

// nearestWalkable searches outward in squares.
func (g *Grid) nearestWalkable(n *Node) *Node {
	for radius := 1; radius <= g.maxSearchRadius; radius++ {
		for dz := -radius; dz <= radius; dz++ {
			for dx := -radius; dx <= radius; dx++ {
				nx, nz := n.X+dx, n.Z+dz
				if nx >= 0 && nx < g.Width && nz >= 0 && nz < g.Depth && g.Nodes[nz][nx].Walkable {
					return g.Nodes[nz][nx]
				}
			}
		}
	}
	return nil
}

// query carries per-request limits into the astar callbacks. Each Node maps
// to exactly one step so astar can key on it.
type query struct {
	grid   *Grid
	limits Limits
	nodes  map[*Node]*step
}

func (q *query) step(n *Node) *step {
	s, ok := q.nodes[n]
	if !ok {
		s = &step{node: n, q: q}
		q.nodes[n] = s
	}
	return s
}

// step implements astar.Pather.
type step struct {
	node *Node
	q    *query
}

var dirs = []struct{ dx, dz int }{
	{-1, 0}, {1, 0}, {0, -1}, {0, 1},
	{-1, -1}, {1, -1}, {-1, 1}, {1, 1},
}

func (s *step) PathNeighbors() []astar.Pather {
	g := s.q.grid
	var neighbors []astar.Pather
	for _, d := range dirs {
		nx, nz := s.node.X+d.dx, s.node.Z+d.dz
		if !g.walkable(nx, nz) {
			continue
		}
		// no corner cutting past walls
		if d.dx != 0 && d.dz != 0 && (!g.walkable(s.node.X+d.dx, s.node.Z) || !g.walkable(s.node.X, s.node.Z+d.dz)) {
			continue
		}
		next := g.Nodes[nz][nx]
		if !s.q.reachable(s.node, next) {
			continue
		}
		neighbors = append(neighbors, s.q.step(next))
	}
	return neighbors
}

func (s *step) PathNeighborCost(to astar.Pather) float64 {
	t := to.(*step).node
	dh := math.Abs(t.Height - s.node.Height)
	return s.flat(t) + s.q.limits.VerticalPenalty*dh
}

func (s *step) PathEstimatedCost(to astar.Pather) float64 {
	return s.flat(to.(*step).node)
}

func (s *step) flat(t *Node) float64 {
	dx := float64(t.X - s.node.X)
	dz := float64(t.Z - s.node.Z)
	return math.Sqrt(dx*dx+dz*dz) * s.q.grid.CellSize
}

// reachable applies the jump and fall gates.
func (q *query) reachable(from, to *Node) bool {
	dh := to.Height - from.Height
	if dh > 0 {
		return dh <= q.limits.MaxJump
	}
	return -dh <= q.limits.MaxFall
}

func (g *Grid) walkable(x, z int) bool {
	return x >= 0 && x < g.Width && z >= 0 && z < g.Depth && g.Nodes[z][x].Walkable
}

func clampInt(v, minVal, maxVal int) int {
	return max(minVal, min(maxVal, v))
}
