package pathfinding

import (
	"container/heap"
	"math"

	"warehouse/gridnav/pkg/datastructure"
)

// Floor is the read-only view of the warehouse floor the search consults.
// Satisfied by grid.Floor.
type Floor interface {
	ColumnCount() int
	RowCount() int
	IsValidCoordinate(c datastructure.Coordinate) bool
	IsOccupied(c datastructure.Coordinate) bool
}

// Option configures a PathFinder at construction.
type Option func(*PathFinder)

// WithoutCollisionAvoidance makes the search ignore robot occupancy and
// honor floor-boundary validity only.
func WithoutCollisionAvoidance() Option {
	return func(p *PathFinder) { p.avoidCollisions = false }
}

// PathFinder finds a shortest 4-connected route between two cells using
// best-first expansion (A* with a straight line heuristic).
//
// A PathFinder is not safe for concurrent use: the node table, frontier
// and route are rewritten on every FindRoute call. Run one instance per
// concurrent search or serialize callers.
type PathFinder struct {
	floor           Floor
	avoidCollisions bool
	nodes           *nodeTable
	frontier        *frontierQueue
	route           *Route
}

// neighbor expansion order: above, right, below, left
var neighborOffsets = [4][2]int{
	{0, -1},
	{+1, 0},
	{0, +1},
	{-1, 0},
}

// NewPathFinder builds a finder for the given floor. Collision avoidance
// is on unless disabled with WithoutCollisionAvoidance. The node table is
// allocated once here and reused across searches.
func NewPathFinder(floor Floor, opts ...Option) *PathFinder {
	p := &PathFinder{
		floor:           floor,
		avoidCollisions: true,
		nodes:           newNodeTable(floor.ColumnCount(), floor.RowCount()),
		route:           newRoute(nil),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FindRoute searches for a shortest route from source to target. It
// returns true and stores the route when one exists. source == target,
// an endpoint outside the floor, and an exhausted frontier all yield
// false with an empty route; none of them is an error.
func (p *PathFinder) FindRoute(source, target datastructure.Coordinate) bool {
	p.route = newRoute(nil)

	if source.Equal(target) {
		return false
	}

	p.nodes.reset()
	fq := make(frontierQueue, 0, p.nodes.columns*p.nodes.rows)
	p.frontier = &fq
	heap.Init(p.frontier)

	sourceNode := p.nodes.nodeAt(source.Column, source.Row)
	targetNode := p.nodes.nodeAt(target.Column, target.Row)
	if sourceNode == nil || targetNode == nil {
		return false
	}

	sourceNode.cost = 0
	sourceNode.heuristic = straightLineDistance(source, target)
	sourceNode.state = stateFrontier
	heap.Push(p.frontier, sourceNode)

	p.expand(targetNode)

	if targetNode.parent == nil {
		return false
	}

	p.route = buildRoute(sourceNode, targetNode)
	return true
}

// expand pops the best ranked frontier node, relaxes its four orthogonal
// neighbors and settles it, until the target is popped or the frontier
// runs dry.
func (p *PathFinder) expand(target *searchNode) {
	for p.frontier.Len() > 0 {
		current := heap.Pop(p.frontier).(*searchNode)

		if current.coord.Equal(target.coord) {
			break
		}

		nextStepCost := current.cost + 1

		for _, offset := range neighborOffsets {
			n := p.nodes.nodeAt(current.coord.Column+offset[0], current.coord.Row+offset[1])
			if n != nil {
				p.relax(n, nextStepCost, current, target)
			}
		}

		current.state = stateSettled
	}
}

// relax decides what a newly discovered path to n is worth. Invalid and
// (when avoidance is on) occupied cells are impassable. A strictly
// cheaper path reopens the node, evicting its stale rank from whichever
// set holds it; a node still on the frontier or already settled with an
// equal-or-better cost is left alone. Otherwise n is costed, parented to
// the node it was reached from, and admitted to the frontier.
func (p *PathFinder) relax(n *searchNode, nextStepCost int, previous, target *searchNode) {
	if !p.floor.IsValidCoordinate(n.coord) {
		return
	}
	if p.avoidCollisions && p.floor.IsOccupied(n.coord) {
		return
	}

	if nextStepCost < n.cost {
		if n.state == stateFrontier && n.index >= 0 {
			heap.Remove(p.frontier, n.index)
		}
		n.state = stateUnvisited
	}

	if n.state == stateFrontier || n.state == stateSettled {
		return
	}

	n.cost = nextStepCost
	n.heuristic = straightLineDistance(n.coord, target.coord)
	n.parent = previous
	n.state = stateFrontier
	heap.Push(p.frontier, n)
}

// straightLineDistance is the Euclidean distance between two cells. The
// estimate never exceeds the true remaining step count on a 4-connected
// unit-cost grid, so the search always yields shortest routes.
func straightLineDistance(a, b datastructure.Coordinate) float64 {
	dColumn := float64(a.Column - b.Column)
	dRow := float64(a.Row - b.Row)
	return math.Sqrt(dColumn*dColumn + dRow*dRow)
}

// RemainingRoute returns a read-only snapshot of the steps not yet popped.
func (p *PathFinder) RemainingRoute() []datastructure.Coordinate {
	return p.route.Steps()
}

// PopNextStep removes and returns the first remaining step. Returns
// types.ErrEmptyRoute when no steps are left.
func (p *PathFinder) PopNextStep() (datastructure.Coordinate, error) {
	return p.route.Pop()
}

// RemainingStepCount returns how many steps are left to pop.
func (p *PathFinder) RemainingStepCount() int {
	return p.route.Len()
}
