package pathfinding

import (
	"warehouse/gridnav/pkg/datastructure"
)

// cost value acting as +infinity. Any real path on the floor is shorter.
const unreachableCost = 1<<30 - 1

type cellState uint8

const (
	stateUnvisited cellState = iota
	stateFrontier
	stateSettled
)

// searchNode carries the mutable search state of one floor cell. The
// coordinate is fixed at construction; everything else is rewritten on
// every search.
type searchNode struct {
	coord     datastructure.Coordinate
	cost      int
	heuristic float64
	parent    *searchNode
	state     cellState
	index     int // position inside the frontier heap, -1 when not enqueued
}

// rank orders the frontier: steps taken so far plus the straight line
// estimate of the steps remaining.
func (n *searchNode) rank() float64 {
	return float64(n.cost) + n.heuristic
}

// nodeTable maps every floor cell to its search node in O(1). Nodes are
// allocated once, sized to the floor extents, and reused across searches.
type nodeTable struct {
	columns int
	rows    int
	nodes   []searchNode
}

func newNodeTable(columns, rows int) *nodeTable {
	t := &nodeTable{
		columns: columns,
		rows:    rows,
		nodes:   make([]searchNode, columns*rows),
	}
	for row := 0; row < rows; row++ {
		for column := 0; column < columns; column++ {
			n := &t.nodes[row*columns+column]
			n.coord = datastructure.NewCoordinate(column, row)
		}
	}
	t.reset()
	return t
}

// nodeAt returns the node of the given cell, or nil when the cell lies
// outside the table extents.
func (t *nodeTable) nodeAt(column, row int) *searchNode {
	if column < 0 || row < 0 || column >= t.columns || row >= t.rows {
		return nil
	}
	return &t.nodes[row*t.columns+column]
}

// reset clears the mutable fields of every node. Must run at the start of
// each search so no state leaks from the previous one.
func (t *nodeTable) reset() {
	for i := range t.nodes {
		n := &t.nodes[i]
		n.cost = unreachableCost
		n.heuristic = 0
		n.parent = nil
		n.state = stateUnvisited
		n.index = -1
	}
}
