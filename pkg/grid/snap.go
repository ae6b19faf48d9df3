package grid

import (
	"math"

	"github.com/dhconnelly/rtreego"

	"warehouse/gridnav/pkg/datastructure"
	"warehouse/gridnav/pkg/types"
)

var tol = 0.0001

type cellRect struct {
	Location rtreego.Point
	Coord    datastructure.Coordinate
}

func (c *cellRect) Bounds() rtreego.Rect {
	// a rectangle centered at the cell with side lengths 2 * tol
	return c.Location.ToRect(tol)
}

// SnapIndex answers nearest-free-cell queries over the navigable cells of
// a floor via an r-tree. Walls are fixed at floor construction, so the
// index is built once; occupancy is checked live at query time.
type SnapIndex struct {
	floor *Floor
	tree  *rtreego.Rtree
}

func NewSnapIndex(floor *Floor) *SnapIndex {
	tree := rtreego.NewTree(2, 25, 50)
	for row := 0; row < floor.RowCount(); row++ {
		for column := 0; column < floor.ColumnCount(); column++ {
			c := datastructure.NewCoordinate(column, row)
			if !floor.IsValidCoordinate(c) {
				continue
			}
			tree.Insert(&cellRect{
				Location: rtreego.Point{float64(column), float64(row)},
				Coord:    c,
			})
		}
	}
	return &SnapIndex{floor: floor, tree: tree}
}

// SnapToFreeCell returns the navigable, unoccupied cell nearest to c.
// c itself does not have to be on the floor; a request pointing at a wall
// or at an occupied cell snaps to the closest usable neighbor.
func (s *SnapIndex) SnapToFreeCell(c datastructure.Coordinate) (datastructure.Coordinate, error) {
	wantToSnap := rtreego.Point{float64(c.Column), float64(c.Row)}

	// widen the candidate set until an unoccupied cell shows up
	size := s.tree.Size()
	for k := 8; size > 0; k *= 2 {
		if k > size {
			k = size
		}
		best := datastructure.Coordinate{}
		bestDist := math.MaxFloat64
		found := false
		for _, spatial := range s.tree.NearestNeighbors(k, wantToSnap) {
			cell := spatial.(*cellRect)
			if s.floor.IsOccupied(cell.Coord) {
				continue
			}
			d := straightLine(wantToSnap, cell.Location)
			if d < bestDist {
				bestDist = d
				best = cell.Coord
				found = true
			}
		}
		if found {
			return best, nil
		}
		if k == size {
			break
		}
	}

	return datastructure.Coordinate{}, types.WrapErrorf(nil, types.ErrNotFound,
		"no free cell near (%d,%d)", c.Column, c.Row)
}

func straightLine(a, b rtreego.Point) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return math.Sqrt(dx*dx + dy*dy)
}
