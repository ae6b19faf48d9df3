package grid

import (
	"sync"

	"warehouse/gridnav/pkg/datastructure"
	"warehouse/gridnav/pkg/types"
)

// Floor is the warehouse floor: fixed extents, wall cells that are never
// navigable, and robots occupying cells. It backs the search engine's
// validity and occupancy queries.
//
// All reads and mutations go through an RWMutex. A search holds no lock
// across its whole run, so callers that mutate occupancy mid-search get
// undefined routes; serialize searches against robot movement if that
// matters.
type Floor struct {
	mu      sync.RWMutex
	columns int
	rows    int
	walls   []bool // flat, row*columns+column
	robots  map[string]datastructure.Coordinate
	cells   map[datastructure.Coordinate]string // occupied cell -> robot id
}

func NewFloor(columns, rows int) *Floor {
	return &Floor{
		columns: columns,
		rows:    rows,
		walls:   make([]bool, columns*rows),
		robots:  make(map[string]datastructure.Coordinate),
		cells:   make(map[datastructure.Coordinate]string),
	}
}

// NewFloorFromLayout rebuilds a floor from a stored layout snapshot.
func NewFloorFromLayout(layout datastructure.FloorLayout) (*Floor, error) {
	if layout.Columns <= 0 || layout.Rows <= 0 {
		return nil, types.WrapErrorf(nil, types.ErrBadParamInput,
			"layout extents must be positive, got %dx%d", layout.Columns, layout.Rows)
	}
	f := NewFloor(layout.Columns, layout.Rows)
	for _, w := range layout.Walls {
		if err := f.SetWall(w); err != nil {
			return nil, err
		}
	}
	for _, r := range layout.Robots {
		if err := f.PlaceRobot(r.RobotID, r.Coord); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (f *Floor) ColumnCount() int {
	return f.columns
}

func (f *Floor) RowCount() int {
	return f.rows
}

func (f *Floor) inBounds(c datastructure.Coordinate) bool {
	return c.Column >= 0 && c.Row >= 0 && c.Column < f.columns && c.Row < f.rows
}

// IsValidCoordinate reports whether c is a navigable cell: inside the
// extents and not a wall.
func (f *Floor) IsValidCoordinate(c datastructure.Coordinate) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.inBounds(c) && !f.walls[c.Row*f.columns+c.Column]
}

// IsOccupied reports whether a robot currently sits on c.
func (f *Floor) IsOccupied(c datastructure.Coordinate) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.cells[c]
	return ok
}

// SetWall marks a cell permanently non-navigable.
func (f *Floor) SetWall(c datastructure.Coordinate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.inBounds(c) {
		return types.WrapErrorf(nil, types.ErrBadParamInput,
			"wall cell (%d,%d) outside floor extents", c.Column, c.Row)
	}
	if _, ok := f.cells[c]; ok {
		return types.WrapErrorf(nil, types.ErrConflict,
			"cell (%d,%d) is occupied by a robot", c.Column, c.Row)
	}
	f.walls[c.Row*f.columns+c.Column] = true
	return nil
}

// PlaceRobot puts a robot with the given id on a free navigable cell.
func (f *Floor) PlaceRobot(id string, c datastructure.Coordinate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.inBounds(c) || f.walls[c.Row*f.columns+c.Column] {
		return types.WrapErrorf(nil, types.ErrBadParamInput,
			"cell (%d,%d) is not a navigable cell", c.Column, c.Row)
	}
	if _, ok := f.robots[id]; ok {
		return types.WrapErrorf(nil, types.ErrConflict, "robot %s already placed", id)
	}
	if occupant, ok := f.cells[c]; ok {
		return types.WrapErrorf(nil, types.ErrConflict,
			"cell (%d,%d) already occupied by robot %s", c.Column, c.Row, occupant)
	}
	f.robots[id] = c
	f.cells[c] = id
	return nil
}

// MoveRobot relocates an already placed robot to a free navigable cell.
func (f *Floor) MoveRobot(id string, c datastructure.Coordinate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	from, ok := f.robots[id]
	if !ok {
		return types.WrapErrorf(nil, types.ErrNotFound, "robot %s not placed", id)
	}
	if !f.inBounds(c) || f.walls[c.Row*f.columns+c.Column] {
		return types.WrapErrorf(nil, types.ErrBadParamInput,
			"cell (%d,%d) is not a navigable cell", c.Column, c.Row)
	}
	if occupant, ok := f.cells[c]; ok && occupant != id {
		return types.WrapErrorf(nil, types.ErrConflict,
			"cell (%d,%d) already occupied by robot %s", c.Column, c.Row, occupant)
	}
	delete(f.cells, from)
	f.robots[id] = c
	f.cells[c] = id
	return nil
}

// RemoveRobot takes a robot off the floor.
func (f *Floor) RemoveRobot(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.robots[id]
	if !ok {
		return types.WrapErrorf(nil, types.ErrNotFound, "robot %s not placed", id)
	}
	delete(f.robots, id)
	delete(f.cells, c)
	return nil
}

// RobotPosition returns where a robot currently sits.
func (f *Floor) RobotPosition(id string) (datastructure.Coordinate, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	c, ok := f.robots[id]
	if !ok {
		return datastructure.Coordinate{}, types.WrapErrorf(nil, types.ErrNotFound, "robot %s not placed", id)
	}
	return c, nil
}

// Layout snapshots the floor into its persistable form.
func (f *Floor) Layout() datastructure.FloorLayout {
	f.mu.RLock()
	defer f.mu.RUnlock()
	layout := datastructure.FloorLayout{
		Columns: f.columns,
		Rows:    f.rows,
		Walls:   []datastructure.Coordinate{},
		Robots:  []datastructure.RobotPosition{},
	}
	for row := 0; row < f.rows; row++ {
		for column := 0; column < f.columns; column++ {
			if f.walls[row*f.columns+column] {
				layout.Walls = append(layout.Walls, datastructure.NewCoordinate(column, row))
			}
		}
	}
	for id, c := range f.robots {
		layout.Robots = append(layout.Robots, datastructure.RobotPosition{RobotID: id, Coord: c})
	}
	return layout
}
