package datastructure

// Coordinate identifies one cell on the warehouse floor. Column grows to
// the right, row grows downward. Value type, compared by component.
type Coordinate struct {
	Column int `json:"column"`
	Row    int `json:"row"`
}

func NewCoordinate(column, row int) Coordinate {
	return Coordinate{Column: column, Row: row}
}

func (c Coordinate) Equal(other Coordinate) bool {
	return c.Column == other.Column && c.Row == other.Row
}

// RobotPosition records which robot currently sits on which cell.
type RobotPosition struct {
	RobotID string     `json:"robot_id"`
	Coord   Coordinate `json:"coord"`
}

// FloorLayout is the persistable snapshot of a floor: extents, wall cells,
// and current robot positions. This is what pkg/kv stores per layout name.
type FloorLayout struct {
	Columns int             `json:"columns"`
	Rows    int             `json:"rows"`
	Walls   []Coordinate    `json:"walls"`
	Robots  []RobotPosition `json:"robots"`
}
