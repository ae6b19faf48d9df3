package guidance

import (
	"fmt"

	"warehouse/gridnav/pkg/datastructure"
)

const (
	UNKNOWN           = -9999
	U_TURN            = -8
	TURN_LEFT         = -2
	CONTINUE_ON_FLOOR = 0
	TURN_RIGHT        = 2
	FINISH            = 4
	START             = 101
)

// Instruction is one movement order for the robot: a turn sign at a cell
// plus how many cells to travel before the next instruction.
type Instruction struct {
	Point datastructure.Coordinate
	Sign  int
	Steps int
}

func NewInstruction(sign int, p datastructure.Coordinate, steps int) Instruction {
	return Instruction{Sign: sign, Point: p, Steps: steps}
}

// GetTurnDescription renders the instruction as operator-readable text.
func (ins Instruction) GetTurnDescription() string {
	switch ins.Sign {
	case START:
		return fmt.Sprintf("start at (%d,%d) and move %d cells", ins.Point.Column, ins.Point.Row, ins.Steps)
	case CONTINUE_ON_FLOOR:
		return fmt.Sprintf("continue for %d cells", ins.Steps)
	case TURN_LEFT:
		return fmt.Sprintf("turn left at (%d,%d) and move %d cells", ins.Point.Column, ins.Point.Row, ins.Steps)
	case TURN_RIGHT:
		return fmt.Sprintf("turn right at (%d,%d) and move %d cells", ins.Point.Column, ins.Point.Row, ins.Steps)
	case U_TURN:
		return fmt.Sprintf("turn around at (%d,%d) and move %d cells", ins.Point.Column, ins.Point.Row, ins.Steps)
	case FINISH:
		return fmt.Sprintf("arrive at (%d,%d)", ins.Point.Column, ins.Point.Row)
	default:
		return "unknown instruction"
	}
}

func GetTurnDescriptions(instructions []Instruction) []string {
	turnDescriptions := make([]string, 0, len(instructions))
	for _, instr := range instructions {
		turnDescriptions = append(turnDescriptions, instr.GetTurnDescription())
	}
	return turnDescriptions
}
