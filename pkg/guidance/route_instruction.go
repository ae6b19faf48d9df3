package guidance

import (
	"warehouse/gridnav/pkg/datastructure"
)

type heading struct {
	dColumn int
	dRow    int
}

// turnSign classifies the heading change between two consecutive segments.
// The grid is 4-connected, so the only cases are straight, left, right, and
// a full reversal.
func turnSign(prev, next heading) int {
	if prev == next {
		return CONTINUE_ON_FLOOR
	}
	if prev.dColumn == -next.dColumn && prev.dRow == -next.dRow {
		return U_TURN
	}
	// cross product of the two headings; row axis points downward, so a
	// positive cross is a clockwise (right) turn
	cross := prev.dColumn*next.dRow - prev.dRow*next.dColumn
	if cross > 0 {
		return TURN_RIGHT
	}
	return TURN_LEFT
}

// InstructionsFromRoute folds a route into movement instructions: runs of
// same-heading steps collapse into one instruction, every heading change
// starts a new one, and a FINISH marker closes the list. source is the cell
// the route starts from (the route itself excludes it).
func InstructionsFromRoute(source datastructure.Coordinate, steps []datastructure.Coordinate) []Instruction {
	if len(steps) == 0 {
		return []Instruction{}
	}

	instructions := []Instruction{}

	prev := source
	currentHeading := heading{steps[0].Column - source.Column, steps[0].Row - source.Row}
	current := NewInstruction(START, source, 0)

	for _, step := range steps {
		h := heading{step.Column - prev.Column, step.Row - prev.Row}
		if h != currentHeading {
			instructions = append(instructions, current)
			current = NewInstruction(turnSign(currentHeading, h), prev, 0)
			currentHeading = h
		}
		current.Steps++
		prev = step
	}
	instructions = append(instructions, current)
	instructions = append(instructions, NewInstruction(FINISH, steps[len(steps)-1], 0))

	return instructions
}
