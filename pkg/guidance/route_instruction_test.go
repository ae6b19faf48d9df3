package guidance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse/gridnav/pkg/datastructure"
	"warehouse/gridnav/pkg/guidance"
)

func coord(column, row int) datastructure.Coordinate {
	return datastructure.NewCoordinate(column, row)
}

func TestInstructionsFromRoute(t *testing.T) {

	t.Run("straight run folds into one start instruction", func(t *testing.T) {
		steps := []datastructure.Coordinate{coord(1, 0), coord(2, 0), coord(3, 0)}
		instructions := guidance.InstructionsFromRoute(coord(0, 0), steps)

		require.Len(t, instructions, 2)
		assert.Equal(t, guidance.START, instructions[0].Sign)
		assert.Equal(t, 3, instructions[0].Steps)
		assert.Equal(t, guidance.FINISH, instructions[1].Sign)
		assert.Equal(t, coord(3, 0), instructions[1].Point)
	})

	t.Run("heading changes become turns", func(t *testing.T) {
		// right two cells, then down two cells: rightward heading turning
		// downward is a right turn on a screen-oriented grid
		steps := []datastructure.Coordinate{
			coord(1, 0), coord(2, 0),
			coord(2, 1), coord(2, 2),
		}
		instructions := guidance.InstructionsFromRoute(coord(0, 0), steps)

		require.Len(t, instructions, 3)
		assert.Equal(t, guidance.START, instructions[0].Sign)
		assert.Equal(t, 2, instructions[0].Steps)
		assert.Equal(t, guidance.TURN_RIGHT, instructions[1].Sign)
		assert.Equal(t, coord(2, 0), instructions[1].Point)
		assert.Equal(t, 2, instructions[1].Steps)
		assert.Equal(t, guidance.FINISH, instructions[2].Sign)
	})

	t.Run("left turn classified by cross product", func(t *testing.T) {
		// moving down then turning to the right edge of the grid is a left
		// turn from the robot's point of view
		steps := []datastructure.Coordinate{
			coord(0, 1), coord(0, 2),
			coord(1, 2),
		}
		instructions := guidance.InstructionsFromRoute(coord(0, 0), steps)

		require.Len(t, instructions, 3)
		assert.Equal(t, guidance.TURN_LEFT, instructions[1].Sign)
	})

	t.Run("empty route yields no instructions", func(t *testing.T) {
		instructions := guidance.InstructionsFromRoute(coord(0, 0), nil)
		assert.Empty(t, instructions)
	})

	t.Run("descriptions render every instruction", func(t *testing.T) {
		steps := []datastructure.Coordinate{coord(1, 0), coord(1, 1)}
		descriptions := guidance.GetTurnDescriptions(guidance.InstructionsFromRoute(coord(0, 0), steps))

		require.Len(t, descriptions, 3)
		assert.Contains(t, descriptions[0], "start at (0,0)")
		assert.Contains(t, descriptions[2], "arrive at (1,1)")
	})
}
