package pathfinding

import (
	"warehouse/gridnav/pkg/datastructure"
	"warehouse/gridnav/pkg/types"
	"warehouse/gridnav/pkg/util"
)

// Route is the ordered cell sequence of a computed path: every step after
// the source, up to and including the target. The owner consumes it front
// to back, one step per move.
type Route struct {
	steps []datastructure.Coordinate
}

func newRoute(steps []datastructure.Coordinate) *Route {
	return &Route{steps: steps}
}

// buildRoute walks the parent chain backwards from the target and reverses
// it. The source cell itself is excluded; the walk stops on reaching it.
func buildRoute(source, target *searchNode) *Route {
	steps := []datastructure.Coordinate{}
	for current := target; current != source; current = current.parent {
		steps = append(steps, current.coord)
	}
	util.ReverseG(steps)
	return newRoute(steps)
}

// Steps returns a copy of the remaining steps.
func (r *Route) Steps() []datastructure.Coordinate {
	out := make([]datastructure.Coordinate, len(r.steps))
	copy(out, r.steps)
	return out
}

// Pop removes and returns the first remaining step.
func (r *Route) Pop() (datastructure.Coordinate, error) {
	if len(r.steps) == 0 {
		return datastructure.Coordinate{}, types.WrapErrorf(types.ErrEmptyRoute, types.ErrBadParamInput,
			"pop on empty route")
	}
	step := r.steps[0]
	r.steps = r.steps[1:]
	return step, nil
}

// Len returns the number of remaining steps.
func (r *Route) Len() int {
	return len(r.steps)
}
