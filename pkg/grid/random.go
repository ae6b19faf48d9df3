package grid

import (
	"fmt"

	"golang.org/x/exp/rand"

	"warehouse/gridnav/pkg/datastructure"
)

// RandomFloor builds a floor with the given wall density, for benchmarks
// and load fixtures. The same seed gives the same floor.
func RandomFloor(columns, rows int, wallDensity float64, seed uint64) *Floor {
	rng := rand.New(rand.NewSource(seed))
	f := NewFloor(columns, rows)
	for row := 0; row < rows; row++ {
		for column := 0; column < columns; column++ {
			if rng.Float64() < wallDensity {
				f.SetWall(datastructure.NewCoordinate(column, row))
			}
		}
	}
	return f
}

// RandomRobots scatters n robots over free cells of f. Gives up on a cell
// after a bounded number of rejections so a dense floor cannot spin forever.
func RandomRobots(f *Floor, n int, seed uint64) {
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < n; i++ {
		for attempt := 0; attempt < 100; attempt++ {
			c := datastructure.NewCoordinate(rng.Intn(f.ColumnCount()), rng.Intn(f.RowCount()))
			if err := f.PlaceRobot(fmt.Sprintf("robot-%d", i), c); err == nil {
				break
			}
		}
	}
}
