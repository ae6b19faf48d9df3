package service

import (
	"context"
	"sync"

	"github.com/twpayne/go-polyline"

	"warehouse/gridnav/pkg/concurrent"
	"warehouse/gridnav/pkg/datastructure"
	"warehouse/gridnav/pkg/engine/pathfinding"
	"warehouse/gridnav/pkg/grid"
	"warehouse/gridnav/pkg/guidance"
)

// LayoutStore persists named floor layouts.
type LayoutStore interface {
	SaveLayout(name string, layout datastructure.FloorLayout) error
	GetLayout(name string) (datastructure.FloorLayout, error)
}

// RouteResult is the outcome of one route query.
type RouteResult struct {
	Found      bool
	Steps      []datastructure.Coordinate
	Path       string // polyline encoded, source included for drawing
	StepCount  int
	Directions []string // operator-readable movement instructions
}

// BulkRoutePair is one source/target pair of a bulk query.
type BulkRoutePair struct {
	Source datastructure.Coordinate
	Target datastructure.Coordinate
}

// BulkRouteResult ties a bulk pair to its route outcome.
type BulkRouteResult struct {
	Pair  BulkRoutePair
	Route RouteResult
}

// NavigationService runs route queries and floor mutations over one active
// floor. A search engine is not safe for concurrent calls, so the shared
// engines sit behind a mutex; bulk queries build one engine per job instead.
type NavigationService struct {
	store LayoutStore

	mu           sync.Mutex
	floor        *grid.Floor
	snap         *grid.SnapIndex
	finder       *pathfinding.PathFinder // collision avoidance on
	directFinder *pathfinding.PathFinder // occupancy ignored
}

func NewNavigationService(floor *grid.Floor, store LayoutStore) *NavigationService {
	s := &NavigationService{store: store}
	s.setFloor(floor)
	return s
}

func (s *NavigationService) setFloor(floor *grid.Floor) {
	s.floor = floor
	s.snap = grid.NewSnapIndex(floor)
	s.finder = pathfinding.NewPathFinder(floor)
	s.directFinder = pathfinding.NewPathFinder(floor, pathfinding.WithoutCollisionAvoidance())
}

// FindRoute computes a shortest route between two cells. A missing route
// (equal endpoints, endpoint off the floor, frontier exhausted) is an
// ordinary outcome: Found is false and the error is nil.
func (s *NavigationService) FindRoute(ctx context.Context, source, target datastructure.Coordinate,
	ignoreRobots bool) (RouteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	finder := s.finder
	if ignoreRobots {
		finder = s.directFinder
	}

	if !finder.FindRoute(source, target) {
		return RouteResult{Found: false, Steps: []datastructure.Coordinate{}}, nil
	}

	steps := finder.RemainingRoute()
	return RouteResult{
		Found:      true,
		Steps:      steps,
		Path:       encodeRoutePolyline(source, steps),
		StepCount:  len(steps),
		Directions: guidance.GetTurnDescriptions(guidance.InstructionsFromRoute(source, steps)),
	}, nil
}

// BulkRoutes answers many source/target pairs concurrently, one engine per
// job so no search state is shared between workers.
func (s *NavigationService) BulkRoutes(ctx context.Context, pairs []BulkRoutePair) []BulkRouteResult {
	s.mu.Lock()
	floor := s.floor
	s.mu.Unlock()

	workers := concurrent.NewWorkerPool[BulkRoutePair, BulkRouteResult](4, len(pairs))
	for _, pair := range pairs {
		workers.AddJob(pair)
	}
	workers.CloseJobs()

	workers.Start(func(pair BulkRoutePair) BulkRouteResult {
		finder := pathfinding.NewPathFinder(floor)
		res := BulkRouteResult{Pair: pair, Route: RouteResult{Steps: []datastructure.Coordinate{}}}
		if finder.FindRoute(pair.Source, pair.Target) {
			steps := finder.RemainingRoute()
			res.Route = RouteResult{
				Found:      true,
				Steps:      steps,
				Path:       encodeRoutePolyline(pair.Source, steps),
				StepCount:  len(steps),
				Directions: guidance.GetTurnDescriptions(guidance.InstructionsFromRoute(pair.Source, steps)),
			}
		}
		return res
	})
	workers.Wait()

	results := make([]BulkRouteResult, 0, len(pairs))
	for res := range workers.CollectResults() {
		results = append(results, res)
	}
	return results
}

// NearestFreeCell snaps a requested cell to the closest navigable,
// unoccupied cell.
func (s *NavigationService) NearestFreeCell(ctx context.Context, c datastructure.Coordinate) (datastructure.Coordinate, error) {
	s.mu.Lock()
	snap := s.snap
	s.mu.Unlock()
	return snap.SnapToFreeCell(c)
}

// activeFloor reads the floor pointer under the lock; LoadLayout may swap it.
func (s *NavigationService) activeFloor() *grid.Floor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.floor
}

func (s *NavigationService) PlaceRobot(ctx context.Context, id string, c datastructure.Coordinate) error {
	return s.activeFloor().PlaceRobot(id, c)
}

func (s *NavigationService) MoveRobot(ctx context.Context, id string, c datastructure.Coordinate) error {
	return s.activeFloor().MoveRobot(id, c)
}

func (s *NavigationService) RemoveRobot(ctx context.Context, id string) error {
	return s.activeFloor().RemoveRobot(id)
}

// FloorInfo snapshots the active floor.
func (s *NavigationService) FloorInfo(ctx context.Context) datastructure.FloorLayout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.floor.Layout()
}

// SaveLayout persists the active floor under a name.
func (s *NavigationService) SaveLayout(ctx context.Context, name string) error {
	s.mu.Lock()
	layout := s.floor.Layout()
	s.mu.Unlock()
	return s.store.SaveLayout(name, layout)
}

// LoadLayout replaces the active floor with a stored layout. Engines and
// the snap index are rebuilt because extents may change.
func (s *NavigationService) LoadLayout(ctx context.Context, name string) error {
	layout, err := s.store.GetLayout(name)
	if err != nil {
		return err
	}
	floor, err := grid.NewFloorFromLayout(layout)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setFloor(floor)
	return nil
}

func encodeRoutePolyline(source datastructure.Coordinate, steps []datastructure.Coordinate) string {
	coords := make([][]float64, 0, len(steps)+1)
	coords = append(coords, []float64{float64(source.Column), float64(source.Row)})
	for _, step := range steps {
		coords = append(coords, []float64{float64(step.Column), float64(step.Row)})
	}
	return string(polyline.EncodeCoords(coords))
}
