// Package path computes routes over the hex chart. It provides the
// Strategy contract, an A* implementation, a BFS alternative, and a
// Coordinator that schedules cancellable searches off the caller's
// goroutine with at most one search in flight per coordinator.
package path

import (
	"context"
	"errors"

	"github.com/zizul/sailboat/hex"
	"github.com/zizul/sailboat/tile"
)

// Path is an ordered sequence of coordinates from start to goal
// inclusive. A single-element path means start == goal. A nil path with
// a nil error means no path exists; that is a normal outcome, not a
// failure.
type Path []hex.Axial

// Steps returns the number of edges along the path.
func (p Path) Steps() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

var (
	// ErrNilIndex reports a missing tile index. Programming error.
	ErrNilIndex = errors.New("nil tile index")

	// ErrStartBlocked reports a start coordinate that is not walkable.
	ErrStartBlocked = errors.New("start is not walkable")

	// ErrGoalBlocked reports a goal coordinate that is not walkable.
	ErrGoalBlocked = errors.New("goal is not walkable")
)

// Strategy finds a route between two coordinates over a tile index.
//
// Implementations return (nil, nil) when no path exists and the
// context's error when cancelled mid-search. A single Strategy instance
// must not be invoked concurrently: implementations may keep scratch
// state between calls, and the Coordinator's one-in-flight invariant is
// what makes that safe.
type Strategy interface {
	FindPath(ctx context.Context, start, goal hex.Axial, index *tile.Index) (Path, error)
}

// checkEndpoints runs the shared precondition checks in contract order.
// A true second return means start == goal and the trivial path should
// be returned without searching.
func checkEndpoints(start, goal hex.Axial, index *tile.Index) (error, bool) {
	if index == nil {
		return ErrNilIndex, false
	}
	if !index.IsWalkable(start) {
		return ErrStartBlocked, false
	}
	if !index.IsWalkable(goal) {
		return ErrGoalBlocked, false
	}
	return nil, start == goal
}
