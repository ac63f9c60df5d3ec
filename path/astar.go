package path

import (
	"container/heap"
	"context"

	"github.com/zizul/sailboat/hex"
	"github.com/zizul/sailboat/tile"
)

// node is the per-search bookkeeping for one coordinate: cost from
// start (g), heuristic to goal (h), their sum (f), and the predecessor
// used for path reconstruction.
type node struct {
	coord  hex.Axial
	g      int
	h      int
	f      int
	parent *node
}

// AStar finds optimal-cost paths over the hex graph with uniform step
// cost 1, using hex distance to the goal as the heuristic. The
// heuristic is admissible and consistent on a unit-cost hex grid, so
// returned paths are always cost-optimal. Which of several equal-cost
// paths is returned depends on heap order and is not specified.
//
// The open heap, closed set, and node map are owned by the instance and
// reset at the start of every call, so one AStar value must never run
// two searches at once.
type AStar struct {
	nodes  map[hex.Axial]*node
	closed map[hex.Axial]bool
	open   openHeap
}

// NewAStar creates an A* strategy.
func NewAStar() *AStar {
	return &AStar{
		nodes:  make(map[hex.Axial]*node),
		closed: make(map[hex.Axial]bool),
	}
}

// FindPath implements Strategy. The context is checked between node
// expansions, so cancellation latency is bounded by one relaxation
// step.
func (a *AStar) FindPath(ctx context.Context, start, goal hex.Axial, index *tile.Index) (Path, error) {
	if err, trivial := checkEndpoints(start, goal, index); err != nil {
		return nil, err
	} else if trivial {
		return Path{start}, nil
	}

	a.reset()

	startNode := &node{coord: start, h: start.DistanceTo(goal)}
	startNode.f = startNode.h
	a.nodes[start] = startNode
	heap.Push(&a.open, openEntry{n: startNode, f: startNode.f})

	for a.open.Len() > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		current := heap.Pop(&a.open).(openEntry).n
		if a.closed[current.coord] {
			// Stale entry from a superseded relaxation.
			continue
		}
		a.closed[current.coord] = true

		if current.coord == goal {
			return reconstruct(current), nil
		}

		for _, nb := range index.WalkableNeighbors(current.coord) {
			if a.closed[nb] {
				continue
			}
			tentative := current.g + 1
			n, visited := a.nodes[nb]
			if !visited {
				n = &node{coord: nb, h: nb.DistanceTo(goal)}
				a.nodes[nb] = n
			}
			// g == 0 doubles as the unvisited sentinel here. The only
			// node whose true g is 0 is the start, and the start is
			// already closed, so the overlap never costs optimality.
			if n.g == 0 || tentative < n.g {
				n.parent = current
				n.g = tentative
				n.f = n.g + n.h
				heap.Push(&a.open, openEntry{n: n, f: n.f})
			}
		}
	}

	// Open set exhausted without reaching the goal: no path exists.
	return nil, nil
}

func (a *AStar) reset() {
	clear(a.nodes)
	clear(a.closed)
	a.open = a.open[:0]
	heap.Init(&a.open)
}

// reconstruct follows parent links from the goal back to the start and
// reverses the result.
func reconstruct(goal *node) Path {
	p := Path{}
	for n := goal; n != nil; n = n.parent {
		p = append(p, n.coord)
	}
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
	return p
}

// openEntry snapshots a node's f at insertion time. Re-relaxing a node
// pushes a fresh entry rather than fixing the old one; stale entries
// are skipped on pop via the closed set.
type openEntry struct {
	n *node
	f int
}

// openHeap orders entries by ascending f. Ties between equal-f entries
// fall to heap order.
type openHeap []openEntry

func (h openHeap) Len() int           { return len(h) }
func (h openHeap) Less(i, j int) bool { return h[i].f < h[j].f }
func (h openHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *openHeap) Push(x any)        { *h = append(*h, x.(openEntry)) }
func (h *openHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
