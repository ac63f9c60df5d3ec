package path

import (
	"context"

	"github.com/zizul/sailboat/hex"
	"github.com/zizul/sailboat/tile"
)

// BFS is a breadth-first alternative to AStar. On a unit-cost grid it
// returns paths of the same length as A*, expanding more nodes but
// needing no heap. Useful as a cross-check and as a demonstration of
// strategy swapping.
//
// Like AStar, a single BFS value must not run two searches at once.
type BFS struct {
	visited map[hex.Axial]bool
	prev    map[hex.Axial]hex.Axial
	queue   []hex.Axial
}

// NewBFS creates a BFS strategy.
func NewBFS() *BFS {
	return &BFS{
		visited: make(map[hex.Axial]bool),
		prev:    make(map[hex.Axial]hex.Axial),
	}
}

// FindPath implements Strategy.
func (b *BFS) FindPath(ctx context.Context, start, goal hex.Axial, index *tile.Index) (Path, error) {
	if err, trivial := checkEndpoints(start, goal, index); err != nil {
		return nil, err
	} else if trivial {
		return Path{start}, nil
	}

	clear(b.visited)
	clear(b.prev)
	b.queue = append(b.queue[:0], start)
	b.visited[start] = true

	for len(b.queue) > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		current := b.queue[0]
		b.queue = b.queue[1:]

		for _, nb := range index.WalkableNeighbors(current) {
			if b.visited[nb] {
				continue
			}
			b.visited[nb] = true
			b.prev[nb] = current
			if nb == goal {
				return b.reconstruct(start, goal), nil
			}
			b.queue = append(b.queue, nb)
		}
	}

	return nil, nil
}

func (b *BFS) reconstruct(start, goal hex.Axial) Path {
	p := Path{goal}
	cur := goal
	for cur != start {
		cur = b.prev[cur]
		p = append(p, cur)
	}
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
	return p
}
