package path

import (
	"context"
	"errors"
	"testing"

	"github.com/zizul/sailboat/hex"
	"github.com/zizul/sailboat/tile"
)

// buildSea fills the axial parallelogram q,r in [0, width) x [0, height)
// with water, then replaces the listed coordinates with islands.
func buildSea(width, height int, islands ...hex.Axial) *tile.Index {
	ix := tile.NewIndex(1.0)
	for q := 0; q < width; q++ {
		for r := 0; r < height; r++ {
			c := hex.Axial{Q: q, R: r}
			ix.Insert(c, &tile.Tile{Coord: c, Kind: tile.Water})
		}
	}
	for _, c := range islands {
		ix.Insert(c, &tile.Tile{Coord: c, Kind: tile.Island})
	}
	return ix
}

// assertConnected checks that the path starts and ends where expected
// and every step is a single walkable hex move.
func assertConnected(t *testing.T, ix *tile.Index, p Path, start, goal hex.Axial) {
	t.Helper()
	if len(p) == 0 {
		t.Fatal("empty path")
	}
	if p[0] != start {
		t.Errorf("path starts at %v, want %v", p[0], start)
	}
	if p[len(p)-1] != goal {
		t.Errorf("path ends at %v, want %v", p[len(p)-1], goal)
	}
	for i := 1; i < len(p); i++ {
		if p[i-1].DistanceTo(p[i]) != 1 {
			t.Errorf("step %d: %v -> %v is not a single hex move", i, p[i-1], p[i])
		}
		if !ix.IsWalkable(p[i]) {
			t.Errorf("step %d: %v is not walkable", i, p[i])
		}
	}
}

func TestAStarPreconditions(t *testing.T) {
	ix := buildSea(3, 3, hex.Axial{Q: 2, R: 2})
	a := NewAStar()

	tests := []struct {
		name        string
		index       *tile.Index
		start, goal hex.Axial
		wantErr     error
	}{
		{"nil index", nil, hex.Axial{Q: 0, R: 0}, hex.Axial{Q: 1, R: 1}, ErrNilIndex},
		{"blocked start", ix, hex.Axial{Q: 2, R: 2}, hex.Axial{Q: 0, R: 0}, ErrStartBlocked},
		{"start off the chart", ix, hex.Axial{Q: -4, R: 0}, hex.Axial{Q: 0, R: 0}, ErrStartBlocked},
		{"blocked goal", ix, hex.Axial{Q: 0, R: 0}, hex.Axial{Q: 2, R: 2}, ErrGoalBlocked},
		{"goal off the chart", ix, hex.Axial{Q: 0, R: 0}, hex.Axial{Q: 9, R: 9}, ErrGoalBlocked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := a.FindPath(context.Background(), tt.start, tt.goal, tt.index)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if p != nil {
				t.Errorf("path = %v, want nil", p)
			}
		})
	}
}

func TestAStarTrivialPath(t *testing.T) {
	ix := buildSea(3, 3)
	a := NewAStar()
	c := hex.Axial{Q: 1, R: 1}

	p, err := a.FindPath(context.Background(), c, c, ix)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p) != 1 || p[0] != c {
		t.Errorf("path = %v, want [%v]", p, c)
	}
}

func TestAStarOpenSea(t *testing.T) {
	// 5x5 all-walkable chart: the path length must equal the hex
	// distance exactly.
	ix := buildSea(5, 5)
	a := NewAStar()
	start := hex.Axial{Q: 0, R: 0}
	goal := hex.Axial{Q: 2, R: 2}

	p, err := a.FindPath(context.Background(), start, goal, ix)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertConnected(t, ix, p, start, goal)
	if want := start.DistanceTo(goal); p.Steps() != want {
		t.Errorf("path has %d steps, want %d", p.Steps(), want)
	}
}

func TestAStarDetoursAroundWall(t *testing.T) {
	// A wall at q=2 spanning r=0..3 leaves a single gap at (2,4); the
	// only route costs exactly two extra steps over the open-sea
	// distance.
	ix := buildSea(5, 5,
		hex.Axial{Q: 2, R: 0}, hex.Axial{Q: 2, R: 1}, hex.Axial{Q: 2, R: 2}, hex.Axial{Q: 2, R: 3},
	)
	a := NewAStar()
	start := hex.Axial{Q: 0, R: 2}
	goal := hex.Axial{Q: 4, R: 2}

	p, err := a.FindPath(context.Background(), start, goal, ix)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertConnected(t, ix, p, start, goal)
	if want := start.DistanceTo(goal) + 2; p.Steps() != want {
		t.Errorf("path has %d steps, want %d", p.Steps(), want)
	}
}

func TestAStarNoPath(t *testing.T) {
	// Two walkable tiles with open sea nowhere between them.
	ix := tile.NewIndex(1.0)
	start := hex.Axial{Q: 0, R: 0}
	goal := hex.Axial{Q: 3, R: 0}
	ix.Insert(start, &tile.Tile{Coord: start, Kind: tile.Water})
	ix.Insert(goal, &tile.Tile{Coord: goal, Kind: tile.Water})

	a := NewAStar()
	p, err := a.FindPath(context.Background(), start, goal, ix)
	if err != nil {
		t.Fatalf("no-path must not be an error, got %v", err)
	}
	if p != nil {
		t.Errorf("path = %v, want nil", p)
	}
}

func TestAStarCancellation(t *testing.T) {
	ix := buildSea(20, 20)
	a := NewAStar()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p, err := a.FindPath(ctx, hex.Axial{Q: 0, R: 0}, hex.Axial{Q: 19, R: 19}, ix)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if p != nil {
		t.Errorf("path = %v, want nil", p)
	}
}

func TestAStarScratchStateReuse(t *testing.T) {
	// Back-to-back searches on the same instance must not leak state
	// from one into the next.
	ix := buildSea(5, 5)
	a := NewAStar()

	first, err := a.FindPath(context.Background(), hex.Axial{Q: 0, R: 0}, hex.Axial{Q: 4, R: 4}, ix)
	if err != nil {
		t.Fatalf("first search: %v", err)
	}
	second, err := a.FindPath(context.Background(), hex.Axial{Q: 4, R: 0}, hex.Axial{Q: 0, R: 4}, ix)
	if err != nil {
		t.Fatalf("second search: %v", err)
	}
	assertConnected(t, ix, first, hex.Axial{Q: 0, R: 0}, hex.Axial{Q: 4, R: 4})
	assertConnected(t, ix, second, hex.Axial{Q: 4, R: 0}, hex.Axial{Q: 0, R: 4})
	if want := (hex.Axial{Q: 4, R: 0}).DistanceTo(hex.Axial{Q: 0, R: 4}); second.Steps() != want {
		t.Errorf("second path has %d steps, want %d", second.Steps(), want)
	}
}

func TestAStarMatchesBFSLength(t *testing.T) {
	// BFS is optimal on a unit-cost grid, so A* must agree on cost for
	// every solvable pair.
	ix := buildSea(6, 6,
		hex.Axial{Q: 1, R: 1}, hex.Axial{Q: 2, R: 1}, hex.Axial{Q: 3, R: 3}, hex.Axial{Q: 4, R: 2}, hex.Axial{Q: 0, R: 4},
	)
	a := NewAStar()
	b := NewBFS()

	pairs := []struct{ start, goal hex.Axial }{
		{hex.Axial{Q: 0, R: 0}, hex.Axial{Q: 5, R: 5}},
		{hex.Axial{Q: 0, R: 0}, hex.Axial{Q: 5, R: 0}},
		{hex.Axial{Q: 0, R: 5}, hex.Axial{Q: 5, R: 0}},
		{hex.Axial{Q: 2, R: 0}, hex.Axial{Q: 2, R: 5}},
	}
	for _, pair := range pairs {
		ap, err := a.FindPath(context.Background(), pair.start, pair.goal, ix)
		if err != nil {
			t.Fatalf("astar %v -> %v: %v", pair.start, pair.goal, err)
		}
		bp, err := b.FindPath(context.Background(), pair.start, pair.goal, ix)
		if err != nil {
			t.Fatalf("bfs %v -> %v: %v", pair.start, pair.goal, err)
		}
		if (ap == nil) != (bp == nil) {
			t.Fatalf("%v -> %v: astar found=%v bfs found=%v", pair.start, pair.goal, ap != nil, bp != nil)
		}
		if ap != nil && ap.Steps() != bp.Steps() {
			t.Errorf("%v -> %v: astar %d steps, bfs %d steps", pair.start, pair.goal, ap.Steps(), bp.Steps())
		}
	}
}

func TestBFSDetoursAroundWall(t *testing.T) {
	ix := buildSea(5, 5,
		hex.Axial{Q: 2, R: 0}, hex.Axial{Q: 2, R: 1}, hex.Axial{Q: 2, R: 2}, hex.Axial{Q: 2, R: 3},
	)
	b := NewBFS()
	start := hex.Axial{Q: 0, R: 2}
	goal := hex.Axial{Q: 4, R: 2}

	p, err := b.FindPath(context.Background(), start, goal, ix)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertConnected(t, ix, p, start, goal)
	if want := start.DistanceTo(goal) + 2; p.Steps() != want {
		t.Errorf("path has %d steps, want %d", p.Steps(), want)
	}
}
