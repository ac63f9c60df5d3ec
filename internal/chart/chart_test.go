package chart

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zizul/sailboat/hex"
	"github.com/zizul/sailboat/tile"
)

const straitChart = `
name: strait
legend:
  "~": water
  ",": shallows
  "#": harbor
  "^": island
rows:
  - "~~~~~"
  - "~~^~~"
  - "#~^~,"
  - "~~^~~"
  - "~~~~~"
`

func writeChart(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chart.yaml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadValidChart(t *testing.T) {
	ch, err := Load(writeChart(t, straitChart))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ch.Name != "strait" {
		t.Errorf("name = %q, want strait", ch.Name)
	}
	if ch.Width() != 5 || ch.Height() != 5 {
		t.Errorf("dimensions = %dx%d, want 5x5", ch.Width(), ch.Height())
	}
}

func TestLoadRejectsBadCharts(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"no rows", "name: empty\nlegend:\n  \"~\": water\n"},
		{"ragged rows", "name: ragged\nlegend:\n  \"~\": water\nrows:\n  - \"~~~\"\n  - \"~~\"\n"},
		{"rune not in legend", "name: stray\nlegend:\n  \"~\": water\nrows:\n  - \"~x~\"\n"},
		{"unknown terrain kind", "name: lava\nlegend:\n  \"~\": lava\nrows:\n  - \"~~~\"\n"},
		{"multi-rune symbol", "name: wide\nlegend:\n  \"~~\": water\nrows:\n  - \"~\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeChart(t, tt.contents)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestBuildIndex(t *testing.T) {
	ch, err := Load(writeChart(t, straitChart))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	ix := ch.BuildIndex(1.0)
	if ix.Len() != 25 {
		t.Fatalf("index has %d tiles, want 25", ix.Len())
	}

	// Row 0, col 0 is water at axial (0, 0).
	if !ix.IsWalkable(hex.Axial{Q: 0, R: 0}) {
		t.Error("(0,0) should be walkable water")
	}
	// Row 1, col 2 is an island at axial q = 2 - (1-1)/2 = 2, r = 1.
	if ix.IsWalkable(hex.Axial{Q: 2, R: 1}) {
		t.Error("(2,1) should be a blocked island")
	}
	// Row 2, col 0 is a harbor at axial q = 0 - (2-0)/2 = -1, r = 2.
	got, ok := ix.Get(hex.Axial{Q: -1, R: 2})
	if !ok || got.Kind != tile.Harbor {
		t.Errorf("tile at (-1,2) = %+v, want harbor", got)
	}
	// Row 2, col 4 is shallows at axial q = 4 - 1 = 3, r = 2.
	got, ok = ix.Get(hex.Axial{Q: 3, R: 2})
	if !ok || got.Kind != tile.Shallows {
		t.Errorf("tile at (3,2) = %+v, want shallows", got)
	}
}

func TestOffsetToAxialAdjacency(t *testing.T) {
	// Offset neighbors in the same row must stay axial neighbors after
	// conversion, for every row parity.
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			a := offsetToAxial(col, row)
			b := offsetToAxial(col+1, row)
			if a.DistanceTo(b) != 1 {
				t.Errorf("offset (%d,%d)-(%d,%d) maps to distance %d", col, row, col+1, row, a.DistanceTo(b))
			}
			c := offsetToAxial(col, row+1)
			if a.DistanceTo(c) != 1 {
				t.Errorf("offset (%d,%d)-(%d,%d) maps to distance %d", col, row, col, row+1, a.DistanceTo(c))
			}
		}
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := writeChart(t, straitChart)

	reloaded := make(chan *Chart, 4)
	w, err := Watch(path, 50*time.Millisecond, func(ch *Chart) {
		reloaded <- ch
	})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	updated := "name: updated\nlegend:\n  \"~\": water\nrows:\n  - \"~~\"\n  - \"~~\"\n"
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case ch := <-reloaded:
		if ch.Name != "updated" {
			t.Errorf("reloaded chart name = %q, want updated", ch.Name)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcherKeepsPreviousChartOnParseFailure(t *testing.T) {
	path := writeChart(t, straitChart)

	reloaded := make(chan *Chart, 4)
	w, err := Watch(path, 50*time.Millisecond, func(ch *Chart) {
		reloaded <- ch
	})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("rows: [not valid"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case ch := <-reloaded:
		t.Errorf("broken chart triggered reload: %+v", ch)
	case <-time.After(500 * time.Millisecond):
		// No reload: previous chart stays live.
	}
}
