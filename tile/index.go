// Package tile owns the live chart's tiles and answers spatial queries
// over them: walkability, neighbor filtering, and bounded-radius scans.
// An Index is read-only from a search's perspective; callers must
// serialize chart rebuilds against in-flight searches.
package tile

import (
	"log"

	"github.com/zizul/sailboat/hex"
)

// Tile represents a single cell in the chart.
type Tile struct {
	Coord hex.Axial
	Kind  Kind
}

// Index maps axial coordinates to tiles. Keys are unique; re-inserting
// a coordinate replaces the previous tile. The index is cleared and
// rebuilt wholesale on chart switch.
type Index struct {
	tiles   map[hex.Axial]*Tile
	hexSize float64
	width   int
	height  int
}

// NewIndex creates an empty index with the given hex size.
func NewIndex(hexSize float64) *Index {
	return &Index{
		tiles:   make(map[hex.Axial]*Tile),
		hexSize: hexSize,
	}
}

// Init resets storage for a chart of the given dimensions. Subsequent
// inserts are keyed by axial coordinate, not (width, height) offsets;
// callers convert offset coordinates before inserting.
func (ix *Index) Init(width, height int, hexSize float64) {
	ix.tiles = make(map[hex.Axial]*Tile, width*height)
	ix.width = width
	ix.height = height
	ix.hexSize = hexSize
}

// Insert stores a tile at the given coordinate, replacing any existing
// tile there.
func (ix *Index) Insert(c hex.Axial, t *Tile) {
	if _, exists := ix.tiles[c]; exists {
		log.Printf("Replacing tile at (%d, %d)", c.Q, c.R)
	}
	ix.tiles[c] = t
}

// Get returns the tile at the coordinate, if present.
func (ix *Index) Get(c hex.Axial) (*Tile, bool) {
	t, ok := ix.tiles[c]
	return t, ok
}

// IsWalkable reports whether a boat may occupy the coordinate. Unknown
// coordinates are not walkable: missing and blocked tiles are
// indistinguishable so a search can never leave the generated chart.
func (ix *Index) IsWalkable(c hex.Axial) bool {
	t, ok := ix.tiles[c]
	return ok && t.Kind.Walkable()
}

// WalkableNeighbors returns the adjacent coordinates a boat may move to,
// in direction order. At most six.
func (ix *Index) WalkableNeighbors(c hex.Axial) []hex.Axial {
	out := make([]hex.Axial, 0, 6)
	for _, n := range c.Neighbors() {
		if ix.IsWalkable(n) {
			out = append(out, n)
		}
	}
	return out
}

// TilesInRadius returns the present tiles within the given hex distance
// of center, using the standard axial range scan.
func (ix *Index) TilesInRadius(center hex.Axial, radius int) []*Tile {
	out := make([]*Tile, 0, 1+3*radius*(radius+1))
	for _, c := range hex.Disk(center, radius) {
		if t, ok := ix.tiles[c]; ok {
			out = append(out, t)
		}
	}
	return out
}

// WorldToHex converts a world position to the nearest axial coordinate
// using the index's hex size.
func (ix *Index) WorldToHex(x, y float64) hex.Axial {
	return hex.FromWorld(x, y, ix.hexSize)
}

// HexToWorld converts an axial coordinate to its world position using
// the index's hex size.
func (ix *Index) HexToWorld(c hex.Axial) (x, y float64) {
	return c.ToWorld(ix.hexSize)
}

// HexSize returns the configured hex pitch.
func (ix *Index) HexSize() float64 { return ix.hexSize }

// Len returns the number of tiles in the index.
func (ix *Index) Len() int { return len(ix.tiles) }
