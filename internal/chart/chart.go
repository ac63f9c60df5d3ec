// Package chart loads sea-chart files and builds the tile index the
// search core reads. A chart is a YAML document with a legend mapping
// runes to terrain kinds and a list of equal-width row strings laid out
// in odd-r offset coordinates.
package chart

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zizul/sailboat/hex"
	"github.com/zizul/sailboat/tile"
)

// Chart is a parsed sea-chart file.
type Chart struct {
	Name   string            `yaml:"name"`
	Legend map[string]string `yaml:"legend"`
	Rows   []string          `yaml:"rows"`
}

// Load reads and validates a chart file.
func Load(path string) (*Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart file: %w", err)
	}

	var ch Chart
	if err := yaml.Unmarshal(data, &ch); err != nil {
		return nil, fmt.Errorf("failed to parse chart file: %w", err)
	}

	if err := ch.validate(); err != nil {
		return nil, fmt.Errorf("invalid chart %q: %w", ch.Name, err)
	}
	return &ch, nil
}

func (ch *Chart) validate() error {
	if len(ch.Rows) == 0 {
		return fmt.Errorf("chart has no rows")
	}
	width := len([]rune(ch.Rows[0]))
	if width == 0 {
		return fmt.Errorf("chart rows are empty")
	}
	for i, row := range ch.Rows {
		if len([]rune(row)) != width {
			return fmt.Errorf("row %d has %d cells, want %d", i, len([]rune(row)), width)
		}
	}
	for sym, name := range ch.Legend {
		if len([]rune(sym)) != 1 {
			return fmt.Errorf("legend symbol %q is not a single rune", sym)
		}
		if _, err := kindByName(name); err != nil {
			return err
		}
	}
	for i, row := range ch.Rows {
		for j, r := range []rune(row) {
			if _, ok := ch.Legend[string(r)]; !ok {
				return fmt.Errorf("row %d col %d: rune %q not in legend", i, j, r)
			}
		}
	}
	return nil
}

// Width returns the number of columns in the chart.
func (ch *Chart) Width() int { return len([]rune(ch.Rows[0])) }

// Height returns the number of rows in the chart.
func (ch *Chart) Height() int { return len(ch.Rows) }

// BuildIndex converts the offset-coordinate rows into an axial-keyed
// tile index with the given hex size.
func (ch *Chart) BuildIndex(hexSize float64) *tile.Index {
	ix := tile.NewIndex(hexSize)
	ix.Init(ch.Width(), ch.Height(), hexSize)

	for row, line := range ch.Rows {
		for col, r := range []rune(line) {
			kind, _ := kindByName(ch.Legend[string(r)])
			c := offsetToAxial(col, row)
			ix.Insert(c, &tile.Tile{Coord: c, Kind: kind})
		}
	}

	log.Printf("Chart %q built: %dx%d, %d tiles", ch.Name, ch.Width(), ch.Height(), ix.Len())
	return ix
}

// offsetToAxial converts odd-r offset coordinates (col, row) to axial.
func offsetToAxial(col, row int) hex.Axial {
	return hex.Axial{
		Q: col - (row-(row&1))/2,
		R: row,
	}
}

func kindByName(name string) (tile.Kind, error) {
	switch name {
	case "water":
		return tile.Water, nil
	case "shallows":
		return tile.Shallows, nil
	case "harbor":
		return tile.Harbor, nil
	case "island":
		return tile.Island, nil
	default:
		return 0, fmt.Errorf("unknown terrain kind %q", name)
	}
}
