package tile

// Kind classifies the terrain of a single sea-chart cell.
type Kind int

const (
	Water Kind = iota
	Shallows
	Harbor
	Island
)

// String returns the chart legend name for the kind.
func (k Kind) String() string {
	switch k {
	case Water:
		return "water"
	case Shallows:
		return "shallows"
	case Harbor:
		return "harbor"
	case Island:
		return "island"
	default:
		return "unknown"
	}
}

// Walkable reports whether a boat can occupy or pass through this kind
// of cell. Only the walkability projection matters to the search core.
func (k Kind) Walkable() bool {
	return k != Island
}
