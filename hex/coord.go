package hex

import "math"

// Axial represents axial coordinates (q, r) for pointy-top orientation.
// The third cube axis is derived as s = -q-r and never stored.
type Axial struct {
	Q int
	R int
}

// Cube represents cube coordinates (x, y, z) with x+y+z=0.
type Cube struct {
	X int
	Y int
	Z int
}

// Directions for axial neighbors in pointy-top orientation.
var Directions = [6]Axial{
	{+1, 0}, {+1, -1}, {0, -1}, {-1, 0}, {-1, +1}, {0, +1},
}

// S returns the derived third cube axis, so that Q+R+S() == 0.
func (a Axial) S() int { return -a.Q - a.R }

// Add returns a+b in axial space.
func (a Axial) Add(b Axial) Axial { return Axial{a.Q + b.Q, a.R + b.R} }

// Mul scales an axial vector by k.
func (a Axial) Mul(k int) Axial { return Axial{a.Q * k, a.R * k} }

// Neighbor returns the adjacent coordinate in the given direction.
// The direction index is taken modulo 6; negative indices wrap forward.
func (a Axial) Neighbor(dir int) Axial {
	dir = ((dir % 6) + 6) % 6
	return a.Add(Directions[dir])
}

// Neighbors returns the six adjacent coordinates in direction order.
func (a Axial) Neighbors() [6]Axial {
	var out [6]Axial
	for i, d := range Directions {
		out[i] = a.Add(d)
	}
	return out
}

// ToCube converts axial to cube.
func (a Axial) ToCube() Cube {
	x := a.Q
	z := a.R
	y := -x - z
	return Cube{X: x, Y: y, Z: z}
}

// ToAxial converts cube to axial.
func (c Cube) ToAxial() Axial { return Axial{Q: c.X, R: c.Z} }

// DistanceTo returns the hex distance between two axial coords:
// (|dq| + |dr| + |ds|) / 2, always a non-negative integer.
func (a Axial) DistanceTo(b Axial) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S() - b.S())
	return (dq + dr + ds) / 2
}

// ToWorld converts axial to world coordinates for pointy-top layout.
// size is the hex radius (corner to center) in world units.
func (a Axial) ToWorld(size float64) (x, y float64) {
	// pointy-top: x = size*sqrt(3)*(q + r/2); y = size*3/2*r
	x = size * math.Sqrt(3) * (float64(a.Q) + float64(a.R)/2.0)
	y = size * 1.5 * float64(a.R)
	return
}

// FromWorld converts a world position back to the nearest axial coordinate.
// The fractional cube coordinates are rounded per axis, then the axis with
// the largest rounding error is recomputed from the other two so that
// q+r+s == 0 holds exactly. When the q and r deltas tie, r is corrected.
func FromWorld(x, y, size float64) Axial {
	fq := (math.Sqrt(3)/3.0*x - y/3.0) / size
	fr := (2.0 / 3.0 * y) / size
	fs := -fq - fr

	q := math.Round(fq)
	r := math.Round(fr)
	s := math.Round(fs)

	dq := math.Abs(q - fq)
	dr := math.Abs(r - fr)
	ds := math.Abs(s - fs)

	if dq > dr && dq > ds {
		q = -r - s
	} else if dr > ds {
		r = -q - s
	}
	// s would be corrected otherwise, but it is derived and dropped anyway.

	return Axial{Q: int(q), R: int(r)}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
