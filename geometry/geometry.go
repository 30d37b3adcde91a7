package geometry

import "math"

// closeTol is the tolerance for treating the two trailing-edge endpoints
// as coincident when checking loop closure.
const closeTol = 1e-6

// Point is one surface coordinate, chord-normalized (x in [0,1]).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the euclidean distance to q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Raw is an airfoil surface as produced by the generator or read from a
// coordinate file: ordered trailing edge -> upper surface -> leading edge
// -> lower surface -> trailing edge. Point count is odd so the leading
// edge point is shared by both surfaces.
type Raw struct {
	Name   string
	Points []Point
}

// Closed reports whether first and last point coincide at the trailing edge.
func (r Raw) Closed() bool {
	if len(r.Points) < 2 {
		return false
	}
	return r.Points[0].Dist(r.Points[len(r.Points)-1]) < closeTol
}

// LeadingEdgeIndex returns the index of the shared leading-edge point.
func (r Raw) LeadingEdgeIndex() int {
	// the minimum-x point; for generator output this is the middle index
	le, min := 0, math.Inf(1)
	for i, p := range r.Points {
		if p.X < min {
			min = p.X
			le = i
		}
	}
	return le
}

// Refined is a resampled, spline-smoothed surface with a fixed panel count
// and an enforced trailing-edge gap. Treated as read-only once built; the
// sequencer hands it by reference to every solver session.
type Refined struct {
	Name     string
	Points   []Point
	Panels   int
	Surgical bool // trailing edge widened beyond the refiner minimum
}

// TEGap returns the distance between the upper and lower trailing-edge
// endpoints.
func (r Refined) TEGap() float64 {
	if len(r.Points) < 2 {
		return 0
	}
	return r.Points[0].Dist(r.Points[len(r.Points)-1])
}
