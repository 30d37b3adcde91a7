package geometry

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
)

// ErrDegenerateGeometry means refinement cannot produce a valid panel set
// from the input surface. Fatal for that airfoil's analysis.
var ErrDegenerateGeometry = errors.New("degenerate geometry")

// minSurfacePoints is the least number of input points per surface the
// cubic fit accepts.
const minSurfacePoints = 4

// Refine fits a cubic spline through each surface of raw, parametrized by
// normalized arc-length, and resamples it at panels+1 cosine-clustered
// stations. Point density concentrates at the trailing edge (both ends of
// the loop) and at the shared leading edge. The trailing-edge gap is
// forced up to minGap when the fitted surfaces close tighter than that; a
// knife-edge trailing edge destabilizes the viscous solver.
func Refine(raw Raw, panels int, minGap float64) (Refined, error) {
	if panels < 8 {
		return Refined{}, fmt.Errorf("geometry: panel count %d too low: %w", panels, ErrDegenerateGeometry)
	}
	if panels%2 != 0 {
		panels++ // surfaces share the leading edge, panels split evenly
	}

	le := raw.LeadingEdgeIndex()
	upper := raw.Points[:le+1] // trailing edge -> leading edge
	lower := raw.Points[le:]   // leading edge -> trailing edge
	if len(upper) < minSurfacePoints || len(lower) < minSurfacePoints {
		return Refined{}, fmt.Errorf("geometry: %d/%d points per surface: %w", len(upper), len(lower), ErrDegenerateGeometry)
	}

	half := panels / 2
	up, err := resampleSurface(upper, half)
	if err != nil {
		return Refined{}, err
	}
	lo, err := resampleSurface(lower, half)
	if err != nil {
		return Refined{}, err
	}

	pts := make([]Point, 0, panels+1)
	pts = append(pts, up...)
	pts = append(pts, lo[1:]...)

	// A fit that folds the upper surface under the lower one is unusable.
	// Upper index j and lower index half-j sit at the same fraction of
	// arc-length from the leading edge; compare them away from the edges
	// where the stations line up.
	for j := 1; j < half; j++ {
		u, l := up[j], lo[half-j]
		if u.X < 0.03 || u.X > 0.97 {
			continue
		}
		if u.Y < l.Y-1e-6 {
			return Refined{}, fmt.Errorf("geometry: surfaces cross at x=%.4f: %w", u.X, ErrDegenerateGeometry)
		}
	}

	widenTE(pts, minGap)

	return Refined{Name: raw.Name, Points: pts, Panels: panels}, nil
}

// WidenTrailingEdge returns a surgical variant of r with the trailing-edge
// gap enlarged to at least gap. The displacement is blended over the rear
// half-chord so the surface stays smooth ahead of the cut.
func WidenTrailingEdge(r Refined, gap float64) Refined {
	pts := make([]Point, len(r.Points))
	copy(pts, r.Points)
	widenTE(pts, gap)
	return Refined{Name: r.Name, Points: pts, Panels: r.Panels, Surgical: true}
}

// widenTE separates the upper and lower trailing-edge endpoints
// symmetrically until their distance reaches target. Points forward of
// mid-chord are untouched; behind it the shift grows quadratically to its
// full value at the trailing edge.
func widenTE(pts []Point, target float64) {
	if len(pts) < 2 {
		return
	}
	first, last := pts[0], pts[len(pts)-1]
	gap := first.Dist(last)
	if gap >= target {
		return
	}
	dx, dy := 0.0, 1.0
	if gap > 0 {
		dx = (first.X - last.X) / gap
		dy = (first.Y - last.Y) / gap
	}
	delta := (target - gap) / 2
	half := (len(pts) - 1) / 2
	for i := range pts {
		if pts[i].X <= 0.5 {
			continue
		}
		blend := (pts[i].X - 0.5) / 0.5
		blend *= blend
		if i <= half { // upper surface
			pts[i].X += dx * delta * blend
			pts[i].Y += dy * delta * blend
		} else {
			pts[i].X -= dx * delta * blend
			pts[i].Y -= dy * delta * blend
		}
	}
}

// resampleSurface fits x(s) and y(s) cubics over normalized arc-length and
// evaluates them at n+1 cosine-clustered parameters
// u_j = 0.5*(1 - cos(pi*j/n)), dense at both ends of the surface.
func resampleSurface(pts []Point, n int) ([]Point, error) {
	s := make([]float64, len(pts))
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		if i > 0 {
			d := p.Dist(pts[i-1])
			if d == 0 {
				return nil, fmt.Errorf("geometry: duplicate adjacent point at %d: %w", i, ErrDegenerateGeometry)
			}
			s[i] = s[i-1] + d
		}
		xs[i] = p.X
		ys[i] = p.Y
	}
	total := s[len(s)-1]
	for i := range s {
		s[i] /= total
	}

	var fx, fy interp.NaturalCubic
	if err := fx.Fit(s, xs); err != nil {
		return nil, fmt.Errorf("geometry: fit x(s): %w", err)
	}
	if err := fy.Fit(s, ys); err != nil {
		return nil, fmt.Errorf("geometry: fit y(s): %w", err)
	}

	out := make([]Point, n+1)
	for j := 0; j <= n; j++ {
		u := 0.5 * (1 - math.Cos(math.Pi*float64(j)/float64(n)))
		out[j] = Point{X: fx.Predict(u), Y: fy.Predict(u)}
	}
	// the fit passes through the input endpoints; pin them exactly so
	// repeated refinement is bit-stable
	out[0] = pts[0]
	out[n] = pts[len(pts)-1]
	return out, nil
}
