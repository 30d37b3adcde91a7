// Package polar aggregates per-angle aerodynamic coefficients across
// solver sessions into one record per airfoil.
package polar

import (
	"math"
	"sort"
)

// Point is one evaluated angle of attack.
type Point struct {
	Alpha     float64 `json:"alpha"` // degrees
	CL        float64 `json:"cl"`
	CD        float64 `json:"cd"`
	CM        float64 `json:"cm"`
	LD        float64 `json:"ld"`
	Converged bool    `json:"converged"`
	Surgical  bool    `json:"surgical"` // obtained on a widened-trailing-edge variant
}

// Record is the cumulative polar for one airfoil at fixed operating
// conditions. Sessions contribute points through Merge; the record never
// drops a requested angle, unconverged ones keep their flag.
type Record struct {
	Airfoil  string
	Reynolds float64
	Mach     float64
	points   map[int64]Point
}

// alphaKey buckets angles to a thousandth of a degree so values parsed
// back from solver text match the requested sweep.
func alphaKey(alpha float64) int64 {
	return int64(math.Round(alpha * 1000))
}

// NewRecord seeds a record with every requested angle flagged unconverged.
func NewRecord(airfoil string, reynolds, mach float64, alphas []float64) *Record {
	r := &Record{
		Airfoil:  airfoil,
		Reynolds: reynolds,
		Mach:     mach,
		points:   make(map[int64]Point, len(alphas)),
	}
	for _, a := range alphas {
		r.points[alphaKey(a)] = Point{Alpha: a}
	}
	return r
}

// Merge applies the session tie-break rule: a new point replaces the
// stored one unless that would swap a converged point for an unconverged
// one, or a converged non-surgical point for a surgical one.
func (r *Record) Merge(p Point) {
	key := alphaKey(p.Alpha)
	cur, ok := r.points[key]
	if ok && cur.Converged {
		if !p.Converged {
			return
		}
		if !cur.Surgical && p.Surgical {
			return
		}
	}
	r.points[key] = p
}

// MergeAll merges a batch of session points.
func (r *Record) MergeAll(pts []Point) {
	for _, p := range pts {
		r.Merge(p)
	}
}

// Points returns all angles sorted ascending.
func (r *Record) Points() []Point {
	out := make([]Point, 0, len(r.points))
	for _, p := range r.points {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Alpha < out[j].Alpha })
	return out
}

// Unconverged returns the angles still lacking a converged point,
// sorted ascending.
func (r *Record) Unconverged() []float64 {
	var out []float64
	for _, p := range r.points {
		if !p.Converged {
			out = append(out, p.Alpha)
		}
	}
	sort.Float64s(out)
	return out
}

// Complete reports whether every requested angle has a converged point.
func (r *Record) Complete() bool {
	for _, p := range r.points {
		if !p.Converged {
			return false
		}
	}
	return true
}
