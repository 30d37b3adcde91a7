package polar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecordSeedsUnconverged(t *testing.T) {
	r := NewRecord("NACA 0012", 1e6, 0, []float64{-2, 0, 2})
	assert.False(t, r.Complete())
	assert.Equal(t, []float64{-2, 0, 2}, r.Unconverged())

	pts := r.Points()
	require.Equal(t, 3, len(pts))
	for _, p := range pts {
		assert.False(t, p.Converged)
	}
}

func TestMergeTieBreak(t *testing.T) {
	cases := []struct {
		name     string
		current  Point
		incoming Point
		replaced bool
	}{
		{
			name:     "converged replaces unconverged",
			current:  Point{Alpha: 2},
			incoming: Point{Alpha: 2, CL: 0.5, Converged: true},
			replaced: true,
		},
		{
			name:     "unconverged never replaces converged",
			current:  Point{Alpha: 2, CL: 0.5, Converged: true},
			incoming: Point{Alpha: 2},
			replaced: false,
		},
		{
			name:     "surgical never replaces converged non-surgical",
			current:  Point{Alpha: 2, CL: 0.5, Converged: true},
			incoming: Point{Alpha: 2, CL: 0.6, Converged: true, Surgical: true},
			replaced: false,
		},
		{
			name:     "non-surgical replaces converged surgical",
			current:  Point{Alpha: 2, CL: 0.5, Converged: true, Surgical: true},
			incoming: Point{Alpha: 2, CL: 0.6, Converged: true},
			replaced: true,
		},
		{
			name:     "later converged replaces earlier converged",
			current:  Point{Alpha: 2, CL: 0.5, Converged: true},
			incoming: Point{Alpha: 2, CL: 0.6, Converged: true},
			replaced: true,
		},
		{
			name:     "surgical replaces converged surgical",
			current:  Point{Alpha: 2, CL: 0.5, Converged: true, Surgical: true},
			incoming: Point{Alpha: 2, CL: 0.6, Converged: true, Surgical: true},
			replaced: true,
		},
		{
			name:     "later unconverged replaces earlier unconverged",
			current:  Point{Alpha: 2, CL: 0.1},
			incoming: Point{Alpha: 2, CL: 0.2},
			replaced: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRecord("foil", 1e6, 0, []float64{2})
			r.Merge(tc.current)
			r.Merge(tc.incoming)
			got := r.Points()[0]
			if tc.replaced {
				assert.Equal(t, tc.incoming, got)
			} else {
				assert.Equal(t, tc.current, got)
			}
		})
	}
}

func TestMergeNeverDropsAngles(t *testing.T) {
	alphas := []float64{-2, 0, 2, 4, 6}
	r := NewRecord("foil", 3e6, 0, alphas)
	r.MergeAll([]Point{
		{Alpha: -2, CL: -0.2, Converged: true},
		{Alpha: 0, CL: 0.0, Converged: true},
	})
	assert.False(t, r.Complete())
	assert.Equal(t, []float64{2, 4, 6}, r.Unconverged())
	assert.Equal(t, len(alphas), len(r.Points()))
}

func TestMergeAlphaMatchingFromParsedText(t *testing.T) {
	r := NewRecord("foil", 1e6, 0, []float64{2})
	// parsed back from solver text as 2.000
	r.Merge(Point{Alpha: 2.000, CL: 0.24, Converged: true})
	assert.True(t, r.Complete())
}
