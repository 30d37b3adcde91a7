package sequencer

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kktouhidphd/2D-Aerodynamic-Analysis-Framework/airfoil"
	"github.com/kktouhidphd/2D-Aerodynamic-Analysis-Framework/polar"
	"github.com/kktouhidphd/2D-Aerodynamic-Analysis-Framework/xfoil"
)

// fakeRunner scripts solver outcomes per call and records every session
// for transition assertions.
type fakeRunner struct {
	mu       sync.Mutex
	sessions []xfoil.Session
	outcome  func(call int, s xfoil.Session) xfoil.Result
}

func (f *fakeRunner) Run(_ context.Context, s xfoil.Session) xfoil.Result {
	f.mu.Lock()
	call := len(f.sessions)
	f.sessions = append(f.sessions, s)
	f.mu.Unlock()
	return f.outcome(call, s)
}

// converged fabricates a fully converged result for the session's sweep.
func converged(s xfoil.Session) xfoil.Result {
	pts := make([]polar.Point, len(s.Alphas))
	for i, a := range s.Alphas {
		pts[i] = polar.Point{
			Alpha:     a,
			CL:        0.11 * a,
			CD:        0.006,
			CM:        -0.002,
			Converged: true,
			Surgical:  s.Geometry.Surgical,
		}
	}
	return xfoil.Result{Status: xfoil.Completed, Points: pts}
}

func crashedResult() xfoil.Result {
	return xfoil.Result{Status: xfoil.Crashed}
}

var testAlphas = []float64{-2, 0, 2, 4, 6}

func mustDef(t *testing.T, code string) airfoil.Definition {
	t.Helper()
	def, err := airfoil.ParseCode(code)
	require.NoError(t, err)
	return def
}

func TestDirectSessionConvergesAll(t *testing.T) {
	fake := &fakeRunner{outcome: func(_ int, s xfoil.Session) xfoil.Result { return converged(s) }}
	seq := New(DefaultPolicy(), fake)

	rec, err := seq.Analyze(context.Background(), mustDef(t, "0012"), 1e6, 0, testAlphas)
	require.NoError(t, err)
	require.Equal(t, 1, len(fake.sessions), "direct run should need one session")
	assert.True(t, rec.Complete())
	for _, p := range rec.Points() {
		assert.True(t, p.Converged)
		assert.False(t, p.Surgical)
	}
	assert.InDelta(t, 1e6, fake.sessions[0].Conditions.Reynolds, 1e-9)
	assert.Zero(t, fake.sessions[0].Conditions.SeedReynolds)
}

func TestInvalidDefinitionNeverReachesSolver(t *testing.T) {
	fake := &fakeRunner{outcome: func(_ int, s xfoil.Session) xfoil.Result { return converged(s) }}
	seq := New(DefaultPolicy(), fake)

	def := airfoil.Definition{Name: "bogus", Family: airfoil.Family4Digit, Thickness: -1}
	rec, err := seq.Analyze(context.Background(), def, 1e6, 0, testAlphas)
	assert.ErrorIs(t, err, airfoil.ErrInvalidParameter)
	assert.Nil(t, rec)
	assert.Empty(t, fake.sessions, "no solver session for invalid geometry")
}

func TestSensitiveCrashEntersReynoldsRamp(t *testing.T) {
	fake := &fakeRunner{outcome: func(call int, s xfoil.Session) xfoil.Result {
		if call == 0 {
			return crashedResult()
		}
		return converged(s)
	}}
	policy := DefaultPolicy()
	seq := New(policy, fake)

	rec, err := seq.Analyze(context.Background(), mustDef(t, "63012a"), 3e6, 0, testAlphas)
	require.NoError(t, err)

	// direct + every ramp rung
	require.Equal(t, 1+len(policy.RampFractions), len(fake.sessions))
	for i, frac := range policy.RampFractions {
		s := fake.sessions[1+i]
		assert.InDelta(t, frac*3e6, s.Conditions.Reynolds, 1e-6, "rung %d", i)
		if i == 0 {
			assert.Zero(t, s.Conditions.SeedReynolds)
		} else {
			assert.InDelta(t, policy.RampFractions[i-1]*3e6, s.Conditions.SeedReynolds, 1e-6, "rung %d seed", i)
		}
		assert.False(t, s.Geometry.Surgical)
		assert.False(t, s.Conditions.Damped)
	}
	assert.True(t, rec.Complete())
	for _, p := range rec.Points() {
		assert.False(t, p.Surgical, "ramp on original geometry is not surgical")
	}
}

func TestRampCrashEscalatesToSurgery(t *testing.T) {
	policy := DefaultPolicy()
	fake := &fakeRunner{outcome: func(call int, s xfoil.Session) xfoil.Result {
		// direct and the first ramp rung crash; the surgical ladder works
		if call <= 1 {
			return crashedResult()
		}
		return converged(s)
	}}
	seq := New(policy, fake)

	rec, err := seq.Analyze(context.Background(), mustDef(t, "63012a"), 3e6, 0, testAlphas)
	require.NoError(t, err)

	// direct + aborted rung + full surgical ladder
	require.Equal(t, 2+len(policy.RampFractions), len(fake.sessions))
	for _, s := range fake.sessions[2:] {
		assert.True(t, s.Geometry.Surgical)
		assert.True(t, s.Conditions.Damped)
		assert.GreaterOrEqual(t, s.Geometry.TEGap(), policy.SurgicalTEGap-1e-9)
	}
	assert.True(t, rec.Complete())
	for _, p := range rec.Points() {
		assert.True(t, p.Surgical, "points from the surgical ladder carry the tag")
	}
}

func TestNonSensitiveCrashGetsSingleReducedRetry(t *testing.T) {
	policy := DefaultPolicy()
	fake := &fakeRunner{outcome: func(int, xfoil.Session) xfoil.Result {
		return crashedResult()
	}}
	seq := New(policy, fake)

	rec, err := seq.Analyze(context.Background(), mustDef(t, "0012"), 1e6, 0, testAlphas)
	require.NoError(t, err)

	require.Equal(t, 2, len(fake.sessions), "one direct attempt, one reduced retry")
	assert.Equal(t, policy.IterLimit, fake.sessions[0].Conditions.IterLimit)
	assert.Equal(t, policy.ReducedIterLimit, fake.sessions[1].Conditions.IterLimit)

	assert.False(t, rec.Complete())
	assert.Equal(t, len(testAlphas), len(rec.Points()), "angles are flagged, never dropped")
	for _, p := range rec.Points() {
		assert.False(t, p.Converged)
	}
}

func TestCrashCeilingStopsEscalation(t *testing.T) {
	policy := DefaultPolicy()
	policy.MaxCrashes = 1
	fake := &fakeRunner{outcome: func(int, xfoil.Session) xfoil.Result {
		return crashedResult()
	}}
	seq := New(policy, fake)

	rec, err := seq.Analyze(context.Background(), mustDef(t, "63012a"), 3e6, 0, testAlphas)
	require.NoError(t, err)

	// direct crash, first rung crash, then the ceiling forbids surgery
	assert.Equal(t, 2, len(fake.sessions))
	assert.False(t, rec.Complete())
}

func TestHungTimeoutTreatedAsCrash(t *testing.T) {
	policy := DefaultPolicy()
	fake := &fakeRunner{outcome: func(call int, s xfoil.Session) xfoil.Result {
		if call == 0 {
			return xfoil.Result{Status: xfoil.HungTimeout}
		}
		return converged(s)
	}}
	seq := New(policy, fake)

	rec, err := seq.Analyze(context.Background(), mustDef(t, "63012a"), 3e6, 0, testAlphas)
	require.NoError(t, err)
	assert.Equal(t, 1+len(policy.RampFractions), len(fake.sessions))
	assert.True(t, rec.Complete())
}

func TestConvergenceFailureDoesNotEscalate(t *testing.T) {
	fake := &fakeRunner{outcome: func(_ int, s xfoil.Session) xfoil.Result {
		res := converged(s)
		res.Status = xfoil.ConvergenceFailure
		res.Points = res.Points[:len(res.Points)-1]
		return res
	}}
	seq := New(DefaultPolicy(), fake)

	rec, err := seq.Analyze(context.Background(), mustDef(t, "63012a"), 3e6, 0, testAlphas)
	require.NoError(t, err)
	assert.Equal(t, 1, len(fake.sessions), "the ramp ladder is reserved for crashes")
	assert.False(t, rec.Complete())
	assert.Equal(t, 1, len(rec.Unconverged()))
}

func TestFinalRungOverridesLowerReynoldsPoints(t *testing.T) {
	policy := DefaultPolicy()
	fake := &fakeRunner{outcome: func(call int, s xfoil.Session) xfoil.Result {
		if call == 0 {
			return crashedResult()
		}
		res := converged(s)
		for i := range res.Points {
			res.Points[i].CL = s.Conditions.Reynolds // marker for provenance
		}
		return res
	}}
	seq := New(policy, fake)

	rec, err := seq.Analyze(context.Background(), mustDef(t, "63012a"), 3e6, 0, testAlphas)
	require.NoError(t, err)
	for _, p := range rec.Points() {
		assert.InDelta(t, 3e6, p.CL, 1e-6, "full-Reynolds rung should win the merge")
	}
}
