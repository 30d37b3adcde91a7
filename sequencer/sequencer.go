// Package sequencer decides, per airfoil, the sequence of solver sessions
// needed to assemble a converged polar: a direct attempt, a Reynolds ramp
// ladder for laminar-sensitive families, and trailing-edge surgery as the
// last resort.
package sequencer

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/kktouhidphd/2D-Aerodynamic-Analysis-Framework/airfoil"
	"github.com/kktouhidphd/2D-Aerodynamic-Analysis-Framework/geometry"
	"github.com/kktouhidphd/2D-Aerodynamic-Analysis-Framework/polar"
	"github.com/kktouhidphd/2D-Aerodynamic-Analysis-Framework/xfoil"
)

// State names one stage of the per-airfoil escalation ladder.
type State int

const (
	StateDirect State = iota
	StateReynoldsRamping
	StateGeometrySurgery
	StateExhausted
	StateDone
)

func (s State) String() string {
	switch s {
	case StateDirect:
		return "direct"
	case StateReynoldsRamping:
		return "reynolds-ramping"
	case StateGeometrySurgery:
		return "geometry-surgery"
	case StateExhausted:
		return "exhausted"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Sequencer owns the escalation state machine. The solver is abstracted
// behind xfoil.Runner so the transition logic tests against a fake.
type Sequencer struct {
	policy Policy
	runner xfoil.Runner
}

// New builds a Sequencer for the given policy and solver.
func New(policy Policy, runner xfoil.Runner) *Sequencer {
	return &Sequencer{policy: policy, runner: runner}
}

// state is the per-airfoil mutable record. It lives only for the
// duration of one Analyze call.
type state struct {
	airfoil   string
	current   State
	rampStage int
	crashes   int
}

func (st *state) fields() log.Fields {
	return log.Fields{
		"airfoil": st.airfoil,
		"state":   st.current,
		"stage":   st.rampStage,
		"crashes": st.crashes,
	}
}

// Analyze runs the full pipeline for one airfoil: generate, refine, then
// solver sessions under the escalation ladder until every angle converges
// or retries exhaust. Geometry errors abort the airfoil and are returned;
// solver failures never propagate, they end up as per-angle flags in the
// record.
func (s *Sequencer) Analyze(ctx context.Context, def airfoil.Definition, reynolds, mach float64, alphas []float64) (*polar.Record, error) {
	raw, err := airfoil.Generate(def, s.policy.GeneratorPoints)
	if err != nil {
		return nil, err
	}
	refined, err := geometry.Refine(raw, s.policy.PanelCount, s.policy.MinTEGap)
	if err != nil {
		return nil, err
	}

	rec := polar.NewRecord(def.Name, reynolds, mach, alphas)
	st := &state{airfoil: def.Name, current: StateDirect}

	direct := xfoil.Conditions{Reynolds: reynolds, Mach: mach, IterLimit: s.policy.IterLimit}
	outcome := s.runSession(ctx, st, rec, &refined, direct, alphas)

	if crashed(outcome) && ctx.Err() == nil {
		if s.policy.Sensitive(def.Name) {
			s.escalate(ctx, st, rec, refined, reynolds, mach, alphas)
		} else {
			// one cheap retry only; the full ladder is reserved for
			// flagged families to bound total solver invocations
			reduced := direct
			reduced.IterLimit = s.policy.ReducedIterLimit
			s.runSession(ctx, st, rec, &refined, reduced, rec.Unconverged())
		}
	}

	if rec.Complete() {
		st.current = StateDone
	} else {
		st.current = StateExhausted
	}
	log.WithFields(st.fields()).WithField("unconverged", len(rec.Unconverged())).
		Info("analysis finished")
	return rec, nil
}

// escalate runs the ramp ladder on the original geometry and, if a rung
// still crashes, restarts it on a widened-trailing-edge variant with
// damped iteration.
func (s *Sequencer) escalate(ctx context.Context, st *state, rec *polar.Record, refined geometry.Refined, reynolds, mach float64, alphas []float64) {
	st.current = StateReynoldsRamping
	st.rampStage = 0
	log.WithFields(st.fields()).Warn("direct session failed, starting Reynolds ramp")
	if s.runRamp(ctx, st, rec, &refined, reynolds, mach, alphas, false) {
		return
	}
	if st.crashes > s.policy.MaxCrashes || ctx.Err() != nil {
		return
	}

	st.current = StateGeometrySurgery
	st.rampStage = 0
	log.WithFields(st.fields()).Warn("ramp failed, retrying on widened trailing edge")
	variant := geometry.WidenTrailingEdge(refined, s.policy.SurgicalTEGap)
	s.runRamp(ctx, st, rec, &variant, reynolds, mach, alphas, true)
}

// runRamp climbs the Reynolds ladder on geom, seeding each rung with the
// previous rung's Reynolds number. Points from lower rungs enter the
// record too; the final full-Reynolds rung overrides them under the merge
// rule, and they remain as the best partial result when the ladder dies
// early. Returns false when a rung crashed or hung.
func (s *Sequencer) runRamp(ctx context.Context, st *state, rec *polar.Record, geom *geometry.Refined, reynolds, mach float64, alphas []float64, damped bool) bool {
	seed := 0.0
	for i, frac := range s.policy.RampFractions {
		if ctx.Err() != nil || st.crashes > s.policy.MaxCrashes {
			return false
		}
		st.rampStage = i
		target := frac * reynolds
		cond := xfoil.Conditions{
			Reynolds:     target,
			Mach:         mach,
			SeedReynolds: seed,
			IterLimit:    s.policy.IterLimit,
			Damped:       damped,
		}
		outcome := s.runSession(ctx, st, rec, geom, cond, alphas)
		if crashed(outcome) {
			return false
		}
		seed = target
	}
	return true
}

// runSession invokes the solver once, folds its points into the record
// and accounts for crashes.
func (s *Sequencer) runSession(ctx context.Context, st *state, rec *polar.Record, geom *geometry.Refined, cond xfoil.Conditions, alphas []float64) xfoil.Status {
	if len(alphas) == 0 {
		return xfoil.Completed
	}
	res := s.runner.Run(ctx, xfoil.Session{Geometry: geom, Conditions: cond, Alphas: alphas})
	rec.MergeAll(res.Points)
	if crashed(res.Status) {
		st.crashes++
	}
	log.WithFields(st.fields()).WithFields(log.Fields{
		"re":     cond.Reynolds,
		"status": res.Status,
		"points": len(res.Points),
	}).Debug("session outcome")
	return res.Status
}

func crashed(s xfoil.Status) bool {
	return s == xfoil.Crashed || s == xfoil.HungTimeout
}
