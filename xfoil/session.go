// Package xfoil drives single invocations of the external viscous solver:
// command scripting, hard timeout enforcement, scratch-file lifecycle and
// output capture.
package xfoil

import (
	"context"
	"time"

	"github.com/kktouhidphd/2D-Aerodynamic-Analysis-Framework/geometry"
	"github.com/kktouhidphd/2D-Aerodynamic-Analysis-Framework/polar"
)

// Status is the outcome of one solver invocation. Session outcomes drive
// the sequencer's state machine; they are never surfaced as errors.
type Status int

const (
	// Completed means the process exited cleanly and every requested
	// angle appears in the polar table.
	Completed Status = iota
	// Crashed means the process terminated abnormally.
	Crashed
	// HungTimeout means the wall-clock bound expired and the process
	// was killed.
	HungTimeout
	// ConvergenceFailure means the process completed but one or more
	// requested angles did not converge (or the table was unreadable).
	ConvergenceFailure
)

func (s Status) String() string {
	switch s {
	case Completed:
		return "completed"
	case Crashed:
		return "crashed"
	case HungTimeout:
		return "hung-timeout"
	case ConvergenceFailure:
		return "convergence-failure"
	default:
		return "unknown"
	}
}

// Conditions are the operating conditions for one session.
type Conditions struct {
	Reynolds float64
	Mach     float64
	// SeedReynolds, when nonzero, warms the boundary-layer solution up
	// at a lower Reynolds number before switching to the target. Used
	// by the ramp ladder.
	SeedReynolds float64
	IterLimit    int
	// Damped enables solution relaxation and acceleration damping for
	// geometries that make the viscous iteration oscillate.
	Damped bool
}

// Session describes exactly one solver invocation.
type Session struct {
	Geometry   *geometry.Refined
	Conditions Conditions
	Alphas     []float64
}

// Result is the captured outcome of a Session.
type Result struct {
	Status   Status
	Points   []polar.Point
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Runner abstracts the solver so the sequencer's state machine can be
// tested against a fake implementation.
type Runner interface {
	Run(ctx context.Context, s Session) Result
}
