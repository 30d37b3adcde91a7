package xfoil

import (
	"fmt"
	"sort"
	"strings"
)

// Relaxation and damping constants for sessions on oscillation-prone
// geometries, taken over from the solver operators' working values.
const (
	relaxationFactor = 0.6
	vaccDamping      = 0.01
)

// BuildScript renders the command sequence for one session. The solver
// reads these commands from stdin: geometry load, trailing-edge gap set,
// contour filter, panel density, viscous operating point, then one
// explicit ALFA step per angle walking center-out (0 upward, reset, 0
// downward). Explicit stepping replaces the solver's built-in sweep so
// arbitrary angle lists work and each angle restarts from a nearby
// converged state.
func BuildScript(s Session, datFile, outBase string) string {
	var b strings.Builder
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	line("LOAD %s", datFile)
	line("%s", s.Geometry.Name)

	// trailing-edge gap, blended over the rear half-chord
	line("GDES")
	line("TGAP")
	line("%.4f", s.Geometry.TEGap())
	line("0.5")
	line("EXEC")
	line("")

	// smooth the contour once; even refined data can carry noise
	line("MDES")
	line("FILT")
	line("EXEC")
	line("")

	line("PPAR")
	line("N %d", s.Geometry.Panels)
	line("")
	line("")

	line("OPER")
	line("ITER %d", s.Conditions.IterLimit)
	if s.Conditions.Damped {
		line("RPM %.1f", relaxationFactor)
		line("VACC %.2f", vaccDamping)
	}
	if s.Conditions.SeedReynolds > 0 {
		line("ALFA 0")
		line("VISC %.0f", s.Conditions.SeedReynolds)
		line("ALFA 0")
		line("VISC %.0f", s.Conditions.Reynolds)
	} else {
		line("VISC %.0f", s.Conditions.Reynolds)
	}
	line("M %.1f", s.Conditions.Mach)
	line("ALFA 0")

	line("PACC")
	line("%s.polar", outBase)
	line("%s.dump", outBase)

	pos, neg := splitAlphas(s.Alphas)
	for _, a := range pos {
		line("ALFA %g", a)
	}
	if len(neg) > 0 {
		line("INIT")
		line("ALFA 0")
		for _, a := range neg {
			line("ALFA %g", a)
		}
	}

	line("PACC")
	line("")
	line("QUIT")
	return b.String()
}

// splitAlphas orders a sweep center-out: non-negative angles ascending,
// negative angles descending from zero.
func splitAlphas(alphas []float64) (pos, neg []float64) {
	for _, a := range alphas {
		if a >= 0 {
			pos = append(pos, a)
		} else {
			neg = append(neg, a)
		}
	}
	sort.Float64s(pos)
	sort.Sort(sort.Reverse(sort.Float64Slice(neg)))
	return pos, neg
}
