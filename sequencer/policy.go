package sequencer

import (
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"
)

// Policy carries every tunable of the analysis pipeline. It is loaded
// once and passed explicitly into the sequencer and refiner so parallel
// per-airfoil runs stay deterministic.
type Policy struct {
	// geometry
	PanelCount      int     // solver panel density N
	GeneratorPoints int     // raw points per surface from the generator
	MinTEGap        float64 // refiner's minimum trailing-edge gap, chord fraction
	SurgicalTEGap   float64 // widened gap used by the surgery stage

	// solver sessions
	SessionTimeout   time.Duration
	IterLimit        int
	ReducedIterLimit int // single-retry cap for non-sensitive crashes
	WorkDir          string

	// escalation
	RampFractions     []float64 // Reynolds ladder, fractions of target
	MaxCrashes        int       // per-airfoil crash ceiling
	SensitivePatterns []string  // name substrings marking laminar-sensitive families

	Workers int
}

// DefaultPolicy returns the working defaults; a missing config file is
// not an error.
func DefaultPolicy() Policy {
	return Policy{
		PanelCount:        160,
		GeneratorPoints:   240,
		MinTEGap:          0.002,
		SurgicalTEGap:     0.005,
		SessionTimeout:    45 * time.Second,
		IterLimit:         300,
		ReducedIterLimit:  100,
		WorkDir:           ".",
		RampFractions:     []float64{0.10, 0.25, 0.50, 0.75, 1.00},
		MaxCrashes:        8,
		SensitivePatterns: []string{"63", "64", "65", "6series"},
		Workers:           4,
	}
}

// LoadPolicy reads path as an ini file, falling back to defaults for any
// missing key or for an unreadable file.
func LoadPolicy(path string) Policy {
	file, err := ini.Load(path)
	if err != nil {
		log.Warnf("sequencer: config %s not readable, using defaults: %v", path, err)
		return DefaultPolicy()
	}
	return loadPolicy(file)
}

func loadPolicy(file *ini.File) Policy {
	def := DefaultPolicy()
	refine := file.Section("refine")
	solver := file.Section("xfoil")
	seq := file.Section("sequencer")

	return Policy{
		PanelCount:      refine.Key("PanelCount").MustInt(def.PanelCount),
		GeneratorPoints: refine.Key("GeneratorPoints").MustInt(def.GeneratorPoints),
		MinTEGap:        refine.Key("MinTEGap").MustFloat64(def.MinTEGap),
		SurgicalTEGap:   refine.Key("SurgicalTEGap").MustFloat64(def.SurgicalTEGap),

		SessionTimeout:   time.Duration(solver.Key("TimeoutSeconds").MustInt(45)) * time.Second,
		IterLimit:        solver.Key("IterLimit").MustInt(def.IterLimit),
		ReducedIterLimit: solver.Key("ReducedIterLimit").MustInt(def.ReducedIterLimit),
		WorkDir:          solver.Key("WorkDir").MustString(def.WorkDir),

		RampFractions:     parseFractions(seq.Key("RampFractions").MustString(""), def.RampFractions),
		MaxCrashes:        seq.Key("MaxCrashes").MustInt(def.MaxCrashes),
		SensitivePatterns: parseList(seq.Key("SensitivePatterns").MustString(""), def.SensitivePatterns),
		Workers:           seq.Key("Workers").MustInt(def.Workers),
	}
}

// Sensitive reports whether name matches a laminar-sensitive family
// pattern. Matching by name pattern rather than by first-crash detection
// is a policy choice, hence configurable.
func (p Policy) Sensitive(name string) bool {
	lower := strings.ToLower(name)
	for _, pat := range p.SensitivePatterns {
		if pat != "" && strings.Contains(lower, strings.ToLower(pat)) {
			return true
		}
	}
	return false
}

func parseFractions(s string, fallback []float64) []float64 {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	var out []float64
	for _, part := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || v <= 0 || v > 1 {
			log.Warnf("sequencer: bad ramp fraction %q, using defaults", part)
			return fallback
		}
		out = append(out, v)
	}
	return out
}

func parseList(s string, fallback []string) []string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
