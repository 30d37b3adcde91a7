package xfoil

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/kktouhidphd/2D-Aerodynamic-Analysis-Framework/geometry"
	"github.com/kktouhidphd/2D-Aerodynamic-Analysis-Framework/polar"
)

const (
	datFileName  = "foil.dat"
	outFileBase  = "session"
	convFailMark = "Convergence failed"
)

// Driver runs the real solver binary. Each session gets its own scratch
// directory under WorkDir, removed after capture, so stale output from a
// crashed run is never read back as the current session's result.
type Driver struct {
	// Command is the solver executable, resolved through PATH.
	Command string
	// WorkDir is the root for per-session scratch directories.
	WorkDir string
	// Timeout is the wall-clock bound per invocation. The process is
	// killed from outside when it expires; the solver does not respond
	// to signals once its iteration wedges.
	Timeout time.Duration
}

// NewDriver returns a Driver for the xfoil binary with scratch space
// under workDir.
func NewDriver(workDir string, timeout time.Duration) *Driver {
	return &Driver{Command: "xfoil", WorkDir: workDir, Timeout: timeout}
}

// Available reports whether command resolves through PATH.
func Available(command string) bool {
	_, err := exec.LookPath(command)
	return err == nil
}

// Run performs exactly one solver invocation and classifies the outcome.
// It never returns an error; every failure mode maps to a Status.
func (d *Driver) Run(ctx context.Context, s Session) Result {
	start := time.Now()

	scratch, err := d.makeScratch(s.Geometry.Name)
	if err != nil {
		log.Errorf("xfoil: scratch dir: %v", err)
		return Result{Status: Crashed, Duration: time.Since(start)}
	}
	defer os.RemoveAll(scratch)

	if err := geometry.WriteDatFile(filepath.Join(scratch, datFileName), s.Geometry.Name, s.Geometry.Points); err != nil {
		log.Errorf("xfoil: write geometry: %v", err)
		return Result{Status: Crashed, Duration: time.Since(start)}
	}

	script := BuildScript(s, datFileName, outFileBase)

	// The solver is killed from outside when the bound expires; it does
	// not react to signals once the viscous iteration wedges. WaitDelay
	// keeps a killed session from blocking on inherited output pipes.
	runCtx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, d.Command)
	cmd.Dir = scratch
	cmd.Stdin = strings.NewReader(script)
	cmd.WaitDelay = 2 * time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	sessionLog := log.WithFields(log.Fields{
		"airfoil":  s.Geometry.Name,
		"re":       s.Conditions.Reynolds,
		"angles":   len(s.Alphas),
		"surgical": s.Geometry.Surgical,
	})
	sessionLog.Debug("solver session start")

	err = cmd.Run()

	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	switch {
	case runCtx.Err() != nil:
		res.Status = HungTimeout
	case err != nil:
		res.Status = Crashed
	default:
		res.Status, res.Points = d.capture(scratch, s, res.Stdout)
	}
	if res.Status == Crashed || res.Status == HungTimeout {
		// the accumulation file is written incrementally, so angles the
		// sweep finished before the process died are still good
		_, res.Points = d.capture(scratch, s, res.Stdout)
	}

	if n := strings.Count(res.Stdout, convFailMark); n > 0 {
		sessionLog.Warnf("solver reported %d convergence failures", n)
	}
	sessionLog.WithFields(log.Fields{
		"status":   res.Status,
		"points":   len(res.Points),
		"duration": res.Duration.Round(time.Millisecond),
	}).Info("solver session done")
	return res
}

// capture parses the polar accumulation file and classifies completion.
// The sweep reset records a zero-angle row even when zero was not
// requested, so completion is judged per requested angle and only
// requested angles are returned. The solver accumulates an angle into
// the file even when the viscous iteration never closed on it; those
// angles are identified from the non-convergence markers in stdout and
// come back with the converged flag cleared.
func (d *Driver) capture(scratch string, s Session, stdout string) (Status, []polar.Point) {
	data, err := os.ReadFile(filepath.Join(scratch, outFileBase+".polar"))
	if err != nil {
		log.Warnf("xfoil: no polar file for %s: %v", s.Geometry.Name, err)
		return ConvergenceFailure, nil
	}
	parsed, err := polar.ParseTable(string(data))
	if err != nil {
		log.Warnf("xfoil: %v", err)
		return ConvergenceFailure, nil
	}

	failed := failedAlphas(stdout)
	marks := strings.Count(stdout, convFailMark)

	const matchTol = 5e-4
	var pts []polar.Point
	missing, unconverged := 0, 0
	for _, a := range s.Alphas {
		found := false
		for _, p := range parsed {
			if p.Alpha > a-matchTol && p.Alpha < a+matchTol {
				p.Surgical = s.Geometry.Surgical
				if alphaIn(failed, p.Alpha) || (marks > 0 && len(failed) == 0) {
					// no per-angle attribution possible when the output
					// carries markers but no iteration blocks; distrust
					// the whole session rather than ship a bad point
					p.Converged = false
				}
				if !p.Converged {
					unconverged++
				}
				pts = append(pts, p)
				found = true
				break
			}
		}
		if !found {
			missing++
		}
	}
	if missing > 0 || unconverged > 0 {
		return ConvergenceFailure, pts
	}
	return Completed, pts
}

// failedAlphas attributes each non-convergence marker in the solver
// output to its angle. The solver prints "a =  <angle>" on every
// iteration line, so the last angle seen before a marker is the one
// whose iteration gave up.
func failedAlphas(stdout string) []float64 {
	var failed []float64
	last := math.NaN()
	for _, ln := range strings.Split(stdout, "\n") {
		if i := strings.Index(ln, "a ="); i >= 0 {
			fields := strings.Fields(ln[i+len("a ="):])
			if len(fields) > 0 {
				if v, err := strconv.ParseFloat(fields[0], 64); err == nil {
					last = v
				}
			}
		}
		if strings.Contains(ln, convFailMark) && !math.IsNaN(last) {
			failed = append(failed, last)
		}
	}
	return failed
}

func alphaIn(list []float64, a float64) bool {
	const tol = 5e-4
	for _, v := range list {
		if v > a-tol && v < a+tol {
			return true
		}
	}
	return false
}

func (d *Driver) makeScratch(name string) (string, error) {
	slug := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
	dir := filepath.Join(d.WorkDir, fmt.Sprintf("%s-%s", slug, uuid.NewString()[:8]))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
