package polar

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// ErrParse means the solver's polar table is missing or malformed. The
// sequencer downgrades it to per-angle non-convergence, never a fatal
// failure.
var ErrParse = errors.New("polar parse error")

// ParseTable reads the solver's polar accumulation output: header lines
// up to a dashed rule, then one row per evaluated angle with columns
// alpha, CL, CD, CDp, CM. Rows that fail to parse are logged and skipped.
// Duplicate angles keep the first row; the sweep reset re-records zero
// and the continued value is the one a sweep would have produced. Rows
// come back flagged converged; the driver clears the flag for angles
// whose iteration output carries a non-convergence marker.
func ParseTable(text string) ([]Point, error) {
	sc := bufio.NewScanner(strings.NewReader(text))
	inTable := false
	byAlpha := make(map[int64]Point)
	var order []int64
	for sc.Scan() {
		line := sc.Text()
		if !inTable {
			if strings.Contains(line, "---") {
				inTable = true
			}
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		p, err := parseRow(line)
		if err != nil {
			log.Warnf("polar: skipping row %q: %v", strings.TrimSpace(line), err)
			continue
		}
		key := alphaKey(p.Alpha)
		if _, seen := byAlpha[key]; seen {
			continue
		}
		order = append(order, key)
		byAlpha[key] = p
	}
	if !inTable {
		return nil, fmt.Errorf("polar: no table rule in solver output: %w", ErrParse)
	}
	pts := make([]Point, 0, len(order))
	for _, key := range order {
		pts = append(pts, byAlpha[key])
	}
	return pts, nil
}

func parseRow(line string) (Point, error) {
	fields := strings.Fields(line)
	if len(fields) < 5 {
		return Point{}, fmt.Errorf("%d columns: %w", len(fields), ErrParse)
	}
	vals := make([]float64, 5)
	for i := 0; i < 5; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return Point{}, fmt.Errorf("column %d %q: %w", i, fields[i], ErrParse)
		}
		vals[i] = v
	}
	p := Point{
		Alpha:     vals[0],
		CL:        vals[1],
		CD:        vals[2],
		CM:        vals[4],
		Converged: true,
	}
	if p.CD != 0 {
		p.LD = p.CL / p.CD
	}
	return p, nil
}
