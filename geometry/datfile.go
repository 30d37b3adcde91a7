package geometry

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Coordinate files use the Selig layout the solver loads: a name line
// followed by one " x   y" pair per line, trailing edge to trailing edge.
// Line endings are forced to LF; the solver chokes on CRLF input.

// WriteDat writes pts under name to w in solver coordinate format.
func WriteDat(w io.Writer, name string, pts []Point) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%s\n", name); err != nil {
		return err
	}
	for _, p := range pts {
		if _, err := fmt.Fprintf(bw, " %.6f   %.6f\n", p.X, p.Y); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteDatFile writes a coordinate file at path.
func WriteDatFile(path, name string, pts []Point) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("geometry: create %s: %w", path, err)
	}
	if err := WriteDat(f, name, pts); err != nil {
		f.Close()
		return fmt.Errorf("geometry: write %s: %w", path, err)
	}
	return f.Close()
}

// ReadDat parses solver coordinate format. Lines that do not hold two
// numbers are skipped, matching how the original data sets carry the
// name header and occasional blank lines.
func ReadDat(r io.Reader) (Raw, error) {
	var raw Raw
	sc := bufio.NewScanner(r)
	first := true
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			if first {
				raw.Name = line
				first = false
			}
			continue
		}
		x, errX := strconv.ParseFloat(fields[0], 64)
		y, errY := strconv.ParseFloat(fields[1], 64)
		if errX != nil || errY != nil {
			if first {
				raw.Name = line
				first = false
			}
			continue
		}
		first = false
		raw.Points = append(raw.Points, Point{X: x, Y: y})
	}
	if err := sc.Err(); err != nil {
		return Raw{}, fmt.Errorf("geometry: read coordinates: %w", err)
	}
	return raw, nil
}

// ReadDatFile reads a coordinate file at path.
func ReadDatFile(path string) (Raw, error) {
	f, err := os.Open(path)
	if err != nil {
		return Raw{}, fmt.Errorf("geometry: open %s: %w", path, err)
	}
	defer f.Close()
	raw, err := ReadDat(f)
	if err != nil {
		return Raw{}, err
	}
	if raw.Name == "" {
		raw.Name = strings.TrimSuffix(strings.TrimSuffix(path, ".dat"), ".DAT")
	}
	return raw, nil
}
