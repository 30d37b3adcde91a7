package geometry

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDatFormat(t *testing.T) {
	var buf bytes.Buffer
	err := WriteDat(&buf, "NACA 0012", []Point{{X: 1, Y: 0.00126}, {X: 0, Y: 0}})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Equal(t, 3, len(lines))
	assert.Equal(t, "NACA 0012", lines[0])
	assert.Equal(t, " 1.000000   0.001260", lines[1])
	assert.Equal(t, " 0.000000   0.000000", lines[2])
	assert.NotContains(t, buf.String(), "\r", "solver rejects CRLF input")
}

func TestReadDat(t *testing.T) {
	input := "NACA 2412\n 1.000000   0.001300\n 0.500000   0.080000\n\n 0.000000   0.000000\n"
	raw, err := ReadDat(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "NACA 2412", raw.Name)
	require.Equal(t, 3, len(raw.Points))
	assert.Equal(t, Point{X: 0.5, Y: 0.08}, raw.Points[1])
}

func TestDatFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foil.dat")
	pts := []Point{{X: 1, Y: 0.001}, {X: 0.5, Y: 0.06}, {X: 0, Y: 0}, {X: 0.5, Y: -0.06}, {X: 1, Y: -0.001}}
	require.NoError(t, WriteDatFile(path, "round trip", pts))

	raw, err := ReadDatFile(path)
	require.NoError(t, err)
	assert.Equal(t, "round trip", raw.Name)
	assert.Equal(t, pts, raw.Points)
}
