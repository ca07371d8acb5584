package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/osuushi/mls/advanced"
	"github.com/osuushi/mls/internal/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stretchScene = `
strategy: affine
grid: {width: 20, height: 20, columns: 5, rows: 5}
pins:
  - {source: [0, 0], dest: [0, 0]}
  - {source: [10, 0], dest: [10, 0]}
  - {source: [0, 10], dest: [0, 20]}
`

const restingScene = `
pins:
  - {source: [0, 0], dest: [0, 0]}
  - {source: [10, 0], dest: [10, 0]}
  - {source: [0, 10], dest: [0, 10]}
`

const collinearScene = `
strategy: affine
samples: [[1, 1], [3, 4]]
pins:
  - {source: [0, 0], dest: [0, 0]}
  - {source: [5, 0], dest: [5, 0]}
  - {source: [10, 0], dest: [10, 0]}
`

func writeScene(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

type result struct {
	stdout, stderr string
	err            error
}

func runCLI(stdin string, args ...string) result {
	var stdout, stderr bytes.Buffer
	c := newCLI(strings.NewReader(stdin), &stdout, &stderr)
	err := c.run(args)
	return result{stdout.String(), stderr.String(), err}
}

func readOutput(t *testing.T, r result) []advanced.Point {
	t.Helper()
	require.NoError(t, r.err)
	points, err := scene.ReadPoints(strings.NewReader(r.stdout))
	require.NoError(t, err)
	return points
}

func assertPoints(t *testing.T, expected, actual []advanced.Point) {
	t.Helper()
	require.Len(t, actual, len(expected))
	for i := range expected {
		assert.InDelta(t, expected[i].X, actual[i].X, 1e-9, "x of point %d", i)
		assert.InDelta(t, expected[i].Y, actual[i].Y, 1e-9, "y of point %d", i)
	}
}

func TestGrid(t *testing.T) {
	r := runCLI("", "grid", "--width", "4", "--height", "2", "--columns", "3", "--rows", "2")
	require.NoError(t, r.err)
	assert.Equal(t, "-2 -1\n0 -1\n2 -1\n-2 1\n0 1\n2 1\n", r.stdout)
}

func TestGrid_Invalid(t *testing.T) {
	r := runCLI("", "grid", "--columns", "1")
	assert.Error(t, r.err)
}

func TestDeform_Grid(t *testing.T) {
	points := readOutput(t, runCLI("", "deform", writeScene(t, stretchScene)))
	require.Len(t, points, 25)
	// The affine stretch doubles y everywhere.
	assert.InDelta(t, -20, points[0].Y, 1e-9)
	assert.InDelta(t, 20, points[24].Y, 1e-9)
}

func TestDeform_Samples(t *testing.T) {
	path := writeScene(t, stretchScene)
	points := readOutput(t, runCLI("10 10\n2 3\n", "deform", path, "--samples=-"))
	assertPoints(t, []advanced.Point{{X: 10, Y: 20}, {X: 2, Y: 6}}, points)

	points = readOutput(t, runCLI("10 10\n", "deform", path, "--samples=-", "--strategy", "similarity"))
	assertPoints(t, []advanced.Point{{X: 15, Y: 15}}, points)

	samples := filepath.Join(t.TempDir(), "samples.txt")
	require.NoError(t, os.WriteFile(samples, []byte("# one point\n2 3\n"), 0o644))
	points = readOutput(t, runCLI("", "deform", path, "--samples", samples))
	assertPoints(t, []advanced.Point{{X: 2, Y: 6}}, points)
}

func TestDeform_Drag(t *testing.T) {
	path := writeScene(t, restingScene)
	args := []string{"deform", path, "--strategy", "affine", "--samples=-"}

	points := readOutput(t, runCLI("2 3\n", args...))
	assertPoints(t, []advanced.Point{{X: 2, Y: 3}}, points)

	// Two frames: the top pin is dragged up in steps.
	points = readOutput(t, runCLI("2 3\n", append(args, "--drag", "0,10:0,15", "--drag", "0,15:0,20")...))
	assertPoints(t, []advanced.Point{{X: 2, Y: 6}}, points)

	r := runCLI("2 3\n", append(args, "--drag", "50,50:0,0")...)
	assert.Error(t, r.err)

	r = runCLI("2 3\n", append(args, "--drag", "0,10")...)
	assert.Error(t, r.err)
}

func TestDeform_AddAndRemove(t *testing.T) {
	path := writeScene(t, restingScene)

	r := runCLI("2 3\n", "deform", path, "--samples=-", "--remove", "9,1")
	assert.ErrorIs(t, r.err, advanced.ErrInsufficientPins)

	// Replacing a pin with a fixed one leaves the plane at rest.
	points := readOutput(t, runCLI("2 3\n", "deform", path, "--samples=-", "--remove", "9,1", "--add", "10,10"))
	assertPoints(t, []advanced.Point{{X: 2, Y: 3}}, points)

	r = runCLI("2 3\n", "deform", path, "--samples=-", "--remove", "50,50")
	assert.Error(t, r.err)
}

func TestDeform_NegativeCoordinates(t *testing.T) {
	path := writeScene(t, restingScene)
	args := []string{"deform", path, "--strategy", "affine", "--samples=-"}

	points := readOutput(t, runCLI("2 3\n", append(args, "--add=-5,3")...))
	assertPoints(t, []advanced.Point{{X: 2, Y: 3}}, points)

	// Replace the origin pin with one at (-10, -10), then drag that one.
	args = append(args, "--remove=0,0", "--add=-10,-10", "--drag=-10,-10:-20,-20")
	points = readOutput(t, runCLI("2 3\n", args...))
	assertPoints(t, []advanced.Point{{X: 1.0 / 3, Y: 4.0 / 3}}, points)

	// Without "=", kingpin reads the value as another flag.
	r := runCLI("2 3\n", "deform", path, "--samples=-", "--add", "-5,3")
	assert.Error(t, r.err)
}

func TestDeform_MoveSourcePin(t *testing.T) {
	path := writeScene(t, restingScene)
	args := []string{"deform", path, "--strategy", "affine", "--samples=-"}

	// Pulling the source pin out while its destination stays squashes x.
	points := readOutput(t, runCLI("2 3\n", append(args, "--move", "10,0:20,0")...))
	assertPoints(t, []advanced.Point{{X: 1, Y: 3}}, points)

	r := runCLI("2 3\n", append(args, "--move", "50,50:0,0")...)
	assert.Error(t, r.err)
	r = runCLI("2 3\n", append(args, "--move", "10,0")...)
	assert.Error(t, r.err)
}

func TestDeform_PinsSVG(t *testing.T) {
	svg := filepath.Join(t.TempDir(), "pins.svg")
	require.NoError(t, os.WriteFile(svg, []byte(`<svg>
  <line x1="0" y1="10" x2="0" y2="20"/>
  <circle cx="0" cy="0" r="1"/>
  <circle cx="10" cy="0" r="1"/>
</svg>`), 0o644))

	points := readOutput(t, runCLI("2 3\n", "deform", writeScene(t, restingScene),
		"--strategy", "affine", "--samples=-", "--pins", svg))
	assertPoints(t, []advanced.Point{{X: 2, Y: 6}}, points)
}

func TestDeform_Fallbacks(t *testing.T) {
	r := runCLI("", "--no-color", "deform", writeScene(t, collinearScene))
	points := readOutput(t, r)
	assertPoints(t, []advanced.Point{{X: 1, Y: 1}, {X: 3, Y: 4}}, points)
	assert.Contains(t, r.stderr, "2 of 2 points kept their position")
}

func TestDeform_Errors(t *testing.T) {
	r := runCLI("", "deform", writeScene(t, stretchScene), "--strategy", "projective")
	assert.ErrorIs(t, r.err, advanced.ErrUnknownStrategy)

	r = runCLI("", "deform", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, r.err)

	r = runCLI("", "deform", writeScene(t, "pins: []\nbogus: 1\n"))
	assert.Error(t, r.err)

	r = runCLI("", "--log-level", "loud", "grid")
	assert.Error(t, r.err)
}

func TestDeform_PNG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "stretch.png")
	r := runCLI("", "--no-color", "deform", writeScene(t, stretchScene), "--png", out, "--heat")
	require.NoError(t, r.err)
	assert.Empty(t, r.stdout)
	assert.Contains(t, r.stderr, "wrote "+out)

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

func TestDump(t *testing.T) {
	path := writeScene(t, stretchScene)

	r := runCLI("", "dump", path, "--index", "3")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "sample 3")
	assert.Contains(t, r.stdout, "AffineClosure")

	r = runCLI("", "dump", path, "--index", "3", "--strategy", "rigid")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "RigidClosure")

	r = runCLI("", "dump", path, "--index", "25")
	assert.Error(t, r.err)
}

func TestDump_Degenerate(t *testing.T) {
	r := runCLI("", "--no-color", "dump", writeScene(t, collinearScene))
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "degenerate")
}

func TestLogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "mlsdeform.log")
	r := runCLI("2 3\n", "--log-level", "debug", "--log-file", logPath,
		"deform", writeScene(t, restingScene), "--samples=-", "--drag", "0,10:0,20")
	require.NoError(t, r.err)
	assert.Empty(t, r.stderr)

	contents, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(contents), `"msg":"prepared closures"`)
	assert.Contains(t, string(contents), `"msg":"dragged"`)
}

func TestParseLevel(t *testing.T) {
	for _, level := range logLevels {
		_, err := parseLevel(level)
		assert.NoError(t, err, level)
	}
	_, err := parseLevel("verbose")
	assert.Error(t, err)
}
