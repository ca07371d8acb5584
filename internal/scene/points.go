package scene

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/osuushi/mls/advanced"
	"github.com/pkg/errors"
)

// ReadPoints reads newline separated points in the form "x y". Blank lines and
// lines starting with # are skipped.
func ReadPoints(in io.Reader) ([]advanced.Point, error) {
	var points []advanced.Point
	scanner := bufio.NewScanner(in)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		point, err := ParsePoint(text)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		points = append(points, point)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading points")
	}
	return points, nil
}

// ParsePoint parses "x y" or "x,y".
func ParsePoint(s string) (advanced.Point, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(parts) != 2 {
		return advanced.Point{}, errors.Errorf("invalid point %q", s)
	}
	x, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return advanced.Point{}, errors.Wrapf(err, "invalid x value in %q", s)
	}
	y, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return advanced.Point{}, errors.Wrapf(err, "invalid y value in %q", s)
	}
	return advanced.Point{X: x, Y: y}, nil
}

// WritePoints writes one "x y" line per point, the format ReadPoints reads.
func WritePoints(w io.Writer, points []advanced.Point) error {
	bw := bufio.NewWriter(w)
	for _, p := range points {
		bw.WriteString(strconv.FormatFloat(p.X, 'g', -1, 64))
		bw.WriteByte(' ')
		bw.WriteString(strconv.FormatFloat(p.Y, 'g', -1, 64))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
