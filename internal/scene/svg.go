package scene

import (
	"io"
	"strconv"

	"github.com/JoshVarga/svgparser"
	"github.com/osuushi/mls/advanced"
	"github.com/pkg/errors"
)

// This reads pins drawn in an SVG editor. It is not a full (or even correct)
// SVG reader: transforms and units are ignored. Every <line> is a pin moved
// from (x1, y1) to (x2, y2), and every <circle> is a pin fixed at (cx, cy).
// Lines come first, then circles, each in document order.

func LoadPinsSVG(r io.Reader) (advanced.Pins, error) {
	var pins advanced.Pins
	root, err := svgparser.Parse(r, false)
	if err != nil {
		return pins, errors.Wrap(err, "parsing svg")
	}

	for _, el := range root.FindAll("line") {
		coords, err := attributes(el, "x1", "y1", "x2", "y2")
		if err != nil {
			return pins, err
		}
		pins.Source = append(pins.Source, advanced.Point{X: coords[0], Y: coords[1]})
		pins.Dest = append(pins.Dest, advanced.Point{X: coords[2], Y: coords[3]})
	}
	for _, el := range root.FindAll("circle") {
		coords, err := attributes(el, "cx", "cy")
		if err != nil {
			return pins, err
		}
		pins.Add(advanced.Point{X: coords[0], Y: coords[1]})
	}
	return pins, nil
}

// Missing coordinates default to zero, as in SVG.
func attributes(el *svgparser.Element, names ...string) ([]float64, error) {
	values := make([]float64, len(names))
	for i, name := range names {
		s, ok := el.Attributes[name]
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "<%s> attribute %s", el.Name, name)
		}
		values[i] = v
	}
	return values, nil
}
