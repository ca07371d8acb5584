// Package scene loads deformation scenes: the pins, the sample domain and the
// fit to use.
package scene

import (
	"io"
	"os"

	"github.com/osuushi/mls/advanced"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Coordinate is a point written as a two element YAML sequence, [x, y].
type Coordinate [2]float64

func (c Coordinate) Point() advanced.Point {
	return advanced.Point{X: c[0], Y: c[1]}
}

type Pin struct {
	Source Coordinate `yaml:"source"`
	Dest   Coordinate `yaml:"dest"`
}

// Scene is a YAML scene file. When Samples is empty the grid vertices are the
// sample domain.
type Scene struct {
	Strategy string       `yaml:"strategy"`
	Alpha    float64      `yaml:"alpha"`
	Grid     Grid         `yaml:"grid"`
	Samples  []Coordinate `yaml:"samples"`
	Pins     []Pin        `yaml:"pins"`
}

func Load(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening scene")
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "scene %s", path)
	}
	return s, nil
}

// Parse decodes and validates a scene. Unknown fields are an error, so typos
// don't silently fall back to defaults.
func Parse(r io.Reader) (*Scene, error) {
	s := &Scene{Grid: DefaultGrid()}
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(s); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decoding scene")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scene) Validate() error {
	if _, err := s.Kind(); err != nil {
		return err
	}
	if _, err := s.Weighting(); err != nil {
		return err
	}
	if len(s.Samples) == 0 {
		if err := s.Grid.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Kind is the scene's fit. An empty strategy means rigid.
func (s *Scene) Kind() (advanced.Kind, error) {
	if s.Strategy == "" {
		return advanced.Rigid, nil
	}
	return advanced.ParseKind(s.Strategy)
}

func (s *Scene) Weighting() (advanced.Weighting, error) {
	w := advanced.DefaultWeighting()
	if s.Alpha != 0 {
		w.Alpha = s.Alpha
	}
	if err := w.Validate(); err != nil {
		return w, err
	}
	return w, nil
}

// SamplePoints returns the explicit samples, or else the grid vertices.
func (s *Scene) SamplePoints() []advanced.Point {
	if len(s.Samples) == 0 {
		return s.Grid.Vertices()
	}
	points := make([]advanced.Point, len(s.Samples))
	for i, c := range s.Samples {
		points[i] = c.Point()
	}
	return points
}

func (s *Scene) PinSet() advanced.Pins {
	var pins advanced.Pins
	for _, pin := range s.Pins {
		pins.Source = append(pins.Source, pin.Source.Point())
		pins.Dest = append(pins.Dest, pin.Dest.Point())
	}
	return pins
}

// UsesGrid reports whether the sample domain is the grid, in which case the
// deformed points can be drawn as a mesh.
func (s *Scene) UsesGrid() bool {
	return len(s.Samples) == 0
}
