package advanced

// RigidFit restricts the local map to rotation and translation. It solves the
// similarity problem and then discards the scale, so a deformed point keeps
// its distance from the destination centroid equal to its original distance
// from the source centroid.
type RigidFit struct {
	Weighting Weighting
}

type RigidClosure struct {
	SimilarityClosure
	// Length is |v - p*|.
	Length float64
}

func (c *RigidClosure) Kind() Kind { return Rigid }

func (RigidFit) Kind() Kind { return Rigid }

func (f RigidFit) ComputeClosure(v Point, sourcePins []Point) (Closure, error) {
	similarity, offset, err := computeSimilarity(f.Weighting.orDefault(), v, sourcePins)
	if err != nil {
		return nil, err
	}
	return &RigidClosure{
		SimilarityClosure: *similarity,
		Length:            offset.Length(),
	}, nil
}

func (f RigidFit) ApplyClosure(c Closure, destPins []Point) (Point, error) {
	closure, ok := c.(*RigidClosure)
	if !ok {
		fatalf("rigid fit cannot apply a %s closure", c.Kind())
	}
	checkPinCount(closure, destPins)

	qStar, t, err := closure.project(destPins)
	if err != nil {
		return Point{}, err
	}
	if closure.Length == 0 {
		// The point is the source centroid, so it maps to the destination
		// centroid whatever the direction.
		return qStar, nil
	}
	length := t.Length()
	if length == 0 {
		return Point{}, ErrDegenerateConfiguration
	}
	return qStar.Add(t.Scale(closure.Length / length)), nil
}
