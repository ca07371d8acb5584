package advanced

// SimilarityFit restricts the local map to rotation, uniform scale and
// translation.
type SimilarityFit struct {
	Weighting Weighting
}

type SimilarityClosure struct {
	Weights    []float64
	SumWeights float64
	// Mu is the weighted second moment of the centered source pins,
	// sum(w_i |p^_i|^2).
	Mu       float64
	Matrices []Matrix2
}

func (c *SimilarityClosure) Kind() Kind    { return Similarity }
func (c *SimilarityClosure) PinCount() int { return len(c.Weights) }

func (SimilarityFit) Kind() Kind { return Similarity }

func (f SimilarityFit) ComputeClosure(v Point, sourcePins []Point) (Closure, error) {
	closure, _, err := computeSimilarity(f.Weighting.orDefault(), v, sourcePins)
	if err != nil {
		return nil, err
	}
	return closure, nil
}

func (f SimilarityFit) ApplyClosure(c Closure, destPins []Point) (Point, error) {
	closure, ok := c.(*SimilarityClosure)
	if !ok {
		fatalf("similarity fit cannot apply a %s closure", c.Kind())
	}
	checkPinCount(closure, destPins)

	qStar, t, err := closure.project(destPins)
	if err != nil {
		return Point{}, err
	}
	return qStar.Add(t), nil
}

// computeSimilarity is shared with the rigid fit, which also needs the offset
// of v from the source centroid.
func computeSimilarity(w Weighting, v Point, sourcePins []Point) (*SimilarityClosure, Point, error) {
	weights, sumWeights, pStar := w.weigh(v, sourcePins)
	hats := centered(sourcePins, pStar)

	var mu float64
	for i, h := range hats {
		mu += weights[i] * h.LengthSquared()
	}
	if mu == 0 {
		// Every pin sits on the centroid.
		return nil, Point{}, ErrDegenerateConfiguration
	}

	offset := v.Sub(pStar)
	// [ x  y]
	// [-y  x]
	m1 := Matrix2{offset.X, offset.Y, -offset.Y, offset.X}.Transpose()
	matrices := make([]Matrix2, len(hats))
	for i, h := range hats {
		m0 := Matrix2{h.X, h.Y, -h.Y, h.X}
		matrices[i] = m0.Mul(m1).Scale(weights[i])
	}
	return &SimilarityClosure{
		Weights:    weights,
		SumWeights: sumWeights,
		Mu:         mu,
		Matrices:   matrices,
	}, offset, nil
}

// project returns the destination centroid q* and sum((A_i/mu) (q_i - q*)).
func (c *SimilarityClosure) project(destPins []Point) (qStar, t Point, err error) {
	if c.Mu == 0 {
		return Point{}, Point{}, ErrDegenerateConfiguration
	}
	qStar = weightedCentroid(destPins, c.Weights, c.SumWeights)
	inverseMu := 1 / c.Mu
	for i, q := range destPins {
		t = t.Add(c.Matrices[i].Scale(inverseMu).Apply(q.Sub(qStar)))
	}
	return qStar, t, nil
}
