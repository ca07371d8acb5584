package advanced

// AffineFit fits a general linear map plus translation at each sample point.
// It is the most flexible model, and reproduces any affine map of the pins
// exactly.
type AffineFit struct {
	Weighting Weighting
}

type AffineClosure struct {
	Weights    []float64
	SumWeights float64
	// Coefficients holds one scalar A_j per pin. The deformed point is the
	// destination centroid plus sum(A_j * (q_j - q*)).
	Coefficients []float64
}

func (c *AffineClosure) Kind() Kind    { return Affine }
func (c *AffineClosure) PinCount() int { return len(c.Weights) }

func (AffineFit) Kind() Kind { return Affine }

func (f AffineFit) ComputeClosure(v Point, sourcePins []Point) (Closure, error) {
	weights, sumWeights, pStar := f.Weighting.orDefault().weigh(v, sourcePins)
	hats := centered(sourcePins, pStar)

	// Weighted covariance sum(w_i p^_i^T p^_i)
	var m Matrix2
	for i, h := range hats {
		m = m.Add(Outer(h, h.Scale(weights[i])))
	}
	inverse, err := m.Inverse()
	if err != nil {
		return nil, err
	}

	t := inverse.ApplyLeft(v.Sub(pStar))
	coefficients := make([]float64, len(hats))
	for j, h := range hats {
		coefficients[j] = t.Dot(h.Scale(weights[j]))
	}
	return &AffineClosure{
		Weights:      weights,
		SumWeights:   sumWeights,
		Coefficients: coefficients,
	}, nil
}

func (f AffineFit) ApplyClosure(c Closure, destPins []Point) (Point, error) {
	closure, ok := c.(*AffineClosure)
	if !ok {
		fatalf("affine fit cannot apply a %s closure", c.Kind())
	}
	checkPinCount(closure, destPins)

	qStar := weightedCentroid(destPins, closure.Weights, closure.SumWeights)
	result := qStar
	for j, q := range destPins {
		result = result.Add(q.Sub(qStar).Scale(closure.Coefficients[j]))
	}
	return result, nil
}
