package advanced

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrix2Arithmetic(t *testing.T) {
	m := Matrix2{1, 2, 3, 4}
	n := Matrix2{5, 6, 7, 8}

	assert.Equal(t, Matrix2{6, 8, 10, 12}, m.Add(n))
	assert.Equal(t, Matrix2{2, 4, 6, 8}, m.Scale(2))
	assert.Equal(t, Matrix2{19, 22, 43, 50}, m.Mul(n))
	assert.Equal(t, Matrix2{23, 34, 31, 46}, n.Mul(m))
	assert.Equal(t, Matrix2{1, 3, 2, 4}, m.Transpose())
	assert.Equal(t, -2.0, m.Determinant())
	assert.Equal(t, m, m.Mul(Identity2()))
	assert.Equal(t, m, Identity2().Mul(m))
}

func TestMatrix2Apply(t *testing.T) {
	m := Matrix2{1, 2, 3, 4}
	p := Point{X: 5, Y: 6}
	assert.Equal(t, Point{17, 39}, m.Apply(p))
	assert.Equal(t, Point{23, 34}, m.ApplyLeft(p))
	// p m == m^T p
	assert.Equal(t, m.Transpose().Apply(p), m.ApplyLeft(p))
}

func TestOuter(t *testing.T) {
	assert.Equal(t, Matrix2{3, 4, 6, 8}, Outer(Point{1, 2}, Point{3, 4}))
}

func TestMatrix2Inverse(t *testing.T) {
	m := Matrix2{4, 7, 2, 6}
	inverse, err := m.Inverse()
	require.NoError(t, err)
	product := m.Mul(inverse)
	assert.InDelta(t, 1, product.A, Tolerance)
	assert.InDelta(t, 0, product.B, Tolerance)
	assert.InDelta(t, 0, product.C, Tolerance)
	assert.InDelta(t, 1, product.D, Tolerance)

	t.Run("singular", func(t *testing.T) {
		_, err := Matrix2{1, 2, 2, 4}.Inverse()
		assert.ErrorIs(t, err, ErrDegenerateConfiguration)

		_, err = Matrix2{}.Inverse()
		assert.ErrorIs(t, err, ErrDegenerateConfiguration)
	})

	t.Run("nearly singular still inverts", func(t *testing.T) {
		_, err := Matrix2{1, 0, 0, 1e-12}.Inverse()
		assert.NoError(t, err)
	})
}
