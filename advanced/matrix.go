package advanced

// Matrix2 is the row-major 2x2 matrix
//
//	[ A B ]
//	[ C D ]
//
// Points are column vectors for Apply and row vectors for ApplyLeft.

func Identity2() Matrix2 {
	return Matrix2{A: 1, D: 1}
}

// Outer returns the outer product p q^T.
func Outer(p, q Point) Matrix2 {
	return Matrix2{
		A: p.X * q.X, B: p.X * q.Y,
		C: p.Y * q.X, D: p.Y * q.Y,
	}
}

func (m Matrix2) Add(n Matrix2) Matrix2 {
	return Matrix2{m.A + n.A, m.B + n.B, m.C + n.C, m.D + n.D}
}

func (m Matrix2) Scale(s float64) Matrix2 {
	return Matrix2{s * m.A, s * m.B, s * m.C, s * m.D}
}

// Mul returns the product m n.
func (m Matrix2) Mul(n Matrix2) Matrix2 {
	return Matrix2{
		A: m.A*n.A + m.B*n.C, B: m.A*n.B + m.B*n.D,
		C: m.C*n.A + m.D*n.C, D: m.C*n.B + m.D*n.D,
	}
}

func (m Matrix2) Transpose() Matrix2 {
	return Matrix2{m.A, m.C, m.B, m.D}
}

func (m Matrix2) Determinant() float64 {
	return m.A*m.D - m.B*m.C
}

// Inverse is the only place a determinant is divided by. A zero determinant
// yields ErrDegenerateConfiguration.
func (m Matrix2) Inverse() (Matrix2, error) {
	det := m.Determinant()
	if det == 0 {
		return Matrix2{}, ErrDegenerateConfiguration
	}
	return Matrix2{
		A: m.D / det, B: -m.B / det,
		C: -m.C / det, D: m.A / det,
	}, nil
}

// Apply returns m p.
func (m Matrix2) Apply(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y,
		Y: m.C*p.X + m.D*p.Y,
	}
}

// ApplyLeft returns p m.
func (m Matrix2) ApplyLeft(p Point) Point {
	return Point{
		X: p.X*m.A + p.Y*m.C,
		Y: p.X*m.B + p.Y*m.D,
	}
}
