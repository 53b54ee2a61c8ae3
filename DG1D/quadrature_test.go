package DG1D

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestJacobiGQ_Legendre(t *testing.T) {
	const (
		tol = 1.e-12
	)
	for N := 0; N < 7; N++ {
		X, W := JacobiGQ(0, 0, N)
		assert.Equal(t, N+1, len(X))
		assert.InDeltaf(t, 2., floats.Sum(W), tol, "N = %d", N)
		// Gauss quadrature is exact up to degree 2N+1
		for k := 0; k <= 2*N+1; k++ {
			var s float64
			for i, x := range X {
				s += W[i] * math.Pow(x, float64(k))
			}
			exact := 0.
			if k%2 == 0 {
				exact = 2. / float64(k+1)
			}
			assert.InDeltaf(t, exact, s, tol, "N = %d, moment %d", N, k)
		}
		// Nodes are roots of P_{N+1}
		p := JacobiP(X, 0, 0, N+1)
		for i := range p {
			assert.InDelta(t, 0., p[i], 1.e-10)
		}
	}
}

func TestJacobiP_Orthonormal(t *testing.T) {
	const (
		N = 5
	)
	X, W := JacobiGQ(0, 0, N+1)
	for m := 0; m <= N; m++ {
		pm := JacobiP(X, 0, 0, m)
		for n := 0; n <= N; n++ {
			pn := JacobiP(X, 0, 0, n)
			var s float64
			for i := range X {
				s += W[i] * pm[i] * pn[i]
			}
			if m == n {
				assert.InDelta(t, 1., s, 1.e-12)
			} else {
				assert.InDelta(t, 0., s, 1.e-12)
			}
		}
	}
}

func TestModalFilter(t *testing.T) {
	const (
		N = 3
	)
	var (
		R, _ = JacobiGQ(0, 0, N)
		F    = ModalFilter1D(N, 1)
		low  = mat.NewVecDense(N+1, nil)
		high = mat.NewVecDense(N+1, JacobiP(R, 0, 0, N))
		out  mat.VecDense
	)
	for i, r := range R {
		low.SetVec(i, 1+2*r-r*r) // order N-1 survives
	}
	out.MulVec(F, low)
	for i := 0; i < N+1; i++ {
		assert.InDelta(t, low.AtVec(i), out.AtVec(i), 1.e-12)
	}
	out.MulVec(F, high)
	for i := 0; i < N+1; i++ {
		assert.InDelta(t, 0., out.AtVec(i), 1.e-12)
	}
	{ // Tensor product filter is a projector
		var (
			RR  = ResampleMatrix2D(N)
			RR2 mat.Dense
		)
		nr, nc := RR.Dims()
		assert.Equal(t, (N+1)*(N+1), nr)
		assert.Equal(t, (N+1)*(N+1), nc)
		RR2.Mul(RR, RR)
		assert.True(t, mat.EqualApprox(RR, &RR2, 1.e-12))
	}
}

func TestQuadratureScaling(t *testing.T) {
	{
		tp, tw := TimeQuadrature(2, 0.1)
		assert.InDelta(t, 0.1, floats.Sum(tw), 1.e-14)
		assert.InDelta(t, 0.05, tp[1], 1.e-14)
		assert.True(t, tp[0] > 0 && tp[2] < 0.1)
		// Integrates t^5 exactly on [0, dt]
		var s float64
		for i := range tp {
			s += tw[i] * math.Pow(tp[i], 5)
		}
		assert.InDelta(t, math.Pow(0.1, 6)/6, s, 1.e-18)
	}
	{
		pts, w := FaceQuadrature(3)
		assert.Equal(t, 16, len(pts))
		assert.InDelta(t, 0.5, floats.Sum(w), 1.e-14)
		for _, p := range pts {
			assert.True(t, p[0] > 0 && p[0] < 1 && p[1] > 0 && p[1] < 1)
		}
	}
}
