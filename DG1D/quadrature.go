package DG1D

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

/*
JacobiGQ returns the N+1 Gauss quadrature nodes and weights for the Jacobi weight
(1-x)^alpha (1+x)^beta on [-1,1]. Nodes are the eigenvalues of the symmetric Jacobi
matrix, weights come from the first component of each eigenvector.
*/
func JacobiGQ(alpha, beta float64, N int) (X, W []float64) {
	var (
		fac        float64
		h1, d0, d1 []float64
	)
	if N == 0 {
		X = []float64{-(alpha - beta) / (alpha + beta + 2.)}
		W = []float64{2.}
		return
	}

	h1 = make([]float64, N+1)
	for i := 0; i < N+1; i++ {
		h1[i] = 2*float64(i) + alpha + beta
	}

	// main diagonal: diag(-1/2*(alpha^2-beta^2)./(h1+2)./h1)
	d0 = make([]float64, N+1)
	fac = -.5 * (alpha*alpha - beta*beta)
	for i := 0; i < N+1; i++ {
		val := h1[i]
		d0[i] = fac / (val * (val + 2.))
	}
	// Handle division by zero
	eps := 1.e-16
	if alpha+beta < 10*eps {
		d0[0] = 0.
	}

	// 1st upper diagonal: 2./(h1(1:N)+2).*sqrt((1:N).*((1:N)+alpha+beta).*((1:N)+alpha).*((1:N)+beta)./(h1(1:N)+1)./(h1(1:N)+3))
	var ip1 float64
	d1 = make([]float64, N)
	for i := 0; i < N; i++ {
		ip1 = float64(i + 1)
		val := h1[i]
		d1[i] = 2. / (val + 2.)
		d1[i] *= math.Sqrt(ip1 * (ip1 + alpha + beta) * (ip1 + alpha) * (ip1 + beta) / ((val + 1.) * (val + 3.)))
	}

	JJ := mat.NewSymDense(N+1, nil)
	for i := 0; i < N+1; i++ {
		JJ.SetSym(i, i, d0[i])
		if i < N {
			JJ.SetSym(i, i+1, d1[i])
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(JJ, true); !ok {
		panic("eigenvalue decomposition failed")
	}
	X = eig.Values(nil)

	VVr := mat.NewDense(N+1, N+1, nil)
	eig.VectorsTo(VVr)
	W = make([]float64, N+1)
	g0 := jacobiNorm(alpha, beta, 0)
	for i, v := range VVr.RawRowView(0) {
		W[i] = v * v * g0
	}
	return
}

// JacobiP evaluates the normalized Jacobi polynomial of order N at each of r
func JacobiP(r []float64, alpha, beta float64, N int) (p []float64) {
	var (
		Nc  = len(r)
		rg  = 1. / math.Sqrt(jacobiNorm(alpha, beta, 0))
		pl  [][]float64
		ab  = alpha + beta
		rg1 float64
	)
	pl = make([][]float64, N+1)
	pl[0] = make([]float64, Nc)
	for i := range pl[0] {
		pl[0][i] = rg
	}
	if N == 0 {
		return pl[0]
	}
	rg1 = 1. / math.Sqrt(jacobiNorm(alpha, beta, 1))
	pl[1] = make([]float64, Nc)
	for i, x := range r {
		pl[1][i] = rg1 * ((ab+2.0)*x/2.0 + (alpha-beta)/2.0)
	}
	a1 := alpha + 1.
	b1 := beta + 1.
	ab1 := ab + 1.
	aold := 2.0 * math.Sqrt(a1*b1/(ab+3.0)) / (ab + 2.0)
	for i := 0; i < N-1; i++ {
		ip1 := float64(i + 1)
		ip2 := ip1 + 1
		h1 := 2.0*ip1 + ab
		anew := 2.0 / (h1 + 2.0) * math.Sqrt(ip2*(ip1+ab1)*(ip1+a1)*(ip1+b1)/(h1+1.0)/(h1+3.0))
		bnew := -(alpha*alpha - beta*beta) / h1 / (h1 + 2.0)
		pl[i+2] = make([]float64, Nc)
		for j, x := range r {
			pl[i+2][j] = (-aold*pl[i][j] + (x-bnew)*pl[i+1][j]) / anew
		}
		aold = anew
	}
	p = pl[N]
	return
}

// Vandermonde1D has column j equal to the order j Legendre polynomial at R
func Vandermonde1D(N int, R []float64) (V *mat.Dense) {
	V = mat.NewDense(len(R), N+1, nil)
	for j := 0; j < N+1; j++ {
		V.SetCol(j, JacobiP(R, 0, 0, j))
	}
	return
}

/*
ModalFilter1D projects nodal values at the N+1 Gauss-Legendre points onto polynomials of
order N-Ncut: F = V diag(1,..,1,0,..,0) V^-1
*/
func ModalFilter1D(N, Ncut int) (F *mat.Dense) {
	var (
		R, _ = JacobiGQ(0, 0, N)
		V    = Vandermonde1D(N, R)
		Vinv mat.Dense
		D    = mat.NewDiagDense(N+1, nil)
	)
	if err := Vinv.Inverse(V); err != nil {
		panic(fmt.Errorf("unable to invert Vandermonde matrix of order %d: %w", N, err))
	}
	for i := 0; i < N+1-Ncut; i++ {
		D.SetDiag(i, 1)
	}
	F = mat.NewDense(N+1, N+1, nil)
	F.Product(V, D, &Vinv)
	return
}

/*
ResampleMatrix2D acts on the (N+1)^2 tensor Gauss points of a face and removes the highest
mode in each direction, which damps point-to-point oscillations of a resampled field.
*/
func ResampleMatrix2D(N int) (R *mat.Dense) {
	F := ModalFilter1D(N, 1)
	R = &mat.Dense{}
	R.Kronecker(F, F)
	return
}

/*
FaceQuadrature returns the (N+1)^2 tensor Gauss-Legendre points on the unit square and
weights normalized to the reference triangle area of 1/2, so that a doubled surface area
multiplied by the weight sum gives the face area.
*/
func FaceQuadrature(N int) (points [][2]float64, weights []float64) {
	var (
		x, w = JacobiGQ(0, 0, N)
		Np   = N + 1
	)
	points = make([][2]float64, Np*Np)
	weights = make([]float64, Np*Np)
	for i := 0; i < Np; i++ {
		for j := 0; j < Np; j++ {
			ind := j + Np*i
			points[ind] = [2]float64{0.5 * (x[i] + 1), 0.5 * (x[j] + 1)}
			weights[ind] = 0.125 * w[i] * w[j] // 1/4 from the map to [0,1]^2, 1/2 for the triangle measure
		}
	}
	return
}

// TimeQuadrature maps the N+1 Gauss-Legendre points to [0, dt] with matching weights
func TimeQuadrature(N int, dt float64) (timePoints, timeWeights []float64) {
	x, w := JacobiGQ(0, 0, N)
	timePoints = make([]float64, N+1)
	timeWeights = make([]float64, N+1)
	for i := range x {
		timePoints[i] = 0.5 * dt * (x[i] + 1)
		timeWeights[i] = 0.5 * dt * w[i]
	}
	return
}

// jacobiNorm is the squared norm of the order n (0 or 1) Jacobi polynomial under its weight
func jacobiNorm(alpha, beta float64, n int) (g float64) {
	var (
		a1, b1 = alpha + 1, beta + 1
		ab1    = alpha + beta + 1
	)
	g = math.Gamma(a1) * math.Gamma(b1) * math.Pow(2, ab1) / ab1 / math.Gamma(ab1)
	if n == 1 {
		g *= a1 * b1 / (ab1 + 2)
	}
	return
}
