package DynamicRupture

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/notargets/gorupture/types"
)

// unitMaterial gives etaS = 1 and etaP = 2 when both sides match
var unitMaterial = Material{Rho: 1, Vp: 4, Vs: 2}

func newTestFault(t *testing.T, p Parameters, l Layout, NumFaces int,
	initialStress [types.NumStressComponents]float64) (fs *FrictionSolver) {
	var (
		err   error
		layer = NewFaultLayer(l, NumFaces)
	)
	layer.SetMaterial(unitMaterial, unitMaterial)
	layer.State.SetInitialStress(initialStress)
	for i := 0; i < l.NumPoints; i++ {
		layer.SpaceWeights[i] = 1. / float64(l.NumPoints)
	}
	for face := range layer.DoubledSurfaceArea {
		layer.DoubledSurfaceArea[face] = 2
	}
	fs, err = NewFrictionSolver(&p, layer)
	require.NoError(t, err)
	return
}

func agingParameters() (p Parameters) {
	p = DefaultParameters(types.FL_RateAndStateAging)
	p.RsA, p.RsB, p.RsF0 = 0.02, 0.01, 0.6
	p.RsSr0, p.RsSl0 = 1e-6, 0.01
	p.InitialStateVar = 0.1
	return
}

// steadySlipRate solves V = (tau - |sigma| mu_ss(V)) / etaS by bisection
func steadySlipRate(p Parameters, tau, sigma, etaS float64) float64 {
	muSS := func(V float64) float64 {
		psi := p.RsSl0 / V
		return p.RsA * math.Asinh(V/(2*p.RsSr0)*math.Exp((p.RsF0+p.RsB*math.Log(p.RsSr0*psi/p.RsSl0))/p.RsA))
	}
	h := func(V float64) float64 { return V - (tau-math.Abs(sigma)*muSS(V))/etaS }
	lo, hi := 1e-12, tau/etaS
	for n := 0; n < 200; n++ {
		mid := 0.5 * (lo + hi)
		if h(mid) > 0 {
			hi = mid
		} else {
			lo = mid
		}
	}
	return 0.5 * (lo + hi)
}

func runSteps(fs *FrictionSolver, d Dispatcher, nSteps int, dt float64) {
	for n := 0; n < nSteps; n++ {
		d.Step(fs, float64(n)*dt, dt)
	}
}
