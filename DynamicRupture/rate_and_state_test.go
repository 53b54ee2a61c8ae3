package DynamicRupture

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gorupture/types"
	"github.com/notargets/gorupture/utils"
)

// linearLaw has mu = Mu0 + K V, so the slip rate balance has a closed form root
type linearLaw struct {
	Mu0, K float64
}

func (ll linearLaw) UpdateStateVariable(_, _ int, stateVarReference, _, _ float64) float64 {
	return stateVarReference
}
func (ll linearLaw) UpdateMu(_, _ int, slipRate, _ float64) float64          { return ll.Mu0 + ll.K*slipRate }
func (ll linearLaw) UpdateMuDerivative(_, _ int, _, _ float64) float64       { return ll.K }
func (ll linearLaw) ExecuteIfNotConverged(int, FaceBuffer, utils.IndexRange) {}

func TestInvertSlipRate_LinearLaw(t *testing.T) {
	var (
		p     = agingParameters()
		l     = NewLayout(1, 3)
		layer = NewFaultLayer(l, 1)
		law   = linearLaw{Mu0: 0.4, K: 2}
	)
	p.RateAndState.MaxNumberSlipRateUpdates = 3
	layer.SetMaterial(unitMaterial, unitMaterial)
	rs := NewRateAndStateSolver(&p, layer, law, NoTP{})
	sc := NewFaceScratch(l)
	sigma := []float64{-1, -0.5, -2}
	tau := []float64{1, 0.7, 3}
	for i := 0; i < l.NumPoints; i++ {
		sc.NormalStress[i] = sigma[i]
		sc.AbsoluteShearStress[i] = tau[i]
		layer.State.SlipRateMagnitude[0][i] = 1e-3
	}
	converged := rs.InvertSlipRateIterative(0, sc, l.HostRange())
	assert.True(t, converged)
	for i := 0; i < l.NumPoints; i++ {
		// tau - |sigma| (mu0 + K V) = etaS V
		root := (tau[i] - math.Abs(sigma[i])*law.Mu0) / (math.Abs(sigma[i])*law.K + 1)
		assert.InDeltaf(t, root, sc.TestSlipRate[i], p.RateAndState.NewtonTolerance, "point %d", i)
	}
	{ // Test a root below zero lands on the floor
		sc.AbsoluteShearStress[0] = 0.1
		rs.InvertSlipRateIterative(0, sc, utils.PointRange(0))
		assert.Equal(t, p.RateAndState.AlmostZero, sc.TestSlipRate[0])
	}
}

func TestRateAndState_SteadyState(t *testing.T) {
	var (
		tau, sigma = 1., -1.
		dt         = 0.01
	)
	for _, order := range []int{1, 3} {
		p := agingParameters()
		fs := newTestFault(t, p, NewLayout(order, 1), 1, [6]float64{sigma, 0, 0, tau, 0, 0})
		runSteps(fs, Dispatcher{Mode: HostDispatch}, 500, dt)
		var (
			st     = fs.Layer.State
			sStar  = steadySlipRate(p, tau, sigma, 1)
			psiSS  = p.RsSl0 / sStar
			solved = st.SlipRateMagnitude[0][0]
		)
		assert.InEpsilonf(t, sStar, solved, 1e-4, "order %d", order)
		assert.InEpsilon(t, psiSS, st.StateVariable[0][0], 1e-3)
		assert.InEpsilon(t, sStar, utils.Magnitude2(st.SlipRate1[0][0], st.SlipRate2[0][0]), 1e-4)
		assert.InDelta(t, 0., st.SlipRate2[0][0], 1e-14)
		// At steady state the traction has dropped to the strength
		assert.InEpsilon(t, tau-sStar, st.Traction1[0][0]+tau, 1e-4)
		assert.InEpsilon(t, tau-sStar, st.Mu[0][0], 1e-4)
		assert.InEpsilon(t, st.Slip1[0][0], st.AccumulatedSlipMagnitude[0][0], 1e-10)
		assert.Equal(t, int64(0), fs.NotConvergedFaces())
	}
}

func TestRateAndState_SlipLawSteadyState(t *testing.T) {
	p := agingParameters()
	p.FrictionLaw = types.FL_RateAndStateSlip
	fs := newTestFault(t, p, NewLayout(2, 1), 1, [6]float64{-1, 0, 0, 0, 0, 1})
	runSteps(fs, Dispatcher{Mode: HostDispatch}, 500, 0.01)
	st := fs.Layer.State
	sStar := steadySlipRate(p, 1, -1, 1)
	assert.InEpsilon(t, sStar, st.SlipRateMagnitude[0][0], 1e-4)
	// Shear is along the second direction only
	assert.InDelta(t, 0., st.SlipRate1[0][0], 1e-14)
	assert.InEpsilon(t, sStar, st.SlipRate2[0][0], 1e-4)
}

func heterogeneousFault(t *testing.T, p Parameters, l Layout, NumFaces int) (fs *FrictionSolver) {
	fs = newTestFault(t, p, l, NumFaces, [6]float64{-1, 0, 0, 0.8, 0, 0.3})
	st := fs.Layer.State
	for face := 0; face < NumFaces; face++ {
		for i := 0; i < l.NumPoints; i++ {
			st.InitialStressInFaultCS[face][i][3] += 0.05 * math.Sin(float64(3*face+i))
			st.NucleationStressInFaultCS[face][i][3] = 0.1 * float64(i%2)
		}
		fs.Layer.QInterpolatedPlus[face].SetConstant(types.XY, 0.02*float64(face))
		fs.Layer.QInterpolatedMinus[face].SetConstant(types.V, 0.01)
	}
	return
}

func TestDispatch_HostAndPointAgree(t *testing.T) {
	for _, ft := range []types.FrictionLawType{
		types.FL_RateAndStateAging, types.FL_RateAndStateFastVelocityWeakening, types.FL_LinearSlipWeakening,
	} {
		p := agingParameters()
		p.FrictionLaw = ft
		p.T0 = 0.05
		p.IsFrictionEnergyRequired = true
		p.RateAndState.NewtonTolerance = 1e-12
		if ft == types.FL_RateAndStateFastVelocityWeakening {
			p.RsB, p.MuW, p.RsSrW = 0.014, 0.2, 0.1
			p.InitialStateVar = 0
			p.InitialSlipRate1 = 1e-9
		}
		var (
			l      = NewLayoutForOrder(2)
			host   = heterogeneousFault(t, p, l, 5)
			point  = heterogeneousFault(t, p, l, 5)
			stHost = host.Layer.State
			stPt   = point.Layer.State
		)
		runSteps(host, Dispatcher{Mode: HostDispatch, ProcLimit: 2}, 40, 0.005)
		runSteps(point, Dispatcher{Mode: PointDispatch, ProcLimit: 3}, 40, 0.005)
		for face := 0; face < 5; face++ {
			for i := 0; i < l.NumPoints; i++ {
				assert.InDeltaf(t, stHost.SlipRateMagnitude[face][i], stPt.SlipRateMagnitude[face][i], 1e-7,
					"%s face %d point %d", ft.Print(), face, i)
				assert.InDelta(t, stHost.Slip1[face][i], stPt.Slip1[face][i], 1e-7)
				assert.InDelta(t, stHost.StateVariable[face][i], stPt.StateVariable[face][i], 1e-6)
				assert.InDelta(t, stHost.Energy.FrictionalEnergy[face][i], stPt.Energy.FrictionalEnergy[face][i], 1e-9)
				assert.Equal(t, stHost.RuptureTimePending[face][i], stPt.RuptureTimePending[face][i])
			}
			for q := 0; q < types.NumQuantities; q++ {
				for i := 0; i < l.NumPoints; i++ {
					assert.InDelta(t, host.Layer.ImposedStatePlus[face].Q(q)[i],
						point.Layer.ImposedStatePlus[face].Q(q)[i], 1e-7)
				}
			}
		}
	}
}

func TestRateAndState_FloorAndPadding(t *testing.T) {
	var (
		p  = agingParameters()
		l  = NewLayoutForOrder(2)
		fs = heterogeneousFault(t, p, l, 3)
		st = fs.Layer.State
	)
	runSteps(fs, Dispatcher{Mode: HostDispatch}, 30, 0.01)
	for face := 0; face < 3; face++ {
		for i := 0; i < l.NumPoints; i++ {
			srm := st.SlipRateMagnitude[face][i]
			assert.True(t, srm >= p.RateAndState.AlmostZero && utils.IsFinite(srm))
			assert.True(t, utils.IsFinite(st.StateVariable[face][i]))
		}
		for i := l.NumPoints; i < l.NumPaddedPoints; i++ {
			for _, buf := range [][]FaceBuffer{st.Mu, st.SlipRateMagnitude, st.SlipRate1, st.Slip1,
				st.StateVariable, st.Traction1, st.RuptureTime, st.PeakSlipRate} {
				assert.Equal(t, 0., buf[face][i])
			}
			for q := 0; q < types.NumQuantities; q++ {
				assert.Equal(t, 0., fs.Layer.ImposedStateMinus[face].Q(q)[i])
			}
			assert.False(t, st.RuptureTimePending[face][i])
		}
	}
}

func TestRateAndState_TensileNormalStressIsClamped(t *testing.T) {
	for _, ft := range []types.FrictionLawType{types.FL_RateAndStateAging, types.FL_LinearSlipWeakening} {
		p := agingParameters()
		p.FrictionLaw = ft
		fs := newTestFault(t, p, NewLayout(2, 4), 2, [6]float64{0, 0, 0, 0.5, 0, 0})
		for face := 0; face < 2; face++ {
			// Pulls the faces apart: N = etaP (2 / Zp) * 2 = 2
			fs.Layer.QInterpolatedPlus[face].SetConstant(types.XX, 2)
			fs.Layer.QInterpolatedMinus[face].SetConstant(types.XX, 2)
		}
		runSteps(fs, Dispatcher{Mode: HostDispatch}, 3, 0.01)
		for face := 0; face < 2; face++ {
			for i := 0; i < 4; i++ {
				assert.True(t, fs.Layer.ImposedStatePlus[face].Q(types.XX)[i] <= 0)
				assert.True(t, fs.Layer.ImposedStateMinus[face].Q(types.XX)[i] <= 0)
			}
		}
	}
}

func TestImposedNormalStress_CompressiveBackground(t *testing.T) {
	{ // Test the clamp acts on the total stress and returns the perturbation
		assert.Equal(t, 0.5, ClampNormalStress(0.5, -1))
		assert.Equal(t, 1., ClampNormalStress(2, -1))
		assert.Equal(t, -0.25, ClampNormalStress(-0.25, -1))
		assert.Equal(t, 0., ClampNormalStress(0.5, 0))
	}
	dt := 0.01
	for _, ft := range []types.FrictionLawType{types.FL_RateAndStateAging, types.FL_LinearSlipWeakening} {
		for _, tc := range []struct {
			load, imposed float64
		}{
			{0.5, 0.5}, // Total stays compressive at -0.5, perturbation passes unchanged
			{2, 1},     // Total would be +1, perturbation is cut to -sigma0
		} {
			p := agingParameters()
			p.FrictionLaw = ft
			fs := newTestFault(t, p, NewLayout(2, 4), 1, [6]float64{-1, 0, 0, 0.5, 0, 0})
			// N = etaP (load / Zp) * 2 = load
			fs.Layer.QInterpolatedPlus[0].SetConstant(types.XX, tc.load)
			fs.Layer.QInterpolatedMinus[0].SetConstant(types.XX, tc.load)
			runSteps(fs, Dispatcher{Mode: HostDispatch}, 1, dt)
			for i := 0; i < 4; i++ {
				N := fs.Layer.ImposedStatePlus[0].Q(types.XX)[i] / dt
				assert.InDeltaf(t, tc.imposed, N, 1e-12, "%s, load %g", ft.Print(), tc.load)
				assert.True(t, N > 0)
				assert.True(t, -1+N <= 0)
				assert.InDelta(t, N, fs.Layer.ImposedStateMinus[0].Q(types.XX)[i]/dt, 1e-12)
			}
		}
	}
}

func TestRateAndState_DynamicStressAndRupture(t *testing.T) {
	p := agingParameters()
	p.MuW = 0.6
	fs := newTestFault(t, p, NewLayout(2, 1), 1, [6]float64{-1, 0, 0, 1, 0, 0})
	dt := 0.01
	for n := 1; n <= 50; n++ {
		Dispatcher{}.Step(fs, float64(n)*dt, dt)
	}
	st := fs.Layer.State
	assert.False(t, st.RuptureTimePending[0][0])
	assert.InDelta(t, dt, st.RuptureTime[0][0], 1e-15)
	assert.InEpsilon(t, steadySlipRate(p, 1, -1, 1), st.PeakSlipRate[0][0], 0.5)
	// mu stays above f0, so never within 5% of (f0 - muW) of muW = f0
	assert.True(t, st.DynStressTimePending[0][0])
}

func TestFastVelocityWeakening(t *testing.T) {
	p := DefaultParameters(types.FL_RateAndStateFastVelocityWeakening)
	st := NewFrictionState(NewLayoutForOrder(2), 1)
	fl := NewFastVelocityWeakeningLaw(&p, st)
	require.NotNil(t, fl.Resample)
	{ // Test steady state is a fixed point of the state update
		for _, V := range []float64{1e-9, 1e-3, 1} {
			psi := fl.SteadyStateVariable(0, 0, V)
			assert.InEpsilon(t, psi, fl.UpdateStateVariable(0, 0, psi, 0.1, V), 1e-12)
		}
	}
	{ // Test friction weakens toward muW at high slip rate
		muLow := fl.UpdateMu(0, 0, 1e-6, fl.SteadyStateVariable(0, 0, 1e-6))
		muHigh := fl.UpdateMu(0, 0, 10, fl.SteadyStateVariable(0, 0, 10))
		assert.InDelta(t, p.RsF0, muLow, 0.01)
		assert.InDelta(t, p.MuW, muHigh, 0.01)
	}
	{ // Test uniform increments pass through resampling unchanged
		var (
			l   = st.Layout
			buf = l.NewFaceBuffer()
		)
		for i := 0; i < l.NumPoints; i++ {
			st.StateVariable[0][i] = 0.3 + 0.01*float64(i)
			buf[i] = st.StateVariable[0][i] + 0.05
		}
		fl.StoreStateIncrement(0, buf, l.HostRange())
		fl.ResampleStateVariable(0, l.HostRange())
		for i := 0; i < l.NumPoints; i++ {
			assert.InDelta(t, buf[i], st.StateVariable[0][i], 1e-13)
		}
	}
	{ // Test the derivative against a difference quotient
		var (
			V, psi = 0.01, fl.SteadyStateVariable(0, 0, 0.01)
			h      = 1e-7
		)
		dMu := (fl.UpdateMu(0, 0, V+h, psi) - fl.UpdateMu(0, 0, V-h, psi)) / (2 * h)
		assert.InEpsilon(t, dMu, fl.UpdateMuDerivative(0, 0, V, psi), 1e-6)
	}
}

func TestSlowVelocityWeakening_NotConverged(t *testing.T) {
	var (
		p   = agingParameters()
		st  = NewFrictionState(NewLayout(1, 3), 1)
		law = NewAgingLaw(&p, st)
		buf = st.NewFaceBuffer()
	)
	st.StateVariable[0][0], st.StateVariable[0][1], st.StateVariable[0][2] = 1, 2, 3
	buf[0], buf[1], buf[2] = math.NaN(), 5, math.Inf(1)
	law.ExecuteIfNotConverged(0, buf, st.HostRange())
	assert.Equal(t, []float64{1, 5, 3}, []float64(buf[:3]))
}
