package DynamicRupture

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/gorupture/types"
)

func lswParameters() (p Parameters) {
	p = DefaultParameters(types.FL_LinearSlipWeakening)
	p.T0 = 0
	return
}

func TestLinearSlipWeakening_Locked(t *testing.T) {
	var (
		p  = lswParameters()
		fs = newTestFault(t, p, NewLayout(2, 3), 1, [6]float64{-1, 0, 0, 0.5, 0, 0.2})
		st = fs.Layer.State
	)
	fs.Layer.QInterpolatedPlus[0].SetConstant(types.XY, 0.1)
	fs.Layer.QInterpolatedMinus[0].SetConstant(types.XY, 0.1)
	runSteps(fs, Dispatcher{}, 10, 0.01)
	for i := 0; i < 3; i++ {
		assert.Equal(t, 0., st.SlipRateMagnitude[0][i])
		assert.Equal(t, 0., st.Slip1[0][i])
		assert.Equal(t, p.MuS, st.Mu[0][i])
		assert.True(t, st.RuptureTimePending[0][i])
		// A locked fault transmits the stress it receives
		assert.InDelta(t, 0.1, st.Traction1[0][i], 1e-14)
		assert.InDelta(t, 0.1, fs.Layer.ImposedStatePlus[0].Q(types.XY)[i]/0.01, 1e-12)
	}
}

func TestLinearSlipWeakening_Slipping(t *testing.T) {
	var (
		p   = lswParameters()
		fs  = newTestFault(t, p, NewLayout(1, 1), 1, [6]float64{-2, 0, 0, 1.2, 0, 0.9})
		st  = fs.Layer.State
		sc  = fs.Scratch(0)
		tau = math.Hypot(1.2, 0.9)
		dt  = 0.01
	)
	Dispatcher{}.Step(fs, dt, dt)
	{ // Test the traction drops to the static strength
		strength := 2 * p.MuS
		assert.InDelta(t, strength, sc.StrengthBuffer[0], 1e-14)
		assert.InDelta(t, tau-strength, st.SlipRateMagnitude[0][0], 1e-14)
		assert.InDelta(t, strength, math.Hypot(st.Traction1[0][0]+1.2, st.Traction2[0][0]+0.9), 1e-13)
		// Slip is parallel to the shear traction
		assert.InDelta(t, 1.2/0.9, st.SlipRate1[0][0]/st.SlipRate2[0][0], 1e-12)
		assert.InDelta(t, st.SlipRateMagnitude[0][0]*dt, st.AccumulatedSlipMagnitude[0][0], 1e-15)
		assert.InDelta(t, dt, st.RuptureTime[0][0], 1e-15)
	}
	{ // Test linear weakening with slip
		frac := st.AccumulatedSlipMagnitude[0][0] / p.DC
		assert.InDelta(t, p.MuS-(p.MuS-p.MuD)*frac, st.Mu[0][0], 1e-14)
	}
	{ // Test full weakening and the dynamic stress time
		for n := 2; n < 200 && st.DynStressTimePending[0][0]; n++ {
			Dispatcher{}.Step(fs, float64(n)*dt, dt)
		}
		assert.False(t, st.DynStressTimePending[0][0])
		assert.InDelta(t, p.MuD, st.Mu[0][0], 1e-15)
		assert.True(t, st.AccumulatedSlipMagnitude[0][0] >= p.DC)
	}
}

func TestLinearSlipWeakening_ForcedRupture(t *testing.T) {
	var (
		p  = lswParameters()
		dt = 0.1
	)
	p.ForcedRuptureTime = 0.5
	fs := newTestFault(t, p, NewLayout(1, 1), 1, [6]float64{-1, 0, 0, 0.6, 0, 0})
	st := fs.Layer.State
	for n := 0; n <= 3; n++ {
		Dispatcher{}.Step(fs, float64(n)*dt, dt)
	}
	assert.Equal(t, p.MuS, st.Mu[0][0])
	assert.Equal(t, 0., st.SlipRateMagnitude[0][0])
	Dispatcher{}.Step(fs, 0.4, dt) // reaches t = 0.5 at the end of the step
	assert.InDelta(t, p.MuD, st.Mu[0][0], 1e-15)
	assert.Equal(t, 0., st.SlipRateMagnitude[0][0])
	Dispatcher{}.Step(fs, 0.5, dt)
	assert.InDelta(t, 0.6-p.MuD, st.SlipRateMagnitude[0][0], 1e-14)
}

func TestLinearSlipWeakening_Healing(t *testing.T) {
	p := lswParameters()
	p.HealingThreshold = 1e-3
	fs := newTestFault(t, p, NewLayout(1, 1), 1, [6]float64{-1, 0, 0, 0.7, 0, 0})
	st := fs.Layer.State
	Dispatcher{}.Step(fs, 0.1, 0.1)
	assert.True(t, st.AccumulatedSlipMagnitude[0][0] > 0)
	// Unload below the weakened strength, the point stops and heals
	st.InitialStressInFaultCS[0][0][3] = 0.1
	Dispatcher{}.Step(fs, 0.2, 0.1)
	assert.Equal(t, 0., st.SlipRateMagnitude[0][0])
	assert.Equal(t, p.MuS, st.Mu[0][0])
	assert.Equal(t, 0., st.AccumulatedSlipMagnitude[0][0])
}

func TestNoFault(t *testing.T) {
	p := DefaultParameters(types.FL_NoFault)
	p.IsFrictionEnergyRequired = true
	var (
		l  = NewLayout(3, 4)
		fs = newTestFault(t, p, l, 2, [6]float64{-1, 0, 0, 5, 0, 0})
		sc = fs.Scratch(1)
		st = fs.Layer.State
	)
	fillHistory(fs.Layer.QInterpolatedPlus[1], 0.2)
	fillHistory(fs.Layer.QInterpolatedMinus[1], 1.3)
	Dispatcher{Mode: PointDispatch}.Step(fs, 0, 0.1)
	for o := 0; o < 3; o++ {
		assert.Equal(t, sc.FaultStresses.Traction1[o], sc.TractionResults.Traction1[o])
		assert.Equal(t, sc.FaultStresses.Traction2[o], sc.TractionResults.Traction2[o])
		assert.Equal(t, sc.FaultStresses.NormalStress[o], sc.TractionResults.NormalStress[o])
	}
	for face := 0; face < 2; face++ {
		for i := 0; i < l.NumPoints; i++ {
			assert.Equal(t, 0., st.SlipRateMagnitude[face][i])
			assert.True(t, st.RuptureTimePending[face][i])
		}
	}
	{ // Test energy stays zero without a velocity jump
		for i := 0; i < l.NumPoints; i++ {
			assert.Equal(t, 0., st.Energy.FrictionalEnergy[0][i])
			assert.Equal(t, 0., st.Energy.AccumulatedSlip[0][i])
		}
	}
}

func TestFrictionEnergy_ZeroSlipRate(t *testing.T) {
	p := lswParameters()
	p.IsFrictionEnergyRequired = true
	var (
		l  = NewLayout(2, 3)
		fs = newTestFault(t, p, l, 1, [6]float64{-1, 0, 0, 0.3, 0, 0})
		st = fs.Layer.State
	)
	for _, fh := range []FieldHistory{fs.Layer.QInterpolatedPlus[0], fs.Layer.QInterpolatedMinus[0]} {
		fh.SetConstant(types.XY, 0.2)
		fh.SetConstant(types.XX, -0.4)
		fh.SetConstant(types.V, 0.3)
	}
	runSteps(fs, Dispatcher{}, 20, 0.05)
	for i := 0; i < l.NumPoints; i++ {
		assert.Equal(t, 0., st.SlipRateMagnitude[0][i])
		assert.Equal(t, 0., st.Energy.FrictionalEnergy[0][i])
		assert.Equal(t, 0., st.Energy.AccumulatedSlip[0][i])
		assert.Equal(t, 0., st.AccumulatedSlipMagnitude[0][i])
	}
}
