package DynamicRupture

import (
	"math"

	"github.com/notargets/gorupture/utils"
)

/*
LinearSlipWeakeningLaw drops friction linearly from MuS to MuD over the slip distance DC.
Its state variable is the weakened fraction in [0, 1]: the larger of the normalized slip
and the forced rupture ramp.
*/
type LinearSlipWeakeningLaw struct {
	MuS, MuD, DC, Cohesion []FaceBuffer
	ForcedRuptureTime      []FaceBuffer
	T0                     float64 // Forced rupture ramp time
}

func NewLinearSlipWeakeningLaw(params *Parameters, st *FrictionState) *LinearSlipWeakeningLaw {
	var (
		l                 = st.Layout
		forcedRuptureTime = params.ForcedRuptureTime
	)
	if forcedRuptureTime <= 0 {
		forcedRuptureTime = math.Inf(1)
	}
	return &LinearSlipWeakeningLaw{
		MuS:               uniformBuffers(l, st.NumFaces, params.MuS),
		MuD:               uniformBuffers(l, st.NumFaces, params.MuD),
		DC:                uniformBuffers(l, st.NumFaces, params.DC),
		Cohesion:          uniformBuffers(l, st.NumFaces, params.Cohesion),
		ForcedRuptureTime: uniformBuffers(l, st.NumFaces, forcedRuptureTime),
		T0:                params.T0,
	}
}

// UpdateStateVariable is the normalized slip after slipping at slipRate from accumulated slip stateVarReference
func (lsw *LinearSlipWeakeningLaw) UpdateStateVariable(face, point int, stateVarReference, timeIncrement, slipRate float64) float64 {
	return math.Min(math.Abs(stateVarReference+slipRate*timeIncrement)/lsw.DC[face][point], 1)
}

func (lsw *LinearSlipWeakeningLaw) UpdateMu(face, point int, _, stateVariable float64) float64 {
	return lsw.MuS[face][point] - (lsw.MuS[face][point]-lsw.MuD[face][point])*stateVariable
}

func (lsw *LinearSlipWeakeningLaw) UpdateMuDerivative(int, int, float64, float64) float64 { return 0 }

func (lsw *LinearSlipWeakeningLaw) ExecuteIfNotConverged(int, FaceBuffer, utils.IndexRange) {}

// ForcedRuptureFraction ramps from 0 to 1 over T0 starting at the point's forced rupture time
func (lsw *LinearSlipWeakeningLaw) ForcedRuptureFraction(face, point int, t float64) float64 {
	frt := lsw.ForcedRuptureTime[face][point]
	if lsw.T0 == 0 {
		if t >= frt {
			return 1
		}
		return 0
	}
	return math.Max(0, math.Min(1, (t-frt)/lsw.T0))
}

/*
LinearSlipWeakeningSolver resolves the fault traction directly: a point sticks while the
shear traction is below its strength, otherwise it slides at the rate that brings the
traction down to the strength.
*/
type LinearSlipWeakeningSolver struct {
	*solverBase
	Law *LinearSlipWeakeningLaw
}

func NewLinearSlipWeakeningSolver(params *Parameters, layer *FaultLayer) (ls *LinearSlipWeakeningSolver) {
	ls = &LinearSlipWeakeningSolver{
		solverBase: newSolverBase(params, layer),
		Law:        NewLinearSlipWeakeningLaw(params, layer.State),
	}
	st := layer.State
	for face := 0; face < st.NumFaces; face++ {
		st.Mu[face].CopyFrom(ls.Law.MuS[face], layer.HostRange())
	}
	return
}

func (ls *LinearSlipWeakeningSolver) PreHook(face int, sc *FaceScratch, r utils.IndexRange) {
	sc.StateVariableBuffer.CopyFrom(ls.Layer.State.StateVariable[face], r)
}

func (ls *LinearSlipWeakeningSolver) UpdateFrictionAndSlip(face, timeIndex int, sc *FaceScratch, r utils.IndexRange) {
	var (
		st   = ls.Layer.State
		ie   = &ls.Layer.Impedances[face]
		dt   = ls.TimeStepping.DeltaT[timeIndex]
		tn   = ls.TimeStepping.SubStepTime(timeIndex)
		init = st.InitialStressInFaultCS[face]
		fs   = &sc.FaultStresses
		tr   = &sc.TractionResults
		N    = fs.NormalStress[timeIndex]
		T1   = fs.Traction1[timeIndex]
		T2   = fs.Traction2[timeIndex]
		srm  = st.SlipRateMagnitude[face]
	)
	for i := r.Start; i < r.End; i += r.Step {
		strength := -ls.Law.Cohesion[face][i] - st.Mu[face][i]*math.Min(init[i][0]+N[i], 0)
		sc.StrengthBuffer[i] = strength

		var (
			total1 = init[i][3] + T1[i]
			total2 = init[i][5] + T2[i]
			tau    = utils.Magnitude2(total1, total2)
		)
		srm[i] = math.Max(0, (tau-strength)*ie.InvEtaS)
		st.SlipRate1[face][i], st.SlipRate2[face][i] = 0, 0
		if srm[i] > 0 {
			divisor := strength + ie.EtaS*srm[i]
			st.SlipRate1[face][i] = srm[i] * total1 / divisor
			st.SlipRate2[face][i] = srm[i] * total2 / divisor
		}

		st.Traction1[face][i] = total1 - ie.EtaS*st.SlipRate1[face][i] - init[i][3]
		st.Traction2[face][i] = total2 - ie.EtaS*st.SlipRate2[face][i] - init[i][5]
		tr.NormalStress[timeIndex][i] = ClampNormalStress(N[i], init[i][0])
		tr.Traction1[timeIndex][i] = st.Traction1[face][i]
		tr.Traction2[timeIndex][i] = st.Traction2[face][i]

		st.Slip1[face][i] += st.SlipRate1[face][i] * dt
		st.Slip2[face][i] += st.SlipRate2[face][i] * dt

		slipReference := st.AccumulatedSlipMagnitude[face][i]
		st.AccumulatedSlipMagnitude[face][i] += srm[i] * dt
		psi := math.Max(
			ls.Law.UpdateStateVariable(face, i, slipReference, dt, srm[i]),
			ls.Law.ForcedRuptureFraction(face, i, tn))
		sc.StateVariableBuffer[i] = psi
		st.Mu[face][i] = ls.Law.UpdateMu(face, i, srm[i], psi)

		if ls.Params.HealingThreshold > 0 && srm[i] < ls.Params.HealingThreshold &&
			!st.RuptureTimePending[face][i] {
			st.Mu[face][i] = ls.Law.MuS[face][i]
			st.AccumulatedSlipMagnitude[face][i] = 0
		}
	}
}

func (ls *LinearSlipWeakeningSolver) PostHook(face int, sc *FaceScratch, r utils.IndexRange) {
	ls.Layer.State.StateVariable[face].CopyFrom(sc.StateVariableBuffer, r)
}

func (ls *LinearSlipWeakeningSolver) FinalizeHook(int, *FaceScratch, utils.IndexRange) {}

// SaveDynamicStressOutput marks ruptured points whose slip has reached the weakening distance
func (ls *LinearSlipWeakeningSolver) SaveDynamicStressOutput(face int, fullUpdateTime float64, r utils.IndexRange) {
	st := ls.Layer.State
	for i := r.Start; i < r.End; i += r.Step {
		rt := st.RuptureTime[face][i]
		if rt > 0 && rt <= fullUpdateTime && st.DynStressTimePending[face][i] &&
			math.Abs(st.AccumulatedSlipMagnitude[face][i]) >= ls.Law.DC[face][i] {
			st.DynStressTime[face][i] = fullUpdateTime
			st.DynStressTimePending[face][i] = false
		}
	}
}
