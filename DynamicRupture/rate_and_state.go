package DynamicRupture

import (
	"math"

	"github.com/notargets/gorupture/utils"
)

/*
RateAndStateSolver couples a rate and state friction law to the elastic response of the
fault. Per sub-time point it alternates state variable updates with a Newton inversion of
the slip rate, then derives the final friction, traction and slip from the averaged slip rate.
*/
type RateAndStateSolver struct {
	*solverBase
	Law      FrictionLaw
	TP       FluidPressure
	settings RateAndStateSettings
}

func NewRateAndStateSolver(params *Parameters, layer *FaultLayer, law FrictionLaw, tp FluidPressure) (rs *RateAndStateSolver) {
	rs = &RateAndStateSolver{
		solverBase: newSolverBase(params, layer),
		Law:        law,
		TP:         tp,
		settings:   params.RateAndState,
	}
	rs.initializeState()
	return
}

/*
initializeState sets the initial slip rate, the state variable and the friction coefficient
they imply. A non positive initial state selects the steady state L/V of the initial slip rate.
*/
func (rs *RateAndStateSolver) initializeState() {
	var (
		st = rs.Layer.State
		p  = rs.Params
	)
	srm := math.Max(rs.settings.AlmostZero, utils.Magnitude2(p.InitialSlipRate1, p.InitialSlipRate2))
	for face := 0; face < st.NumFaces; face++ {
		for i := 0; i < st.NumPoints; i++ {
			st.SlipRate1[face][i] = p.InitialSlipRate1
			st.SlipRate2[face][i] = p.InitialSlipRate2
			st.SlipRateMagnitude[face][i] = srm
			psi := p.InitialStateVar
			if psi <= 0 {
				psi = steadyState(rs.Law, face, i, srm)
			}
			st.StateVariable[face][i] = psi
			st.Mu[face][i] = rs.Law.UpdateMu(face, i, srm, psi)
		}
	}
}

func steadyState(law FrictionLaw, face, point int, slipRate float64) float64 {
	if ss, ok := law.(interface {
		SteadyStateVariable(face, point int, slipRate float64) float64
	}); ok {
		return ss.SteadyStateVariable(face, point, slipRate)
	}
	return 0
}

func (rs *RateAndStateSolver) PreHook(face int, sc *FaceScratch, r utils.IndexRange) {
	sc.StateVariableBuffer.CopyFrom(rs.Layer.State.StateVariable[face], r)
}

func (rs *RateAndStateSolver) UpdateFrictionAndSlip(face, timeIndex int, sc *FaceScratch, r utils.IndexRange) {
	rs.calcInitialVariables(face, timeIndex, sc, r)
	if converged := rs.updateStateVariableIterative(face, timeIndex, sc, r); !converged {
		rs.Law.ExecuteIfNotConverged(face, sc.StateVariableBuffer, r)
		rs.notConverged.Add(1)
	}
	rs.TP.CalcFluidPressure(face, sc.NormalStress, rs.Layer.State.Mu[face], sc.LocalSlipRate,
		rs.TimeStepping.DeltaT[timeIndex], true, r)
	rs.updateNormalStress(face, timeIndex, sc, r)
	rs.calcSlipRateAndTraction(face, timeIndex, sc, r)
}

func (rs *RateAndStateSolver) PostHook(face int, sc *FaceScratch, r utils.IndexRange) {
	if rsm, ok := rs.Law.(StateResampler); ok {
		rsm.StoreStateIncrement(face, sc.StateVariableBuffer, r)
		return
	}
	rs.Layer.State.StateVariable[face].CopyFrom(sc.StateVariableBuffer, r)
}

func (rs *RateAndStateSolver) FinalizeHook(face int, sc *FaceScratch, r utils.IndexRange) {
	if rsm, ok := rs.Law.(StateResampler); ok {
		rsm.ResampleStateVariable(face, r)
	}
}

// SaveDynamicStressOutput marks ruptured points whose friction has dropped close to the weakened value
func (rs *RateAndStateSolver) SaveDynamicStressOutput(face int, fullUpdateTime float64, r utils.IndexRange) {
	var (
		st        = rs.Layer.State
		p         = rs.Params
		threshold = p.MuW + 0.05*(p.RsF0-p.MuW)
	)
	for i := r.Start; i < r.End; i += r.Step {
		rt := st.RuptureTime[face][i]
		if rt > 0 && rt <= fullUpdateTime && st.DynStressTimePending[face][i] &&
			st.Mu[face][i] <= threshold {
			st.DynStressTime[face][i] = fullUpdateTime
			st.DynStressTimePending[face][i] = false
		}
	}
}

func (rs *RateAndStateSolver) updateNormalStress(face, timeIndex int, sc *FaceScratch, r utils.IndexRange) {
	var (
		N    = sc.FaultStresses.NormalStress[timeIndex]
		init = rs.Layer.State.InitialStressInFaultCS[face]
	)
	for i := r.Start; i < r.End; i += r.Step {
		sc.NormalStress[i] = math.Min(0, N[i]+init[i][0]+rs.TP.FluidPressure(face, i))
	}
}

func (rs *RateAndStateSolver) calcInitialVariables(face, timeIndex int, sc *FaceScratch, r utils.IndexRange) {
	var (
		st     = rs.Layer.State
		init   = st.InitialStressInFaultCS[face]
		T1, T2 = sc.FaultStresses.Traction1[timeIndex], sc.FaultStresses.Traction2[timeIndex]
	)
	sc.StateVarReference.CopyFrom(sc.StateVariableBuffer, r)
	rs.updateNormalStress(face, timeIndex, sc, r)
	for i := r.Start; i < r.End; i += r.Step {
		sc.AbsoluteShearStress[i] = utils.Magnitude2(init[i][3]+T1[i], init[i][5]+T2[i])
		srm := math.Max(rs.settings.AlmostZero, utils.Magnitude2(st.SlipRate1[face][i], st.SlipRate2[face][i]))
		st.SlipRateMagnitude[face][i] = srm
		sc.LocalSlipRate[i] = srm
	}
}

/*
updateStateVariableIterative alternates state variable updates from the reference state with
slip rate inversions. The slip rate driving the next state update is the average of the
previous estimate and the new root.
*/
func (rs *RateAndStateSolver) updateStateVariableIterative(face, timeIndex int, sc *FaceScratch,
	r utils.IndexRange) (converged bool) {
	var (
		st  = rs.Layer.State
		dt  = rs.TimeStepping.DeltaT[timeIndex]
		srm = st.SlipRateMagnitude[face]
		mu  = st.Mu[face]
	)
	for j := 0; j < rs.settings.NumberStateVariableUpdates; j++ {
		for i := r.Start; i < r.End; i += r.Step {
			sc.StateVariableBuffer[i] = rs.Law.UpdateStateVariable(face, i, sc.StateVarReference[i], dt, sc.LocalSlipRate[i])
		}
		rs.TP.CalcFluidPressure(face, sc.NormalStress, mu, sc.LocalSlipRate, dt, false, r)
		rs.updateNormalStress(face, timeIndex, sc, r)

		converged = rs.InvertSlipRateIterative(face, sc, r)

		for i := r.Start; i < r.End; i += r.Step {
			sc.LocalSlipRate[i] = 0.5 * (srm[i] + math.Abs(sc.TestSlipRate[i]))
			srm[i] = math.Abs(sc.TestSlipRate[i])
			mu[i] = rs.Law.UpdateMu(face, i, srm[i], sc.StateVariableBuffer[i])
		}
	}
	return
}

/*
InvertSlipRateIterative finds the slip rate V at which the elastic response of the fault
balances its frictional strength,

	g(V) = -(|sigma_n| mu(V, psi) - tau) / etaS - V = 0

with Newton steps clamped to the slip rate floor. The result is left in sc.TestSlipRate.
Convergence is decided over the whole range: every |g| must drop below the tolerance.
*/
func (rs *RateAndStateSolver) InvertSlipRateIterative(face int, sc *FaceScratch, r utils.IndexRange) (converged bool) {
	var (
		ie    = &rs.Layer.Impedances[face]
		srm   = rs.Layer.State.SlipRateMagnitude[face]
		floor = rs.settings.AlmostZero
		tol   = rs.settings.NewtonTolerance
	)
	sc.TestSlipRate.CopyFrom(srm, r)
	for k := 0; k < rs.settings.MaxNumberSlipRateUpdates; k++ {
		converged = true
		for i := r.Start; i < r.End; i += r.Step {
			var (
				V   = sc.TestSlipRate[i]
				psi = sc.StateVariableBuffer[i]
				sn  = math.Abs(sc.NormalStress[i])
			)
			sc.MuF[i] = rs.Law.UpdateMu(face, i, V, psi)
			sc.DMuF[i] = rs.Law.UpdateMuDerivative(face, i, V, psi)
			sc.G[i] = -ie.InvEtaS*(sn*sc.MuF[i]-sc.AbsoluteShearStress[i]) - V
			if !(math.Abs(sc.G[i]) < tol) {
				converged = false
			}
		}
		if converged {
			return
		}
		for i := r.Start; i < r.End; i += r.Step {
			var (
				V    = sc.TestSlipRate[i]
				dG   = -ie.InvEtaS*math.Abs(sc.NormalStress[i])*sc.DMuF[i] - 1
				next = V - sc.G[i]/dG
			)
			if !utils.IsFinite(next) {
				next = V
			}
			sc.TestSlipRate[i] = math.Max(floor, next)
		}
	}
	return false
}

// calcSlipRateAndTraction derives the final friction, traction, slip rate and slip of the sub-time point
func (rs *RateAndStateSolver) calcSlipRateAndTraction(face, timeIndex int, sc *FaceScratch, r utils.IndexRange) {
	var (
		st     = rs.Layer.State
		ie     = &rs.Layer.Impedances[face]
		dt     = rs.TimeStepping.DeltaT[timeIndex]
		init   = st.InitialStressInFaultCS[face]
		fs     = &sc.FaultStresses
		tr     = &sc.TractionResults
		T1, T2 = fs.Traction1[timeIndex], fs.Traction2[timeIndex]
		srm    = st.SlipRateMagnitude[face]
	)
	for i := r.Start; i < r.End; i += r.Step {
		sc.StateVariableBuffer[i] = rs.Law.UpdateStateVariable(face, i, sc.StateVarReference[i], dt, sc.LocalSlipRate[i])
		st.Mu[face][i] = rs.Law.UpdateMu(face, i, srm[i], sc.StateVariableBuffer[i])
		strength := -st.Mu[face][i] * sc.NormalStress[i]
		sc.StrengthBuffer[i] = strength

		var (
			total1     = init[i][3] + T1[i]
			total2     = init[i][5] + T2[i]
			dir1, dir2 float64
		)
		if tau := sc.AbsoluteShearStress[i]; tau > 0 {
			dir1, dir2 = total1/tau, total2/tau
		}
		st.Traction1[face][i] = dir1*strength - init[i][3]
		st.Traction2[face][i] = dir2*strength - init[i][5]

		st.AccumulatedSlipMagnitude[face][i] += srm[i] * dt

		sr1 := -ie.InvEtaS * (st.Traction1[face][i] - T1[i])
		sr2 := -ie.InvEtaS * (st.Traction2[face][i] - T2[i])
		if mag := utils.Magnitude2(sr1, sr2); mag != 0 {
			sr1 *= srm[i] / mag
			sr2 *= srm[i] / mag
		}
		st.SlipRate1[face][i], st.SlipRate2[face][i] = sr1, sr2

		tr.NormalStress[timeIndex][i] = ClampNormalStress(fs.NormalStress[timeIndex][i], init[i][0])
		tr.Traction1[timeIndex][i] = st.Traction1[face][i]
		tr.Traction2[timeIndex][i] = st.Traction2[face][i]

		st.Slip1[face][i] += sr1 * dt
		st.Slip2[face][i] += sr2 * dt
	}
}
