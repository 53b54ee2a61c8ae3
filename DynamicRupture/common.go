package DynamicRupture

import (
	"math"

	"github.com/notargets/gorupture/types"
	"github.com/notargets/gorupture/utils"
)

// RuptureFrontThreshold is the slip rate magnitude at which a point counts as ruptured
const RuptureFrontThreshold = 0.001

/*
PrecomputeStressFromQInterpolated solves the characteristic interface condition for the
normal stress and shear tractions at every sub-time point from the two sided interpolated
fields. It writes only into fs.
*/
func PrecomputeStressFromQInterpolated(fs *FaultStresses, ie *ImpedancesAndEta,
	qPlus, qMinus FieldHistory, r utils.IndexRange) {
	if Debug {
		checkFieldHistory("plus side field history", qPlus, qMinus.Layout)
		checkRange(r, qPlus.Layout)
	}
	for o := 0; o < qPlus.ConvergenceOrder; o++ {
		var (
			uP, uM     = qPlus.Q(o, types.U), qMinus.Q(o, types.U)
			vP, vM     = qPlus.Q(o, types.V), qMinus.Q(o, types.V)
			wP, wM     = qPlus.Q(o, types.W), qMinus.Q(o, types.W)
			sxxP, sxxM = qPlus.Q(o, types.XX), qMinus.Q(o, types.XX)
			sxyP, sxyM = qPlus.Q(o, types.XY), qMinus.Q(o, types.XY)
			sxzP, sxzM = qPlus.Q(o, types.XZ), qMinus.Q(o, types.XZ)
			N, T1, T2  = fs.NormalStress[o], fs.Traction1[o], fs.Traction2[o]
		)
		for i := r.Start; i < r.End; i += r.Step {
			N[i] = ie.EtaP * (uM[i] - uP[i] + sxxP[i]*ie.InvZp + sxxM[i]*ie.InvZpNeig)
			T1[i] = ie.EtaS * (vM[i] - vP[i] + sxyP[i]*ie.InvZs + sxyM[i]*ie.InvZsNeig)
			T2[i] = ie.EtaS * (wM[i] - wP[i] + sxzP[i]*ie.InvZs + sxzM[i]*ie.InvZsNeig)
		}
	}
}

/*
PostcomputeImposedStateFromNewStress integrates the friction law's tractions over the
sub-time points into the boundary state of both sides. The imposed velocities follow from
the characteristic relation between the traction change and each side's impedance.
*/
func PostcomputeImposedStateFromNewStress(tr *TractionResults, ie *ImpedancesAndEta,
	isPlus, isMinus ImposedState, qPlus, qMinus FieldHistory, timeWeights []float64, r utils.IndexRange) {
	if Debug {
		checkFieldHistory("minus side field history", qMinus, qPlus.Layout)
		checkRange(r, qPlus.Layout)
	}
	for q := 0; q < types.NumQuantities; q++ {
		isPlus.Q(q).Fill(r, 0)
		isMinus.Q(q).Fill(r, 0)
	}
	var (
		NP, T1P, T2P = isPlus.Q(types.XX), isPlus.Q(types.XY), isPlus.Q(types.XZ)
		NM, T1M, T2M = isMinus.Q(types.XX), isMinus.Q(types.XY), isMinus.Q(types.XZ)
		UP, VP, WP   = isPlus.Q(types.U), isPlus.Q(types.V), isPlus.Q(types.W)
		UM, VM, WM   = isMinus.Q(types.U), isMinus.Q(types.V), isMinus.Q(types.W)
	)
	for o := 0; o < qPlus.ConvergenceOrder; o++ {
		var (
			weight     = timeWeights[o]
			N, T1, T2  = tr.NormalStress[o], tr.Traction1[o], tr.Traction2[o]
			uP, uM     = qPlus.Q(o, types.U), qMinus.Q(o, types.U)
			vP, vM     = qPlus.Q(o, types.V), qMinus.Q(o, types.V)
			wP, wM     = qPlus.Q(o, types.W), qMinus.Q(o, types.W)
			sxxP, sxxM = qPlus.Q(o, types.XX), qMinus.Q(o, types.XX)
			sxyP, sxyM = qPlus.Q(o, types.XY), qMinus.Q(o, types.XY)
			sxzP, sxzM = qPlus.Q(o, types.XZ), qMinus.Q(o, types.XZ)
		)
		for i := r.Start; i < r.End; i += r.Step {
			NM[i] += weight * N[i]
			T1M[i] += weight * T1[i]
			T2M[i] += weight * T2[i]
			UM[i] += weight * (uM[i] - ie.InvZpNeig*(N[i]-sxxM[i]))
			VM[i] += weight * (vM[i] - ie.InvZsNeig*(T1[i]-sxyM[i]))
			WM[i] += weight * (wM[i] - ie.InvZsNeig*(T2[i]-sxzM[i]))

			NP[i] += weight * N[i]
			T1P[i] += weight * T1[i]
			T2P[i] += weight * T2[i]
			UP[i] += weight * (uP[i] + ie.InvZp*(N[i]-sxxP[i]))
			VP[i] += weight * (vP[i] + ie.InvZs*(T1[i]-sxyP[i]))
			WP[i] += weight * (wP[i] + ie.InvZs*(T2[i]-sxzP[i]))
		}
	}
}

// ClampNormalStress keeps the total normal stress from becoming tensile, returning the clamped perturbation
func ClampNormalStress(normalStress, initialNormalStress float64) float64 {
	return math.Min(0, normalStress+initialNormalStress) - initialNormalStress
}

// SaveRuptureFrontOutput records the first full update time at which a point slips faster than the threshold
func SaveRuptureFrontOutput(pending []bool, ruptureTime, slipRateMagnitude FaceBuffer,
	fullUpdateTime float64, r utils.IndexRange) {
	for i := r.Start; i < r.End; i += r.Step {
		if pending[i] && slipRateMagnitude[i] > RuptureFrontThreshold {
			ruptureTime[i] = fullUpdateTime
			pending[i] = false
		}
	}
}

func SavePeakSlipRateOutput(slipRateMagnitude, peakSlipRate FaceBuffer, r utils.IndexRange) {
	for i := r.Start; i < r.End; i += r.Step {
		peakSlipRate[i] = math.Max(peakSlipRate[i], slipRateMagnitude[i])
	}
}

/*
ComputeFrictionEnergy integrates the velocity jump (minus side less plus side) into the slip
outputs and the work of the interpolated fault tractions against that jump into the
frictional energy. The traction seen by the fault is the impedance weighted average of both
sides.
*/
func ComputeFrictionEnergy(energy *EnergyOutput, face int, ie *ImpedancesAndEta,
	qPlus, qMinus FieldHistory, timeWeights []float64, spaceWeights FaceBuffer,
	doubledSurfaceArea float64, r utils.IndexRange) {
	var (
		slip             = [3]FaceBuffer{energy.Slip[0][face], energy.Slip[1][face], energy.Slip[2][face]}
		accumulatedSlip  = energy.AccumulatedSlip[face]
		frictionalEnergy = energy.FrictionalEnergy[face]
		aPlus, aMinus    = ie.EtaP * ie.InvZp, ie.EtaP * ie.InvZpNeig
		bPlus, bMinus    = ie.EtaS * ie.InvZs, ie.EtaS * ie.InvZsNeig
	)
	for o := 0; o < qPlus.ConvergenceOrder; o++ {
		var (
			tw         = timeWeights[o]
			uP, uM     = qPlus.Q(o, types.U), qMinus.Q(o, types.U)
			vP, vM     = qPlus.Q(o, types.V), qMinus.Q(o, types.V)
			wP, wM     = qPlus.Q(o, types.W), qMinus.Q(o, types.W)
			sxxP, sxxM = qPlus.Q(o, types.XX), qMinus.Q(o, types.XX)
			sxyP, sxyM = qPlus.Q(o, types.XY), qMinus.Q(o, types.XY)
			sxzP, sxzM = qPlus.Q(o, types.XZ), qMinus.Q(o, types.XZ)
		)
		for i := r.Start; i < r.End; i += r.Step {
			var (
				jump1, jump2, jump3 = uM[i] - uP[i], vM[i] - vP[i], wM[i] - wP[i]
				traction11          = aPlus*sxxM[i] + aMinus*sxxP[i]
				traction12          = bPlus*sxyM[i] + bMinus*sxyP[i]
				traction13          = bPlus*sxzM[i] + bMinus*sxzP[i]
				weight              = -tw * spaceWeights[i] * doubledSurfaceArea
			)
			accumulatedSlip[i] += tw * utils.Magnitude3(jump1, jump2, jump3)
			slip[0][i] += tw * jump1
			slip[1][i] += tw * jump2
			slip[2][i] += tw * jump3
			frictionalEnergy[i] += weight * (traction11*jump1 + traction12*jump2 + traction13*jump3)
		}
	}
}
