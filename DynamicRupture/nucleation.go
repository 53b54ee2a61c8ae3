package DynamicRupture

import (
	"math"

	"github.com/notargets/gorupture/types"
	"github.com/notargets/gorupture/utils"
)

// SmoothStep rises from 0 at t <= 0 to 1 at t >= T with all derivatives continuous
func SmoothStep(t, T float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t < T:
		tau := t - T
		return math.Exp(tau * tau / (t * (t - 2*T)))
	default:
		return 1
	}
}

// SmoothStepIncrement is the share of the step released between t-dt and t
func SmoothStepIncrement(t, dt, T float64) float64 {
	return SmoothStep(t, T) - SmoothStep(t-dt, T)
}

/*
AdjustInitialStress releases the nucleation stress into the initial stress of one face with
the smooth step profile over [0, t0]. Steps beginning after t0 leave the stress untouched.
*/
func AdjustInitialStress(initialStress, nucleationStress [][types.NumStressComponents]float64,
	fullUpdateTime, t0, dt float64, r utils.IndexRange) {
	if fullUpdateTime > t0 {
		return
	}
	gNuc := SmoothStepIncrement(fullUpdateTime, dt, t0)
	if gNuc == 0 {
		return
	}
	for i := r.Start; i < r.End; i += r.Step {
		for n := 0; n < types.NumStressComponents; n++ {
			initialStress[i][n] += gNuc * nucleationStress[i][n]
		}
	}
}
