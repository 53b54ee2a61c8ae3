package DynamicRupture

import "github.com/notargets/gorupture/DG1D"

/*
TimeStepping holds the sub-time quadrature of one bulk time step. TimePoints and
TimeWeights are the Gauss-Legendre nodes and weights mapped onto [0, TimeStepSize].
DeltaT[o] is the time advanced by sub-step o: the gap to the previous node, with the
first gap (from 0 to the first node) also added to the last entry so that the sub-steps
sum to TimeStepSize.
*/
type TimeStepping struct {
	FullUpdateTime float64
	TimeStepSize   float64
	TimePoints     []float64
	TimeWeights    []float64
	DeltaT         []float64
}

func NewTimeStepping(ConvergenceOrder int, fullUpdateTime, dt float64) (ts TimeStepping) {
	ts = TimeStepping{
		FullUpdateTime: fullUpdateTime,
		TimeStepSize:   dt,
		DeltaT:         make([]float64, ConvergenceOrder),
	}
	ts.TimePoints, ts.TimeWeights = DG1D.TimeQuadrature(ConvergenceOrder-1, dt)
	ts.DeltaT[0] = ts.TimePoints[0]
	for o := 1; o < ConvergenceOrder; o++ {
		ts.DeltaT[o] = ts.TimePoints[o] - ts.TimePoints[o-1]
	}
	ts.DeltaT[ConvergenceOrder-1] += ts.TimePoints[0]
	return
}

// SubStepTime is the time reached at the end of sub-step o
func (ts TimeStepping) SubStepTime(o int) (t float64) {
	t = ts.FullUpdateTime
	for oo := 0; oo <= o; oo++ {
		t += ts.DeltaT[oo]
	}
	return
}
