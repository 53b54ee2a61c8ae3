package DynamicRupture

import (
	"github.com/notargets/gorupture/utils"
)

/*
FrictionSolver runs one bulk time step of the fault. A face is evaluated in two stages,

	SolveFace   stress transfer, pre hook, nucleation, every sub-time point, post hook
	FinishFace  face coupled post processing, diagnostics, boundary state, energy

which a caller may run back to back per face, or with a barrier in between when the points
of a face are spread over several workers.
*/
type FrictionSolver struct {
	Params  *Parameters
	Layer   *FaultLayer
	Solver  Solver
	base    *solverBase
	scratch []*FaceScratch
}

func NewFrictionSolver(params *Parameters, layer *FaultLayer) (fs *FrictionSolver, err error) {
	if err = params.Validate(); err != nil {
		return
	}
	if err = layer.CheckShapes(); err != nil {
		return
	}
	var s Solver
	if s, err = NewSolver(params, layer); err != nil {
		return
	}
	fs = NewFrictionSolverFor(params, layer, s)
	return
}

// NewFrictionSolverFor wraps an already built solver variant
func NewFrictionSolverFor(params *Parameters, layer *FaultLayer, s Solver) (fs *FrictionSolver) {
	fs = &FrictionSolver{
		Params:  params,
		Layer:   layer,
		Solver:  s,
		base:    s.(hasBase).base(),
		scratch: make([]*FaceScratch, layer.NumFaces),
	}
	for face := range fs.scratch {
		fs.scratch[face] = NewFaceScratch(layer.Layout)
	}
	return
}

// SetTimeStep must not run concurrently with face evaluations
func (fs *FrictionSolver) SetTimeStep(fullUpdateTime, dt float64) {
	ts := &fs.base.TimeStepping
	if ts.TimeStepSize != dt || len(ts.DeltaT) != fs.Layer.ConvergenceOrder {
		*ts = NewTimeStepping(fs.Layer.ConvergenceOrder, fullUpdateTime, dt)
		return
	}
	ts.FullUpdateTime = fullUpdateTime
}

func (fs *FrictionSolver) TimeStepping() TimeStepping { return fs.base.TimeStepping }

// NotConvergedFaces counts the face ranges whose slip rate inversion reached the iteration cap
func (fs *FrictionSolver) NotConvergedFaces() int64 { return fs.base.NotConverged() }

func (fs *FrictionSolver) Scratch(face int) *FaceScratch { return fs.scratch[face] }

func (fs *FrictionSolver) SolveFace(face int, r utils.IndexRange) {
	var (
		l  = fs.Layer
		st = l.State
		ts = &fs.base.TimeStepping
		sc = fs.scratch[face]
	)
	if Debug {
		checkRange(r, l.Layout)
	}
	PrecomputeStressFromQInterpolated(&sc.FaultStresses, &l.Impedances[face],
		l.QInterpolatedPlus[face], l.QInterpolatedMinus[face], r)
	fs.Solver.PreHook(face, sc, r)
	AdjustInitialStress(st.InitialStressInFaultCS[face], st.NucleationStressInFaultCS[face],
		ts.FullUpdateTime, fs.Params.T0, ts.TimeStepSize, r)
	for o := 0; o < l.ConvergenceOrder; o++ {
		fs.Solver.UpdateFrictionAndSlip(face, o, sc, r)
	}
	fs.Solver.PostHook(face, sc, r)
}

func (fs *FrictionSolver) FinishFace(face int, r utils.IndexRange) {
	var (
		l  = fs.Layer
		st = l.State
		ts = &fs.base.TimeStepping
		sc = fs.scratch[face]
	)
	fs.Solver.FinalizeHook(face, sc, r)
	SaveRuptureFrontOutput(st.RuptureTimePending[face], st.RuptureTime[face], st.SlipRateMagnitude[face],
		ts.FullUpdateTime, r)
	fs.Solver.SaveDynamicStressOutput(face, ts.FullUpdateTime, r)
	SavePeakSlipRateOutput(st.SlipRateMagnitude[face], st.PeakSlipRate[face], r)
	PostcomputeImposedStateFromNewStress(&sc.TractionResults, &l.Impedances[face],
		l.ImposedStatePlus[face], l.ImposedStateMinus[face],
		l.QInterpolatedPlus[face], l.QInterpolatedMinus[face], ts.TimeWeights, r)
	if fs.Params.IsFrictionEnergyRequired {
		ComputeFrictionEnergy(&st.Energy, face, &l.Impedances[face],
			l.QInterpolatedPlus[face], l.QInterpolatedMinus[face], ts.TimeWeights,
			l.SpaceWeights, l.DoubledSurfaceArea[face], r)
	}
}

// EvaluateFace runs both stages over r, valid whenever r covers every point of the face or the law does not resample
func (fs *FrictionSolver) EvaluateFace(face int, r utils.IndexRange) {
	fs.SolveFace(face, r)
	fs.FinishFace(face, r)
}
