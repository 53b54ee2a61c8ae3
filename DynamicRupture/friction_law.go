package DynamicRupture

import (
	"fmt"
	"sync/atomic"

	"github.com/notargets/gorupture/types"
	"github.com/notargets/gorupture/utils"
)

/*
FrictionLaw is the capability set of one friction law variant. Point arguments index the
padded point of face; the law owns its per point parameter arrays.

	UpdateStateVariable advances the state from stateVarReference over timeIncrement at slipRate
	UpdateMu and UpdateMuDerivative evaluate the friction coefficient and its slip rate derivative
	ExecuteIfNotConverged repairs the state buffer of a face whose slip rate inversion did not converge
*/
type FrictionLaw interface {
	UpdateStateVariable(face, point int, stateVarReference, timeIncrement, slipRate float64) float64
	UpdateMu(face, point int, slipRate, stateVariable float64) float64
	UpdateMuDerivative(face, point int, slipRate, stateVariable float64) float64
	ExecuteIfNotConverged(face int, stateVariableBuffer FaceBuffer, r utils.IndexRange)
}

/*
StateResampler is implemented by laws that smooth the state variable increment over the
face before it is persisted. StoreStateIncrement touches only the points of r,
ResampleStateVariable reads the increments of every point of the face and so runs once all
points of the face have stored theirs.
*/
type StateResampler interface {
	StoreStateIncrement(face int, stateVariableBuffer FaceBuffer, r utils.IndexRange)
	ResampleStateVariable(face int, r utils.IndexRange)
}

/*
Solver advances the friction of one face over one bulk time step, one sub-time point at a
time. Every call touches only the points of r.

	PreHook                 before the first sub-time point
	UpdateFrictionAndSlip   once per sub-time point, in increasing order
	PostHook                after the last sub-time point
	FinalizeHook            after PostHook has run for every point of the face
	SaveDynamicStressOutput records the time a point reaches its dynamic friction
*/
type Solver interface {
	PreHook(face int, sc *FaceScratch, r utils.IndexRange)
	UpdateFrictionAndSlip(face, timeIndex int, sc *FaceScratch, r utils.IndexRange)
	PostHook(face int, sc *FaceScratch, r utils.IndexRange)
	FinalizeHook(face int, sc *FaceScratch, r utils.IndexRange)
	SaveDynamicStressOutput(face int, fullUpdateTime float64, r utils.IndexRange)
}

// FaceScratch is the working memory of one face for one time step, never shared between faces
type FaceScratch struct {
	FaultStresses       FaultStresses
	TractionResults     TractionResults
	StateVariableBuffer FaceBuffer
	StrengthBuffer      FaceBuffer

	StateVarReference   FaceBuffer
	AbsoluteShearStress FaceBuffer
	LocalSlipRate       FaceBuffer
	NormalStress        FaceBuffer
	TestSlipRate        FaceBuffer
	MuF, DMuF, G        FaceBuffer
}

func NewFaceScratch(l Layout) *FaceScratch {
	return &FaceScratch{
		FaultStresses:       NewFaultStresses(l),
		TractionResults:     NewTractionResults(l),
		StateVariableBuffer: l.NewFaceBuffer(),
		StrengthBuffer:      l.NewFaceBuffer(),
		StateVarReference:   l.NewFaceBuffer(),
		AbsoluteShearStress: l.NewFaceBuffer(),
		LocalSlipRate:       l.NewFaceBuffer(),
		NormalStress:        l.NewFaceBuffer(),
		TestSlipRate:        l.NewFaceBuffer(),
		MuF:                 l.NewFaceBuffer(),
		DMuF:                l.NewFaceBuffer(),
		G:                   l.NewFaceBuffer(),
	}
}

// solverBase is the state shared by every solver variant
type solverBase struct {
	Layer        *FaultLayer
	Params       *Parameters
	TimeStepping TimeStepping
	notConverged atomic.Int64
}

func newSolverBase(params *Parameters, layer *FaultLayer) *solverBase {
	return &solverBase{Layer: layer, Params: params}
}

func (sb *solverBase) base() *solverBase { return sb }

// NotConverged counts the face ranges whose slip rate inversion hit the iteration cap
func (sb *solverBase) NotConverged() int64 { return sb.notConverged.Load() }

type hasBase interface {
	base() *solverBase
}

type solverFactory func(params *Parameters, layer *FaultLayer) Solver

var solverFactories = map[types.FrictionLawType]solverFactory{
	types.FL_NoFault: func(params *Parameters, layer *FaultLayer) Solver {
		return NewNoFaultSolver(params, layer)
	},
	types.FL_LinearSlipWeakening: func(params *Parameters, layer *FaultLayer) Solver {
		return NewLinearSlipWeakeningSolver(params, layer)
	},
	types.FL_RateAndStateAging: func(params *Parameters, layer *FaultLayer) Solver {
		return NewRateAndStateSolver(params, layer, NewAgingLaw(params, layer.State), newFluidPressure(params, layer))
	},
	types.FL_RateAndStateSlip: func(params *Parameters, layer *FaultLayer) Solver {
		return NewRateAndStateSolver(params, layer, NewSlipLaw(params, layer.State), newFluidPressure(params, layer))
	},
	types.FL_RateAndStateFastVelocityWeakening: func(params *Parameters, layer *FaultLayer) Solver {
		return NewRateAndStateSolver(params, layer, NewFastVelocityWeakeningLaw(params, layer.State),
			newFluidPressure(params, layer))
	},
}

// NewSolver builds the solver of the configured friction law over layer
func NewSolver(params *Parameters, layer *FaultLayer) (s Solver, err error) {
	factory, ok := solverFactories[params.FrictionLaw]
	if !ok {
		err = fmt.Errorf("%w: %d", types.ErrUnknownFrictionLaw, params.FrictionLaw)
		return
	}
	s = factory(params, layer)
	return
}

func newFluidPressure(params *Parameters, layer *FaultLayer) FluidPressure {
	if params.IsThermalPressureOn {
		return NewThermalPressurization(params.TP, layer.Layout, layer.NumFaces)
	}
	return NoTP{}
}
