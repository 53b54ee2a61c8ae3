package DynamicRupture

import "github.com/notargets/gorupture/utils"

// NoFaultSolver welds the two sides together: the fault stresses pass through unchanged and nothing slips
type NoFaultSolver struct {
	*solverBase
}

func NewNoFaultSolver(params *Parameters, layer *FaultLayer) *NoFaultSolver {
	return &NoFaultSolver{solverBase: newSolverBase(params, layer)}
}

func (nf *NoFaultSolver) PreHook(int, *FaceScratch, utils.IndexRange) {}

func (nf *NoFaultSolver) UpdateFrictionAndSlip(face, timeIndex int, sc *FaceScratch, r utils.IndexRange) {
	var (
		fs = &sc.FaultStresses
		tr = &sc.TractionResults
	)
	tr.NormalStress[timeIndex].CopyFrom(fs.NormalStress[timeIndex], r)
	tr.Traction1[timeIndex].CopyFrom(fs.Traction1[timeIndex], r)
	tr.Traction2[timeIndex].CopyFrom(fs.Traction2[timeIndex], r)
}

func (nf *NoFaultSolver) PostHook(int, *FaceScratch, utils.IndexRange) {}

func (nf *NoFaultSolver) FinalizeHook(int, *FaceScratch, utils.IndexRange) {}

func (nf *NoFaultSolver) SaveDynamicStressOutput(int, float64, utils.IndexRange) {}
