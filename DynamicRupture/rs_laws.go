package DynamicRupture

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gorupture/DG1D"
	"github.com/notargets/gorupture/utils"
)

func uniformBuffers(l Layout, NumFaces int, val float64) (fb []FaceBuffer) {
	fb = l.NewFaceBuffers(NumFaces)
	for face := range fb {
		fb[face].Fill(l.HostRange(), val)
	}
	return
}

/*
slowVelocityWeakening carries the friction coefficient shared by the aging and slip laws,

	mu = a asinh(V/(2 V0) exp((f0 + b ln(V0 psi / L)) / a))
*/
type slowVelocityWeakening struct {
	A, Sl0     []FaceBuffer // Direct effect and characteristic slip distance per point
	F0, B, Sr0 float64
	state      *FrictionState
}

func newSlowVelocityWeakening(params *Parameters, st *FrictionState) slowVelocityWeakening {
	return slowVelocityWeakening{
		A:     uniformBuffers(st.Layout, st.NumFaces, params.RsA),
		Sl0:   uniformBuffers(st.Layout, st.NumFaces, params.RsSl0),
		F0:    params.RsF0,
		B:     params.RsB,
		Sr0:   params.RsSr0,
		state: st,
	}
}

func (sv slowVelocityWeakening) c(face, point int, stateVariable float64) float64 {
	a := sv.A[face][point]
	return 0.5 / sv.Sr0 * math.Exp((sv.F0+sv.B*math.Log(sv.Sr0*stateVariable/sv.Sl0[face][point]))/a)
}

func (sv slowVelocityWeakening) UpdateMu(face, point int, slipRate, stateVariable float64) float64 {
	return sv.A[face][point] * math.Asinh(slipRate*sv.c(face, point, stateVariable))
}

func (sv slowVelocityWeakening) UpdateMuDerivative(face, point int, slipRate, stateVariable float64) float64 {
	var (
		c = sv.c(face, point, stateVariable)
		x = slipRate * c
	)
	return sv.A[face][point] * c / math.Sqrt(x*x+1)
}

// ExecuteIfNotConverged freezes every point whose state left the finite range at its last persisted value
func (sv slowVelocityWeakening) ExecuteIfNotConverged(face int, stateVariableBuffer FaceBuffer, r utils.IndexRange) {
	for i := r.Start; i < r.End; i += r.Step {
		if !utils.IsFinite(stateVariableBuffer[i]) {
			stateVariableBuffer[i] = sv.state.StateVariable[face][i]
		}
	}
}

func (sv slowVelocityWeakening) SteadyStateVariable(face, point int, slipRate float64) float64 {
	return sv.Sl0[face][point] / slipRate
}

// AgingLaw heals the contact with time: dpsi/dt = 1 - V psi / L
type AgingLaw struct {
	slowVelocityWeakening
}

func NewAgingLaw(params *Parameters, st *FrictionState) *AgingLaw {
	return &AgingLaw{newSlowVelocityWeakening(params, st)}
}

// UpdateStateVariable integrates the aging law exactly at constant slip rate
func (al *AgingLaw) UpdateStateVariable(face, point int, stateVarReference, timeIncrement, slipRate float64) float64 {
	var (
		sl0  = al.Sl0[face][point]
		exp1 = math.Exp(-slipRate * timeIncrement / sl0)
	)
	return stateVarReference*exp1 + sl0/slipRate*(1-exp1)
}

// SlipLaw evolves the state only with slip: dpsi/dt = -(V psi / L) ln(V psi / L)
type SlipLaw struct {
	slowVelocityWeakening
}

func NewSlipLaw(params *Parameters, st *FrictionState) *SlipLaw {
	return &SlipLaw{newSlowVelocityWeakening(params, st)}
}

func (sl *SlipLaw) UpdateStateVariable(face, point int, stateVarReference, timeIncrement, slipRate float64) float64 {
	var (
		sl0  = sl.Sl0[face][point]
		exp1 = math.Exp(-slipRate * timeIncrement / sl0)
	)
	return sl0 / slipRate * math.Pow(stateVarReference*slipRate/sl0, exp1)
}

/*
FastVelocityWeakeningLaw relaxes the state toward a steady state whose friction drops from
the low velocity value to MuW above the weakening slip rate SrW,

	mu = a asinh(V/(2 V0) exp(psi / a))

The state increment of a time step is smoothed over the face by a modal filter before it is
persisted.
*/
type FastVelocityWeakeningLaw struct {
	A, Sl0, SrW []FaceBuffer
	F0, B, Sr0  float64
	MuW         float64
	Resample    *mat.Dense // NumPoints x NumPoints, nil persists the state unfiltered
	delta       []FaceBuffer
	state       *FrictionState
}

func NewFastVelocityWeakeningLaw(params *Parameters, st *FrictionState) (fl *FastVelocityWeakeningLaw) {
	l := st.Layout
	fl = &FastVelocityWeakeningLaw{
		A:     uniformBuffers(l, st.NumFaces, params.RsA),
		Sl0:   uniformBuffers(l, st.NumFaces, params.RsSl0),
		SrW:   uniformBuffers(l, st.NumFaces, params.RsSrW),
		F0:    params.RsF0,
		B:     params.RsB,
		Sr0:   params.RsSr0,
		MuW:   params.MuW,
		delta: l.NewFaceBuffers(st.NumFaces),
		state: st,
	}
	// Tensor product faces of order N carry (N+1)^2 points
	if n := int(math.Round(math.Sqrt(float64(l.NumPoints)))); n > 1 && n*n == l.NumPoints {
		fl.Resample = DG1D.ResampleMatrix2D(n - 1)
	}
	return
}

// SteadyStateVariable is the state at which the slip rate V does not change the friction
func (fl *FastVelocityWeakeningLaw) SteadyStateVariable(face, point int, slipRate float64) float64 {
	var (
		a                   = fl.A[face][point]
		lowVelocityFriction = fl.F0 - (fl.B-a)*math.Log(slipRate/fl.Sr0)
		steadyStateFriction = fl.MuW + (lowVelocityFriction-fl.MuW)/
			math.Pow(1+utils.POW(slipRate/fl.SrW[face][point], 8), 0.125)
	)
	return a * (math.Log(2*fl.Sr0/slipRate) + logSinh(steadyStateFriction/a))
}

func (fl *FastVelocityWeakeningLaw) UpdateStateVariable(face, point int, stateVarReference, timeIncrement, slipRate float64) float64 {
	var (
		steadyState = fl.SteadyStateVariable(face, point, slipRate)
		exp1        = math.Exp(-slipRate * timeIncrement / fl.Sl0[face][point])
	)
	return steadyState*(1-exp1) + exp1*stateVarReference
}

func (fl *FastVelocityWeakeningLaw) c(face, point int, stateVariable float64) float64 {
	return 0.5 / fl.Sr0 * math.Exp(stateVariable/fl.A[face][point])
}

func (fl *FastVelocityWeakeningLaw) UpdateMu(face, point int, slipRate, stateVariable float64) float64 {
	return fl.A[face][point] * math.Asinh(slipRate*fl.c(face, point, stateVariable))
}

func (fl *FastVelocityWeakeningLaw) UpdateMuDerivative(face, point int, slipRate, stateVariable float64) float64 {
	var (
		c = fl.c(face, point, stateVariable)
		x = slipRate * c
	)
	return fl.A[face][point] * c / math.Sqrt(x*x+1)
}

func (fl *FastVelocityWeakeningLaw) ExecuteIfNotConverged(face int, stateVariableBuffer FaceBuffer, r utils.IndexRange) {
	for i := r.Start; i < r.End; i += r.Step {
		if !utils.IsFinite(stateVariableBuffer[i]) {
			stateVariableBuffer[i] = fl.state.StateVariable[face][i]
		}
	}
}

func (fl *FastVelocityWeakeningLaw) StoreStateIncrement(face int, stateVariableBuffer FaceBuffer, r utils.IndexRange) {
	for i := r.Start; i < r.End; i += r.Step {
		fl.delta[face][i] = stateVariableBuffer[i] - fl.state.StateVariable[face][i]
	}
}

func (fl *FastVelocityWeakeningLaw) ResampleStateVariable(face int, r utils.IndexRange) {
	var (
		delta = fl.delta[face]
		psi   = fl.state.StateVariable[face]
		Np    = fl.state.NumPoints
	)
	if fl.Resample == nil {
		for i := r.Start; i < r.End; i += r.Step {
			psi[i] += delta[i]
		}
		return
	}
	d := mat.NewVecDense(Np, delta[:Np:Np])
	for i := r.Start; i < r.End; i += r.Step {
		psi[i] += mat.Dot(fl.Resample.RowView(i), d)
	}
}

// logSinh is ln(sinh(x)) for x > 0 without overflow at large x
func logSinh(x float64) float64 {
	if x > 20 {
		return x - math.Ln2 + math.Log1p(-math.Exp(-2*x))
	}
	return math.Log(math.Sinh(x))
}
