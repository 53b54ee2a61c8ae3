package DynamicRupture

import (
	"fmt"

	"github.com/notargets/gorupture/types"
	"github.com/notargets/gorupture/utils"
)

// VectorWidth is the number of float64 values in one 64 byte vector register line
const VectorWidth = 8

// Debug turns on the buffer shape checks inside the per face kernels
var Debug = false

/*
Layout describes the index space shared by every per face buffer:

	ConvergenceOrder sub-time quadrature points
	NumPoints        spatial quadrature points on the face
	NumPaddedPoints  NumPoints rounded up to VectorWidth

Physical data lives in [0, NumPoints). The padding tail is allocated so that a vector pass
over a whole line is always in bounds, but the solver never reads or writes it.
*/
type Layout struct {
	ConvergenceOrder int
	NumPoints        int
	NumPaddedPoints  int
}

func NewLayout(ConvergenceOrder, NumPoints int) (l Layout) {
	l = Layout{
		ConvergenceOrder: ConvergenceOrder,
		NumPoints:        NumPoints,
		NumPaddedPoints:  PaddedSize(NumPoints),
	}
	return
}

// NewLayoutForOrder uses the (N+1)^2 face quadrature of a ConvergenceOrder N scheme
func NewLayoutForOrder(ConvergenceOrder int) Layout {
	return NewLayout(ConvergenceOrder, (ConvergenceOrder+1)*(ConvergenceOrder+1))
}

func PaddedSize(NumPoints int) int {
	return ((NumPoints + VectorWidth - 1) / VectorWidth) * VectorWidth
}

// HostRange covers every physical point of a face, used by the vectorized per face path
func (l Layout) HostRange() utils.IndexRange {
	return utils.NewIndexRange(0, l.NumPoints)
}

func (l Layout) Validate() (err error) {
	switch {
	case l.ConvergenceOrder < 1:
		err = fmt.Errorf("%w: convergence order must be >= 1, have %d", ErrShapeMismatch, l.ConvergenceOrder)
	case l.NumPoints < 1:
		err = fmt.Errorf("%w: number of points must be >= 1, have %d", ErrShapeMismatch, l.NumPoints)
	case l.NumPaddedPoints < l.NumPoints || l.NumPaddedPoints%VectorWidth != 0:
		err = fmt.Errorf("%w: padded size %d is not a multiple of %d covering %d points",
			ErrShapeMismatch, l.NumPaddedPoints, VectorWidth, l.NumPoints)
	}
	return
}

// FaceBuffer holds one value per padded spatial quadrature point of a face
type FaceBuffer []float64

func (l Layout) NewFaceBuffer() FaceBuffer {
	return make(FaceBuffer, l.NumPaddedPoints)
}

func (l Layout) NewFaceBuffers(N int) (fb []FaceBuffer) {
	fb = make([]FaceBuffer, N)
	for n := range fb {
		fb[n] = l.NewFaceBuffer()
	}
	return
}

func (fb FaceBuffer) Fill(r utils.IndexRange, val float64) {
	for i := r.Start; i < r.End; i += r.Step {
		fb[i] = val
	}
}

func (fb FaceBuffer) CopyFrom(src FaceBuffer, r utils.IndexRange) {
	for i := r.Start; i < r.End; i += r.Step {
		fb[i] = src[i]
	}
}

/*
FieldHistory is one side's volumetric field interpolated to the face quadrature points at
each sub-time quadrature point. Storage is flat, ordered [o][quantity][paddedPoint].
*/
type FieldHistory struct {
	Layout
	Data []float64
}

func NewFieldHistory(l Layout) FieldHistory {
	return FieldHistory{
		Layout: l,
		Data:   make([]float64, l.ConvergenceOrder*types.NumQuantities*l.NumPaddedPoints),
	}
}

// Q is a view of quantity q at sub-time point o
func (fh FieldHistory) Q(o, q int) FaceBuffer {
	var (
		Np  = fh.NumPaddedPoints
		off = (o*types.NumQuantities + q) * Np
	)
	return FaceBuffer(fh.Data[off : off+Np : off+Np])
}

// SetConstant assigns val to quantity q at every sub-time point and physical point
func (fh FieldHistory) SetConstant(q int, val float64) {
	for o := 0; o < fh.ConvergenceOrder; o++ {
		fh.Q(o, q).Fill(fh.HostRange(), val)
	}
}

// ImposedState is the boundary data handed back to the bulk solver, ordered [quantity][paddedPoint]
type ImposedState struct {
	Layout
	Data []float64
}

func NewImposedState(l Layout) ImposedState {
	return ImposedState{
		Layout: l,
		Data:   make([]float64, types.NumQuantities*l.NumPaddedPoints),
	}
}

func (is ImposedState) Q(q int) FaceBuffer {
	var (
		Np  = is.NumPaddedPoints
		off = q * Np
	)
	return FaceBuffer(is.Data[off : off+Np : off+Np])
}

// FaultStresses are the normal stress and shear tractions at every sub-time point
type FaultStresses struct {
	NormalStress, Traction1, Traction2 []FaceBuffer
}

func NewFaultStresses(l Layout) FaultStresses {
	return FaultStresses{
		NormalStress: l.NewFaceBuffers(l.ConvergenceOrder),
		Traction1:    l.NewFaceBuffers(l.ConvergenceOrder),
		Traction2:    l.NewFaceBuffers(l.ConvergenceOrder),
	}
}

/*
TractionResults are the friction law's tractions at every sub-time point. NormalStress is
the normal traction perturbation the law imposes, which is the fault stress clamped so that
the total normal stress is never tensile.
*/
type TractionResults struct {
	NormalStress, Traction1, Traction2 []FaceBuffer
}

func NewTractionResults(l Layout) TractionResults {
	return TractionResults{
		NormalStress: l.NewFaceBuffers(l.ConvergenceOrder),
		Traction1:    l.NewFaceBuffers(l.ConvergenceOrder),
		Traction2:    l.NewFaceBuffers(l.ConvergenceOrder),
	}
}

func checkFieldHistory(name string, fh FieldHistory, l Layout) {
	if fh.Layout != l || len(fh.Data) != l.ConvergenceOrder*types.NumQuantities*l.NumPaddedPoints {
		panic(fmt.Errorf("%w: %s has layout %+v and %d values, want %+v",
			ErrShapeMismatch, name, fh.Layout, len(fh.Data), l))
	}
}

func checkRange(r utils.IndexRange, l Layout) {
	if r.Start < 0 || r.End > l.NumPoints || r.Step < 1 {
		panic(fmt.Errorf("%w: range %s outside of %d points", ErrShapeMismatch, r, l.NumPoints))
	}
}
