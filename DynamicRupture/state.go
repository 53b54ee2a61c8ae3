package DynamicRupture

import (
	"fmt"

	"github.com/notargets/gorupture/types"
)

// EnergyOutput accumulates the per point slip and frictional work of a face
type EnergyOutput struct {
	Slip             [3][]FaceBuffer // Time integrated velocity jump, normal and two shear components
	AccumulatedSlip  []FaceBuffer
	FrictionalEnergy []FaceBuffer
}

/*
FrictionState is the persistent per face, per point state of the friction solver. Each
array is indexed [face][paddedPoint]. The solver evaluating a face owns that face's slice.
*/
type FrictionState struct {
	Layout
	NumFaces int

	Mu                        []FaceBuffer
	SlipRate1, SlipRate2      []FaceBuffer
	SlipRateMagnitude         []FaceBuffer
	Slip1, Slip2              []FaceBuffer
	AccumulatedSlipMagnitude  []FaceBuffer
	Traction1, Traction2      []FaceBuffer
	StateVariable             []FaceBuffer
	RuptureTime, PeakSlipRate []FaceBuffer
	DynStressTime             []FaceBuffer
	RuptureTimePending        [][]bool
	DynStressTimePending      [][]bool
	InitialStressInFaultCS    [][][types.NumStressComponents]float64
	NucleationStressInFaultCS [][][types.NumStressComponents]float64
	Energy                    EnergyOutput
}

func NewFrictionState(l Layout, NumFaces int) (st *FrictionState) {
	nb := func() []FaceBuffer { return l.NewFaceBuffers(NumFaces) }
	st = &FrictionState{
		Layout:                    l,
		NumFaces:                  NumFaces,
		Mu:                        nb(),
		SlipRate1:                 nb(),
		SlipRate2:                 nb(),
		SlipRateMagnitude:         nb(),
		Slip1:                     nb(),
		Slip2:                     nb(),
		AccumulatedSlipMagnitude:  nb(),
		Traction1:                 nb(),
		Traction2:                 nb(),
		StateVariable:             nb(),
		RuptureTime:               nb(),
		PeakSlipRate:              nb(),
		DynStressTime:             nb(),
		RuptureTimePending:        make([][]bool, NumFaces),
		DynStressTimePending:      make([][]bool, NumFaces),
		InitialStressInFaultCS:    make([][][types.NumStressComponents]float64, NumFaces),
		NucleationStressInFaultCS: make([][][types.NumStressComponents]float64, NumFaces),
		Energy: EnergyOutput{
			Slip:             [3][]FaceBuffer{nb(), nb(), nb()},
			AccumulatedSlip:  nb(),
			FrictionalEnergy: nb(),
		},
	}
	for face := 0; face < NumFaces; face++ {
		st.RuptureTimePending[face] = make([]bool, l.NumPaddedPoints)
		st.DynStressTimePending[face] = make([]bool, l.NumPaddedPoints)
		for i := 0; i < l.NumPoints; i++ {
			st.RuptureTimePending[face][i] = true
			st.DynStressTimePending[face][i] = true
		}
		st.InitialStressInFaultCS[face] = make([][types.NumStressComponents]float64, l.NumPaddedPoints)
		st.NucleationStressInFaultCS[face] = make([][types.NumStressComponents]float64, l.NumPaddedPoints)
	}
	return
}

// SetInitialStress assigns the same fault coordinate stress tensor to every physical point
func (st *FrictionState) SetInitialStress(stress [types.NumStressComponents]float64) {
	for face := 0; face < st.NumFaces; face++ {
		for i := 0; i < st.NumPoints; i++ {
			st.InitialStressInFaultCS[face][i] = stress
		}
	}
}

/*
FaultLayer is the batch of fault faces handed to the solver for one time step. The
interpolated field histories, impedances, space weights and surface areas are inputs, the
imposed states are outputs, and State persists between steps.
*/
type FaultLayer struct {
	Layout
	NumFaces int

	QInterpolatedPlus, QInterpolatedMinus []FieldHistory
	ImposedStatePlus, ImposedStateMinus   []ImposedState
	Impedances                            []ImpedancesAndEta
	SpaceWeights                          FaceBuffer
	DoubledSurfaceArea                    []float64

	State *FrictionState
}

func NewFaultLayer(l Layout, NumFaces int) (fl *FaultLayer) {
	fl = &FaultLayer{
		Layout:             l,
		NumFaces:           NumFaces,
		QInterpolatedPlus:  make([]FieldHistory, NumFaces),
		QInterpolatedMinus: make([]FieldHistory, NumFaces),
		ImposedStatePlus:   make([]ImposedState, NumFaces),
		ImposedStateMinus:  make([]ImposedState, NumFaces),
		Impedances:         make([]ImpedancesAndEta, NumFaces),
		SpaceWeights:       l.NewFaceBuffer(),
		DoubledSurfaceArea: make([]float64, NumFaces),
		State:              NewFrictionState(l, NumFaces),
	}
	for face := 0; face < NumFaces; face++ {
		fl.QInterpolatedPlus[face] = NewFieldHistory(l)
		fl.QInterpolatedMinus[face] = NewFieldHistory(l)
		fl.ImposedStatePlus[face] = NewImposedState(l)
		fl.ImposedStateMinus[face] = NewImposedState(l)
	}
	return
}

// SetMaterial assigns the impedances of one material pair to every face
func (fl *FaultLayer) SetMaterial(plus, minus Material) {
	ie := NewImpedancesAndEta(plus, minus)
	for face := range fl.Impedances {
		fl.Impedances[face] = ie
	}
}

func (fl *FaultLayer) CheckShapes() (err error) {
	if err = fl.Layout.Validate(); err != nil {
		return
	}
	var (
		l = fl.Layout
		K = fl.NumFaces
	)
	bad := func(name string, have int) error {
		return fmt.Errorf("%w: %s has %d faces, want %d", ErrShapeMismatch, name, have, K)
	}
	switch {
	case len(fl.QInterpolatedPlus) != K:
		return bad("plus side field history", len(fl.QInterpolatedPlus))
	case len(fl.QInterpolatedMinus) != K:
		return bad("minus side field history", len(fl.QInterpolatedMinus))
	case len(fl.ImposedStatePlus) != K:
		return bad("plus side imposed state", len(fl.ImposedStatePlus))
	case len(fl.ImposedStateMinus) != K:
		return bad("minus side imposed state", len(fl.ImposedStateMinus))
	case len(fl.Impedances) != K:
		return bad("impedances", len(fl.Impedances))
	case len(fl.DoubledSurfaceArea) != K:
		return bad("doubled surface area", len(fl.DoubledSurfaceArea))
	case fl.State == nil || fl.State.NumFaces != K || fl.State.Layout != l:
		return fmt.Errorf("%w: friction state does not match the layer", ErrShapeMismatch)
	case len(fl.SpaceWeights) != l.NumPaddedPoints:
		return fmt.Errorf("%w: space weights have %d values, want %d",
			ErrShapeMismatch, len(fl.SpaceWeights), l.NumPaddedPoints)
	}
	for face := 0; face < K; face++ {
		for _, fh := range []FieldHistory{fl.QInterpolatedPlus[face], fl.QInterpolatedMinus[face]} {
			if fh.Layout != l || len(fh.Data) != l.ConvergenceOrder*types.NumQuantities*l.NumPaddedPoints {
				return fmt.Errorf("%w: field history of face %d", ErrShapeMismatch, face)
			}
		}
		for _, is := range []ImposedState{fl.ImposedStatePlus[face], fl.ImposedStateMinus[face]} {
			if is.Layout != l || len(is.Data) != types.NumQuantities*l.NumPaddedPoints {
				return fmt.Errorf("%w: imposed state of face %d", ErrShapeMismatch, face)
			}
		}
	}
	return
}
