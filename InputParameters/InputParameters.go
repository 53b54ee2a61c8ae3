package InputParameters

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/notargets/gorupture/DynamicRupture"
	"github.com/notargets/gorupture/types"
)

type MaterialParameters struct {
	Rho float64 `json:"Rho"`
	Vp  float64 `json:"Vp"`
	Vs  float64 `json:"Vs"`
}

type RateAndStateParameters struct {
	A                          float64 `json:"A"`
	B                          float64 `json:"B"`
	F0                         float64 `json:"F0"`
	Sr0                        float64 `json:"Sr0"`
	Sl0                        float64 `json:"Sl0"`
	MuW                        float64 `json:"MuW"`
	SrW                        float64 `json:"SrW"`
	InitialSlipRate1           float64 `json:"InitialSlipRate1"`
	InitialSlipRate2           float64 `json:"InitialSlipRate2"`
	InitialStateVariable       float64 `json:"InitialStateVariable"`
	MaxNumberSlipRateUpdates   int     `json:"MaxNumberSlipRateUpdates"`
	NumberStateVariableUpdates int     `json:"NumberStateVariableUpdates"`
	NewtonTolerance            float64 `json:"NewtonTolerance"`
}

type SlipWeakeningParameters struct {
	MuS               float64 `json:"MuS"`
	MuD               float64 `json:"MuD"`
	DC                float64 `json:"DC"`
	Cohesion          float64 `json:"Cohesion"`
	ForcedRuptureTime float64 `json:"ForcedRuptureTime"`
	HealingThreshold  float64 `json:"HealingThreshold"`
}

type ThermalPressurizationParameters struct {
	ThermalDiffusivity   float64 `json:"ThermalDiffusivity"`
	HydraulicDiffusivity float64 `json:"HydraulicDiffusivity"`
	HeatCapacity         float64 `json:"HeatCapacity"`
	UndrainedTPResponse  float64 `json:"UndrainedTPResponse"`
	InitialTemperature   float64 `json:"InitialTemperature"`
	InitialPressure      float64 `json:"InitialPressure"`
	HalfWidthShearZone   float64 `json:"HalfWidthShearZone"`
}

// Parameters obtained from the YAML input file of a fault scenario
type InputParametersFault struct {
	Title            string                           `json:"Title"`
	FrictionLaw      string                           `json:"FrictionLaw"`
	ConvergenceOrder int                              `json:"ConvergenceOrder"`
	NumFaces         int                              `json:"NumFaces"`
	NumPoints        int                              `json:"NumPoints"` // Zero selects (ConvergenceOrder+1)^2
	FinalTime        float64                          `json:"FinalTime"`
	TimeStep         float64                          `json:"TimeStep"`
	FaceArea         float64                          `json:"FaceArea"` // Area of each fault face, zero selects 1
	MaterialPlus     MaterialParameters               `json:"MaterialPlus"`
	MaterialMinus    *MaterialParameters              `json:"MaterialMinus"` // Defaults to MaterialPlus
	InitialStress    []float64                        `json:"InitialStress"` // XX, YY, ZZ, XY, YZ, XZ in fault coordinates
	NucleationStress []float64                        `json:"NucleationStress"`
	NucleationFaces  string                           `json:"NucleationFaces"`  // Range like "0:4", "" selects all
	NucleationPoints string                           `json:"NucleationPoints"` // Range of points on each nucleation face
	T0               float64                          `json:"T0"`
	QPlus            map[string]float64               `json:"QPlus"` // Constant interpolated field by quantity name
	QMinus           map[string]float64               `json:"QMinus"`
	RateAndState     RateAndStateParameters           `json:"RateAndState"`
	SlipWeakening    SlipWeakeningParameters          `json:"SlipWeakening"`
	TP               *ThermalPressurizationParameters `json:"ThermalPressurization"` // Absent turns the model off
	FrictionEnergy   bool                             `json:"FrictionEnergy"`
	Dispatch         string                           `json:"Dispatch"` // "host" or "point"
	ProcLimit        int                              `json:"ProcLimit"`
	OutputPoints     string                           `json:"OutputPoints"`
}

var QuantityNames = map[string]int{
	"xx": types.XX, "yy": types.YY, "zz": types.ZZ,
	"xy": types.XY, "yz": types.YZ, "xz": types.XZ,
	"u": types.U, "v": types.V, "w": types.W,
}

func (ip *InputParametersFault) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParametersFault) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t= Friction Law\n", ip.FrictionLaw)
	fmt.Printf("[%d]\t\t\t\t= Convergence Order\n", ip.ConvergenceOrder)
	fmt.Printf("[%d]\t\t\t\t= Number of Faces\n", ip.NumFaces)
	fmt.Printf("%8.5f\t\t= FinalTime\n", ip.FinalTime)
	fmt.Printf("%8.5f\t\t= TimeStep\n", ip.TimeStep)
	fmt.Printf("%v\t= Initial Stress\n", ip.InitialStress)
	if len(ip.NucleationStress) != 0 {
		fmt.Printf("%v\t= Nucleation Stress, T0 = %8.5f\n", ip.NucleationStress, ip.T0)
	}
	for _, side := range []struct {
		name string
		q    map[string]float64
	}{{"QPlus", ip.QPlus}, {"QMinus", ip.QMinus}} {
		keys := make([]string, 0, len(side.q))
		for k := range side.q {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Printf("%s[%s] = %v\n", side.name, key, side.q[key])
		}
	}
	if ip.TP != nil {
		fmt.Printf("Thermal Pressurization = %+v\n", *ip.TP)
	}
}

// ToParameters overlays the non zero input values on the defaults of the friction law and validates the result
func (ip *InputParametersFault) ToParameters() (p DynamicRupture.Parameters, err error) {
	var ft types.FrictionLawType
	if ft, err = types.ParseFrictionLawType(ip.FrictionLaw); err != nil {
		return
	}
	p = DynamicRupture.DefaultParameters(ft)
	set := func(dst *float64, val float64) {
		if val != 0 {
			*dst = val
		}
	}
	rs := ip.RateAndState
	set(&p.RsA, rs.A)
	set(&p.RsB, rs.B)
	set(&p.RsF0, rs.F0)
	set(&p.RsSr0, rs.Sr0)
	set(&p.RsSl0, rs.Sl0)
	set(&p.MuW, rs.MuW)
	set(&p.RsSrW, rs.SrW)
	set(&p.RateAndState.NewtonTolerance, rs.NewtonTolerance)
	p.InitialSlipRate1, p.InitialSlipRate2 = rs.InitialSlipRate1, rs.InitialSlipRate2
	p.InitialStateVar = rs.InitialStateVariable
	if rs.MaxNumberSlipRateUpdates != 0 {
		p.RateAndState.MaxNumberSlipRateUpdates = rs.MaxNumberSlipRateUpdates
	}
	if rs.NumberStateVariableUpdates != 0 {
		p.RateAndState.NumberStateVariableUpdates = rs.NumberStateVariableUpdates
	}

	sw := ip.SlipWeakening
	set(&p.MuS, sw.MuS)
	set(&p.MuD, sw.MuD)
	set(&p.DC, sw.DC)
	p.Cohesion = sw.Cohesion
	p.ForcedRuptureTime = sw.ForcedRuptureTime
	p.HealingThreshold = sw.HealingThreshold

	p.T0 = ip.T0
	p.IsFrictionEnergyRequired = ip.FrictionEnergy
	if ip.TP != nil {
		p.IsThermalPressureOn = true
		set(&p.TP.ThermalDiffusivity, ip.TP.ThermalDiffusivity)
		set(&p.TP.HydraulicDiffusivity, ip.TP.HydraulicDiffusivity)
		set(&p.TP.HeatCapacity, ip.TP.HeatCapacity)
		set(&p.TP.UndrainedTPResponse, ip.TP.UndrainedTPResponse)
		set(&p.TP.InitialTemperature, ip.TP.InitialTemperature)
		set(&p.TP.HalfWidthShearZone, ip.TP.HalfWidthShearZone)
		p.TP.InitialPressure = ip.TP.InitialPressure
	}
	err = p.Validate()
	return
}

// Layout of the fault faces, checking the discretization inputs
func (ip *InputParametersFault) Layout() (l DynamicRupture.Layout, err error) {
	switch {
	case ip.ConvergenceOrder < 1:
		err = fmt.Errorf("%w: convergence order must be >= 1, have %d",
			DynamicRupture.ErrInvalidParameter, ip.ConvergenceOrder)
	case ip.NumFaces < 1:
		err = fmt.Errorf("%w: number of faces must be >= 1, have %d",
			DynamicRupture.ErrInvalidParameter, ip.NumFaces)
	case !(ip.TimeStep > 0) || ip.FinalTime < ip.TimeStep:
		err = fmt.Errorf("%w: need 0 < TimeStep <= FinalTime, have %g and %g",
			DynamicRupture.ErrInvalidParameter, ip.TimeStep, ip.FinalTime)
	case len(ip.InitialStress) != types.NumStressComponents:
		err = fmt.Errorf("%w: initial stress needs %d components, have %d",
			DynamicRupture.ErrInvalidParameter, types.NumStressComponents, len(ip.InitialStress))
	case len(ip.NucleationStress) != 0 && len(ip.NucleationStress) != types.NumStressComponents:
		err = fmt.Errorf("%w: nucleation stress needs %d components, have %d",
			DynamicRupture.ErrInvalidParameter, types.NumStressComponents, len(ip.NucleationStress))
	}
	if err != nil {
		return
	}
	if ip.NumPoints > 0 {
		l = DynamicRupture.NewLayout(ip.ConvergenceOrder, ip.NumPoints)
	} else {
		l = DynamicRupture.NewLayoutForOrder(ip.ConvergenceOrder)
	}
	return
}

func (ip *InputParametersFault) Materials() (plus, minus DynamicRupture.Material, err error) {
	toMaterial := func(mp MaterialParameters) DynamicRupture.Material {
		return DynamicRupture.Material{Rho: mp.Rho, Vp: mp.Vp, Vs: mp.Vs}
	}
	plus, minus = toMaterial(ip.MaterialPlus), toMaterial(ip.MaterialPlus)
	if ip.MaterialMinus != nil {
		minus = toMaterial(*ip.MaterialMinus)
	}
	for _, m := range []DynamicRupture.Material{plus, minus} {
		if !(m.Rho > 0 && m.Vp > 0 && m.Vs > 0) {
			err = fmt.Errorf("%w: material needs positive density and wave speeds, have %+v",
				DynamicRupture.ErrInvalidParameter, m)
			return
		}
	}
	return
}

// QuantityValues converts a map of quantity names to constant values indexed by quantity
func QuantityValues(q map[string]float64) (vals [types.NumQuantities]float64, err error) {
	for name, val := range q {
		ind, ok := QuantityNames[strings.ToLower(name)]
		if !ok {
			err = fmt.Errorf("%w: unknown quantity %q", DynamicRupture.ErrInvalidParameter, name)
			return
		}
		vals[ind] = val
	}
	return
}
