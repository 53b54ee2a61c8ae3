package DynamicRupture

import (
	"fmt"
	"math"

	"github.com/notargets/gorupture/types"
)

// RateAndStateSettings bound the state update and slip rate inversion of the rate and state solver
type RateAndStateSettings struct {
	MaxNumberSlipRateUpdates   int
	NumberStateVariableUpdates int
	NewtonTolerance            float64
	AlmostZero                 float64 // Floor applied to every slip rate magnitude
}

func DefaultRateAndStateSettings() RateAndStateSettings {
	return RateAndStateSettings{
		MaxNumberSlipRateUpdates:   60,
		NumberStateVariableUpdates: 2,
		NewtonTolerance:            1e-8,
		AlmostZero:                 1e-45,
	}
}

/*
ThermalPressurizationParameters configure the spectral pore fluid model. The shear zone is
a Gaussian of standard deviation HalfWidthShearZone, temperature and pressure are solved in
NumberOfGridPoints log spaced wavenumbers up to MaxWaveNumber (dimensionless, scaled by the
half width), spaced LogDz apart in natural log.
*/
type ThermalPressurizationParameters struct {
	ThermalDiffusivity   float64 // [m^2/s]
	HydraulicDiffusivity float64 // [m^2/s]
	HeatCapacity         float64 // Density times specific heat [J/(m^3 K)]
	UndrainedTPResponse  float64 // Pressure rise per unit temperature rise [Pa/K]
	InitialTemperature   float64
	InitialPressure      float64
	HalfWidthShearZone   float64
	NumberOfGridPoints   int
	MaxWaveNumber        float64
	LogDz                float64
}

func DefaultThermalPressurizationParameters() ThermalPressurizationParameters {
	return ThermalPressurizationParameters{
		ThermalDiffusivity:   1.e-6,
		HydraulicDiffusivity: 1.e-4,
		HeatCapacity:         2.7e6,
		UndrainedTPResponse:  0.1e6,
		InitialTemperature:   483.15,
		InitialPressure:      0,
		HalfWidthShearZone:   0.01,
		NumberOfGridPoints:   60,
		MaxWaveNumber:        10,
		LogDz:                0.3,
	}
}

/*
Parameters hold every friction law constant of a fault. Values that may vary over the fault
(a, L, the slip weakening coefficients and the like) are the uniform initial values of the
per point arrays the laws allocate, which a caller may overwrite point by point.
*/
type Parameters struct {
	FrictionLaw  types.FrictionLawType
	RateAndState RateAndStateSettings

	// Rate and state
	RsA, RsB, RsF0   float64
	RsSr0            float64 // Reference slip rate V0
	RsSl0            float64 // Characteristic slip distance L
	MuW, RsSrW       float64 // Fast velocity weakening: weakened friction and weakening slip rate
	InitialSlipRate1 float64
	InitialSlipRate2 float64
	InitialStateVar  float64 // Non positive selects the steady state value of the initial slip rate

	// Linear slip weakening
	MuS, MuD, DC, Cohesion float64
	ForcedRuptureTime      float64 // Non positive disables forced rupture
	HealingThreshold       float64 // Slip rate below which friction heals, non positive disables

	// Nucleation duration, also the forced rupture ramp time
	T0 float64

	IsFrictionEnergyRequired bool
	IsThermalPressureOn      bool
	TP                       ThermalPressurizationParameters
}

func DefaultParameters(ft types.FrictionLawType) (p Parameters) {
	p = Parameters{
		FrictionLaw:  ft,
		RateAndState: DefaultRateAndStateSettings(),
		RsA:          0.01,
		RsB:          0.014,
		RsF0:         0.6,
		RsSr0:        1.e-6,
		RsSl0:        0.02,
		MuW:          0.1,
		RsSrW:        0.1,
		MuS:          0.677,
		MuD:          0.525,
		DC:           0.4,
		T0:           0.5,
		TP:           DefaultThermalPressurizationParameters(),
	}
	return
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidParameter}, args...)...)
}

func positive(name string, val float64) (err error) {
	if !(val > 0) || math.IsInf(val, 0) {
		err = invalid("%s must be positive and finite, have %g", name, val)
	}
	return
}

func (p *Parameters) Validate() (err error) {
	rs := p.RateAndState
	switch {
	case rs.MaxNumberSlipRateUpdates < 1:
		return invalid("max number of slip rate updates must be >= 1, have %d", rs.MaxNumberSlipRateUpdates)
	case rs.NumberStateVariableUpdates < 1:
		return invalid("number of state variable updates must be >= 1, have %d", rs.NumberStateVariableUpdates)
	case !(rs.NewtonTolerance > 0):
		return invalid("newton tolerance must be positive, have %g", rs.NewtonTolerance)
	case !(rs.AlmostZero > 0):
		return invalid("slip rate floor must be positive, have %g", rs.AlmostZero)
	case p.T0 < 0:
		return invalid("nucleation time t0 must be >= 0, have %g", p.T0)
	}
	switch p.FrictionLaw {
	case types.FL_NoFault:
	case types.FL_LinearSlipWeakening:
		if err = positive("dc", p.DC); err != nil {
			return
		}
		if p.MuD > p.MuS {
			return invalid("dynamic friction %g exceeds static friction %g", p.MuD, p.MuS)
		}
		if p.Cohesion > 0 {
			return invalid("cohesion is a compressive (non positive) stress, have %g", p.Cohesion)
		}
	case types.FL_RateAndStateAging, types.FL_RateAndStateSlip, types.FL_RateAndStateFastVelocityWeakening:
		for _, c := range []struct {
			name string
			val  float64
		}{{"rs a", p.RsA}, {"rs sr0", p.RsSr0}, {"rs sl0", p.RsSl0}} {
			if err = positive(c.name, c.val); err != nil {
				return
			}
		}
		if p.FrictionLaw == types.FL_RateAndStateFastVelocityWeakening {
			if err = positive("rs srW", p.RsSrW); err != nil {
				return
			}
		}
	default:
		return fmt.Errorf("%w: %d", types.ErrUnknownFrictionLaw, p.FrictionLaw)
	}
	if p.IsThermalPressureOn {
		if !p.FrictionLaw.IsRateAndState() {
			return invalid("thermal pressurization needs a rate and state law, have %s", p.FrictionLaw.Print())
		}
		err = p.TP.Validate()
	}
	return
}

func (tp ThermalPressurizationParameters) Validate() (err error) {
	for _, c := range []struct {
		name string
		val  float64
	}{
		{"thermal diffusivity", tp.ThermalDiffusivity},
		{"hydraulic diffusivity", tp.HydraulicDiffusivity},
		{"heat capacity", tp.HeatCapacity},
		{"half width of shear zone", tp.HalfWidthShearZone},
		{"max wave number", tp.MaxWaveNumber},
		{"log dz", tp.LogDz},
	} {
		if err = positive(c.name, c.val); err != nil {
			return
		}
	}
	switch {
	case tp.NumberOfGridPoints < 2:
		err = invalid("thermal pressurization needs at least 2 grid points, have %d", tp.NumberOfGridPoints)
	case tp.HydraulicDiffusivity == tp.ThermalDiffusivity:
		err = invalid("hydraulic and thermal diffusivity must differ, both are %g", tp.ThermalDiffusivity)
	}
	return
}
