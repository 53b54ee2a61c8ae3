package DynamicRupture

import (
	"math"

	"github.com/notargets/gorupture/utils"
)

/*
FluidPressure supplies the pore fluid pressure that offsets the fault normal stress.
CalcFluidPressure advances the pressure at the points of r over deltaT from the frictional
heating of the current estimate. Only calls with saveState set commit the new fluid state;
the others are trial evaluations within the slip rate iteration.
*/
type FluidPressure interface {
	CalcFluidPressure(face int, normalStress, mu, slipRate FaceBuffer, deltaT float64, saveState bool, r utils.IndexRange)
	FluidPressure(face, point int) float64
}

// NoTP is a dry fault
type NoTP struct{}

func (NoTP) CalcFluidPressure(int, FaceBuffer, FaceBuffer, FaceBuffer, float64, bool, utils.IndexRange) {
}
func (NoTP) FluidPressure(int, int) float64 { return 0 }

// TPGrid is the log spaced wavenumber grid of the spectral diffusion solve
type TPGrid struct {
	Points                     []float64 // Wavenumber times shear zone half width
	InverseFourierCoefficients []float64
	HeatSource                 []float64 // Fourier transform of the unit Gaussian shear zone
}

func NewTPGrid(N int, maxWaveNumber, logDz float64) (g TPGrid) {
	g = TPGrid{
		Points:                     make([]float64, N),
		InverseFourierCoefficients: make([]float64, N),
		HeatSource:                 make([]float64, N),
	}
	for i := 0; i < N; i++ {
		g.Points[i] = maxWaveNumber * math.Exp(-logDz*float64(N-i-1))
	}
	for i := 0; i < N; i++ {
		k := g.Points[i]
		g.InverseFourierCoefficients[i] = math.Sqrt(2/math.Pi) * k * logDz
		g.HeatSource[i] = math.Exp(-0.5*k*k) / math.Sqrt(2*math.Pi)
	}
	g.InverseFourierCoefficients[0] *= 0.5
	g.InverseFourierCoefficients[N-1] *= 0.5
	return
}

/*
ThermalPressurization solves the one dimensional diffusion of heat and pore fluid across a
Gaussian shear zone in the Fourier domain. Each point keeps one temperature and one
pressure mode per grid wavenumber. The pressure mode carries p + lambda' T, which diffuses
with the hydraulic diffusivity only.
*/
type ThermalPressurization struct {
	Params ThermalPressurizationParameters
	Grid   TPGrid
	Layout
	Temperature, Pressure []FaceBuffer
	HydraulicDiffusivity  []FaceBuffer
	HalfWidthShearZone    []FaceBuffer
	FaultStrength         []FaceBuffer
	thetaModes            [][]float64 // [face][point*grid]
	sigmaModes            [][]float64
}

func NewThermalPressurization(params ThermalPressurizationParameters, l Layout, NumFaces int) (tp *ThermalPressurization) {
	tp = &ThermalPressurization{
		Params:               params,
		Grid:                 NewTPGrid(params.NumberOfGridPoints, params.MaxWaveNumber, params.LogDz),
		Layout:               l,
		Temperature:          uniformBuffers(l, NumFaces, params.InitialTemperature),
		Pressure:             uniformBuffers(l, NumFaces, params.InitialPressure),
		HydraulicDiffusivity: uniformBuffers(l, NumFaces, params.HydraulicDiffusivity),
		HalfWidthShearZone:   uniformBuffers(l, NumFaces, params.HalfWidthShearZone),
		FaultStrength:        l.NewFaceBuffers(NumFaces),
		thetaModes:           make([][]float64, NumFaces),
		sigmaModes:           make([][]float64, NumFaces),
	}
	for face := 0; face < NumFaces; face++ {
		tp.thetaModes[face] = make([]float64, l.NumPaddedPoints*params.NumberOfGridPoints)
		tp.sigmaModes[face] = make([]float64, l.NumPaddedPoints*params.NumberOfGridPoints)
	}
	return
}

func (tp *ThermalPressurization) FluidPressure(face, point int) float64 {
	return tp.Pressure[face][point]
}

func (tp *ThermalPressurization) CalcFluidPressure(face int, normalStress, mu, slipRate FaceBuffer,
	deltaT float64, saveState bool, r utils.IndexRange) {
	for i := r.Start; i < r.End; i += r.Step {
		tp.FaultStrength[face][i] = -mu[i] * normalStress[i]
		tp.updateTemperatureAndPressure(face, i, slipRate[i], deltaT, saveState)
	}
}

func (tp *ThermalPressurization) updateTemperatureAndPressure(face, point int, slipRate, deltaT float64, saveState bool) {
	var (
		p            = tp.Params
		Ng           = len(tp.Grid.Points)
		alphaTh      = p.ThermalDiffusivity
		alphaHy      = tp.HydraulicDiffusivity[face][point]
		width        = tp.HalfWidthShearZone[face][point]
		lambda       = p.UndrainedTPResponse
		lambdaPrime  = lambda * alphaTh / (alphaHy - alphaTh)
		tauV         = tp.FaultStrength[face][point] * slipRate
		theta        = tp.thetaModes[face][point*Ng : (point+1)*Ng]
		sigma        = tp.sigmaModes[face][point*Ng : (point+1)*Ng]
		temperature  float64
		pressure     float64
		invWidth     = 1. / width
		heatPerWidth = tauV * invWidth / p.HeatCapacity
	)
	for l := 0; l < Ng; l++ {
		var (
			k2    = utils.POW(tp.Grid.Points[l]*invWidth, 2)
			xTh   = alphaTh * deltaT * k2
			xHy   = alphaHy * deltaT * k2
			omega = heatPerWidth * tp.Grid.HeatSource[l]
			// (1 - exp(-x))/x times deltaT, exact as x goes to 0
			genTh = omega * deltaT * relax(xTh)
			genHy = omega * deltaT * relax(xHy)
		)
		thetaNew := theta[l]*math.Exp(-xTh) + genTh
		sigmaNew := sigma[l]*math.Exp(-xHy) + (lambda+lambdaPrime)*genHy
		temperature += tp.Grid.InverseFourierCoefficients[l] * thetaNew
		pressure += tp.Grid.InverseFourierCoefficients[l] * sigmaNew
		if saveState {
			theta[l], sigma[l] = thetaNew, sigmaNew
		}
	}
	pressure -= lambdaPrime * temperature
	tp.Temperature[face][point] = p.InitialTemperature + temperature
	tp.Pressure[face][point] = p.InitialPressure + pressure
}

func relax(x float64) float64 {
	if x == 0 {
		return 1
	}
	return -math.Expm1(-x) / x
}
