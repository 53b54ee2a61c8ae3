package FaultScenario

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/notargets/avs/chart2d"
	utils2 "github.com/notargets/avs/utils"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gorupture/DG1D"
	"github.com/notargets/gorupture/DynamicRupture"
	"github.com/notargets/gorupture/InputParameters"
	"github.com/notargets/gorupture/types"
	"github.com/notargets/gorupture/utils"
)

/*
FaultScenario drives a batch of fault faces loaded by a constant interpolated field from
each side, optionally nucleated on a patch, through FinalTime with a fixed time step.
*/
type FaultScenario struct {
	Input        *InputParameters.InputParametersFault
	Params       DynamicRupture.Parameters
	Layer        *DynamicRupture.FaultLayer
	Solver       *DynamicRupture.FrictionSolver
	Dispatcher   DynamicRupture.Dispatcher
	OutputPoints utils.IndexRange // Flattened face*NumPoints+point indices reported at the end
	Time         float64
	StepCount    int
	LogFrequency int
	chart        *chart2d.Chart2D
	lineKey      utils2.Key
}

// StepStats summarizes the fault after a step
type StepStats struct {
	MaxSlipRate, MaxSlip float64
	Ruptured             int
	NotConverged         int64
}

func NewFaultScenario(ip *InputParameters.InputParametersFault) (c *FaultScenario, err error) {
	var (
		l           DynamicRupture.Layout
		plus, minus DynamicRupture.Material
		qP, qM      [types.NumQuantities]float64
	)
	c = &FaultScenario{
		Input:        ip,
		LogFrequency: 50,
	}
	if c.Params, err = ip.ToParameters(); err != nil {
		return
	}
	if l, err = ip.Layout(); err != nil {
		return
	}
	if plus, minus, err = ip.Materials(); err != nil {
		return
	}
	if qP, err = InputParameters.QuantityValues(ip.QPlus); err != nil {
		return
	}
	if qM, err = InputParameters.QuantityValues(ip.QMinus); err != nil {
		return
	}
	if c.Dispatcher, err = NewDispatcher(ip.Dispatch, ip.ProcLimit); err != nil {
		return
	}
	c.Layer = DynamicRupture.NewFaultLayer(l, ip.NumFaces)
	c.Layer.SetMaterial(plus, minus)
	for face := 0; face < ip.NumFaces; face++ {
		for q := 0; q < types.NumQuantities; q++ {
			c.Layer.QInterpolatedPlus[face].SetConstant(q, qP[q])
			c.Layer.QInterpolatedMinus[face].SetConstant(q, qM[q])
		}
	}
	c.setStress()
	c.setWeights()
	if c.Solver, err = DynamicRupture.NewFrictionSolver(&c.Params, c.Layer); err != nil {
		return
	}
	c.OutputPoints = utils.ParseIndexRange(ip.OutputPoints, ip.NumFaces*l.NumPoints)
	if ip.OutputPoints == "" {
		c.OutputPoints = utils.NewIndexRange(0, 0)
	}
	return
}

// NewDispatcher maps a dispatch name onto a dispatcher, an empty name selects host dispatch
func NewDispatcher(name string, ProcLimit int) (d DynamicRupture.Dispatcher, err error) {
	var ok bool
	d.ProcLimit = ProcLimit
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return
	}
	if d.Mode, ok = DynamicRupture.DispatchModeNames[name]; !ok {
		err = fmt.Errorf("%w: unknown dispatch mode %q", DynamicRupture.ErrInvalidParameter, name)
	}
	return
}

func (c *FaultScenario) setStress() {
	var (
		ip  = c.Input
		st  = c.Layer.State
		Np  = c.Layer.NumPoints
		ini [types.NumStressComponents]float64
		nuc [types.NumStressComponents]float64
	)
	copy(ini[:], ip.InitialStress)
	st.SetInitialStress(ini)
	if len(ip.NucleationStress) == 0 {
		return
	}
	copy(nuc[:], ip.NucleationStress)
	var (
		faces  = utils.ParseIndexRange(ip.NucleationFaces, ip.NumFaces)
		points = utils.ParseIndexRange(ip.NucleationPoints, Np)
	)
	for face := 0; face < ip.NumFaces; face++ {
		for i := 0; i < Np; i++ {
			if faces.Contains(face) && points.Contains(i) {
				st.NucleationStressInFaultCS[face][i] = nuc
			}
		}
	}
}

/*
setWeights uses the tensor Gauss face quadrature when the point count matches the order,
and equal weights otherwise. Both sum to 1/2 so the doubled surface area times the weight
sum is the face area.
*/
func (c *FaultScenario) setWeights() {
	var (
		l    = c.Layer.Layout
		area = c.Input.FaceArea
		N    = int(math.Round(math.Sqrt(float64(l.NumPoints)))) - 1
	)
	if area <= 0 {
		area = 1
	}
	if N >= 0 && (N+1)*(N+1) == l.NumPoints {
		_, w := DG1D.FaceQuadrature(N)
		copy(c.Layer.SpaceWeights, w)
	} else {
		c.Layer.SpaceWeights.Fill(l.HostRange(), 0.5/float64(l.NumPoints))
	}
	for face := range c.Layer.DoubledSurfaceArea {
		c.Layer.DoubledSurfaceArea[face] = 2 * area
	}
}

// Step advances the fault by dt from the current time
func (c *FaultScenario) Step(dt float64) {
	c.Dispatcher.Step(c.Solver, c.Time, dt)
	c.Time += dt
	c.StepCount++
}

func (c *FaultScenario) Stats() (s StepStats) {
	var (
		st  = c.Layer.State
		Np  = c.Layer.NumPoints
		srm = make([]float64, 0, c.Layer.NumFaces*Np)
		sl  = make([]float64, 0, c.Layer.NumFaces*Np)
	)
	for face := 0; face < c.Layer.NumFaces; face++ {
		srm = append(srm, st.SlipRateMagnitude[face][:Np]...)
		sl = append(sl, st.AccumulatedSlipMagnitude[face][:Np]...)
		for i := 0; i < Np; i++ {
			if !st.RuptureTimePending[face][i] {
				s.Ruptured++
			}
		}
	}
	s.MaxSlipRate, s.MaxSlip = floats.Max(srm), floats.Max(sl)
	s.NotConverged = c.Solver.NotConvergedFaces()
	return
}

func (c *FaultScenario) Run(showGraph bool, graphDelay ...time.Duration) {
	var (
		ip     = c.Input
		dt     = ip.TimeStep
		Nsteps = int(math.Ceil((ip.FinalTime - c.Time) / dt))
		start  = time.Now()
	)
	if Nsteps < 1 {
		return
	}
	dt = (ip.FinalTime - c.Time) / float64(Nsteps)
	fmt.Printf("%s, %s dispatch\n", c.Params.FrictionLaw.Print(), c.Dispatcher.Mode.Print())
	fmt.Printf("FinalTime = %8.4f, Nsteps = %d, dt = %8.6f, Faces = %d, Points = %d\n",
		ip.FinalTime, Nsteps, dt, c.Layer.NumFaces, c.Layer.NumPoints)
	for tstep := 0; tstep < Nsteps; tstep++ {
		c.Step(dt)
		if showGraph {
			c.plot(graphDelay...)
		}
		if tstep%c.LogFrequency == 0 || tstep == Nsteps-1 {
			s := c.Stats()
			fmt.Printf("Time = %8.4f, step[%d], max_slip_rate = %10.4e, max_slip = %10.4e, ruptured = %d/%d\n",
				c.Time, c.StepCount, s.MaxSlipRate, s.MaxSlip, s.Ruptured, c.Layer.NumFaces*c.Layer.NumPoints)
		}
	}
	fmt.Printf("Elapsed = %v, not converged face ranges = %d\n", time.Since(start), c.Solver.NotConvergedFaces())
	fmt.Println(utils.GetMemUsage())
	c.PrintOutputPoints()
}

func (c *FaultScenario) PrintOutputPoints() {
	var (
		st = c.Layer.State
		Np = c.Layer.NumPoints
	)
	if c.OutputPoints.Len() == 0 {
		return
	}
	fmt.Printf("%6s %6s %12s %12s %12s %12s %12s %10s %12s\n",
		"face", "point", "RuptureTime", "DynStress", "PeakSR", "Slip1", "Slip2", "Mu", "StateVar")
	pendingOr := func(pending bool, t float64) string {
		if pending {
			return "pending"
		}
		return fmt.Sprintf("%12.6f", t)
	}
	for _, ind := range c.OutputPoints.Indices() {
		face, i := ind/Np, ind%Np
		fmt.Printf("%6d %6d %12s %12s %12.4e %12.4e %12.4e %10.6f %12.4e\n", face, i,
			pendingOr(st.RuptureTimePending[face][i], st.RuptureTime[face][i]),
			pendingOr(st.DynStressTimePending[face][i], st.DynStressTime[face][i]),
			st.PeakSlipRate[face][i], st.Slip1[face][i], st.Slip2[face][i],
			st.Mu[face][i], st.StateVariable[face][i])
		if c.Params.IsFrictionEnergyRequired {
			fmt.Printf("%13s frictional energy = %12.4e\n", "", st.Energy.FrictionalEnergy[face][i])
		}
	}
}

// plot draws log10 of the slip rate at every point of every face against the flattened point index
func (c *FaultScenario) plot(graphDelay ...time.Duration) {
	var (
		Ntot = c.Layer.NumFaces * c.Layer.NumPoints
		line = c.slipRateLine()
	)
	if c.chart == nil {
		c.chart = chart2d.NewChart2D(0, float32(Ntot), -16, 2, 1920, 1080,
			utils2.WHITE, utils2.BLACK, 0.9)
		c.lineKey = c.chart.AddLine(line, utils2.RED)
	} else {
		c.chart.UpdateLine(c.chart.GetCurrentWindow(), c.lineKey, line, nil)
	}
	if len(graphDelay) != 0 {
		time.Sleep(graphDelay[0])
	}
}

/*
slipRateLine is the polyline of log10 slip rate over the flattened point index, as segment
pairs x1,y1,x2,y2. Slip rates below 1.e-16 are drawn at the floor.
*/
func (c *FaultScenario) slipRateLine() (line []float32) {
	var (
		st    = c.Layer.State
		Np    = c.Layer.NumPoints
		Ntot  = c.Layer.NumFaces * Np
		floor = 1.e-16
		y     = func(ind int) float32 {
			return float32(math.Log10(math.Max(st.SlipRateMagnitude[ind/Np][ind%Np], floor)))
		}
	)
	if Ntot < 2 {
		return []float32{0, y(0), 1, y(0)}
	}
	line = make([]float32, 0, 4*(Ntot-1))
	for ind := 0; ind < Ntot-1; ind++ {
		line = append(line, float32(ind), y(ind), float32(ind+1), y(ind+1))
	}
	return
}
