package DynamicRupture

import (
	"github.com/notargets/gorupture/utils"
)

type DispatchMode uint8

const (
	// HostDispatch gives each worker whole faces and runs every formula over a face at once
	HostDispatch DispatchMode = iota
	// PointDispatch gives each worker single points drawn from every face
	PointDispatch
)

var DispatchModeNames = map[string]DispatchMode{
	"host":  HostDispatch,
	"point": PointDispatch,
}

func (dm DispatchMode) Print() string {
	switch dm {
	case HostDispatch:
		return "Host (face per worker)"
	case PointDispatch:
		return "Point (point per worker)"
	}
	return "Unknown"
}

/*
Dispatcher spreads the faces of a layer over up to ProcLimit goroutines, all CPUs when
ProcLimit is zero. Both modes call the same per face code and differ only in the index
range they hand it.
*/
type Dispatcher struct {
	Mode      DispatchMode
	ProcLimit int
}

// Step advances every face of the layer by dt from fullUpdateTime
func (d Dispatcher) Step(fs *FrictionSolver, fullUpdateTime, dt float64) {
	fs.SetTimeStep(fullUpdateTime, dt)
	d.Run(fs)
}

func (d Dispatcher) Run(fs *FrictionSolver) {
	var (
		l = fs.Layer
	)
	if l.NumFaces == 0 {
		return
	}
	switch d.Mode {
	case PointDispatch:
		var (
			Np    = l.NumPoints
			pm    = utils.NewPartitionMapForCPUs(d.ProcLimit, l.NumFaces*Np)
			stage = func(f func(face int, r utils.IndexRange)) {
				pm.Parallel(func(np, kMin, kMax int) {
					for item := kMin; item < kMax; item++ {
						f(item/Np, utils.PointRange(item%Np))
					}
				})
			}
		)
		// Every point of a face has to finish its solve before any point is finished
		stage(fs.SolveFace)
		stage(fs.FinishFace)
	default:
		pm := utils.NewPartitionMapForCPUs(d.ProcLimit, l.NumFaces)
		pm.Parallel(func(np, kMin, kMax int) {
			for face := kMin; face < kMax; face++ {
				fs.EvaluateFace(face, l.HostRange())
			}
		})
	}
}
