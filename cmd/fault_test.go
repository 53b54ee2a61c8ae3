package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessFaultInput(t *testing.T) {
	var (
		err error
		dir = t.TempDir()
		fn  = filepath.Join(dir, "fault.yaml")
	)
	require.NoError(t, os.WriteFile(fn, []byte(`
Title: "Locked fault"
FrictionLaw: lsw
ConvergenceOrder: 1
NumFaces: 2
FinalTime: 0.1
TimeStep: 0.01
MaterialPlus: {Rho: 1, Vp: 4, Vs: 2}
InitialStress: [-1, 0, 0, 0.5, 0, 0]
Dispatch: host
ProcLimit: 2
OutputPoints: ":"
`), 0644))
	{ // Test missing and unreadable files
		_, err = processFaultInput(&ModelFault{})
		assert.Error(t, err)
		_, err = processFaultInput(&ModelFault{InputFile: filepath.Join(dir, "missing.yaml")})
		assert.Error(t, err)
	}
	{ // Test command line overrides
		ip, err := processFaultInput(&ModelFault{InputFile: fn, Dispatch: "point"})
		require.NoError(t, err)
		assert.Equal(t, "point", ip.Dispatch)
		assert.Equal(t, 2, ip.ProcLimit)
		assert.Equal(t, 2, ip.NumFaces)
	}
	{ // Test a short run
		mf := &ModelFault{InputFile: fn, LogFrequency: 5}
		ip, err := processFaultInput(mf)
		require.NoError(t, err)
		assert.NoError(t, RunFault(mf, ip))
		ip.FrictionLaw = "coulomb"
		assert.Error(t, RunFault(mf, ip))
	}
	{ // Test the example input parses into a valid scenario
		mf := &ModelFault{InputFile: filepath.Join(dir, "example.yaml")}
		require.NoError(t, os.WriteFile(mf.InputFile, []byte(exampleFaultFile), 0644))
		ip, err := processFaultInput(mf)
		require.NoError(t, err)
		_, err = ip.ToParameters()
		assert.NoError(t, err)
		_, err = ip.Layout()
		assert.NoError(t, err)
	}
}
