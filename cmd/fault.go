/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/gorupture/InputParameters"
	"github.com/notargets/gorupture/model_problems/FaultScenario"
)

type ModelFault struct {
	InputFile    string
	Graph        bool
	Delay        time.Duration
	Dispatch     string // Overrides the input file when set
	ProcLimit    int    // Overrides the input file when non zero
	LogFrequency int
	Profile      bool
	PerfCounters bool
}

var exampleFaultFile = `
########################################
Title: "Aging law patch"
FrictionLaw: rs-aging # lsw, rs-slip, fvw, nofault
ConvergenceOrder: 2
NumFaces: 16
FinalTime: 1.
TimeStep: 0.001
MaterialPlus: {Rho: 2670, Vp: 6000, Vs: 3464}
InitialStress: [-120.e6, 0, 0, 70.e6, 0, 0]
NucleationStress: [0, 0, 0, 30.e6, 0, 0]
NucleationFaces: "0:4"
T0: 0.1
RateAndState:
  A: 0.01
  B: 0.014
  InitialSlipRate1: 1.e-16
OutputPoints: "0:9"
########################################
`

// FaultCmd represents the fault command
var FaultCmd = &cobra.Command{
	Use:   "fault",
	Short: "Run a fault scenario through the friction solver",
	Long: `
Loads a batch of fault faces from a YAML input file and advances the friction law to
FinalTime, reporting slip rate, slip and rupture progress,

gorupture fault -I input.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
			ip  *InputParameters.InputParametersFault
		)
		mf := &ModelFault{
			InputFile:    viper.GetString("inputFile"),
			Graph:        viper.GetBool("graph"),
			Delay:        time.Duration(viper.GetInt("delay")) * time.Millisecond,
			Dispatch:     viper.GetString("dispatch"),
			ProcLimit:    viper.GetInt("procLimit"),
			LogFrequency: viper.GetInt("logFrequency"),
			Profile:      viper.GetBool("profile"),
			PerfCounters: viper.GetBool("perfCounters"),
		}
		if ip, err = processFaultInput(mf); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			fmt.Printf("Example File:%s\n", exampleFaultFile)
			os.Exit(1)
		}
		if err = RunFault(mf, ip); err != nil {
			panic(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(FaultCmd)
	FaultCmd.Flags().StringP("inputFile", "I", "", "YAML file for the fault scenario")
	FaultCmd.Flags().BoolP("graph", "g", false, "display a graph of the slip rate while computing")
	FaultCmd.Flags().IntP("delay", "d", 0, "milliseconds of delay for plotting")
	FaultCmd.Flags().StringP("dispatch", "m", "", "dispatch mode, host (face per worker) or point (point per worker)")
	FaultCmd.Flags().IntP("procLimit", "p", 0, "limit on the number of worker goroutines, 0 uses all CPUs")
	FaultCmd.Flags().IntP("logFrequency", "l", 50, "number of steps between progress lines")
	FaultCmd.Flags().Bool("profile", false, "write a CPU profile of the run")
	FaultCmd.Flags().Bool("perfCounters", false, "count CPU instructions of the run with hardware counters")
	for _, name := range []string{"inputFile", "graph", "delay", "dispatch", "procLimit",
		"logFrequency", "profile", "perfCounters"} {
		if err := viper.BindPFlag(name, FaultCmd.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func processFaultInput(mf *ModelFault) (ip *InputParameters.InputParametersFault, err error) {
	var data []byte
	if len(mf.InputFile) == 0 {
		err = fmt.Errorf("must supply an input parameters file (-I, --inputFile) in YAML format")
		return
	}
	if data, err = os.ReadFile(mf.InputFile); err != nil {
		return
	}
	ip = &InputParameters.InputParametersFault{}
	if err = ip.Parse(data); err != nil {
		return
	}
	if mf.Dispatch != "" {
		ip.Dispatch = mf.Dispatch
	}
	if mf.ProcLimit != 0 {
		ip.ProcLimit = mf.ProcLimit
	}
	return
}

func RunFault(mf *ModelFault, ip *InputParameters.InputParametersFault) (err error) {
	var c *FaultScenario.FaultScenario
	ip.Print()
	if c, err = FaultScenario.NewFaultScenario(ip); err != nil {
		return
	}
	if mf.LogFrequency > 0 {
		c.LogFrequency = mf.LogFrequency
	}
	if mf.Profile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}
	run := func() error {
		c.Run(mf.Graph, mf.Delay)
		return nil
	}
	if mf.PerfCounters {
		return countInstructions(run)
	}
	return run()
}
