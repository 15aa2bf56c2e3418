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
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/ghodss/yaml"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/gohmds/HMDS"
	"github.com/notargets/gohmds/InputParameters"
)

type ModelFit struct {
	InputFile string
	Verbose   bool
	Parallel  int
	Profile   bool
}

// FitOutput is written to stdout as YAML
type FitOutput struct {
	Title      string    `json:"Title"`
	Status     string    `json:"Status"`
	Energy     float64   `json:"Energy"`
	Iterations int       `json:"Iterations"`
	X          []float64 `json:"X"`
	Y          []float64 `json:"Y"`
}

const exampleFile = `
########################################
Title: "Test Case"
Method: lm # Can be "newton" or "batch"
Eta: 1.
Eps: 1.e-10
MaxIterations: 5000
D:
  - [0, 1, 1]
  - [1, 0, 1]
  - [1, 1, 0]
# W defaults to ones off the diagonal
# X0, Y0 give the starting points, otherwise Runs random starts are used
Runs: 4
InitRadius: 0.5
########################################
`

// FitCmd represents the fit command
var FitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Embed a target distance matrix into the Poincare disk",
	Long:  `Embed a target distance matrix, read with its weights from a YAML input file, into the Poincare disk`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		mf := &ModelFit{}
		if mf.InputFile, err = cmd.Flags().GetString("inputParametersFile"); err != nil {
			panic(err)
		}
		mf.Profile, _ = cmd.Flags().GetBool("profile")
		mf.Verbose = viper.GetBool("verbose")
		mf.Parallel = viper.GetInt("parallel")
		ip := processInput(mf.InputFile)
		if mf.Profile {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		}
		if mf.Verbose {
			ip.Print()
		}
		var res *HMDS.Result
		if res, err = RunFit(context.Background(), mf, ip, os.Stdout); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		if err = WriteResult(os.Stdout, ip.Title, res); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func processInput(fileName string) (ip *InputParameters.InputParametersHMDS) {
	var (
		err  error
		data []byte
	)
	if len(fileName) == 0 {
		err = fmt.Errorf("must supply an input parameters file (-I, --inputParametersFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	if data, err = os.ReadFile(fileName); err != nil {
		panic(err)
	}
	ip = &InputParameters.InputParametersHMDS{}
	if err = ip.Parse(data); err != nil {
		panic(err)
	}
	return
}

func NewSettings(ip *InputParameters.InputParametersHMDS, log io.Writer) (s *HMDS.Settings, err error) {
	s = HMDS.NewSettings()
	if s.Method, err = HMDS.NewMethod(ip.Method); err != nil {
		return
	}
	if s.Curvature, err = HMDS.NewCurvature(ip.Curvature); err != nil {
		return
	}
	if s.StopRule, err = HMDS.NewStopRule(ip.StopRule); err != nil {
		return
	}
	s.LambdaInit, s.LambdaMin, s.LambdaMax = ip.LambdaInit, ip.LambdaMin, ip.LambdaMax
	s.Seed = ip.Seed
	s.Log = log
	return
}

// RunFit fits from the supplied starting points, or from ip.Runs random starts in parallel
func RunFit(ctx context.Context, mf *ModelFit, ip *InputParameters.InputParametersHMDS, out io.Writer) (res *HMDS.Result, err error) {
	var (
		s   *HMDS.Settings
		log io.Writer
	)
	if mf.Verbose {
		log = out
	}
	if s, err = NewSettings(ip, log); err != nil {
		return
	}
	D, W, err := ip.Matrices()
	if err != nil {
		return
	}
	if ip.HasInitialPoints() {
		return HMDS.Fit(ctx, ip.X0, ip.Y0, D, W, ip.Eta, ip.Eps, ip.MaxIterations, s)
	}
	parallel := mf.Parallel
	if parallel < 1 {
		parallel = runtime.NumCPU()
	}
	var all []*HMDS.Result
	if res, all, err = HMDS.FitEnsemble(ctx, D, W, ip.Eta, ip.Eps, ip.MaxIterations, ip.Runs, ip.InitRadius,
		parallel, s); err != nil {
		return
	}
	if mf.Verbose {
		for k, r := range all {
			fmt.Fprintf(out, "Run %3d: %s after %6d iterations, Energy = %12.6e\n", k, r.Status.Print(), r.Iterations, r.Energy)
		}
	}
	return
}

func WriteResult(w io.Writer, title string, res *HMDS.Result) (err error) {
	var (
		data []byte
		fo   = FitOutput{
			Title:      title,
			Status:     res.Status.Print(),
			Energy:     res.Energy,
			Iterations: res.Iterations,
		}
	)
	fo.X, fo.Y = res.XY()
	if data, err = yaml.Marshal(fo); err != nil {
		return
	}
	_, err = w.Write(data)
	return
}

func init() {
	rootCmd.AddCommand(FitCmd)
	FitCmd.Flags().StringP("inputParametersFile", "I", "", "YAML file for input parameters like:\n\t- D (target distances)\n\t- W (weights)\n\t- Method, Eta, Eps")
	FitCmd.Flags().Bool("profile", false, "write a CPU profile to the current directory")
}
