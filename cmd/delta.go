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
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/gohmds/HMDS"
)

// DeltaCmd represents the delta command
var DeltaCmd = &cobra.Command{
	Use:   "delta",
	Short: "Gromov delta hyperbolicity of a target distance matrix",
	Long: `Computes the four point Gromov delta of the distance matrix D in a YAML input file.
Small values relative to the diameter indicate D embeds well in the hyperbolic plane.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err   error
			delta float64
		)
		fileName, _ := cmd.Flags().GetString("inputParametersFile")
		ip := processInput(fileName)
		parallel := viper.GetInt("parallel")
		if parallel < 1 {
			parallel = runtime.NumCPU()
		}
		D, _, err := ip.Matrices()
		if err == nil {
			delta, err = HMDS.DeltaHyperbolicity(D, parallel)
		}
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		fmt.Printf("delta = %12.6e, diameter = %12.6e\n", delta, D.Max())
	},
}

func init() {
	rootCmd.AddCommand(DeltaCmd)
	DeltaCmd.Flags().StringP("inputParametersFile", "I", "", "YAML file containing the distance matrix D")
}
