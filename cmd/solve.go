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
	"io"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/gofem/InputParameters"
	"github.com/notargets/gofem/fem"
	"github.com/notargets/gofem/model_problems/Poisson"
)

// SolveCmd represents the solve command
var SolveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve the Poisson model problem and report the discretization error",
	Long: `
Solves -Lap(u) + u = f on the unit square with homogeneous Dirichlet boundaries,
where f is manufactured from u = sin(pi x) sin(pi y).

gofem solve -N 16 -p 2 --assembly element`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			opts Poisson.Options
			out  = cmd.OutOrStdout()
		)
		if opts, err = solveOptions(cmd, out); err != nil {
			return
		}
		if dir := viper.GetString("solve.profile"); dir != "" {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(dir), profile.NoShutdownHook).Stop()
		}
		if viper.GetBool("solve.counters") {
			opts.Measure = countPhase(out)
		}
		fmt.Fprintf(out, "Solving with %d elements per side, order %d, %s assembly, %s space\n",
			opts.Refinement, opts.Order, opts.Assembly, opts.Space)
		_, info, err := Poisson.Solve(opts)
		if err != nil {
			return
		}
		info.Print(out)
		return
	},
}

var solveFlags = []string{"refinement", "order", "assembly", "space", "tol", "maxIter",
	"parallel", "inputFile", "profile", "counters", "verbose"}

func init() {
	rootCmd.AddCommand(SolveCmd)
	f := SolveCmd.Flags()
	f.IntP("refinement", "N", 20, "number of elements per side of the unit square")
	f.IntP("order", "p", 1, "polynomial order")
	f.String("assembly", "sparse", "operator storage: sparse, element or csr")
	f.String("space", "lagrange", "finite element space: lagrange or l2")
	f.Float64("tol", Poisson.DefaultTol, "CG residual tolerance")
	f.Int("maxIter", Poisson.DefaultMaxIter, "CG iteration limit")
	f.Int("parallel", 0, "parallel degree for assembly and products, 0 uses every CPU")
	f.StringP("inputFile", "I", "", "YAML file describing the run, explicit flags take precedence")
	f.String("profile", "", "write a CPU profile of the run into this directory")
	f.Bool("counters", false, "report hardware cycle counts for each phase (linux)")
	f.BoolP("verbose", "v", false, "print mesh information and CG iterations")
	for _, name := range solveFlags {
		if err := viper.BindPFlag("solve."+name, f.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func readInput(filename string) (ip *InputParameters.InputParameters, err error) {
	var data []byte
	if data, err = os.ReadFile(filename); err != nil {
		return
	}
	ip = &InputParameters.InputParameters{}
	if err = ip.Parse(data); err != nil {
		err = fmt.Errorf("%s: %w", filename, err)
	}
	return
}

// solveOptions composes defaults, config, environment and flags, then the input file
// for every value whose flag was not given on the command line
func solveOptions(cmd *cobra.Command, out io.Writer) (opts Poisson.Options, err error) {
	var (
		assembly = viper.GetString("solve.assembly")
		space    = viper.GetString("solve.space")
		changed  = cmd.Flags().Changed
	)
	opts = Poisson.DefaultOptions()
	opts.Refinement = viper.GetInt("solve.refinement")
	opts.Order = viper.GetInt("solve.order")
	opts.Tol = viper.GetFloat64("solve.tol")
	opts.MaxIter = viper.GetInt("solve.maxIter")
	opts.Parallel = viper.GetInt("solve.parallel")
	opts.Verbose = viper.GetBool("solve.verbose")
	if file := viper.GetString("solve.inputFile"); file != "" {
		var ip *InputParameters.InputParameters
		if ip, err = readInput(file); err != nil {
			return
		}
		ip.Print(out)
		setInt := func(flag string, dst *int, val int) {
			if val != 0 && !changed(flag) {
				*dst = val
			}
		}
		setInt("refinement", &opts.Refinement, ip.Refinements)
		setInt("order", &opts.Order, ip.PolynomialOrder)
		setInt("maxIter", &opts.MaxIter, ip.MaxIterations)
		setInt("parallel", &opts.Parallel, ip.Parallel)
		if ip.Tolerance != 0 && !changed("tol") {
			opts.Tol = ip.Tolerance
		}
		if ip.Assembly != "" && !changed("assembly") {
			assembly = ip.Assembly
		}
		if ip.Space != "" && !changed("space") {
			space = ip.Space
		}
		if opts.Mesh, err = ip.Mesh(); err != nil {
			return
		}
	}
	if opts.Assembly, err = Poisson.NewAssemblyType(assembly); err != nil {
		return
	}
	opts.Space, err = fem.NewSpaceType(space)
	return
}
