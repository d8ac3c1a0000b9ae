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
	"github.com/spf13/cobra"

	"github.com/notargets/gofem/fem"
	"github.com/notargets/gofem/model_problems/Poisson"
)

// ConvergenceCmd represents the convergence command
var ConvergenceCmd = &cobra.Command{
	Use:   "convergence",
	Short: "Measure the order of accuracy of the Poisson solution",
	Long: `
Solves the Poisson model problem for every order on every mesh and fits the
observed rate of the L2 error, which is p+1 for a Lagrange space of order p.

gofem convergence -p 1,2,3 -N 4,8,16`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			flags   = cmd.Flags()
			opts    = Poisson.DefaultOptions()
			orders  []int
			Ns      []int
			name    string
			studies []Poisson.Study
		)
		if orders, err = flags.GetIntSlice("orders"); err != nil {
			return
		}
		if Ns, err = flags.GetIntSlice("refinements"); err != nil {
			return
		}
		name, _ = flags.GetString("assembly")
		if opts.Assembly, err = Poisson.NewAssemblyType(name); err != nil {
			return
		}
		name, _ = flags.GetString("space")
		if opts.Space, err = fem.NewSpaceType(name); err != nil {
			return
		}
		if studies, err = Poisson.ConvergenceStudy(orders, Ns, opts); err != nil {
			return
		}
		Poisson.PrintStudies(cmd.OutOrStdout(), studies)
		return
	},
}

func init() {
	rootCmd.AddCommand(ConvergenceCmd)
	ConvergenceCmd.Flags().IntSliceP("orders", "p", []int{1, 2, 3}, "polynomial orders to study")
	ConvergenceCmd.Flags().IntSliceP("refinements", "N", []int{4, 8, 16}, "elements per side of each mesh")
	ConvergenceCmd.Flags().String("assembly", "sparse", "operator storage: sparse, element or csr")
	ConvergenceCmd.Flags().String("space", "lagrange", "finite element space: lagrange or l2")
}
