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
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/notargets/gofem/InputParameters"
	"github.com/notargets/gofem/fem"
	"github.com/notargets/gofem/mesh"
	"github.com/notargets/gofem/readfiles"
)

// MeshInfoCmd represents the meshinfo command
var MeshInfoCmd = &cobra.Command{
	Use:   "meshinfo",
	Short: "Read a mesh, build a finite element space on it and report its size and quality",
	Long: `
Reads a Gmsh (.msh, legacy version 2) or SU2 (.su2) mesh, or the square domain of an
input file, and prints the mesh and finite element space information.

gofem meshinfo -F square.msh --refine 2 -p 2`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			flags        = cmd.Flags()
			out          = cmd.OutOrStdout()
			gridFile, _  = flags.GetString("gridFile")
			inputFile, _ = flags.GetString("inputFile")
			nref, _      = flags.GetInt("refine")
			order, _     = flags.GetInt("order")
			spaceName, _ = flags.GetString("space")
			verbose, _   = flags.GetBool("verbose")
		)
		var (
			m  *mesh.Mesh
			ip *InputParameters.InputParameters
			st fem.SpaceType
			fs *fem.FESpace
		)
		switch {
		case gridFile != "":
			if m, err = readMesh(gridFile, nref, verbose); err != nil {
				return
			}
		case inputFile != "":
			if ip, err = readInput(inputFile); err != nil {
				return
			}
			if m, err = ip.Mesh(); err != nil {
				return
			}
			if m == nil {
				return fmt.Errorf("%s has no Domain", inputFile)
			}
			for i := 0; i < nref; i++ {
				m.GlobalRefine()
			}
		default:
			return fmt.Errorf("must supply a grid file (-F, --gridFile) or an input file with a Domain (-I, --inputFile)")
		}
		m.PrintInfo(out)
		if st, err = fem.NewSpaceType(spaceName); err != nil {
			return
		}
		if fs, err = fem.NewFESpace(m, st, order, 1, nil); err != nil {
			return
		}
		fs.PrintMeshInfo(out)
		fmt.Fprintf(out, "\t%s space of order %d: %d dofs\n", st, order, fs.VSize())
		return
	},
}

func readMesh(gridFile string, nref int, verbose bool) (m *mesh.Mesh, err error) {
	switch strings.ToLower(filepath.Ext(gridFile)) {
	case ".msh":
		return readfiles.ReadGmsh(gridFile, nref, verbose)
	case ".su2":
		return readfiles.ReadSU2(gridFile, nil, nref, verbose)
	}
	return nil, fmt.Errorf("unknown mesh format for %s, use .msh or .su2", gridFile)
}

func init() {
	rootCmd.AddCommand(MeshInfoCmd)
	MeshInfoCmd.Flags().StringP("gridFile", "F", "", "mesh file in Gmsh (.msh) or SU2 (.su2) format")
	MeshInfoCmd.Flags().StringP("inputFile", "I", "", "YAML file with a Domain to mesh instead of a grid file")
	MeshInfoCmd.Flags().IntP("refine", "r", 0, "number of global refinements applied after reading")
	MeshInfoCmd.Flags().IntP("order", "p", 1, "polynomial order of the space")
	MeshInfoCmd.Flags().String("space", "lagrange", "finite element space: lagrange or l2")
	MeshInfoCmd.Flags().BoolP("verbose", "v", false, "report file reading progress")
}
