package readfiles

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/notargets/gofem/mesh"
	"github.com/notargets/gofem/types"
)

// Gmsh legacy element type codes are one more than the matching types.Geometry
const (
	gmshPoint    = 15
	gmshMaxShape = 7
)

// ReadGmsh reads a legacy (version 2) ASCII Gmsh file and applies nref global refinements
func ReadGmsh(filename string, nref int, verbose bool) (m *mesh.Mesh, err error) {
	var (
		file *os.File
	)
	if verbose {
		fmt.Printf("Reading Gmsh file named: %s\n", filename)
	}
	if file, err = os.Open(filename); err != nil {
		err = fmt.Errorf("unable to open file %s: %w", filename, err)
		return
	}
	defer file.Close()
	if m, err = ParseGmsh(file, nref); err != nil {
		err = fmt.Errorf("%s: %w", filename, err)
		return
	}
	if verbose {
		fmt.Printf("Read %dD mesh with %d nodes, %d elements, %d boundary elements\n",
			m.Dim, m.NumNodes(), m.NumEls(), m.NumBdrEls())
	}
	return
}

type gmshReader struct {
	s      *bufio.Scanner
	lineNo int
}

func (gr *gmshReader) getLine() (line string, err error) {
	for gr.s.Scan() {
		gr.lineNo++
		if line = strings.TrimSpace(gr.s.Text()); len(line) != 0 {
			return
		}
	}
	if err = gr.s.Err(); err == nil {
		err = fmt.Errorf("early end of file")
	}
	return
}

func (gr *gmshReader) readCount() (n int, err error) {
	var line string
	if line, err = gr.getLine(); err != nil {
		return
	}
	if _, err = fmt.Sscanf(line, "%d", &n); err != nil || n < 0 {
		err = fmt.Errorf("line %d: badly formed count [%s]", gr.lineNo, line)
	}
	return
}

func (gr *gmshReader) expect(section string) (err error) {
	var line string
	if line, err = gr.getLine(); err != nil {
		return
	}
	if line != section {
		err = fmt.Errorf("line %d: expected %s, have [%s]", gr.lineNo, section, line)
	}
	return
}

// ParseGmsh reads the $MeshFormat, $Nodes and $Elements sections. Elements
// of the highest dimension become mesh elements, elements one dimension
// lower become boundary elements whose first tag selects the BC of their
// nodes: 1 is Dirichlet and 2 is Neumann. Points are skipped.
func ParseGmsh(r io.Reader, nref int) (m *mesh.Mesh, err error) {
	var (
		gr     = &gmshReader{s: bufio.NewScanner(r)}
		nodes  []mesh.MeshNode
		els    []mesh.MeshEl
		line   string
		dim    int
		gotFmt bool
	)
	for {
		if line, err = gr.getLine(); err != nil {
			if nodes != nil && els != nil {
				err = nil
				break
			}
			return
		}
		switch line {
		case "$MeshFormat":
			if err = gr.readFormat(); err != nil {
				return
			}
			gotFmt = true
		case "$Nodes":
			if nodes, err = gr.readNodes(); err != nil {
				return
			}
		case "$Elements":
			if nodes == nil {
				err = fmt.Errorf("line %d: $Elements precedes $Nodes", gr.lineNo)
				return
			}
			if els, err = gr.readElements(len(nodes)); err != nil {
				return
			}
		}
	}
	if !gotFmt {
		err = fmt.Errorf("missing $MeshFormat section")
		return
	}
	for _, el := range els {
		if d := el.Geom.Dim(); d > dim {
			dim = d
		}
	}
	var interior, bdr []mesh.MeshEl
	for _, el := range els {
		switch el.Geom.Dim() {
		case dim:
			interior = append(interior, el)
		case dim - 1:
			var bc types.BCType
			switch el.Tag() {
			case 1:
				bc = types.DIRICHLET
			case 2:
				bc = types.NEUMANN
			default:
				err = fmt.Errorf("boundary value %d not defined", el.Tag())
				return
			}
			for _, n := range el.Nodes {
				// Dirichlet wins where a Dirichlet and a Neumann boundary meet
				if nodes[n].BC == types.INTERIOR || bc == types.DIRICHLET {
					nodes[n].BC = bc
				}
			}
			bdr = append(bdr, el)
		}
	}
	if len(interior) == 0 {
		err = fmt.Errorf("no elements found")
		return
	}
	m = mesh.NewMesh(dim, nodes, interior, bdr)
	for i := 0; i < nref; i++ {
		m.GlobalRefine()
	}
	return
}

func (gr *gmshReader) readFormat() (err error) {
	var (
		line            string
		version         float64
		ascii, dataSize int
	)
	if line, err = gr.getLine(); err != nil {
		return
	}
	if _, err = fmt.Sscanf(line, "%g %d %d", &version, &ascii, &dataSize); err != nil {
		err = fmt.Errorf("line %d: badly formed format [%s]", gr.lineNo, line)
		return
	}
	if version < 2 || version >= 3 {
		err = fmt.Errorf("unsupported Gmsh version %g, need 2.x", version)
		return
	}
	if ascii != 0 {
		err = fmt.Errorf("binary Gmsh files are not supported")
		return
	}
	return gr.expect("$EndMeshFormat")
}

func (gr *gmshReader) readNodes() (nodes []mesh.MeshNode, err error) {
	var (
		Nv   int
		line string
	)
	if Nv, err = gr.readCount(); err != nil {
		return
	}
	nodes = make([]mesh.MeshNode, Nv)
	for i := 0; i < Nv; i++ {
		var (
			id      int
			x, y, z float64
		)
		if line, err = gr.getLine(); err != nil {
			return
		}
		if _, err = fmt.Sscanf(line, "%d %g %g %g", &id, &x, &y, &z); err != nil {
			err = fmt.Errorf("line %d: unable to read node [%s]", gr.lineNo, line)
			return
		}
		id-- // 0 based
		if id != i {
			err = fmt.Errorf("line %d: node ids must be contiguous, have %d at position %d",
				gr.lineNo, id+1, i+1)
			return
		}
		nodes[i] = mesh.MeshNode{ID: id, X: types.NewPoint(x, y, z)}
	}
	err = gr.expect("$EndNodes")
	return
}

func (gr *gmshReader) readElements(Nv int) (els []mesh.MeshEl, err error) {
	var (
		K    int
		line string
	)
	if K, err = gr.readCount(); err != nil {
		return
	}
	for k := 0; k < K; k++ {
		if line, err = gr.getLine(); err != nil {
			return
		}
		var (
			fields = strings.Fields(line)
			ints   = make([]int, len(fields))
		)
		for i, f := range fields {
			if _, err = fmt.Sscanf(f, "%d", &ints[i]); err != nil {
				err = fmt.Errorf("line %d: unable to read element [%s]", gr.lineNo, line)
				return
			}
		}
		if len(ints) < 3 {
			err = fmt.Errorf("line %d: short element record [%s]", gr.lineNo, line)
			return
		}
		elType, nTags := ints[1], ints[2]
		if elType == gmshPoint {
			continue
		}
		if elType < 1 || elType > gmshMaxShape {
			err = fmt.Errorf("line %d: unsupported Gmsh element type %d", gr.lineNo, elType)
			return
		}
		geom := types.Geometry(elType - 1)
		nn := types.NodesPerGeometry[geom]
		if len(ints) != 3+nTags+nn {
			err = fmt.Errorf("line %d: %v needs %d tags and %d nodes, have %d fields",
				gr.lineNo, geom, nTags, nn, len(ints))
			return
		}
		el := mesh.MeshEl{
			Geom:  geom,
			Tags:  append([]int{}, ints[3:3+nTags]...),
			Nodes: make([]int, nn),
		}
		for i, n := range ints[3+nTags:] {
			if n < 1 || n > Nv {
				err = fmt.Errorf("line %d: node %d out of range", gr.lineNo, n)
				return
			}
			el.Nodes[i] = n - 1
		}
		els = append(els, el)
	}
	err = gr.expect("$EndElements")
	return
}
