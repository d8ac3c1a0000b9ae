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

// From here: https://su2code.github.io/docs_v7/Mesh-File/
type SU2ElementType uint8

const (
	ELType_LINE          SU2ElementType = 3
	ELType_Triangle      SU2ElementType = 5
	ELType_Quadrilateral SU2ElementType = 9
	ELType_Tetrahedral   SU2ElementType = 10
	ELType_Hexahedral    SU2ElementType = 12
	ELType_Prism         SU2ElementType = 13
	ELType_Pyramid       SU2ElementType = 14
)

var su2Geometry = map[SU2ElementType]types.Geometry{
	ELType_LINE:          types.LINE,
	ELType_Triangle:      types.TRI,
	ELType_Quadrilateral: types.QUAD,
	ELType_Tetrahedral:   types.TET,
	ELType_Hexahedral:    types.HEX,
	ELType_Prism:         types.PRISM,
	ELType_Pyramid:       types.PYR,
}

/*
ReadSU2 reads an SU2 native mesh. Each MARKER_TAG is mapped to a BC through
markerBCs, falling back to a marker named after the BC itself ("dirichlet",
"neumann"). The boundary elements carry the BC as their tag.
*/
func ReadSU2(filename string, markerBCs map[string]types.BCType, nref int,
	verbose bool) (m *mesh.Mesh, err error) {
	var (
		file *os.File
	)
	if verbose {
		fmt.Printf("Reading SU2 file named: %s\n", filename)
	}
	if file, err = os.Open(filename); err != nil {
		err = fmt.Errorf("unable to open file %s: %w", filename, err)
		return
	}
	defer file.Close()
	if m, err = ParseSU2(file, markerBCs, nref); err != nil {
		err = fmt.Errorf("%s: %w", filename, err)
	}
	return
}

type su2Reader struct {
	reader *bufio.Reader
}

func (sr *su2Reader) getLine() (line string, err error) {
	if line, err = sr.reader.ReadString('\n'); err != nil {
		if err == io.EOF && len(strings.TrimSpace(line)) != 0 {
			err = nil
		} else {
			if err == io.EOF {
				err = fmt.Errorf("early end of file")
			}
			return
		}
	}
	line = strings.TrimSpace(line)
	return
}

func (sr *su2Reader) getLineNoComments() (line string, err error) {
	for {
		if line, err = sr.getLine(); err != nil {
			return
		}
		if len(line) != 0 && !strings.HasPrefix(line, "%") {
			return
		}
	}
}

func (sr *su2Reader) getToken(key string) (token string, err error) {
	var (
		line string
	)
	if line, err = sr.getLineNoComments(); err != nil {
		return
	}
	ind := strings.Index(line, "=")
	if ind < 0 {
		err = fmt.Errorf("badly formed input line [%s], should have an =", line)
		return
	}
	if k := strings.TrimSpace(line[:ind]); k != key {
		err = fmt.Errorf("expected %s, have [%s]", key, line)
		return
	}
	token = strings.TrimSpace(line[ind+1:])
	return
}

func (sr *su2Reader) readNumber(key string) (num int, err error) {
	var (
		token string
	)
	if token, err = sr.getToken(key); err != nil {
		return
	}
	if _, err = fmt.Sscanf(token, "%d", &num); err != nil {
		err = fmt.Errorf("unable to read number from token: [%s]", token)
	}
	return
}

func (sr *su2Reader) readLabel(key string) (label string, err error) {
	var (
		token string
	)
	if token, err = sr.getToken(key); err != nil {
		return
	}
	if label = token; len(label) == 0 {
		err = fmt.Errorf("empty %s", key)
	}
	return
}

// readCells reads nCells records of "type node node ... [index]"
func (sr *su2Reader) readCells(nCells, Nv int) (els []mesh.MeshEl, err error) {
	var (
		line string
	)
	els = make([]mesh.MeshEl, nCells)
	for k := 0; k < nCells; k++ {
		if line, err = sr.getLineNoComments(); err != nil {
			return
		}
		var (
			fields = strings.Fields(line)
			nType  int
		)
		if len(fields) == 0 {
			err = fmt.Errorf("empty element record")
			return
		}
		if _, err = fmt.Sscanf(fields[0], "%d", &nType); err != nil {
			err = fmt.Errorf("unable to read element type from [%s]", line)
			return
		}
		geom, ok := su2Geometry[SU2ElementType(nType)]
		if !ok {
			err = fmt.Errorf("unknown SU2 element type %d", nType)
			return
		}
		nn := geom.NumCorners()
		if len(fields) < 1+nn {
			err = fmt.Errorf("%v needs %d nodes, have [%s]", geom, nn, line)
			return
		}
		els[k] = mesh.MeshEl{Geom: geom, Nodes: make([]int, nn)}
		for i := 0; i < nn; i++ {
			if _, err = fmt.Sscanf(fields[1+i], "%d", &els[k].Nodes[i]); err != nil {
				err = fmt.Errorf("unable to read node from [%s]", line)
				return
			}
			if n := els[k].Nodes[i]; Nv > 0 && (n < 0 || n >= Nv) {
				err = fmt.Errorf("node %d out of range in [%s]", n, line)
				return
			}
		}
	}
	return
}

func (sr *su2Reader) readVertices(dim int) (nodes []mesh.MeshNode, err error) {
	var (
		Nv   int
		line string
	)
	if Nv, err = sr.readNumber("NPOIN"); err != nil {
		return
	}
	nodes = make([]mesh.MeshNode, Nv)
	for i := 0; i < Nv; i++ {
		if line, err = sr.getLineNoComments(); err != nil {
			return
		}
		fields := strings.Fields(line)
		if len(fields) < dim {
			err = fmt.Errorf("unable to read coordinates from [%s]", line)
			return
		}
		nodes[i].ID = i
		for d := 0; d < dim; d++ {
			if _, err = fmt.Sscanf(fields[d], "%g", &nodes[i].X[d]); err != nil {
				err = fmt.Errorf("unable to read coordinates from [%s]", line)
				return
			}
		}
	}
	return
}

func ParseSU2(r io.Reader, markerBCs map[string]types.BCType, nref int) (m *mesh.Mesh, err error) {
	var (
		sr          = &su2Reader{reader: bufio.NewReader(r)}
		dim, K, nMk int
		els, bdr    []mesh.MeshEl
		nodes       []mesh.MeshNode
	)
	if dim, err = sr.readNumber("NDIME"); err != nil {
		return
	}
	if dim < 1 || dim > 3 {
		err = fmt.Errorf("dimension %d not supported", dim)
		return
	}
	if K, err = sr.readNumber("NELEM"); err != nil {
		return
	}
	if els, err = sr.readCells(K, 0); err != nil {
		return
	}
	if nodes, err = sr.readVertices(dim); err != nil {
		return
	}
	for k, el := range els {
		for _, n := range el.Nodes {
			if n < 0 || n >= len(nodes) {
				err = fmt.Errorf("element %d references node %d, have %d nodes", k, n, len(nodes))
				return
			}
		}
		if el.Geom.Dim() != dim {
			err = fmt.Errorf("element %d is a %v in a %dD mesh", k, el.Geom, dim)
			return
		}
	}
	if nMk, err = sr.readNumber("NMARK"); err != nil {
		return
	}
	for n := 0; n < nMk; n++ {
		var (
			label  string
			nCells int
			cells  []mesh.MeshEl
		)
		if label, err = sr.readLabel("MARKER_TAG"); err != nil {
			return
		}
		bc, ok := markerBCs[label]
		if !ok {
			if bc, ok = types.NewBCType(label); !ok {
				err = fmt.Errorf("no boundary condition for marker [%s]", label)
				return
			}
		}
		if nCells, err = sr.readNumber("MARKER_ELEMS"); err != nil {
			return
		}
		if cells, err = sr.readCells(nCells, len(nodes)); err != nil {
			return
		}
		for _, c := range cells {
			if c.Geom.Dim() != dim-1 {
				err = fmt.Errorf("marker [%s] holds a %v in a %dD mesh", label, c.Geom, dim)
				return
			}
			c.Tags = []int{int(bc)}
			for _, nd := range c.Nodes {
				if nodes[nd].BC == types.INTERIOR || bc == types.DIRICHLET {
					nodes[nd].BC = bc
				}
			}
			bdr = append(bdr, c)
		}
	}
	m = mesh.NewMesh(dim, nodes, els, bdr)
	for i := 0; i < nref; i++ {
		m.GlobalRefine()
	}
	return
}
