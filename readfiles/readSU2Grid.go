package readfiles

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/oilspill/mesh"
)

// From here: https://su2code.github.io/docs_v7/Mesh-File/
type SU2ElementType uint8

const (
	ELType_LINE          SU2ElementType = 3
	ELType_Triangle                     = 5
	ELType_Quadrilateral                = 9
	ELType_Tetrahedral                  = 10
	ELType_Hexahedral                   = 12
	ELType_Prism                        = 13
	ELType_Pyramid                      = 14
)

type su2Reader struct {
	reader *bufio.Reader
}

// ReadSU2 reads a 2D SU2 mesh. Triangles form one block, each boundary marker adds a line block.
func ReadSU2(r io.Reader) (rm *RawMesh, err error) {
	var (
		sr  = &su2Reader{reader: bufio.NewReader(r)}
		dim int
	)
	rm = &RawMesh{FormatVersion: "su2"}
	if dim, err = sr.readNumber("NDIME"); err != nil {
		return nil, err
	}
	if dim != 2 {
		return nil, fmt.Errorf("only 2 dimensional SU2 files are supported, have %d", dim)
	}
	var tris [][]int
	if tris, err = sr.readElements(); err != nil {
		return nil, err
	}
	if rm.Points, err = sr.readVertices(); err != nil {
		return nil, err
	}
	rm.Blocks = append(rm.Blocks, mesh.CellBlock{Type: "triangle", Data: tris})
	var markers []mesh.CellBlock
	if markers, rm.MarkerNames, err = sr.readBCs(); err != nil {
		return nil, err
	}
	rm.Blocks = append(rm.Blocks, markers...)
	for _, b := range rm.Blocks {
		for _, pts := range b.Data {
			for _, pid := range pts {
				if pid < 0 || pid >= len(rm.Points) {
					return nil, fmt.Errorf("%s element refers to point %d, have %d points", b.Type, pid, len(rm.Points))
				}
			}
		}
	}
	return
}

func (sr *su2Reader) readBCs() (blocks []mesh.CellBlock, names []string, err error) {
	var (
		nBCs, nEdges int
		label        string
		ints         []int
	)
	if nBCs, err = sr.readNumber("NMARK"); err != nil {
		return
	}
	seen := make(map[string]bool, nBCs)
	for n := 0; n < nBCs; n++ {
		if label, err = sr.readLabel("MARKER_TAG"); err != nil {
			return
		}
		if seen[label] {
			err = fmt.Errorf("duplicate boundary condition found with label: [%s]", label)
			return
		}
		seen[label] = true
		if nEdges, err = sr.readNumber("MARKER_ELEMS"); err != nil {
			return
		}
		block := mesh.CellBlock{Type: "line", Data: make([][]int, nEdges)}
		for i := 0; i < nEdges; i++ {
			if ints, err = sr.readInts(3, "marker "+label); err != nil {
				return
			}
			if SU2ElementType(ints[0]) != ELType_LINE {
				err = fmt.Errorf("BCs should only contain line elements in 2D, marker %s has type %d", label, ints[0])
				return
			}
			block.Data[i] = ints[1:3]
		}
		blocks = append(blocks, block)
		names = append(names, label)
	}
	return
}

func (sr *su2Reader) readVertices() (points [][]float64, err error) {
	var (
		nv     int
		fields []string
	)
	if nv, err = sr.readNumber("NPOIN"); err != nil {
		return
	}
	points = make([][]float64, nv)
	for i := 0; i < nv; i++ {
		if fields, err = sr.getFields("NPOIN"); err != nil {
			return
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("unable to read coordinates of point %d", i)
		}
		x := make([]float64, 3)
		for j := 0; j < 2; j++ {
			if x[j], err = strconv.ParseFloat(fields[j], 64); err != nil {
				return nil, fmt.Errorf("point %d: invalid coordinate %q", i, fields[j])
			}
		}
		points[i] = x
	}
	return
}

func (sr *su2Reader) readElements() (tris [][]int, err error) {
	var (
		k    int
		ints []int
	)
	if k, err = sr.readNumber("NELEM"); err != nil {
		return
	}
	tris = make([][]int, k)
	for i := 0; i < k; i++ {
		if ints, err = sr.readInts(4, "NELEM"); err != nil {
			return
		}
		if SU2ElementType(ints[0]) != ELType_Triangle {
			return nil, fmt.Errorf("unable to deal with non-triangular elements, element %d has type %d", i, ints[0])
		}
		tris[i] = ints[1:4]
	}
	return
}

func (sr *su2Reader) readInts(n int, section string) (ints []int, err error) {
	var (
		fields []string
	)
	if fields, err = sr.getFields(section); err != nil {
		return
	}
	if len(fields) < n {
		return nil, fmt.Errorf("%s: expected %d values, have [%s]", section, n, strings.Join(fields, " "))
	}
	if ints, err = atoiAll(fields[:n], section); err != nil {
		return nil, err
	}
	return
}

// getToken returns the value of a KEY= line, skipping comments
func (sr *su2Reader) getToken(key string) (token string, err error) {
	var (
		line string
	)
	if line, err = sr.getLineNoComments(); err != nil {
		return "", fmt.Errorf("looking for %s: %w", key, err)
	}
	ind := strings.Index(line, "=")
	if ind < 0 {
		return "", fmt.Errorf("badly formed input line [%s], should have an =", line)
	}
	if name := strings.TrimSpace(line[:ind]); name != key {
		return "", fmt.Errorf("expected %s, found %s", key, name)
	}
	token = strings.TrimSpace(line[ind+1:])
	return
}

func (sr *su2Reader) readLabel(key string) (label string, err error) {
	if label, err = sr.getToken(key); err != nil {
		return
	}
	if label == "" {
		err = fmt.Errorf("empty %s", key)
	}
	return
}

func (sr *su2Reader) readNumber(key string) (num int, err error) {
	var (
		token string
	)
	if token, err = sr.getToken(key); err != nil {
		return
	}
	if num, err = strconv.Atoi(token); err != nil {
		err = fmt.Errorf("unable to read number from token: [%s]", token)
	}
	return
}

func (sr *su2Reader) getFields(section string) (fields []string, err error) {
	var (
		line string
	)
	if line, err = sr.getLineNoComments(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", section, err)
	}
	fields = strings.Fields(line)
	return
}

func (sr *su2Reader) getLineNoComments() (line string, err error) {
	for {
		if line, err = sr.getLine(); err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "%") {
			return
		}
	}
}

func (sr *su2Reader) getLine() (line string, err error) {
	line, err = sr.reader.ReadString('\n')
	if err == io.EOF && len(line) != 0 {
		err = nil
	}
	if err == io.EOF {
		err = fmt.Errorf("early end of file")
	}
	line = strings.TrimRight(line, "\r\n")
	return
}

func readSU2File(filename string) (rm *RawMesh, err error) {
	var (
		file *os.File
	)
	if file, err = os.Open(filename); err != nil {
		return
	}
	defer file.Close()
	return ReadSU2(file)
}
