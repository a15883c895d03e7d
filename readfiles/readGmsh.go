package readfiles

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/notargets/oilspill/mesh"
)

// RawMesh is the content of a mesh file before any cells are built: the point coordinates and the
// cell blocks, each carrying a type tag and the point indices of its cells
type RawMesh struct {
	FormatVersion string
	Points        [][]float64 // [npoints][3]
	Blocks        []mesh.CellBlock
	MarkerNames   []string // SU2 boundary marker of each line block after the triangles
}

// NewMesh builds the cells of the raw mesh
func (rm *RawMesh) NewMesh(opts ...mesh.Option) (*mesh.Mesh, error) {
	return mesh.NewMesh(rm.Points, rm.Blocks, opts...)
}

// NumCells counts the cells of all blocks, including ones of unsupported types
func (rm *RawMesh) NumCells() (n int) {
	for _, b := range rm.Blocks {
		n += len(b.Data)
	}
	return
}

type gmshElementInfo struct {
	Tag      string
	NumNodes int
}

// gmshElementType maps Gmsh element type numbers to cell block tags
var gmshElementType = map[int]gmshElementInfo{
	1:  {"line", 2},
	2:  {"triangle", 3},
	3:  {"quad", 4},
	4:  {"tetra", 4},
	5:  {"hexahedron", 8},
	6:  {"wedge", 6},
	7:  {"pyramid", 5},
	8:  {"line3", 3},
	9:  {"triangle6", 6},
	15: {"vertex", 1},
}

func elementInfo(elemType int) (info gmshElementInfo) {
	var (
		ok bool
	)
	if info, ok = gmshElementType[elemType]; !ok {
		// Node count is unknown, the rest of the line is taken as nodes
		info = gmshElementInfo{Tag: fmt.Sprintf("gmsh:%d", elemType), NumNodes: -1}
	}
	return
}

// ReadMeshFile reads a mesh file based on extension
func ReadMeshFile(filename string) (rm *RawMesh, err error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".msh":
		var file *os.File
		if file, err = os.Open(filename); err != nil {
			return
		}
		defer file.Close()
		if rm, err = ReadGmsh(file); err != nil {
			err = fmt.Errorf("reading %s: %w", filename, err)
		}
		return
	case ".su2":
		if rm, err = readSU2File(filename); err != nil {
			err = fmt.Errorf("reading %s: %w", filename, err)
		}
		return
	default:
		return nil, fmt.Errorf("unsupported mesh format: %s", ext)
	}
}

type gmshReader struct {
	scanner   *bufio.Scanner
	rm        *RawMesh
	major     int
	nodeIndex map[int]int // Node tag to point index
}

// ReadGmsh reads an ASCII Gmsh file, version 2.2 or 4.x
func ReadGmsh(r io.Reader) (rm *RawMesh, err error) {
	gr := &gmshReader{
		scanner:   bufio.NewScanner(r),
		rm:        &RawMesh{},
		nodeIndex: make(map[int]int),
	}
	gr.scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for gr.scanner.Scan() {
		line := strings.TrimSpace(gr.scanner.Text())
		if line == "" {
			continue
		}
		switch line {
		case "$MeshFormat":
			err = gr.readMeshFormat()
		case "$Nodes":
			if gr.major == 0 {
				return nil, fmt.Errorf("$Nodes found before $MeshFormat")
			}
			if gr.major >= 4 {
				err = gr.readNodes4()
			} else {
				err = gr.readNodes22()
			}
		case "$Elements":
			if gr.major >= 4 {
				err = gr.readElements4()
			} else {
				err = gr.readElements22()
			}
		default:
			if strings.HasPrefix(line, "$") && !strings.HasPrefix(line, "$End") {
				err = gr.skipSection("$End" + line[1:])
			}
		}
		if err != nil {
			return nil, err
		}
	}
	if err = gr.scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %v", err)
	}
	if gr.major == 0 {
		return nil, fmt.Errorf("could not find $MeshFormat section")
	}
	rm = gr.rm
	return
}

// nextFields returns the fields of the next non empty line
func (gr *gmshReader) nextFields(section string) (fields []string, err error) {
	for gr.scanner.Scan() {
		if fields = strings.Fields(gr.scanner.Text()); len(fields) != 0 {
			return
		}
	}
	err = fmt.Errorf("unexpected EOF in %s", section)
	return
}

func (gr *gmshReader) skipSection(endMarker string) error {
	for gr.scanner.Scan() {
		if strings.TrimSpace(gr.scanner.Text()) == endMarker {
			return nil
		}
	}
	return fmt.Errorf("unexpected EOF looking for %s", endMarker)
}

func atoi(field, context string) (i int, err error) {
	if i, err = strconv.Atoi(field); err != nil {
		err = fmt.Errorf("invalid integer %q in %s", field, context)
	}
	return
}

func atoiAll(fields []string, context string) (ints []int, err error) {
	ints = make([]int, len(fields))
	for i, f := range fields {
		if ints[i], err = atoi(f, context); err != nil {
			return
		}
	}
	return
}

func (gr *gmshReader) readMeshFormat() (err error) {
	var (
		parts []string
	)
	if parts, err = gr.nextFields("MeshFormat"); err != nil {
		return
	}
	if len(parts) < 3 {
		return fmt.Errorf("invalid MeshFormat line")
	}
	gr.rm.FormatVersion = parts[0]
	// 4.0 lays out $Nodes and $Elements differently from 4.1
	switch {
	case parts[0] == "4.1":
		gr.major = 4
	case strings.HasPrefix(parts[0], "4."):
		return fmt.Errorf("unsupported Gmsh format version: %s, only 4.1 and 2.x are read", parts[0])
	case strings.HasPrefix(parts[0], "2."):
		gr.major = 2
	default:
		return fmt.Errorf("unsupported Gmsh format version: %s", parts[0])
	}
	if parts[1] != "0" {
		return fmt.Errorf("binary Gmsh files are not supported")
	}
	return gr.skipSection("$EndMeshFormat")
}

func (gr *gmshReader) addNode(tag int, xyz []string) (err error) {
	var (
		x [3]float64
	)
	if len(xyz) < 3 {
		return fmt.Errorf("node %d: expected 3 coordinates, have %d", tag, len(xyz))
	}
	for i := 0; i < 3; i++ {
		if x[i], err = strconv.ParseFloat(xyz[i], 64); err != nil {
			return fmt.Errorf("node %d: invalid coordinate %q", tag, xyz[i])
		}
	}
	if _, dup := gr.nodeIndex[tag]; dup {
		return fmt.Errorf("duplicate node tag %d", tag)
	}
	gr.nodeIndex[tag] = len(gr.rm.Points)
	gr.rm.Points = append(gr.rm.Points, x[:])
	return
}

// readNodes22 reads nodes in v2.2 format
func (gr *gmshReader) readNodes22() (err error) {
	var (
		parts    []string
		numNodes int
	)
	if parts, err = gr.nextFields("Nodes"); err != nil {
		return
	}
	if numNodes, err = atoi(parts[0], "Nodes"); err != nil {
		return
	}
	for i := 0; i < numNodes; i++ {
		if parts, err = gr.nextFields("Nodes"); err != nil {
			return
		}
		if len(parts) < 4 {
			return fmt.Errorf("invalid node line: %s", gr.scanner.Text())
		}
		var tag int
		if tag, err = atoi(parts[0], "Nodes"); err != nil {
			return
		}
		if err = gr.addNode(tag, parts[1:]); err != nil {
			return
		}
	}
	return gr.skipSection("$EndNodes")
}

// readNodes4 reads nodes in v4 format, organized in entity blocks with the tags of a block
// listed before its coordinates
func (gr *gmshReader) readNodes4() (err error) {
	var (
		parts     []string
		header    []int
		numBlocks int
	)
	if parts, err = gr.nextFields("Nodes"); err != nil {
		return
	}
	if len(parts) < 4 {
		return fmt.Errorf("invalid Nodes header")
	}
	if numBlocks, err = atoi(parts[0], "Nodes header"); err != nil {
		return
	}
	for nb := 0; nb < numBlocks; nb++ {
		if parts, err = gr.nextFields("Nodes"); err != nil {
			return
		}
		if len(parts) < 4 {
			return fmt.Errorf("invalid node entity block header")
		}
		if header, err = atoiAll(parts[:4], "node entity block"); err != nil {
			return
		}
		numInBlock := header[3]
		tags := make([]int, numInBlock)
		for i := 0; i < numInBlock; i++ {
			if parts, err = gr.nextFields("Nodes"); err != nil {
				return
			}
			if tags[i], err = atoi(parts[0], "node tags"); err != nil {
				return
			}
		}
		for i := 0; i < numInBlock; i++ {
			if parts, err = gr.nextFields("Nodes"); err != nil {
				return
			}
			// Parametric coordinates may follow x y z
			if err = gr.addNode(tags[i], parts); err != nil {
				return
			}
		}
	}
	return gr.skipSection("$EndNodes")
}

func (gr *gmshReader) elementNodes(elemID int, info gmshElementInfo, nodeStrs []string) (pts []int, err error) {
	var (
		nodeTags []int
	)
	if info.NumNodes >= 0 {
		if len(nodeStrs) < info.NumNodes {
			return nil, fmt.Errorf("element %d: expected %d nodes, got %d", elemID, info.NumNodes, len(nodeStrs))
		}
		nodeStrs = nodeStrs[:info.NumNodes]
	}
	if nodeTags, err = atoiAll(nodeStrs, "element nodes"); err != nil {
		return
	}
	pts = make([]int, len(nodeTags))
	for i, tag := range nodeTags {
		var ok bool
		if pts[i], ok = gr.nodeIndex[tag]; !ok {
			return nil, fmt.Errorf("element %d: node %d not found", elemID, tag)
		}
	}
	return
}

// readElements22 reads elements in v2.2 format. Consecutive elements of the same type form one block.
func (gr *gmshReader) readElements22() (err error) {
	var (
		parts       []string
		numElements int
		block       *mesh.CellBlock
	)
	if parts, err = gr.nextFields("Elements"); err != nil {
		return
	}
	if numElements, err = atoi(parts[0], "Elements"); err != nil {
		return
	}
	for i := 0; i < numElements; i++ {
		if parts, err = gr.nextFields("Elements"); err != nil {
			return
		}
		if len(parts) < 4 {
			return fmt.Errorf("invalid element line")
		}
		var ints []int
		if ints, err = atoiAll(parts[:3], "element line"); err != nil {
			return
		}
		elemID, elemType, numTags := ints[0], ints[1], ints[2]
		if len(parts) < 3+numTags {
			return fmt.Errorf("invalid element tags")
		}
		info := elementInfo(elemType)
		var pts []int
		if pts, err = gr.elementNodes(elemID, info, parts[3+numTags:]); err != nil {
			return
		}
		if block == nil || block.Type != info.Tag {
			gr.rm.Blocks = append(gr.rm.Blocks, mesh.CellBlock{Type: info.Tag})
			block = &gr.rm.Blocks[len(gr.rm.Blocks)-1]
		}
		block.Data = append(block.Data, pts)
	}
	return gr.skipSection("$EndElements")
}

// readElements4 reads elements in v4 format, one block per element entity block
func (gr *gmshReader) readElements4() (err error) {
	var (
		parts     []string
		header    []int
		numBlocks int
	)
	if parts, err = gr.nextFields("Elements"); err != nil {
		return
	}
	if len(parts) < 4 {
		return fmt.Errorf("invalid Elements header")
	}
	if numBlocks, err = atoi(parts[0], "Elements header"); err != nil {
		return
	}
	for nb := 0; nb < numBlocks; nb++ {
		if parts, err = gr.nextFields("Elements"); err != nil {
			return
		}
		if len(parts) < 4 {
			return fmt.Errorf("invalid element entity block header")
		}
		if header, err = atoiAll(parts[:4], "element entity block"); err != nil {
			return
		}
		info := elementInfo(header[2])
		block := mesh.CellBlock{Type: info.Tag, Data: make([][]int, 0, header[3])}
		for i := 0; i < header[3]; i++ {
			if parts, err = gr.nextFields("Elements"); err != nil {
				return
			}
			var elemID int
			if elemID, err = atoi(parts[0], "element tag"); err != nil {
				return
			}
			var pts []int
			if pts, err = gr.elementNodes(elemID, info, parts[1:]); err != nil {
				return
			}
			block.Data = append(block.Data, pts)
		}
		gr.rm.Blocks = append(gr.rm.Blocks, block)
	}
	return gr.skipSection("$EndElements")
}
