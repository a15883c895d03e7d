package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/oilspill/cells"
	"github.com/notargets/oilspill/types"
)

// CellBlock is a group of cells of one type as delivered by a mesh reader, each entry of
// Data is the list of point indices of one cell
type CellBlock struct {
	Type string
	Data [][]int
}

// Mesh owns the points and the ordered cell list of an unstructured 2D mesh.
// Cell Idx values equal their position in the cell list.
type Mesh struct {
	points            [][]float64
	cells             []*cells.Cell
	neighborsComputed bool

	// Mesh statistics
	NumLines     int
	NumTriangles int
	NumSkipped   int // Cells in blocks with unregistered tags
}

type meshOptions struct {
	registry *cells.Registry
	fields   cells.Fields
}

type Option func(*meshOptions)

// WithRegistry replaces the default line/triangle registry
func WithRegistry(r *cells.Registry) Option {
	return func(o *meshOptions) { o.registry = r }
}

// WithFields sets the velocity and initial oil fields sampled by every cell
func WithFields(f cells.Fields) Option {
	return func(o *meshOptions) { o.fields = f }
}

// NewMesh builds the cells found in blocks, in block order and then in order within each block.
// Blocks with a tag unknown to the registry are skipped. Any cell that fails construction
// aborts the build.
func NewMesh(points [][]float64, blocks []CellBlock, opts ...Option) (m *Mesh, err error) {
	var (
		o = &meshOptions{
			registry: cells.NewRegistry(),
			fields:   cells.DefaultFields(),
		}
		idx int
	)
	for _, opt := range opts {
		opt(o)
	}
	mm := &Mesh{
		points: make([][]float64, len(points)),
	}
	for i, x := range points {
		mm.points[i] = append([]float64(nil), x...)
	}
	for nb, block := range blocks {
		if !o.registry.Has(block.Type) {
			mm.NumSkipped += len(block.Data)
			continue
		}
		for _, pts := range block.Data {
			coord := make([][]float64, len(pts))
			for i, pid := range pts {
				if pid < 0 || pid >= len(mm.points) {
					err = &cells.ValidationError{Type: types.NewCellType(block.Type), Idx: idx,
						Reason: fmt.Sprintf("point id %d out of range [0,%d)", pid, len(mm.points))}
					return nil, fmt.Errorf("block %d [%s]: %w", nb, block.Type, err)
				}
				coord[i] = mm.points[pid]
			}
			var c *cells.Cell
			if c, err = o.registry.New(block.Type, pts, idx, coord, o.fields); err != nil {
				return nil, fmt.Errorf("block %d [%s]: %w", nb, block.Type, err)
			}
			switch {
			case c.IsTriangle():
				mm.NumTriangles++
			case c.IsLine():
				mm.NumLines++
			}
			mm.cells = append(mm.cells, c)
			idx++
		}
	}
	m = mm
	return
}

func (m *Mesh) Cells() []*cells.Cell { return m.cells }
func (m *Mesh) NumCells() int        { return len(m.cells) }
func (m *Mesh) NumPoints() int       { return len(m.points) }
func (m *Mesh) Points() [][]float64  { return m.points }

// Cell returns nil for an out of range idx
func (m *Mesh) Cell(idx int) *cells.Cell {
	if idx < 0 || idx >= len(m.cells) {
		return nil
	}
	return m.cells[idx]
}

func (m *Mesh) Point(id int) []float64 { return m.points[id] }

func (m *Mesh) Point2D(id int) r2.Vec {
	return r2.Vec{X: m.points[id][0], Y: m.points[id][1]}
}

// ComputeAllNeighbors replaces each cell's neighbor list with a freshly computed one
func (m *Mesh) ComputeAllNeighbors() {
	nbrs := Adjacency(m.cells, len(m.points))
	for k, c := range m.cells {
		c.NeighborIndices = nbrs[k]
	}
	m.neighborsComputed = true
}

func (m *Mesh) NeighborsComputed() bool { return m.neighborsComputed }

// Triangles returns the point id triple of every triangle cell, in cell order, along with the cell indices
func (m *Mesh) Triangles() (tris [][3]int, idx []int) {
	tris = make([][3]int, 0, m.NumTriangles)
	idx = make([]int, 0, m.NumTriangles)
	for _, c := range m.cells {
		if !c.IsTriangle() {
			continue
		}
		tris = append(tris, [3]int{c.PointIDs[0], c.PointIDs[1], c.PointIDs[2]})
		idx = append(idx, c.Idx)
	}
	return
}

// Edges maps every cell edge to the cells that contain it
func (m *Mesh) Edges() (edges map[types.EdgeKey][]int) {
	edges = make(map[types.EdgeKey][]int)
	for _, c := range m.cells {
		for _, ek := range types.CellEdges(c.PointIDs) {
			edges[ek] = append(edges[ek], c.Idx)
		}
	}
	return
}

// OpenEdges are triangle edges shared with no other cell, the mesh is closed when there are none
func (m *Mesh) OpenEdges() (open types.EdgeKeySlice) {
	for ek, cs := range m.Edges() {
		if len(cs) == 1 && m.cells[cs[0]].IsTriangle() {
			open = append(open, ek)
		}
	}
	open.Sort()
	return
}

func (m *Mesh) BoundingBox() (min, max r2.Vec) {
	for i := range m.points {
		p := m.Point2D(i)
		if i == 0 {
			min, max = p, p
			continue
		}
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return
}

func (m *Mesh) PrintStatistics() {
	min, max := m.BoundingBox()
	fmt.Printf("Mesh Statistics:\n")
	fmt.Printf("  Points: %d\n", m.NumPoints())
	fmt.Printf("  Cells: %d\n", m.NumCells())
	fmt.Printf("  Triangles: %d\n", m.NumTriangles)
	fmt.Printf("  Lines: %d\n", m.NumLines)
	if m.NumSkipped != 0 {
		fmt.Printf("  Skipped (unregistered type): %d\n", m.NumSkipped)
	}
	fmt.Printf("  Bounds: [%8.5f,%8.5f] x [%8.5f,%8.5f]\n", min.X, max.X, min.Y, max.Y)
	if nOpen := len(m.OpenEdges()); nOpen != 0 {
		fmt.Printf("  Open triangle edges: %d\n", nOpen)
	}
}
