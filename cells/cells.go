package cells

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/oilspill/types"
)

/*
A Cell is one control volume of the mesh. Triangles carry an area and receive flux
updates, Lines close the boundary and keep the value they were initialized with.

All derived quantities are computed once, at construction, from the coordinate snapshot.
*/
type Cell struct {
	Type            types.CellType
	PointIDs        []int
	Idx             int
	Coord           [][]float64 // Snapshot of the point coordinates, 2 or 3 components each
	Midpoint        r2.Vec
	Velocity        r2.Vec
	Oil             float64
	Area            float64 // Zero for lines
	NeighborIndices []int
}

// Constructor builds one cell variant
type Constructor func(pointIDs []int, idx int, coord [][]float64, f Fields) (*Cell, error)

func NewLine(pointIDs []int, idx int, coord [][]float64, f Fields) (*Cell, error) {
	return newCell(types.CT_Line, pointIDs, idx, coord, f)
}

func NewTriangle(pointIDs []int, idx int, coord [][]float64, f Fields) (*Cell, error) {
	return newCell(types.CT_Triangle, pointIDs, idx, coord, f)
}

func newCell(ct types.CellType, pointIDs []int, idx int, coord [][]float64, f Fields) (c *Cell, err error) {
	var (
		nArity = ct.Arity()
	)
	if len(coord) != nArity {
		err = &ValidationError{Type: ct, Idx: idx,
			Reason: fmt.Sprintf("must have exactly %d coordinates, have %d", nArity, len(coord))}
		return
	}
	if len(pointIDs) != nArity {
		err = &ValidationError{Type: ct, Idx: idx,
			Reason: fmt.Sprintf("must have exactly %d point ids, have %d", nArity, len(pointIDs))}
		return
	}
	for i, x := range coord {
		if len(x) < 2 {
			err = &ValidationError{Type: ct, Idx: idx,
				Reason: fmt.Sprintf("coordinate %d has %d components, need at least 2", i, len(x))}
			return
		}
	}
	f = f.withDefaults()
	c = &Cell{
		Type:     ct,
		PointIDs: append([]int(nil), pointIDs...),
		Idx:      idx,
		Coord:    make([][]float64, nArity),
	}
	for i, x := range coord {
		c.Coord[i] = append([]float64(nil), x...)
	}
	c.Midpoint = c.computeMidpoint()
	c.Velocity = f.Velocity(c.Midpoint)
	c.Oil = f.Oil(c.Midpoint)
	if ct == types.CT_Triangle {
		c.Area = c.computeArea()
	}
	return
}

func (c *Cell) computeMidpoint() (m r2.Vec) {
	for _, x := range c.Coord {
		m.X += x[0]
		m.Y += x[1]
	}
	m = r2.Scale(1./float64(len(c.Coord)), m)
	return
}

func (c *Cell) computeArea() float64 {
	var (
		p1, p2, p3 = c.Coord[0], c.Coord[1], c.Coord[2]
	)
	return 0.5 * math.Abs(p1[0]*(p2[1]-p3[1])+p2[0]*(p3[1]-p1[1])+p3[0]*(p1[1]-p2[1]))
}

func (c *Cell) IsTriangle() bool { return c.Type == types.CT_Triangle }
func (c *Cell) IsLine() bool     { return c.Type == types.CT_Line }

// Point2D returns the x,y location of the i-th vertex
func (c *Cell) Point2D(i int) r2.Vec {
	return r2.Vec{X: c.Coord[i][0], Y: c.Coord[i][1]}
}

// ComputeNeighbor sets the neighbors of the cell to every other line or triangle sharing exactly
// two point ids with it. The neighbor list is rebuilt on each call.
func (c *Cell) ComputeNeighbor(allCells []*Cell) []int {
	c.NeighborIndices = make([]int, 0, c.Type.Arity())
	for _, cell := range allCells {
		if cell.Idx == c.Idx {
			continue
		}
		if !(cell.IsTriangle() || cell.IsLine()) {
			continue
		}
		if len(types.SharedPoints(c.PointIDs, cell.PointIDs)) == 2 {
			c.NeighborIndices = append(c.NeighborIndices, cell.Idx)
		}
	}
	return c.NeighborIndices
}

func (c *Cell) String() string {
	return fmt.Sprintf("%s%d has neighbors with indices: %v", c.Type, c.Idx, c.NeighborIndices)
}
