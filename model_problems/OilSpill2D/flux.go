package OilSpill2D

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/oilspill/cells"
	"github.com/notargets/oilspill/types"
)

// ComputeAverageVelocity returns the mean of the cell and neighbor velocities.
// A neighbor index outside the mesh returns the cell's own velocity.
func (sim *Simulation) ComputeAverageVelocity(cell *cells.Cell, neighborIdx int) (v r2.Vec) {
	nbr := sim.mesh.Cell(neighborIdx)
	if nbr == nil {
		return cell.Velocity
	}
	v = r2.Scale(0.5, r2.Add(cell.Velocity, nbr.Velocity))
	return
}

/*
ComputeScaledNormal returns the normal of the edge shared by cell and neighbor, pointing out of cell,
with a magnitude equal to the edge length.

	Given the shared points p0, p1, the edge vector is e = p1 - p0 and the candidate normal is (e.y, -e.x).
	The candidate is flipped when it points back toward the cell midpoint, tested against the vector from
	the cell midpoint to the edge midpoint.
*/
func (sim *Simulation) ComputeScaledNormal(cell *cells.Cell, neighborIdx int) (n r2.Vec, err error) {
	nbr := sim.mesh.Cell(neighborIdx)
	if nbr == nil {
		err = &cells.DegenerateGeometryError{Cell: cell.Idx, Neighbor: neighborIdx, Shared: 0,
			Reason: fmt.Sprintf("neighbor %d is not a cell of the mesh", neighborIdx)}
		return
	}
	shared := types.SharedPoints(cell.PointIDs, nbr.PointIDs)
	if len(shared) != 2 {
		err = &cells.DegenerateGeometryError{Cell: cell.Idx, Neighbor: neighborIdx, Shared: len(shared),
			Reason: fmt.Sprintf("cells share %d points, an edge needs 2", len(shared))}
		return
	}
	var (
		p0, p1  = sim.mesh.Point2D(shared[0]), sim.mesh.Point2D(shared[1])
		edge    = r2.Sub(p1, p0)
		length  = r2.Norm(edge)
		edgeMid = r2.Scale(0.5, r2.Add(p0, p1))
	)
	if length == 0 {
		err = &cells.DegenerateGeometryError{Cell: cell.Idx, Neighbor: neighborIdx, Shared: 2,
			Reason: "shared edge has zero length"}
		return
	}
	n = r2.Unit(r2.Vec{X: edge.Y, Y: -edge.X})
	if r2.Dot(r2.Sub(edgeMid, cell.Midpoint), n) < 0 {
		n = r2.Scale(-1, n)
	}
	n = r2.Scale(length, n)
	return
}

// CellFlux totals the upwind flux contributions of all neighbors of a triangle, reading values from field
func (sim *Simulation) CellFlux(cell *cells.Cell, field ScalarField) (total float64, err error) {
	if cell.Area == 0 {
		err = &cells.DegenerateGeometryError{Cell: cell.Idx, Neighbor: -1, Shared: -1,
			Reason: "triangle has zero area"}
		return
	}
	var (
		scale = sim.Dt / cell.Area
	)
	for _, nIdx := range cell.NeighborIndices {
		var (
			n r2.Vec
			g float64
		)
		if n, err = sim.ComputeScaledNormal(cell, nIdx); err != nil {
			return
		}
		d := r2.Dot(sim.ComputeAverageVelocity(cell, nIdx), n)
		if d > 0 {
			g = field[cell.Idx] * d
		} else {
			g = field[nIdx] * d
		}
		total -= scale * g
	}
	return
}
