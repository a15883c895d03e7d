package OilSpill2D

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/oilspill/cells"
	"github.com/notargets/oilspill/mesh"
)

const tol = 1.e-12

func TestNewSimulation(t *testing.T) {
	{ // Bad inputs
		m := mesh.SquareTestMesh().Build()
		_, err := NewSimulation(m, 0, 1, 0)
		assert.Error(t, err)
		_, err = NewSimulation(m, 0, 1, -3)
		assert.Error(t, err)
		_, err = NewSimulation(nil, 0, 1, 3)
		assert.Error(t, err)
	}
	{ // Initial state
		tm := mesh.SquareTestMesh()
		m, err := mesh.NewMesh(tm.Points, tm.Blocks)
		require.NoError(t, err)
		assert.False(t, m.NeighborsComputed())
		sim, err := NewSimulation(m, 0.5, 1.5, 4)
		require.NoError(t, err)
		assert.True(t, m.NeighborsComputed())
		assert.InDelta(t, 0.25, sim.Dt, tol)
		assert.Equal(t, 1, len(sim.History))
		assert.Equal(t, 0, sim.StepsCompleted())
		assert.InDelta(t, 0.5, sim.Time(), tol)
		assert.False(t, sim.Completed())
		for _, c := range m.Cells() {
			assert.Equal(t, c.Oil, sim.History[0][c.Idx])
		}
		assert.Equal(t, sim.History[0], sim.Field())
	}
	{ // The in place sweep is serial
		m := mesh.StripTestMesh(4).Build()
		sim, err := NewSimulation(m, 0, 1, 4, WithOrdering(InPlaceSweep), WithParallelDegree(4))
		require.NoError(t, err)
		assert.Equal(t, 1, sim.Partitions.ParallelDegree)
		sim, err = NewSimulation(m, 0, 1, 4, WithParallelDegree(4))
		require.NoError(t, err)
		assert.Equal(t, 4, sim.Partitions.ParallelDegree)
	}
}

func TestGeometry(t *testing.T) {
	m := mesh.SingleTriangleTestMesh().Build()
	sim, err := NewSimulation(m, 0, 0.5, 1)
	require.NoError(t, err)
	tri := m.Cell(0)
	assert.Equal(t, []int{1, 2, 3}, tri.NeighborIndices)
	{ // Scaled outward normals, magnitude is the edge length
		expected := []r2.Vec{{X: 0, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 0}}
		for i, nIdx := range tri.NeighborIndices {
			n, err := sim.ComputeScaledNormal(tri, nIdx)
			require.NoError(t, err)
			assert.InDelta(t, expected[i].X, n.X, tol)
			assert.InDelta(t, expected[i].Y, n.Y, tol)
		}
	}
	{ // Average velocities
		expected := []r2.Vec{{X: 1. / 12, Y: -5. / 12}, {X: 1. / 3, Y: -5. / 12}, {X: 23. / 60, Y: -1. / 6}}
		for i, nIdx := range tri.NeighborIndices {
			v := sim.ComputeAverageVelocity(tri, nIdx)
			assert.InDelta(t, expected[i].X, v.X, tol)
			assert.InDelta(t, expected[i].Y, v.Y, tol)
		}
	}
	{ // A line midpoint lies on its edge, so the candidate normal (dy,-dx) is kept
		line := m.Cell(2)
		n, err := sim.ComputeScaledNormal(line, 0)
		require.NoError(t, err)
		assert.InDelta(t, 1, n.X, tol)
		assert.InDelta(t, 1, n.Y, tol)
	}
}

func TestSingleTriangleStep(t *testing.T) {
	var (
		oilT  = math.Exp(-(math.Pow(1./3-0.35, 2) + math.Pow(1./3-0.45, 2)) / 0.01)
		oilL1 = math.Exp(-22.5)
		oilL2 = math.Exp(-2.5)
		oilL3 = math.Exp(-12.5)
		// dt/area = 1
		expected = oilT*(1-5./12) + oilL2/12 + oilL3*23./60
	)
	for _, uo := range []UpdateOrdering{SnapshotSweep, InPlaceSweep} {
		m := mesh.SingleTriangleTestMesh().Build()
		sim, err := NewSimulation(m, 0, 0.5, 1, WithOrdering(uo))
		require.NoError(t, err)
		assert.InDelta(t, oilT, sim.History[0][0], tol)
		assert.InDelta(t, oilL1, sim.History[0][1], tol)
		require.NoError(t, sim.Solve())
		require.Equal(t, 2, len(sim.History))
		assert.True(t, sim.Completed())
		assert.InDelta(t, expected, sim.History[1][0], tol)
		// Lines are frozen
		for idx := 1; idx < 4; idx++ {
			assert.Equal(t, sim.History[0][idx], sim.History[1][idx])
		}
		// Initial snapshot is not aliased by the step
		assert.InDelta(t, oilT, sim.History[0][0], tol)
	}
}

func TestSolve(t *testing.T) {
	var (
		numSteps = 5
	)
	m := mesh.StripTestMesh(6).Build()
	sim, err := NewSimulation(m, 0, 0.01, numSteps)
	require.NoError(t, err)
	require.NoError(t, sim.Solve())
	assert.Equal(t, numSteps+1, len(sim.History))
	assert.InDelta(t, 0.01, sim.Time(), tol)
	for _, c := range m.Cells() {
		assert.Equal(t, c.Oil, sim.History[0][c.Idx])
		if c.IsLine() {
			assert.Equal(t, c.Oil, sim.History[numSteps][c.Idx])
		}
	}
	for _, f := range sim.History {
		for _, v := range f {
			assert.False(t, math.IsNaN(v))
		}
	}
	assert.Equal(t, sim.History[numSteps], sim.Field())
	// Solving again has nothing left to do
	require.NoError(t, sim.Solve())
	assert.Equal(t, numSteps+1, len(sim.History))
}

func TestOrderings(t *testing.T) {
	var (
		run = func(opts ...Option) *Simulation {
			m := mesh.StripTestMesh(8).Build()
			sim, err := NewSimulation(m, 0, 0.02, 4, opts...)
			require.NoError(t, err)
			require.NoError(t, sim.Solve())
			return sim
		}
	)
	{ // Parallel snapshot sweep matches the serial one
		serial := run()
		for _, np := range []int{2, 3, 5, 0} {
			parallel := run(WithParallelDegree(np))
			assert.Equal(t, serial.History, parallel.History)
		}
	}
	{ // The first triangle visited only reads pre step values in both orderings
		snap := run(WithOrdering(SnapshotSweep))
		inPlace := run(WithOrdering(InPlaceSweep))
		first := snap.triangles[0].Idx
		assert.Equal(t, snap.History[1][first], inPlace.History[1][first])
	}
	{ // The second triangle sees the updated first triangle only in the in place sweep
		// Unit square split along (1,0)-(0,1), uniform flow in x, oil only inside triangle 0.
		// With dt/area = 1, triangle 0 empties through the diagonal (flux 1) and its inflow
		// boundaries carry no oil, so it steps to 0. Triangle 1 only receives from triangle 0.
		tm := mesh.TestMesh{
			Points: [][]float64{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
			Blocks: []mesh.CellBlock{
				{Type: "triangle", Data: [][]int{{0, 1, 3}, {1, 2, 3}}},
				{Type: "line", Data: [][]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}},
			},
		}
		fields := cells.Fields{
			Velocity: func(r2.Vec) r2.Vec { return r2.Vec{X: 1} },
			Oil: func(p r2.Vec) float64 {
				if p.X > 0 && p.Y > 0 && p.X+p.Y < 1 {
					return 1
				}
				return 0
			},
		}
		step := func(uo UpdateOrdering) ScalarField {
			sim, err := NewSimulation(tm.Build(mesh.WithFields(fields)), 0, 0.5, 1, WithOrdering(uo))
			require.NoError(t, err)
			require.NoError(t, sim.Solve())
			assert.Equal(t, ScalarField{1, 0, 0, 0, 0, 0}, sim.History[0])
			return sim.History[1]
		}
		snap, inPlace := step(SnapshotSweep), step(InPlaceSweep)
		assert.InDelta(t, 0, snap[0], tol)
		assert.InDelta(t, 1, snap[1], tol)
		assert.InDelta(t, 0, inPlace[0], tol)
		assert.InDelta(t, 0, inPlace[1], tol)
	}
}

func TestDegenerateGeometry(t *testing.T) {
	{ // Zero area triangle aborts the run, the initial history is kept
		tm := mesh.TestMesh{
			Points: [][]float64{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}},
			Blocks: []mesh.CellBlock{{Type: "triangle", Data: [][]int{{0, 1, 2}}}},
		}
		sim, err := NewSimulation(tm.Build(), 0, 1, 3)
		require.NoError(t, err)
		err = sim.Solve()
		require.Error(t, err)
		var dge *cells.DegenerateGeometryError
		require.True(t, errors.As(err, &dge))
		assert.Equal(t, 0, dge.Cell)
		assert.Equal(t, -1, dge.Neighbor)
		assert.Equal(t, 1, len(sim.History))
		assert.Contains(t, err.Error(), "step 1")
	}
	{ // A normal between cells that don't share an edge
		m := mesh.SquareTestMesh().Build()
		sim, err := NewSimulation(m, 0, 1, 1)
		require.NoError(t, err)
		_, err = sim.ComputeScaledNormal(m.Cell(4), 6)
		var dge *cells.DegenerateGeometryError
		require.True(t, errors.As(err, &dge))
		assert.Equal(t, 1, dge.Shared)
		assert.Equal(t, 6, dge.Neighbor)
	}
	{ // Neighbor indices outside the mesh
		m := mesh.SquareTestMesh().Build()
		sim, err := NewSimulation(m, 0, 1, 1)
		require.NoError(t, err)
		tri := m.Cell(4)
		for _, nIdx := range []int{-1, 8, 100} {
			_, err = sim.ComputeScaledNormal(tri, nIdx)
			var dge *cells.DegenerateGeometryError
			require.True(t, errors.As(err, &dge))
			assert.Equal(t, nIdx, dge.Neighbor)
			assert.Equal(t, 0, dge.Shared)
			assert.Equal(t, tri.Velocity, sim.ComputeAverageVelocity(tri, nIdx))
		}
		tri.NeighborIndices = append(tri.NeighborIndices, 8)
		_, err = sim.CellFlux(tri, sim.Field())
		assert.Error(t, err)
	}
	{ // Zero length shared edge
		tm := mesh.TestMesh{
			Points: [][]float64{{0, 0, 0}, {0, 0, 0}, {1, 1, 0}},
			Blocks: []mesh.CellBlock{
				{Type: "triangle", Data: [][]int{{0, 1, 2}}},
				{Type: "line", Data: [][]int{{0, 1}}},
			},
		}
		m := tm.Build()
		sim, err := NewSimulation(m, 0, 1, 1)
		require.NoError(t, err)
		_, err = sim.ComputeScaledNormal(m.Cell(0), 1)
		var dge *cells.DegenerateGeometryError
		require.True(t, errors.As(err, &dge))
		assert.Equal(t, 2, dge.Shared)
	}
}

func TestRestart(t *testing.T) {
	var (
		numSteps = 6
	)
	m := mesh.StripTestMesh(4).Build()
	full, err := NewSimulation(m, 0, 0.03, numSteps)
	require.NoError(t, err)
	require.NoError(t, full.Solve())

	sim, err := NewSimulation(m, 0, 0.03, numSteps)
	require.NoError(t, err)
	require.NoError(t, sim.Restart(full.History, 2))
	assert.Equal(t, 2, sim.StepsCompleted())
	assert.Equal(t, 3, len(sim.History))
	assert.Equal(t, full.History[2], sim.Field())
	require.NoError(t, sim.Solve())
	assert.Equal(t, full.History, sim.History)

	{ // Bad restarts
		assert.Error(t, sim.Restart(full.History, -1))
		assert.Error(t, sim.Restart(full.History, numSteps+1))
		short := []ScalarField{{1, 2, 3}}
		err = sim.Restart(short, 0)
		var ve *cells.ValidationError
		assert.True(t, errors.As(err, &ve))
	}
}

func TestNewUpdateOrdering(t *testing.T) {
	for label, expected := range map[string]UpdateOrdering{
		"":          SnapshotSweep,
		"Snapshot":  SnapshotSweep,
		" inplace ": InPlaceSweep,
		"In-Place":  InPlaceSweep,
	} {
		uo, err := NewUpdateOrdering(label)
		require.NoError(t, err)
		assert.Equal(t, expected, uo)
	}
	_, err := NewUpdateOrdering("sideways")
	assert.Error(t, err)
	assert.Equal(t, "Snapshot Sweep", SnapshotSweep.Print())
	assert.Equal(t, "In Place Sweep", InPlaceSweep.Print())
}

func BenchmarkStep(b *testing.B) {
	for _, np := range []int{1, 4} {
		m := mesh.StripTestMesh(500).Build()
		sim, err := NewSimulation(m, 0, 1.e-4, b.N+1, WithParallelDegree(np))
		if err != nil {
			b.Fatal(err)
		}
		b.ResetTimer()
		for n := 0; n < b.N; n++ {
			if err = sim.Step(); err != nil {
				b.Fatal(err)
			}
		}
	}
}
