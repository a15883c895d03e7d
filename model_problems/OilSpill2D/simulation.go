package OilSpill2D

import (
	"fmt"
	"time"

	"github.com/notargets/oilspill/cells"
	"github.com/notargets/oilspill/mesh"
	"github.com/notargets/oilspill/utils"
)

// ScalarField holds one value per cell, indexed by cell Idx
type ScalarField []float64

func (sf ScalarField) Copy() (c ScalarField) {
	c = make(ScalarField, len(sf))
	copy(c, sf)
	return
}

/*
A Simulation advances the oil field over a mesh with an explicit first order upwind scheme.
Only triangles are updated, lines keep their initial value and act as the boundary.

	History[0] is the initial field, each step appends one snapshot.
*/
type Simulation struct {
	TStart, TEnd   float64
	Dt             float64
	NumSteps       int
	Ordering       UpdateOrdering
	ParallelDegree int
	Partitions     *utils.PartitionMap // Partitions the triangle list
	Verbose        bool
	History        []ScalarField

	mesh      *mesh.Mesh
	field     ScalarField
	triangles []*cells.Cell
}

type Option func(sim *Simulation)

func WithOrdering(uo UpdateOrdering) Option {
	return func(sim *Simulation) { sim.Ordering = uo }
}

// WithParallelDegree sets the number of go routines for the snapshot sweep, zero uses one per CPU
func WithParallelDegree(ProcLimit int) Option {
	return func(sim *Simulation) { sim.ParallelDegree = ProcLimit }
}

func WithVerbose(verbose bool) Option {
	return func(sim *Simulation) { sim.Verbose = verbose }
}

// NewSimulation binds the mesh and initializes the field from the oil value of every cell.
// Neighbors are computed if the mesh does not have them yet.
func NewSimulation(m *mesh.Mesh, tStart, tEnd float64, numSteps int, opts ...Option) (sim *Simulation, err error) {
	if m == nil {
		return nil, fmt.Errorf("simulation needs a mesh")
	}
	if numSteps <= 0 {
		return nil, fmt.Errorf("number of steps must be positive, have %d", numSteps)
	}
	sim = &Simulation{
		TStart:         tStart,
		TEnd:           tEnd,
		NumSteps:       numSteps,
		Dt:             (tEnd - tStart) / float64(numSteps),
		ParallelDegree: 1,
		mesh:           m,
	}
	for _, opt := range opts {
		opt(sim)
	}
	if !m.NeighborsComputed() {
		m.ComputeAllNeighbors()
	}
	for _, c := range m.Cells() {
		if c.IsTriangle() {
			sim.triangles = append(sim.triangles, c)
		}
	}
	sim.SetParallelDegree(sim.ParallelDegree, len(sim.triangles))

	sim.field = make(ScalarField, m.NumCells())
	for _, c := range m.Cells() {
		sim.field[c.Idx] = c.Oil
	}
	sim.History = []ScalarField{sim.field.Copy()}

	if sim.Verbose {
		fmt.Printf("Oil Spill Transport in 2 Dimensions\n")
		fmt.Printf("Cells: %d Triangles, %d Lines\n", m.NumTriangles, m.NumLines)
		fmt.Printf("Using %d go routines in parallel\n", sim.Partitions.ParallelDegree)
		fmt.Printf("Update Ordering: %s\n", sim.Ordering.Print())
		fmt.Printf("tStart = %8.5f, tEnd = %8.5f, Num Steps = %d, dt = %8.5f\n\n", tStart, tEnd, numSteps, sim.Dt)
	}
	return
}

// SetParallelDegree partitions the triangles, the in place sweep is always serial
func (sim *Simulation) SetParallelDegree(ProcLimit, Kmax int) {
	if sim.Ordering == InPlaceSweep {
		ProcLimit = 1
	}
	sim.ParallelDegree = utils.LimitParallelDegree(ProcLimit, Kmax)
	sim.Partitions = utils.NewPartitionMap(sim.ParallelDegree, Kmax)
}

func (sim *Simulation) Mesh() *mesh.Mesh { return sim.mesh }

// Field returns a copy of the current field
func (sim *Simulation) Field() ScalarField { return sim.field.Copy() }

// StepsCompleted counts the snapshots after the initial one
func (sim *Simulation) StepsCompleted() int { return len(sim.History) - 1 }

// Time is the simulated time of the current field
func (sim *Simulation) Time() float64 {
	return sim.TStart + float64(sim.StepsCompleted())*sim.Dt
}

func (sim *Simulation) Completed() bool { return sim.StepsCompleted() >= sim.NumSteps }

// Step advances the field by one time step and appends it to the history. On error the
// current field and the history are left as they were before the step.
func (sim *Simulation) Step() (err error) {
	var (
		next ScalarField
	)
	switch sim.Ordering {
	case InPlaceSweep:
		next, err = sim.inPlaceSweep()
	default:
		next, err = sim.snapshotSweep()
	}
	if err != nil {
		return
	}
	sim.field = next
	sim.History = append(sim.History, next.Copy())
	return
}

func (sim *Simulation) snapshotSweep() (next ScalarField, err error) {
	var (
		snapshot = sim.field
		totals   = make([]float64, len(sim.triangles))
	)
	err = sim.Partitions.ForEachBucket(func(np, kMin, kMax int) (err error) {
		for k := kMin; k < kMax; k++ {
			if totals[k], err = sim.CellFlux(sim.triangles[k], snapshot); err != nil {
				return
			}
		}
		return
	})
	if err != nil {
		return
	}
	next = snapshot.Copy()
	for k, c := range sim.triangles {
		next[c.Idx] += totals[k]
	}
	return
}

func (sim *Simulation) inPlaceSweep() (next ScalarField, err error) {
	var (
		total float64
	)
	next = sim.field.Copy()
	for _, c := range sim.triangles {
		if total, err = sim.CellFlux(c, next); err != nil {
			return nil, err
		}
		next[c.Idx] += total
	}
	return
}

// Solve runs the remaining steps. A failing step stops the run, the history appended so
// far is kept.
func (sim *Simulation) Solve() (err error) {
	var (
		elapsed time.Duration
		start   time.Time
		steps   int
	)
	if sim.Verbose {
		sim.PrintInitialization()
	}
	for !sim.Completed() {
		start = time.Now()
		if err = sim.Step(); err != nil {
			return fmt.Errorf("step %d: %w", sim.StepsCompleted()+1, err)
		}
		elapsed += time.Since(start)
		steps++
		if sim.Verbose && (steps == 1 || sim.Completed() || sim.StepsCompleted()%100 == 0) {
			sim.PrintUpdate()
		}
	}
	if sim.Verbose {
		sim.PrintFinal(elapsed, steps)
	}
	return
}

// Restart resumes from a stored history at the given step. The history past step is
// discarded and Solve runs the steps that remain.
func (sim *Simulation) Restart(history []ScalarField, step int) (err error) {
	if step < 0 || step >= len(history) {
		return fmt.Errorf("restart step %d is outside of the stored history [0,%d]", step, len(history)-1)
	}
	if step > sim.NumSteps {
		return fmt.Errorf("restart step %d is past the final step %d", step, sim.NumSteps)
	}
	for i, f := range history[:step+1] {
		if len(f) != sim.mesh.NumCells() {
			return &cells.ValidationError{Idx: i,
				Reason: fmt.Sprintf("stored field %d has %d values, mesh has %d cells", i, len(f), sim.mesh.NumCells())}
		}
	}
	sim.History = make([]ScalarField, step+1)
	for i, f := range history[:step+1] {
		sim.History[i] = f.Copy()
	}
	sim.field = history[step].Copy()
	return
}
