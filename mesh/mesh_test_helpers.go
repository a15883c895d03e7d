package mesh

// TestMesh is a small mesh definition shared by the tests of the packages built on a Mesh
type TestMesh struct {
	Points [][]float64
	Blocks []CellBlock
}

func (tm TestMesh) Build(opts ...Option) (m *Mesh) {
	var (
		err error
	)
	if m, err = NewMesh(tm.Points, tm.Blocks, opts...); err != nil {
		panic(err)
	}
	m.ComputeAllNeighbors()
	return
}

// SquareTestMesh is the unit square with a center point, split into 4 triangles and closed by 4 lines.
// Cells 0-3 are lines, 4-7 are triangles.
func SquareTestMesh() TestMesh {
	return TestMesh{
		Points: [][]float64{
			{0, 1, 0}, {1, 1, 0}, {1, 0, 0}, {0, 0, 0}, {0.5, 0.5, 0},
		},
		Blocks: []CellBlock{
			{Type: "line", Data: [][]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}},
			{Type: "triangle", Data: [][]int{{0, 1, 4}, {1, 2, 4}, {2, 3, 4}, {3, 0, 4}}},
		},
	}
}

// SingleTriangleTestMesh is the triangle (0,0),(1,0),(0,1) as cell 0, closed by 3 lines.
// Line 1 is edge (0,0)-(1,0), line 2 is (1,0)-(0,1), line 3 is (0,1)-(0,0).
func SingleTriangleTestMesh() TestMesh {
	return TestMesh{
		Points: [][]float64{
			{0, 0, 0}, {1, 0, 0}, {0, 1, 0},
		},
		Blocks: []CellBlock{
			{Type: "triangle", Data: [][]int{{0, 1, 2}}},
			{Type: "line", Data: [][]int{{0, 1}, {1, 2}, {2, 0}}},
		},
	}
}

// StripTestMesh is a rectangle [0,nx]x[0,1] of 2*nx triangles with its boundary closed by lines
func StripTestMesh(nx int) (tm TestMesh) {
	var (
		tris, lines [][]int
	)
	// Points along the bottom are 0..nx, along the top nx+1..2nx+1
	for j := 0; j < 2; j++ {
		for i := 0; i <= nx; i++ {
			tm.Points = append(tm.Points, []float64{float64(i), float64(j), 0})
		}
	}
	bot := func(i int) int { return i }
	top := func(i int) int { return nx + 1 + i }
	for i := 0; i < nx; i++ {
		tris = append(tris, []int{bot(i), bot(i + 1), top(i + 1)}, []int{bot(i), top(i + 1), top(i)})
		lines = append(lines, []int{bot(i), bot(i + 1)}, []int{top(i + 1), top(i)})
	}
	lines = append(lines, []int{bot(nx), top(nx)}, []int{top(0), bot(0)})
	tm.Blocks = []CellBlock{
		{Type: "vertex", Data: [][]int{{0}, {nx}}},
		{Type: "line", Data: lines},
		{Type: "triangle", Data: tris},
	}
	return
}
