package readfiles

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSU2(t *testing.T) {
	{ // Test read elements, vertices and markers
		rm, err := ReadSU2(bytes.NewReader(inputFile))
		require.NoError(t, err)
		assert.Equal(t, 18, len(rm.Points))
		assert.Equal(t, []float64{-7.100939331382065, 2.889910324036197, 0}, rm.Points[17])
		require.Equal(t, 5, len(rm.Blocks))
		assert.Equal(t, "triangle", rm.Blocks[0].Type)
		assert.Equal(t, 22, len(rm.Blocks[0].Data))
		assert.Equal(t, []int{15, 11, 17}, rm.Blocks[0].Data[21])
		assert.Equal(t, []string{"periodic-left", "periodic-right", "top", "bottom"}, rm.MarkerNames)
		nptsBC := []int{2, 2, 4, 4}
		for n, b := range rm.Blocks[1:] {
			assert.Equal(t, "line", b.Type)
			assert.Equal(t, nptsBC[n], len(b.Data))
		}
		assert.Equal(t, []int{6, 1}, rm.Blocks[4].Data[3])
	}
	{ // Test building the mesh, the markers close the boundary
		rm, err := ReadSU2(bytes.NewReader(inputFile))
		require.NoError(t, err)
		m, err := rm.NewMesh()
		require.NoError(t, err)
		assert.Equal(t, 22, m.NumTriangles)
		assert.Equal(t, 12, m.NumLines)
		assert.Nil(t, m.OpenEdges())
		m.ComputeAllNeighbors()
		assert.Equal(t, []int{2, 4, 32}, m.Cell(0).NeighborIndices)
		assert.Equal(t, []int{11, 21, 22}, m.Cell(10).NeighborIndices)
	}
	{ // Test through the file reader
		fileName := filepath.Join(t.TempDir(), "mesh.su2")
		require.NoError(t, os.WriteFile(fileName, inputFile, 0644))
		rm, err := ReadMeshFile(fileName)
		require.NoError(t, err)
		assert.Equal(t, 18, len(rm.Points))
	}
}

func TestReadSU2Errors(t *testing.T) {
	for _, edit := range [][2]string{
		{"NDIME= 2", "NDIME= 3"},
		{"NELEM= 22", "NELEMS= 22"},
		{"5 15 11 17 21", "9 15 11 17 21"},
		{"5 15 11 17 21", "5 15 11 19 21"},
		{"\n3 6 1\n", "\n5 6 1\n"},
		{"MARKER_TAG= bottom", "MARKER_TAG= top"},
		{"NPOIN= 18", "NPOIN= 19"},
	} {
		input := strings.Replace(string(inputFile), edit[0], edit[1], 1)
		_, err := ReadSU2(strings.NewReader(input))
		assert.Error(t, err, edit[1])
	}
}

var (
	inputFile = []byte(` %This is an example input file in SU2 format, output from gmsh
% Comments can appear outside of data areas
NDIME= 2
% Comments can appear outside of data areas
NELEM= 22
5 5 6 13 0
5 9 10 12 1
5 12 5 13 2
5 9 12 13 3
5 13 6 14 4
5 12 10 15 5
5 8 9 13 6
5 4 5 12 7
5 1 7 14 8
5 6 1 14 9
5 3 11 15 10
5 10 3 15 11
5 8 13 16 12
5 4 12 17 13
5 13 14 16 14
5 12 15 17 15
5 7 2 16 16
5 11 0 17 17
5 2 8 16 18
5 0 4 17 19
5 14 7 16 20
5 15 11 17 21
% Comments can appear outside of data areas
NPOIN= 18
-10 0 0
10 0 1
10 10 2
-10 10 3
-5.000000000004944 0 4
-1.231725832440134e-11 0 5
4.99999999999384 0 6
10 4.999999999992398 7
5.000000000004944 10 8
1.231725832440134e-11 10 9
-4.99999999999384 10 10
-10 5 11
-2.500000000008632 4.330127018915808 12
2.50000000000863 5.669872981084192 13
6.712741669205853 3.668411415814691 14
-6.712741669205681 6.331588584184096 15
7.100939331384343 7.110089675963254 16
-7.100939331382065 2.889910324036197 17
NMARK= 4
% Comments can appear outside of data areas
MARKER_TAG= periodic-left
% Comments can appear outside of data areas
MARKER_ELEMS= 2
3 3 11
3 11 0
% Comments can appear outside of data areas
MARKER_TAG= periodic-right
MARKER_ELEMS= 2
3 1 7
3 7 2
% Comments can appear outside of data areas
MARKER_TAG= top
MARKER_ELEMS= 4
3 2 8
3 8 9
3 9 10
3 10 3
MARKER_TAG= bottom
% Comments can appear outside of data areas
MARKER_ELEMS= 4
3 0 4
3 4 5
3 5 6
3 6 1
% Comments can appear outside of data areas
`)
)
