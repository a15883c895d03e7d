package mesh

import (
	"sort"

	"github.com/james-bowman/sparse"

	"github.com/notargets/oilspill/cells"
)

/*
Adjacency finds, for every cell, the line and triangle cells that share exactly two points with it.

A sparse cell to point incidence matrix CToP is formed, then CToC = CToP * Transpose(CToP) holds the
count of shared points between every pair of cells. Off diagonal entries equal to 2 are shared edges.
The result is a fresh neighbor list per cell, sorted by idx; cells must be indexed by position.
*/
func Adjacency(cs []*cells.Cell, nPoints int) (nbrs [][]int) {
	var (
		K = len(cs)
	)
	nbrs = make([][]int, K)
	if K == 0 || nPoints == 0 {
		return
	}
	SpCToP_Tmp := sparse.NewDOK(K, nPoints)
	for k, c := range cs {
		if !(c.IsLine() || c.IsTriangle()) {
			continue
		}
		for _, pid := range c.PointIDs {
			SpCToP_Tmp.Set(k, pid, 1)
		}
	}
	SpCToP := SpCToP_Tmp.ToCSR()
	SpCToC := sparse.NewCSR(K, K, nil, nil, nil)
	SpCToC.Mul(SpCToP, SpCToP.T())
	SpCToC.DoNonZero(func(i, j int, v float64) {
		if i != j && v == 2 {
			nbrs[i] = append(nbrs[i], j)
		}
	})
	for k := range nbrs {
		sort.Ints(nbrs[k])
	}
	return
}
