package types

import (
	"fmt"
	"math"
	"sort"
)

/*
EdgeKey is an always positive number that stores an edge's vertices as indices in a way that can be compared
An edge between vertices [4] and [0] will always be stored as [0,4], in the ascending order of the index values
*/
type EdgeKey uint64

func NewEdgeKey(verts [2]int) (packed EdgeKey) {
	// This packs two point ids into two 32 bit unsigned integers to act as a hash and an indirect access method
	var (
		limit = math.MaxUint32
	)
	for _, vert := range verts {
		if vert < 0 || vert > limit {
			panic(fmt.Errorf("unable to pack two ints into a uint64, have %d and %d as inputs",
				verts[0], verts[1]))
		}
	}
	var i1, i2 int
	if verts[0] <= verts[1] {
		i1, i2 = verts[0], verts[1]
	} else {
		i1, i2 = verts[1], verts[0]
	}
	packed = EdgeKey(i1 + i2<<32)
	return
}

func (ek EdgeKey) GetVertices(rev bool) (verts [2]int) {
	var (
		enTmp EdgeKey
	)
	enTmp = ek >> 32
	verts[1] = int(enTmp)
	verts[0] = int(ek - enTmp*(1<<32))
	if rev {
		verts[0], verts[1] = verts[1], verts[0]
	}
	return
}

func (ek EdgeKey) String() string {
	v := ek.GetVertices(false)
	return fmt.Sprintf("[%d,%d]", v[0], v[1])
}

type EdgeKeySlice []EdgeKey

func (p EdgeKeySlice) Len() int           { return len(p) }
func (p EdgeKeySlice) Less(i, j int) bool { return p[i] < p[j] }
func (p EdgeKeySlice) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }

// Sort is a convenience method.
func (p EdgeKeySlice) Sort() { sort.Sort(p) }

// SharedPoints returns the point ids present in both a and b, in the order they appear in a.
// Repeated ids within a are only reported once.
func SharedPoints(a, b []int) (shared []int) {
	for i, pa := range a {
		var dup bool
		for _, prev := range a[:i] {
			if prev == pa {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		for _, pb := range b {
			if pa == pb {
				shared = append(shared, pa)
				break
			}
		}
	}
	return
}

// CellEdges returns the edge keys of a closed polygon of point ids.
// A two point polygon (a line) has a single edge.
func CellEdges(pointIDs []int) (edges EdgeKeySlice) {
	var (
		n = len(pointIDs)
	)
	switch {
	case n < 2:
		return
	case n == 2:
		return EdgeKeySlice{NewEdgeKey([2]int{pointIDs[0], pointIDs[1]})}
	}
	edges = make(EdgeKeySlice, n)
	for i := 0; i < n; i++ {
		edges[i] = NewEdgeKey([2]int{pointIDs[i], pointIDs[(i+1)%n]})
	}
	return
}
